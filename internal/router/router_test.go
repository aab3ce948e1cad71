package router

import (
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"

	"github.com/arlab/arlab/internal/screen"
)

type fakeScreen struct {
	title   string
	inits   int
	closed  int
	resumed int
	got     []tea.Msg
}

func (s *fakeScreen) Init() tea.Cmd { s.inits++; return nil }
func (s *fakeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	s.got = append(s.got, msg)
	return s, nil
}
func (s *fakeScreen) View(int, int) string { return s.title }
func (s *fakeScreen) Title() string        { return s.title }
func (s *fakeScreen) Close()               { s.closed++ }

type resumable struct{ *fakeScreen }

func (s resumable) Resume() tea.Cmd { s.resumed++; return nil }

func TestPushPop(t *testing.T) {
	home := &fakeScreen{title: "Lessons"}
	r := New(home)
	r.Init()
	assert.Equal(t, 1, home.inits)

	lesson := &fakeScreen{title: "Newton's Laws"}
	r.Update(PushScreenMsg{Screen: lesson})
	assert.Equal(t, 2, r.Depth())
	assert.Same(t, lesson, r.Active())
	assert.Equal(t, 1, lesson.inits)
	assert.Equal(t, "Newton's Laws", r.View(80, 24))

	r.Update(PopScreenMsg{})
	assert.Equal(t, 1, r.Depth())
	assert.Same(t, home, r.Active())
	assert.Equal(t, 1, lesson.closed)
}

func TestRootIsNeverPopped(t *testing.T) {
	home := &fakeScreen{title: "Lessons"}
	r := New(home)

	assert.Nil(t, r.Pop())
	assert.Equal(t, 1, r.Depth())
	assert.Zero(t, home.closed)
}

func TestReplaceKeepsDepth(t *testing.T) {
	r := New(&fakeScreen{title: "Lessons"})
	r.Push(&fakeScreen{title: "Newton's Laws"})
	quiz := &fakeScreen{title: "Quiz"}
	r.Push(quiz)

	result := &fakeScreen{title: "Result"}
	r.Update(ReplaceScreenMsg{Screen: result})

	assert.Equal(t, 3, r.Depth())
	assert.Same(t, result, r.Active())
	assert.Equal(t, 1, quiz.closed)
	assert.Equal(t, 1, result.inits)

	r.Pop()
	assert.Equal(t, "Newton's Laws", r.Active().Title())
}

func TestPopResumesRevealedScreen(t *testing.T) {
	home := resumable{&fakeScreen{title: "Lessons"}}
	r := New(home)
	r.Push(&fakeScreen{title: "Dashboard"})

	r.Pop()
	assert.Equal(t, 1, home.resumed)

	r.Pop()
	assert.Equal(t, 1, home.resumed, "no-op pop must not resume")
}

func TestCloseAll(t *testing.T) {
	home := &fakeScreen{title: "Lessons"}
	lesson := &fakeScreen{title: "Newton's Laws"}
	r := New(home)
	r.Push(lesson)

	r.CloseAll()
	assert.Equal(t, 1, home.closed)
	assert.Equal(t, 1, lesson.closed)
}

func TestTrailSkipsUntitledScreens(t *testing.T) {
	r := New(&fakeScreen{})
	assert.Empty(t, r.Trail())

	r.Replace(&fakeScreen{title: "Lessons"})
	r.Push(&fakeScreen{title: "Newton's Laws"})
	r.Push(&fakeScreen{title: "Quiz"})
	assert.Equal(t, []string{"Lessons", "Newton's Laws", "Quiz"}, r.Trail())
}

func TestOtherMessagesGoToTop(t *testing.T) {
	home := &fakeScreen{title: "Lessons"}
	top := &fakeScreen{title: "Quiz"}
	r := New(home)
	r.Push(top)

	r.Update(tea.KeyPressMsg{Code: 'j'})
	assert.Len(t, top.got, 1)
	assert.Empty(t, home.got)
}
