package lesson

import (
	"context"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arlab/arlab/internal/router"
	"github.com/arlab/arlab/internal/screen/screentest"
	quizscreen "github.com/arlab/arlab/internal/screens/quiz"
	"github.com/arlab/arlab/internal/store"
)

func key(s string) tea.KeyPressMsg {
	switch s {
	case "enter":
		return tea.KeyPressMsg{Code: tea.KeyEnter}
	case "right":
		return tea.KeyPressMsg{Code: tea.KeyRight}
	case "left":
		return tea.KeyPressMsg{Code: tea.KeyLeft}
	}
	r := []rune(s)[0]
	return tea.KeyPressMsg{Code: r, Text: s}
}

func newScreen(t *testing.T, lessonID string) (*LessonScreen, func() store.Progress) {
	t.Helper()
	env := screentest.NewEnv(t)
	s := New(env, screentest.Lesson(t, env, lessonID))
	require.NotNil(t, s.view, s.errMsg)
	t.Cleanup(s.Close)

	load := func() store.Progress {
		env.Queue.Wait()
		p, err := env.Tracker.Load(context.Background(), lessonID, screentest.UserID)
		require.NoError(t, err)
		return p
	}
	return s, load
}

func TestLessonScreen_Navigation(t *testing.T) {
	s, _ := newScreen(t, "physics_001")

	assert.Equal(t, "Newton's Laws of Motion", s.Title())
	assert.Contains(t, s.View(100, 40), "First Law - Inertia")

	s.Update(key("right"))
	assert.Equal(t, 1, s.view.Cursor().Get().Index)
	assert.Contains(t, s.View(100, 40), "Second Law - F=ma")

	s.Update(key("right"))
	s.Update(key("right"))
	assert.Equal(t, 2, s.view.Cursor().Get().Index, "cursor stops at the last step")

	s.Update(key("left"))
	s.Update(key("h"))
	s.Update(key("h"))
	assert.Equal(t, 0, s.view.Cursor().Get().Index)
}

func TestLessonScreen_CompleteStepPersistsAndNotifies(t *testing.T) {
	s, load := newScreen(t, "physics_001")
	listen := s.Init()
	require.NotNil(t, listen)

	s.Update(key("enter"))
	assert.Equal(t, 1, s.view.Cursor().Get().Index, "completing a step advances")

	p := load()
	assert.Equal(t, []int{1}, p.CompletedSteps)

	msg := listen()
	changed, ok := msg.(progressChangedMsg)
	require.True(t, ok, "got %T", msg)
	assert.Equal(t, []int{1}, changed.Progress.CompletedSteps)

	_, next := s.Update(msg)
	assert.NotNil(t, next, "listener re-arms after each update")
}

func TestLessonScreen_Bookmark(t *testing.T) {
	s, load := newScreen(t, "biology_001")

	s.Update(key("b"))
	assert.True(t, load().Bookmarked)

	s.Update(key("b"))
	assert.False(t, load().Bookmarked)
}

func TestLessonScreen_ResetNeedsConfirmation(t *testing.T) {
	s, load := newScreen(t, "physics_001")
	s.Update(key("enter"))
	s.Update(key("enter"))
	require.Equal(t, []int{1, 2}, load().CompletedSteps)

	s.Update(key("r"))
	s.Update(key("n"))
	assert.Equal(t, []int{1, 2}, load().CompletedSteps, "n cancels")

	s.Update(key("r"))
	assert.Contains(t, s.View(100, 40), "Reset all progress")
	s.Update(key("y"))
	assert.Empty(t, load().CompletedSteps)
	assert.Equal(t, 0, s.view.Cursor().Get().Index)
}

func TestLessonScreen_QuizPushesQuizScreen(t *testing.T) {
	s, _ := newScreen(t, "chemistry_001")

	_, cmd := s.Update(key("q"))
	require.NotNil(t, cmd)
	push, ok := cmd().(router.PushScreenMsg)
	require.True(t, ok)
	assert.IsType(t, &quizscreen.QuizScreen{}, push.Screen)
}

func TestLessonScreen_CloseRecordsTime(t *testing.T) {
	s, load := newScreen(t, "biology_001")

	now := time.Unix(1_700_000_000, 0)
	s.now = func() time.Time { return now }
	s.checkpoint = now
	now = now.Add(90 * time.Second)

	s.Close()
	s.Close()
	assert.Equal(t, 90*time.Second, load().TimeSpent, "second Close is a no-op")
}

func TestLessonScreen_ResumeSkipsQuizTime(t *testing.T) {
	s, load := newScreen(t, "biology_001")

	now := time.Unix(1_700_000_000, 0)
	s.now = func() time.Time { return now }
	s.checkpoint = now

	now = now.Add(30 * time.Second)
	s.Update(key("q"))
	now = now.Add(5 * time.Minute)
	s.Resume()
	now = now.Add(10 * time.Second)
	s.Close()

	assert.Equal(t, 40*time.Second, load().TimeSpent)
}

func TestLessonScreen_KeyHints(t *testing.T) {
	s, _ := newScreen(t, "physics_001")
	assert.Len(t, s.KeyHints(), 6)

	s.Update(key("r"))
	assert.Len(t, s.KeyHints(), 2)
}
