// Package lesson is the guided step-by-step screen for one lesson.
package lesson

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/arlab/arlab/internal/catalog"
	"github.com/arlab/arlab/internal/progress"
	"github.com/arlab/arlab/internal/router"
	"github.com/arlab/arlab/internal/screen"
	quizscreen "github.com/arlab/arlab/internal/screens/quiz"
	"github.com/arlab/arlab/internal/store"
	"github.com/arlab/arlab/internal/ui/components"
	"github.com/arlab/arlab/internal/ui/layout"
	"github.com/arlab/arlab/internal/ui/theme"
)

// progressChangedMsg is forwarded from the view's Progress value.
type progressChangedMsg struct {
	Progress store.Progress
}

// writeFailedMsg is forwarded from the view's Errors value.
type writeFailedMsg struct {
	Err error
}

// LessonScreen shows the step under the cursor and the lesson's progress.
type LessonScreen struct {
	env    screen.Env
	lesson catalog.Lesson
	view   *progress.View
	now    func() time.Time

	updates   chan tea.Msg
	done      chan struct{}
	closeOnce sync.Once
	unsubs    []func()

	checkpoint   time.Time
	confirmReset bool
	errMsg       string
}

var _ screen.Screen = (*LessonScreen)(nil)
var _ screen.KeyHintProvider = (*LessonScreen)(nil)
var _ screen.Closer = (*LessonScreen)(nil)
var _ screen.Resumer = (*LessonScreen)(nil)

// New opens the lesson's progress view. A load failure is shown in place
// of the lesson.
func New(env screen.Env, lesson catalog.Lesson) *LessonScreen {
	s := &LessonScreen{
		env:     env,
		lesson:  lesson,
		now:     time.Now,
		updates: make(chan tea.Msg, 8),
		done:    make(chan struct{}),
	}
	s.checkpoint = s.now()

	v, err := progress.OpenView(context.Background(), env.Tracker, env.Queue, lesson, env.UserID)
	if err != nil {
		s.errMsg = err.Error()
		return s
	}
	s.view = v
	s.unsubs = append(s.unsubs,
		v.Progress().Subscribe(func(p store.Progress) { s.forward(progressChangedMsg{Progress: p}) }),
		v.Errors().Subscribe(func(err error) {
			if err != nil {
				s.forward(writeFailedMsg{Err: err})
			}
		}),
	)
	return s
}

// forward runs on the dispatch worker.
func (s *LessonScreen) forward(msg tea.Msg) {
	select {
	case s.updates <- msg:
	case <-s.done:
	}
}

func (s *LessonScreen) listen() tea.Cmd {
	return func() tea.Msg {
		select {
		case msg := <-s.updates:
			return msg
		case <-s.done:
			return nil
		}
	}
}

func (s *LessonScreen) Init() tea.Cmd {
	if s.view == nil {
		return nil
	}
	return s.listen()
}

// Resume reloads the record after a quiz. Time spent in the quiz is not
// counted as lesson time.
func (s *LessonScreen) Resume() tea.Cmd {
	if s.view == nil {
		return nil
	}
	s.checkpoint = s.now()
	s.view.Refresh()
	return nil
}

// Close records time spent and detaches from the view.
func (s *LessonScreen) Close() {
	s.closeOnce.Do(func() {
		s.flushTime()
		for _, u := range s.unsubs {
			u()
		}
		close(s.done)
	})
}

func (s *LessonScreen) flushTime() {
	if s.view == nil {
		return
	}
	now := s.now()
	s.view.AddTimeSpent(now.Sub(s.checkpoint))
	s.checkpoint = now
}

func (s *LessonScreen) Title() string {
	return s.lesson.Title
}

func (s *LessonScreen) KeyHints() []layout.KeyHint {
	if s.confirmReset {
		return []layout.KeyHint{
			{Key: "Y", Description: "Reset progress"},
			{Key: "N", Description: "Cancel"},
		}
	}
	return []layout.KeyHint{
		{Key: "←→", Description: "Step"},
		{Key: "Enter", Description: "Complete"},
		{Key: "B", Description: "Bookmark"},
		{Key: "Q", Description: "Quiz"},
		{Key: "R", Description: "Reset"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *LessonScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case progressChangedMsg:
		s.errMsg = ""
		return s, s.listen()

	case writeFailedMsg:
		s.errMsg = msg.Err.Error()
		return s, s.listen()

	case tea.KeyMsg:
		if s.view == nil {
			return s, nil
		}
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *LessonScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()
	if s.confirmReset {
		s.confirmReset = false
		if key == "y" {
			s.view.Reset()
		}
		return s, nil
	}

	switch key {
	case "right", "l", "n":
		s.view.Next()
	case "left", "h", "p":
		s.view.Previous()
	case "enter", "space":
		if s.lesson.TotalSteps() > 0 {
			s.view.CompleteStep()
		}
	case "b":
		s.view.ToggleBookmark()
	case "r":
		s.confirmReset = true
	case "q":
		s.flushTime()
		next := quizscreen.New(s.env, s.lesson)
		return s, func() tea.Msg { return router.PushScreenMsg{Screen: next} }
	}
	return s, nil
}

func (s *LessonScreen) View(width, height int) string {
	if s.view == nil {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
			theme.Incorrect.Render("Could not open lesson: "+s.errMsg))
	}

	p := s.view.Progress().Get()
	cur := s.view.Cursor().Get()
	cw := components.ContentWidth(width)

	var b strings.Builder

	head := components.SubjectBadge(s.lesson.Subject) + theme.Hint.Render(fmt.Sprintf(
		"  ·  %s  ·  ~%d min", s.lesson.Difficulty, s.lesson.EstimatedMinutes))
	if p.Bookmarked {
		head += lipgloss.NewStyle().Foreground(theme.Highlight).Render("  ★")
	}
	b.WriteString(layout.Centered(head, width) + "\n")
	if !layout.IsCompactWidth(width) {
		b.WriteString(layout.Centered(theme.Hint.Render("model: "+s.lesson.ModelPath), width) + "\n")
	}
	b.WriteString("\n")

	b.WriteString(layout.Centered(renderStepDots(p, cur), width) + "\n\n")

	if cur.Total == 0 {
		b.WriteString(layout.Centered(components.Card(theme.Hint.Render("This lesson has no guided steps."), cw), width))
	} else {
		b.WriteString(layout.Centered(components.Card(renderStep(s.view.CurrentStep(), cur, p, cw), cw), width))
	}
	b.WriteString("\n\n")

	bar := components.NewMeter("Steps", progress.CompletedCount(p, cur.Total), cur.Total, cw)
	b.WriteString(layout.Centered(bar.View(), width) + "\n")

	quizLine := "Quiz not taken yet"
	if p.QuizAttempts > 0 {
		quizLine = fmt.Sprintf("Last quiz score %d%% after %d attempt(s)", p.QuizScore, p.QuizAttempts)
	}
	if p.Completed {
		quizLine += "  " + theme.Correct.Render("✓ completed")
	}
	b.WriteString(layout.Centered(theme.Hint.Render(quizLine), width) + "\n")

	if s.confirmReset {
		b.WriteString("\n" + layout.Centered(theme.Incorrect.Render("Reset all progress for this lesson? (y/n)"), width))
	}
	if s.errMsg != "" {
		b.WriteString("\n" + layout.Centered(theme.Incorrect.Render("Not saved: "+s.errMsg), width))
	}
	return b.String()
}

func renderStepDots(p store.Progress, cur progress.Cursor) string {
	dots := make([]string, cur.Total)
	for i := range cur.Total {
		dot := "○"
		style := lipgloss.NewStyle().Foreground(theme.TextDim)
		if p.HasStep(i + 1) {
			dot = "●"
			style = style.Foreground(theme.Success)
		}
		if i == cur.Index {
			style = style.Bold(true).Underline(true)
		}
		dots[i] = style.Render(dot)
	}
	return strings.Join(dots, " ")
}

func renderStep(step catalog.LabStep, cur progress.Cursor, p store.Progress, cw int) string {
	var b strings.Builder
	title := fmt.Sprintf("Step %d of %d: %s", cur.Step(), cur.Total, step.Title)
	b.WriteString(theme.Selected.Render(title))
	if p.HasStep(step.Number) {
		b.WriteString("  " + theme.Correct.Render("✓"))
	}
	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Width(max(cw-6, 10)).Render(step.Instruction))
	b.WriteString("\n")

	if h := step.Highlight; h != nil {
		b.WriteString("\n" + theme.Hint.Render(fmt.Sprintf("Highlight %s (%s) for %dms", h.ObjectID, h.Color, h.DurationMs)))
	}
	if step.RequiresInteraction() {
		b.WriteString("\n" + theme.Hint.Render("Interaction: "+string(step.Interaction)))
	}
	if step.ExpectedOutcome != "" {
		b.WriteString("\n" + theme.Hint.Render("Expect: "+step.ExpectedOutcome))
	}
	return b.String()
}
