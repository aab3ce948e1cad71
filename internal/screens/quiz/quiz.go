// Package quiz is the screen that walks the learner through a lesson quiz
// one question at a time.
package quiz

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/arlab/arlab/internal/catalog"
	sess "github.com/arlab/arlab/internal/quiz"
	"github.com/arlab/arlab/internal/router"
	"github.com/arlab/arlab/internal/screen"
	"github.com/arlab/arlab/internal/screens/result"
	"github.com/arlab/arlab/internal/ui/components"
	"github.com/arlab/arlab/internal/ui/layout"
	"github.com/arlab/arlab/internal/ui/theme"
)

// timerTickMsg is sent every second while a time limit applies.
type timerTickMsg time.Time

// submittedMsg carries the outcome of Submit, which runs off the UI loop.
type submittedMsg struct {
	Result sess.Result
	Err    error
}

// QuizScreen drives one quiz session.
type QuizScreen struct {
	env     screen.Env
	lesson  catalog.Lesson
	session *sess.Session
	now     func() time.Time

	choice      components.MultiChoice
	feedback    bool
	lastCorrect bool
	submitting  bool
	errMsg      string
}

var _ screen.Screen = (*QuizScreen)(nil)
var _ screen.KeyHintProvider = (*QuizScreen)(nil)

// New creates a QuizScreen and starts the lesson's quiz.
func New(env screen.Env, lesson catalog.Lesson) *QuizScreen {
	s := &QuizScreen{
		env:     env,
		lesson:  lesson,
		session: sess.New(env.Tracker, lesson.ID, env.UserID),
		now:     time.Now,
	}
	if err := s.session.Start(lesson.Quiz); err != nil {
		s.errMsg = err.Error()
		return s
	}
	s.loadQuestion()
	return s
}

func (s *QuizScreen) Init() tea.Cmd {
	if s.lesson.Quiz.TimeLimitSecs > 0 && s.errMsg == "" {
		return tick()
	}
	return nil
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return timerTickMsg(t) })
}

func (s *QuizScreen) Title() string {
	return "Quiz"
}

func (s *QuizScreen) KeyHints() []layout.KeyHint {
	switch {
	case s.errMsg != "":
		return []layout.KeyHint{{Key: "Esc", Description: "Back"}}
	case s.feedback:
		return []layout.KeyHint{{Key: "any key", Description: "Continue"}}
	default:
		return []layout.KeyHint{
			{Key: "↑↓/1-9", Description: "Choose"},
			{Key: "Enter", Description: "Answer"},
			{Key: "Esc", Description: "Abandon"},
		}
	}
}

func (s *QuizScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case timerTickMsg:
		if s.submitting || s.session.State() != sess.StateInProgress {
			return s, nil
		}
		if left, ok := s.session.Remaining(time.Time(msg)); ok && left <= 0 {
			return s, s.submit()
		}
		return s, tick()

	case submittedMsg:
		lesson, env := s.lesson, s.env
		retry := func() screen.Screen { return New(env, lesson) }
		next := result.New(env, lesson, s.session, msg.Result, msg.Err, retry)
		return s, func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }

	case tea.KeyMsg:
		if s.submitting || s.errMsg != "" {
			return s, nil
		}
		if s.feedback {
			return s, s.advance()
		}
		var cmd tea.Cmd
		s.choice, cmd = s.choice.Update(msg)
		if answer, ok := s.choice.Chosen(); ok {
			s.answer(answer)
		}
		return s, cmd
	}
	return s, nil
}

func (s *QuizScreen) answer(given string) {
	correct, err := s.session.SubmitAnswer(given)
	if err != nil {
		s.errMsg = err.Error()
		return
	}
	q, _ := s.session.CurrentQuestion()
	s.choice.Reveal(q.CorrectAnswer)
	s.lastCorrect = correct
	s.feedback = true
}

func (s *QuizScreen) advance() tea.Cmd {
	s.feedback = false
	err := s.session.AdvanceQuestion()
	switch {
	case errors.Is(err, sess.ErrNoMoreQuestions):
		return s.submit()
	case err != nil:
		s.errMsg = err.Error()
		return nil
	}
	s.loadQuestion()
	return nil
}

func (s *QuizScreen) loadQuestion() {
	q, err := s.session.CurrentQuestion()
	if err != nil {
		s.errMsg = err.Error()
		return
	}
	s.choice = components.NewMultiChoice(q.Options)
}

// submit scores the attempt in a command; the session is not touched by
// Update again until submittedMsg arrives.
func (s *QuizScreen) submit() tea.Cmd {
	s.submitting = true
	session := s.session
	return func() tea.Msg {
		r, err := session.Submit(context.Background())
		return submittedMsg{Result: r, Err: err}
	}
}

func (s *QuizScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
			theme.Incorrect.Render("Quiz unavailable: "+s.errMsg))
	}
	if s.submitting {
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
			theme.Hint.Render("Scoring..."))
	}

	q, err := s.session.CurrentQuestion()
	if err != nil {
		return ""
	}

	var b strings.Builder
	info := fmt.Sprintf("  %s   Q %d/%d   ✓ %d",
		s.lesson.Quiz.Title, s.session.Index()+1, s.session.Total(), s.session.Correct())
	if left, ok := s.session.Remaining(s.now()); ok {
		info += fmt.Sprintf("   ⏱ %d:%02d", int(left.Minutes()), int(left.Seconds())%60)
	}
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render(info))
	b.WriteString("\n")
	b.WriteString(layout.Divider(width))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Width(max(width-4, 20)).Render("  " + q.Text))
	b.WriteString("\n\n")
	b.WriteString(s.choice.View())

	if s.feedback {
		b.WriteString("\n")
		if s.lastCorrect {
			b.WriteString(theme.Correct.Render("  Correct!"))
		} else {
			b.WriteString(theme.Incorrect.Render("  Not quite. The answer is " + q.CorrectAnswer + "."))
		}
		b.WriteString("\n")
	}
	return b.String()
}
