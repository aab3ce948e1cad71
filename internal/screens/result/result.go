// Package result shows a submitted quiz: score, pass or fail, the answer
// log and explanations for missed questions.
package result

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/arlab/arlab/internal/catalog"
	"github.com/arlab/arlab/internal/quiz"
	"github.com/arlab/arlab/internal/router"
	"github.com/arlab/arlab/internal/screen"
	"github.com/arlab/arlab/internal/tutor"
	"github.com/arlab/arlab/internal/ui/layout"
	"github.com/arlab/arlab/internal/ui/theme"
)

const pollInterval = 200 * time.Millisecond

type explainPollMsg struct{}

type savedMsg struct {
	Err error
}

// ResultScreen displays one submitted attempt.
type ResultScreen struct {
	env     screen.Env
	lesson  catalog.Lesson
	session *quiz.Session
	result  quiz.Result
	saveErr error
	saving  bool
	retry   func() screen.Screen

	missed       []tutor.Missed
	explanations []tutor.Explanation
	explaining   bool
}

var _ screen.Screen = (*ResultScreen)(nil)
var _ screen.KeyHintProvider = (*ResultScreen)(nil)

// New creates a ResultScreen. saveErr is the persistence error from
// Submit, if any; the learner can retry the save from here. retry builds a
// fresh quiz screen for another attempt.
func New(env screen.Env, lesson catalog.Lesson, s *quiz.Session, r quiz.Result, saveErr error, retry func() screen.Screen) *ResultScreen {
	return &ResultScreen{
		env:     env,
		lesson:  lesson,
		session: s,
		result:  r,
		saveErr: saveErr,
		retry:   retry,
		missed:  tutor.MissedFrom(lesson.Quiz, r.Answers),
	}
}

func (s *ResultScreen) Init() tea.Cmd {
	if s.env.Tutor == nil || len(s.missed) == 0 {
		return nil
	}
	s.env.Tutor.RequestExplanations(context.Background(), s.lesson, s.missed)
	s.explaining = true
	return poll()
}

func poll() tea.Cmd {
	return tea.Tick(pollInterval, func(time.Time) tea.Msg { return explainPollMsg{} })
}

func (s *ResultScreen) Title() string {
	return "Quiz Result"
}

func (s *ResultScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{
		{Key: "R", Description: "Retry"},
		{Key: "Enter", Description: "Back to lesson"},
	}
	if s.saveErr != nil && !s.saving {
		hints = append(hints, layout.KeyHint{Key: "S", Description: "Save again"})
	}
	return hints
}

func (s *ResultScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case explainPollMsg:
		if !s.explaining {
			return s, nil
		}
		if exps, ok := s.env.Tutor.ConsumeExplanations(); ok {
			s.explanations = exps
			s.explaining = false
			return s, nil
		}
		return s, poll()

	case savedMsg:
		s.saving = false
		s.saveErr = msg.Err
		return s, nil

	case tea.KeyMsg:
		if s.saving {
			return s, nil
		}
		switch msg.String() {
		case "r":
			if s.retry == nil {
				return s, nil
			}
			next := s.retry()
			return s, func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
		case "s":
			if s.saveErr == nil {
				return s, nil
			}
			s.saving = true
			sess := s.session
			return s, func() tea.Msg {
				return savedMsg{Err: sess.Record(context.Background())}
			}
		case "enter":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
	}
	return s, nil
}

func (s *ResultScreen) View(width, height int) string {
	r := s.result
	var b strings.Builder

	verdict := theme.Correct.Render("PASSED")
	if !r.Passed {
		verdict = theme.Incorrect.Render("NOT PASSED")
	}
	b.WriteString(layout.Centered(theme.Title.Render(s.lesson.Quiz.Title), width))
	b.WriteString("\n\n")
	b.WriteString(layout.Centered(fmt.Sprintf("%s  %s",
		lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(fmt.Sprintf("%d%%", r.Score)),
		verdict), width))
	b.WriteString("\n")
	b.WriteString(layout.Centered(theme.Hint.Render(fmt.Sprintf(
		"%d of %d correct, %d%% needed to pass", r.CorrectAnswers, r.TotalQuestions, r.PassingScore)), width))
	b.WriteString("\n\n")

	switch {
	case s.saving:
		b.WriteString(layout.Centered(theme.Hint.Render("Saving..."), width) + "\n\n")
	case s.saveErr != nil:
		b.WriteString(layout.Centered(theme.Incorrect.Render("Not saved: "+s.saveErr.Error()), width) + "\n\n")
	}

	b.WriteString(layout.Centered(layout.Divider(width), width) + "\n")
	for i, q := range s.lesson.Quiz.Questions {
		given := "(no answer)"
		correct := false
		if i < len(r.Answers) && !r.Answers[i].Skipped {
			given = r.Answers[i].Given
			correct = r.Answers[i].Correct
		}
		mark := theme.Correct.Render("✓")
		if !correct {
			mark = theme.Incorrect.Render("✗")
		}
		b.WriteString(fmt.Sprintf("  %s %s\n", mark, q.Text))
		b.WriteString(theme.Hint.Render(fmt.Sprintf("      your answer: %s", given)) + "\n")
	}

	if len(s.missed) > 0 {
		b.WriteString("\n" + layout.Centered(layout.Divider(width), width) + "\n")
		if s.explaining {
			b.WriteString(theme.Hint.Render("  Preparing explanations...") + "\n")
		}
		for _, e := range s.explanations {
			b.WriteString(renderExplanation(e, width))
		}
	}
	return b.String()
}

func renderExplanation(e tutor.Explanation, width int) string {
	body := lipgloss.NewStyle().Foreground(theme.Text).Width(max(width-6, 20))
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render(
		fmt.Sprintf("  %s  → %s", e.Question, e.CorrectAnswer)) + "\n")
	b.WriteString(lipgloss.NewStyle().PaddingLeft(4).Render(body.Render(e.Text)) + "\n")
	if e.Tip != "" {
		b.WriteString(lipgloss.NewStyle().PaddingLeft(4).Render(theme.Hint.Render("Tip: "+e.Tip)) + "\n")
	}
	return b.String()
}
