// Package quiz runs one attempt at a lesson quiz: question sequencing,
// answer checking, scoring and handing the result to a recorder.
package quiz

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/arlab/arlab/internal/catalog"
	"github.com/arlab/arlab/internal/store"
)

var (
	// ErrInvalidState is returned when an operation is not allowed in the
	// session's current state.
	ErrInvalidState = errors.New("invalid quiz state")

	// ErrNoQuestions is returned by Start for a quiz without questions.
	ErrNoQuestions = errors.New("quiz has no questions")

	// ErrNoMoreQuestions is returned by AdvanceQuestion on the last question.
	ErrNoMoreQuestions = errors.New("no more questions")

	// ErrAnswerOverflow is returned when the current question already has
	// an answer.
	ErrAnswerOverflow = errors.New("question already answered")
)

// State is the lifecycle state of a Session.
type State int

const (
	StateNotStarted State = iota // Created, no quiz loaded
	StateInProgress              // Serving questions
	StateSubmitted               // Scored; only Retry leaves this state
)

func (s State) String() string {
	switch s {
	case StateNotStarted:
		return "not_started"
	case StateInProgress:
		return "in_progress"
	case StateSubmitted:
		return "submitted"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Recorder persists a scored attempt. progress.Tracker implements it.
type Recorder interface {
	RecordQuizResult(ctx context.Context, a *store.Attempt) error
}

// Answer is one entry of the answer log. The log holds one entry per
// question up to the current one; a question left by AdvanceQuestion
// without an answer is logged as Skipped.
type Answer struct {
	QuestionID string
	Given      string
	Correct    bool
	Skipped    bool
}

// Result is the outcome of a submitted attempt.
type Result struct {
	AttemptID      string
	Score          int // 0..100
	TotalQuestions int
	CorrectAnswers int
	PassingScore   int
	Passed         bool
	Answers        []Answer
}

// Option configures a Session.
type Option func(*Session)

// WithClock overrides the clock used for timing and attempt timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// Session is the state machine for one quiz attempt. It is not safe for
// concurrent use; the owning screen or request drives it.
type Session struct {
	recorder Recorder
	lessonID string
	userID   string
	now      func() time.Time

	state   State
	quiz    catalog.Quiz
	index   int
	answers []Answer
	correct int
	started time.Time
	result  *Result
}

// New creates a NotStarted session. recorder may be nil, in which case
// Submit scores without persisting.
func New(recorder Recorder, lessonID, userID string, opts ...Option) *Session {
	s := &Session{
		recorder: recorder,
		lessonID: lessonID,
		userID:   userID,
		now:      time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Start loads q and moves to the first question.
func (s *Session) Start(q catalog.Quiz) error {
	if len(q.Questions) == 0 {
		return fmt.Errorf("start quiz %q: %w", q.ID, ErrNoQuestions)
	}
	s.quiz = q
	s.reset()
	return nil
}

func (s *Session) reset() {
	s.state = StateInProgress
	s.index = 0
	s.answers = nil
	s.correct = 0
	s.result = nil
	s.started = s.now()
}

// CurrentQuestion returns the question at the current index.
func (s *Session) CurrentQuestion() (catalog.Question, error) {
	if s.state != StateInProgress {
		return catalog.Question{}, s.stateErr("current question")
	}
	return s.quiz.Questions[s.index], nil
}

// SubmitAnswer logs answer for the current question and reports whether it
// matches the correct answer exactly. A wrong answer is not an error.
func (s *Session) SubmitAnswer(answer string) (bool, error) {
	if s.state != StateInProgress {
		return false, s.stateErr("submit answer")
	}
	if len(s.answers) > s.index {
		return false, fmt.Errorf("question %d: %w", s.index+1, ErrAnswerOverflow)
	}

	q := s.quiz.Questions[s.index]
	correct := answer == q.CorrectAnswer
	s.answers = append(s.answers, Answer{QuestionID: q.ID, Given: answer, Correct: correct})
	if correct {
		s.correct++
	}
	return correct, nil
}

// AdvanceQuestion moves to the next question, logging the current one as
// skipped if it has no answer. On the last question it returns
// ErrNoMoreQuestions and leaves the session unchanged; the caller should
// Submit instead.
func (s *Session) AdvanceQuestion() error {
	if s.state != StateInProgress {
		return s.stateErr("advance question")
	}
	if s.index >= len(s.quiz.Questions)-1 {
		return ErrNoMoreQuestions
	}
	if len(s.answers) == s.index {
		q := s.quiz.Questions[s.index]
		s.answers = append(s.answers, Answer{QuestionID: q.ID, Skipped: true})
	}
	s.index++
	return nil
}

// Submit scores the attempt, moves to Submitted and hands the result to the
// recorder. If recording fails the session stays Submitted and the result
// is returned along with the error, so the caller can show the score and
// offer to save again.
func (s *Session) Submit(ctx context.Context) (Result, error) {
	if s.state != StateInProgress {
		return Result{}, s.stateErr("submit")
	}

	total := len(s.quiz.Questions)
	score := Score(s.correct, total)
	r := Result{
		AttemptID:      uuid.NewString(),
		Score:          score,
		TotalQuestions: total,
		CorrectAnswers: s.correct,
		PassingScore:   s.quiz.PassingScore,
		Passed:         score >= s.quiz.PassingScore,
		Answers:        s.Answers(),
	}
	s.state = StateSubmitted
	s.result = &r

	if err := s.record(ctx, r); err != nil {
		return r, err
	}
	return r, nil
}

// Record retries persistence of the submitted result.
func (s *Session) Record(ctx context.Context) error {
	if s.state != StateSubmitted || s.result == nil {
		return s.stateErr("record")
	}
	return s.record(ctx, *s.result)
}

func (s *Session) record(ctx context.Context, r Result) error {
	if s.recorder == nil {
		return nil
	}
	given := make([]string, len(r.Answers))
	for i, a := range r.Answers {
		given[i] = a.Given
	}
	a := &store.Attempt{
		ID:          r.AttemptID,
		LessonID:    s.lessonID,
		UserID:      s.userID,
		QuizID:      s.quiz.ID,
		Score:       r.Score,
		Correct:     r.CorrectAnswers,
		Total:       r.TotalQuestions,
		Passed:      r.Passed,
		Answers:     given,
		SubmittedAt: s.now(),
	}
	if err := s.recorder.RecordQuizResult(ctx, a); err != nil {
		return fmt.Errorf("record quiz result: %w", err)
	}
	return nil
}

// Retry discards the attempt and starts again from the first question
// with the same quiz.
func (s *Session) Retry() error {
	if s.state == StateNotStarted {
		return s.stateErr("retry")
	}
	s.reset()
	return nil
}

// Result returns the submitted result, if any.
func (s *Session) Result() (Result, bool) {
	if s.result == nil {
		return Result{}, false
	}
	return *s.result, true
}

// Missed returns the questions answered wrongly or left unanswered, in
// quiz order.
func (s *Session) Missed() []catalog.Question {
	var out []catalog.Question
	for i, q := range s.quiz.Questions {
		if i >= len(s.answers) || !s.answers[i].Correct {
			out = append(out, q)
		}
	}
	return out
}

// Remaining returns the time left on a timed quiz. ok is false for
// untimed quizzes and before Start.
func (s *Session) Remaining(now time.Time) (left time.Duration, ok bool) {
	if s.state == StateNotStarted || s.quiz.TimeLimitSecs <= 0 {
		return 0, false
	}
	limit := time.Duration(s.quiz.TimeLimitSecs) * time.Second
	return max(limit-now.Sub(s.started), 0), true
}

// State returns the lifecycle state.
func (s *Session) State() State { return s.state }

// Quiz returns the loaded quiz.
func (s *Session) Quiz() catalog.Quiz { return s.quiz }

// Index returns the zero-based current question index.
func (s *Session) Index() int { return s.index }

// Total returns the number of questions.
func (s *Session) Total() int { return len(s.quiz.Questions) }

// Correct returns the running correct-answer count.
func (s *Session) Correct() int { return s.correct }

// Answers returns a copy of the answer log.
func (s *Session) Answers() []Answer {
	return append([]Answer(nil), s.answers...)
}

func (s *Session) stateErr(op string) error {
	return fmt.Errorf("%s in state %s: %w", op, s.state, ErrInvalidState)
}

// Score returns floor(correct*100/total), or 0 when total is 0.
func Score(correct, total int) int {
	if total <= 0 {
		return 0
	}
	return correct * 100 / total
}
