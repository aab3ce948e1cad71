// Package tutor explains missed quiz questions, using an LLM when one is
// configured and the lesson's authored explanations otherwise.
package tutor

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/arlab/arlab/internal/catalog"
	"github.com/arlab/arlab/internal/llm"
	"github.com/arlab/arlab/internal/logging"
)

// Service produces explanations. A Service with a nil provider only
// returns authored explanations.
type Service struct {
	provider llm.Provider
	cfg      Config
	logger   *logging.Logger

	mu      sync.Mutex
	pending []Explanation
	ready   bool
	gen     int
}

// NewService creates a Service. provider may be nil.
func NewService(provider llm.Provider, cfg Config, logger *logging.Logger) *Service {
	return &Service{provider: provider, cfg: cfg, logger: logger.OrNop()}
}

// Enabled reports whether an LLM is available.
func (s *Service) Enabled() bool {
	return s != nil && s.provider != nil
}

type explanationOutput struct {
	Explanation string `json:"explanation"`
	Tip         string `json:"tip"`
}

// Explain returns one explanation per missed question, in order. An LLM
// failure on one question falls back to its authored explanation; Explain
// itself only fails when ctx is done.
func (s *Service) Explain(ctx context.Context, lesson catalog.Lesson, missed []Missed) ([]Explanation, error) {
	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}
	ctx = llm.WithPurpose(ctx, "explain")

	out := make([]Explanation, 0, len(missed))
	for _, m := range missed {
		e := authored(m)
		if s.Enabled() {
			gen, err := s.generate(ctx, lesson, m)
			switch {
			case err == nil:
				e = gen
			case ctx.Err() != nil:
				return out, ctx.Err()
			default:
				s.logger.Warn("tutor explanation failed, using authored text",
					"lesson", lesson.ID,
					"question", m.Question.ID,
					"error", err,
				)
			}
		}
		out = append(out, e)
	}
	return out, nil
}

// RequestExplanations starts Explain in the background. A newer request
// supersedes any result not yet consumed.
func (s *Service) RequestExplanations(ctx context.Context, lesson catalog.Lesson, missed []Missed) {
	s.mu.Lock()
	s.gen++
	gen := s.gen
	s.ready = false
	s.pending = nil
	s.mu.Unlock()

	go func() {
		out, err := s.Explain(ctx, lesson, missed)
		if err != nil {
			s.logger.Debug("tutor request abandoned", "lesson", lesson.ID, "error", err)
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		if gen != s.gen {
			return
		}
		s.pending = out
		s.ready = true
	}()
}

// ConsumeExplanations returns the background result once it is ready and
// clears it.
func (s *Service) ConsumeExplanations() ([]Explanation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.ready {
		return nil, false
	}
	out := s.pending
	s.pending = nil
	s.ready = false
	return out, true
}

func (s *Service) generate(ctx context.Context, lesson catalog.Lesson, m Missed) (Explanation, error) {
	resp, err := s.provider.Generate(ctx, llm.Request{
		System:      systemPrompt,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: buildUserMessage(lesson, m)}},
		Schema:      ExplanationSchema,
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	})
	if err != nil {
		return Explanation{}, fmt.Errorf("explain %s: %w", m.Question.ID, err)
	}

	var o explanationOutput
	if err := json.Unmarshal(resp.Content, &o); err != nil {
		return Explanation{}, fmt.Errorf("parse explanation: %w", err)
	}
	e := authored(m)
	e.Text = o.Explanation
	e.Tip = o.Tip
	e.Source = SourceTutor
	return e, nil
}

func authored(m Missed) Explanation {
	text := m.Question.Explanation
	if text == "" {
		text = fmt.Sprintf("The correct answer is %q.", m.Question.CorrectAnswer)
	}
	return Explanation{
		QuestionID:    m.Question.ID,
		Question:      m.Question.Text,
		Given:         m.Given,
		CorrectAnswer: m.Question.CorrectAnswer,
		Text:          text,
		Source:        SourceAuthored,
	}
}
