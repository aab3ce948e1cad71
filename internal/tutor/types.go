package tutor

import (
	"time"

	"github.com/arlab/arlab/internal/catalog"
	"github.com/arlab/arlab/internal/quiz"
)

// Source says where an explanation came from.
type Source string

const (
	SourceAuthored Source = "authored" // the lesson data's own explanation
	SourceTutor    Source = "tutor"    // generated for this learner's answer
)

// Explanation is feedback for one missed question.
type Explanation struct {
	QuestionID    string
	Question      string
	Given         string // empty when the question was left unanswered
	CorrectAnswer string
	Text          string
	Tip           string // optional short memory aid, tutor only
	Source        Source
}

// Missed pairs a question with the learner's wrong (or missing) answer.
type Missed struct {
	Question catalog.Question
	Given    string
}

// MissedFrom lists the questions of q that the answer log does not show as
// correct, in quiz order.
func MissedFrom(q catalog.Quiz, answers []quiz.Answer) []Missed {
	given := make(map[string]quiz.Answer, len(answers))
	for _, a := range answers {
		given[a.QuestionID] = a
	}
	var out []Missed
	for _, question := range q.Questions {
		a, ok := given[question.ID]
		if ok && a.Correct {
			continue
		}
		out = append(out, Missed{Question: question, Given: a.Given})
	}
	return out
}

// Config holds generation settings.
type Config struct {
	MaxTokens   int
	Temperature float64

	// Timeout bounds the whole batch of explanations for one quiz.
	Timeout time.Duration
}

// DefaultConfig keeps explanations short and fairly deterministic.
func DefaultConfig() Config {
	return Config{
		MaxTokens:   300,
		Temperature: 0.3,
		Timeout:     45 * time.Second,
	}
}
