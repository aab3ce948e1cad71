package cmd

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arlab/arlab/internal/catalog"
	"github.com/arlab/arlab/internal/quiz"
	"github.com/arlab/arlab/internal/store"
)

type memRecorder struct {
	attempts []*store.Attempt
}

func (m *memRecorder) RecordQuizResult(_ context.Context, a *store.Attempt) error {
	m.attempts = append(m.attempts, a)
	return nil
}

func physicsQuiz(t *testing.T) catalog.Quiz {
	t.Helper()
	cat, err := catalog.Default()
	require.NoError(t, err)
	l, ok := cat.Get("physics_001")
	require.True(t, ok)
	return l.Quiz
}

func startQuiz(t *testing.T, rec quiz.Recorder) *quiz.Session {
	t.Helper()
	s := quiz.New(rec, "physics_001", "u1")
	require.NoError(t, s.Start(physicsQuiz(t)))
	return s
}

func TestParseChoice(t *testing.T) {
	q := physicsQuiz(t).Questions[0]

	tests := []struct {
		line    string
		want    string
		wantErr bool
	}{
		{"2", "Inertia", false},
		{" 1 ", "Gravity", false},
		{"inertia", "Inertia", false},
		{"MOMENTUM", "Momentum", false},
		{"0", "", true},
		{"5", "", true},
		{"", "", true},
		{"friction", "", true},
	}
	for _, tt := range tests {
		got, err := parseChoice(tt.line, q)
		if tt.wantErr {
			assert.Error(t, err, "line %q", tt.line)
			continue
		}
		require.NoError(t, err, "line %q", tt.line)
		assert.Equal(t, tt.want, got)
	}
}

func TestPlayQuiz_AllAnswered(t *testing.T) {
	rec := &memRecorder{}
	s := startQuiz(t, rec)
	var out bytes.Buffer

	r, err := playQuiz(context.Background(), strings.NewReader("2\nfirst law\n"), &out, s)
	require.NoError(t, err)

	assert.Equal(t, 50, r.Score)
	assert.False(t, r.Passed)
	assert.Contains(t, out.String(), "Correct!")
	assert.Contains(t, out.String(), "The answer is Second Law")
	require.Len(t, rec.attempts, 1)
	assert.Equal(t, quiz.StateSubmitted, s.State())
}

func TestPlayQuiz_InvalidInputReprompts(t *testing.T) {
	s := startQuiz(t, &memRecorder{})
	var out bytes.Buffer

	r, err := playQuiz(context.Background(), strings.NewReader("9\nInertia\n2\n"), &out, s)
	require.NoError(t, err)

	assert.Equal(t, 100, r.Score)
	assert.Contains(t, out.String(), "pick a number from 1 to 4")
}

func TestPlayQuiz_EOFSubmitsEarly(t *testing.T) {
	rec := &memRecorder{}
	s := startQuiz(t, rec)
	var out bytes.Buffer

	r, err := playQuiz(context.Background(), strings.NewReader("2\n"), &out, s)
	require.NoError(t, err)

	assert.Equal(t, 50, r.Score)
	assert.Equal(t, 2, r.TotalQuestions)
	assert.Len(t, r.Answers, 1)
	assert.Len(t, rec.attempts, 1)
}

func TestPrintResult(t *testing.T) {
	var out bytes.Buffer
	printResult(&out, quiz.Result{Score: 100, TotalQuestions: 2, CorrectAnswers: 2, PassingScore: 70, Passed: true})
	assert.Contains(t, out.String(), "Score: 100% (2/2), passed")

	out.Reset()
	printResult(&out, quiz.Result{})
	assert.Empty(t, out.String())
}
