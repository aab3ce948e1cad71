package pgstore

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arlab/arlab/internal/store"
)

// openTestStore connects to ARLAB_TEST_POSTGRES_DSN and isolates the test by
// user ID, since the database is shared across runs.
func openTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	dsn := os.Getenv("ARLAB_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("set ARLAB_TEST_POSTGRES_DSN to run postgres integration tests")
	}
	s, err := Open(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s, "test-" + uuid.NewString()
}

func TestProgressRoundTrip(t *testing.T) {
	s, user := openTestStore(t)
	repo := s.ProgressRepo()
	ctx := context.Background()

	got, err := repo.Get(ctx, "physics_001", user)
	require.NoError(t, err)
	assert.Nil(t, got)

	p := store.NewProgress("physics_001", user)
	p.AddStep(2)
	p.AddStep(1)
	p.QuizScore = 50
	p.QuizAttempts = 1
	p.LastAccessed = time.UnixMilli(1_700_000_000_000)
	require.NoError(t, repo.Put(ctx, p))

	p.Bookmarked = true
	require.NoError(t, repo.Put(ctx, p))

	got, err = repo.Get(ctx, "physics_001", user)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, []int{1, 2}, got.CompletedSteps)
	assert.True(t, got.Bookmarked)
	assert.Equal(t, 50, got.QuizScore)

	summary, err := repo.Summary(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Lessons)
	assert.Equal(t, 1, summary.Bookmarked)
	assert.InDelta(t, 50.0, summary.AverageScore, 0.001)

	require.NoError(t, repo.Delete(ctx, "physics_001", user))
	got, err = repo.Get(ctx, "physics_001", user)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestAttemptsAndEvents(t *testing.T) {
	s, user := openTestStore(t)
	ctx := context.Background()

	a := &store.Attempt{
		ID:       uuid.NewString(),
		LessonID: "physics_001",
		UserID:   user,
		QuizID:   "quiz_physics_001",
		Score:    100,
		Correct:  2,
		Total:    2,
		Passed:   true,
		Answers:  []string{"Inertia", "Second Law"},
	}
	require.NoError(t, s.AttemptRepo().Append(ctx, a))
	assert.NotZero(t, a.Sequence)
	dup := *a
	dup.Sequence = 0
	require.NoError(t, s.AttemptRepo().Append(ctx, &dup))
	assert.Zero(t, dup.Sequence)

	list, err := s.AttemptRepo().List(ctx, "physics_001", user, store.QueryOpts{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, []string{"Inertia", "Second Law"}, list[0].Answers)

	require.NoError(t, s.EventRepo().AppendLLMRequest(ctx, store.LLMRequestEventData{
		Provider: "mock", Model: "mock", Purpose: "explain-" + user, Success: true,
	}))
	events, err := s.EventRepo().QueryLLMEvents(ctx, store.QueryOpts{Limit: 1})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "explain-"+user, events[0].Purpose)
}
