package store

import (
	"context"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgress_GetMissing(t *testing.T) {
	repo := openTestStore(t).ProgressRepo()
	got, err := repo.Get(context.Background(), "physics_001", "u1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestProgress_PutGet(t *testing.T) {
	repo := openTestStore(t).ProgressRepo()
	ctx := context.Background()

	accessed := time.UnixMilli(1_700_000_000_123)
	p := Progress{
		LessonID:       "physics_001",
		UserID:         "u1",
		CompletedSteps: []int{1, 3},
		QuizScore:      50,
		QuizAttempts:   1,
		LastAccessed:   accessed,
		TimeSpent:      90 * time.Second,
		Bookmarked:     true,
	}
	require.NoError(t, repo.Put(ctx, p))

	got, err := repo.Get(ctx, "physics_001", "u1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, []int{1, 3}, got.CompletedSteps)
	assert.Equal(t, 50, got.QuizScore)
	assert.Equal(t, 1, got.QuizAttempts)
	assert.False(t, got.Completed)
	assert.True(t, got.LastAccessed.Equal(accessed))
	assert.Equal(t, 90*time.Second, got.TimeSpent)
	assert.True(t, got.Bookmarked)
}

func TestProgress_PutReplacesSteps(t *testing.T) {
	repo := openTestStore(t).ProgressRepo()
	ctx := context.Background()

	p := NewProgress("physics_001", "u1")
	p.CompletedSteps = []int{1, 2, 3}
	require.NoError(t, repo.Put(ctx, p))

	p.CompletedSteps = []int{2}
	p.Completed = true
	require.NoError(t, repo.Put(ctx, p))

	got, err := repo.Get(ctx, "physics_001", "u1")
	require.NoError(t, err)
	assert.Equal(t, []int{2}, got.CompletedSteps)
	assert.True(t, got.Completed)
}

func TestProgress_KeysAreIndependent(t *testing.T) {
	repo := openTestStore(t).ProgressRepo()
	ctx := context.Background()

	a := NewProgress("physics_001", "u1")
	a.AddStep(1)
	b := NewProgress("physics_001", "u2")
	b.Bookmarked = true
	require.NoError(t, repo.Put(ctx, a))
	require.NoError(t, repo.Put(ctx, b))

	gotA, err := repo.Get(ctx, "physics_001", "u1")
	require.NoError(t, err)
	assert.Equal(t, []int{1}, gotA.CompletedSteps)
	assert.False(t, gotA.Bookmarked)

	gotB, err := repo.Get(ctx, "physics_001", "u2")
	require.NoError(t, err)
	assert.Empty(t, gotB.CompletedSteps)
	assert.True(t, gotB.Bookmarked)
}

func TestProgress_Delete(t *testing.T) {
	repo := openTestStore(t).ProgressRepo()
	ctx := context.Background()

	p := NewProgress("physics_001", "u1")
	p.AddStep(2)
	require.NoError(t, repo.Put(ctx, p))
	require.NoError(t, repo.Delete(ctx, "physics_001", "u1"))

	got, err := repo.Get(ctx, "physics_001", "u1")
	require.NoError(t, err)
	assert.Nil(t, got)

	// Deleting again is a no-op.
	require.NoError(t, repo.Delete(ctx, "physics_001", "u1"))

	// Re-creating starts from an empty step set.
	require.NoError(t, repo.Put(ctx, NewProgress("physics_001", "u1")))
	got, err = repo.Get(ctx, "physics_001", "u1")
	require.NoError(t, err)
	assert.Empty(t, got.CompletedSteps)
}

func TestProgress_ListByUser(t *testing.T) {
	repo := openTestStore(t).ProgressRepo()
	ctx := context.Background()
	base := time.UnixMilli(1_700_000_000_000)

	records := []Progress{
		{LessonID: "physics_001", UserID: "u1", Completed: true, QuizScore: 100, LastAccessed: base},
		{LessonID: "biology_001", UserID: "u1", Bookmarked: true, QuizScore: 50, LastAccessed: base.Add(time.Hour)},
		{LessonID: "chemistry_001", UserID: "u1", LastAccessed: base.Add(2 * time.Hour), CompletedSteps: []int{1}},
		{LessonID: "physics_001", UserID: "u2", Completed: true},
	}
	for _, p := range records {
		require.NoError(t, repo.Put(ctx, p))
	}

	ids := func(ps []Progress) []string {
		var out []string
		for _, p := range ps {
			out = append(out, p.LessonID)
		}
		return out
	}

	all, err := repo.ListByUser(ctx, "u1", ListOpts{})
	require.NoError(t, err)
	assert.Equal(t, []string{"chemistry_001", "biology_001", "physics_001"}, ids(all))
	assert.Equal(t, []int{1}, all[0].CompletedSteps)

	completed, err := repo.ListByUser(ctx, "u1", ListOpts{CompletedOnly: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"physics_001"}, ids(completed))

	bookmarked, err := repo.ListByUser(ctx, "u1", ListOpts{BookmarkedOnly: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"biology_001"}, ids(bookmarked))

	none, err := repo.ListByUser(ctx, "nobody", ListOpts{})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestProgress_Summary(t *testing.T) {
	repo := openTestStore(t).ProgressRepo()
	ctx := context.Background()

	empty, err := repo.Summary(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, ProgressSummary{}, empty)

	for _, p := range []Progress{
		{LessonID: "a", UserID: "u1", Completed: true, QuizScore: 100},
		{LessonID: "b", UserID: "u1", Bookmarked: true, QuizScore: 50},
		{LessonID: "c", UserID: "u1", Bookmarked: true},
		{LessonID: "a", UserID: "u2", QuizScore: 10},
	} {
		require.NoError(t, repo.Put(ctx, p))
	}

	s, err := repo.Summary(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 3, s.Lessons)
	assert.Equal(t, 1, s.Completed)
	assert.Equal(t, 2, s.Bookmarked)
	assert.Equal(t, 2, s.Scored)
	assert.InDelta(t, 75.0, s.AverageScore, 0.001)
}

func TestProgress_AddStep(t *testing.T) {
	p := NewProgress("l", "u")
	for _, n := range []int{3, 1, 3, 2, 1} {
		p.AddStep(n)
	}
	assert.Equal(t, []int{1, 2, 3}, p.CompletedSteps)
	assert.True(t, p.HasStep(2))
	assert.False(t, p.HasStep(4))
	assert.False(t, p.AddStep(2))
}

func TestProgress_CloneIsIndependent(t *testing.T) {
	p := NewProgress("l", "u")
	p.AddStep(1)
	c := p.Clone()
	c.AddStep(2)
	assert.True(t, slices.Equal([]int{1}, p.CompletedSteps))
}
