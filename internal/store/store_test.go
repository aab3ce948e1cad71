package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenClose(t *testing.T) {
	s := openTestStore(t)
	if s.DB() == nil {
		t.Fatal("expected non-nil db")
	}
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		{"journal_mode", "wal"},
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestReopenPreservesData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "persist.db")
	ctx := context.Background()

	s, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	p := NewProgress("physics_001", "u1")
	p.AddStep(1)
	p.Bookmarked = true
	if err := s.ProgressRepo().Put(ctx, p); err != nil {
		t.Fatalf("put: %v", err)
	}
	s.Close()

	s, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()

	got, err := s.ProgressRepo().Get(ctx, "physics_001", "u1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil || !got.Bookmarked || !got.HasStep(1) {
		t.Errorf("progress after reopen = %+v, want bookmarked with step 1", got)
	}
}

func TestSequence_Monotonic(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	var last int64
	for i := 0; i < 5; i++ {
		n, err := s.seq.Next(ctx)
		if err != nil {
			t.Fatalf("next: %v", err)
		}
		if n <= last {
			t.Errorf("sequence %d not greater than %d", n, last)
		}
		last = n
	}
}

func TestDefaultDBPath_EnvOverride(t *testing.T) {
	want := filepath.Join(t.TempDir(), "sub", "x.db")
	t.Setenv("ARLAB_DB", want)
	got, err := DefaultDBPath()
	if err != nil {
		t.Fatalf("DefaultDBPath: %v", err)
	}
	if got != want {
		t.Errorf("DefaultDBPath = %q, want %q", got, want)
	}
}

func TestDefaultDBPath_XDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("ARLAB_DB", "")
	t.Setenv("XDG_DATA_HOME", dir)
	got, err := DefaultDBPath()
	if err != nil {
		t.Fatalf("DefaultDBPath: %v", err)
	}
	if want := filepath.Join(dir, "arlab", "arlab.db"); got != want {
		t.Errorf("DefaultDBPath = %q, want %q", got, want)
	}
}

func TestAttempts_AppendAndList(t *testing.T) {
	s := openTestStore(t)
	repo := s.AttemptRepo()
	ctx := context.Background()

	base := time.Now().Truncate(time.Millisecond)
	for i, score := range []int{50, 100} {
		a := &Attempt{
			ID:          []string{"a1", "a2"}[i],
			LessonID:    "physics_001",
			UserID:      "u1",
			QuizID:      "quiz_physics_001",
			Score:       score,
			Correct:     score / 50,
			Total:       2,
			Passed:      score >= 70,
			Answers:     []string{"Inertia", "First Law"},
			SubmittedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if err := repo.Append(ctx, a); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
		if a.Sequence == 0 {
			t.Errorf("append %d: sequence not assigned", i)
		}
	}
	// Another user's attempt must not show up.
	if err := repo.Append(ctx, &Attempt{ID: "other", LessonID: "physics_001", UserID: "u2", Answers: []string{}}); err != nil {
		t.Fatalf("append other: %v", err)
	}

	got, err := repo.List(ctx, "physics_001", "u1", QueryOpts{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d attempts, want 2", len(got))
	}
	if got[0].ID != "a2" || got[0].Score != 100 || !got[0].Passed {
		t.Errorf("newest attempt = %+v, want a2 scoring 100", got[0])
	}
	if got[1].Answers[1] != "First Law" {
		t.Errorf("answers = %v", got[1].Answers)
	}
	if !got[1].SubmittedAt.Equal(base) {
		t.Errorf("submitted at = %v, want %v", got[1].SubmittedAt, base)
	}

	limited, err := repo.List(ctx, "physics_001", "u1", QueryOpts{Limit: 1})
	if err != nil {
		t.Fatalf("list limited: %v", err)
	}
	if len(limited) != 1 || limited[0].ID != "a2" {
		t.Errorf("limited = %+v, want only a2", limited)
	}
}

func TestAttempts_AppendSameIDIsNoop(t *testing.T) {
	s := openTestStore(t)
	repo := s.AttemptRepo()
	ctx := context.Background()

	first := &Attempt{ID: "a1", LessonID: "physics_001", UserID: "u1", Score: 50, Answers: []string{}}
	if err := repo.Append(ctx, first); err != nil {
		t.Fatalf("first append: %v", err)
	}
	again := &Attempt{ID: "a1", LessonID: "physics_001", UserID: "u1", Score: 100, Answers: []string{}}
	if err := repo.Append(ctx, again); err != nil {
		t.Fatalf("second append: %v", err)
	}
	if again.Sequence != 0 {
		t.Errorf("duplicate append assigned sequence %d", again.Sequence)
	}

	got, err := repo.List(ctx, "physics_001", "u1", QueryOpts{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 || got[0].Score != 50 || got[0].Sequence != first.Sequence {
		t.Errorf("attempts = %+v, want only the first a1", got)
	}
}

func TestLLMEvents(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	events := []LLMRequestEventData{
		{Provider: "mock", Model: "m1", Purpose: "explain", InputTokens: 10, OutputTokens: 5, LatencyMs: 100, Success: true},
		{Provider: "mock", Model: "m1", Purpose: "explain", InputTokens: 20, OutputTokens: 15, LatencyMs: 300, Success: true},
		{Provider: "mock", Model: "m2", Purpose: "hint", InputTokens: 1, OutputTokens: 1, LatencyMs: 50, ErrorMessage: "boom"},
	}
	for _, e := range events {
		if err := repo.AppendLLMRequest(ctx, e); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	list, err := repo.QueryLLMEvents(ctx, QueryOpts{Limit: 2})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("got %d events, want 2", len(list))
	}
	if list[0].Purpose != "hint" || list[0].Success {
		t.Errorf("newest event = %+v, want failed hint", list[0])
	}

	one, err := repo.GetLLMEvent(ctx, list[1].ID)
	if err != nil || one == nil {
		t.Fatalf("get: %v %v", one, err)
	}
	if one.InputTokens != 20 {
		t.Errorf("input tokens = %d, want 20", one.InputTokens)
	}
	missing, err := repo.GetLLMEvent(ctx, 9999)
	if err != nil || missing != nil {
		t.Errorf("get missing = %v, %v; want nil, nil", missing, err)
	}

	byPurpose, err := repo.LLMUsageByPurpose(ctx)
	if err != nil {
		t.Fatalf("usage: %v", err)
	}
	if len(byPurpose) != 2 {
		t.Fatalf("got %d purposes, want 2", len(byPurpose))
	}
	if u := byPurpose[0]; u.Purpose != "explain" || u.Calls != 2 || u.InputTokens != 30 || u.AvgLatencyMs != 200 {
		t.Errorf("explain usage = %+v", u)
	}

	byModel, err := repo.LLMUsageByModel(ctx)
	if err != nil {
		t.Fatalf("usage by model: %v", err)
	}
	if len(byModel) != 2 || byModel[0].Model != "m1" {
		t.Errorf("usage by model = %+v", byModel)
	}
}
