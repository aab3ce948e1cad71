// Package screentest builds a screen.Env over a temporary store for screen
// tests.
package screentest

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/arlab/arlab/internal/catalog"
	"github.com/arlab/arlab/internal/dispatch"
	"github.com/arlab/arlab/internal/logging"
	"github.com/arlab/arlab/internal/progress"
	"github.com/arlab/arlab/internal/screen"
	"github.com/arlab/arlab/internal/store"
	"github.com/arlab/arlab/internal/tutor"
)

// UserID is the user every Env is built for.
const UserID = "learner"

// NewEnv returns an Env over the built-in catalog and a fresh SQLite file.
// The tutor has no provider, so it only returns authored explanations.
func NewEnv(t testing.TB) screen.Env {
	t.Helper()

	st, err := store.Open(filepath.Join(t.TempDir(), "screen.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	cat, err := catalog.Default()
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}

	logger := logging.Nop()
	queue := dispatch.New(context.Background(), logger)
	t.Cleanup(func() {
		queue.Close()
		st.Close()
	})

	return screen.Env{
		Catalog: cat,
		Tracker: progress.NewTracker(st.ProgressRepo(), progress.Options{
			Attempts: st.AttemptRepo(),
			Catalog:  cat,
			Logger:   logger,
		}),
		Queue:  queue,
		Tutor:  tutor.NewService(nil, tutor.DefaultConfig(), logger),
		UserID: UserID,
		Logger: logger,
	}
}

// Lesson returns the catalog lesson id or fails the test.
func Lesson(t testing.TB, env screen.Env, id string) catalog.Lesson {
	t.Helper()
	l, ok := env.Catalog.Get(id)
	if !ok {
		t.Fatalf("lesson %q not in catalog", id)
	}
	return l
}
