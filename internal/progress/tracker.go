// Package progress tracks per-user lesson progress on top of a progress
// store: completed steps, bookmarks, quiz results and time spent.
package progress

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/arlab/arlab/internal/catalog"
	"github.com/arlab/arlab/internal/logging"
	"github.com/arlab/arlab/internal/store"
)

var (
	// ErrUnknownLesson is returned when a lesson ID is not in the catalog.
	ErrUnknownLesson = errors.New("unknown lesson")

	// ErrStepOutOfRange is returned for step numbers outside 1..TotalSteps.
	ErrStepOutOfRange = errors.New("step out of range")
)

// Options configures a Tracker. Every field is optional.
type Options struct {
	// Attempts receives one entry per recorded quiz result. Nil disables
	// the attempt log and History returns nothing.
	Attempts store.AttemptRepo

	// Catalog, when set, lets the tracker reject unknown lessons and step
	// numbers beyond the lesson's last step.
	Catalog *catalog.Catalog

	Logger *logging.Logger

	// Now overrides the clock used for LastAccessed.
	Now func() time.Time
}

// Tracker reads and mutates progress records. It holds no per-lesson state;
// every call goes to the store, so two trackers over the same store agree.
type Tracker struct {
	repo     store.ProgressRepo
	attempts store.AttemptRepo
	catalog  *catalog.Catalog
	logger   *logging.Logger
	now      func() time.Time
}

// NewTracker creates a Tracker over repo.
func NewTracker(repo store.ProgressRepo, opts Options) *Tracker {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Tracker{
		repo:     repo,
		attempts: opts.Attempts,
		catalog:  opts.Catalog,
		logger:   opts.Logger.OrNop(),
		now:      now,
	}
}

// Stats summarises a user's progress across lessons.
type Stats struct {
	Lessons      int
	Completed    int
	Bookmarked   int
	AverageScore float64
	HasScores    bool // false when no lesson has a quiz score above zero
}

// Load returns the record for (lessonID, userID), or a fresh default record
// when none exists. The default is not persisted.
func (t *Tracker) Load(ctx context.Context, lessonID, userID string) (store.Progress, error) {
	p, err := t.repo.Get(ctx, lessonID, userID)
	if err != nil {
		return store.Progress{}, fmt.Errorf("load progress: %w", err)
	}
	if p == nil {
		return store.NewProgress(lessonID, userID), nil
	}
	return *p, nil
}

// MarkStepCompleted adds step to the completed set and persists. Marking an
// already completed step only refreshes LastAccessed. Lesson completion is
// decided by the quiz, never here.
func (t *Tracker) MarkStepCompleted(ctx context.Context, lessonID, userID string, step int) error {
	if step < 1 {
		return fmt.Errorf("step %d: %w", step, ErrStepOutOfRange)
	}
	if lesson, ok, err := t.lesson(lessonID); err != nil {
		return err
	} else if ok && step > lesson.TotalSteps() {
		return fmt.Errorf("step %d of %d: %w", step, lesson.TotalSteps(), ErrStepOutOfRange)
	}

	p, err := t.Load(ctx, lessonID, userID)
	if err != nil {
		return err
	}
	added := p.AddStep(step)
	p.LastAccessed = t.now()
	if err := t.put(ctx, p); err != nil {
		return err
	}

	t.logger.Debug("step completed", "lesson", lessonID, "user", userID, "step", step, "new", added)
	return nil
}

// ToggleBookmark flips the bookmark flag, persists and returns the new value.
func (t *Tracker) ToggleBookmark(ctx context.Context, lessonID, userID string) (bool, error) {
	if _, _, err := t.lesson(lessonID); err != nil {
		return false, err
	}

	p, err := t.Load(ctx, lessonID, userID)
	if err != nil {
		return false, err
	}
	p.Bookmarked = !p.Bookmarked
	p.LastAccessed = t.now()
	if err := t.put(ctx, p); err != nil {
		return false, err
	}

	t.logger.Debug("bookmark toggled", "lesson", lessonID, "user", userID, "bookmarked", p.Bookmarked)
	return p.Bookmarked, nil
}

// ResetProgress removes the record. A later Load returns the default again.
func (t *Tracker) ResetProgress(ctx context.Context, lessonID, userID string) error {
	if err := t.repo.Delete(ctx, lessonID, userID); err != nil {
		return fmt.Errorf("reset progress: %w", err)
	}
	t.logger.Info("progress reset", "lesson", lessonID, "user", userID)
	return nil
}

// RecordQuizResult appends the attempt to the attempt log, when one is
// configured, and then applies it to the lesson record: the latest score
// replaces the previous one, attempts increase by one, and Completed
// follows Passed (a failed retake un-completes the lesson). A failed
// append leaves the record untouched, and the append is keyed by attempt
// ID, so retrying after either step fails counts the attempt once.
func (t *Tracker) RecordQuizResult(ctx context.Context, a *store.Attempt) error {
	if a == nil {
		return errors.New("record quiz result: nil attempt")
	}
	if _, _, err := t.lesson(a.LessonID); err != nil {
		return err
	}
	if a.SubmittedAt.IsZero() {
		a.SubmittedAt = t.now()
	}

	if t.attempts != nil {
		if err := t.attempts.Append(ctx, a); err != nil {
			return fmt.Errorf("append quiz attempt: %w", err)
		}
	}

	p, err := t.Load(ctx, a.LessonID, a.UserID)
	if err != nil {
		return err
	}
	p.QuizScore = a.Score
	p.QuizAttempts++
	p.Completed = a.Passed
	p.LastAccessed = a.SubmittedAt
	if err := t.put(ctx, p); err != nil {
		return err
	}

	t.logger.Info("quiz result recorded",
		"lesson", a.LessonID,
		"user", a.UserID,
		"score", a.Score,
		"passed", a.Passed,
		"attempts", p.QuizAttempts,
	)
	return nil
}

// AddTimeSpent adds d to the lesson's accumulated time. Non-positive
// durations are ignored.
func (t *Tracker) AddTimeSpent(ctx context.Context, lessonID, userID string, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	if _, _, err := t.lesson(lessonID); err != nil {
		return err
	}

	p, err := t.Load(ctx, lessonID, userID)
	if err != nil {
		return err
	}
	p.TimeSpent += d
	p.LastAccessed = t.now()
	return t.put(ctx, p)
}

// All returns every stored record for the user, most recently accessed first.
func (t *Tracker) All(ctx context.Context, userID string) ([]store.Progress, error) {
	return t.list(ctx, userID, store.ListOpts{})
}

// Completed returns the user's completed lessons.
func (t *Tracker) Completed(ctx context.Context, userID string) ([]store.Progress, error) {
	return t.list(ctx, userID, store.ListOpts{CompletedOnly: true})
}

// Bookmarked returns the user's bookmarked lessons.
func (t *Tracker) Bookmarked(ctx context.Context, userID string) ([]store.Progress, error) {
	return t.list(ctx, userID, store.ListOpts{BookmarkedOnly: true})
}

// Stats aggregates the user's records.
func (t *Tracker) Stats(ctx context.Context, userID string) (Stats, error) {
	s, err := t.repo.Summary(ctx, userID)
	if err != nil {
		return Stats{}, fmt.Errorf("progress stats: %w", err)
	}
	return Stats{
		Lessons:      s.Lessons,
		Completed:    s.Completed,
		Bookmarked:   s.Bookmarked,
		AverageScore: s.AverageScore,
		HasScores:    s.Scored > 0,
	}, nil
}

// History returns up to limit quiz attempts for the lesson, newest first.
// A limit of 0 returns all of them.
func (t *Tracker) History(ctx context.Context, lessonID, userID string, limit int) ([]store.Attempt, error) {
	if t.attempts == nil {
		return nil, nil
	}
	out, err := t.attempts.List(ctx, lessonID, userID, store.QueryOpts{Limit: limit})
	if err != nil {
		return nil, fmt.Errorf("quiz history: %w", err)
	}
	return out, nil
}

func (t *Tracker) list(ctx context.Context, userID string, opts store.ListOpts) ([]store.Progress, error) {
	out, err := t.repo.ListByUser(ctx, userID, opts)
	if err != nil {
		return nil, fmt.Errorf("list progress: %w", err)
	}
	return out, nil
}

func (t *Tracker) put(ctx context.Context, p store.Progress) error {
	if err := t.repo.Put(ctx, p); err != nil {
		return fmt.Errorf("save progress: %w", err)
	}
	return nil
}

// lesson looks id up in the catalog. ok is false without error when the
// tracker has no catalog.
func (t *Tracker) lesson(id string) (catalog.Lesson, bool, error) {
	if t.catalog == nil {
		return catalog.Lesson{}, false, nil
	}
	l, ok := t.catalog.Get(id)
	if !ok {
		return catalog.Lesson{}, false, fmt.Errorf("lesson %q: %w", id, ErrUnknownLesson)
	}
	return l, true, nil
}

// CurrentStep returns the zero-based index the lesson should resume at: the
// highest completed step number, clamped to the last index. With no
// completed steps it is 0, as it is for lessons without steps.
func CurrentStep(p store.Progress, totalSteps int) int {
	if totalSteps <= 0 || len(p.CompletedSteps) == 0 {
		return 0
	}
	highest := p.CompletedSteps[len(p.CompletedSteps)-1]
	return min(max(highest, 0), totalSteps-1)
}

// Percent returns the completed fraction of the lesson's steps in [0, 1].
func Percent(p store.Progress, totalSteps int) float64 {
	if totalSteps <= 0 {
		return 0
	}
	return float64(CompletedCount(p, totalSteps)) / float64(totalSteps)
}

// CompletedCount is the number of completed steps within 1..totalSteps.
func CompletedCount(p store.Progress, totalSteps int) int {
	n := 0
	for _, s := range p.CompletedSteps {
		if s >= 1 && s <= totalSteps {
			n++
		}
	}
	return n
}
