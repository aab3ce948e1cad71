package progress

import (
	"context"
	"time"

	"github.com/arlab/arlab/internal/catalog"
	"github.com/arlab/arlab/internal/dispatch"
	"github.com/arlab/arlab/internal/notify"
	"github.com/arlab/arlab/internal/store"
)

// View is the observable state of one open lesson: the cached progress
// record and the step cursor. Cursor moves are synchronous. Writes go
// through a dispatch queue and their results come back as notifications
// on Progress or Errors.
type View struct {
	tracker *Tracker
	queue   *dispatch.Queue
	lesson  catalog.Lesson
	userID  string

	progress *notify.Value[store.Progress]
	cursor   *notify.Value[Cursor]
	errs     *notify.Value[error]
}

// OpenView loads the lesson's progress and positions the cursor at the
// resume point.
func OpenView(ctx context.Context, t *Tracker, q *dispatch.Queue, lesson catalog.Lesson, userID string) (*View, error) {
	p, err := t.Load(ctx, lesson.ID, userID)
	if err != nil {
		return nil, err
	}
	return &View{
		tracker:  t,
		queue:    q,
		lesson:   lesson,
		userID:   userID,
		progress: notify.NewValue(p),
		cursor:   notify.NewValue(NewCursor(p, lesson.TotalSteps())),
		errs:     notify.NewValue[error](nil),
	}, nil
}

// Lesson returns the lesson being viewed.
func (v *View) Lesson() catalog.Lesson { return v.lesson }

// Progress is the last known progress record.
func (v *View) Progress() *notify.Value[store.Progress] { return v.progress }

// Cursor is the current step position.
func (v *View) Cursor() *notify.Value[Cursor] { return v.cursor }

// Errors receives every failed write.
func (v *View) Errors() *notify.Value[error] { return v.errs }

// CurrentStep returns the lesson step under the cursor.
func (v *View) CurrentStep() catalog.LabStep {
	c := v.cursor.Get()
	if c.Index < 0 || c.Index >= len(v.lesson.Steps) {
		return catalog.LabStep{}
	}
	return v.lesson.Steps[c.Index]
}

// Next moves the cursor forward.
func (v *View) Next() { v.cursor.Set(v.cursor.Get().Advance()) }

// Previous moves the cursor back.
func (v *View) Previous() { v.cursor.Set(v.cursor.Get().Retreat()) }

// CompleteStep marks the step under the cursor completed and moves on to
// the next one.
func (v *View) CompleteStep() {
	step := v.cursor.Get().Step()
	v.write(func(ctx context.Context) error {
		return v.tracker.MarkStepCompleted(ctx, v.lesson.ID, v.userID, step)
	})
	v.Next()
}

// ToggleBookmark flips the lesson bookmark.
func (v *View) ToggleBookmark() {
	v.write(func(ctx context.Context) error {
		_, err := v.tracker.ToggleBookmark(ctx, v.lesson.ID, v.userID)
		return err
	})
}

// Reset deletes the lesson's progress and rewinds the cursor.
func (v *View) Reset() {
	v.write(func(ctx context.Context) error {
		return v.tracker.ResetProgress(ctx, v.lesson.ID, v.userID)
	})
	v.cursor.Set(Cursor{Total: v.lesson.TotalSteps()})
}

// AddTimeSpent adds d to the lesson's accumulated time.
func (v *View) AddTimeSpent(d time.Duration) {
	if d <= 0 {
		return
	}
	v.write(func(ctx context.Context) error {
		return v.tracker.AddTimeSpent(ctx, v.lesson.ID, v.userID, d)
	})
}

// Refresh reloads the record from the store.
func (v *View) Refresh() {
	v.write(func(context.Context) error { return nil })
}

// write runs op on the queue, then reloads and publishes the record.
func (v *View) write(op dispatch.Job) {
	job := func(ctx context.Context) error {
		if err := op(ctx); err != nil {
			return err
		}
		p, err := v.tracker.Load(ctx, v.lesson.ID, v.userID)
		if err != nil {
			return err
		}
		v.progress.Set(p)
		return nil
	}
	done := func(err error) {
		if err != nil {
			v.errs.Set(err)
		}
	}
	if err := v.queue.Submit(job, done); err != nil {
		v.errs.Set(err)
	}
}
