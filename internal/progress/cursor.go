package progress

import "github.com/arlab/arlab/internal/store"

// Cursor is the step a learner is looking at. It is view state only and
// never persisted.
type Cursor struct {
	Index int // zero-based
	Total int
}

// NewCursor positions a cursor at the lesson's resume point.
func NewCursor(p store.Progress, totalSteps int) Cursor {
	return Cursor{Index: CurrentStep(p, totalSteps), Total: totalSteps}
}

// Advance moves one step forward, staying put on the last step.
func (c Cursor) Advance() Cursor {
	if c.Index < c.Total-1 {
		c.Index++
	}
	return c
}

// Retreat moves one step back, staying put on the first step.
func (c Cursor) Retreat() Cursor {
	if c.Index > 0 {
		c.Index--
	}
	return c
}

// Step returns the one-based step number under the cursor.
func (c Cursor) Step() int { return c.Index + 1 }

// IsFirst reports whether the cursor is on the first step.
func (c Cursor) IsFirst() bool { return c.Index == 0 }

// IsLast reports whether the cursor is on the last step.
func (c Cursor) IsLast() bool { return c.Total == 0 || c.Index == c.Total-1 }
