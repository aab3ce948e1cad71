package store

import (
	"context"
	"slices"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After
	Before int64     // sequence < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To
}

// Progress is the durable per-(lesson, user) completion record.
type Progress struct {
	LessonID       string
	UserID         string
	CompletedSteps []int // ascending, no duplicates
	QuizScore      int
	QuizAttempts   int
	Completed      bool
	LastAccessed   time.Time
	TimeSpent      time.Duration
	Bookmarked     bool
}

// NewProgress returns the default record for a key that was never written.
func NewProgress(lessonID, userID string) Progress {
	return Progress{LessonID: lessonID, UserID: userID, CompletedSteps: []int{}}
}

// HasStep reports whether step n is in the completed set.
func (p Progress) HasStep(n int) bool {
	_, found := slices.BinarySearch(p.CompletedSteps, n)
	return found
}

// AddStep inserts step n into the completed set. It returns false when the
// step was already present.
func (p *Progress) AddStep(n int) bool {
	i, found := slices.BinarySearch(p.CompletedSteps, n)
	if found {
		return false
	}
	p.CompletedSteps = slices.Insert(p.CompletedSteps, i, n)
	return true
}

// Clone returns a copy that shares no memory with p.
func (p Progress) Clone() Progress {
	c := p
	c.CompletedSteps = append([]int{}, p.CompletedSteps...)
	return c
}

// ListOpts filters progress listings.
type ListOpts struct {
	CompletedOnly  bool
	BookmarkedOnly bool
}

// ProgressSummary aggregates one user's progress records.
type ProgressSummary struct {
	Lessons      int
	Completed    int
	Bookmarked   int
	Scored       int     // records with a quiz score above zero
	AverageScore float64 // mean over Scored records, 0 when none
}

// ProgressRepo persists progress records keyed by (lesson, user).
type ProgressRepo interface {
	// Get returns the record, or nil if none was ever written.
	Get(ctx context.Context, lessonID, userID string) (*Progress, error)

	// Put writes the full record, replacing any previous version.
	Put(ctx context.Context, p Progress) error

	// Delete removes the record. Deleting a missing record is not an error.
	Delete(ctx context.Context, lessonID, userID string) error

	// ListByUser returns the user's records, most recently accessed first.
	ListByUser(ctx context.Context, userID string, opts ListOpts) ([]Progress, error)

	// Summary aggregates the user's records.
	Summary(ctx context.Context, userID string) (ProgressSummary, error)
}

// Attempt is one persisted quiz submission.
type Attempt struct {
	ID          string
	Sequence    int64
	LessonID    string
	UserID      string
	QuizID      string
	Score       int
	Correct     int
	Total       int
	Passed      bool
	Answers     []string
	SubmittedAt time.Time
}

// AttemptRepo is the append-only log of quiz submissions.
type AttemptRepo interface {
	// Append stores a new attempt and assigns its sequence number.
	// Appending an ID that is already stored is a no-op.
	Append(ctx context.Context, a *Attempt) error

	// List returns a user's attempts for a lesson, newest first.
	List(ctx context.Context, lessonID, userID string, opts QueryOpts) ([]Attempt, error)
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMRequestEvent is a stored LLM request event.
type LLMRequestEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// LLMUsage aggregates LLM calls by one grouping key.
type LLMUsage struct {
	Purpose      string
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// EventRepo provides append and query access to LLM request events.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns events newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEvent, error)

	// GetLLMEvent returns one event, or nil if the ID is unknown.
	GetLLMEvent(ctx context.Context, id int) (*LLMRequestEvent, error)

	// LLMUsageByPurpose aggregates calls per purpose.
	LLMUsageByPurpose(ctx context.Context) ([]LLMUsage, error)

	// LLMUsageByModel aggregates calls per model.
	LLMUsageByModel(ctx context.Context) ([]LLMUsage, error)
}
