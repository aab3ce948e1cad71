package pgstore

import (
	"time"

	"github.com/arlab/arlab/internal/store"
)

type progressRow struct {
	LessonID       string `gorm:"primaryKey;column:lesson_id"`
	UserID         string `gorm:"primaryKey;column:user_id;index"`
	QuizScore      int    `gorm:"not null;default:0"`
	QuizAttempts   int    `gorm:"not null;default:0"`
	IsCompleted    bool   `gorm:"not null;default:false"`
	LastAccessedMs int64  `gorm:"not null;default:0"`
	TimeSpentMs    int64  `gorm:"not null;default:0"`
	Bookmarked     bool   `gorm:"not null;default:false"`
}

func (progressRow) TableName() string { return "progress" }

type stepRow struct {
	LessonID   string `gorm:"primaryKey;column:lesson_id"`
	UserID     string `gorm:"primaryKey;column:user_id"`
	StepNumber int    `gorm:"primaryKey;column:step_number;check:step_number > 0"`
}

func (stepRow) TableName() string { return "progress_steps" }

type attemptRow struct {
	ID            string   `gorm:"primaryKey"`
	Sequence      int64    `gorm:"not null"`
	LessonID      string   `gorm:"not null;index:quiz_attempts_lesson_user"`
	UserID        string   `gorm:"not null;index:quiz_attempts_lesson_user"`
	QuizID        string   `gorm:"not null"`
	Score         int      `gorm:"not null"`
	Correct       int      `gorm:"not null"`
	Total         int      `gorm:"not null"`
	Passed        bool     `gorm:"not null"`
	Answers       []string `gorm:"serializer:json;type:jsonb"`
	SubmittedAtMs int64    `gorm:"not null"`
}

func (attemptRow) TableName() string { return "quiz_attempts" }

type llmEventRow struct {
	ID           int   `gorm:"primaryKey;autoIncrement"`
	Sequence     int64 `gorm:"not null;index"`
	TimestampMs  int64 `gorm:"not null"`
	Provider     string
	Model        string
	Purpose      string `gorm:"index"`
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

func (llmEventRow) TableName() string { return "llm_request_events" }

func toProgressRow(p store.Progress) progressRow {
	var accessed int64
	if !p.LastAccessed.IsZero() {
		accessed = p.LastAccessed.UnixMilli()
	}
	return progressRow{
		LessonID:       p.LessonID,
		UserID:         p.UserID,
		QuizScore:      p.QuizScore,
		QuizAttempts:   p.QuizAttempts,
		IsCompleted:    p.Completed,
		LastAccessedMs: accessed,
		TimeSpentMs:    p.TimeSpent.Milliseconds(),
		Bookmarked:     p.Bookmarked,
	}
}

func (r progressRow) toProgress(steps []int) store.Progress {
	p := store.Progress{
		LessonID:       r.LessonID,
		UserID:         r.UserID,
		CompletedSteps: steps,
		QuizScore:      r.QuizScore,
		QuizAttempts:   r.QuizAttempts,
		Completed:      r.IsCompleted,
		TimeSpent:      time.Duration(r.TimeSpentMs) * time.Millisecond,
		Bookmarked:     r.Bookmarked,
	}
	if r.LastAccessedMs > 0 {
		p.LastAccessed = time.UnixMilli(r.LastAccessedMs)
	}
	if p.CompletedSteps == nil {
		p.CompletedSteps = []int{}
	}
	return p
}
