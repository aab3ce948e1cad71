package pgstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/arlab/arlab/internal/store"
)

type attemptRepo struct {
	db *gorm.DB
}

func (r *attemptRepo) Append(ctx context.Context, a *store.Attempt) error {
	seq, err := nextSequence(ctx, r.db)
	if err != nil {
		return err
	}
	if a.SubmittedAt.IsZero() {
		a.SubmittedAt = time.Now()
	}
	answers := a.Answers
	if answers == nil {
		answers = []string{}
	}

	row := attemptRow{
		ID:            a.ID,
		Sequence:      seq,
		LessonID:      a.LessonID,
		UserID:        a.UserID,
		QuizID:        a.QuizID,
		Score:         a.Score,
		Correct:       a.Correct,
		Total:         a.Total,
		Passed:        a.Passed,
		Answers:       answers,
		SubmittedAtMs: a.SubmittedAt.UnixMilli(),
	}
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, DoNothing: true}).
		Create(&row)
	if res.Error != nil {
		return fmt.Errorf("save quiz attempt: %w", res.Error)
	}
	if res.RowsAffected > 0 {
		a.Sequence = seq
	}
	return nil
}

func (r *attemptRepo) List(ctx context.Context, lessonID, userID string, opts store.QueryOpts) ([]store.Attempt, error) {
	q := applyQueryOpts(r.db.WithContext(ctx), opts, "submitted_at_ms").
		Where("lesson_id = ? AND user_id = ?", lessonID, userID).
		Order("sequence DESC")

	var rows []attemptRow
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list quiz attempts: %w", err)
	}

	out := make([]store.Attempt, len(rows))
	for i, row := range rows {
		out[i] = store.Attempt{
			ID:          row.ID,
			Sequence:    row.Sequence,
			LessonID:    row.LessonID,
			UserID:      row.UserID,
			QuizID:      row.QuizID,
			Score:       row.Score,
			Correct:     row.Correct,
			Total:       row.Total,
			Passed:      row.Passed,
			Answers:     row.Answers,
			SubmittedAt: time.UnixMilli(row.SubmittedAtMs),
		}
	}
	return out, nil
}

type eventRepo struct {
	db *gorm.DB
}

func (r *eventRepo) AppendLLMRequest(ctx context.Context, data store.LLMRequestEventData) error {
	seq, err := nextSequence(ctx, r.db)
	if err != nil {
		return err
	}
	row := llmEventRow{
		Sequence:     seq,
		TimestampMs:  time.Now().UnixMilli(),
		Provider:     data.Provider,
		Model:        data.Model,
		Purpose:      data.Purpose,
		InputTokens:  data.InputTokens,
		OutputTokens: data.OutputTokens,
		LatencyMs:    data.LatencyMs,
		Success:      data.Success,
		ErrorMessage: data.ErrorMessage,
		RequestBody:  data.RequestBody,
		ResponseBody: data.ResponseBody,
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("save LLM request event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryLLMEvents(ctx context.Context, opts store.QueryOpts) ([]store.LLMRequestEvent, error) {
	var rows []llmEventRow
	err := applyQueryOpts(r.db.WithContext(ctx), opts, "timestamp_ms").
		Order("sequence DESC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("query LLM events: %w", err)
	}
	out := make([]store.LLMRequestEvent, len(rows))
	for i, row := range rows {
		out[i] = row.toEvent()
	}
	return out, nil
}

func (r *eventRepo) GetLLMEvent(ctx context.Context, id int) (*store.LLMRequestEvent, error) {
	var row llmEventRow
	err := r.db.WithContext(ctx).Take(&row, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get LLM event %d: %w", id, err)
	}
	e := row.toEvent()
	return &e, nil
}

func (r *eventRepo) LLMUsageByPurpose(ctx context.Context) ([]store.LLMUsage, error) {
	return r.usage(ctx, "purpose")
}

func (r *eventRepo) LLMUsageByModel(ctx context.Context) ([]store.LLMUsage, error) {
	return r.usage(ctx, "model")
}

func (r *eventRepo) usage(ctx context.Context, groupBy string) ([]store.LLMUsage, error) {
	var rows []struct {
		GroupKey     string
		Calls        int
		InputTokens  int
		OutputTokens int
		AvgLatency   float64
	}
	err := r.db.WithContext(ctx).Model(&llmEventRow{}).
		Select(groupBy + ` AS group_key,
			COUNT(*) AS calls,
			COALESCE(SUM(input_tokens), 0) AS input_tokens,
			COALESCE(SUM(output_tokens), 0) AS output_tokens,
			COALESCE(AVG(latency_ms), 0) AS avg_latency`).
		Group(groupBy).
		Order("calls DESC, group_key ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("LLM usage by %s: %w", groupBy, err)
	}

	out := make([]store.LLMUsage, len(rows))
	for i, row := range rows {
		u := store.LLMUsage{
			Calls:        row.Calls,
			InputTokens:  row.InputTokens,
			OutputTokens: row.OutputTokens,
			AvgLatencyMs: int64(row.AvgLatency),
		}
		if groupBy == "model" {
			u.Model = row.GroupKey
		} else {
			u.Purpose = row.GroupKey
		}
		out[i] = u
	}
	return out, nil
}

func (row llmEventRow) toEvent() store.LLMRequestEvent {
	return store.LLMRequestEvent{
		ID:        row.ID,
		Sequence:  row.Sequence,
		Timestamp: time.UnixMilli(row.TimestampMs),
		LLMRequestEventData: store.LLMRequestEventData{
			Provider:     row.Provider,
			Model:        row.Model,
			Purpose:      row.Purpose,
			InputTokens:  row.InputTokens,
			OutputTokens: row.OutputTokens,
			LatencyMs:    row.LatencyMs,
			Success:      row.Success,
			ErrorMessage: row.ErrorMessage,
			RequestBody:  row.RequestBody,
			ResponseBody: row.ResponseBody,
		},
	}
}

func applyQueryOpts(q *gorm.DB, opts store.QueryOpts, tsColumn string) *gorm.DB {
	if opts.After > 0 {
		q = q.Where("sequence > ?", opts.After)
	}
	if opts.Before > 0 {
		q = q.Where("sequence < ?", opts.Before)
	}
	if !opts.From.IsZero() {
		q = q.Where(tsColumn+" >= ?", opts.From.UnixMilli())
	}
	if !opts.To.IsZero() {
		q = q.Where(tsColumn+" <= ?", opts.To.UnixMilli())
	}
	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}
	return q
}
