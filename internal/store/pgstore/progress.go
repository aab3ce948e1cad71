package pgstore

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/arlab/arlab/internal/store"
)

type progressRepo struct {
	db *gorm.DB
}

func (r *progressRepo) Get(ctx context.Context, lessonID, userID string) (*store.Progress, error) {
	var row progressRow
	err := r.db.WithContext(ctx).
		Where("lesson_id = ? AND user_id = ?", lessonID, userID).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get progress %s/%s: %w", lessonID, userID, err)
	}

	steps, err := r.steps(ctx, r.db, lessonID, userID)
	if err != nil {
		return nil, err
	}
	p := row.toProgress(steps)
	return &p, nil
}

func (r *progressRepo) Put(ctx context.Context, p store.Progress) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row := toProgressRow(p)
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "lesson_id"}, {Name: "user_id"}},
			UpdateAll: true,
		}).Create(&row).Error
		if err != nil {
			return fmt.Errorf("upsert progress %s/%s: %w", p.LessonID, p.UserID, err)
		}

		err = tx.Where("lesson_id = ? AND user_id = ?", p.LessonID, p.UserID).
			Delete(&stepRow{}).Error
		if err != nil {
			return fmt.Errorf("clear steps %s/%s: %w", p.LessonID, p.UserID, err)
		}

		if len(p.CompletedSteps) == 0 {
			return nil
		}
		steps := make([]stepRow, len(p.CompletedSteps))
		for i, n := range p.CompletedSteps {
			steps[i] = stepRow{LessonID: p.LessonID, UserID: p.UserID, StepNumber: n}
		}
		if err := tx.Create(&steps).Error; err != nil {
			return fmt.Errorf("insert steps %s/%s: %w", p.LessonID, p.UserID, err)
		}
		return nil
	})
}

func (r *progressRepo) Delete(ctx context.Context, lessonID, userID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, model := range []any{&stepRow{}, &progressRow{}} {
			err := tx.Where("lesson_id = ? AND user_id = ?", lessonID, userID).Delete(model).Error
			if err != nil {
				return fmt.Errorf("delete progress %s/%s: %w", lessonID, userID, err)
			}
		}
		return nil
	})
}

func (r *progressRepo) ListByUser(ctx context.Context, userID string, opts store.ListOpts) ([]store.Progress, error) {
	q := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if opts.CompletedOnly {
		q = q.Where("is_completed = ?", true)
	}
	if opts.BookmarkedOnly {
		q = q.Where("bookmarked = ?", true)
	}

	var rows []progressRow
	if err := q.Order("last_accessed_ms DESC, lesson_id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list progress: %w", err)
	}

	out := make([]store.Progress, 0, len(rows))
	for _, row := range rows {
		steps, err := r.steps(ctx, r.db, row.LessonID, userID)
		if err != nil {
			return nil, err
		}
		out = append(out, row.toProgress(steps))
	}
	return out, nil
}

func (r *progressRepo) Summary(ctx context.Context, userID string) (store.ProgressSummary, error) {
	var agg struct {
		Lessons    int
		Completed  int
		Bookmarked int
		Scored     int
		Average    *float64
	}
	err := r.db.WithContext(ctx).Model(&progressRow{}).
		Select(`COUNT(*) AS lessons,
			COUNT(*) FILTER (WHERE is_completed) AS completed,
			COUNT(*) FILTER (WHERE bookmarked) AS bookmarked,
			COUNT(*) FILTER (WHERE quiz_score > 0) AS scored,
			AVG(quiz_score) FILTER (WHERE quiz_score > 0) AS average`).
		Where("user_id = ?", userID).
		Scan(&agg).Error
	if err != nil {
		return store.ProgressSummary{}, fmt.Errorf("summarize progress: %w", err)
	}

	s := store.ProgressSummary{
		Lessons:    agg.Lessons,
		Completed:  agg.Completed,
		Bookmarked: agg.Bookmarked,
		Scored:     agg.Scored,
	}
	if agg.Average != nil {
		s.AverageScore = *agg.Average
	}
	return s, nil
}

func (r *progressRepo) steps(ctx context.Context, db *gorm.DB, lessonID, userID string) ([]int, error) {
	steps := []int{}
	err := db.WithContext(ctx).Model(&stepRow{}).
		Where("lesson_id = ? AND user_id = ?", lessonID, userID).
		Order("step_number ASC").
		Pluck("step_number", &steps).Error
	if err != nil {
		return nil, fmt.Errorf("load steps %s/%s: %w", lessonID, userID, err)
	}
	return steps, nil
}
