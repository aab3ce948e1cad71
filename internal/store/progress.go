package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

var progressColumns = []string{
	"lesson_id",
	"user_id",
	"quiz_score",
	"quiz_attempts",
	"is_completed",
	"last_accessed_ms",
	"time_spent_ms",
	"bookmarked",
}

// progressRepo implements ProgressRepo on SQLite.
type progressRepo struct {
	db *sql.DB
	b  *entsql.DialectBuilder
}

func keyPredicate(lessonID, userID string) *entsql.Predicate {
	return entsql.And(entsql.EQ("lesson_id", lessonID), entsql.EQ("user_id", userID))
}

func (r *progressRepo) Get(ctx context.Context, lessonID, userID string) (*Progress, error) {
	query, args := r.b.Select(progressColumns...).
		From(r.b.Table(tableProgress)).
		Where(keyPredicate(lessonID, userID)).
		Query()

	p, err := scanProgress(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get progress %s/%s: %w", lessonID, userID, err)
	}

	steps, err := r.steps(ctx, lessonID, userID)
	if err != nil {
		return nil, err
	}
	p.CompletedSteps = steps
	return &p, nil
}

func (r *progressRepo) Put(ctx context.Context, p Progress) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	query, args := r.b.Insert(tableProgress).
		Columns(progressColumns...).
		Values(
			p.LessonID,
			p.UserID,
			p.QuizScore,
			p.QuizAttempts,
			p.Completed,
			unixMilli(p.LastAccessed),
			p.TimeSpent.Milliseconds(),
			p.Bookmarked,
		).
		OnConflict(
			entsql.ConflictColumns("lesson_id", "user_id"),
			entsql.ResolveWithNewValues(),
		).
		Query()
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert progress %s/%s: %w", p.LessonID, p.UserID, err)
	}

	query, args = r.b.Delete(tableProgressSteps).
		Where(keyPredicate(p.LessonID, p.UserID)).
		Query()
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("clear steps %s/%s: %w", p.LessonID, p.UserID, err)
	}

	if len(p.CompletedSteps) > 0 {
		ins := r.b.Insert(tableProgressSteps).Columns("lesson_id", "user_id", "step_number")
		for _, n := range p.CompletedSteps {
			ins.Values(p.LessonID, p.UserID, n)
		}
		query, args = ins.Query()
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert steps %s/%s: %w", p.LessonID, p.UserID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit progress: %w", err)
	}
	return nil
}

func (r *progressRepo) Delete(ctx context.Context, lessonID, userID string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{tableProgressSteps, tableProgress} {
		query, args := r.b.Delete(table).Where(keyPredicate(lessonID, userID)).Query()
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("delete from %s: %w", table, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete: %w", err)
	}
	return nil
}

func (r *progressRepo) ListByUser(ctx context.Context, userID string, opts ListOpts) ([]Progress, error) {
	preds := []*entsql.Predicate{entsql.EQ("user_id", userID)}
	if opts.CompletedOnly {
		preds = append(preds, entsql.EQ("is_completed", true))
	}
	if opts.BookmarkedOnly {
		preds = append(preds, entsql.EQ("bookmarked", true))
	}

	t := r.b.Table(tableProgress)
	query, args := r.b.Select(progressColumns...).
		From(t).
		Where(entsql.And(preds...)).
		OrderBy(entsql.Desc(t.C("last_accessed_ms")), entsql.Asc(t.C("lesson_id"))).
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list progress: %w", err)
	}
	defer rows.Close()

	var out []Progress
	for rows.Next() {
		p, err := scanProgress(rows)
		if err != nil {
			return nil, fmt.Errorf("scan progress: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list progress: %w", err)
	}
	rows.Close()

	for i := range out {
		steps, err := r.steps(ctx, out[i].LessonID, userID)
		if err != nil {
			return nil, err
		}
		out[i].CompletedSteps = steps
	}
	return out, nil
}

func (r *progressRepo) Summary(ctx context.Context, userID string) (ProgressSummary, error) {
	var s ProgressSummary

	query, args := r.b.Select(
		entsql.Count("*"),
		entsql.Sum("is_completed"),
		entsql.Sum("bookmarked"),
	).
		From(r.b.Table(tableProgress)).
		Where(entsql.EQ("user_id", userID)).
		Query()

	var completed, bookmarked sql.NullInt64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&s.Lessons, &completed, &bookmarked); err != nil {
		return s, fmt.Errorf("summarize progress: %w", err)
	}
	s.Completed = int(completed.Int64)
	s.Bookmarked = int(bookmarked.Int64)

	query, args = r.b.Select(entsql.Count("*"), entsql.Avg("quiz_score")).
		From(r.b.Table(tableProgress)).
		Where(entsql.And(entsql.EQ("user_id", userID), entsql.GT("quiz_score", 0))).
		Query()

	var avg sql.NullFloat64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&s.Scored, &avg); err != nil {
		return s, fmt.Errorf("average quiz score: %w", err)
	}
	s.AverageScore = avg.Float64
	return s, nil
}

func (r *progressRepo) steps(ctx context.Context, lessonID, userID string) ([]int, error) {
	t := r.b.Table(tableProgressSteps)
	query, args := r.b.Select("step_number").
		From(t).
		Where(keyPredicate(lessonID, userID)).
		OrderBy(entsql.Asc(t.C("step_number"))).
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("load steps %s/%s: %w", lessonID, userID, err)
	}
	defer rows.Close()

	steps := []int{}
	for rows.Next() {
		var n int
		if err := rows.Scan(&n); err != nil {
			return nil, fmt.Errorf("scan step: %w", err)
		}
		steps = append(steps, n)
	}
	return steps, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProgress(row rowScanner) (Progress, error) {
	var (
		p            Progress
		lastAccessed int64
		timeSpent    int64
	)
	err := row.Scan(
		&p.LessonID,
		&p.UserID,
		&p.QuizScore,
		&p.QuizAttempts,
		&p.Completed,
		&lastAccessed,
		&timeSpent,
		&p.Bookmarked,
	)
	if err != nil {
		return Progress{}, err
	}
	if lastAccessed > 0 {
		p.LastAccessed = time.UnixMilli(lastAccessed)
	}
	p.TimeSpent = time.Duration(timeSpent) * time.Millisecond
	p.CompletedSteps = []int{}
	return p, nil
}

// unixMilli stores the zero time as 0 rather than a large negative value.
func unixMilli(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}
