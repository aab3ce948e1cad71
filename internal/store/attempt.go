package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

var attemptColumns = []string{
	"id",
	"sequence",
	"lesson_id",
	"user_id",
	"quiz_id",
	"score",
	"correct",
	"total",
	"passed",
	"answers",
	"submitted_at_ms",
}

// attemptRepo implements AttemptRepo on SQLite.
type attemptRepo struct {
	db  *sql.DB
	b   *entsql.DialectBuilder
	seq *sequence
}

func (r *attemptRepo) Append(ctx context.Context, a *Attempt) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	answers, err := json.Marshal(a.Answers)
	if err != nil {
		return fmt.Errorf("encode answers: %w", err)
	}
	if a.SubmittedAt.IsZero() {
		a.SubmittedAt = time.Now()
	}

	query, args := r.b.Insert(tableQuizAttempts).
		Columns(attemptColumns...).
		Values(
			a.ID,
			seqNum,
			a.LessonID,
			a.UserID,
			a.QuizID,
			a.Score,
			a.Correct,
			a.Total,
			a.Passed,
			string(answers),
			a.SubmittedAt.UnixMilli(),
		).
		OnConflict(entsql.ConflictColumns("id"), entsql.DoNothing()).
		Query()
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("save quiz attempt: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n > 0 {
		a.Sequence = seqNum
	}
	return nil
}

func (r *attemptRepo) List(ctx context.Context, lessonID, userID string, opts QueryOpts) ([]Attempt, error) {
	preds := append([]*entsql.Predicate{keyPredicate(lessonID, userID)}, seqPredicates(opts, "submitted_at_ms")...)

	t := r.b.Table(tableQuizAttempts)
	sel := r.b.Select(attemptColumns...).
		From(t).
		Where(entsql.And(preds...)).
		OrderBy(entsql.Desc(t.C("sequence")))
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}
	query, args := sel.Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list quiz attempts: %w", err)
	}
	defer rows.Close()

	var out []Attempt
	for rows.Next() {
		var (
			a           Attempt
			answers     string
			submittedAt int64
		)
		err := rows.Scan(&a.ID, &a.Sequence, &a.LessonID, &a.UserID, &a.QuizID,
			&a.Score, &a.Correct, &a.Total, &a.Passed, &answers, &submittedAt)
		if err != nil {
			return nil, fmt.Errorf("scan quiz attempt: %w", err)
		}
		if err := json.Unmarshal([]byte(answers), &a.Answers); err != nil {
			return nil, fmt.Errorf("decode answers for attempt %s: %w", a.ID, err)
		}
		a.SubmittedAt = time.UnixMilli(submittedAt)
		out = append(out, a)
	}
	return out, rows.Err()
}

// seqPredicates translates the sequence and time bounds of opts.
func seqPredicates(opts QueryOpts, tsColumn string) []*entsql.Predicate {
	var preds []*entsql.Predicate
	if opts.After > 0 {
		preds = append(preds, entsql.GT("sequence", opts.After))
	}
	if opts.Before > 0 {
		preds = append(preds, entsql.LT("sequence", opts.Before))
	}
	if !opts.From.IsZero() {
		preds = append(preds, entsql.GTE(tsColumn, opts.From.UnixMilli()))
	}
	if !opts.To.IsZero() {
		preds = append(preds, entsql.LTE(tsColumn, opts.To.UnixMilli()))
	}
	return preds
}
