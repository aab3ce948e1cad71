package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	entsql "entgo.io/ent/dialect/sql"
)

const tableEventSequence = "event_sequence"

// sequence hands out the ordering number shared by quiz attempts and LLM
// request events. The counter lives in a one-row table so separate
// processes on the same file (the TUI and a CLI command) never reuse a
// number.
type sequence struct {
	mu sync.Mutex
	db *sql.DB
	b  *entsql.DialectBuilder
}

func newSequence(ctx context.Context, db *sql.DB) (*sequence, error) {
	s := &sequence{db: db, b: builder()}

	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS event_sequence (
		id    INTEGER PRIMARY KEY CHECK (id = 1),
		value INTEGER NOT NULL
	)`); err != nil {
		return nil, fmt.Errorf("create sequence table: %w", err)
	}

	query, args := s.b.Insert(tableEventSequence).
		Columns("id", "value").
		Values(1, 1).
		OnConflict(entsql.ConflictColumns("id"), entsql.DoNothing()).
		Query()
	if _, err := db.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("seed sequence: %w", err)
	}
	return s, nil
}

// Next returns the current value and advances the counter in one
// transaction.
func (s *sequence) Next(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}
	defer tx.Rollback()

	query, args := s.b.Select("value").From(s.b.Table(tableEventSequence)).Where(entsql.EQ("id", 1)).Query()
	var n int64
	if err := tx.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("read sequence: %w", err)
	}

	query, args = s.b.Update(tableEventSequence).Add("value", 1).Where(entsql.EQ("id", 1)).Query()
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return 0, fmt.Errorf("advance sequence: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit sequence: %w", err)
	}
	return n, nil
}
