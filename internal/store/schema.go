package store

import (
	"context"
	"database/sql"
	"fmt"
)

// Table names.
const (
	tableProgress      = "progress"
	tableProgressSteps = "progress_steps"
	tableQuizAttempts  = "quiz_attempts"
	tableLLMRequests   = "llm_request_events"
)

// ddl creates the tables this package owns. Completed steps live in their own
// table, one row per step, so the set needs no text encoding.
var ddl = []string{
	`CREATE TABLE IF NOT EXISTS progress (
		lesson_id        TEXT    NOT NULL,
		user_id          TEXT    NOT NULL,
		quiz_score       INTEGER NOT NULL DEFAULT 0,
		quiz_attempts    INTEGER NOT NULL DEFAULT 0,
		is_completed     INTEGER NOT NULL DEFAULT 0,
		last_accessed_ms INTEGER NOT NULL DEFAULT 0,
		time_spent_ms    INTEGER NOT NULL DEFAULT 0,
		bookmarked       INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (lesson_id, user_id)
	)`,
	`CREATE INDEX IF NOT EXISTS progress_user ON progress (user_id)`,
	`CREATE TABLE IF NOT EXISTS progress_steps (
		lesson_id   TEXT    NOT NULL,
		user_id     TEXT    NOT NULL,
		step_number INTEGER NOT NULL CHECK (step_number > 0),
		PRIMARY KEY (lesson_id, user_id, step_number),
		FOREIGN KEY (lesson_id, user_id) REFERENCES progress (lesson_id, user_id) ON DELETE CASCADE
	)`,
	`CREATE TABLE IF NOT EXISTS quiz_attempts (
		id              TEXT    PRIMARY KEY,
		sequence        INTEGER NOT NULL,
		lesson_id       TEXT    NOT NULL,
		user_id         TEXT    NOT NULL,
		quiz_id         TEXT    NOT NULL,
		score           INTEGER NOT NULL,
		correct         INTEGER NOT NULL,
		total           INTEGER NOT NULL,
		passed          INTEGER NOT NULL,
		answers         TEXT    NOT NULL DEFAULT '[]',
		submitted_at_ms INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS quiz_attempts_lesson_user ON quiz_attempts (lesson_id, user_id, sequence)`,
	`CREATE TABLE IF NOT EXISTS llm_request_events (
		id            INTEGER PRIMARY KEY AUTOINCREMENT,
		sequence      INTEGER NOT NULL,
		timestamp_ms  INTEGER NOT NULL,
		provider      TEXT    NOT NULL,
		model         TEXT    NOT NULL,
		purpose       TEXT    NOT NULL,
		input_tokens  INTEGER NOT NULL DEFAULT 0,
		output_tokens INTEGER NOT NULL DEFAULT 0,
		latency_ms    INTEGER NOT NULL DEFAULT 0,
		success       INTEGER NOT NULL,
		error_message TEXT    NOT NULL DEFAULT '',
		request_body  TEXT    NOT NULL DEFAULT '',
		response_body TEXT    NOT NULL DEFAULT ''
	)`,
}

func migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range ddl {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("exec ddl: %w", err)
		}
	}
	return nil
}
