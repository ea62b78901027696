package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// Migrate brings the tasks table up to the current schema. The base CREATE
// matches the first-release eight-column layout; newer columns are added
// with additive ALTERs so existing databases upgrade in place. Never
// destructive.
func Migrate(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS tasks (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			task TEXT NOT NULL,
			category TEXT,
			completed INTEGER DEFAULT 0,
			duedate DATETIME,
			subtasks TEXT,
			started_at DATETIME,
			completed_at DATETIME
		);`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_completed ON tasks(completed);`,
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	// Columns added after the first release (ignore if already present).
	alterStmts := []string{
		`ALTER TABLE tasks ADD COLUMN priority TEXT DEFAULT 'Medium';`,
		`ALTER TABLE tasks ADD COLUMN tags TEXT DEFAULT '';`,
		`ALTER TABLE tasks ADD COLUMN recurring TEXT DEFAULT 'None';`,
		`ALTER TABLE tasks ADD COLUMN pomodoros INTEGER DEFAULT 0;`,
		`ALTER TABLE tasks ADD COLUMN last_pomodoro_at DATETIME;`,
	}
	for _, stmt := range alterStmts {
		_, err := db.ExecContext(ctx, stmt)
		if err != nil && !strings.Contains(err.Error(), "duplicate column") {
			return fmt.Errorf("migrate alter: %w", err)
		}
	}

	return nil
}
