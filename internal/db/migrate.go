package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// Sequence names tracked in the sequences table.
const (
	SeqTask    = "task"
	SeqSubtask = "subtask"
)

// Migrate runs all schema migrations.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	if err := migrateBackfillSequences(db); err != nil {
		return fmt.Errorf("backfilling id sequences: %w", err)
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS tasks (
		id          INTEGER PRIMARY KEY,
		title       TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		status      TEXT NOT NULL DEFAULT 'pending'
		            CHECK(status IN ('pending','in_progress','completed','overdue')),
		priority    TEXT NOT NULL DEFAULT 'medium'
		            CHECK(priority IN ('low','medium','high')),
		assignee    TEXT NOT NULL,
		start_date  TEXT NOT NULL,
		due_date    TEXT NOT NULL,
		end_date    TEXT,
		progress    INTEGER NOT NULL DEFAULT 0 CHECK(progress BETWEEN 0 AND 100),
		order_index INTEGER NOT NULL DEFAULT 0,
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_tasks_order ON tasks(order_index)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_due ON tasks(due_date)`,

	`CREATE TABLE IF NOT EXISTS subtasks (
		id       INTEGER PRIMARY KEY,
		task_id  INTEGER NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
		position INTEGER NOT NULL DEFAULT 0,
		title    TEXT NOT NULL,
		status   TEXT NOT NULL DEFAULT 'pending'
		         CHECK(status IN ('pending','in_progress','completed','overdue')),
		progress INTEGER NOT NULL DEFAULT 0 CHECK(progress BETWEEN 0 AND 100),
		assignee TEXT NOT NULL DEFAULT ''
	)`,

	`CREATE INDEX IF NOT EXISTS idx_subtasks_task ON subtasks(task_id, position)`,

	// High-water marks so deleted ids are never handed out again.
	`CREATE TABLE IF NOT EXISTS sequences (
		name  TEXT PRIMARY KEY,
		value INTEGER NOT NULL DEFAULT 0
	)`,
	`INSERT OR IGNORE INTO sequences (name) VALUES ('task'), ('subtask')`,

	// Weak project reference on tasks
	`ALTER TABLE tasks ADD COLUMN project_id TEXT NOT NULL DEFAULT ''`,
	`ALTER TABLE tasks ADD COLUMN project_name TEXT NOT NULL DEFAULT ''`,
}

// migrateBackfillSequences raises each high-water mark to at least the largest
// id already stored, for databases written before sequences were tracked.
func migrateBackfillSequences(db *sql.DB) error {
	ctx := context.Background()

	queries := []struct {
		name  string
		query string
	}{
		{SeqTask, `UPDATE sequences SET value = MAX(value, (SELECT COALESCE(MAX(id), 0) FROM tasks)) WHERE name = ?`},
		{SeqSubtask, `UPDATE sequences SET value = MAX(value, (SELECT COALESCE(MAX(id), 0) FROM subtasks)) WHERE name = ?`},
	}
	for _, q := range queries {
		if _, err := db.ExecContext(ctx, q.query, q.name); err != nil {
			return fmt.Errorf("raising %s sequence: %w", q.name, err)
		}
	}
	return nil
}
