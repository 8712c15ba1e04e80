package db

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestMigrate_Idempotent(t *testing.T) {
	db := openTestDB(t)

	// Run migrations a second time; should succeed without error.
	require.NoError(t, Migrate(db))
	require.NoError(t, Migrate(db))
}

func TestMigrate_CreatesAllTables(t *testing.T) {
	db := openTestDB(t)

	for _, table := range []string{"tasks", "subtasks", "sequences"} {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		require.NoError(t, err, "table %s should exist", table)
		assert.Equal(t, table, name)
	}
}

func TestMigrate_CreatesIndexes(t *testing.T) {
	db := openTestDB(t)

	for _, idx := range []string{"idx_tasks_order", "idx_tasks_due", "idx_subtasks_task"} {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='index' AND name=?`, idx).Scan(&name)
		require.NoError(t, err, "index %s should exist", idx)
	}
}

func TestMigrate_ForeignKeysEnabled(t *testing.T) {
	db := openTestDB(t)

	var fk int
	require.NoError(t, db.QueryRow(`PRAGMA foreign_keys`).Scan(&fk))
	assert.Equal(t, 1, fk, "foreign keys should be enabled")
}

func TestMigrate_SeedsSequences(t *testing.T) {
	db := openTestDB(t)

	for _, name := range []string{SeqTask, SeqSubtask} {
		var v int
		require.NoError(t, db.QueryRow(`SELECT value FROM sequences WHERE name = ?`, name).Scan(&v))
		assert.Equal(t, 0, v)
	}
}

func insertTask(t *testing.T, db *sql.DB, id int) {
	t.Helper()
	_, err := db.Exec(`INSERT INTO tasks (id, title, assignee, start_date, due_date, created_at, updated_at)
		VALUES (?, 'T', 'A', '2025-05-01', '2025-05-02', '2025-05-01T00:00:00Z', '2025-05-01T00:00:00Z')`, id)
	require.NoError(t, err)
}

func TestMigrate_TasksCheckConstraints(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Exec(`INSERT INTO tasks (id, title, assignee, start_date, due_date, status, created_at, updated_at)
		VALUES (1, 'T', 'A', '2025-05-01', '2025-05-02', 'blocked', 'x', 'x')`)
	assert.Error(t, err, "unknown status rejected")

	_, err = db.Exec(`INSERT INTO tasks (id, title, assignee, start_date, due_date, progress, created_at, updated_at)
		VALUES (1, 'T', 'A', '2025-05-01', '2025-05-02', 101, 'x', 'x')`)
	assert.Error(t, err, "progress above 100 rejected")
}

func TestMigrate_SubtasksCascadeWithTask(t *testing.T) {
	db := openTestDB(t)
	insertTask(t, db, 1)
	_, err := db.Exec(`INSERT INTO subtasks (id, task_id, title) VALUES (1, 1, 'S')`)
	require.NoError(t, err)

	_, err = db.Exec(`DELETE FROM tasks WHERE id = 1`)
	require.NoError(t, err)

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM subtasks`).Scan(&n))
	assert.Zero(t, n)
}

func TestMigrate_BackfillsSequencesFromExistingRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "legacy.db")
	db, err := OpenDB(path)
	require.NoError(t, err)
	defer db.Close()

	insertTask(t, db, 7)
	_, err = db.Exec(`INSERT INTO subtasks (id, task_id, title) VALUES (12, 7, 'S')`)
	require.NoError(t, err)
	_, err = db.Exec(`UPDATE sequences SET value = 0`)
	require.NoError(t, err)

	require.NoError(t, Migrate(db))

	var task, subtask int
	require.NoError(t, db.QueryRow(`SELECT value FROM sequences WHERE name = 'task'`).Scan(&task))
	require.NoError(t, db.QueryRow(`SELECT value FROM sequences WHERE name = 'subtask'`).Scan(&subtask))
	assert.Equal(t, 7, task)
	assert.Equal(t, 12, subtask)
}

func TestMigrate_BackfillNeverLowersSequence(t *testing.T) {
	db := openTestDB(t)
	_, err := db.Exec(`UPDATE sequences SET value = 40 WHERE name = 'task'`)
	require.NoError(t, err)
	insertTask(t, db, 3)

	require.NoError(t, Migrate(db))

	var v int
	require.NoError(t, db.QueryRow(`SELECT value FROM sequences WHERE name = 'task'`).Scan(&v))
	assert.Equal(t, 40, v)
}
