package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alexanderramin/siteplan/internal/db"
	"github.com/alexanderramin/siteplan/internal/domain"
)

// taskColumns is the canonical SELECT column list for tasks.
const taskColumns = `id, title, description, status, priority, assignee,
		start_date, due_date, end_date, progress, order_index,
		project_id, project_name, created_at, updated_at`

// SQLiteTaskRepo implements TaskRepo using a SQLite database.
type SQLiteTaskRepo struct {
	db db.DBTX
}

// NewSQLiteTaskRepo creates a new SQLiteTaskRepo.
func NewSQLiteTaskRepo(conn db.DBTX) *SQLiteTaskRepo {
	return &SQLiteTaskRepo{db: conn}
}

func (r *SQLiteTaskRepo) ListTasks(ctx context.Context) ([]domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks ORDER BY order_index, id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}
	tasks, err := r.scanTasks(rows)
	rows.Close()
	if err != nil {
		return nil, err
	}

	subtasks, err := r.listSubtasks(ctx)
	if err != nil {
		return nil, err
	}
	for i := range tasks {
		tasks[i].Subtasks = subtasks[tasks[i].ID]
	}
	return tasks, nil
}

func (r *SQLiteTaskRepo) listSubtasks(ctx context.Context) (map[int][]domain.Subtask, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT task_id, id, title, status, progress, assignee FROM subtasks ORDER BY task_id, position, id`)
	if err != nil {
		return nil, fmt.Errorf("listing subtasks: %w", err)
	}
	defer rows.Close()

	byTask := make(map[int][]domain.Subtask)
	for rows.Next() {
		var taskID int
		var s domain.Subtask
		var statusStr string
		if err := rows.Scan(&taskID, &s.ID, &s.Title, &statusStr, &s.Progress, &s.Assignee); err != nil {
			return nil, fmt.Errorf("scanning subtask row: %w", err)
		}
		s.Status = domain.TaskStatus(statusStr)
		byTask[taskID] = append(byTask[taskID], s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating subtasks: %w", err)
	}
	return byTask, nil
}

func (r *SQLiteTaskRepo) ReplaceAll(ctx context.Context, tasks []domain.Task) error {
	// Subtasks go with their tasks through ON DELETE CASCADE.
	if _, err := r.db.ExecContext(ctx, `DELETE FROM tasks`); err != nil {
		return fmt.Errorf("clearing tasks: %w", err)
	}
	for i := range tasks {
		if err := r.insert(ctx, &tasks[i]); err != nil {
			return err
		}
	}
	return nil
}

func (r *SQLiteTaskRepo) insert(ctx context.Context, t *domain.Task) error {
	query := `INSERT INTO tasks (id, title, description, status, priority, assignee,
		start_date, due_date, end_date, progress, order_index,
		project_id, project_name, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		t.ID,
		t.Title,
		t.Description,
		string(t.Status),
		string(t.Priority),
		t.Assignee,
		t.StartDate.Format(domain.DateLayout),
		t.DueDate.Format(domain.DateLayout),
		nullableDateToString(t.EndDate),
		t.Progress,
		t.Order,
		t.ProjectID,
		t.ProjectName,
		t.CreatedAt.UTC().Format(time.RFC3339),
		t.UpdatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting task %d: %w", t.ID, err)
	}

	for pos, s := range t.Subtasks {
		_, err := r.db.ExecContext(ctx,
			`INSERT INTO subtasks (id, task_id, position, title, status, progress, assignee)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			s.ID, t.ID, pos, s.Title, string(s.Status), s.Progress, s.Assignee)
		if err != nil {
			return fmt.Errorf("inserting subtask %d of task %d: %w", s.ID, t.ID, err)
		}
	}
	return nil
}

// scanTasks scans multiple tasks from *sql.Rows.
func (r *SQLiteTaskRepo) scanTasks(rows *sql.Rows) ([]domain.Task, error) {
	var tasks []domain.Task
	for rows.Next() {
		var t domain.Task
		var statusStr, priorityStr, startStr, dueStr, createdAtStr, updatedAtStr string
		var endStr sql.NullString

		err := rows.Scan(
			&t.ID, &t.Title, &t.Description, &statusStr, &priorityStr, &t.Assignee,
			&startStr, &dueStr, &endStr, &t.Progress, &t.Order,
			&t.ProjectID, &t.ProjectName, &createdAtStr, &updatedAtStr,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning task row: %w", err)
		}

		t.Status = domain.TaskStatus(statusStr)
		t.Priority = domain.Priority(priorityStr)
		if t.StartDate, err = parseRequiredDate("start_date", startStr); err != nil {
			return nil, fmt.Errorf("task %d: %w", t.ID, err)
		}
		if t.DueDate, err = parseRequiredDate("due_date", dueStr); err != nil {
			return nil, fmt.Errorf("task %d: %w", t.ID, err)
		}
		t.EndDate = parseNullableDate(endStr)
		t.CreatedAt = parseTimestamp(createdAtStr)
		t.UpdatedAt = parseTimestamp(updatedAtStr)
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tasks: %w", err)
	}
	return tasks, nil
}
