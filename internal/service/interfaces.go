package service

import (
	"context"
	"time"

	"github.com/alexanderramin/siteplan/internal/calendar"
	"github.com/alexanderramin/siteplan/internal/domain"
	"github.com/alexanderramin/siteplan/internal/export"
	"github.com/alexanderramin/siteplan/internal/filter"
	"github.com/alexanderramin/siteplan/internal/importer"
	"github.com/alexanderramin/siteplan/internal/timeline"
	"github.com/google/uuid"
)

type TaskService interface {
	Create(ctx context.Context, in domain.TaskInput) (domain.Task, error)
	Get(ctx context.Context, id int) (domain.Task, error)
	List(ctx context.Context, c filter.Criteria) ([]domain.Task, error)
	Edit(ctx context.Context, id int, patch domain.TaskPatch) (domain.Task, error)
	// Delete reports whether a task was removed; an unknown id is not an error.
	Delete(ctx context.Context, id int) (bool, error)
	Assign(ctx context.Context, id int, assignee string) (domain.Task, error)
	Reorder(ctx context.Context, ids []int) error

	AddSubtask(ctx context.Context, taskID int, in domain.SubtaskInput) (domain.Subtask, error)
	EditSubtask(ctx context.Context, taskID, subtaskID int, patch domain.SubtaskPatch) (domain.Subtask, error)
	RemoveSubtask(ctx context.Context, taskID, subtaskID int) error
}

type ViewService interface {
	Calendar(ctx context.Context, m calendar.Month, c filter.Criteria) (calendar.Buckets, error)
	Timeline(ctx context.Context, c filter.Criteria) ([]timeline.Entry, error)
	Export(ctx context.Context, tf export.Timeframe, anchor time.Time, c filter.Criteria) (export.Report, error)
}

// StagedImport is an import preview awaiting confirmation. ID only
// correlates log lines for the stage and its commit.
type StagedImport struct {
	ID       uuid.UUID
	Source   string
	StagedAt time.Time
	importer.Staged
}

// ImportResult holds the outcome of a committed import.
type ImportResult struct {
	StageID uuid.UUID
	Tasks   []domain.Task
	Skipped int
}

type ImportService interface {
	// Stage previews rows against the current store. Nothing is written.
	Stage(ctx context.Context, source string, rows []importer.Row) (*StagedImport, error)
	StageFile(ctx context.Context, path string) (*StagedImport, error)
	Commit(ctx context.Context, staged *StagedImport) (*ImportResult, error)
}
