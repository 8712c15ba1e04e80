package repository

import (
	"context"

	"github.com/alexanderramin/siteplan/internal/domain"
)

// TaskRepo persists the full task collection, subtasks included.
type TaskRepo interface {
	// ListTasks returns every task by ascending order index, with subtasks
	// in their stored position.
	ListTasks(ctx context.Context) ([]domain.Task, error)
	// ReplaceAll overwrites the stored collection with tasks.
	ReplaceAll(ctx context.Context, tasks []domain.Task) error
}

// SequenceRepo tracks named id high-water marks.
type SequenceRepo interface {
	Get(ctx context.Context, name string) (int, error)
	// Advance raises the mark to at least value; it never lowers it.
	Advance(ctx context.Context, name string, value int) error
}
