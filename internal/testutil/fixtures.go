package testutil

import (
	"sync/atomic"
	"time"

	"github.com/alexanderramin/siteplan/internal/domain"
)

var testTaskCounter atomic.Int64

// Date builds a UTC date-only value.
func Date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// MustDate parses YYYY-MM-DD and panics on malformed input.
func MustDate(s string) time.Time {
	t, err := domain.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return t
}

// TaskInput options
type InputOption func(*domain.TaskInput)

func WithStatus(s domain.TaskStatus) InputOption {
	return func(in *domain.TaskInput) {
		in.Status = s
	}
}

func WithPriority(p domain.Priority) InputOption {
	return func(in *domain.TaskInput) {
		in.Priority = p
	}
}

func WithAssignee(a string) InputOption {
	return func(in *domain.TaskInput) {
		in.Assignee = a
	}
}

func WithDates(start, due time.Time) InputOption {
	return func(in *domain.TaskInput) {
		in.StartDate = start
		in.DueDate = due
	}
}

func WithEndDate(end time.Time) InputOption {
	return func(in *domain.TaskInput) {
		in.EndDate = &end
	}
}

func WithProgress(p int) InputOption {
	return func(in *domain.TaskInput) {
		in.Progress = &p
	}
}

func WithPosition(pos int) InputOption {
	return func(in *domain.TaskInput) {
		in.Position = &pos
	}
}

func WithProject(id, name string) InputOption {
	return func(in *domain.TaskInput) {
		in.ProjectID = id
		in.ProjectName = name
	}
}

// NewTestInput returns a valid TaskInput with a fixed May 2025 schedule.
func NewTestInput(title string, opts ...InputOption) domain.TaskInput {
	in := domain.TaskInput{
		Title:     title,
		Assignee:  "Site Lead",
		Status:    domain.StatusPending,
		Priority:  domain.PriorityMedium,
		StartDate: Date(2025, time.May, 10),
		DueDate:   Date(2025, time.May, 20),
	}
	for _, opt := range opts {
		opt(&in)
	}
	return in
}

// NewTestTask returns a fully populated task value with a unique id, for
// tests that bypass the store.
func NewTestTask(title string, opts ...InputOption) domain.Task {
	in := NewTestInput(title, opts...)
	id := int(testTaskCounter.Add(1))
	now := time.Now().UTC()
	t := domain.Task{
		ID:          id,
		Title:       in.Title,
		Description: in.Description,
		Status:      in.Status,
		Priority:    in.Priority,
		Assignee:    in.Assignee,
		StartDate:   in.StartDate,
		DueDate:     in.DueDate,
		EndDate:     in.EndDate,
		Progress:    domain.IntFromPtrWithDefault(in.Status.DefaultProgress(), in.Progress),
		ProjectID:   in.ProjectID,
		ProjectName: in.ProjectName,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return t
}
