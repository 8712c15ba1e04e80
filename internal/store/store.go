// Package store owns the canonical in-memory task collection. It is
// single-writer: every operation runs to completion before the next starts,
// so there is no locking.
package store

import (
	"io"
	"log/slog"
	"time"

	"github.com/alexanderramin/siteplan/internal/domain"
	"github.com/alexanderramin/siteplan/internal/notify"
	"github.com/alexanderramin/siteplan/internal/ordering"
)

// Store holds tasks in display order; tasks[i].Order == i after every mutation.
type Store struct {
	tasks []*domain.Task

	// Highest ids ever issued. Ids are never reused, even after the current
	// maximum is deleted.
	taskSeq    int
	subtaskSeq int

	order    *ordering.Engine
	notifier notify.Notifier
	logger   *slog.Logger
	now      func() time.Time
}

type Option func(*Store)

func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithNotifier sets the collaborator told about successful mutations.
func WithNotifier(n notify.Notifier) Option {
	return func(s *Store) {
		s.notifier = notify.Safe(n)
	}
}

// WithClock overrides the time source used for CreatedAt/UpdatedAt stamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// New creates an empty store.
func New(opts ...Option) *Store {
	s := &Store{
		notifier: notify.Noop{},
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:      func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	s.order = ordering.NewEngine(s.logger)
	return s
}

// Snapshot is the complete state of a store, used to move it in and out of
// persistence.
type Snapshot struct {
	Tasks      []domain.Task
	TaskSeq    int
	SubtaskSeq int
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() Snapshot {
	return Snapshot{
		Tasks:      s.Tasks(),
		TaskSeq:    s.taskSeq,
		SubtaskSeq: s.subtaskSeq,
	}
}

// Restore replaces the store's contents with snap. Inconsistent order
// indices are repaired by falling back to id order.
func (s *Store) Restore(snap Snapshot) {
	s.tasks = make([]*domain.Task, len(snap.Tasks))
	maxTask, maxSub := 0, 0
	for i, t := range snap.Tasks {
		c := t.Clone()
		c.Progress = domain.ClampProgress(c.Progress)
		s.tasks[i] = &c
		maxTask = max(maxTask, c.ID)
		for _, st := range c.Subtasks {
			maxSub = max(maxSub, st.ID)
		}
	}
	s.taskSeq = max(snap.TaskSeq, maxTask)
	s.subtaskSeq = max(snap.SubtaskSeq, maxSub)
	s.order.Repair(s.tasks)
}

// Len returns the number of tasks.
func (s *Store) Len() int {
	return len(s.tasks)
}

// Tasks returns deep copies of every task in display order.
func (s *Store) Tasks() []domain.Task {
	out := make([]domain.Task, len(s.tasks))
	for i, t := range s.tasks {
		out[i] = t.Clone()
	}
	return out
}

// Get returns a copy of the task with the given id.
func (s *Store) Get(id int) (domain.Task, error) {
	t, _ := s.find(id)
	if t == nil {
		return domain.Task{}, &domain.NotFoundError{Entity: "task", ID: id}
	}
	return t.Clone(), nil
}

// NextTaskID returns the id the next created task will receive, without
// consuming it.
func (s *Store) NextTaskID() int {
	return s.taskSeq + 1
}

func (s *Store) allocTaskID() int {
	s.taskSeq++
	return s.taskSeq
}

func (s *Store) allocSubtaskID() int {
	s.subtaskSeq++
	return s.subtaskSeq
}

func (s *Store) find(id int) (*domain.Task, int) {
	for i, t := range s.tasks {
		if t.ID == id {
			return t, i
		}
	}
	return nil, -1
}

func (s *Store) notFound(op string, entity string, id int) error {
	s.logger.Warn("operation on unknown id ignored", "op", op, "entity", entity, "id", id)
	return &domain.NotFoundError{Entity: entity, ID: id}
}

func (s *Store) emit(kind notify.Kind, ids ...int) {
	s.notifier.Notify(notify.Event{Kind: kind, TaskIDs: ids, Count: len(ids), At: s.now()})
}

func (s *Store) renumber() {
	for i, t := range s.tasks {
		t.Order = i
	}
}
