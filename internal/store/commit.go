package store

import (
	"fmt"

	"github.com/alexanderramin/siteplan/internal/domain"
	"github.com/alexanderramin/siteplan/internal/notify"
)

// Commit appends staged import candidates in one batch. Each receives the
// next order value in input sequence. A candidate id is kept only when it lies
// above every id issued so far and is not repeated in the batch; otherwise it is
// replaced with a fresh one, so a deleted id never comes back. Every candidate
// is checked before anything changes.
func (s *Store) Commit(candidates []domain.Task) ([]domain.Task, error) {
	for i, c := range candidates {
		in := domain.TaskInput{
			Title:     c.Title,
			Assignee:  c.Assignee,
			StartDate: c.StartDate,
			DueDate:   c.DueDate,
			Status:    c.Status,
			Priority:  c.Priority,
		}
		if err := in.Validate(); err != nil {
			return nil, fmt.Errorf("candidate %d: %w", i, err)
		}
	}

	taken := make(map[int]bool, len(s.tasks)+len(candidates))
	for _, t := range s.tasks {
		taken[t.ID] = true
	}

	issued := s.taskSeq
	keep := func(id int) bool { return id > issued && !taken[id] }

	// Kept ids must not be handed out again, so advance the counter past
	// them before reassigning collisions.
	for _, c := range candidates {
		if keep(c.ID) {
			s.taskSeq = max(s.taskSeq, c.ID)
		}
	}

	now := s.now()
	committed := make([]domain.Task, 0, len(candidates))
	ids := make([]int, 0, len(candidates))
	for _, c := range candidates {
		t := c.Clone()
		if !keep(t.ID) {
			t.ID = s.allocTaskID()
		}
		taken[t.ID] = true

		if t.Status == "" {
			t.Status = domain.StatusPending
		}
		if t.Priority == "" {
			t.Priority = domain.PriorityMedium
		}
		t.StartDate = domain.DateOnly(t.StartDate)
		t.DueDate = domain.DateOnly(t.DueDate)
		t.Progress = domain.ClampProgress(t.Progress)
		for i := range t.Subtasks {
			t.Subtasks[i].ID = s.allocSubtaskID()
			t.Subtasks[i].Progress = domain.ClampProgress(t.Subtasks[i].Progress)
		}
		t.Order = len(s.tasks)
		t.CreatedAt = now
		t.UpdatedAt = now

		s.tasks = append(s.tasks, &t)
		committed = append(committed, t.Clone())
		ids = append(ids, t.ID)
	}

	if len(ids) > 0 {
		s.emit(notify.ImportCommitted, ids...)
	}
	return committed, nil
}
