package store

import (
	"github.com/alexanderramin/siteplan/internal/domain"
	"github.com/alexanderramin/siteplan/internal/notify"
)

// Create validates in and appends a new task, or inserts it at in.Position
// when given. Progress defaults from the status unless supplied.
func (s *Store) Create(in domain.TaskInput) (domain.Task, error) {
	if err := in.Validate(); err != nil {
		return domain.Task{}, err
	}

	status := in.Status
	if status == "" {
		status = domain.StatusPending
	}
	priority := in.Priority
	if priority == "" {
		priority = domain.PriorityMedium
	}

	now := s.now()
	t := &domain.Task{
		ID:          s.allocTaskID(),
		Title:       in.Title,
		Description: in.Description,
		Status:      status,
		Priority:    priority,
		Assignee:    in.Assignee,
		StartDate:   domain.DateOnly(in.StartDate),
		DueDate:     domain.DateOnly(in.DueDate),
		Progress:    domain.ClampProgress(domain.IntFromPtrWithDefault(status.DefaultProgress(), in.Progress)),
		ProjectID:   in.ProjectID,
		ProjectName: in.ProjectName,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if in.EndDate != nil {
		end := domain.DateOnly(*in.EndDate)
		t.EndDate = &end
	}

	pos := len(s.tasks)
	if in.Position != nil {
		pos = min(max(*in.Position, 0), len(s.tasks))
	}
	s.tasks = append(s.tasks, nil)
	copy(s.tasks[pos+1:], s.tasks[pos:])
	s.tasks[pos] = t
	s.renumber()

	s.logger.Debug("task created", "id", t.ID, "order", t.Order)
	s.emit(notify.TaskCreated, t.ID)
	return t.Clone(), nil
}

// Edit applies patch to the task. Order is never changed here. When the
// status changes and no progress is supplied, progress is re-derived from
// the new status; an explicit progress always wins and is clamped.
func (s *Store) Edit(id int, patch domain.TaskPatch) (domain.Task, error) {
	t, _ := s.find(id)
	if t == nil {
		return domain.Task{}, s.notFound("edit", "task", id)
	}
	if err := validatePatch(patch); err != nil {
		return domain.Task{}, err
	}

	if patch.Title != nil {
		t.Title = *patch.Title
	}
	if patch.Description != nil {
		t.Description = *patch.Description
	}
	if patch.Priority != nil {
		t.Priority = *patch.Priority
	}
	if patch.Assignee != nil {
		t.Assignee = *patch.Assignee
	}
	if patch.StartDate != nil {
		t.StartDate = domain.DateOnly(*patch.StartDate)
	}
	if patch.DueDate != nil {
		t.DueDate = domain.DateOnly(*patch.DueDate)
	}
	if patch.ClearEndDate {
		t.EndDate = nil
	}
	if patch.EndDate != nil {
		end := domain.DateOnly(*patch.EndDate)
		t.EndDate = &end
	}
	if patch.ProjectID != nil {
		t.ProjectID = *patch.ProjectID
	}
	if patch.ProjectName != nil {
		t.ProjectName = *patch.ProjectName
	}
	if patch.Status != nil && *patch.Status != t.Status {
		t.Status = *patch.Status
		if patch.Progress == nil {
			t.Progress = t.Status.DefaultProgress()
		}
	}
	if patch.Progress != nil {
		t.Progress = domain.ClampProgress(*patch.Progress)
	}
	t.UpdatedAt = s.now()

	s.emit(notify.TaskUpdated, t.ID)
	return t.Clone(), nil
}

func validatePatch(p domain.TaskPatch) error {
	var fields []domain.FieldError
	if p.Title != nil && *p.Title == "" {
		fields = append(fields, domain.FieldError{Field: "title", Message: "cannot be empty"})
	}
	if p.Assignee != nil && *p.Assignee == "" {
		fields = append(fields, domain.FieldError{Field: "assignee", Message: "cannot be empty"})
	}
	if p.StartDate != nil && p.StartDate.IsZero() {
		fields = append(fields, domain.FieldError{Field: "start_date", Message: "cannot be empty"})
	}
	if p.DueDate != nil && p.DueDate.IsZero() {
		fields = append(fields, domain.FieldError{Field: "due_date", Message: "cannot be empty"})
	}
	if p.Status != nil && !p.Status.Valid() {
		fields = append(fields, domain.FieldError{Field: "status", Message: "is not a known status"})
	}
	if p.Priority != nil && !p.Priority.Valid() {
		fields = append(fields, domain.FieldError{Field: "priority", Message: "is not a known priority"})
	}
	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}

// Delete removes the task and its subtasks, then closes the gap in the order
// indices. Deleting an unknown id is a logged no-op and returns false.
func (s *Store) Delete(id int) bool {
	_, idx := s.find(id)
	if idx < 0 {
		_ = s.notFound("delete", "task", id)
		return false
	}
	s.tasks = append(s.tasks[:idx], s.tasks[idx+1:]...)
	s.renumber()

	s.emit(notify.TaskDeleted, id)
	return true
}

// Assign changes only the assignee.
func (s *Store) Assign(id int, assignee string) (domain.Task, error) {
	t, _ := s.find(id)
	if t == nil {
		return domain.Task{}, s.notFound("assign", "task", id)
	}
	if assignee == "" {
		return domain.Task{}, &domain.ValidationError{Fields: []domain.FieldError{{Field: "assignee", Message: "is required"}}}
	}
	t.Assignee = assignee
	t.UpdatedAt = s.now()

	s.emit(notify.TaskAssigned, t.ID)
	return t.Clone(), nil
}

// Reorder applies an explicit ordering. Tasks missing from ids keep their
// relative order after the named ones. An unknown id rejects the whole
// command without changing anything.
func (s *Store) Reorder(ids []int) error {
	for _, id := range ids {
		if t, _ := s.find(id); t == nil {
			return s.notFound("reorder", "task", id)
		}
	}
	s.order.Reorder(s.tasks, ids)

	moved := make([]int, len(s.tasks))
	for i, t := range s.tasks {
		moved[i] = t.ID
	}
	s.emit(notify.TasksReordered, moved...)
	return nil
}
