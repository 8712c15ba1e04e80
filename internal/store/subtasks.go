package store

import (
	"github.com/alexanderramin/siteplan/internal/domain"
	"github.com/alexanderramin/siteplan/internal/notify"
)

// AddSubtask appends a subtask to the task. Subtask ids are unique across
// every task, not only within the parent.
func (s *Store) AddSubtask(taskID int, in domain.SubtaskInput) (domain.Subtask, error) {
	t, _ := s.find(taskID)
	if t == nil {
		return domain.Subtask{}, s.notFound("add_subtask", "task", taskID)
	}
	if err := validateSubtask(in); err != nil {
		return domain.Subtask{}, err
	}

	status := in.Status
	if status == "" {
		status = domain.StatusPending
	}
	st := domain.Subtask{
		ID:       s.allocSubtaskID(),
		Title:    in.Title,
		Status:   status,
		Progress: domain.ClampProgress(domain.IntFromPtrWithDefault(status.DefaultProgress(), in.Progress)),
		Assignee: domain.CoalesceStr(in.Assignee, t.Assignee),
	}
	t.Subtasks = append(t.Subtasks, st)
	t.UpdatedAt = s.now()

	s.emit(notify.SubtaskAdded, t.ID)
	return st, nil
}

func validateSubtask(in domain.SubtaskInput) error {
	var fields []domain.FieldError
	if in.Title == "" {
		fields = append(fields, domain.FieldError{Field: "title", Message: "is required"})
	}
	if in.Status != "" && !in.Status.Valid() {
		fields = append(fields, domain.FieldError{Field: "status", Message: "is not a known status"})
	}
	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}

// EditSubtask updates a subtask with the same progress rule as Edit.
func (s *Store) EditSubtask(taskID, subtaskID int, patch domain.SubtaskPatch) (domain.Subtask, error) {
	t, _ := s.find(taskID)
	if t == nil {
		return domain.Subtask{}, s.notFound("edit_subtask", "task", taskID)
	}
	idx := subtaskIndex(t, subtaskID)
	if idx < 0 {
		return domain.Subtask{}, s.notFound("edit_subtask", "subtask", subtaskID)
	}
	if patch.Title != nil && *patch.Title == "" {
		return domain.Subtask{}, &domain.ValidationError{Fields: []domain.FieldError{{Field: "title", Message: "cannot be empty"}}}
	}
	if patch.Status != nil && !patch.Status.Valid() {
		return domain.Subtask{}, &domain.ValidationError{Fields: []domain.FieldError{{Field: "status", Message: "is not a known status"}}}
	}

	st := &t.Subtasks[idx]
	if patch.Title != nil {
		st.Title = *patch.Title
	}
	if patch.Assignee != nil {
		st.Assignee = *patch.Assignee
	}
	if patch.Status != nil && *patch.Status != st.Status {
		st.Status = *patch.Status
		if patch.Progress == nil {
			st.Progress = st.Status.DefaultProgress()
		}
	}
	if patch.Progress != nil {
		st.Progress = domain.ClampProgress(*patch.Progress)
	}
	t.UpdatedAt = s.now()

	s.emit(notify.TaskUpdated, t.ID)
	return *st, nil
}

// RemoveSubtask deletes one subtask from its parent.
func (s *Store) RemoveSubtask(taskID, subtaskID int) error {
	t, _ := s.find(taskID)
	if t == nil {
		return s.notFound("remove_subtask", "task", taskID)
	}
	idx := subtaskIndex(t, subtaskID)
	if idx < 0 {
		return s.notFound("remove_subtask", "subtask", subtaskID)
	}
	t.Subtasks = append(t.Subtasks[:idx], t.Subtasks[idx+1:]...)
	t.UpdatedAt = s.now()

	s.emit(notify.TaskUpdated, t.ID)
	return nil
}

func subtaskIndex(t *domain.Task, id int) int {
	for i, st := range t.Subtasks {
		if st.ID == id {
			return i
		}
	}
	return -1
}
