package service

import (
	"context"
	"time"

	"github.com/alexanderramin/siteplan/internal/domain"
	"github.com/alexanderramin/siteplan/internal/filter"
	"github.com/alexanderramin/siteplan/internal/ordering"
	"github.com/alexanderramin/siteplan/internal/store"
)

type taskService struct {
	workspace
	order *ordering.Engine
}

func NewTaskService(env Env, observers ...UseCaseObserver) TaskService {
	w := newWorkspace(env, observers)
	return &taskService{workspace: w, order: ordering.NewEngine(w.logger)}
}

func (s *taskService) Create(ctx context.Context, in domain.TaskInput) (task domain.Task, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"title": in.Title}
	defer observe(ctx, s.observer, "create-task", startedAt, fields, &err)

	err = s.mutate(ctx, func(st *store.Store) error {
		var err error
		task, err = st.Create(in)
		return err
	})
	if err != nil {
		return domain.Task{}, err
	}
	fields["task_id"] = task.ID
	return task, nil
}

func (s *taskService) Get(ctx context.Context, id int) (task domain.Task, err error) {
	err = s.read(ctx, func(st *store.Store) error {
		var err error
		task, err = st.Get(id)
		return err
	})
	return task, err
}

// List returns tasks in display order, narrowed by c.
func (s *taskService) List(ctx context.Context, c filter.Criteria) ([]domain.Task, error) {
	var tasks []domain.Task
	err := s.read(ctx, func(st *store.Store) error {
		tasks = st.Tasks()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return filter.Apply(s.order.Sorted(tasks), c), nil
}

func (s *taskService) Edit(ctx context.Context, id int, patch domain.TaskPatch) (task domain.Task, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"task_id": id}
	defer observe(ctx, s.observer, "edit-task", startedAt, fields, &err)

	err = s.mutate(ctx, func(st *store.Store) error {
		var err error
		task, err = st.Edit(id, patch)
		return err
	})
	return task, err
}

func (s *taskService) Delete(ctx context.Context, id int) (removed bool, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"task_id": id}
	defer observe(ctx, s.observer, "delete-task", startedAt, fields, &err)

	err = s.mutate(ctx, func(st *store.Store) error {
		removed = st.Delete(id)
		return nil
	})
	fields["removed"] = removed
	return removed, err
}

func (s *taskService) Assign(ctx context.Context, id int, assignee string) (task domain.Task, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"task_id": id, "assignee": assignee}
	defer observe(ctx, s.observer, "assign-task", startedAt, fields, &err)

	err = s.mutate(ctx, func(st *store.Store) error {
		var err error
		task, err = st.Assign(id, assignee)
		return err
	})
	return task, err
}

func (s *taskService) Reorder(ctx context.Context, ids []int) (err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"ids": ids}
	defer observe(ctx, s.observer, "reorder-tasks", startedAt, fields, &err)

	return s.mutate(ctx, func(st *store.Store) error {
		return st.Reorder(ids)
	})
}

func (s *taskService) AddSubtask(ctx context.Context, taskID int, in domain.SubtaskInput) (sub domain.Subtask, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"task_id": taskID}
	defer observe(ctx, s.observer, "add-subtask", startedAt, fields, &err)

	err = s.mutate(ctx, func(st *store.Store) error {
		var err error
		sub, err = st.AddSubtask(taskID, in)
		return err
	})
	if err == nil {
		fields["subtask_id"] = sub.ID
	}
	return sub, err
}

func (s *taskService) EditSubtask(ctx context.Context, taskID, subtaskID int, patch domain.SubtaskPatch) (sub domain.Subtask, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"task_id": taskID, "subtask_id": subtaskID}
	defer observe(ctx, s.observer, "edit-subtask", startedAt, fields, &err)

	err = s.mutate(ctx, func(st *store.Store) error {
		var err error
		sub, err = st.EditSubtask(taskID, subtaskID, patch)
		return err
	})
	return sub, err
}

func (s *taskService) RemoveSubtask(ctx context.Context, taskID, subtaskID int) (err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"task_id": taskID, "subtask_id": subtaskID}
	defer observe(ctx, s.observer, "remove-subtask", startedAt, fields, &err)

	return s.mutate(ctx, func(st *store.Store) error {
		return st.RemoveSubtask(taskID, subtaskID)
	})
}
