package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/alexanderramin/siteplan/internal/domain"
	"github.com/alexanderramin/siteplan/internal/filter"
	"github.com/alexanderramin/siteplan/internal/notify"
	"github.com/alexanderramin/siteplan/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskService_CreateOnEmptyStore(t *testing.T) {
	te := newTestEnv(t)
	ctx := context.Background()
	svc := NewTaskService(te.Env)

	task, err := svc.Create(ctx, domain.TaskInput{
		Title:     "Excavate",
		Assignee:  "A",
		StartDate: testutil.MustDate("2025-05-10"),
		DueDate:   testutil.MustDate("2025-05-20"),
		Status:    domain.StatusPending,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, task.ID)
	assert.Equal(t, 0, task.Order)
	assert.Equal(t, 0, task.Progress)
	assert.Equal(t, fixedNow, task.CreatedAt)

	// A fresh service sees the persisted task.
	got, err := NewTaskService(te.Env).Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Excavate", got.Title)
}

func TestTaskService_IDsNeverReusedAcrossReloads(t *testing.T) {
	te := newTestEnv(t)
	ctx := context.Background()
	svc := NewTaskService(te.Env)

	_, err := svc.Create(ctx, testutil.NewTestInput("A"))
	require.NoError(t, err)
	b, err := svc.Create(ctx, testutil.NewTestInput("B"))
	require.NoError(t, err)

	removed, err := svc.Delete(ctx, b.ID)
	require.NoError(t, err)
	assert.True(t, removed)

	c, err := NewTaskService(te.Env).Create(ctx, testutil.NewTestInput("C"))
	require.NoError(t, err)
	assert.Equal(t, 3, c.ID)
	assert.Equal(t, 1, c.Order)
}

func TestTaskService_NotifiesAfterCommit(t *testing.T) {
	te := newTestEnv(t)
	ctx := context.Background()
	svc := NewTaskService(te.Env)

	task, err := svc.Create(ctx, testutil.NewTestInput("A"))
	require.NoError(t, err)

	events := te.Events.Events()
	require.Len(t, events, 1)
	assert.Equal(t, notify.TaskCreated, events[0].Kind)
	assert.Equal(t, []int{task.ID}, events[0].TaskIDs)
}

func TestTaskService_NoNotificationOnValidationFailure(t *testing.T) {
	te := newTestEnv(t)
	svc := NewTaskService(te.Env)

	_, err := svc.Create(context.Background(), testutil.NewTestInput("A", testutil.WithAssignee("")))
	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.True(t, verr.Has("assignee"))
	assert.Empty(t, te.Events.Events())
}

func TestTaskService_RollbackOnPersistFailure(t *testing.T) {
	te := newTestEnv(t)
	ctx := context.Background()
	_, err := NewTaskService(te.Env).Create(ctx, testutil.NewTestInput("existing"))
	require.NoError(t, err)
	te.Events.Discard()

	// ExecContext #1 clears tasks, #2 and #3 insert them, #4 advances the task sequence.
	failUoW := &testutil.FailOnNthExecUoW{
		DB:     te.DB,
		FailOn: 4,
		Err:    fmt.Errorf("injected sequence failure"),
	}
	_, err = NewTaskService(te.withUoW(failUoW)).Create(ctx, testutil.NewTestInput("doomed"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "injected sequence failure")
	assert.Empty(t, te.Events.Events(), "no notification for a rolled-back mutation")

	tasks, err := NewTaskService(te.Env).List(ctx, filter.Criteria{})
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "existing", tasks[0].Title)

	next, err := NewTaskService(te.Env).Create(ctx, testutil.NewTestInput("retry"))
	require.NoError(t, err)
	assert.Equal(t, 2, next.ID, "rolled-back id allocation is not persisted")
}

func TestTaskService_ReorderScenario(t *testing.T) {
	te := newTestEnv(t)
	ctx := context.Background()
	svc := NewTaskService(te.Env)
	for _, title := range []string{"one", "two", "three"} {
		_, err := svc.Create(ctx, testutil.NewTestInput(title))
		require.NoError(t, err)
	}

	require.NoError(t, svc.Reorder(ctx, []int{3, 1, 2}))

	tasks, err := svc.List(ctx, filter.Criteria{})
	require.NoError(t, err)
	ids := make([]int, len(tasks))
	for i, task := range tasks {
		ids[i] = task.ID
		assert.Equal(t, i, task.Order)
	}
	assert.Equal(t, []int{3, 1, 2}, ids)

	last := te.Events.Events()[len(te.Events.Events())-1]
	assert.Equal(t, notify.TasksReordered, last.Kind)
}

func TestTaskService_ReorderUnknownIDChangesNothing(t *testing.T) {
	te := newTestEnv(t)
	ctx := context.Background()
	svc := NewTaskService(te.Env)
	_, _ = svc.Create(ctx, testutil.NewTestInput("one"))
	_, _ = svc.Create(ctx, testutil.NewTestInput("two"))

	err := svc.Reorder(ctx, []int{2, 9})
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	tasks, err := svc.List(ctx, filter.Criteria{})
	require.NoError(t, err)
	assert.Equal(t, 1, tasks[0].ID)
}

func TestTaskService_DeleteUnknownIsNoop(t *testing.T) {
	te := newTestEnv(t)
	svc := NewTaskService(te.Env)

	removed, err := svc.Delete(context.Background(), 42)
	require.NoError(t, err)
	assert.False(t, removed)
	assert.Empty(t, te.Events.Events())
}

func TestTaskService_EditAndAssign(t *testing.T) {
	te := newTestEnv(t)
	ctx := context.Background()
	svc := NewTaskService(te.Env)
	task, _ := svc.Create(ctx, testutil.NewTestInput("Frame"))

	done := domain.StatusCompleted
	edited, err := svc.Edit(ctx, task.ID, domain.TaskPatch{Status: &done})
	require.NoError(t, err)
	assert.Equal(t, 100, edited.Progress)

	assigned, err := svc.Assign(ctx, task.ID, "Crew 7")
	require.NoError(t, err)
	assert.Equal(t, "Crew 7", assigned.Assignee)
	assert.Equal(t, 100, assigned.Progress)

	_, err = svc.Assign(ctx, 99, "Crew 7")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestTaskService_SubtasksPersist(t *testing.T) {
	te := newTestEnv(t)
	ctx := context.Background()
	svc := NewTaskService(te.Env)
	a, _ := svc.Create(ctx, testutil.NewTestInput("A"))
	b, _ := svc.Create(ctx, testutil.NewTestInput("B"))

	s1, err := svc.AddSubtask(ctx, a.ID, domain.SubtaskInput{Title: "shore"})
	require.NoError(t, err)
	s2, err := svc.AddSubtask(ctx, b.ID, domain.SubtaskInput{Title: "pour"})
	require.NoError(t, err)
	assert.Equal(t, 1, s1.ID)
	assert.Equal(t, 2, s2.ID)

	edited, err := svc.EditSubtask(ctx, a.ID, s1.ID, domain.SubtaskPatch{Progress: ptrInt(60)})
	require.NoError(t, err)
	assert.Equal(t, 60, edited.Progress)

	require.NoError(t, svc.RemoveSubtask(ctx, b.ID, s2.ID))
	s3, err := svc.AddSubtask(ctx, b.ID, domain.SubtaskInput{Title: "cure"})
	require.NoError(t, err)
	assert.Equal(t, 3, s3.ID, "subtask ids survive reloads without reuse")

	got, err := svc.Get(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, got.Subtasks, 1)
	assert.Equal(t, 60, got.Subtasks[0].Progress)
	assert.Equal(t, "Site Lead", got.Subtasks[0].Assignee)

	removed, err := svc.Delete(ctx, a.ID)
	require.NoError(t, err)
	require.True(t, removed)
	var n int
	require.NoError(t, te.DB.QueryRow(`SELECT COUNT(*) FROM subtasks WHERE task_id = ?`, a.ID).Scan(&n))
	assert.Zero(t, n)
}

func TestTaskService_ListFilters(t *testing.T) {
	te := newTestEnv(t)
	ctx := context.Background()
	svc := NewTaskService(te.Env)
	_, _ = svc.Create(ctx, testutil.NewTestInput("done high", testutil.WithStatus(domain.StatusCompleted), testutil.WithPriority(domain.PriorityHigh)))
	_, _ = svc.Create(ctx, testutil.NewTestInput("done low", testutil.WithStatus(domain.StatusCompleted), testutil.WithPriority(domain.PriorityLow)))
	_, _ = svc.Create(ctx, testutil.NewTestInput("pending high", testutil.WithPriority(domain.PriorityHigh)))

	completed, err := svc.List(ctx, filter.Criteria{Status: "completed"})
	require.NoError(t, err)
	assert.Len(t, completed, 2)

	both, err := svc.List(ctx, filter.Criteria{Status: "completed", Priority: "high"})
	require.NoError(t, err)
	require.Len(t, both, 1)
	assert.Equal(t, "done high", both[0].Title)
}

func TestTaskService_ObservesUseCases(t *testing.T) {
	te := newTestEnv(t)
	obs := &recordingObserver{}
	svc := NewTaskService(te.Env, obs)

	_, err := svc.Create(context.Background(), testutil.NewTestInput("A"))
	require.NoError(t, err)
	ev := obs.last()
	assert.Equal(t, "create-task", ev.Name)
	assert.True(t, ev.Success)
	assert.Equal(t, 1, ev.Fields["task_id"])

	_, err = svc.Edit(context.Background(), 77, domain.TaskPatch{})
	require.Error(t, err)
	ev = obs.last()
	assert.Equal(t, "edit-task", ev.Name)
	assert.False(t, ev.Success)
	assert.ErrorIs(t, ev.Err, domain.ErrNotFound)
}
