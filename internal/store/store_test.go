package store

import (
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/alexanderramin/siteplan/internal/domain"
	"github.com/alexanderramin/siteplan/internal/notify"
	"github.com/alexanderramin/siteplan/internal/ordering"
	"github.com/alexanderramin/siteplan/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T, opts ...Option) (*Store, *notify.Buffer) {
	t.Helper()
	events := &notify.Buffer{}
	opts = append([]Option{WithNotifier(events), WithClock(func() time.Time { return fixedNow })}, opts...)
	return New(opts...), events
}

func assertDense(t *testing.T, s *Store) {
	t.Helper()
	tasks := s.Tasks()
	ptrs := make([]*domain.Task, len(tasks))
	for i := range tasks {
		ptrs[i] = &tasks[i]
		assert.Equal(t, i, tasks[i].Order)
	}
	require.NoError(t, ordering.Verify(ptrs))
}

func TestCreate_FirstTaskOnEmptyStore(t *testing.T) {
	s, events := newTestStore(t)

	task, err := s.Create(domain.TaskInput{
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
	assert.Equal(t, domain.PriorityMedium, task.Priority)
	assert.Equal(t, fixedNow, task.CreatedAt)
	require.Len(t, events.Events(), 1)
	assert.Equal(t, notify.TaskCreated, events.Events()[0].Kind)
}

func TestCreate_ProgressFromStatus(t *testing.T) {
	s, _ := newTestStore(t)

	done, err := s.Create(testutil.NewTestInput("Survey", testutil.WithStatus(domain.StatusCompleted)))
	require.NoError(t, err)
	assert.Equal(t, 100, done.Progress)

	active, err := s.Create(testutil.NewTestInput("Grade", testutil.WithStatus(domain.StatusInProgress)))
	require.NoError(t, err)
	assert.Equal(t, 20, active.Progress)

	late, err := s.Create(testutil.NewTestInput("Permit", testutil.WithStatus(domain.StatusOverdue)))
	require.NoError(t, err)
	assert.Equal(t, 0, late.Progress)
}

func TestCreate_ExplicitProgressIsClamped(t *testing.T) {
	s, _ := newTestStore(t)

	task, err := s.Create(testutil.NewTestInput("Rebar", testutil.WithStatus(domain.StatusInProgress), testutil.WithProgress(140)))
	require.NoError(t, err)
	assert.Equal(t, 100, task.Progress)

	task, err = s.Create(testutil.NewTestInput("Forms", testutil.WithProgress(-3)))
	require.NoError(t, err)
	assert.Equal(t, 0, task.Progress)
}

func TestCreate_MissingRequiredFields(t *testing.T) {
	s, events := newTestStore(t)

	_, err := s.Create(domain.TaskInput{Title: "No owner"})
	require.Error(t, err)

	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.True(t, verr.Has("assignee"))
	assert.True(t, verr.Has("start_date"))
	assert.True(t, verr.Has("due_date"))
	assert.False(t, verr.Has("title"))

	assert.Equal(t, 0, s.Len())
	assert.Empty(t, events.Events())
	assert.Equal(t, 1, s.NextTaskID(), "failed create must not consume an id")
}

func TestCreate_AtExplicitPosition(t *testing.T) {
	s, _ := newTestStore(t)
	a, _ := s.Create(testutil.NewTestInput("A"))
	b, _ := s.Create(testutil.NewTestInput("B"))

	c, err := s.Create(testutil.NewTestInput("C", testutil.WithPosition(1)))
	require.NoError(t, err)
	assert.Equal(t, 1, c.Order)

	tasks := s.Tasks()
	assert.Equal(t, []int{a.ID, c.ID, b.ID}, []int{tasks[0].ID, tasks[1].ID, tasks[2].ID})
	assertDense(t, s)

	d, err := s.Create(testutil.NewTestInput("D", testutil.WithPosition(99)))
	require.NoError(t, err)
	assert.Equal(t, 3, d.Order)
}

func TestCreate_NormalizesDates(t *testing.T) {
	s, _ := newTestStore(t)
	in := testutil.NewTestInput("Pour")
	in.StartDate = time.Date(2025, 5, 10, 15, 30, 0, 0, time.UTC)

	task, err := s.Create(in)
	require.NoError(t, err)
	assert.Equal(t, testutil.Date(2025, 5, 10), task.StartDate)
}

func TestIDs_NeverReused(t *testing.T) {
	s, _ := newTestStore(t)
	_, _ = s.Create(testutil.NewTestInput("A"))
	b, _ := s.Create(testutil.NewTestInput("B"))

	require.True(t, s.Delete(b.ID))
	c, err := s.Create(testutil.NewTestInput("C"))
	require.NoError(t, err)
	assert.Equal(t, 3, c.ID)
}

func TestEdit_PreservesOrderAndUpdatesFields(t *testing.T) {
	s, _ := newTestStore(t)
	_, _ = s.Create(testutil.NewTestInput("A"))
	b, _ := s.Create(testutil.NewTestInput("B"))

	title := "B revised"
	due := testutil.Date(2025, 6, 1)
	edited, err := s.Edit(b.ID, domain.TaskPatch{Title: &title, DueDate: &due})
	require.NoError(t, err)

	assert.Equal(t, "B revised", edited.Title)
	assert.Equal(t, due, edited.DueDate)
	assert.Equal(t, 1, edited.Order)
}

func TestEdit_StatusChangeRederivesProgress(t *testing.T) {
	s, _ := newTestStore(t)
	task, _ := s.Create(testutil.NewTestInput("A"))

	st := domain.StatusCompleted
	edited, err := s.Edit(task.ID, domain.TaskPatch{Status: &st})
	require.NoError(t, err)
	assert.Equal(t, 100, edited.Progress)

	st = domain.StatusInProgress
	edited, err = s.Edit(task.ID, domain.TaskPatch{Status: &st})
	require.NoError(t, err)
	assert.Equal(t, 20, edited.Progress)
}

func TestEdit_ExplicitProgressWinsOverStatus(t *testing.T) {
	s, _ := newTestStore(t)
	task, _ := s.Create(testutil.NewTestInput("A"))

	st := domain.StatusInProgress
	p := 65
	edited, err := s.Edit(task.ID, domain.TaskPatch{Status: &st, Progress: &p})
	require.NoError(t, err)
	assert.Equal(t, 65, edited.Progress)

	p = 400
	edited, err = s.Edit(task.ID, domain.TaskPatch{Progress: &p})
	require.NoError(t, err)
	assert.Equal(t, 100, edited.Progress)
	assert.Equal(t, domain.StatusInProgress, edited.Status)
}

func TestEdit_SameStatusKeepsProgress(t *testing.T) {
	s, _ := newTestStore(t)
	task, _ := s.Create(testutil.NewTestInput("A", testutil.WithStatus(domain.StatusInProgress), testutil.WithProgress(70)))

	st := domain.StatusInProgress
	edited, err := s.Edit(task.ID, domain.TaskPatch{Status: &st})
	require.NoError(t, err)
	assert.Equal(t, 70, edited.Progress)
}

func TestEdit_EndDateSetAndClear(t *testing.T) {
	s, _ := newTestStore(t)
	task, _ := s.Create(testutil.NewTestInput("A"))

	end := testutil.Date(2025, 5, 18)
	edited, err := s.Edit(task.ID, domain.TaskPatch{EndDate: &end})
	require.NoError(t, err)
	require.NotNil(t, edited.EndDate)
	assert.Equal(t, end, *edited.EndDate)

	edited, err = s.Edit(task.ID, domain.TaskPatch{ClearEndDate: true})
	require.NoError(t, err)
	assert.Nil(t, edited.EndDate)
}

func TestEdit_NotFound(t *testing.T) {
	s, events := newTestStore(t)
	title := "x"
	_, err := s.Edit(42, domain.TaskPatch{Title: &title})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	assert.Empty(t, events.Events())
}

func TestEdit_RejectsEmptyRequiredField(t *testing.T) {
	s, _ := newTestStore(t)
	task, _ := s.Create(testutil.NewTestInput("A"))

	empty := ""
	_, err := s.Edit(task.ID, domain.TaskPatch{Assignee: &empty})
	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.True(t, verr.Has("assignee"))

	got, _ := s.Get(task.ID)
	assert.Equal(t, "Site Lead", got.Assignee)
}

func TestDelete_CompactsOrder(t *testing.T) {
	s, events := newTestStore(t)
	a, _ := s.Create(testutil.NewTestInput("A"))
	b, _ := s.Create(testutil.NewTestInput("B"))
	c, _ := s.Create(testutil.NewTestInput("C"))
	_, err := s.AddSubtask(b.ID, domain.SubtaskInput{Title: "inspect"})
	require.NoError(t, err)

	assert.True(t, s.Delete(b.ID))
	assertDense(t, s)

	tasks := s.Tasks()
	assert.Equal(t, []int{a.ID, c.ID}, []int{tasks[0].ID, tasks[1].ID})
	_, err = s.Get(b.ID)
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	last := events.Events()[len(events.Events())-1]
	assert.Equal(t, notify.TaskDeleted, last.Kind)
}

func TestDelete_UnknownIsNoop(t *testing.T) {
	s, events := newTestStore(t)
	_, _ = s.Create(testutil.NewTestInput("A"))
	before := len(events.Events())

	assert.False(t, s.Delete(99))
	assert.Equal(t, 1, s.Len())
	assert.Len(t, events.Events(), before)
}

func TestAssign(t *testing.T) {
	s, _ := newTestStore(t)
	task, _ := s.Create(testutil.NewTestInput("A", testutil.WithStatus(domain.StatusInProgress)))

	got, err := s.Assign(task.ID, "Maria")
	require.NoError(t, err)
	assert.Equal(t, "Maria", got.Assignee)
	assert.Equal(t, domain.StatusInProgress, got.Status)
	assert.Equal(t, task.Progress, got.Progress)

	_, err = s.Assign(77, "Maria")
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	_, err = s.Assign(task.ID, "")
	var verr *domain.ValidationError
	assert.True(t, errors.As(err, &verr))
}

func TestReorder_MovesLastTaskToFront(t *testing.T) {
	s, events := newTestStore(t)
	for _, title := range []string{"1", "2", "3"} {
		_, err := s.Create(testutil.NewTestInput(title))
		require.NoError(t, err)
	}

	require.NoError(t, s.Reorder([]int{3, 1, 2}))

	orders := map[int]int{}
	for _, task := range s.Tasks() {
		orders[task.ID] = task.Order
	}
	assert.Equal(t, map[int]int{3: 0, 1: 1, 2: 2}, orders)
	last := events.Events()[len(events.Events())-1]
	assert.Equal(t, notify.TasksReordered, last.Kind)
}

func TestReorder_UnknownIDRejectsWholeCommand(t *testing.T) {
	s, _ := newTestStore(t)
	_, _ = s.Create(testutil.NewTestInput("1"))
	_, _ = s.Create(testutil.NewTestInput("2"))

	err := s.Reorder([]int{2, 9})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	assert.Equal(t, 1, s.Tasks()[0].ID)
}

func TestTasks_ReturnsCopies(t *testing.T) {
	s, _ := newTestStore(t)
	task, _ := s.Create(testutil.NewTestInput("A"))
	_, _ = s.AddSubtask(task.ID, domain.SubtaskInput{Title: "x"})

	tasks := s.Tasks()
	tasks[0].Title = "mutated"
	tasks[0].Subtasks[0].Title = "mutated"

	got, _ := s.Get(task.ID)
	assert.Equal(t, "A", got.Title)
	assert.Equal(t, "x", got.Subtasks[0].Title)
}

func TestProperty_RandomCreateDeleteKeepsInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	s, _ := newTestStore(t)
	var live []int

	for step := 0; step < 300; step++ {
		if len(live) == 0 || rng.Intn(3) > 0 {
			opts := []testutil.InputOption{testutil.WithProgress(rng.Intn(300) - 100)}
			if rng.Intn(4) == 0 {
				opts = append(opts, testutil.WithPosition(rng.Intn(len(live)+1)))
			}
			task, err := s.Create(testutil.NewTestInput("t", opts...))
			require.NoError(t, err)
			live = append(live, task.ID)
		} else {
			i := rng.Intn(len(live))
			require.True(t, s.Delete(live[i]))
			live = append(live[:i], live[i+1:]...)
		}

		assertDense(t, s)
		seen := map[int]bool{}
		for _, task := range s.Tasks() {
			assert.False(t, seen[task.ID], "duplicate id %d", task.ID)
			seen[task.ID] = true
			assert.GreaterOrEqual(t, task.Progress, 0)
			assert.LessOrEqual(t, task.Progress, 100)
		}
	}
}

func TestSnapshotRestore_RoundTrip(t *testing.T) {
	s, _ := newTestStore(t)
	a, _ := s.Create(testutil.NewTestInput("A"))
	b, _ := s.Create(testutil.NewTestInput("B"))
	_, _ = s.AddSubtask(a.ID, domain.SubtaskInput{Title: "x"})
	s.Delete(b.ID)

	snap := s.Snapshot()
	restored := New()
	restored.Restore(snap)

	assert.Equal(t, s.Tasks(), restored.Tasks())
	assert.Equal(t, 3, restored.NextTaskID(), "high-water mark survives restore")

	st, err := restored.AddSubtask(a.ID, domain.SubtaskInput{Title: "y"})
	require.NoError(t, err)
	assert.Equal(t, 2, st.ID)
}

func TestRestore_RepairsInconsistentOrder(t *testing.T) {
	s := New()
	s.Restore(Snapshot{Tasks: []domain.Task{
		{ID: 4, Order: 2, Title: "d", Progress: 180},
		{ID: 2, Order: 2, Title: "b"},
		{ID: 9, Order: 7, Title: "i"},
	}})

	tasks := s.Tasks()
	assert.Equal(t, []int{2, 4, 9}, []int{tasks[0].ID, tasks[1].ID, tasks[2].ID})
	assertDense(t, s)
	assert.Equal(t, 100, tasks[1].Progress)
	assert.Equal(t, 10, s.NextTaskID())
}
