package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTaskStatus_AcceptsKeysAndLabels(t *testing.T) {
	cases := map[string]TaskStatus{
		"pending":     StatusPending,
		"Pending":     StatusPending,
		"In Progress": StatusInProgress,
		"in-progress": StatusInProgress,
		"IN_PROGRESS": StatusInProgress,
		"completed":   StatusCompleted,
		" Overdue ":   StatusOverdue,
	}
	for in, want := range cases {
		got, err := ParseTaskStatus(in)
		require.NoError(t, err, "input %q", in)
		assert.Equal(t, want, got, "input %q", in)
	}
}

func TestParseTaskStatus_Invalid(t *testing.T) {
	_, err := ParseTaskStatus("blocked")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "blocked")
}

func TestParsePriority(t *testing.T) {
	p, err := ParsePriority("HIGH")
	require.NoError(t, err)
	assert.Equal(t, PriorityHigh, p)

	_, err = ParsePriority("urgent")
	assert.Error(t, err)
}

func TestDefaultProgress(t *testing.T) {
	assert.Equal(t, 100, StatusCompleted.DefaultProgress())
	assert.Equal(t, 20, StatusInProgress.DefaultProgress())
	assert.Equal(t, 0, StatusPending.DefaultProgress())
	assert.Equal(t, 0, StatusOverdue.DefaultProgress())
}

func TestPriorityRank(t *testing.T) {
	assert.Less(t, PriorityHigh.Rank(), PriorityMedium.Rank())
	assert.Less(t, PriorityMedium.Rank(), PriorityLow.Rank())
}

func TestLabels(t *testing.T) {
	assert.Equal(t, "In Progress", StatusInProgress.Label())
	assert.Equal(t, "Medium", PriorityMedium.Label())
	assert.True(t, StatusCompleted.LabelMatches("COMPLETED"))
	assert.False(t, StatusCompleted.LabelMatches("complete"))
}

func TestClampProgress(t *testing.T) {
	assert.Equal(t, 0, ClampProgress(-5))
	assert.Equal(t, 55, ClampProgress(55))
	assert.Equal(t, 100, ClampProgress(250))
}

func TestDateOnly_DropsTimeOfDay(t *testing.T) {
	in := time.Date(2025, 5, 10, 17, 45, 0, 0, time.FixedZone("X", 3600))
	got := DateOnly(in)
	assert.Equal(t, time.Date(2025, 5, 10, 0, 0, 0, 0, time.UTC), got)
}

func TestTaskInput_ValidateReportsEveryMissingField(t *testing.T) {
	err := TaskInput{}.Validate()
	require.Error(t, err)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.True(t, verr.Has("title"))
	assert.True(t, verr.Has("assignee"))
	assert.True(t, verr.Has("start_date"))
	assert.True(t, verr.Has("due_date"))
	assert.Len(t, verr.Fields, 4)
}

func TestNotFoundError_MatchesSentinel(t *testing.T) {
	err := error(&NotFoundError{Entity: "task", ID: 7})
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, "task 7 not found", err.Error())
}

func TestTaskClone_IsDeep(t *testing.T) {
	end := time.Date(2025, 5, 4, 0, 0, 0, 0, time.UTC)
	orig := Task{ID: 1, EndDate: &end, Subtasks: []Subtask{{ID: 1, Title: "a"}}}
	c := orig.Clone()
	c.Subtasks[0].Title = "b"
	*c.EndDate = end.AddDate(0, 0, 1)
	assert.Equal(t, "a", orig.Subtasks[0].Title)
	assert.Equal(t, end, *orig.EndDate)
}

func TestScheduleEnd(t *testing.T) {
	due := time.Date(2025, 5, 20, 0, 0, 0, 0, time.UTC)
	task := Task{DueDate: due}
	assert.Equal(t, due, task.ScheduleEnd())

	end := due.AddDate(0, 0, -3)
	task.EndDate = &end
	assert.Equal(t, end, task.ScheduleEnd())
}

func TestIsOverdue(t *testing.T) {
	due := time.Date(2025, 5, 20, 0, 0, 0, 0, time.UTC)
	task := Task{Status: StatusInProgress, DueDate: due}
	assert.False(t, task.IsOverdue(due))
	assert.True(t, task.IsOverdue(due.AddDate(0, 0, 1)))

	task.Status = StatusCompleted
	assert.False(t, task.IsOverdue(due.AddDate(0, 0, 1)))
}

func TestSubtaskProgress(t *testing.T) {
	_, ok := Task{}.SubtaskProgress()
	assert.False(t, ok)

	pct, ok := Task{Subtasks: []Subtask{{Progress: 100}, {Progress: 0}, {Progress: 50}}}.SubtaskProgress()
	assert.True(t, ok)
	assert.Equal(t, 50, pct)
}

func TestProjectLabel(t *testing.T) {
	assert.Equal(t, "Tower A", Task{ProjectID: "p1", ProjectName: "Tower A"}.ProjectLabel())
	assert.Equal(t, "p1", Task{ProjectID: "p1"}.ProjectLabel())
	assert.Equal(t, "--", Task{}.ProjectLabel())
}
