package domain

import "time"

// DateLayout is the canonical date-only wire format.
const DateLayout = "2006-01-02"

type Task struct {
	ID          int
	Title       string
	Description string
	Status      TaskStatus
	Priority    Priority
	Assignee    string

	StartDate time.Time
	DueDate   time.Time
	EndDate   *time.Time

	Progress int
	Order    int

	// Weak reference to the owning project; lookup only.
	ProjectID   string
	ProjectName string

	Subtasks []Subtask

	CreatedAt time.Time
	UpdatedAt time.Time
}

type Subtask struct {
	ID       int
	Title    string
	Status   TaskStatus
	Progress int
	Assignee string
}

// TaskInput carries the caller-supplied fields for a new task.
// Progress and Position are optional; nil means "use the default rule".
type TaskInput struct {
	Title       string
	Description string
	Status      TaskStatus
	Priority    Priority
	Assignee    string
	StartDate   time.Time
	DueDate     time.Time
	EndDate     *time.Time
	Progress    *int
	Position    *int
	ProjectID   string
	ProjectName string
}

// TaskPatch lists the fields an edit may change. Nil fields are left alone.
// ClearEndDate removes a recorded completion date.
type TaskPatch struct {
	Title        *string
	Description  *string
	Status       *TaskStatus
	Priority     *Priority
	Assignee     *string
	StartDate    *time.Time
	DueDate      *time.Time
	EndDate      *time.Time
	ClearEndDate bool
	Progress     *int
	ProjectID    *string
	ProjectName  *string
}

type SubtaskInput struct {
	Title    string
	Status   TaskStatus
	Progress *int
	Assignee string
}

type SubtaskPatch struct {
	Title    *string
	Status   *TaskStatus
	Progress *int
	Assignee *string
}

// ClampProgress bounds p to [0,100].
func ClampProgress(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// DateOnly strips the time of day, normalizing to UTC midnight of t's calendar date.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD string into a date-only value.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	return DateOnly(t), nil
}

// Clone returns a deep copy; the subtask slice and end date are not shared.
func (t Task) Clone() Task {
	c := t
	if t.EndDate != nil {
		e := *t.EndDate
		c.EndDate = &e
	}
	if t.Subtasks != nil {
		c.Subtasks = make([]Subtask, len(t.Subtasks))
		copy(c.Subtasks, t.Subtasks)
	}
	return c
}

// ScheduleEnd is the end of the task's span: the actual completion date when
// recorded, otherwise the due date.
func (t Task) ScheduleEnd() time.Time {
	if t.EndDate != nil {
		return *t.EndDate
	}
	return t.DueDate
}

// IsOverdue reports whether an unfinished task is past its due date on day now.
func (t Task) IsOverdue(now time.Time) bool {
	if t.Status == StatusCompleted {
		return false
	}
	return DateOnly(now).After(DateOnly(t.DueDate))
}

// SubtaskProgress averages subtask progress; ok is false when there are none.
func (t Task) SubtaskProgress() (pct int, ok bool) {
	if len(t.Subtasks) == 0 {
		return 0, false
	}
	sum := 0
	for _, s := range t.Subtasks {
		sum += s.Progress
	}
	return sum / len(t.Subtasks), true
}

// Validate checks the fields a task cannot exist without.
func (in TaskInput) Validate() error {
	var fields []FieldError
	if in.Title == "" {
		fields = append(fields, FieldError{Field: "title", Message: "is required"})
	}
	if in.Assignee == "" {
		fields = append(fields, FieldError{Field: "assignee", Message: "is required"})
	}
	if in.StartDate.IsZero() {
		fields = append(fields, FieldError{Field: "start_date", Message: "is required"})
	}
	if in.DueDate.IsZero() {
		fields = append(fields, FieldError{Field: "due_date", Message: "is required"})
	}
	if in.Status != "" && !in.Status.Valid() {
		fields = append(fields, FieldError{Field: "status", Message: "is not a known status"})
	}
	if in.Priority != "" && !in.Priority.Valid() {
		fields = append(fields, FieldError{Field: "priority", Message: "is not a known priority"})
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}
