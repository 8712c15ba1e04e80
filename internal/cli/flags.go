package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/alexanderramin/siteplan/internal/calendar"
	"github.com/alexanderramin/siteplan/internal/domain"
	"github.com/alexanderramin/siteplan/internal/export"
	"github.com/alexanderramin/siteplan/internal/filter"
	"github.com/spf13/pflag"
)

// Enum-like flag values validate at parse time so a typo fails before any
// service call.
var (
	_ pflag.Value = (*statusValue)(nil)
	_ pflag.Value = (*priorityValue)(nil)
	_ pflag.Value = (*dateValue)(nil)
	_ pflag.Value = (*monthValue)(nil)
	_ pflag.Value = (*timeframeValue)(nil)
)

type statusValue struct{ target *domain.TaskStatus }

func (v statusValue) String() string { return string(*v.target) }
func (v statusValue) Type() string   { return "status" }
func (v statusValue) Set(s string) error {
	st, err := domain.ParseTaskStatus(s)
	if err != nil {
		return err
	}
	*v.target = st
	return nil
}

type priorityValue struct{ target *domain.Priority }

func (v priorityValue) String() string { return string(*v.target) }
func (v priorityValue) Type() string   { return "priority" }
func (v priorityValue) Set(s string) error {
	p, err := domain.ParsePriority(s)
	if err != nil {
		return err
	}
	*v.target = p
	return nil
}

// dateValue parses YYYY-MM-DD into a date-only time.
type dateValue struct{ target *time.Time }

func (v dateValue) String() string {
	if v.target.IsZero() {
		return ""
	}
	return v.target.Format(domain.DateLayout)
}
func (v dateValue) Type() string { return "date" }
func (v dateValue) Set(s string) error {
	d, err := domain.ParseDate(s)
	if err != nil {
		return fmt.Errorf("invalid date %q (expected YYYY-MM-DD)", s)
	}
	*v.target = d
	return nil
}

type monthValue struct{ target *calendar.Month }

func (v monthValue) String() string {
	if v.target.Year == 0 {
		return ""
	}
	return v.target.First().Format("2006-01")
}
func (v monthValue) Type() string { return "month" }
func (v monthValue) Set(s string) error {
	m, err := calendar.ParseMonth(s)
	if err != nil {
		return err
	}
	*v.target = m
	return nil
}

type timeframeValue struct{ target *export.Timeframe }

func (v timeframeValue) String() string { return string(*v.target) }
func (v timeframeValue) Type() string   { return "timeframe" }
func (v timeframeValue) Set(s string) error {
	tf, err := export.ParseTimeframe(s)
	if err != nil {
		return err
	}
	*v.target = tf
	return nil
}

// filterFlags binds the shared task filters onto a command.
type filterFlags struct {
	status   domain.TaskStatus
	priority domain.Priority
	assignee string
	project  string
	text     string
}

func (f *filterFlags) register(fs *pflag.FlagSet) {
	fs.Var(statusValue{&f.status}, "status", "Only tasks with this status (pending, in-progress, completed, overdue)")
	fs.Var(priorityValue{&f.priority}, "priority", "Only tasks with this priority (low, medium, high)")
	fs.StringVar(&f.assignee, "assignee", "", "Only tasks whose assignee contains this text")
	fs.StringVar(&f.project, "project", "", "Only tasks referencing this project id")
	fs.StringVarP(&f.text, "search", "s", "", "Only tasks whose title or description contains this text")
}

func (f *filterFlags) criteria() filter.Criteria {
	return filter.Criteria{
		Status:    string(f.status),
		Priority:  string(f.priority),
		Assignee:  f.assignee,
		ProjectID: f.project,
		Text:      f.text,
	}
}

// parseID parses a positive task or subtask id argument.
func parseID(what, s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s id %q", what, s)
	}
	return id, nil
}
