package importer

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/siteplan/internal/domain"
)

// RowError reports why a row was left out of the staged candidates.
// Index is 0-based; Error prints it 1-based the way a spreadsheet does.
type RowError struct {
	Index  int
	Field  string
	Reason string
}

func (e RowError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("row %d: %s", e.Index+1, e.Reason)
	}
	return fmt.Sprintf("row %d: %s %s", e.Index+1, e.Field, e.Reason)
}

// requiredFields are checked in this order so error lists are stable.
var requiredFields = []string{FieldTitle, FieldAssignee, FieldStartDate, FieldDueDate}

// convertRow maps one row onto a task candidate. Every problem in the row is
// reported; the candidate is only meaningful when errs is empty.
func convertRow(idx int, row Row) (domain.Task, []RowError) {
	var errs []RowError
	fail := func(field, reason string) {
		errs = append(errs, RowError{Index: idx, Field: field, Reason: reason})
	}

	for _, f := range requiredFields {
		if row.Get(f) == "" {
			fail(f, "is required")
		}
	}

	t := domain.Task{
		Title:       row.Get(FieldTitle),
		Description: row.Get(FieldDescription),
		Assignee:    row.Get(FieldAssignee),
		Status:      domain.StatusPending,
		Priority:    domain.PriorityMedium,
		ProjectID:   row.Get(FieldProjectID),
		ProjectName: row.Get(FieldProjectName),
	}

	parseDate := func(field string) (time.Time, bool) {
		raw := row.Get(field)
		if raw == "" {
			return time.Time{}, false
		}
		d, err := parseRowDate(raw)
		if err != nil {
			fail(field, err.Error())
			return time.Time{}, false
		}
		return d, true
	}
	t.StartDate, _ = parseDate(FieldStartDate)
	t.DueDate, _ = parseDate(FieldDueDate)
	if end, ok := parseDate(FieldEndDate); ok {
		t.EndDate = &end
	}

	if raw := row.Get(FieldStatus); raw != "" {
		st, err := domain.ParseTaskStatus(raw)
		if err != nil {
			fail(FieldStatus, err.Error())
		} else {
			t.Status = st
		}
	}
	if raw := row.Get(FieldPriority); raw != "" {
		p, err := domain.ParsePriority(raw)
		if err != nil {
			fail(FieldPriority, err.Error())
		} else {
			t.Priority = p
		}
	}

	t.Progress = t.Status.DefaultProgress()
	if raw := row.Get(FieldProgress); raw != "" {
		p, err := parseProgress(raw)
		if err != nil {
			fail(FieldProgress, err.Error())
		} else {
			t.Progress = domain.ClampProgress(p)
		}
	}

	return t, errs
}

// parseProgress accepts "45", "45%" and "45.6" (truncated).
func parseProgress(s string) (int, error) {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "%"))
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid progress %q (expected 0-100)", s)
	}
	return int(f), nil
}
