// Package filter composes independent task predicates into one query.
package filter

import (
	"strings"

	"github.com/alexanderramin/siteplan/internal/domain"
)

// Criteria names the optional filters for a task list. An empty field is
// the identity predicate.
type Criteria struct {
	Status    string // status key or label, case-insensitive
	Priority  string // priority key or label, case-insensitive
	Assignee  string // case-insensitive substring of the assignee
	ProjectID string // exact project reference
	Text      string // case-insensitive substring of title or description
}

// IsZero reports whether no criterion is set.
func (c Criteria) IsZero() bool {
	return c == Criteria{}
}

// Predicate decides whether a task belongs in a result.
type Predicate func(domain.Task) bool

// All ANDs predicates together. With no predicates it matches everything.
func All(preds ...Predicate) Predicate {
	return func(t domain.Task) bool {
		for _, p := range preds {
			if !p(t) {
				return false
			}
		}
		return true
	}
}

func ByStatus(label string) Predicate {
	return func(t domain.Task) bool { return t.Status.LabelMatches(label) }
}

func ByPriority(label string) Predicate {
	return func(t domain.Task) bool { return t.Priority.LabelMatches(label) }
}

func ByAssignee(substr string) Predicate {
	needle := strings.ToLower(substr)
	return func(t domain.Task) bool {
		return strings.Contains(strings.ToLower(t.Assignee), needle)
	}
}

func ByProject(projectID string) Predicate {
	return func(t domain.Task) bool { return t.InProject(projectID) }
}

func ByText(substr string) Predicate {
	needle := strings.ToLower(substr)
	return func(t domain.Task) bool {
		return strings.Contains(strings.ToLower(t.Title), needle) ||
			strings.Contains(strings.ToLower(t.Description), needle)
	}
}

// Predicate builds the conjunction of every criterion that is set.
func (c Criteria) Predicate() Predicate {
	var preds []Predicate
	if c.Status != "" {
		preds = append(preds, ByStatus(c.Status))
	}
	if c.Priority != "" {
		preds = append(preds, ByPriority(c.Priority))
	}
	if c.Assignee != "" {
		preds = append(preds, ByAssignee(c.Assignee))
	}
	if c.ProjectID != "" {
		preds = append(preds, ByProject(c.ProjectID))
	}
	if c.Text != "" {
		preds = append(preds, ByText(c.Text))
	}
	return All(preds...)
}

// Apply returns the tasks matching c, preserving their input order.
func Apply(tasks []domain.Task, c Criteria) []domain.Task {
	return Where(tasks, c.Predicate())
}

// Where returns the tasks for which p holds, preserving input order.
func Where(tasks []domain.Task, p Predicate) []domain.Task {
	out := make([]domain.Task, 0, len(tasks))
	for _, t := range tasks {
		if p(t) {
			out = append(out, t)
		}
	}
	return out
}
