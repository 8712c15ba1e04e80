package domain

import (
	"fmt"
	"strings"
)

type TaskStatus string

const (
	StatusPending    TaskStatus = "pending"
	StatusInProgress TaskStatus = "in_progress"
	StatusCompleted  TaskStatus = "completed"
	StatusOverdue    TaskStatus = "overdue"
)

// TaskStatuses lists every status in display order.
var TaskStatuses = []TaskStatus{StatusPending, StatusInProgress, StatusCompleted, StatusOverdue}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Priorities lists every priority from most to least urgent.
var Priorities = []Priority{PriorityHigh, PriorityMedium, PriorityLow}

// normalizeLabel folds case and treats spaces, hyphens and underscores alike,
// so "In Progress", "in-progress" and "IN_PROGRESS" compare equal.
func normalizeLabel(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer(" ", "_", "-", "_").Replace(s)
}

// ParseTaskStatus resolves a status key or display label.
func ParseTaskStatus(s string) (TaskStatus, error) {
	n := normalizeLabel(s)
	for _, st := range TaskStatuses {
		if n == string(st) {
			return st, nil
		}
	}
	return "", fmt.Errorf("invalid status %q (want pending, in progress, completed or overdue)", s)
}

// Valid reports whether s is one of the known statuses.
func (s TaskStatus) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted, StatusOverdue:
		return true
	}
	return false
}

// Label returns the human-readable name.
func (s TaskStatus) Label() string {
	switch s {
	case StatusPending:
		return "Pending"
	case StatusInProgress:
		return "In Progress"
	case StatusCompleted:
		return "Completed"
	case StatusOverdue:
		return "Overdue"
	default:
		return string(s)
	}
}

// DefaultProgress is the progress a task or subtask gets when its status is
// set without an explicit progress value.
func (s TaskStatus) DefaultProgress() int {
	switch s {
	case StatusCompleted:
		return 100
	case StatusInProgress:
		return 20
	default:
		return 0
	}
}

// ParsePriority resolves a priority key or display label.
func ParsePriority(s string) (Priority, error) {
	n := normalizeLabel(s)
	for _, p := range Priorities {
		if n == string(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("invalid priority %q (want low, medium or high)", s)
}

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

func (p Priority) Label() string {
	switch p {
	case PriorityLow:
		return "Low"
	case PriorityMedium:
		return "Medium"
	case PriorityHigh:
		return "High"
	default:
		return string(p)
	}
}

// Rank returns a sort weight (lower = more urgent).
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	case PriorityLow:
		return 2
	default:
		return 3
	}
}

// LabelMatches reports whether label names the same status, ignoring case.
func (s TaskStatus) LabelMatches(label string) bool {
	return normalizeLabel(label) == string(s)
}

// LabelMatches reports whether label names the same priority, ignoring case.
func (p Priority) LabelMatches(label string) bool {
	return normalizeLabel(label) == string(p)
}
