// Package notify delivers fire-and-forget mutation events to whatever
// collaborator shows them to the user.
package notify

import (
	"log/slog"
	"time"
)

type Kind string

const (
	TaskCreated     Kind = "task_created"
	TaskUpdated     Kind = "task_updated"
	TaskAssigned    Kind = "task_assigned"
	TaskDeleted     Kind = "task_deleted"
	SubtaskAdded    Kind = "subtask_added"
	TasksReordered  Kind = "tasks_reordered"
	ImportCommitted Kind = "import_committed"
)

// Event describes one successful mutation.
type Event struct {
	Kind    Kind
	TaskIDs []int
	Count   int
	At      time.Time
}

// Notifier receives mutation events. Implementations must not block.
type Notifier interface {
	Notify(Event)
}

// Noop drops every event.
type Noop struct{}

func (Noop) Notify(Event) {}

// OrNoop returns n, or Noop when n is nil.
func OrNoop(n Notifier) Notifier {
	if n == nil {
		return Noop{}
	}
	return n
}

type logNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier writes each event as a structured log record.
func NewLogNotifier(logger *slog.Logger) Notifier {
	if logger == nil {
		return Noop{}
	}
	return &logNotifier{logger: logger}
}

func (n *logNotifier) Notify(e Event) {
	n.logger.Info("notification",
		"kind", string(e.Kind),
		"task_ids", e.TaskIDs,
		"count", e.Count,
	)
}

// Buffer holds events until Flush. The service layer buffers inside a
// transaction and flushes only after commit.
type Buffer struct {
	events []Event
}

func (b *Buffer) Notify(e Event) {
	b.events = append(b.events, e)
}

// Events returns the buffered events.
func (b *Buffer) Events() []Event {
	return b.events
}

// Flush forwards every buffered event to n and empties the buffer.
func (b *Buffer) Flush(n Notifier) {
	n = Safe(n)
	for _, e := range b.events {
		n.Notify(e)
	}
	b.events = nil
}

// Discard empties the buffer without delivering.
func (b *Buffer) Discard() {
	b.events = nil
}

// Multi fans each event out to every non-nil notifier, in order. A
// panicking notifier does not stop the others.
func Multi(ns ...Notifier) Notifier {
	var out multi
	for _, n := range ns {
		if n != nil {
			out = append(out, Safe(n))
		}
	}
	if len(out) == 0 {
		return Noop{}
	}
	return out
}

type multi []Notifier

func (m multi) Notify(e Event) {
	for _, n := range m {
		n.Notify(e)
	}
}

type safeNotifier struct {
	next Notifier
}

// Safe wraps n so that a panicking collaborator cannot break a mutation.
func Safe(n Notifier) Notifier {
	if n == nil {
		return Noop{}
	}
	if _, ok := n.(safeNotifier); ok {
		return n
	}
	return safeNotifier{next: n}
}

func (s safeNotifier) Notify(e Event) {
	defer func() { _ = recover() }()
	s.next.Notify(e)
}
