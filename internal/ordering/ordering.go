// Package ordering keeps task order indices dense and unique and resolves
// explicit reorder commands.
package ordering

import (
	"fmt"
	"io"
	"log/slog"
	"sort"

	"github.com/alexanderramin/siteplan/internal/domain"
)

// Engine applies ordering rules to a task collection. It never touches any
// field other than Order.
type Engine struct {
	logger *slog.Logger
}

// NewEngine creates an Engine. A nil logger discards warnings.
func NewEngine(logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Engine{logger: logger}
}

// Verify checks that the orders of tasks are exactly 0..n-1 with no duplicates.
func Verify(tasks []*domain.Task) error {
	orders := make([]int, len(tasks))
	for i, t := range tasks {
		orders[i] = t.Order
	}
	return verifyOrders(orders)
}

func verifyOrders(orders []int) error {
	n := len(orders)
	seen := make([]bool, n)
	for _, o := range orders {
		if o < 0 || o >= n {
			return &domain.OrderingInconsistency{Reason: fmt.Sprintf("order %d outside 0..%d", o, n-1)}
		}
		if seen[o] {
			return &domain.OrderingInconsistency{Reason: fmt.Sprintf("duplicate order %d", o)}
		}
		seen[o] = true
	}
	return nil
}

// Compact sorts tasks in place by their current order (ties broken by id)
// and renumbers them 0..n-1.
func (e *Engine) Compact(tasks []*domain.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		if tasks[i].Order != tasks[j].Order {
			return tasks[i].Order < tasks[j].Order
		}
		return tasks[i].ID < tasks[j].ID
	})
	for i, t := range tasks {
		t.Order = i
	}
}

// Reorder places the tasks named by ids first, in the given sequence, followed
// by every other task in its existing relative order. The slice is rearranged
// in place and renumbered densely. Unknown ids are skipped and returned; a
// repeated id counts at its first occurrence.
func (e *Engine) Reorder(tasks []*domain.Task, ids []int) (unknown []int) {
	e.Compact(tasks)

	byID := make(map[int]*domain.Task, len(tasks))
	for _, t := range tasks {
		byID[t.ID] = t
	}

	placed := make(map[int]bool, len(ids))
	result := make([]*domain.Task, 0, len(tasks))
	for _, id := range ids {
		t, ok := byID[id]
		if !ok {
			unknown = append(unknown, id)
			continue
		}
		if placed[id] {
			continue
		}
		placed[id] = true
		result = append(result, t)
	}
	for _, t := range tasks {
		if !placed[t.ID] {
			result = append(result, t)
		}
	}

	copy(tasks, result)
	for i, t := range tasks {
		t.Order = i
	}

	if len(unknown) > 0 {
		e.logger.Warn("reorder skipped unknown task ids", "ids", unknown)
	}
	return unknown
}

// Repair checks tasks and, when their orders are inconsistent, logs a warning
// and renumbers them by ascending id. It reports whether a repair happened.
func (e *Engine) Repair(tasks []*domain.Task) bool {
	err := Verify(tasks)
	if err == nil {
		sort.SliceStable(tasks, func(i, j int) bool { return tasks[i].Order < tasks[j].Order })
		return false
	}
	e.logger.Warn("falling back to id order", "error", err.Error())
	sort.SliceStable(tasks, func(i, j int) bool { return tasks[i].ID < tasks[j].ID })
	for i, t := range tasks {
		t.Order = i
	}
	return true
}

// Sorted returns a copy of tasks in display order. When the orders are not
// dense and unique it logs a warning and falls back to ascending id.
func (e *Engine) Sorted(tasks []domain.Task) []domain.Task {
	out := make([]domain.Task, len(tasks))
	copy(out, tasks)

	orders := make([]int, len(out))
	for i, t := range out {
		orders[i] = t.Order
	}
	if err := verifyOrders(orders); err != nil {
		e.logger.Warn("falling back to id order", "error", err.Error())
		sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })
		return out
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}
