// Package timeline orders tasks chronologically and measures their spans.
package timeline

import (
	"math"
	"sort"
	"time"

	"github.com/alexanderramin/siteplan/internal/domain"
)

// Entry is one row of the timeline.
type Entry struct {
	Task         domain.Task
	Start        time.Time
	End          time.Time
	DurationDays int
}

// Build sorts tasks by start date, keeping input order for equal starts, and
// computes each span. End is the completion date when recorded, otherwise the
// due date. Durations round up to whole days and never go below zero.
func Build(tasks []domain.Task) []Entry {
	entries := make([]Entry, len(tasks))
	for i, t := range tasks {
		start := t.StartDate
		end := t.ScheduleEnd()
		entries[i] = Entry{
			Task:         t,
			Start:        start,
			End:          end,
			DurationDays: durationDays(start, end),
		}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Start.Before(entries[j].Start)
	})
	return entries
}

func durationDays(start, end time.Time) int {
	days := math.Ceil(end.Sub(start).Hours() / 24)
	if days < 0 {
		return 0
	}
	return int(days)
}

// Bounds returns the earliest start and latest end across entries.
func Bounds(entries []Entry) (start, end time.Time, ok bool) {
	if len(entries) == 0 {
		return time.Time{}, time.Time{}, false
	}
	start, end = entries[0].Start, entries[0].End
	for _, e := range entries[1:] {
		if e.Start.Before(start) {
			start = e.Start
		}
		if e.End.After(end) {
			end = e.End
		}
	}
	return start, end, true
}
