// Package calendar buckets tasks by due date into a month view. Buckets are
// always recomputed from the task list; nothing is kept per month.
package calendar

import (
	"fmt"
	"sort"
	"time"

	"github.com/alexanderramin/siteplan/internal/domain"
)

// Month identifies a calendar month.
type Month struct {
	Year  int
	Month time.Month
}

// MonthOf returns the month containing date.
func MonthOf(date time.Time) Month {
	return Month{Year: date.Year(), Month: date.Month()}
}

// ParseMonth parses "YYYY-MM".
func ParseMonth(s string) (Month, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return Month{}, fmt.Errorf("invalid month %q (expected YYYY-MM): %w", s, err)
	}
	return MonthOf(t), nil
}

// First returns the first day of the month.
func (m Month) First() time.Time {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC)
}

// Last returns the last day of the month.
func (m Month) Last() time.Time {
	return m.First().AddDate(0, 1, -1)
}

func (m Month) Prev() Month { return MonthOf(m.First().AddDate(0, -1, 0)) }
func (m Month) Next() Month { return MonthOf(m.First().AddDate(0, 1, 0)) }

// Contains reports whether date falls in the month.
func (m Month) Contains(date time.Time) bool {
	return date.Year() == m.Year && date.Month() == m.Month
}

func (m Month) String() string {
	return m.First().Format("January 2006")
}

// Key formats a date as the bucket key (YYYY-MM-DD).
func Key(date time.Time) string {
	return domain.DateOnly(date).Format(domain.DateLayout)
}

// Buckets maps a due date key to the tasks due that day, in input order.
type Buckets map[string][]domain.Task

// BucketByMonth groups the tasks due within m by due date.
func BucketByMonth(tasks []domain.Task, m Month) Buckets {
	b := make(Buckets)
	for _, t := range tasks {
		due := domain.DateOnly(t.DueDate)
		if !m.Contains(due) {
			continue
		}
		k := Key(due)
		b[k] = append(b[k], t)
	}
	return b
}

// Tasks returns the tasks due on date.
func (b Buckets) Tasks(date time.Time) []domain.Task {
	return b[Key(date)]
}

func (b Buckets) HasTasks(date time.Time) bool {
	return len(b[Key(date)]) > 0
}

func (b Buckets) CountForDate(date time.Time) int {
	return len(b[Key(date)])
}

// Total counts every bucketed task.
func (b Buckets) Total() int {
	n := 0
	for _, ts := range b {
		n += len(ts)
	}
	return n
}

// Days returns the bucket keys in ascending date order.
func (b Buckets) Days() []string {
	keys := make([]string, 0, len(b))
	for k := range b {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Grid lays out m as Sunday-first weeks. Leading and trailing cells belong to
// the adjacent months so every week has seven days.
func Grid(m Month) [][]time.Time {
	first := m.First()
	start := first.AddDate(0, 0, -int(first.Weekday()))
	last := m.Last()

	var weeks [][]time.Time
	for day := start; !day.After(last); {
		week := make([]time.Time, 7)
		for i := range week {
			week[i] = day
			day = day.AddDate(0, 0, 1)
		}
		weeks = append(weeks, week)
	}
	return weeks
}
