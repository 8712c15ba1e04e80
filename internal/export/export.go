// Package export selects the tasks that fall inside a reporting timeframe
// and hands them to a document formatter.
package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/siteplan/internal/domain"
)

type Timeframe string

const (
	Daily   Timeframe = "daily"
	Weekly  Timeframe = "weekly"
	Monthly Timeframe = "monthly"
)

// Timeframes lists the supported timeframes from narrowest to widest.
var Timeframes = []Timeframe{Daily, Weekly, Monthly}

// ParseTimeframe resolves a timeframe name, ignoring case.
func ParseTimeframe(s string) (Timeframe, error) {
	switch tf := Timeframe(strings.ToLower(strings.TrimSpace(s))); tf {
	case Daily, Weekly, Monthly:
		return tf, nil
	}
	return "", fmt.Errorf("invalid timeframe %q (want daily, weekly or monthly)", s)
}

// Window returns the inclusive date range a timeframe covers: the anchor day
// itself, seven days starting at the anchor, or the calendar month that
// contains the anchor.
func Window(tf Timeframe, anchor time.Time) (from, to time.Time) {
	day := domain.DateOnly(anchor)
	switch tf {
	case Weekly:
		return day, day.AddDate(0, 0, 6)
	case Monthly:
		first := time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, time.UTC)
		return first, first.AddDate(0, 1, -1)
	default:
		return day, day
	}
}

// RangeLabel renders the window as a heading, e.g. "May 10, 2025",
// "May 10 - May 16, 2025" or "May 2025".
func RangeLabel(tf Timeframe, anchor time.Time) string {
	from, to := Window(tf, anchor)
	switch tf {
	case Weekly:
		if from.Year() != to.Year() {
			return from.Format("Jan 2, 2006") + " - " + to.Format("Jan 2, 2006")
		}
		return from.Format("Jan 2") + " - " + to.Format("Jan 2, 2006")
	case Monthly:
		return from.Format("January 2006")
	default:
		return from.Format("January 2, 2006")
	}
}

// Select returns the tasks whose scheduled span [start, due] overlaps the
// timeframe window, keeping their input order.
func Select(tasks []domain.Task, tf Timeframe, anchor time.Time) []domain.Task {
	from, to := Window(tf, anchor)
	var out []domain.Task
	for _, t := range tasks {
		start, due := domain.DateOnly(t.StartDate), domain.DateOnly(t.DueDate)
		if due.Before(start) {
			start, due = due, start
		}
		if !start.After(to) && !due.Before(from) {
			out = append(out, t)
		}
	}
	return out
}

// Report is what a formatter receives.
type Report struct {
	Timeframe   Timeframe
	Anchor      time.Time
	From, To    time.Time
	Label       string
	Tasks       []domain.Task
	GeneratedAt time.Time
}

// NewReport selects the tasks for tf around anchor.
func NewReport(tasks []domain.Task, tf Timeframe, anchor, now time.Time) Report {
	from, to := Window(tf, anchor)
	return Report{
		Timeframe:   tf,
		Anchor:      domain.DateOnly(anchor),
		From:        from,
		To:          to,
		Label:       RangeLabel(tf, anchor),
		Tasks:       Select(tasks, tf, anchor),
		GeneratedAt: now,
	}
}

// FileStem is a filesystem-safe base name for the report's document.
func (r Report) FileStem() string {
	return fmt.Sprintf("siteplan-%s-%s", r.Timeframe, r.Anchor.Format(domain.DateLayout))
}
