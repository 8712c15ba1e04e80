package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/siteplan/internal/calendar"
	"github.com/alexanderramin/siteplan/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

const calCellWidth = 6

var (
	styleCalToday    = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	styleCalSelected = lipgloss.NewStyle().Reverse(true)
	styleCalBusy     = StyleYellow
	styleCalOutside  = lipgloss.NewStyle().Foreground(ColorDim).Faint(true)
)

// FormatCalendarGrid renders a Sunday-first month grid. Days with tasks due
// show their count. A zero selected date highlights nothing.
func FormatCalendarGrid(m calendar.Month, b calendar.Buckets, selected, today time.Time) string {
	var sb strings.Builder
	sb.WriteString(Header(m.String()) + "\n")

	for _, wd := range []string{"Su", "Mo", "Tu", "We", "Th", "Fr", "Sa"} {
		sb.WriteString(Dim(padCell(wd)))
	}
	sb.WriteString("\n")

	for _, week := range calendar.Grid(m) {
		for _, day := range week {
			sb.WriteString(calendarCell(m, b, day, selected, today))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func calendarCell(m calendar.Month, b calendar.Buckets, day, selected, today time.Time) string {
	text := fmt.Sprintf("%2d", day.Day())
	if n := b.CountForDate(day); n > 0 && m.Contains(day) {
		text += fmt.Sprintf("·%d", n)
	}

	style := StyleFg
	switch {
	case !m.Contains(day):
		style = styleCalOutside
	case sameDay(day, today):
		style = styleCalToday
	case b.HasTasks(day):
		style = styleCalBusy
	}
	if !selected.IsZero() && sameDay(day, selected) {
		style = style.Inherit(styleCalSelected)
	}
	return style.Render(text) + strings.Repeat(" ", max(calCellWidth-lipgloss.Width(text), 1))
}

func padCell(s string) string {
	return s + strings.Repeat(" ", max(calCellWidth-lipgloss.Width(s), 1))
}

func sameDay(a, b time.Time) bool {
	return !b.IsZero() && domain.DateOnly(a).Equal(domain.DateOnly(b))
}

// FormatDayTasks lists the tasks due on date.
func FormatDayTasks(date time.Time, tasks []domain.Task) string {
	var sb strings.Builder
	sb.WriteString(Bold(date.Format("Mon Jan 2")) + "\n")
	if len(tasks) == 0 {
		sb.WriteString(Dim("  Nothing due.") + "\n")
		return sb.String()
	}
	for _, t := range tasks {
		sb.WriteString(fmt.Sprintf("  %s %s  %s  %s\n",
			Dim(fmt.Sprintf("#%d", t.ID)),
			Truncate(t.Title, titleWidth),
			StatusPill(t.Status),
			Dim(t.Assignee),
		))
	}
	return sb.String()
}

// FormatCalendar renders the month grid followed by an agenda of every day
// with tasks due.
func FormatCalendar(m calendar.Month, b calendar.Buckets, today time.Time) string {
	var sb strings.Builder
	sb.WriteString(FormatCalendarGrid(m, b, time.Time{}, today))
	sb.WriteString("\n")
	if b.Total() == 0 {
		sb.WriteString(Dim("No tasks due this month.") + "\n")
		return sb.String()
	}
	for _, key := range b.Days() {
		day, err := domain.ParseDate(key)
		if err != nil {
			continue
		}
		sb.WriteString(FormatDayTasks(day, b.Tasks(day)))
	}
	sb.WriteString(Dim(fmt.Sprintf("%d task(s) due in %s", b.Total(), m.String())) + "\n")
	return sb.String()
}
