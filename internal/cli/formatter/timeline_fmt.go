package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/siteplan/internal/timeline"
	"github.com/charmbracelet/lipgloss"
)

const timelineLabelWidth = 28

// FormatTimeline renders entries as horizontal bars scaled to the overall
// span, barWidth cells wide.
func FormatTimeline(entries []timeline.Entry, barWidth int) string {
	start, end, ok := timeline.Bounds(entries)
	if !ok {
		return Dim("No tasks.") + "\n"
	}
	barWidth = max(barWidth, 10)
	span := max(days(start, end), 1)

	var b strings.Builder
	b.WriteString(Header("Timeline") + "\n")
	b.WriteString(Dim(fmt.Sprintf("%s → %s", HumanDate(start), HumanDate(end))) + "\n\n")

	for _, e := range entries {
		offset := days(start, e.Start) * barWidth / span
		length := max(e.DurationDays*barWidth/span, 1)
		offset = min(max(offset, 0), barWidth-1)
		length = min(length, barWidth-offset)

		label := Truncate(fmt.Sprintf("#%d %s", e.Task.ID, e.Task.Title), timelineLabelWidth)
		label += strings.Repeat(" ", timelineLabelWidth-lipgloss.Width(label))

		bar := strings.Repeat(" ", offset) +
			StatusColor(e.Task.Status).Render(strings.Repeat(filledBlock, length)) +
			strings.Repeat(" ", barWidth-offset-length)

		b.WriteString(fmt.Sprintf("%s │%s│ %s\n", label, bar,
			Dim(fmt.Sprintf("%s → %s (%dd)", ShortDate(e.Start), ShortDate(e.End), e.DurationDays))))
	}
	return b.String()
}

func days(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}
