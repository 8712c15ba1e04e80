package formatter

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/siteplan/internal/domain"
)

const titleWidth = 36

// FormatTaskList renders tasks as a table in the order given.
func FormatTaskList(tasks []domain.Task, now time.Time) string {
	if len(tasks) == 0 {
		return Dim("No tasks.") + "\n"
	}

	headers := []string{"ID", "TITLE", "STATUS", "PRIORITY", "ASSIGNEE", "START", "DUE", "PROGRESS", "PROJECT"}
	rows := make([][]string, 0, len(tasks))
	for _, t := range tasks {
		rows = append(rows, []string{
			Dim(strconv.Itoa(t.ID)),
			Truncate(t.Title, titleWidth),
			StatusPill(t.Status),
			PriorityPill(t.Priority),
			t.Assignee,
			ShortDate(t.StartDate),
			fmt.Sprintf("%s %s", ShortDate(t.DueDate), Dim("("+RelativeDateFrom(t.DueDate, now)+")")),
			RenderProgress(t.Progress, 10),
			Dim(t.ProjectLabel()),
		})
	}

	var b strings.Builder
	b.WriteString(RenderTable(headers, rows))
	b.WriteString(Dim(fmt.Sprintf("%d task(s)", len(tasks))) + "\n")
	return b.String()
}

// FormatTaskDetail renders one task with its subtasks.
func FormatTaskDetail(t domain.Task, now time.Time) string {
	var b strings.Builder
	b.WriteString(Header(t.Title) + "\n\n")

	due := HumanDate(t.DueDate) + "  " + DueStyled(t, now)
	if t.IsOverdue(now) {
		due += "  " + StyleRed.Render("past due")
	}
	pairs := [][2]string{
		{"ID", strconv.Itoa(t.ID)},
		{"Status", StatusPill(t.Status)},
		{"Priority", PriorityPill(t.Priority)},
		{"Assignee", t.Assignee},
		{"Project", t.ProjectLabel()},
		{"Start", HumanDate(t.StartDate)},
		{"Due", due},
	}
	if t.EndDate != nil {
		pairs = append(pairs, [2]string{"Completed", HumanDate(*t.EndDate)})
	}
	pairs = append(pairs, [2]string{"Progress", RenderProgress(t.Progress, 20)})
	if avg, ok := t.SubtaskProgress(); ok {
		pairs = append(pairs, [2]string{"Subtasks", fmt.Sprintf("%d (avg %d%%)", len(t.Subtasks), avg)})
	}
	b.WriteString(RenderFields(pairs))

	if t.Description != "" {
		b.WriteString("\n" + t.Description + "\n")
	}

	if len(t.Subtasks) > 0 {
		b.WriteString("\n" + Header("Subtasks") + "\n")
		rows := make([][]string, 0, len(t.Subtasks))
		for _, s := range t.Subtasks {
			rows = append(rows, []string{
				Dim(strconv.Itoa(s.ID)),
				s.Title,
				StatusPill(s.Status),
				RenderProgress(s.Progress, 10),
				domain.CoalesceStr(s.Assignee, "--"),
			})
		}
		b.WriteString(RenderTable([]string{"ID", "TITLE", "STATUS", "PROGRESS", "ASSIGNEE"}, rows))
	}
	return b.String()
}
