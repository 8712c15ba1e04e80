package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/siteplan/internal/notify"
)

// FormatToast renders a one-line confirmation for a mutation event.
func FormatToast(e notify.Event) string {
	var msg string
	switch e.Kind {
	case notify.TaskCreated:
		msg = "Task " + idList(e.TaskIDs) + " created"
	case notify.TaskUpdated:
		msg = "Task " + idList(e.TaskIDs) + " updated"
	case notify.TaskAssigned:
		msg = "Task " + idList(e.TaskIDs) + " reassigned"
	case notify.TaskDeleted:
		msg = "Task " + idList(e.TaskIDs) + " deleted"
	case notify.SubtaskAdded:
		msg = "Subtask added to task " + idList(e.TaskIDs)
	case notify.TasksReordered:
		msg = "Tasks reordered"
	case notify.ImportCommitted:
		msg = fmt.Sprintf("Imported %d task(s)", e.Count)
	default:
		msg = string(e.Kind)
	}
	return StyleGreen.Render("✔") + " " + Dim(msg)
}

func idList(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprintf("#%d", id)
	}
	return strings.Join(parts, ", ")
}
