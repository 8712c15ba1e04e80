package formatter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/siteplan/internal/importer"
)

// FormatImportPreview renders the staged candidates and the rejected rows.
func FormatImportPreview(source string, staged importer.Staged) string {
	var b strings.Builder
	b.WriteString(Header("Import preview") + "\n")
	b.WriteString(Dim(source) + "\n\n")

	if len(staged.Candidates) > 0 {
		rows := make([][]string, 0, len(staged.Candidates))
		for _, t := range staged.Candidates {
			rows = append(rows, []string{
				Dim(strconv.Itoa(t.ID)),
				Truncate(t.Title, titleWidth),
				t.Assignee,
				ShortDate(t.StartDate),
				ShortDate(t.DueDate),
				StatusPill(t.Status),
				PriorityPill(t.Priority),
				fmt.Sprintf("%d%%", t.Progress),
			})
		}
		b.WriteString(RenderTable([]string{"ID", "TITLE", "ASSIGNEE", "START", "DUE", "STATUS", "PRIORITY", "PROGRESS"}, rows))
	} else {
		b.WriteString(Dim("No valid rows.") + "\n")
	}

	if len(staged.Errors) > 0 {
		b.WriteString("\n" + StyleRed.Render("Rejected rows") + "\n")
		for _, e := range staged.Errors {
			b.WriteString("  " + StyleRed.Render("✗") + " " + e.Error() + "\n")
		}
	}

	b.WriteString(fmt.Sprintf("\n%s valid, %s rejected\n",
		StyleGreen.Render(strconv.Itoa(staged.Valid())),
		StyleRed.Render(strconv.Itoa(len(staged.Rejected()))),
	))
	return b.String()
}
