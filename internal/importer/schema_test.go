package importer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadRows_JSON(t *testing.T) {
	path := writeFile(t, "schedule.json", `[
		{"title": "Excavate", "assignee": "A", "start_date": "2025-05-10", "due_date": "2025-05-20", "progress": 30},
		{"title": "Pour", "assignee": "B", "start_date": "2025-05-21", "due_date": "2025-05-25"}
	]`)

	rows, err := LoadRows(path)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Excavate", rows[0].Get(FieldTitle))
	assert.Equal(t, "30", rows[0].Get(FieldProgress))
	assert.Equal(t, "B", rows[1].Get(FieldAssignee))
}

func TestLoadRows_YAML(t *testing.T) {
	path := writeFile(t, "schedule.yaml", `
- Task Name: Frame walls
  Owner: Crew 3
  Start: 2025-06-01
  Deadline: 2025-06-12
  Priority: high
`)

	rows, err := LoadRows(path)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Frame walls", rows[0].Get(FieldTitle))
	assert.Equal(t, "Crew 3", rows[0].Get(FieldAssignee))
	assert.Equal(t, "2025-06-01", rows[0].Get(FieldStartDate))
	assert.Equal(t, "2025-06-12", rows[0].Get(FieldDueDate))

	staged := Stage(rows, 1)
	assert.Empty(t, staged.Errors)
	require.Len(t, staged.Candidates, 1)
}

func TestLoadRows_EmptyYAML(t *testing.T) {
	rows, err := LoadRows(writeFile(t, "empty.yml", ""))
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestLoadRows_CSV(t *testing.T) {
	path := writeFile(t, "schedule.csv", strings.Join([]string{
		"Title,Assigned To,Start Date,Due Date,Status",
		"Excavate,A,2025-05-10,2025-05-20,Pending",
		"Survey,,2025-05-01,2025-05-02,Completed",
		"Short,C",
	}, "\n"))

	rows, err := LoadRows(path)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "A", rows[0].Get(FieldAssignee))
	assert.Equal(t, "", rows[1].Get(FieldAssignee))
	assert.Equal(t, "", rows[2].Get(FieldDueDate))

	staged := Stage(rows, 1)
	require.Len(t, staged.Candidates, 1)
	assert.Equal(t, []int{1, 2}, staged.Rejected())
}

func TestLoadRows_UnsupportedExtension(t *testing.T) {
	_, err := LoadRows(writeFile(t, "schedule.xlsx", "binary"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported import format")
}

func TestLoadRows_MalformedJSON(t *testing.T) {
	_, err := LoadRows(writeFile(t, "bad.json", `{"title":`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing import file")
}

func TestRowGet_PrefersExactHeader(t *testing.T) {
	row := Row{"Name": "alias", "title": "exact", "Task": "other"}
	assert.Equal(t, "exact", row.Get(FieldTitle))

	row = Row{"Task": "b", "Name": "a"}
	assert.Equal(t, "a", row.Get(FieldTitle), "lexicographically first header wins")
}

func TestParseRowDate_Layouts(t *testing.T) {
	for _, in := range []string{"2025-05-10", "2025/05/10", "5/10/2025", "May 10, 2025", "10 May 2025"} {
		d, err := parseRowDate(in)
		require.NoError(t, err, in)
		assert.Equal(t, "2025-05-10", d.Format("2006-01-02"), in)
	}
	_, err := parseRowDate("tomorrow")
	assert.Error(t, err)
}
