package importer

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/siteplan/internal/domain"
	"gopkg.in/yaml.v3"
)

// Canonical row fields.
const (
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldAssignee    = "assignee"
	FieldStartDate   = "start_date"
	FieldDueDate     = "due_date"
	FieldEndDate     = "end_date"
	FieldStatus      = "status"
	FieldPriority    = "priority"
	FieldProgress    = "progress"
	FieldProjectID   = "project_id"
	FieldProjectName = "project_name"
)

// headerAliases maps normalized spreadsheet headers to canonical fields.
var headerAliases = map[string]string{
	"title":            FieldTitle,
	"task":             FieldTitle,
	"task_name":        FieldTitle,
	"name":             FieldTitle,
	"description":      FieldDescription,
	"details":          FieldDescription,
	"notes":            FieldDescription,
	"assignee":         FieldAssignee,
	"assigned_to":      FieldAssignee,
	"owner":            FieldAssignee,
	"responsible":      FieldAssignee,
	"start_date":       FieldStartDate,
	"start":            FieldStartDate,
	"startdate":        FieldStartDate,
	"due_date":         FieldDueDate,
	"due":              FieldDueDate,
	"duedate":          FieldDueDate,
	"deadline":         FieldDueDate,
	"end_date":         FieldEndDate,
	"enddate":          FieldEndDate,
	"completion_date":  FieldEndDate,
	"completed_on":     FieldEndDate,
	"status":           FieldStatus,
	"priority":         FieldPriority,
	"progress":         FieldProgress,
	"percent":          FieldProgress,
	"complete":         FieldProgress,
	"percent_complete": FieldProgress,
	"project_id":       FieldProjectID,
	"projectid":        FieldProjectID,
	"project":          FieldProjectName,
	"project_name":     FieldProjectName,
	"projectname":      FieldProjectName,
}

// Row is one externally sourced schedule line, keyed by column header.
type Row map[string]string

func normalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	h = strings.NewReplacer(" ", "_", "-", "_", "%", "").Replace(h)
	return strings.Trim(h, "_")
}

// Get returns the value of a canonical field, matching headers
// case-insensitively and through known aliases. When several headers resolve
// to the same field, a header naming it exactly wins, then the
// lexicographically first header.
func (r Row) Get(field string) string {
	var best string
	found, exact := false, false
	for k := range r {
		h := normalizeHeader(k)
		isExact := h == field
		if alias, ok := headerAliases[h]; ok {
			h = alias
		}
		if h != field {
			continue
		}
		switch {
		case !found, isExact && !exact, isExact == exact && k < best:
			best, found, exact = k, true, isExact
		}
	}
	if !found {
		return ""
	}
	return strings.TrimSpace(r[best])
}

// dateLayouts are tried in order when parsing a row date.
var dateLayouts = []string{
	domain.DateLayout,
	"2006/01/02",
	"1/2/2006",
	"Jan 2, 2006",
	"2 Jan 2006",
	time.RFC3339,
}

func parseRowDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return domain.DateOnly(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date format %q (expected YYYY-MM-DD)", s)
}

// LoadRows reads an import file into rows. The format follows the file
// extension: .json (array of objects), .yaml/.yml (sequence of mappings) or
// .csv (first line is the header).
func LoadRows(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		return ReadJSONRows(f)
	case ".yaml", ".yml":
		return ReadYAMLRows(f)
	case ".csv":
		return ReadCSVRows(f)
	default:
		return nil, fmt.Errorf("unsupported import format %q (use .json, .yaml or .csv)", ext)
	}
}

func ReadJSONRows(r io.Reader) ([]Row, error) {
	var raw []map[string]any
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("parsing import file: %w", err)
	}
	return toRows(raw), nil
}

func ReadYAMLRows(r io.Reader) ([]Row, error) {
	var raw []map[string]any
	if err := yaml.NewDecoder(r).Decode(&raw); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("parsing import file: %w", err)
	}
	return toRows(raw), nil
}

func ReadCSVRows(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing import file: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	header := records[0]
	rows := make([]Row, 0, len(records)-1)
	for _, rec := range records[1:] {
		row := make(Row, len(header))
		for i, h := range header {
			if i < len(rec) {
				row[h] = rec[i]
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func toRows(raw []map[string]any) []Row {
	rows := make([]Row, len(raw))
	for i, m := range raw {
		row := make(Row, len(m))
		for k, v := range m {
			row[k] = stringify(v)
		}
		rows[i] = row
	}
	return rows
}

func stringify(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case time.Time:
		return x.Format(domain.DateLayout)
	default:
		return fmt.Sprint(x)
	}
}
