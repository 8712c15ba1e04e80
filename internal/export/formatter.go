package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/siteplan/internal/domain"
)

// Document is an opaque rendered report.
type Document struct {
	Name      string
	MediaType string
	Data      []byte
}

// Formatter turns a report into a document. PDF and word-processor output
// are left to external implementations of this interface.
type Formatter interface {
	Format(Report) (Document, error)
}

// FormatterFor returns the built-in formatter with the given name.
func FormatterFor(name string) (Formatter, error) {
	switch strings.ToLower(name) {
	case "json":
		return JSONFormatter{}, nil
	case "csv":
		return CSVFormatter{}, nil
	}
	return nil, fmt.Errorf("unknown export format %q (want json or csv)", name)
}

type reportJSON struct {
	Timeframe   Timeframe  `json:"timeframe"`
	Range       string     `json:"range"`
	From        string     `json:"from"`
	To          string     `json:"to"`
	GeneratedAt string     `json:"generated_at"`
	Tasks       []taskJSON `json:"tasks"`
}

type taskJSON struct {
	ID          int           `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description,omitempty"`
	Status      string        `json:"status"`
	Priority    string        `json:"priority"`
	Assignee    string        `json:"assignee"`
	StartDate   string        `json:"start_date"`
	DueDate     string        `json:"due_date"`
	EndDate     string        `json:"end_date,omitempty"`
	Progress    int           `json:"progress"`
	Project     string        `json:"project,omitempty"`
	Subtasks    []subtaskJSON `json:"subtasks,omitempty"`
}

type subtaskJSON struct {
	ID       int    `json:"id"`
	Title    string `json:"title"`
	Status   string `json:"status"`
	Progress int    `json:"progress"`
	Assignee string `json:"assignee,omitempty"`
}

type JSONFormatter struct{}

func (JSONFormatter) Format(r Report) (Document, error) {
	out := reportJSON{
		Timeframe:   r.Timeframe,
		Range:       r.Label,
		From:        r.From.Format(domain.DateLayout),
		To:          r.To.Format(domain.DateLayout),
		GeneratedAt: r.GeneratedAt.UTC().Format("2006-01-02T15:04:05Z"),
		Tasks:       make([]taskJSON, 0, len(r.Tasks)),
	}
	for _, t := range r.Tasks {
		tj := taskJSON{
			ID:          t.ID,
			Title:       t.Title,
			Description: t.Description,
			Status:      string(t.Status),
			Priority:    string(t.Priority),
			Assignee:    t.Assignee,
			StartDate:   t.StartDate.Format(domain.DateLayout),
			DueDate:     t.DueDate.Format(domain.DateLayout),
			Progress:    t.Progress,
			Project:     t.ProjectName,
		}
		if t.EndDate != nil {
			tj.EndDate = t.EndDate.Format(domain.DateLayout)
		}
		for _, s := range t.Subtasks {
			tj.Subtasks = append(tj.Subtasks, subtaskJSON{
				ID: s.ID, Title: s.Title, Status: string(s.Status), Progress: s.Progress, Assignee: s.Assignee,
			})
		}
		out.Tasks = append(out.Tasks, tj)
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return Document{}, fmt.Errorf("encoding report: %w", err)
	}
	return Document{Name: r.FileStem() + ".json", MediaType: "application/json", Data: data}, nil
}

var csvHeader = []string{"id", "title", "status", "priority", "assignee", "start_date", "due_date", "end_date", "progress", "project", "subtasks"}

type CSVFormatter struct{}

func (CSVFormatter) Format(r Report) (Document, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeader); err != nil {
		return Document{}, err
	}
	for _, t := range r.Tasks {
		end := ""
		if t.EndDate != nil {
			end = t.EndDate.Format(domain.DateLayout)
		}
		rec := []string{
			strconv.Itoa(t.ID),
			t.Title,
			t.Status.Label(),
			t.Priority.Label(),
			t.Assignee,
			t.StartDate.Format(domain.DateLayout),
			t.DueDate.Format(domain.DateLayout),
			end,
			strconv.Itoa(t.Progress),
			t.ProjectName,
			strconv.Itoa(len(t.Subtasks)),
		}
		if err := w.Write(rec); err != nil {
			return Document{}, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return Document{}, fmt.Errorf("encoding report: %w", err)
	}
	return Document{Name: r.FileStem() + ".csv", MediaType: "text/csv", Data: buf.Bytes()}, nil
}
