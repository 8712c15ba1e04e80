package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/alexanderramin/siteplan/internal/domain"
)

// parseNullableDate parses a sql.NullString into a *time.Time date.
// Returns nil if the value is NULL, empty, or fails to parse.
func parseNullableDate(s sql.NullString) *time.Time {
	if !s.Valid || s.String == "" {
		return nil
	}
	t, err := domain.ParseDate(s.String)
	if err != nil {
		return nil
	}
	return &t
}

// nullableDateToString converts a *time.Time to a value suitable for SQLite storage.
// Returns nil (SQL NULL) if the pointer is nil, otherwise returns the formatted date.
func nullableDateToString(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format(domain.DateLayout)
}

func parseRequiredDate(field, s string) (time.Time, error) {
	t, err := domain.ParseDate(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing %s %q: %w", field, s, err)
	}
	return t, nil
}

// parseTimestamp parses an RFC3339 column, treating malformed values as zero.
func parseTimestamp(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t.UTC()
}
