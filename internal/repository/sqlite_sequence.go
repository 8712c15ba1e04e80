package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/alexanderramin/siteplan/internal/db"
)

// SQLiteSequenceRepo stores id high-water marks in the sequences table.
type SQLiteSequenceRepo struct {
	db db.DBTX
}

// NewSQLiteSequenceRepo creates a new SQLiteSequenceRepo.
func NewSQLiteSequenceRepo(conn db.DBTX) *SQLiteSequenceRepo {
	return &SQLiteSequenceRepo{db: conn}
}

// Get returns the highest id ever handed out under name, or 0.
func (r *SQLiteSequenceRepo) Get(ctx context.Context, name string) (int, error) {
	var v int
	err := r.db.QueryRowContext(ctx, `SELECT value FROM sequences WHERE name = ?`, name).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("reading %s sequence: %w", name, err)
	}
	return v, nil
}

// Advance raises the mark for name to value when value is higher.
func (r *SQLiteSequenceRepo) Advance(ctx context.Context, name string, value int) error {
	query := `INSERT INTO sequences (name, value) VALUES (?, ?)
		ON CONFLICT(name) DO UPDATE
		SET value = MAX(sequences.value, excluded.value)`
	if _, err := r.db.ExecContext(ctx, query, name, value); err != nil {
		return fmt.Errorf("advancing %s sequence: %w", name, err)
	}
	return nil
}
