package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/siteplan/internal/domain"
	"github.com/alexanderramin/siteplan/internal/importer"
	"github.com/alexanderramin/siteplan/internal/store"
	"github.com/google/uuid"
)

// ErrNothingToImport is returned when committing a stage with no candidates.
var ErrNothingToImport = errors.New("no valid rows to import")

type importService struct {
	workspace
}

func NewImportService(env Env, observers ...UseCaseObserver) ImportService {
	return &importService{workspace: newWorkspace(env, observers)}
}

func (s *importService) StageFile(ctx context.Context, path string) (*StagedImport, error) {
	rows, err := importer.LoadRows(path)
	if err != nil {
		return nil, fmt.Errorf("loading import file: %w", err)
	}
	return s.Stage(ctx, path, rows)
}

func (s *importService) Stage(ctx context.Context, source string, rows []importer.Row) (staged *StagedImport, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"source": source, "rows": len(rows)}
	defer observe(ctx, s.observer, "stage-import", startedAt, fields, &err)

	var firstID int
	err = s.read(ctx, func(st *store.Store) error {
		firstID = st.NextTaskID()
		return nil
	})
	if err != nil {
		return nil, err
	}

	staged = &StagedImport{
		ID:       uuid.New(),
		Source:   source,
		StagedAt: s.now(),
		Staged:   importer.Stage(rows, firstID),
	}
	fields["stage_id"] = staged.ID.String()
	fields["candidates"] = len(staged.Candidates)
	fields["row_errors"] = len(staged.Errors)
	s.logger.Debug("import staged", "stage_id", staged.ID, "candidates", len(staged.Candidates), "row_errors", len(staged.Errors))
	return staged, nil
}

func (s *importService) Commit(ctx context.Context, staged *StagedImport) (result *ImportResult, err error) {
	if staged == nil || len(staged.Candidates) == 0 {
		return nil, ErrNothingToImport
	}

	startedAt := time.Now().UTC()
	fields := map[string]any{"stage_id": staged.ID.String(), "candidates": len(staged.Candidates)}
	defer observe(ctx, s.observer, "commit-import", startedAt, fields, &err)

	var committed []domain.Task
	err = s.mutate(ctx, func(st *store.Store) error {
		var err error
		committed, err = st.Commit(staged.Candidates)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("committing import: %w", err)
	}

	return &ImportResult{
		StageID: staged.ID,
		Tasks:   committed,
		Skipped: len(staged.Rejected()),
	}, nil
}
