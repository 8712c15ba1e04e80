package importer

import "github.com/alexanderramin/siteplan/internal/domain"

// Staged is the preview of an import: the rows that became candidates and
// the rows that were rejected. Nothing has been written anywhere.
type Staged struct {
	Candidates []domain.Task
	Errors     []RowError
}

// Valid reports how many rows passed validation.
func (s Staged) Valid() int { return len(s.Candidates) }

// Rejected returns the indices of rows with at least one error, ascending.
func (s Staged) Rejected() []int {
	var out []int
	seen := make(map[int]bool, len(s.Errors))
	for _, e := range s.Errors {
		if !seen[e.Index] {
			seen[e.Index] = true
			out = append(out, e.Index)
		}
	}
	return out
}

// Stage converts rows into task candidates without touching any store.
// Candidate ids run from firstID upward in row order, so passing the store's
// next id keeps them clear of live ids. Rows that fail validation are left
// out and described in Errors; they never abort the batch. Staging the same
// rows with the same firstID always yields the same result.
func Stage(rows []Row, firstID int) Staged {
	var staged Staged
	next := max(firstID, 1)
	for i, row := range rows {
		t, errs := convertRow(i, row)
		if len(errs) > 0 {
			staged.Errors = append(staged.Errors, errs...)
			continue
		}
		t.ID = next
		t.Order = len(staged.Candidates)
		next++
		staged.Candidates = append(staged.Candidates, t)
	}
	return staged
}
