package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// PassRun records one application of a pass: which source tree it read
// and which result tree it produced. Runs are the provenance chain
// between intermediate trees.
type PassRun struct {
	ID       string // run UUID
	Pass     string // pass name, e.g. "unnest"
	SourceID string // ast.TreeID of the input
	ResultID string // ast.TreeID of the output
	Seq      int64  // insertion order
}

// NewPassRun builds a PassRun with a fresh run ID. Seq is assigned by
// the store on record.
func NewPassRun(pass, sourceID, resultID string) PassRun {
	return PassRun{
		ID:       uuid.NewString(),
		Pass:     pass,
		SourceID: sourceID,
		ResultID: resultID,
	}
}

// RecordPass persists a pass run. Both trees must already be saved
// (foreign key constraint).
func (s *Store) RecordPass(ctx context.Context, run PassRun) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO pass_runs (id, pass, source_id, result_id, seq)
		VALUES (?, ?, ?, ?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM pass_runs))
	`, run.ID, run.Pass, run.SourceID, run.ResultID)
	if err != nil {
		return fmt.Errorf("record pass %s: %w", run.Pass, err)
	}
	return nil
}

// ListPasses returns every pass run touching the given tree (as source
// or result) in insertion order. An empty treeID lists all runs.
// Returns an empty slice (not nil) when nothing matches.
func (s *Store) ListPasses(ctx context.Context, treeID string) ([]PassRun, error) {
	query := `
		SELECT id, pass, source_id, result_id, seq FROM pass_runs
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`
	args := []any{}
	if treeID != "" {
		query = `
			SELECT id, pass, source_id, result_id, seq FROM pass_runs
			WHERE source_id = ? OR result_id = ?
			ORDER BY seq ASC, id COLLATE BINARY ASC
		`
		args = []any{treeID, treeID}
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list passes: %w", err)
	}
	defer rows.Close()

	runs := []PassRun{}
	for rows.Next() {
		var r PassRun
		if err := rows.Scan(&r.ID, &r.Pass, &r.SourceID, &r.ResultID, &r.Seq); err != nil {
			return nil, fmt.Errorf("scan pass run: %w", err)
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pass runs: %w", err)
	}
	return runs, nil
}
