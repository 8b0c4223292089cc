// Package storage persists the audit trail of publish pipeline runs.
package storage

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	// import db drivers
	_ "github.com/lib/pq"

	"github.com/pmflow/pr-courier/internal/core"
)

// Store defines the interface for all database operations. The store is
// optional: the bot operates fully without one, and a nil Store disables
// run recording.
type Store interface {
	SaveRun(ctx context.Context, run *core.PipelineRun) error
	LatestRuns(ctx context.Context, limit int) ([]core.PipelineRun, error)
}

type postgresStore struct {
	db *sqlx.DB
}

// NewStore creates a new Store backed by the given connection pool.
func NewStore(db *sqlx.DB) Store {
	return &postgresStore{db: db}
}

// SaveRun inserts one pipeline run record.
func (s *postgresStore) SaveRun(ctx context.Context, run *core.PipelineRun) error {
	query := `INSERT INTO pipeline_runs (id, event_id, instruction, branch, pr_url, status, error, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := s.db.ExecContext(ctx, query,
		run.ID, run.EventID, run.Instruction, run.Branch, run.PRURL, run.Status, run.Error, run.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save pipeline run: %w", err)
	}
	return nil
}

// LatestRuns returns the most recent pipeline runs, newest first.
func (s *postgresStore) LatestRuns(ctx context.Context, limit int) ([]core.PipelineRun, error) {
	if limit <= 0 {
		limit = 20
	}
	query := `SELECT id, event_id, instruction, branch, pr_url, status, error, created_at
	          FROM pipeline_runs
	          ORDER BY created_at DESC
	          LIMIT $1`

	var runs []core.PipelineRun
	if err := s.db.SelectContext(ctx, &runs, query, limit); err != nil {
		return nil, fmt.Errorf("failed to list pipeline runs: %w", err)
	}
	return runs, nil
}
