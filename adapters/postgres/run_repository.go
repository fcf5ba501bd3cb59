package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"crashlens/domain/analysis"
	"crashlens/ports"
)

// runRepository implements the RunRepository interface
type runRepository struct {
	db *sqlx.DB
}

// NewRunRepository creates a new run-history repository
func NewRunRepository(db *sqlx.DB) ports.RunRepository {
	return &runRepository{db: db}
}

// EnsureSchema creates the run-history table when it does not exist
func EnsureSchema(ctx context.Context, db *sqlx.DB) error {
	schema := `CREATE TABLE IF NOT EXISTS analysis_runs (
		run_id             TEXT PRIMARY KEY,
		generated_at       TIMESTAMPTZ NOT NULL,
		primary_count      INTEGER NOT NULL,
		supplemental_count INTEGER NOT NULL,
		reconciled_count   INTEGER NOT NULL,
		hot_spot_count     INTEGER NOT NULL,
		key_correlations   INTEGER NOT NULL,
		report_markdown    TEXT NOT NULL DEFAULT ''
	)`

	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create analysis_runs table: %w", err)
	}
	return nil
}

// SaveRun inserts one run summary
func (r *runRepository) SaveRun(ctx context.Context, summary analysis.RunSummary) error {
	query := `INSERT INTO analysis_runs (
		run_id, generated_at, primary_count, supplemental_count,
		reconciled_count, hot_spot_count, key_correlations, report_markdown
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.ExecContext(ctx, query,
		summary.RunID, summary.GeneratedAt, summary.PrimaryCount, summary.SupplementalCount,
		summary.ReconciledCount, summary.HotSpotCount, summary.KeyCorrelations, summary.ReportMarkdown,
	)
	if err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}
	return nil
}

// ListRuns returns the most recent run summaries, newest first
func (r *runRepository) ListRuns(ctx context.Context, limit int) ([]analysis.RunSummary, error) {
	query := `SELECT
		run_id, generated_at, primary_count, supplemental_count,
		reconciled_count, hot_spot_count, key_correlations, report_markdown
	FROM analysis_runs
	ORDER BY generated_at DESC
	LIMIT $1`

	var runs []analysis.RunSummary
	if err := r.db.SelectContext(ctx, &runs, query, limit); err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	return runs, nil
}
