package ports

import (
	"context"

	"crashlens/domain/analysis"
)

// RunRepository persists the footprint of completed analysis runs.
// Persistence is optional: the pipeline runs fully in memory and a nil
// repository simply skips history.
type RunRepository interface {
	SaveRun(ctx context.Context, summary analysis.RunSummary) error
	ListRuns(ctx context.Context, limit int) ([]analysis.RunSummary, error)
}
