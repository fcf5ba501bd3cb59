package app

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"crashlens/adapters/stats/engine"
	"crashlens/adapters/tabular"
	"crashlens/domain/analysis"
	"crashlens/domain/core"
	"crashlens/domain/records"
	"crashlens/internal"
	"crashlens/internal/dataset"
	"crashlens/internal/errors"
	"crashlens/internal/observability"
	"crashlens/internal/report"
	"crashlens/ports"
)

// TableSource yields the raw rows of one backing table.
type TableSource interface {
	ReadData() (*tabular.TableData, error)
}

// AnalysisService drives the whole pipeline: load the three sources,
// reconcile severity, freeze a dataset snapshot, then fan the four engines
// out over it. Loading is strictly sequential and fail-fast; the engines
// are independent and read-only, so they run concurrently.
type AnalysisService struct {
	primary      TableSource
	supplemental TableSource
	authority    TableSource

	descriptive *engine.DescriptiveEngine
	hotSpots    *engine.HotSpotEngine
	trends      *engine.TrendEngine
	correlation *engine.CorrelationEngine

	metrics *observability.Metrics
	repo    ports.RunRepository // optional
	log     *internal.Logger
}

// NewAnalysisService creates the pipeline service. repo may be nil.
func NewAnalysisService(primary, supplemental, authority TableSource, metrics *observability.Metrics, repo ports.RunRepository) *AnalysisService {
	return &AnalysisService{
		primary:      primary,
		supplemental: supplemental,
		authority:    authority,
		descriptive:  engine.NewDescriptiveEngine(),
		hotSpots:     engine.NewHotSpotEngine(),
		trends:       engine.NewTrendEngine(),
		correlation:  engine.NewCorrelationEngine(),
		metrics:      metrics,
		repo:         repo,
		log:          internal.DefaultLogger,
	}
}

// Run executes one complete analysis cycle and returns the report bundle.
func (s *AnalysisService) Run(ctx context.Context) (*analysis.Report, error) {
	started := time.Now()

	ds, reconciled, err := s.loadDataset()
	if err != nil {
		s.metrics.AnalysisRuns.WithLabelValues("error").Inc()
		return nil, err
	}

	rep := &analysis.Report{
		RunID:       core.NewRunID(),
		GeneratedAt: time.Now().UTC(),
	}

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		rep.Descriptive = s.descriptive.Summarize(ds)
		return nil
	})
	g.Go(func() error {
		rep.HotSpots = s.hotSpots.Identify(ds)
		return nil
	})
	g.Go(func() error {
		rep.Trends = s.trends.Aggregate(ds)
		return nil
	})
	g.Go(func() error {
		rep.Correlation = s.correlation.Compute(ds)
		return nil
	})
	if err := g.Wait(); err != nil {
		s.metrics.AnalysisRuns.WithLabelValues("error").Inc()
		return nil, errors.Wrap(err, "analysis engines failed")
	}

	s.metrics.AnalysisRuns.WithLabelValues("success").Inc()
	s.metrics.AnalysisDuration.Observe(time.Since(started).Seconds())
	s.metrics.HotSpotsFound.Set(float64(len(rep.HotSpots)))
	s.log.Info("[Analysis] run %s complete in %s: %d records, %d hot spots, %d key correlations",
		rep.RunID, time.Since(started).Round(time.Millisecond), len(ds.Primary), len(rep.HotSpots), len(rep.Correlation.Key))

	s.persistRun(ctx, rep, ds, reconciled)
	return rep, nil
}

// loadDataset reads all three tables, parses them, reconciles severity and
// freezes the snapshot. Any read error is terminal for the run.
func (s *AnalysisService) loadDataset() (*records.Dataset, int, error) {
	primaryTable, err := s.primary.ReadData()
	if err != nil {
		return nil, 0, errors.SourceUnavailable("primary", err)
	}
	supplementalTable, err := s.supplemental.ReadData()
	if err != nil {
		return nil, 0, errors.SourceUnavailable("supplemental", err)
	}
	authorityTable, err := s.authority.ReadData()
	if err != nil {
		return nil, 0, errors.SourceUnavailable("authority", err)
	}

	primary := dataset.LoadPrimary(primaryTable)
	supplemental := dataset.LoadSupplemental(supplementalTable)
	authorities := dataset.LoadAuthorities(authorityTable)

	s.metrics.RecordsLoaded.WithLabelValues("primary").Add(float64(len(primary)))
	s.metrics.RecordsLoaded.WithLabelValues("supplemental").Add(float64(len(supplemental)))
	s.metrics.RecordsLoaded.WithLabelValues("authority").Add(float64(authorities.Len()))

	reconciled := dataset.ReconcileSeverity(primary, supplemental)
	s.metrics.SeveritiesReconciled.Add(float64(reconciled))

	return &records.Dataset{
		Primary:      primary,
		Supplemental: supplemental,
		Authorities:  authorities,
	}, reconciled, nil
}

// persistRun records the run footprint when a repository is configured.
// History is best-effort: a storage failure is logged, never fatal.
func (s *AnalysisService) persistRun(ctx context.Context, rep *analysis.Report, ds *records.Dataset, reconciled int) {
	if s.repo == nil {
		return
	}
	summary := analysis.RunSummary{
		RunID:             rep.RunID,
		GeneratedAt:       rep.GeneratedAt,
		PrimaryCount:      len(ds.Primary),
		SupplementalCount: len(ds.Supplemental),
		ReconciledCount:   reconciled,
		HotSpotCount:      len(rep.HotSpots),
		KeyCorrelations:   len(rep.Correlation.Key),
		ReportMarkdown:    report.Generate(rep),
	}
	if err := s.repo.SaveRun(ctx, summary); err != nil {
		s.log.Warn("[Analysis] failed to persist run %s: %v", rep.RunID, err)
	}
}
