package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// analysis pipeline.
type Metrics struct {
	RecordsLoaded        *prometheus.CounterVec // labels: source={primary,supplemental,authority}
	SeveritiesReconciled prometheus.Counter
	AnalysisRuns         *prometheus.CounterVec // labels: outcome={success,error}
	AnalysisDuration     prometheus.Histogram
	HotSpotsFound        prometheus.Gauge
}

// NewMetrics creates and registers all pipeline metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.RecordsLoaded,
		m.SeveritiesReconciled,
		m.AnalysisRuns,
		m.AnalysisDuration,
		m.HotSpotsFound,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		RecordsLoaded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "crashlens",
			Name:      "records_loaded_total",
			Help:      "Total records parsed per source table.",
		}, []string{"source"}),
		SeveritiesReconciled: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "crashlens",
			Name:      "severities_reconciled_total",
			Help:      "Primary records whose missing severity was backfilled.",
		}),
		AnalysisRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "crashlens",
			Name:      "analysis_runs_total",
			Help:      "Completed analysis runs by outcome.",
		}, []string{"outcome"}),
		AnalysisDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "crashlens",
			Name:      "analysis_duration_seconds",
			Help:      "Duration of a complete load-reconcile-analyze cycle.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30},
		}),
		HotSpotsFound: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "crashlens",
			Name:      "hot_spots_found",
			Help:      "Hot-spot clusters identified by the most recent run.",
		}),
	}
}
