package ui

import (
	"context"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"crashlens/app"
	"crashlens/domain/analysis"
	"crashlens/internal"
	"crashlens/ports"
)

// Server exposes the analysis results to the browser dashboard. The full
// pipeline runs once at startup and again on demand; every read endpoint
// serves the latest cached report.
type Server struct {
	router  *chi.Mux
	service *app.AnalysisService
	repo    ports.RunRepository // optional, run history
	log     *internal.Logger

	mu     sync.RWMutex
	report *analysis.Report
}

// Config holds server configuration
type Config struct {
	MetricsEnabled bool
}

// NewServer creates the dashboard server
func NewServer(service *app.AnalysisService, repo ports.RunRepository, config Config) *Server {
	s := &Server{
		router:  chi.NewRouter(),
		service: service,
		repo:    repo,
		log:     internal.DefaultLogger,
	}
	s.setupMiddleware()
	s.setupRoutes(config)
	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
}

func (s *Server) setupRoutes(config Config) {
	// Insights page for humans
	s.router.Get("/", s.handleInsights)

	// Chart series for the dashboard
	s.router.Get("/api/report", s.handleReport)
	s.router.Get("/api/summary", s.handleSummary)
	s.router.Get("/api/statistics", s.handleStatistics)
	s.router.Get("/api/hotspots", s.handleHotSpots)
	s.router.Get("/api/trends", s.handleTrends)
	s.router.Get("/api/correlations", s.handleCorrelations)
	s.router.Get("/api/runs", s.handleRuns)
	s.router.Post("/api/refresh", s.handleRefresh)

	if config.MetricsEnabled {
		s.router.Handle("/metrics", promhttp.Handler())
	}
}

// Refresh runs the pipeline and swaps in the fresh report.
func (s *Server) Refresh(r *http.Request) error {
	report, err := s.service.Run(r.Context())
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.report = report
	s.mu.Unlock()
	return nil
}

// Start runs the initial analysis and serves until the listener fails.
// A failed initial load is terminal: there is no partial dashboard.
func (s *Server) Start(port string) error {
	report, err := s.service.Run(context.Background())
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.report = report
	s.mu.Unlock()

	addr := ":" + port
	s.log.Info("[Server] dashboard listening on %s", addr)
	return http.ListenAndServe(addr, s.router)
}

// Handler exposes the router for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) currentReport() *analysis.Report {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.report
}
