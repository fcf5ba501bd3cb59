package ui

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gomarkdown/markdown"
	mdhtml "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"crashlens/internal/report"
)

// handleInsights renders the markdown insights summary as an HTML page.
func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request) {
	rep := s.currentReport()
	if rep == nil {
		http.Error(w, "no analysis available", http.StatusServiceUnavailable)
		return
	}

	md := []byte(report.Generate(rep))
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	renderer := mdhtml.NewRenderer(mdhtml.RendererOptions{Flags: mdhtml.CommonFlags | mdhtml.CompletePage})

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(markdown.ToHTML(md, p, renderer))
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	rep := s.currentReport()
	if rep == nil {
		http.Error(w, "no analysis available", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, rep)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	rep := s.currentReport()
	if rep == nil {
		http.Error(w, "no analysis available", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, rep.Descriptive.Counts)
}

func (s *Server) handleStatistics(w http.ResponseWriter, r *http.Request) {
	rep := s.currentReport()
	if rep == nil {
		http.Error(w, "no analysis available", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, rep.Descriptive)
}

func (s *Server) handleHotSpots(w http.ResponseWriter, r *http.Request) {
	rep := s.currentReport()
	if rep == nil {
		http.Error(w, "no analysis available", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, rep.HotSpots)
}

func (s *Server) handleTrends(w http.ResponseWriter, r *http.Request) {
	rep := s.currentReport()
	if rep == nil {
		http.Error(w, "no analysis available", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, rep.Trends)
}

func (s *Server) handleCorrelations(w http.ResponseWriter, r *http.Request) {
	rep := s.currentReport()
	if rep == nil {
		http.Error(w, "no analysis available", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, rep.Correlation)
}

// handleRuns lists persisted run history, newest first.
func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	if s.repo == nil {
		http.Error(w, "run history not configured", http.StatusNotFound)
		return
	}

	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			limit = v
		}
	}

	runs, err := s.repo.ListRuns(r.Context(), limit)
	if err != nil {
		s.log.Error("[Server] failed to list runs: %v", err)
		http.Error(w, "failed to list runs", http.StatusInternalServerError)
		return
	}
	writeJSON(w, runs)
}

// handleRefresh re-runs the whole pipeline.
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if err := s.Refresh(r); err != nil {
		s.log.Error("[Server] refresh failed: %v", err)
		http.Error(w, "analysis failed", http.StatusBadGateway)
		return
	}
	writeJSON(w, map[string]string{"status": "ok", "run_id": s.currentReport().RunID.String()})
}

func writeJSON(w http.ResponseWriter, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
	}
}
