// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/stagescape/radial/internal/domain/layout"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Subjects lists every subject known to the catalog.
	Subjects(ctx context.Context) ([]string, error)

	// RadarChart renders a single-snapshot radar document. An empty year
	// selects the most recent snapshot.
	RadarChart(ctx context.Context, subject, year string) (string, error)

	// TimelapseChart renders the chart as it appears elapsed into playback.
	TimelapseChart(ctx context.Context, subject string, elapsed time.Duration) (string, error)

	// AreaChart renders the per-group area triptych for a subject.
	AreaChart(ctx context.Context, subject string) (string, error)

	// Frame computes raw frame geometry for client-side rendering.
	Frame(ctx context.Context, subject string, elapsed time.Duration) (Frame, error)

	// EnqueueExport pushes a render job for async processing. Returns false
	// on backpressure.
	EnqueueExport(ctx context.Context, subject, kind string) bool
}

// Frame mirrors the read shape returned by frame geometry queries.
type Frame = layout.FrameGeometry

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler   *HealthHandler
	statsHandler    *StatsHandler
	subjectsHandler *SubjectsHandler
	chartsHandler   *ChartsHandler
	framesHandler   *FramesHandler
	exportHandler   *ExportHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:   NewHealthHandler(),
		statsHandler:    NewStatsHandler(statsProvider),
		subjectsHandler: NewSubjectsHandler(deps),
		chartsHandler:   NewChartsHandler(deps),
		framesHandler:   NewFramesHandler(deps),
		exportHandler:   NewExportHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	// Specific paths first (most specific to least specific)
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/subjects", MetricsMiddleware(s.subjectsHandler.HandleGetSubjects, "subjects"))
	mux.HandleFunc("/charts/", MetricsMiddleware(s.chartsHandler.HandleGetChart, "charts"))
	mux.HandleFunc("/frames/", MetricsMiddleware(s.framesHandler.HandleGetFrame, "frames"))
	mux.HandleFunc("/export", MetricsMiddleware(s.exportHandler.HandlePostExport, "export"))
}

type ackResponse struct {
	Status string `json:"status"`
	Kind   string `json:"kind,omitempty"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeSVG(w http.ResponseWriter, doc string) {
	w.Header().Set("Content-Type", "image/svg+xml; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(doc))
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// isNotFound allows the API to translate upstream not-found errors to 404.
// This stays generic to avoid tight coupling with specific packages.
func isNotFound(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(strings.ToLower(err.Error()), "not found")
}

// parseElapsed reads the elapsed query parameter as whole milliseconds.
// Absent means the start of playback.
func parseElapsed(r *http.Request) (time.Duration, error) {
	raw := r.URL.Query().Get("elapsed")
	if raw == "" {
		return 0, nil
	}
	ms, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || ms < 0 {
		return 0, ErrBadRequest
	}
	return time.Duration(ms) * time.Millisecond, nil
}
