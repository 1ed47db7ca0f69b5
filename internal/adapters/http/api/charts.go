// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"strings"
	"time"
)

// ChartsDependencies defines the interface for chart rendering operations.
type ChartsDependencies interface {
	RadarChart(ctx context.Context, subject, year string) (string, error)
	TimelapseChart(ctx context.Context, subject string, elapsed time.Duration) (string, error)
	AreaChart(ctx context.Context, subject string) (string, error)
}

// ChartsHandler handles chart rendering requests.
type ChartsHandler struct {
	deps ChartsDependencies
}

// NewChartsHandler creates a new charts handler.
func NewChartsHandler(deps ChartsDependencies) *ChartsHandler {
	return &ChartsHandler{deps: deps}
}

// HandleGetChart handles the /charts/ subtree:
//
//	GET /charts/{subject}.svg            radar for one snapshot (?year=)
//	GET /charts/{subject}/timelapse.svg  animated position (?elapsed= in ms)
//	GET /charts/{subject}/areas.svg      per-group area triptych
func (h *ChartsHandler) HandleGetChart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	rest := strings.TrimPrefix(r.URL.Path, "/charts/")
	switch {
	case rest == "":
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
	case strings.HasSuffix(rest, "/timelapse.svg"):
		h.timelapse(w, r, strings.TrimSuffix(rest, "/timelapse.svg"))
	case strings.HasSuffix(rest, "/areas.svg"):
		h.areas(w, r, strings.TrimSuffix(rest, "/areas.svg"))
	case strings.HasSuffix(rest, ".svg") && !strings.Contains(rest, "/"):
		h.radar(w, r, strings.TrimSuffix(rest, ".svg"))
	default:
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
	}
}

func (h *ChartsHandler) radar(w http.ResponseWriter, r *http.Request, subject string) {
	if subject == "" {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	doc, err := h.deps.RadarChart(r.Context(), subject, r.URL.Query().Get("year"))
	if err != nil {
		h.fail(w, err)
		return
	}
	writeSVG(w, doc)
}

func (h *ChartsHandler) timelapse(w http.ResponseWriter, r *http.Request, subject string) {
	if subject == "" || strings.Contains(subject, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	elapsed, err := parseElapsed(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	doc, err := h.deps.TimelapseChart(r.Context(), subject, elapsed)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeSVG(w, doc)
}

func (h *ChartsHandler) areas(w http.ResponseWriter, r *http.Request, subject string) {
	if subject == "" || strings.Contains(subject, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	doc, err := h.deps.AreaChart(r.Context(), subject)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeSVG(w, doc)
}

func (h *ChartsHandler) fail(w http.ResponseWriter, err error) {
	if isNotFound(err) {
		writeError(w, http.StatusNotFound, "not_found", err)
		return
	}
	writeError(w, http.StatusInternalServerError, "internal_error", err)
}
