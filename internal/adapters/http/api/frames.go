// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/stagescape/radial/pkg/metrics"
)

// FramesDependencies defines the interface for frame geometry queries.
type FramesDependencies interface {
	Frame(ctx context.Context, subject string, elapsed time.Duration) (Frame, error)
}

// FramesHandler handles frame geometry requests.
type FramesHandler struct {
	deps FramesDependencies
}

// NewFramesHandler creates a new frames handler.
func NewFramesHandler(deps FramesDependencies) *FramesHandler {
	return &FramesHandler{deps: deps}
}

// HandleGetFrame handles GET /frames/{subject}?elapsed=ms requests. The
// response carries interpolated scores and projected outline points so a
// client can drive its own renderer.
func (h *FramesHandler) HandleGetFrame(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	subject := strings.TrimPrefix(r.URL.Path, "/frames/")
	if subject == "" || strings.Contains(subject, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	elapsed, err := parseElapsed(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	frame, err := h.deps.Frame(r.Context(), subject, elapsed)
	if err != nil {
		if isNotFound(err) {
			writeError(w, http.StatusNotFound, "not_found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	metrics.RecordFrameServed()
	writeJSON(w, http.StatusOK, frame)
}
