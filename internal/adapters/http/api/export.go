// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
)

// ExportDependencies defines the interface for export job submission.
type ExportDependencies interface {
	EnqueueExport(ctx context.Context, subject, kind string) bool
}

// ExportHandler handles export requests.
type ExportHandler struct {
	deps ExportDependencies
}

// NewExportHandler creates a new export handler.
func NewExportHandler(deps ExportDependencies) *ExportHandler {
	return &ExportHandler{deps: deps}
}

// exportRequest mirrors the OpenAPI schema for POST /export.
type exportRequest struct {
	Subject string `json:"subject"`
	Kind    string `json:"kind"`
}

func (e exportRequest) validate() error {
	if strings.TrimSpace(e.Subject) == "" {
		return errors.New("missing subject")
	}
	switch e.Kind {
	case "radar", "areas":
		return nil
	}
	return errors.New("kind must be radar or areas")
}

// HandlePostExport handles POST /export requests. Accepted jobs render to
// disk asynchronously; a full queue surfaces as backpressure.
func (h *ExportHandler) HandlePostExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req exportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	if ok := h.deps.EnqueueExport(r.Context(), req.Subject, req.Kind); !ok {
		writeError(w, http.StatusTooManyRequests, "backpressure", ErrBackpressure)
		return
	}
	writeJSON(w, http.StatusAccepted, ackResponse{Status: "accepted", Kind: req.Kind})
}
