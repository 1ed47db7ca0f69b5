// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
)

// SubjectsDependencies defines the interface for subject listing.
type SubjectsDependencies interface {
	Subjects(ctx context.Context) ([]string, error)
}

// SubjectsHandler handles subject listing requests.
type SubjectsHandler struct {
	deps SubjectsDependencies
}

// NewSubjectsHandler creates a new subjects handler.
func NewSubjectsHandler(deps SubjectsDependencies) *SubjectsHandler {
	return &SubjectsHandler{deps: deps}
}

// HandleGetSubjects handles GET /subjects requests.
func (h *SubjectsHandler) HandleGetSubjects(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	subjects, err := h.deps.Subjects(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	writeJSON(w, http.StatusOK, subjects)
}
