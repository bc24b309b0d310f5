package api

import (
	"context"
	"net/http"
)

// ResetDependencies defines the clear-data operation.
type ResetDependencies interface {
	ClearData(ctx context.Context) error
}

// ResetHandler handles reset requests.
type ResetHandler struct {
	deps ResetDependencies
}

// NewResetHandler creates a new reset handler.
func NewResetHandler(deps ResetDependencies) *ResetHandler {
	return &ResetHandler{deps: deps}
}

// HandleReset handles POST /reset, which wipes all data and the clock.
func (h *ResetHandler) HandleReset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	if err := h.deps.ClearData(r.Context()); err != nil {
		writeFailure(w, Wrap("api.reset", err))
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{Status: "cleared"})
}
