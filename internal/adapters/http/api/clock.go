package api

import (
	"context"
	"net/http"
)

// ClockDependencies defines the virtual clock controls.
type ClockDependencies interface {
	Clock() ClockState
	SetAccelerated(ctx context.Context, enabled bool) ClockState
}

// ClockHandler handles clock requests.
type ClockHandler struct {
	deps ClockDependencies
}

// NewClockHandler creates a new clock handler.
func NewClockHandler(deps ClockDependencies) *ClockHandler {
	return &ClockHandler{deps: deps}
}

// HandleClock handles GET /clock and POST /clock {"accelerated": bool}.
func (h *ClockHandler) HandleClock(w http.ResponseWriter, r *http.Request) {
	const op = "api.clock"
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, h.deps.Clock())
	case http.MethodPost:
		var req clockRequest
		if err := decodeJSON(r, &req); err != nil {
			writeFailure(w, WrapKind(op, ErrBadRequest, err))
			return
		}
		if req.Accelerated == nil {
			writeFailure(w, NewKind(op, ErrBadRequest))
			return
		}
		writeJSON(w, http.StatusOK, h.deps.SetAccelerated(r.Context(), *req.Accelerated))
	default:
		http.NotFound(w, r)
	}
}
