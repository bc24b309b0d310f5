package api

import (
	"context"
	"net/http"

	"github.com/okian/rivals/internal/domain/types"
)

// WeeklyDependencies defines the weekly task operations.
type WeeklyDependencies interface {
	Weekly(ctx context.Context) (types.WeeklyView, error)
	CreateWeekly(ctx context.Context, text string, points int) (*WeeklyTask, error)
	CompleteWeekly(ctx context.Context, text string, attachments []string) (*WeeklyTask, error)
	DeleteWeekly(ctx context.Context) error
}

// WeeklyHandler handles weekly task requests.
type WeeklyHandler struct {
	deps WeeklyDependencies
}

// NewWeeklyHandler creates a new weekly handler.
func NewWeeklyHandler(deps WeeklyDependencies) *WeeklyHandler {
	return &WeeklyHandler{deps: deps}
}

// HandleWeekly handles GET, POST and DELETE /weekly.
func (h *WeeklyHandler) HandleWeekly(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.get(w, r)
	case http.MethodPost:
		h.create(w, r)
	case http.MethodDelete:
		h.delete(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (h *WeeklyHandler) get(w http.ResponseWriter, r *http.Request) {
	view, err := h.deps.Weekly(r.Context())
	if err != nil {
		writeFailure(w, Wrap("api.get_weekly", err))
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *WeeklyHandler) create(w http.ResponseWriter, r *http.Request) {
	const op = "api.create_weekly"
	var req weeklyCreateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeFailure(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	task, err := h.deps.CreateWeekly(r.Context(), req.Text, req.Points)
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusCreated, task)
}

func (h *WeeklyHandler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.deps.DeleteWeekly(r.Context()); err != nil {
		writeFailure(w, Wrap("api.delete_weekly", err))
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{Status: "deleted"})
}

// HandleComplete handles POST /weekly/complete.
func (h *WeeklyHandler) HandleComplete(w http.ResponseWriter, r *http.Request) {
	const op = "api.complete_weekly"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req submissionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeFailure(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	task, err := h.deps.CompleteWeekly(r.Context(), req.Text, req.Attachments)
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, task)
}
