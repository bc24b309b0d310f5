package api

import (
	"context"
	"net/http"

	"github.com/okian/rivals/internal/domain/types"
)

// PromptsDependencies defines the daily prompt operations.
type PromptsDependencies interface {
	Prompts(ctx context.Context) (types.PromptsView, error)
	SelectPrompt(ctx context.Context, index int) (*PromptState, error)
	SubmitPrompt(ctx context.Context, text string, attachments []string) (Submission, error)
}

// PromptsHandler handles daily prompt requests.
type PromptsHandler struct {
	deps PromptsDependencies
}

// NewPromptsHandler creates a new prompts handler.
func NewPromptsHandler(deps PromptsDependencies) *PromptsHandler {
	return &PromptsHandler{deps: deps}
}

// HandleGetPrompts handles GET /prompts.
func (h *PromptsHandler) HandleGetPrompts(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_prompts"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	view, err := h.deps.Prompts(r.Context())
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// HandleSelect handles POST /prompts/select.
func (h *PromptsHandler) HandleSelect(w http.ResponseWriter, r *http.Request) {
	const op = "api.select_prompt"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req selectRequest
	if err := decodeJSON(r, &req); err != nil {
		writeFailure(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	if req.Index == nil {
		writeFailure(w, NewKind(op, ErrBadRequest))
		return
	}
	st, err := h.deps.SelectPrompt(r.Context(), *req.Index)
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// HandleSubmit handles POST /prompts/submit.
func (h *PromptsHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	const op = "api.submit_prompt"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req submissionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeFailure(w, WrapKind(op, ErrBadRequest, err))
		return
	}
	sub, err := h.deps.SubmitPrompt(r.Context(), req.Text, req.Attachments)
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusCreated, sub)
}
