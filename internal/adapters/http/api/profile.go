package api

import (
	"context"
	"net/http"

	"github.com/okian/rivals/internal/domain/types"
)

// ProfileDependencies defines the profile read.
type ProfileDependencies interface {
	Profile(ctx context.Context) (types.Profile, error)
}

// ProfileHandler handles profile requests.
type ProfileHandler struct {
	deps ProfileDependencies
}

// NewProfileHandler creates a new profile handler.
func NewProfileHandler(deps ProfileDependencies) *ProfileHandler {
	return &ProfileHandler{deps: deps}
}

// HandleGetProfile handles GET /profile: the user's total, rank and history.
func (h *ProfileHandler) HandleGetProfile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	p, err := h.deps.Profile(r.Context())
	if err != nil {
		writeFailure(w, Wrap("api.get_profile", err))
		return
	}
	writeJSON(w, http.StatusOK, p)
}
