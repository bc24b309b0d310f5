// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/okian/rivals/internal/domain/clock"
	"github.com/okian/rivals/internal/domain/model"
	"github.com/okian/rivals/internal/domain/types"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to the service implementation.
type Dependencies interface {
	LeaderboardDependencies
	PromptsDependencies
	WeeklyDependencies
	ProfileDependencies
	ClockDependencies
	ResetDependencies
	StatsProvider
}

// Entry mirrors the read shape returned by leaderboard queries.
type Entry = types.Entry

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	leaderboardHandler *LeaderboardHandler
	promptsHandler     *PromptsHandler
	weeklyHandler      *WeeklyHandler
	profileHandler     *ProfileHandler
	clockHandler       *ClockHandler
	resetHandler       *ResetHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, maxLimit int) *Server {
	return &Server{
		healthHandler:      NewHealthHandler(),
		statsHandler:       NewStatsHandler(deps),
		leaderboardHandler: NewLeaderboardHandler(deps, maxLimit),
		promptsHandler:     NewPromptsHandler(deps),
		weeklyHandler:      NewWeeklyHandler(deps),
		profileHandler:     NewProfileHandler(deps),
		clockHandler:       NewClockHandler(deps),
		resetHandler:       NewResetHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/leaderboard", MetricsMiddleware(s.leaderboardHandler.HandleGetLeaderboard, "leaderboard"))
	mux.HandleFunc("/prompts", MetricsMiddleware(s.promptsHandler.HandleGetPrompts, "prompts"))
	mux.HandleFunc("/prompts/select", MetricsMiddleware(s.promptsHandler.HandleSelect, "prompts_select"))
	mux.HandleFunc("/prompts/submit", MetricsMiddleware(s.promptsHandler.HandleSubmit, "prompts_submit"))
	mux.HandleFunc("/weekly", MetricsMiddleware(s.weeklyHandler.HandleWeekly, "weekly"))
	mux.HandleFunc("/weekly/complete", MetricsMiddleware(s.weeklyHandler.HandleComplete, "weekly_complete"))
	mux.HandleFunc("/profile", MetricsMiddleware(s.profileHandler.HandleGetProfile, "profile"))
	mux.HandleFunc("/clock", MetricsMiddleware(s.clockHandler.HandleClock, "clock"))
	mux.HandleFunc("/reset", MetricsMiddleware(s.resetHandler.HandleReset, "reset"))
}

// Request bodies.
type (
	selectRequest struct {
		Index *int `json:"index"`
	}
	submissionRequest struct {
		Text        string   `json:"text"`
		Attachments []string `json:"attachments"`
	}
	weeklyCreateRequest struct {
		Text   string `json:"text"`
		Points int    `json:"points"`
	}
	clockRequest struct {
		Accelerated *bool `json:"accelerated"`
	}
)

type statusResponse struct {
	Status string `json:"status"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Read-side aliases used in handler contracts.
type (
	ClockState  = clock.State
	Submission  = model.Submission
	WeeklyTask  = model.WeeklyTask
	PromptState = model.DailyPromptState
)

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid body: %w", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeFailure maps err to a status via its kind.
func writeFailure(w http.ResponseWriter, err error) {
	status, code := statusFor(err)
	writeError(w, status, code, err)
}
