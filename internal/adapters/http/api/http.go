// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/redflagduel/arena/internal/adapters/repository"
	"github.com/redflagduel/arena/internal/adapters/sessionstore"
	"github.com/redflagduel/arena/internal/app"
	"github.com/redflagduel/arena/internal/domain/duel"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to the service implementation.
type Dependencies interface {
	SessionDependencies
	DuelDependencies
	LeaderboardDependencies
	ElementDependencies
	ConfigDependencies
	VerdictDependencies
	StatsDependencies
}

// Read shapes returned by the service layer.
type (
	DuelView    = app.DuelView
	VoteOutcome = app.VoteOutcome
	Standing    = app.Standing
	Stats       = app.Stats
)

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler      *HealthHandler
	sessionHandler     *SessionHandler
	duelHandler        *DuelHandler
	leaderboardHandler *LeaderboardHandler
	elementsHandler    *ElementsHandler
	configHandler      *ConfigHandler
	verdictHandler     *VerdictHandler
	statsHandler       *StatsHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies) *Server {
	return &Server{
		healthHandler:      NewHealthHandler(),
		sessionHandler:     NewSessionHandler(deps),
		duelHandler:        NewDuelHandler(deps),
		leaderboardHandler: NewLeaderboardHandler(deps),
		elementsHandler:    NewElementsHandler(deps),
		configHandler:      NewConfigHandler(deps),
		verdictHandler:     NewVerdictHandler(deps),
		statsHandler:       NewStatsHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/session", MetricsMiddleware(s.sessionHandler.HandleCreate, "session"))
	mux.HandleFunc("/session/", MetricsMiddleware(s.sessionHandler.HandleByID, "session"))
	mux.HandleFunc("/duel/next", MetricsMiddleware(s.duelHandler.HandleNext, "duel_next"))
	mux.HandleFunc("/duel/vote", MetricsMiddleware(s.duelHandler.HandleVote, "duel_vote"))
	mux.HandleFunc("/duel/star", MetricsMiddleware(s.duelHandler.HandleStar, "duel_star"))
	mux.HandleFunc("/leaderboard", MetricsMiddleware(s.leaderboardHandler.HandleGetLeaderboard, "leaderboard"))
	mux.HandleFunc("/elements", MetricsMiddleware(s.elementsHandler.HandleCollection, "elements"))
	mux.HandleFunc("/elements/", MetricsMiddleware(s.elementsHandler.HandleByID, "elements"))
	mux.HandleFunc("/admin/config", MetricsMiddleware(s.configHandler.HandleConfig, "admin_config"))
	mux.HandleFunc("/admin/config/reset", MetricsMiddleware(s.configHandler.HandleReset, "admin_config_reset"))
	mux.HandleFunc("/verdict", MetricsMiddleware(s.verdictHandler.HandleSubmit, "verdict"))
	mux.HandleFunc("/verdict/feed", MetricsMiddleware(s.verdictHandler.HandleFeed, "verdict_feed"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
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

// writeServiceError translates service errors onto HTTP statuses.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound),
		errors.Is(err, sessionstore.ErrSessionNotFound):
		writeError(w, http.StatusNotFound, "not_found", err)
	case errors.Is(err, repository.ErrAlreadyExists):
		writeError(w, http.StatusConflict, "already_exists", err)
	case errors.Is(err, repository.ErrInactive):
		writeError(w, http.StatusConflict, "inactive", err)
	case errors.Is(err, duel.ErrInvalidConfig),
		errors.Is(err, sessionstore.ErrInvalidProfile),
		errors.Is(err, app.ErrSameElement),
		errors.Is(err, app.ErrEmptyLabel),
		errors.Is(err, app.ErrEmptyText),
		errors.Is(err, app.ErrInvalidCategory),
		errors.Is(err, app.ErrInvalidSegment):
		writeError(w, http.StatusBadRequest, "bad_request", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}

// decodeJSON parses a request body into v, rejecting unknown garbage early.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		return ErrInvalidJSON
	}
	return nil
}
