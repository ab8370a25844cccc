package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/redflagduel/arena/internal/domain/element"
	"github.com/redflagduel/arena/internal/domain/session"
)

// SessionDependencies defines the interface for session operations.
type SessionDependencies interface {
	CreateSession(ctx context.Context, profile element.Profile) (*session.Ledger, error)
	GetSession(ctx context.Context, id string) (*session.Ledger, error)
	ResetSession(ctx context.Context, id string) (*session.Ledger, error)
	DeleteSession(ctx context.Context, id string) error
}

// SessionHandler handles session lifecycle requests.
type SessionHandler struct {
	deps SessionDependencies
}

// NewSessionHandler creates a new session handler.
func NewSessionHandler(deps SessionDependencies) *SessionHandler {
	return &SessionHandler{deps: deps}
}

type createSessionRequest struct {
	Sex string `json:"sex"`
	Age string `json:"age"`
}

type sessionResponse struct {
	ID        string          `json:"id"`
	Profile   element.Profile `json:"profile"`
	DuelCount int             `json:"duel_count"`
	Streak    int             `json:"streak"`
}

func toSessionResponse(l *session.Ledger) sessionResponse {
	return sessionResponse{
		ID:        l.ID,
		Profile:   l.Profile,
		DuelCount: l.DuelCount,
		Streak:    l.Streak,
	}
}

// HandleCreate handles POST /session requests.
func (h *SessionHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req createSessionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	profile := element.Profile{
		Sex: element.Sex(strings.TrimSpace(req.Sex)),
		Age: element.AgeBracket(strings.TrimSpace(req.Age)),
	}
	l, err := h.deps.CreateSession(r.Context(), profile)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toSessionResponse(l))
}

// HandleByID handles GET/DELETE /session/{id} and POST /session/{id}/reset.
func (h *SessionHandler) HandleByID(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/session/")
	if path == "" {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}

	if id, ok := strings.CutSuffix(path, "/reset"); ok {
		if r.Method != http.MethodPost || id == "" || strings.Contains(id, "/") {
			http.NotFound(w, r)
			return
		}
		l, err := h.deps.ResetSession(r.Context(), id)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toSessionResponse(l))
		return
	}

	if strings.Contains(path, "/") {
		http.NotFound(w, r)
		return
	}
	switch r.Method {
	case http.MethodGet:
		l, err := h.deps.GetSession(r.Context(), path)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toSessionResponse(l))
	case http.MethodDelete:
		if err := h.deps.DeleteSession(r.Context(), path); err != nil {
			writeServiceError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		http.NotFound(w, r)
	}
}
