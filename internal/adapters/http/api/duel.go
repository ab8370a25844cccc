package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/redflagduel/arena/internal/domain/element"
)

// DuelDependencies defines the interface for duel gameplay operations.
type DuelDependencies interface {
	NextDuel(ctx context.Context, sessionID string, category element.Category) (DuelView, error)
	RecordVote(ctx context.Context, sessionID, winnerID, loserID string) (VoteOutcome, error)
	StarPair(ctx context.Context, aID, bID string) (int, error)
}

// DuelHandler handles duel selection, voting, and starring.
type DuelHandler struct {
	deps DuelDependencies
}

// NewDuelHandler creates a new duel handler.
func NewDuelHandler(deps DuelDependencies) *DuelHandler {
	return &DuelHandler{deps: deps}
}

// HandleNext handles GET /duel/next?session_id=...&category=... requests.
func (h *DuelHandler) HandleNext(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	sessionID := strings.TrimSpace(r.URL.Query().Get("session_id"))
	if sessionID == "" {
		writeError(w, http.StatusBadRequest, "bad_request", ErrMissingField)
		return
	}
	category := element.Category(strings.TrimSpace(r.URL.Query().Get("category")))

	view, err := h.deps.NextDuel(r.Context(), sessionID, category)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

type voteRequest struct {
	SessionID string `json:"session_id"`
	WinnerID  string `json:"winner_id"`
	LoserID   string `json:"loser_id"`
}

func (v voteRequest) validate() error {
	switch {
	case strings.TrimSpace(v.SessionID) == "":
		return ErrMissingField
	case strings.TrimSpace(v.WinnerID) == "":
		return ErrMissingField
	case strings.TrimSpace(v.LoserID) == "":
		return ErrMissingField
	}
	return nil
}

// HandleVote handles POST /duel/vote requests.
func (h *DuelHandler) HandleVote(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req voteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	outcome, err := h.deps.RecordVote(r.Context(), req.SessionID, req.WinnerID, req.LoserID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, outcome)
}

type starRequest struct {
	AID string `json:"a_id"`
	BID string `json:"b_id"`
}

type starResponse struct {
	Stars int `json:"stars"`
}

// HandleStar handles POST /duel/star requests.
func (h *DuelHandler) HandleStar(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req starRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	if strings.TrimSpace(req.AID) == "" || strings.TrimSpace(req.BID) == "" {
		writeError(w, http.StatusBadRequest, "bad_request", ErrMissingField)
		return
	}

	stars, err := h.deps.StarPair(r.Context(), req.AID, req.BID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, starResponse{Stars: stars})
}
