package api

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/redflagduel/arena/internal/domain/element"
)

// LeaderboardDependencies defines the interface for leaderboard queries.
type LeaderboardDependencies interface {
	Leaderboard(ctx context.Context, limit int, category element.Category, sex element.Sex, age element.AgeBracket) ([]Standing, error)
}

// LeaderboardHandler handles leaderboard requests.
type LeaderboardHandler struct {
	deps LeaderboardDependencies
}

// NewLeaderboardHandler creates a new leaderboard handler.
func NewLeaderboardHandler(deps LeaderboardDependencies) *LeaderboardHandler {
	return &LeaderboardHandler{deps: deps}
}

type leaderboardResponse struct {
	Standings []Standing `json:"standings"`
}

// HandleGetLeaderboard handles GET /leaderboard requests. The optional
// sex or age parameter switches the ranking onto that segment track.
func (h *LeaderboardHandler) HandleGetLeaderboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	q := r.URL.Query()

	limit := 0
	if raw := strings.TrimSpace(q.Get("limit")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
			return
		}
		limit = n
	}
	category := element.Category(strings.TrimSpace(q.Get("category")))
	sex := element.Sex(strings.TrimSpace(q.Get("sex")))
	age := element.AgeBracket(strings.TrimSpace(q.Get("age")))
	if sex != "" && age != "" {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}

	standings, err := h.deps.Leaderboard(r.Context(), limit, category, sex, age)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, leaderboardResponse{Standings: standings})
}
