package api

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/redflagduel/arena/internal/domain/verdict"
)

// VerdictDependencies defines the interface for flag-or-not operations.
type VerdictDependencies interface {
	SubmitVerdict(ctx context.Context, text string) (verdict.Submission, error)
	VerdictFeed(ctx context.Context, limit int) ([]verdict.Submission, error)
}

// VerdictHandler handles flag-or-not submissions and the community feed.
type VerdictHandler struct {
	deps VerdictDependencies
}

// NewVerdictHandler creates a new verdict handler.
func NewVerdictHandler(deps VerdictDependencies) *VerdictHandler {
	return &VerdictHandler{deps: deps}
}

type verdictRequest struct {
	Text string `json:"text"`
}

type feedResponse struct {
	Submissions []verdict.Submission `json:"submissions"`
}

// HandleSubmit handles POST /verdict requests.
func (h *VerdictHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req verdictRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	sub, err := h.deps.SubmitVerdict(r.Context(), req.Text)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sub)
}

// HandleFeed handles GET /verdict/feed requests.
func (h *VerdictHandler) HandleFeed(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	limit := 0
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
			return
		}
		limit = n
	}
	subs, err := h.deps.VerdictFeed(r.Context(), limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, feedResponse{Submissions: subs})
}
