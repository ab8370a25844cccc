package api

import (
	"context"
	"net/http"

	"github.com/redflagduel/arena/internal/domain/duel"
)

// ConfigDependencies defines the interface for engine config administration.
type ConfigDependencies interface {
	GetConfig() duel.Config
	UpdateConfig(ctx context.Context, cfg duel.Config) error
	ResetConfig(ctx context.Context) duel.Config
}

// ConfigHandler handles live engine config requests.
type ConfigHandler struct {
	deps ConfigDependencies
}

// NewConfigHandler creates a new config handler.
func NewConfigHandler(deps ConfigDependencies) *ConfigHandler {
	return &ConfigHandler{deps: deps}
}

// HandleConfig handles GET and PUT /admin/config requests. PUT replaces
// the whole config; a rejected body leaves the live config untouched.
func (h *ConfigHandler) HandleConfig(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, h.deps.GetConfig())
	case http.MethodPut:
		var cfg duel.Config
		if err := decodeJSON(r, &cfg); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", err)
			return
		}
		if err := h.deps.UpdateConfig(r.Context(), cfg); err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, h.deps.GetConfig())
	default:
		http.NotFound(w, r)
	}
}

// HandleReset handles POST /admin/config/reset requests.
func (h *ConfigHandler) HandleReset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, h.deps.ResetConfig(r.Context()))
}
