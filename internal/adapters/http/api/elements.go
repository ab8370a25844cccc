package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/redflagduel/arena/internal/domain/element"
)

// ElementDependencies defines the interface for element administration.
type ElementDependencies interface {
	CreateElement(ctx context.Context, label string, category element.Category) (element.Element, error)
	ListElements(ctx context.Context, includeInactive bool, category element.Category) ([]element.Element, error)
	DeactivateElement(ctx context.Context, id string) error
}

// ElementsHandler handles element catalog requests.
type ElementsHandler struct {
	deps ElementDependencies
}

// NewElementsHandler creates a new elements handler.
func NewElementsHandler(deps ElementDependencies) *ElementsHandler {
	return &ElementsHandler{deps: deps}
}

type createElementRequest struct {
	Label    string `json:"label"`
	Category string `json:"category"`
}

type elementsResponse struct {
	Elements []element.Element `json:"elements"`
}

// HandleCollection handles GET and POST /elements requests.
func (h *ElementsHandler) HandleCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		q := r.URL.Query()
		includeInactive := q.Get("include_inactive") == "true"
		category := element.Category(strings.TrimSpace(q.Get("category")))

		els, err := h.deps.ListElements(r.Context(), includeInactive, category)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, elementsResponse{Elements: els})
	case http.MethodPost:
		var req createElementRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", err)
			return
		}
		e, err := h.deps.CreateElement(r.Context(), req.Label, element.Category(strings.TrimSpace(req.Category)))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, e)
	default:
		http.NotFound(w, r)
	}
}

// HandleByID handles DELETE /elements/{id} requests, which deactivate
// rather than erase.
func (h *ElementsHandler) HandleByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		http.NotFound(w, r)
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/elements/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	if err := h.deps.DeactivateElement(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
