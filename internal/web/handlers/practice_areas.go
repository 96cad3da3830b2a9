package handlers

import (
	"net/http"

	"github.com/denizhukuk/lawsite/internal/content"
)

// ListPracticeAreas returns every practice area.
func (h *Handlers) ListPracticeAreas(w http.ResponseWriter, r *http.Request) {
	areas, err := h.svc.ListPracticeAreas(r.Context())
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, areas)
}

// CreatePracticeArea creates a practice area.
func (h *Handlers) CreatePracticeArea(w http.ResponseWriter, r *http.Request) {
	var in content.PracticeAreaInput
	if !h.decodeJSON(w, r, &in) {
		return
	}

	pa, err := h.svc.CreatePracticeArea(r.Context(), in)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, pa)
}

// GetPracticeArea returns one practice area.
func (h *Handlers) GetPracticeArea(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	pa, err := h.svc.GetPracticeArea(r.Context(), id)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, pa)
}

// UpdatePracticeArea applies a partial update.
func (h *Handlers) UpdatePracticeArea(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}
	var patch content.PracticeAreaPatch
	if !h.decodeJSON(w, r, &patch) {
		return
	}

	pa, err := h.svc.UpdatePracticeArea(r.Context(), id, patch)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, pa)
}

// DeletePracticeArea deletes a practice area under the configured policy.
func (h *Handlers) DeletePracticeArea(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	if err := h.svc.DeletePracticeArea(r.Context(), id); err != nil {
		h.serviceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
