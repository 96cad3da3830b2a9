package handlers

import (
	"net/http"

	"github.com/denizhukuk/lawsite/internal/content"
)

// ListCaseOutcomes returns every case outcome.
func (h *Handlers) ListCaseOutcomes(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.ListCaseOutcomes(r.Context())
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, items)
}

// CreateCaseOutcome creates a case outcome.
func (h *Handlers) CreateCaseOutcome(w http.ResponseWriter, r *http.Request) {
	var in content.CaseOutcomeInput
	if !h.decodeJSON(w, r, &in) {
		return
	}

	outcome, err := h.svc.CreateCaseOutcome(r.Context(), in)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, outcome)
}

// GetCaseOutcome returns one case outcome.
func (h *Handlers) GetCaseOutcome(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	outcome, err := h.svc.GetCaseOutcome(r.Context(), id)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, outcome)
}

// UpdateCaseOutcome applies a partial update.
func (h *Handlers) UpdateCaseOutcome(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}
	var patch content.CaseOutcomePatch
	if !h.decodeJSON(w, r, &patch) {
		return
	}

	outcome, err := h.svc.UpdateCaseOutcome(r.Context(), id, patch)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, outcome)
}

// DeleteCaseOutcome deletes a case outcome.
func (h *Handlers) DeleteCaseOutcome(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	if err := h.svc.DeleteCaseOutcome(r.Context(), id); err != nil {
		h.serviceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
