package handlers

import (
	"net/http"
	"strconv"

	"github.com/denizhukuk/lawsite/internal/content"
	"github.com/denizhukuk/lawsite/internal/database"
)

// ListLawyers returns lawyers, optionally filtered by ?practiceAreaId= and ?search=.
func (h *Handlers) ListLawyers(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := database.LawyerFilter{Search: query.Get("search")}

	if raw := query.Get("practiceAreaId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			h.jsonError(w, "Invalid practiceAreaId", http.StatusBadRequest)
			return
		}
		filter.PracticeAreaID = &id
	}

	lawyers, err := h.svc.ListLawyers(r.Context(), filter)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, lawyers)
}

// CreateLawyer creates a lawyer profile.
func (h *Handlers) CreateLawyer(w http.ResponseWriter, r *http.Request) {
	var in content.LawyerInput
	if !h.decodeJSON(w, r, &in) {
		return
	}

	lawyer, err := h.svc.CreateLawyer(r.Context(), in)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, lawyer)
}

// GetLawyer returns one lawyer profile.
func (h *Handlers) GetLawyer(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	lawyer, err := h.svc.GetLawyer(r.Context(), id)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, lawyer)
}

// UpdateLawyer applies a partial update.
func (h *Handlers) UpdateLawyer(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}
	var patch content.LawyerPatch
	if !h.decodeJSON(w, r, &patch) {
		return
	}

	lawyer, err := h.svc.UpdateLawyer(r.Context(), id, patch)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, lawyer)
}

// DeleteLawyer deletes a lawyer profile under the configured policy.
func (h *Handlers) DeleteLawyer(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	if err := h.svc.DeleteLawyer(r.Context(), id); err != nil {
		h.serviceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
