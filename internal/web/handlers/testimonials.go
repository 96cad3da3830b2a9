package handlers

import (
	"net/http"

	"github.com/denizhukuk/lawsite/internal/content"
)

// ListTestimonials returns every testimonial.
func (h *Handlers) ListTestimonials(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.ListTestimonials(r.Context())
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, items)
}

// CreateTestimonial creates a testimonial.
func (h *Handlers) CreateTestimonial(w http.ResponseWriter, r *http.Request) {
	var in content.TestimonialInput
	if !h.decodeJSON(w, r, &in) {
		return
	}

	testimonial, err := h.svc.CreateTestimonial(r.Context(), in)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, testimonial)
}

// GetTestimonial returns one testimonial.
func (h *Handlers) GetTestimonial(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	testimonial, err := h.svc.GetTestimonial(r.Context(), id)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, testimonial)
}

// UpdateTestimonial applies a partial update.
func (h *Handlers) UpdateTestimonial(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}
	var patch content.TestimonialPatch
	if !h.decodeJSON(w, r, &patch) {
		return
	}

	testimonial, err := h.svc.UpdateTestimonial(r.Context(), id, patch)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, testimonial)
}

// DeleteTestimonial deletes a testimonial.
func (h *Handlers) DeleteTestimonial(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	if err := h.svc.DeleteTestimonial(r.Context(), id); err != nil {
		h.serviceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
