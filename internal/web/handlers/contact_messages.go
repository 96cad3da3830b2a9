package handlers

import (
	"net/http"

	"github.com/denizhukuk/lawsite/internal/content"
)

// ListContactMessages returns every contact message.
func (h *Handlers) ListContactMessages(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.ListContactMessages(r.Context())
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, items)
}

// CreateContactMessage accepts a submission from the website contact form.
func (h *Handlers) CreateContactMessage(w http.ResponseWriter, r *http.Request) {
	var in content.ContactMessageInput
	if !h.decodeJSON(w, r, &in) {
		return
	}

	msg, err := h.svc.CreateContactMessage(r.Context(), in)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, msg)
}

// GetContactMessage returns one contact message.
func (h *Handlers) GetContactMessage(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	msg, err := h.svc.GetContactMessage(r.Context(), id)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, msg)
}

// UpdateContactMessage applies a partial update.
func (h *Handlers) UpdateContactMessage(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}
	var patch content.ContactMessagePatch
	if !h.decodeJSON(w, r, &patch) {
		return
	}

	msg, err := h.svc.UpdateContactMessage(r.Context(), id, patch)
	if err != nil {
		h.serviceError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, msg)
}

// DeleteContactMessage deletes a contact message.
func (h *Handlers) DeleteContactMessage(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}

	if err := h.svc.DeleteContactMessage(r.Context(), id); err != nil {
		h.serviceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
