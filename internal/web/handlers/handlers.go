package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/denizhukuk/lawsite/internal/config"
	"github.com/denizhukuk/lawsite/internal/content"
)

// maxBodyBytes caps request bodies; content records are small.
const maxBodyBytes = 1 << 20

// Pinger reports whether the database is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handlers contains all HTTP handlers
type Handlers struct {
	svc    *content.Service
	db     Pinger
	loader *config.Loader
}

// New creates a new Handlers instance
func New(svc *content.Service, db Pinger, loader *config.Loader) *Handlers {
	return &Handlers{svc: svc, db: db, loader: loader}
}

// Root returns the site greeting.
func (h *Handlers) Root(w http.ResponseWriter, r *http.Request) {
	loader := h.loader.WithContext(r.Context())
	h.writeJSON(w, http.StatusOK, map[string]string{
		"name":    loader.String("site.name", "lawsite"),
		"message": loader.String("site.welcome_message", "Welcome"),
	})
}

// Health reports ok when the database answers a ping.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.db.Ping(r.Context()); err != nil {
		log.Error().Err(err).Msg("Health check failed")
		h.writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handlers) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}

// jsonError sends a JSON error response
func (h *Handlers) jsonError(w http.ResponseWriter, message string, status int) {
	h.writeJSON(w, status, map[string]string{"error": message})
}

// decodeJSON reads the request body into dst and answers 400 on failure.
func (h *Handlers) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		h.decodeError(w, err, "Request body is empty")
		return false
	}
	// the body must hold exactly one JSON value
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		h.decodeError(w, err, "Request body must contain a single JSON value")
		return false
	}
	return true
}

func (h *Handlers) decodeError(w http.ResponseWriter, err error, eofMessage string) {
	var maxErr *http.MaxBytesError
	switch {
	case errors.As(err, &maxErr):
		h.jsonError(w, "Request body too large", http.StatusRequestEntityTooLarge)
	case err == nil, errors.Is(err, io.EOF):
		h.jsonError(w, eofMessage, http.StatusBadRequest)
	default:
		h.jsonError(w, fmt.Sprintf("Invalid JSON: %v", err), http.StatusBadRequest)
	}
}

// parseID reads the {id} route parameter and answers 400 when it is not a
// positive integer.
func (h *Handlers) parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		h.jsonError(w, "Invalid ID", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

// serviceError maps a content error to its HTTP status.
func (h *Handlers) serviceError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, content.ErrValidation), errors.Is(err, content.ErrInvalidReference):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, content.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, content.ErrUniqueViolation), errors.Is(err, content.ErrForeignKeyViolation):
		status = http.StatusConflict
	}

	if status == http.StatusInternalServerError {
		log.Error().
			Err(err).
			Str("path", r.URL.Path).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("Request failed")
		h.jsonError(w, "Internal server error", status)
		return
	}

	h.jsonError(w, err.Error(), status)
}
