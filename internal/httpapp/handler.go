// Package httpapp exposes the JSON API over chi.
package httpapp

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/scribe-audio/scribe/internal/app"
	"github.com/scribe-audio/scribe/internal/domain"
	"github.com/scribe-audio/scribe/internal/logger"
)

type Handler struct {
	Jobs        *app.JobService
	Collections *app.CollectionService
	Logger      *logger.Logger
}

func NewHandler(jobs *app.JobService, collections *app.CollectionService, log *logger.Logger) *Handler {
	return &Handler{
		Jobs:        jobs,
		Collections: collections,
		Logger:      log.WithComponent("http"),
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/healthz", h.Healthz)

	r.Post("/api/submit", h.SubmitJobs)
	r.Get("/api/jobs/{database}", h.ListJobs)
	r.Get("/api/transcripts/{database}/{id}", h.GetTranscript)

	r.Get("/api/collections/{database}", h.ListCollections)
	r.Post("/api/collection/new", h.CreateCollection)
	r.Get("/api/collection/{database}/{id}", h.GetCollection)
	r.Post("/api/collection/add_video", h.AddVideo)
	r.Post("/api/collection/remove_video", h.RemoveVideo)
	r.Post("/api/collection/search", h.SearchCollection)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.Logger.Error("Failed to encode response", "error", err)
	}
}

// writeError maps the error taxonomy onto HTTP statuses: bad input and
// unknown databases are client errors, missing records are 404, the rest
// is an internal error.
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": ve.Error()})
	case errors.Is(err, domain.ErrUnknownDatabase):
		h.writeJSON(w, http.StatusBadRequest, map[string]string{})
	case errors.Is(err, domain.ErrNotFound):
		h.writeJSON(w, http.StatusNotFound, map[string]string{})
	default:
		h.Logger.Error("Request failed", "error", err)
		h.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		h.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "malformed request body"})
		return false
	}
	return true
}
