package httpapp

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/scribe-audio/scribe/internal/app"
	"github.com/scribe-audio/scribe/internal/constants"
	"github.com/scribe-audio/scribe/internal/domain"
)

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type submitRequest struct {
	Database string   `json:"database"`
	URLs     []string `json:"urls"`
}

type submitResponse struct {
	JobIDs []string `json:"job_ids"`
	Errors []string `json:"errors,omitempty"`
}

func (h *Handler) SubmitJobs(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if !h.decode(w, r, &req) {
		return
	}

	var submitterID *string
	if actor := r.Header.Get(constants.ActorHeader); actor != "" {
		submitterID = &actor
	}

	jobIDs, err := h.Jobs.SubmitJobs(r.Context(), req.Database, req.URLs, submitterID)
	if err != nil && len(jobIDs) == 0 {
		if domain.IsValidation(err) || errors.Is(err, domain.ErrUnknownDatabase) {
			h.writeError(w, err)
			return
		}
		// Every URL was refused by the worker.
		h.writeJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
		return
	}

	resp := submitResponse{JobIDs: jobIDs}
	if err != nil {
		resp.Errors = []string{err.Error()}
	}
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) ListJobs(w http.ResponseWriter, r *http.Request) {
	list, err := h.Jobs.ListJobs(chi.URLParam(r, "database"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, list)
}

func (h *Handler) GetTranscript(w http.ResponseWriter, r *http.Request) {
	database := chi.URLParam(r, "database")
	id := chi.URLParam(r, "id")

	detail, err := h.Jobs.GetTranscript(database, id)
	if errors.Is(err, domain.ErrNotFound) {
		// A missing transcript is a null record, not an HTTP failure.
		h.writeJSON(w, http.StatusOK, &app.TranscriptDetail{})
		return
	}
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, detail)
}

func (h *Handler) ListCollections(w http.ResponseWriter, r *http.Request) {
	collections, err := h.Collections.List(chi.URLParam(r, "database"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	if collections == nil {
		collections = []domain.Collection{}
	}
	h.writeJSON(w, http.StatusOK, collections)
}

type collectionNewRequest struct {
	Database    string `json:"database"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (h *Handler) CreateCollection(w http.ResponseWriter, r *http.Request) {
	var req collectionNewRequest
	if !h.decode(w, r, &req) {
		return
	}

	collection, err := h.Collections.Create(req.Database, req.Name, req.Description)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, collection)
}

func (h *Handler) GetCollection(w http.ResponseWriter, r *http.Request) {
	database := chi.URLParam(r, "database")
	id := chi.URLParam(r, "id")

	detail, err := h.Collections.Get(database, id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, detail)
}

type membershipRequest struct {
	Database     string `json:"database"`
	CollectionID string `json:"collection_id"`
	TranscriptID string `json:"transcript_id"`
}

func (h *Handler) AddVideo(w http.ResponseWriter, r *http.Request) {
	var req membershipRequest
	if !h.decode(w, r, &req) {
		return
	}

	if err := h.Collections.AddVideo(req.Database, req.CollectionID, req.TranscriptID); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h *Handler) RemoveVideo(w http.ResponseWriter, r *http.Request) {
	var req membershipRequest
	if !h.decode(w, r, &req) {
		return
	}

	if err := h.Collections.RemoveVideo(req.Database, req.CollectionID, req.TranscriptID); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

type searchRequest struct {
	Database     string `json:"database"`
	CollectionID string `json:"collection_id"`
	Query        string `json:"query"`
}

type searchResponse struct {
	Results []domain.SearchResult `json:"results"`
}

func (h *Handler) SearchCollection(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if !h.decode(w, r, &req) {
		return
	}

	results, err := h.Collections.Search(req.Database, req.CollectionID, req.Query)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if results == nil {
		results = []domain.SearchResult{}
	}
	h.writeJSON(w, http.StatusOK, searchResponse{Results: results})
}
