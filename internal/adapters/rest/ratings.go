package rest

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/ewilliams-labs/ratify/internal/core/services"
	"github.com/ewilliams-labs/ratify/internal/worker"
)

type submitRatingRequest struct {
	AlbumName  string `json:"albumName"`
	ArtistName string `json:"artistName"`
	AlbumImage string `json:"albumImage"`
	Rating     int    `json:"rating"`
	Comment    string `json:"comment"`
}

// SubmitRating handles POST /albums/{id}/ratings.
// Submitting twice for the same album overwrites the caller's previous
// rating instead of adding a second one.
func (h *Handler) SubmitRating(w http.ResponseWriter, r *http.Request) {
	id, ok := callerIdentity(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing identity")
		return
	}

	var req submitRatingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	updated, err := h.svc.SubmitRating(r.Context(), services.Submission{
		UserID:     id.UserID,
		UserName:   id.UserName,
		AlbumID:    r.PathValue("id"),
		AlbumName:  req.AlbumName,
		ArtistName: req.ArtistName,
		AlbumImage: req.AlbumImage,
		Rating:     req.Rating,
		Comment:    req.Comment,
	})
	if err != nil && !errors.Is(err, services.ErrPartialUpdate) {
		writeServiceError(w, err)
		return
	}

	if h.pool != nil {
		h.pool.Submit(worker.Job{AlbumID: updated.AlbumID})
	}

	if err != nil {
		// The aggregate is written; only the profile index lagged.
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toAlbumRatingsResponse(updated))
}

// GetAlbumRatings handles GET /albums/{id}/ratings.
func (h *Handler) GetAlbumRatings(w http.ResponseWriter, r *http.Request) {
	agg, err := h.svc.GetAlbumRatings(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if agg == nil {
		writeError(w, http.StatusNotFound, "album has no ratings yet")
		return
	}
	writeJSON(w, http.StatusOK, toAlbumRatingsResponse(*agg))
}

// GetTopAlbums handles GET /albums/top?limit=.
func (h *Handler) GetTopAlbums(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "limit must be a number")
			return
		}
		limit = parsed
	}

	albums, err := h.svc.GetTopAlbums(r.Context(), limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	out := make([]albumRatingsResponse, 0, len(albums))
	for _, a := range albums {
		out = append(out, toAlbumRatingsResponse(a))
	}
	writeJSON(w, http.StatusOK, out)
}
