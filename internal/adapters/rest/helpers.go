package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ewilliams-labs/ratify/internal/core/domain"
	"github.com/ewilliams-labs/ratify/internal/core/services"
)

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// writeServiceError maps service-layer errors onto HTTP statuses.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidRating),
		errors.Is(err, domain.ErrInvalidAlbum):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrUnauthenticated):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrPartialUpdate):
		// The rating itself is saved; only the profile index lagged.
		// Resubmitting the same rating repairs it.
		writeError(w, http.StatusServiceUnavailable, "rating saved, but your profile could not be updated; please retry")
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
