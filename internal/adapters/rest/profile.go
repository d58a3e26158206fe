package rest

import (
	"encoding/json"
	"net/http"
)

// GetMyProfile handles GET /me. A caller who has never rated anything
// gets an empty profile, not a 404.
func (h *Handler) GetMyProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := callerIdentity(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing identity")
		return
	}

	profile, err := h.svc.GetUserProfile(r.Context(), id.UserID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, userProfileResponse{
		UserID:   profile.UserID,
		UserName: profile.UserName,
		Albums:   toAlbumEntryResponses(profile.Albums),
	})
}

// GetMyRatings handles GET /me/ratings. Entries come back most recently
// updated first.
func (h *Handler) GetMyRatings(w http.ResponseWriter, r *http.Request) {
	id, ok := callerIdentity(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing identity")
		return
	}

	entries, err := h.svc.GetUserRatings(r.Context(), id.UserID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toAlbumEntryResponses(entries))
}

// GetMyAlbumRating handles GET /me/ratings/{albumId}.
func (h *Handler) GetMyAlbumRating(w http.ResponseWriter, r *http.Request) {
	id, ok := callerIdentity(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing identity")
		return
	}

	entry, err := h.svc.GetUserAlbumRating(r.Context(), id.UserID, r.PathValue("albumId"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if entry == nil {
		writeError(w, http.StatusNotFound, "you have not rated this album")
		return
	}
	writeJSON(w, http.StatusOK, albumEntryResponse(*entry))
}

// GetMyStats handles GET /me/stats.
func (h *Handler) GetMyStats(w http.ResponseWriter, r *http.Request) {
	id, ok := callerIdentity(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing identity")
		return
	}

	stats, err := h.svc.GetUserStats(r.Context(), id.UserID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, userStatsResponse(stats))
}

type saveNameRequest struct {
	UserName string `json:"userName"`
}

// SaveMyName handles PUT /me/name. Only the profile's display name
// changes; reviews already written keep the name they were written with.
func (h *Handler) SaveMyName(w http.ResponseWriter, r *http.Request) {
	id, ok := callerIdentity(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing identity")
		return
	}

	var req saveNameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.UserName == "" {
		writeError(w, http.StatusBadRequest, "userName is required")
		return
	}

	if err := h.svc.SaveUserName(r.Context(), id.UserID, req.UserName); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"userName": req.UserName})
}
