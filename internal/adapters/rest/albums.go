package rest

import (
	"net/http"
)

// SearchAlbums handles GET /albums/search?q=.
func (h *Handler) SearchAlbums(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		writeError(w, http.StatusBadRequest, "query parameter q is required")
		return
	}

	albums, err := h.svc.SearchAlbums(r.Context(), query)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toAlbumResponses(albums))
}

// GetAlbum handles GET /albums/{id}.
func (h *Handler) GetAlbum(w http.ResponseWriter, r *http.Request) {
	album, err := h.svc.GetAlbum(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, albumResponse(album))
}

// GetNewReleases handles GET /albums/new-releases.
func (h *Handler) GetNewReleases(w http.ResponseWriter, r *http.Request) {
	albums, err := h.svc.GetNewReleases(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toAlbumResponses(albums))
}
