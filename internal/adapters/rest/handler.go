package rest

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/ewilliams-labs/ratify/internal/core/ports"
	"github.com/ewilliams-labs/ratify/internal/core/services"
	"github.com/ewilliams-labs/ratify/internal/worker"
)

// Handler manages the HTTP interface for our application.
type Handler struct {
	svc      *services.RatingService
	identity ports.IdentityProvider
	pool     *worker.Pool // optional cache warmer, may be nil
	logger   *zap.Logger
	router   *http.ServeMux
}

// NewHandler initializes the HTTP adapter and sets up routes.
// pool may be nil when no cache is wired.
func NewHandler(svc *services.RatingService, identity ports.IdentityProvider, pool *worker.Pool, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &Handler{
		svc:      svc,
		identity: identity,
		pool:     pool,
		logger:   logger,
		router:   http.NewServeMux(),
	}

	h.routes()

	return h
}

// ServeHTTP satisfies the http.Handler interface. Every request passes
// through the request-ID and access-log middleware before routing.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.withRequestLog(h.router).ServeHTTP(w, r)
}

// routes defines the mapping between URLs and methods.
func (h *Handler) routes() {
	// Health Check
	h.router.HandleFunc("GET /health", h.HealthCheck)

	// Catalog browsing
	h.router.HandleFunc("GET /albums/search", h.SearchAlbums)
	h.router.HandleFunc("GET /albums/new-releases", h.GetNewReleases)
	h.router.HandleFunc("GET /albums/top", h.GetTopAlbums)
	h.router.HandleFunc("GET /albums/{id}", h.GetAlbum)

	// Ratings
	h.router.HandleFunc("GET /albums/{id}/ratings", h.GetAlbumRatings)
	h.router.HandleFunc("POST /albums/{id}/ratings", h.requireAuth(h.SubmitRating))

	// Caller's own profile
	h.router.HandleFunc("GET /me", h.requireAuth(h.GetMyProfile))
	h.router.HandleFunc("GET /me/ratings", h.requireAuth(h.GetMyRatings))
	h.router.HandleFunc("GET /me/ratings/{albumId}", h.requireAuth(h.GetMyAlbumRating))
	h.router.HandleFunc("GET /me/stats", h.requireAuth(h.GetMyStats))
	h.router.HandleFunc("PUT /me/name", h.requireAuth(h.SaveMyName))
}

// HealthCheck is a simple endpoint to verify the API is running.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "message": "Ratify is live 🎶"})
}
