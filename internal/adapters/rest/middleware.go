package rest

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ewilliams-labs/ratify/internal/core/ports"
)

type contextKey string

const identityKey contextKey = "identity"

// withRequestLog tags every request with an X-Request-Id and logs it.
func (h *Handler) withRequestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-Id")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-Id", requestID)

		start := time.Now()
		next.ServeHTTP(w, r)

		h.logger.Info("http request",
			zap.String("requestId", requestID),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("duration", time.Since(start)))
	})
}

// requireAuth resolves the caller from the Authorization header before the
// wrapped handler runs. The identity travels in the request context only;
// nothing holds a "current user" beyond the request.
func (h *Handler) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			writeError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		id, err := h.identity.Verify(r.Context(), token)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}
		next(w, r.WithContext(context.WithValue(r.Context(), identityKey, id)))
	}
}

// callerIdentity returns the identity stored by requireAuth.
func callerIdentity(r *http.Request) (ports.Identity, bool) {
	id, ok := r.Context().Value(identityKey).(ports.Identity)
	return id, ok
}

func bearerToken(r *http.Request) (string, bool) {
	auth := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(auth, prefix) {
		return "", false
	}
	token := strings.TrimSpace(auth[len(prefix):])
	return token, token != ""
}
