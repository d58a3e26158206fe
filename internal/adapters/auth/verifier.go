// Package auth verifies the bearer tokens issued by the identity service.
// Tokens are HS256 JWTs carrying the user id in "sub" and the display
// name in "name".
package auth

import (
	"context"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/ewilliams-labs/ratify/internal/core/ports"
)

// TokenVerifier implements ports.IdentityProvider over a shared HMAC secret.
type TokenVerifier struct {
	secret []byte
}

var _ ports.IdentityProvider = (*TokenVerifier)(nil)

type claims struct {
	Name string `json:"name"`
	jwt.RegisteredClaims
}

// NewTokenVerifier builds a verifier for tokens signed with secret.
func NewTokenVerifier(secret []byte) *TokenVerifier {
	return &TokenVerifier{secret: secret}
}

func (v *TokenVerifier) Verify(_ context.Context, token string) (ports.Identity, error) {
	parsed, err := jwt.ParseWithClaims(token, &claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return v.secret, nil
	})
	if err != nil || !parsed.Valid {
		return ports.Identity{}, ports.ErrInvalidToken
	}
	c, ok := parsed.Claims.(*claims)
	if !ok || c.Subject == "" {
		return ports.Identity{}, ports.ErrInvalidToken
	}
	return ports.Identity{UserID: c.Subject, UserName: c.Name}, nil
}
