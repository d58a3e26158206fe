package ports

import (
	"context"
	"errors"
)

// ErrInvalidToken indicates a bearer token that could not be verified.
var ErrInvalidToken = errors.New("invalid or expired token")

// Identity is the authenticated caller as supplied by the identity
// provider. The application trusts it once verified and never keeps an
// ambient "current user"; identity is passed explicitly into every
// operation that needs it.
type Identity struct {
	UserID   string
	UserName string
}

// IdentityProvider verifies a bearer token and resolves the caller.
type IdentityProvider interface {
	Verify(ctx context.Context, token string) (Identity, error)
}
