package domain

import "errors"

var (
	// ErrNotFound indicates the requested document does not exist.
	ErrNotFound = errors.New("domain: not found")

	// ErrInvalidRating indicates a rating outside the 1..5 range.
	// Zero means "unset" and is rejected the same way.
	ErrInvalidRating = errors.New("domain: rating must be between 1 and 5")

	// ErrUnauthenticated indicates a submission without a user identity.
	ErrUnauthenticated = errors.New("domain: missing user identity")

	// ErrInvalidAlbum indicates a submission without an album identity.
	ErrInvalidAlbum = errors.New("domain: album id is required")
)
