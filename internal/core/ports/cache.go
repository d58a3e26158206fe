package ports

import (
	"context"

	"github.com/ewilliams-labs/ratify/internal/core/domain"
)

// AggregateCache is a read cache for album aggregate documents.
// A miss returns domain.ErrNotFound. The cache is strictly best-effort:
// callers treat any cache failure as a miss and fall through to the
// repository, and a submit never fails because of the cache.
type AggregateCache interface {
	GetAggregate(ctx context.Context, albumID string) (domain.AlbumRatings, error)
	SetAggregate(ctx context.Context, ratings domain.AlbumRatings) error
}
