package ports

import (
	"context"

	"github.com/ewilliams-labs/ratify/internal/core/domain"
)

// CatalogProvider supplies album metadata from the external music catalog.
// It is read-only to this application.
type CatalogProvider interface {
	SearchAlbums(ctx context.Context, query string) ([]domain.Album, error)
	GetAlbum(ctx context.Context, albumID string) (domain.Album, error)
	GetNewReleases(ctx context.Context) ([]domain.Album, error)
}
