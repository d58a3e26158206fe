package ports

import (
	"context"

	"github.com/ewilliams-labs/ratify/internal/core/domain"
)

// AlbumRepository stores per-album aggregate documents.
//
// UpdateAlbum runs mutate inside the store's per-document atomic
// read-modify-write: concurrent updates of the same album must serialize
// so neither writer's review is lost. When the document does not exist yet
// mutate receives the zero aggregate. The updated document is returned.
type AlbumRepository interface {
	GetAlbum(ctx context.Context, albumID string) (domain.AlbumRatings, error)
	UpdateAlbum(ctx context.Context, albumID string, mutate func(domain.AlbumRatings) (domain.AlbumRatings, error)) (domain.AlbumRatings, error)
	ListTopAlbums(ctx context.Context, limit int) ([]domain.AlbumRatings, error)
}

// ProfileRepository stores per-user index documents with the same
// per-document transactional contract as AlbumRepository. No cross-document
// atomicity is offered between the two repositories.
type ProfileRepository interface {
	GetProfile(ctx context.Context, userID string) (domain.UserProfile, error)
	UpdateProfile(ctx context.Context, userID string, mutate func(domain.UserProfile) (domain.UserProfile, error)) (domain.UserProfile, error)
}
