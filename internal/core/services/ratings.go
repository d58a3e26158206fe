package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ewilliams-labs/ratify/internal/core/domain"
	"github.com/ewilliams-labs/ratify/internal/core/ports"
)

// RatingService implements the rating upsert protocol and the read-side
// query layer on top of the album and profile repositories. It is the sole
// writer of both document kinds.
type RatingService struct {
	albums   ports.AlbumRepository
	profiles ports.ProfileRepository
	catalog  ports.CatalogProvider
	cache    ports.AggregateCache
	logger   *zap.Logger
	now      func() time.Time
}

// NewRatingService constructs a RatingService. catalog and cache may be nil
// when the corresponding surface is not wired (tests, local dev).
func NewRatingService(albums ports.AlbumRepository, profiles ports.ProfileRepository, catalog ports.CatalogProvider, cache ports.AggregateCache, logger *zap.Logger) *RatingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RatingService{
		albums:   albums,
		profiles: profiles,
		catalog:  catalog,
		cache:    cache,
		logger:   logger,
		now:      time.Now,
	}
}

// Submission carries one rating submission. The album metadata is the
// denormalized snapshot the client got from the catalog; it is stored as-is
// and never refreshed retroactively.
type Submission struct {
	UserID     string
	UserName   string
	AlbumID    string
	AlbumName  string
	ArtistName string
	AlbumImage string
	Rating     int
	Comment    string
}

// SubmitRating runs the upsert protocol for one submission:
//
//  1. Validate before any write.
//  2. Atomically read-modify-write the album aggregate: insert the review
//     or replace the caller's previous one, then recompute count/average.
//  3. Independently read-modify-write the caller's profile index.
//
// The two writes are separate transactions. If the second fails the caller
// gets a PartialUpdateError and the already-updated aggregate; resubmitting
// is safe and repairs the index.
func (s *RatingService) SubmitRating(ctx context.Context, sub Submission) (domain.AlbumRatings, error) {
	review, err := domain.NewReview(sub.UserID, sub.UserName, sub.AlbumID, sub.Rating, sub.Comment, s.now())
	if err != nil {
		return domain.AlbumRatings{}, fmt.Errorf("service: invalid submission: %w", err)
	}

	updated, err := s.albums.UpdateAlbum(ctx, sub.AlbumID, func(cur domain.AlbumRatings) (domain.AlbumRatings, error) {
		if cur.AlbumID == "" {
			cur = domain.NewAlbumRatings(sub.AlbumID, sub.AlbumName, sub.ArtistName, sub.AlbumImage)
		} else {
			cur.RefreshMetadata(sub.AlbumName, sub.ArtistName, sub.AlbumImage)
		}
		cur.Upsert(review)
		return cur, nil
	})
	if err != nil {
		return domain.AlbumRatings{}, fmt.Errorf("service: failed to save album ratings: %w", err)
	}

	// The stored review is authoritative for timestamps: an edit keeps the
	// original CreatedAt, which the snapshot in the profile must mirror.
	stored, ok := updated.ReviewBy(sub.UserID)
	if !ok {
		return updated, fmt.Errorf("service: album %s aggregate is missing the review just written", sub.AlbumID)
	}

	entry := domain.AlbumEntry{
		AlbumID:    updated.AlbumID,
		AlbumName:  updated.AlbumName,
		ArtistName: updated.ArtistName,
		AlbumImage: updated.AlbumImage,
		Rating:     stored.Rating,
		Comment:    stored.Comment,
		CreatedAt:  stored.CreatedAt,
		UpdatedAt:  stored.UpdatedAt,
	}

	if _, err := s.profiles.UpdateProfile(ctx, sub.UserID, func(p domain.UserProfile) (domain.UserProfile, error) {
		if p.UserID == "" {
			p.UserID = sub.UserID
		}
		p.UserName = sub.UserName
		p.Upsert(entry)
		return p, nil
	}); err != nil {
		s.logger.Warn("service: profile index write failed after album update",
			zap.String("userId", sub.UserID),
			zap.String("albumId", sub.AlbumID),
			zap.Error(err))
		return updated, &PartialUpdateError{UserID: sub.UserID, AlbumID: sub.AlbumID, Err: err}
	}

	return updated, nil
}

// GetAlbumRatings returns the aggregate for an album, or nil when the album
// has never been rated. That absence is a normal state, not an error.
func (s *RatingService) GetAlbumRatings(ctx context.Context, albumID string) (*domain.AlbumRatings, error) {
	if albumID == "" {
		return nil, fmt.Errorf("service: %w", domain.ErrInvalidAlbum)
	}

	if s.cache != nil {
		if agg, err := s.cache.GetAggregate(ctx, albumID); err == nil {
			return &agg, nil
		} else if !errors.Is(err, domain.ErrNotFound) {
			s.logger.Debug("service: aggregate cache read failed", zap.String("albumId", albumID), zap.Error(err))
		}
	}

	agg, err := s.albums.GetAlbum(ctx, albumID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("service: failed to load album ratings: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.SetAggregate(ctx, agg); err != nil {
			s.logger.Debug("service: aggregate cache write failed", zap.String("albumId", albumID), zap.Error(err))
		}
	}
	return &agg, nil
}

// GetUserRatings returns every album the user has rated, most recently
// updated first, ties in insertion order. A user with no profile yet gets
// an empty list.
func (s *RatingService) GetUserRatings(ctx context.Context, userID string) ([]domain.AlbumEntry, error) {
	p, err := s.loadProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	return p.Summaries(), nil
}

// GetUserAlbumRating is the point lookup of a user's own rating for one
// album; nil when the user has not rated it.
func (s *RatingService) GetUserAlbumRating(ctx context.Context, userID, albumID string) (*domain.AlbumEntry, error) {
	p, err := s.loadProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if e, ok := p.Entry(albumID); ok {
		return &e, nil
	}
	return nil, nil
}

// GetUserStats derives the user's rating statistics. Zero ratings is zero
// stats, not an error.
func (s *RatingService) GetUserStats(ctx context.Context, userID string) (domain.UserStats, error) {
	p, err := s.loadProfile(ctx, userID)
	if err != nil {
		return domain.UserStats{}, err
	}
	return p.Stats(), nil
}

// GetUserProfile returns the user's profile document, or an empty profile
// if none exists yet. Profiles are created lazily on first rating.
func (s *RatingService) GetUserProfile(ctx context.Context, userID string) (domain.UserProfile, error) {
	return s.loadProfile(ctx, userID)
}

// SaveUserName merges the display name into the profile without touching
// the album snapshots. Past reviews keep the name they were written with.
func (s *RatingService) SaveUserName(ctx context.Context, userID, userName string) error {
	if userID == "" {
		return fmt.Errorf("service: %w", domain.ErrUnauthenticated)
	}
	if userName == "" {
		return fmt.Errorf("service: user name cannot be empty")
	}
	if _, err := s.profiles.UpdateProfile(ctx, userID, func(p domain.UserProfile) (domain.UserProfile, error) {
		if p.UserID == "" {
			p.UserID = userID
		}
		p.UserName = userName
		return p, nil
	}); err != nil {
		return fmt.Errorf("service: failed to save user name: %w", err)
	}
	return nil
}

// GetTopAlbums lists the highest-rated album aggregates.
func (s *RatingService) GetTopAlbums(ctx context.Context, limit int) ([]domain.AlbumRatings, error) {
	if limit < 1 {
		limit = 10
	}
	albums, err := s.albums.ListTopAlbums(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("service: failed to list top albums: %w", err)
	}
	return albums, nil
}

// SearchAlbums queries the catalog provider for albums matching the query.
func (s *RatingService) SearchAlbums(ctx context.Context, query string) ([]domain.Album, error) {
	albums, err := s.catalog.SearchAlbums(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("service: album search failed: %w", err)
	}
	return albums, nil
}

// GetAlbum fetches one album's catalog metadata.
func (s *RatingService) GetAlbum(ctx context.Context, albumID string) (domain.Album, error) {
	album, err := s.catalog.GetAlbum(ctx, albumID)
	if err != nil {
		return domain.Album{}, fmt.Errorf("service: failed to fetch album: %w", err)
	}
	return album, nil
}

// GetNewReleases fetches the catalog's newest albums.
func (s *RatingService) GetNewReleases(ctx context.Context) ([]domain.Album, error) {
	albums, err := s.catalog.GetNewReleases(ctx)
	if err != nil {
		return nil, fmt.Errorf("service: failed to fetch new releases: %w", err)
	}
	return albums, nil
}

func (s *RatingService) loadProfile(ctx context.Context, userID string) (domain.UserProfile, error) {
	if userID == "" {
		return domain.UserProfile{}, fmt.Errorf("service: %w", domain.ErrUnauthenticated)
	}
	p, err := s.profiles.GetProfile(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.UserProfile{UserID: userID}, nil
	}
	if err != nil {
		return domain.UserProfile{}, fmt.Errorf("service: failed to load profile: %w", err)
	}
	return p, nil
}
