// Package memory provides an in-memory implementation of the document
// store ports, used for tests and the "memory" storage driver.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/ewilliams-labs/ratify/internal/core/domain"
)

// Store keeps album aggregates and user profiles in process memory.
// Each update runs under the store lock, which gives the same
// per-document read-modify-write atomicity the real stores provide:
// concurrent updates of one album serialize and neither writer is lost.
type Store struct {
	mu       sync.RWMutex
	albums   map[string]domain.AlbumRatings
	profiles map[string]domain.UserProfile
}

// New creates an empty store.
func New() *Store {
	return &Store{
		albums:   map[string]domain.AlbumRatings{},
		profiles: map[string]domain.UserProfile{},
	}
}

// GetAlbum retrieves an album aggregate by album id.
func (s *Store) GetAlbum(ctx context.Context, albumID string) (domain.AlbumRatings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.albums[albumID]
	if !ok {
		return domain.AlbumRatings{}, domain.ErrNotFound
	}
	return cloneAlbum(a), nil
}

// UpdateAlbum applies mutate to the current aggregate under the store lock.
func (s *Store) UpdateAlbum(ctx context.Context, albumID string, mutate func(domain.AlbumRatings) (domain.AlbumRatings, error)) (domain.AlbumRatings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := mutate(cloneAlbum(s.albums[albumID]))
	if err != nil {
		return domain.AlbumRatings{}, err
	}
	s.albums[albumID] = cloneAlbum(next)
	return next, nil
}

// ListTopAlbums returns up to limit aggregates ordered by average rating,
// ties broken by review count.
func (s *Store) ListTopAlbums(ctx context.Context, limit int) ([]domain.AlbumRatings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.AlbumRatings, 0, len(s.albums))
	for _, a := range s.albums {
		out = append(out, cloneAlbum(a))
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].AverageRating != out[j].AverageRating {
			return out[i].AverageRating > out[j].AverageRating
		}
		return out[i].ReviewCount > out[j].ReviewCount
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// GetProfile retrieves a user profile by user id.
func (s *Store) GetProfile(ctx context.Context, userID string) (domain.UserProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.profiles[userID]
	if !ok {
		return domain.UserProfile{}, domain.ErrNotFound
	}
	return cloneProfile(p), nil
}

// UpdateProfile applies mutate to the current profile under the store lock.
func (s *Store) UpdateProfile(ctx context.Context, userID string, mutate func(domain.UserProfile) (domain.UserProfile, error)) (domain.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := mutate(cloneProfile(s.profiles[userID]))
	if err != nil {
		return domain.UserProfile{}, err
	}
	s.profiles[userID] = cloneProfile(next)
	return next, nil
}

// clones keep callers from mutating the stored slices behind the lock.

func cloneAlbum(a domain.AlbumRatings) domain.AlbumRatings {
	out := a
	out.Reviews = make([]domain.Review, len(a.Reviews))
	copy(out.Reviews, a.Reviews)
	return out
}

func cloneProfile(p domain.UserProfile) domain.UserProfile {
	out := p
	out.Albums = make([]domain.AlbumEntry, len(p.Albums))
	copy(out.Albums, p.Albums)
	return out
}
