package domain

import (
	"math"
	"time"
)

// AlbumRatings is the per-album aggregate document: every review left for
// the album plus the derived average and count. The catalog metadata is
// denormalized on first write and refreshed from later submissions.
type AlbumRatings struct {
	AlbumID       string
	AlbumName     string
	ArtistName    string
	AlbumImage    string
	AverageRating float64
	ReviewCount   int
	Reviews       []Review
	CreatedAt     time.Time
	LastUpdatedAt time.Time
}

// NewAlbumRatings returns an empty aggregate carrying the denormalized
// catalog metadata for an album that has never been rated.
func NewAlbumRatings(albumID, albumName, artistName, albumImage string) AlbumRatings {
	return AlbumRatings{
		AlbumID:    albumID,
		AlbumName:  albumName,
		ArtistName: artistName,
		AlbumImage: albumImage,
		Reviews:    []Review{},
	}
}

// RefreshMetadata updates the denormalized catalog fields from a newer
// submission. Empty values are ignored so a sparse submission cannot blank
// out metadata an earlier writer provided.
func (a *AlbumRatings) RefreshMetadata(albumName, artistName, albumImage string) {
	if albumName != "" {
		a.AlbumName = albumName
	}
	if artistName != "" {
		a.ArtistName = artistName
	}
	if albumImage != "" {
		a.AlbumImage = albumImage
	}
}

// Upsert inserts the review, or replaces the same user's previous review in
// place while preserving its original CreatedAt. The derived fields are
// recomputed afterwards, so the aggregate is consistent the moment Upsert
// returns.
func (a *AlbumRatings) Upsert(r Review) {
	for i, existing := range a.Reviews {
		if existing.UserID == r.UserID {
			r.CreatedAt = existing.CreatedAt
			a.Reviews[i] = r
			a.recompute(r.UpdatedAt)
			return
		}
	}
	a.Reviews = append(a.Reviews, r)
	if a.CreatedAt.IsZero() {
		a.CreatedAt = r.UpdatedAt
	}
	a.recompute(r.UpdatedAt)
}

// ReviewBy returns the review left by the given user, if any.
func (a *AlbumRatings) ReviewBy(userID string) (Review, bool) {
	for _, r := range a.Reviews {
		if r.UserID == userID {
			return r, true
		}
	}
	return Review{}, false
}

// recompute derives ReviewCount and AverageRating from the review list.
// The average is always rebuilt from scratch, never adjusted incrementally,
// so repeated edits cannot accumulate float drift.
func (a *AlbumRatings) recompute(now time.Time) {
	a.ReviewCount = len(a.Reviews)
	sum := 0
	for _, r := range a.Reviews {
		sum += r.Rating
	}
	if a.ReviewCount > 0 {
		a.AverageRating = float64(sum) / float64(a.ReviewCount)
	} else {
		a.AverageRating = 0
	}
	a.LastUpdatedAt = now
}

// RoundRating rounds an average rating to one decimal for display.
// Aggregates keep the full-precision value; rounding is a display concern.
func RoundRating(v float64) float64 {
	return math.Round(v*10) / 10
}
