package domain

import (
	"strings"
	"time"
)

// Review is one user's rating and comment for one album.
type Review struct {
	ReviewID  string
	UserID    string
	UserName  string // display name snapshotted at write time, never backfilled
	Rating    int
	Comment   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ReviewID derives the stable identity of a user's review of an album.
// A user holds at most one review per album; resubmitting with the same
// identity overwrites instead of duplicating.
func ReviewID(userID, albumID string) string {
	return userID + "_" + albumID
}

// NewReview validates a submission and builds the review record.
// Validation happens here, before anything is written anywhere.
func NewReview(userID, userName, albumID string, rating int, comment string, now time.Time) (Review, error) {
	if userID == "" {
		return Review{}, ErrUnauthenticated
	}
	if albumID == "" {
		return Review{}, ErrInvalidAlbum
	}
	if rating < 1 || rating > 5 {
		return Review{}, ErrInvalidRating
	}
	return Review{
		ReviewID:  ReviewID(userID, albumID),
		UserID:    userID,
		UserName:  userName,
		Rating:    rating,
		Comment:   strings.TrimSpace(comment),
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}
