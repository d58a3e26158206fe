package firestore

import (
	"time"

	"github.com/ewilliams-labs/ratify/internal/core/domain"
)

// Firestore document layout:
//
//	ratings/{albumId}: albumName, artistName, albumImage, averageRating,
//	                   reviewCount, reviews[], createdAt, lastUpdatedAt
//	users/{userId}:    userName, albums[] (the user's own snapshots,
//	                   in insertion order)
//
// The document id carries the album/user identity and is not repeated as
// a field; reviews carry their own ids because clients render them.

type reviewDoc struct {
	ReviewID  string    `firestore:"reviewId"`
	UserID    string    `firestore:"userId"`
	UserName  string    `firestore:"userName"`
	Rating    int       `firestore:"rating"`
	Comment   string    `firestore:"comment"`
	CreatedAt time.Time `firestore:"createdAt"`
	UpdatedAt time.Time `firestore:"updatedAt"`
}

type albumDoc struct {
	AlbumName     string      `firestore:"albumName"`
	ArtistName    string      `firestore:"artistName"`
	AlbumImage    string      `firestore:"albumImage"`
	AverageRating float64     `firestore:"averageRating"`
	ReviewCount   int         `firestore:"reviewCount"`
	Reviews       []reviewDoc `firestore:"reviews"`
	CreatedAt     time.Time   `firestore:"createdAt"`
	LastUpdatedAt time.Time   `firestore:"lastUpdatedAt"`
}

type albumEntryDoc struct {
	AlbumID    string    `firestore:"albumId"`
	AlbumName  string    `firestore:"albumName"`
	ArtistName string    `firestore:"artistName"`
	AlbumImage string    `firestore:"albumImage"`
	Rating     int       `firestore:"rating"`
	Comment    string    `firestore:"comment"`
	CreatedAt  time.Time `firestore:"createdAt"`
	UpdatedAt  time.Time `firestore:"updatedAt"`
}

type profileDoc struct {
	UserName string          `firestore:"userName"`
	Albums   []albumEntryDoc `firestore:"albums"`
}

func (d albumDoc) toDomain(albumID string) domain.AlbumRatings {
	reviews := make([]domain.Review, 0, len(d.Reviews))
	for _, r := range d.Reviews {
		reviews = append(reviews, domain.Review(r))
	}
	return domain.AlbumRatings{
		AlbumID:       albumID,
		AlbumName:     d.AlbumName,
		ArtistName:    d.ArtistName,
		AlbumImage:    d.AlbumImage,
		AverageRating: d.AverageRating,
		ReviewCount:   d.ReviewCount,
		Reviews:       reviews,
		CreatedAt:     d.CreatedAt,
		LastUpdatedAt: d.LastUpdatedAt,
	}
}

func albumDocFromDomain(a domain.AlbumRatings) albumDoc {
	reviews := make([]reviewDoc, 0, len(a.Reviews))
	for _, r := range a.Reviews {
		reviews = append(reviews, reviewDoc(r))
	}
	return albumDoc{
		AlbumName:     a.AlbumName,
		ArtistName:    a.ArtistName,
		AlbumImage:    a.AlbumImage,
		AverageRating: a.AverageRating,
		ReviewCount:   a.ReviewCount,
		Reviews:       reviews,
		CreatedAt:     a.CreatedAt,
		LastUpdatedAt: a.LastUpdatedAt,
	}
}

func (d profileDoc) toDomain(userID string) domain.UserProfile {
	albums := make([]domain.AlbumEntry, 0, len(d.Albums))
	for _, e := range d.Albums {
		albums = append(albums, domain.AlbumEntry(e))
	}
	return domain.UserProfile{
		UserID:   userID,
		UserName: d.UserName,
		Albums:   albums,
	}
}

func profileDocFromDomain(p domain.UserProfile) profileDoc {
	albums := make([]albumEntryDoc, 0, len(p.Albums))
	for _, e := range p.Albums {
		albums = append(albums, albumEntryDoc(e))
	}
	return profileDoc{
		UserName: p.UserName,
		Albums:   albums,
	}
}
