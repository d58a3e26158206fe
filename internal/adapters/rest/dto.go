package rest

import (
	"time"

	"github.com/ewilliams-labs/ratify/internal/core/domain"
)

// Response bodies mirror the stored documents but rounded for display:
// averages leave the API with one decimal while the stores keep full
// precision.

type reviewResponse struct {
	ReviewID  string    `json:"reviewId"`
	UserID    string    `json:"userId"`
	UserName  string    `json:"userName"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type albumRatingsResponse struct {
	AlbumID       string           `json:"albumId"`
	AlbumName     string           `json:"albumName"`
	ArtistName    string           `json:"artistName"`
	AlbumImage    string           `json:"albumImage,omitempty"`
	AverageRating float64          `json:"averageRating"`
	ReviewCount   int              `json:"reviewCount"`
	Reviews       []reviewResponse `json:"reviews"`
	LastUpdatedAt time.Time        `json:"lastUpdatedAt"`
}

type albumEntryResponse struct {
	AlbumID    string    `json:"albumId"`
	AlbumName  string    `json:"albumName"`
	ArtistName string    `json:"artistName"`
	AlbumImage string    `json:"albumImage,omitempty"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

type userProfileResponse struct {
	UserID   string               `json:"userId"`
	UserName string               `json:"userName"`
	Albums   []albumEntryResponse `json:"albums"`
}

type userStatsResponse struct {
	TotalRatings      int     `json:"totalRatings"`
	AverageRating     float64 `json:"averageRating"`
	UniqueArtistCount int     `json:"uniqueArtistCount"`
}

type albumResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Artist      string `json:"artist"`
	ImageURL    string `json:"imageUrl,omitempty"`
	ReleaseDate string `json:"releaseDate,omitempty"`
	TotalTracks int    `json:"totalTracks,omitempty"`
}

func toAlbumRatingsResponse(a domain.AlbumRatings) albumRatingsResponse {
	reviews := make([]reviewResponse, 0, len(a.Reviews))
	for _, r := range a.Reviews {
		reviews = append(reviews, reviewResponse(r))
	}
	return albumRatingsResponse{
		AlbumID:       a.AlbumID,
		AlbumName:     a.AlbumName,
		ArtistName:    a.ArtistName,
		AlbumImage:    a.AlbumImage,
		AverageRating: domain.RoundRating(a.AverageRating),
		ReviewCount:   a.ReviewCount,
		Reviews:       reviews,
		LastUpdatedAt: a.LastUpdatedAt,
	}
}

func toAlbumEntryResponses(entries []domain.AlbumEntry) []albumEntryResponse {
	out := make([]albumEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, albumEntryResponse(e))
	}
	return out
}

func toAlbumResponses(albums []domain.Album) []albumResponse {
	out := make([]albumResponse, 0, len(albums))
	for _, a := range albums {
		out = append(out, albumResponse(a))
	}
	return out
}
