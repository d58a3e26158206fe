package spotify

import (
	"strings"

	"github.com/ewilliams-labs/ratify/internal/core/domain"
)

// spotifyAlbum represents an album object from the Spotify Web API.
type spotifyAlbum struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Artists     []spotifyArtist `json:"artists"`
	Images      []spotifyImage  `json:"images"`
	ReleaseDate string          `json:"release_date"`
	TotalTracks int             `json:"total_tracks"`
}

type spotifyArtist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type spotifyImage struct {
	URL    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

// albumPage is the paged wrapper Spotify uses for search and browse.
type albumPage struct {
	Items []spotifyAlbum `json:"items"`
}

// mapAlbumToDomain converts a raw Spotify album to the domain shape:
// artists flattened to one display string, the first (largest) image kept.
func mapAlbumToDomain(sa spotifyAlbum) domain.Album {
	names := make([]string, 0, len(sa.Artists))
	for _, a := range sa.Artists {
		names = append(names, a.Name)
	}

	imageURL := ""
	if len(sa.Images) > 0 {
		imageURL = sa.Images[0].URL
	}

	return domain.Album{
		ID:          sa.ID,
		Name:        sa.Name,
		Artist:      strings.Join(names, ", "),
		ImageURL:    imageURL,
		ReleaseDate: sa.ReleaseDate,
		TotalTracks: sa.TotalTracks,
	}
}

func mapAlbumsToDomain(items []spotifyAlbum) []domain.Album {
	albums := make([]domain.Album, 0, len(items))
	for _, sa := range items {
		albums = append(albums, mapAlbumToDomain(sa))
	}
	return albums
}

func joinArtistNames(sa spotifyAlbum) string {
	parts := make([]string, 0, len(sa.Artists))
	for _, a := range sa.Artists {
		parts = append(parts, a.Name)
	}
	return strings.Join(parts, " ")
}
