package domain

import (
	"sort"
	"time"
)

// UserProfile is the per-user index document: the user's display name plus
// a self-contained snapshot of every album they have rated. Entries are
// unique by AlbumID and kept in insertion order; readers that want
// most-recent-first call Summaries.
type UserProfile struct {
	UserID   string
	UserName string
	Albums   []AlbumEntry
}

// AlbumEntry is the user's own rating of one album, denormalized with the
// album's display metadata so profile views need no follow-up reads.
type AlbumEntry struct {
	AlbumID    string
	AlbumName  string
	ArtistName string
	AlbumImage string
	Rating     int
	Comment    string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Upsert inserts the entry, or replaces the existing entry for the same
// album in place, keeping the entry's original CreatedAt and its position
// in insertion order.
func (p *UserProfile) Upsert(e AlbumEntry) {
	for i, existing := range p.Albums {
		if existing.AlbumID == e.AlbumID {
			e.CreatedAt = existing.CreatedAt
			p.Albums[i] = e
			return
		}
	}
	p.Albums = append(p.Albums, e)
}

// Entry returns the user's entry for the given album, if any.
func (p *UserProfile) Entry(albumID string) (AlbumEntry, bool) {
	for _, e := range p.Albums {
		if e.AlbumID == albumID {
			return e, true
		}
	}
	return AlbumEntry{}, false
}

// Summaries returns the entries ordered by most recent update first.
// Equal timestamps keep insertion order.
func (p *UserProfile) Summaries() []AlbumEntry {
	out := make([]AlbumEntry, len(p.Albums))
	copy(out, p.Albums)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out
}

// UserStats summarizes a user's rating history.
type UserStats struct {
	TotalRatings      int
	AverageRating     float64
	UniqueArtistCount int
}

// Stats derives the user's statistics from their rated albums.
// A user with no ratings gets all-zero stats, not an error.
func (p *UserProfile) Stats() UserStats {
	if len(p.Albums) == 0 {
		return UserStats{}
	}
	sum := 0
	artists := make(map[string]struct{}, len(p.Albums))
	for _, e := range p.Albums {
		sum += e.Rating
		artists[e.ArtistName] = struct{}{}
	}
	return UserStats{
		TotalRatings:      len(p.Albums),
		AverageRating:     RoundRating(float64(sum) / float64(len(p.Albums))),
		UniqueArtistCount: len(artists),
	}
}
