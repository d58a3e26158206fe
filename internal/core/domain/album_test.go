package domain

import (
	"math"
	"testing"
	"time"
)

func TestAlbumRatings_Upsert(t *testing.T) {
	t0 := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	t1 := t0.Add(time.Hour)
	t2 := t0.Add(2 * time.Hour)

	tests := []struct {
		name        string
		submissions []Review
		wantCount   int
		wantAverage float64
	}{
		{
			name: "first review creates the aggregate",
			submissions: []Review{
				{ReviewID: "u1_a1", UserID: "u1", Rating: 4, UpdatedAt: t0, CreatedAt: t0},
			},
			wantCount:   1,
			wantAverage: 4,
		},
		{
			name: "three distinct users average correctly",
			submissions: []Review{
				{ReviewID: "u1_a1", UserID: "u1", Rating: 5, UpdatedAt: t0, CreatedAt: t0},
				{ReviewID: "u2_a1", UserID: "u2", Rating: 3, UpdatedAt: t1, CreatedAt: t1},
				{ReviewID: "u3_a1", UserID: "u3", Rating: 2, UpdatedAt: t2, CreatedAt: t2},
			},
			wantCount:   3,
			wantAverage: 10.0 / 3.0,
		},
		{
			name: "resubmission replaces instead of duplicating",
			submissions: []Review{
				{ReviewID: "u1_a1", UserID: "u1", Rating: 4, UpdatedAt: t0, CreatedAt: t0},
				{ReviewID: "u1_a1", UserID: "u1", Rating: 2, UpdatedAt: t1, CreatedAt: t1},
			},
			wantCount:   1,
			wantAverage: 2,
		},
		{
			name: "identical resubmission leaves count and average unchanged",
			submissions: []Review{
				{ReviewID: "u1_a1", UserID: "u1", Rating: 3, Comment: "solid", UpdatedAt: t0, CreatedAt: t0},
				{ReviewID: "u1_a1", UserID: "u1", Rating: 3, Comment: "solid", UpdatedAt: t1, CreatedAt: t1},
			},
			wantCount:   1,
			wantAverage: 3,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			agg := NewAlbumRatings("a1", "OK Computer", "Radiohead", "https://img.test/ok.jpg")
			for _, r := range tc.submissions {
				agg.Upsert(r)
			}

			if agg.ReviewCount != tc.wantCount {
				t.Fatalf("review count: got %d, want %d", agg.ReviewCount, tc.wantCount)
			}
			if len(agg.Reviews) != agg.ReviewCount {
				t.Fatalf("invariant broken: %d reviews but count %d", len(agg.Reviews), agg.ReviewCount)
			}
			if math.Abs(agg.AverageRating-tc.wantAverage) > 1e-9 {
				t.Fatalf("average: got %v, want %v", agg.AverageRating, tc.wantAverage)
			}
		})
	}
}

func TestAlbumRatings_UpsertPreservesCreatedAt(t *testing.T) {
	first := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	second := first.Add(48 * time.Hour)

	agg := NewAlbumRatings("a1", "In Rainbows", "Radiohead", "")
	agg.Upsert(Review{ReviewID: "u1_a1", UserID: "u1", Rating: 4, CreatedAt: first, UpdatedAt: first})
	agg.Upsert(Review{ReviewID: "u1_a1", UserID: "u1", Rating: 2, CreatedAt: second, UpdatedAt: second})

	stored, ok := agg.ReviewBy("u1")
	if !ok {
		t.Fatal("expected a review for u1")
	}
	if !stored.CreatedAt.Equal(first) {
		t.Fatalf("createdAt: got %v, want first submission time %v", stored.CreatedAt, first)
	}
	if !stored.UpdatedAt.Equal(second) {
		t.Fatalf("updatedAt: got %v, want second submission time %v", stored.UpdatedAt, second)
	}
	if stored.Rating != 2 {
		t.Fatalf("rating: got %d, want the most recent submission", stored.Rating)
	}
}

func TestAlbumRatings_UpsertKeepsPosition(t *testing.T) {
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	agg := NewAlbumRatings("a1", "Blonde", "Frank Ocean", "")
	agg.Upsert(Review{ReviewID: "u1_a1", UserID: "u1", Rating: 5, CreatedAt: now, UpdatedAt: now})
	agg.Upsert(Review{ReviewID: "u2_a1", UserID: "u2", Rating: 3, CreatedAt: now, UpdatedAt: now})
	agg.Upsert(Review{ReviewID: "u1_a1", UserID: "u1", Rating: 1, CreatedAt: now, UpdatedAt: now.Add(time.Hour)})

	if agg.Reviews[0].UserID != "u1" || agg.Reviews[1].UserID != "u2" {
		t.Fatalf("edit must replace in place, got order %s, %s", agg.Reviews[0].UserID, agg.Reviews[1].UserID)
	}
	if agg.Reviews[0].Rating != 1 {
		t.Fatalf("edited rating: got %d, want 1", agg.Reviews[0].Rating)
	}
}

func TestAlbumRatings_RefreshMetadata(t *testing.T) {
	agg := NewAlbumRatings("a1", "Blond", "Frank Ocean", "https://img.test/old.jpg")

	agg.RefreshMetadata("Blonde", "", "https://img.test/new.jpg")

	if agg.AlbumName != "Blonde" {
		t.Fatalf("album name: got %q, want Blonde", agg.AlbumName)
	}
	if agg.ArtistName != "Frank Ocean" {
		t.Fatalf("empty artist must not blank the stored value, got %q", agg.ArtistName)
	}
	if agg.AlbumImage != "https://img.test/new.jpg" {
		t.Fatalf("image: got %q", agg.AlbumImage)
	}
}

func TestRoundRating(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{10.0 / 3.0, 3.3},
		{3.35, 3.4},
		{0, 0},
		{5, 5},
	}
	for _, tc := range tests {
		if got := RoundRating(tc.in); got != tc.want {
			t.Fatalf("RoundRating(%v): got %v, want %v", tc.in, got, tc.want)
		}
	}
}
