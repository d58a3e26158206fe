package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/ewilliams-labs/ratify/internal/adapters/auth"
	"github.com/ewilliams-labs/ratify/internal/adapters/memory"
	"github.com/ewilliams-labs/ratify/internal/core/domain"
	"github.com/ewilliams-labs/ratify/internal/core/services"
)

var testSecret = []byte("test-secret")

type stubCatalog struct {
	albums []domain.Album
}

func (c *stubCatalog) SearchAlbums(_ context.Context, _ string) ([]domain.Album, error) {
	return c.albums, nil
}

func (c *stubCatalog) GetAlbum(_ context.Context, id string) (domain.Album, error) {
	for _, a := range c.albums {
		if a.ID == id {
			return a, nil
		}
	}
	return domain.Album{}, domain.ErrNotFound
}

func (c *stubCatalog) GetNewReleases(_ context.Context) ([]domain.Album, error) {
	return c.albums, nil
}

func newTestHandler(t *testing.T) (*Handler, *memory.Store) {
	t.Helper()
	store := memory.New()
	catalog := &stubCatalog{albums: []domain.Album{
		{ID: "album-1", Name: "In Rainbows", Artist: "Radiohead", ImageURL: "https://img.example/ir.jpg"},
	}}
	svc := services.NewRatingService(store, store, catalog, nil, nil)
	return NewHandler(svc, auth.NewTokenVerifier(testSecret), nil, nil), store
}

func tokenFor(t *testing.T, userID, name string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  userID,
		"name": name,
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString(testSecret)
	if err != nil {
		t.Fatalf("signing token: %v", err)
	}
	return signed
}

func doRequest(h http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealthCheck(t *testing.T) {
	h, _ := newTestHandler(t)
	rec := doRequest(h, http.MethodGet, "/health", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestSubmitRatingRequiresAuth(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := doRequest(h, http.MethodPost, "/albums/album-1/ratings", "", `{"rating":5}`)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("no token: status = %d, want 401", rec.Code)
	}

	rec = doRequest(h, http.MethodPost, "/albums/album-1/ratings", "garbage", `{"rating":5}`)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("bad token: status = %d, want 401", rec.Code)
	}
}

func TestSubmitAndReadRatings(t *testing.T) {
	h, _ := newTestHandler(t)
	token := tokenFor(t, "user-1", "Ana")

	body := `{"albumName":"In Rainbows","artistName":"Radiohead","rating":5,"comment":"flawless"}`
	rec := doRequest(h, http.MethodPost, "/albums/album-1/ratings", token, body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("submit status = %d, body %s", rec.Code, rec.Body.String())
	}

	var created albumRatingsResponse
	if err := json.NewDecoder(rec.Body).Decode(&created); err != nil {
		t.Fatalf("decoding submit response: %v", err)
	}
	if created.AlbumID != "album-1" || created.ReviewCount != 1 || created.AverageRating != 5 {
		t.Errorf("submit response = %+v", created)
	}
	if len(created.Reviews) != 1 || created.Reviews[0].ReviewID != "user-1_album-1" {
		t.Errorf("reviews = %+v, want one with id user-1_album-1", created.Reviews)
	}

	rec = doRequest(h, http.MethodGet, "/albums/album-1/ratings", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("read status = %d", rec.Code)
	}
	var read albumRatingsResponse
	if err := json.NewDecoder(rec.Body).Decode(&read); err != nil {
		t.Fatalf("decoding read response: %v", err)
	}
	if read.Reviews[0].UserName != "Ana" || read.Reviews[0].Comment != "flawless" {
		t.Errorf("read review = %+v", read.Reviews[0])
	}
}

func TestSubmitRatingValidation(t *testing.T) {
	h, _ := newTestHandler(t)
	token := tokenFor(t, "user-1", "Ana")

	tests := []struct {
		name string
		body string
		want int
	}{
		{"rating too low", `{"rating":0}`, http.StatusBadRequest},
		{"rating too high", `{"rating":6}`, http.StatusBadRequest},
		{"malformed json", `{"rating":`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(h, http.MethodPost, "/albums/album-1/ratings", token, tt.body)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestResubmitOverwritesAndRoundsAverage(t *testing.T) {
	h, _ := newTestHandler(t)

	// Three users, then one edits. Average of 5,3,2 reads back as 3.3.
	submissions := []struct {
		user, name string
		rating     int
	}{
		{"u1", "Ana", 5},
		{"u2", "Ben", 3},
		{"u3", "Cal", 2},
	}
	for _, s := range submissions {
		body := `{"albumName":"In Rainbows","artistName":"Radiohead","rating":` + strconv.Itoa(s.rating) + `}`
		rec := doRequest(h, http.MethodPost, "/albums/album-1/ratings", tokenFor(t, s.user, s.name), body)
		if rec.Code != http.StatusCreated {
			t.Fatalf("submit for %s: status = %d", s.user, rec.Code)
		}
	}

	rec := doRequest(h, http.MethodGet, "/albums/album-1/ratings", "", "")
	var agg albumRatingsResponse
	if err := json.NewDecoder(rec.Body).Decode(&agg); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if agg.ReviewCount != 3 || agg.AverageRating != 3.3 {
		t.Errorf("count/avg = %d/%v, want 3/3.3", agg.ReviewCount, agg.AverageRating)
	}

	// u1 edits 5 -> 4; still three reviews.
	rec = doRequest(h, http.MethodPost, "/albums/album-1/ratings", tokenFor(t, "u1", "Ana"),
		`{"albumName":"In Rainbows","artistName":"Radiohead","rating":4}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("edit status = %d", rec.Code)
	}
	var edited albumRatingsResponse
	if err := json.NewDecoder(rec.Body).Decode(&edited); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if edited.ReviewCount != 3 || edited.AverageRating != 3.0 {
		t.Errorf("after edit count/avg = %d/%v, want 3/3", edited.ReviewCount, edited.AverageRating)
	}
}

func TestGetAlbumRatingsNotFound(t *testing.T) {
	h, _ := newTestHandler(t)
	rec := doRequest(h, http.MethodGet, "/albums/never-rated/ratings", "", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestMyRatingsAndStats(t *testing.T) {
	h, _ := newTestHandler(t)
	token := tokenFor(t, "user-1", "Ana")

	for _, s := range []struct {
		album, artist string
		rating        int
	}{
		{"a1", "Radiohead", 5},
		{"a2", "Big Thief", 4},
		{"a3", "Radiohead", 3},
	} {
		body := `{"albumName":"X","artistName":"` + s.artist + `","rating":` + strconv.Itoa(s.rating) + `}`
		rec := doRequest(h, http.MethodPost, "/albums/"+s.album+"/ratings", token, body)
		if rec.Code != http.StatusCreated {
			t.Fatalf("seeding %s: status = %d", s.album, rec.Code)
		}
	}

	rec := doRequest(h, http.MethodGet, "/me/ratings", token, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("my ratings status = %d", rec.Code)
	}
	var entries []albumEntryResponse
	if err := json.NewDecoder(rec.Body).Decode(&entries); err != nil {
		t.Fatalf("decoding entries: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("got %d entries, want 3", len(entries))
	}

	rec = doRequest(h, http.MethodGet, "/me/ratings/a2", token, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("point lookup status = %d", rec.Code)
	}
	var entry albumEntryResponse
	if err := json.NewDecoder(rec.Body).Decode(&entry); err != nil {
		t.Fatalf("decoding entry: %v", err)
	}
	if entry.AlbumID != "a2" || entry.Rating != 4 {
		t.Errorf("entry = %+v, want a2 rated 4", entry)
	}

	rec = doRequest(h, http.MethodGet, "/me/ratings/unrated", token, "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("unrated lookup status = %d, want 404", rec.Code)
	}

	rec = doRequest(h, http.MethodGet, "/me/stats", token, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("stats status = %d", rec.Code)
	}
	var stats userStatsResponse
	if err := json.NewDecoder(rec.Body).Decode(&stats); err != nil {
		t.Fatalf("decoding stats: %v", err)
	}
	want := userStatsResponse{TotalRatings: 3, AverageRating: 4, UniqueArtistCount: 2}
	if stats != want {
		t.Errorf("stats = %+v, want %+v", stats, want)
	}
}

func TestGetMyProfile(t *testing.T) {
	h, _ := newTestHandler(t)
	token := tokenFor(t, "user-1", "Ana")

	// A fresh caller gets an empty profile.
	rec := doRequest(h, http.MethodGet, "/me", token, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var profile userProfileResponse
	if err := json.NewDecoder(rec.Body).Decode(&profile); err != nil {
		t.Fatalf("decoding profile: %v", err)
	}
	if profile.UserID != "user-1" || len(profile.Albums) != 0 {
		t.Errorf("fresh profile = %+v", profile)
	}

	body := `{"albumName":"In Rainbows","artistName":"Radiohead","rating":5}`
	if rec := doRequest(h, http.MethodPost, "/albums/album-1/ratings", token, body); rec.Code != http.StatusCreated {
		t.Fatalf("seeding: status = %d", rec.Code)
	}

	rec = doRequest(h, http.MethodGet, "/me", token, "")
	if err := json.NewDecoder(rec.Body).Decode(&profile); err != nil {
		t.Fatalf("decoding profile: %v", err)
	}
	if profile.UserName != "Ana" || len(profile.Albums) != 1 {
		t.Errorf("profile after rating = %+v", profile)
	}
}

func TestSaveMyName(t *testing.T) {
	h, _ := newTestHandler(t)
	token := tokenFor(t, "user-1", "Ana")

	rec := doRequest(h, http.MethodPut, "/me/name", token, `{"userName":"Ana Lucia"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	rec = doRequest(h, http.MethodPut, "/me/name", token, `{"userName":""}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("empty name status = %d, want 400", rec.Code)
	}
}

func TestCatalogEndpoints(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := doRequest(h, http.MethodGet, "/albums/search?q=rainbows", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("search status = %d", rec.Code)
	}
	var results []albumResponse
	if err := json.NewDecoder(rec.Body).Decode(&results); err != nil {
		t.Fatalf("decoding search: %v", err)
	}
	if len(results) != 1 || results[0].ID != "album-1" {
		t.Errorf("search results = %+v", results)
	}

	rec = doRequest(h, http.MethodGet, "/albums/search", "", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing q status = %d, want 400", rec.Code)
	}

	rec = doRequest(h, http.MethodGet, "/albums/album-1", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("get album status = %d", rec.Code)
	}

	rec = doRequest(h, http.MethodGet, "/albums/new-releases", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("new releases status = %d", rec.Code)
	}
}

func TestGetTopAlbums(t *testing.T) {
	h, _ := newTestHandler(t)

	for _, s := range []struct {
		user, album string
		rating      int
	}{
		{"u1", "good", 5},
		{"u2", "good", 5},
		{"u1", "mid", 3},
	} {
		body := `{"albumName":"X","artistName":"Y","rating":` + strconv.Itoa(s.rating) + `}`
		rec := doRequest(h, http.MethodPost, "/albums/"+s.album+"/ratings", tokenFor(t, s.user, s.user), body)
		if rec.Code != http.StatusCreated {
			t.Fatalf("seeding: status = %d", rec.Code)
		}
	}

	rec := doRequest(h, http.MethodGet, "/albums/top?limit=1", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("top status = %d", rec.Code)
	}
	var top []albumRatingsResponse
	if err := json.NewDecoder(rec.Body).Decode(&top); err != nil {
		t.Fatalf("decoding top: %v", err)
	}
	if len(top) != 1 || top[0].AlbumID != "good" {
		t.Errorf("top = %+v, want just the 5.0 album", top)
	}

	rec = doRequest(h, http.MethodGet, "/albums/top?limit=nope", "", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad limit status = %d, want 400", rec.Code)
	}
}
