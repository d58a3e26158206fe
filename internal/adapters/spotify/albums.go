package spotify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"

	"go.uber.org/zap"

	"github.com/ewilliams-labs/ratify/internal/core/domain"
)

const (
	searchLimit      = 10
	newReleasesLimit = 20
)

// SearchAlbums queries the catalog for albums matching the free-text query
// and returns them ranked by similarity to the query, best match first.
func (c *Client) SearchAlbums(ctx context.Context, query string) ([]domain.Album, error) {
	searchURL, err := url.Parse(fmt.Sprintf("%s/search", c.baseURL))
	if err != nil {
		return nil, fmt.Errorf("spotify adapter: invalid search url: %w", err)
	}

	q := searchURL.Query()
	q.Set("q", query)
	q.Set("type", "album")
	q.Set("limit", fmt.Sprintf("%d", searchLimit))
	searchURL.RawQuery = q.Encode()

	c.logger.Debug("spotify adapter: album search", zap.String("url", searchURL.String()))

	var body struct {
		Albums albumPage `json:"albums"`
	}
	if err := c.getJSON(ctx, searchURL.String(), &body); err != nil {
		return nil, fmt.Errorf("spotify adapter: album search failed: %w", err)
	}

	items := rankByQuery(query, body.Albums.Items)
	return mapAlbumsToDomain(items), nil
}

// GetAlbum fetches one album by its Spotify id.
func (c *Client) GetAlbum(ctx context.Context, albumID string) (domain.Album, error) {
	var sa spotifyAlbum
	if err := c.getJSON(ctx, fmt.Sprintf("%s/albums/%s", c.baseURL, url.PathEscape(albumID)), &sa); err != nil {
		return domain.Album{}, fmt.Errorf("spotify adapter: failed to fetch album %s: %w", albumID, err)
	}
	return mapAlbumToDomain(sa), nil
}

// GetNewReleases fetches the newest albums from the browse endpoint.
func (c *Client) GetNewReleases(ctx context.Context) ([]domain.Album, error) {
	var body struct {
		Albums albumPage `json:"albums"`
	}
	u := fmt.Sprintf("%s/browse/new-releases?limit=%d", c.baseURL, newReleasesLimit)
	if err := c.getJSON(ctx, u, &body); err != nil {
		return nil, fmt.Errorf("spotify adapter: failed to fetch new releases: %w", err)
	}
	return mapAlbumsToDomain(body.Albums.Items), nil
}

// getJSON issues a GET with retry and decodes the JSON response into out.
func (c *Client) getJSON(ctx context.Context, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.doRequestWithRetry(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode error: %w", err)
	}
	return nil
}

// rankByQuery orders search results by similarity between the query and
// each album's "artist name" text. Spotify's own order breaks ties.
func rankByQuery(query string, items []spotifyAlbum) []spotifyAlbum {
	ranked := make([]spotifyAlbum, len(items))
	copy(ranked, items)
	sort.SliceStable(ranked, func(i, j int) bool {
		return scoreAlbum(query, ranked[i]) > scoreAlbum(query, ranked[j])
	})
	return ranked
}
