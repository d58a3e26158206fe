// Package spotify implements the catalog provider port against the
// Spotify Web API using the client-credentials flow.
package spotify

import (
	"context"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/ewilliams-labs/ratify/internal/core/ports"
)

const (
	defaultBaseURL = "https://api.spotify.com/v1"
	tokenURL       = "https://accounts.spotify.com/api/token"

	defaultMaxRetries  = 3
	defaultBaseBackoff = 500 * time.Millisecond
)

// Client is an HTTP client for the Spotify catalog.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	logger      *zap.Logger
	maxRetries  int
	baseBackoff time.Duration
}

// compile-time interface assertion
var _ ports.CatalogProvider = (*Client)(nil)

// NewClient constructs a client around an existing *http.Client, mainly for
// tests that point baseURL at a fake server.
func NewClient(httpClient *http.Client, baseURL string, logger *zap.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		httpClient:  httpClient,
		baseURL:     strings.TrimRight(baseURL, "/"),
		logger:      logger,
		maxRetries:  defaultMaxRetries,
		baseBackoff: defaultBaseBackoff,
	}
}

// NewClientCredentials constructs a client that authenticates with the
// Spotify accounts service using the client-credentials grant. The oauth2
// transport caches and refreshes the access token transparently.
func NewClientCredentials(clientID, clientSecret string, logger *zap.Logger) *Client {
	conf := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     tokenURL,
	}
	return NewClient(conf.Client(context.Background()), defaultBaseURL, logger)
}
