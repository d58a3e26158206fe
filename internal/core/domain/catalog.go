package domain

// Album represents catalog metadata from the external music provider.
// The core treats all identifiers and URLs as opaque strings.
type Album struct {
	ID          string
	Name        string
	Artist      string
	ImageURL    string
	ReleaseDate string
	TotalTracks int
}
