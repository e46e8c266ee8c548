package music

import (
	"fmt"
	"strings"
	"time"
)

// Album represents a release by a single artist. Identity is the
// (name, artist) pair; the same title under another artist is a
// different album.
type Album struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	ArtistID int64  `json:"artist_id"`
	// Enrichment metadata attached by external catalog jobs
	SpotifyURI  string     `json:"spotify_uri,omitempty"`
	ReleaseDate string     `json:"release_date,omitempty"`
	ImageURL    string     `json:"image_url,omitempty"`
	LastFetched *time.Time `json:"last_fetched,omitempty"`
}

// Validate validates the album fields.
func (a *Album) Validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return fmt.Errorf("album name cannot be empty")
	}
	if len(a.Name) > 500 {
		return fmt.Errorf("album name cannot exceed 500 characters")
	}
	if a.ArtistID <= 0 {
		return fmt.Errorf("album must belong to an artist")
	}
	return nil
}
