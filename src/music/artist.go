package music

import (
	"fmt"
	"strings"
	"time"
)

// Artist represents a music artist in the listening history.
type Artist struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	// Enrichment metadata attached by external catalog jobs
	SpotifyURI  string     `json:"spotify_uri,omitempty"`
	Genres      string     `json:"genres,omitempty"`
	ImageURL    string     `json:"image_url,omitempty"`
	LastFetched *time.Time `json:"last_fetched,omitempty"`
}

// Validate validates the artist fields.
func (a *Artist) Validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return fmt.Errorf("artist name cannot be empty")
	}
	if len(a.Name) > 500 {
		return fmt.Errorf("artist name cannot exceed 500 characters")
	}
	return nil
}
