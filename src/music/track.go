package music

import (
	"fmt"
	"strings"
)

// Track represents a single playable recording. Identity is the
// (name, artist, album-or-none) triple: a track without an album and
// a track with one are distinct entities even when name and artist
// match.
type Track struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	ArtistID int64  `json:"artist_id"`
	AlbumID  *int64 `json:"album_id,omitempty"`
	// Enrichment metadata attached by external catalog jobs
	SpotifyURI string `json:"spotify_uri,omitempty"`
	DurationMS int64  `json:"duration_ms,omitempty"`
}

// Validate validates the track fields.
func (t *Track) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("track name cannot be empty")
	}
	if len(t.Name) > 500 {
		return fmt.Errorf("track name cannot exceed 500 characters")
	}
	if t.ArtistID <= 0 {
		return fmt.Errorf("track must belong to an artist")
	}
	if t.AlbumID != nil && *t.AlbumID <= 0 {
		return fmt.Errorf("track album id must be positive when set")
	}
	return nil
}
