package music

import (
	"fmt"
	"strings"
)

// PlayEvent is one raw play as delivered by a listening-history
// source, before it has been resolved against the entity graph.
type PlayEvent struct {
	Track     string `json:"track"`
	Artist    string `json:"artist"`
	Album     string `json:"album,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

// Validate checks the fields every play event must carry. A missing
// album is fine; a missing track, artist or timestamp is not.
func (e *PlayEvent) Validate() error {
	if strings.TrimSpace(e.Track) == "" {
		return fmt.Errorf("track name cannot be empty")
	}
	if strings.TrimSpace(e.Artist) == "" {
		return fmt.Errorf("artist name cannot be empty")
	}
	if e.Timestamp <= 0 {
		return fmt.Errorf("timestamp must be a positive unix time")
	}
	return nil
}

// IngestError records why a single event of a batch was rejected.
type IngestError struct {
	Index  int    `json:"index"`
	Reason string `json:"reason"`
}

// IngestReport summarizes one ingestion batch. Duplicates are not
// errors: re-ingesting an overlapping window is the steady state.
type IngestReport struct {
	BatchID  string        `json:"batch_id"`
	Inserted int           `json:"inserted"`
	Skipped  int           `json:"skipped"`
	Errors   []IngestError `json:"errors,omitempty"`
}

// PlayDetail is one play joined with the names of its track, artist
// and (optional) album.
type PlayDetail struct {
	Track     string  `json:"track"`
	Artist    string  `json:"artist"`
	Album     *string `json:"album,omitempty"`
	Timestamp int64   `json:"timestamp"`
}
