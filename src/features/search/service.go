package search

import (
	"context"
	"log/slog"
	"strings"

	"github.com/contre95/resonate/src/music"
)

// Each result bucket is capped so a one-letter query stays cheap.
const maxResults = 10

// Service is the domain service for the search feature. A query runs
// against artist, track and album names; artist matches then pull in
// that artist's own tracks and albums, so searching a band name also
// surfaces its catalog.
type Service struct {
	history music.History
}

// NewService creates a new search service.
func NewService(history music.History) *Service {
	return &Service{history: history}
}

// Results holds the three result buckets of one search.
type Results struct {
	Artists []music.SearchResult `json:"artists"`
	Tracks  []music.SearchResult `json:"tracks"`
	Albums  []music.SearchResult `json:"albums"`
}

// Search runs the substring query across all three entity kinds.
func (s *Service) Search(ctx context.Context, query string) (*Results, error) {
	query = strings.TrimSpace(query)
	slog.Debug("Search service called", "query", query)

	results := &Results{
		Artists: []music.SearchResult{},
		Tracks:  []music.SearchResult{},
		Albums:  []music.SearchResult{},
	}
	if query == "" {
		return results, nil
	}

	artists, err := s.history.SearchArtists(ctx, query, maxResults)
	if err != nil {
		return nil, err
	}
	results.Artists = artists

	tracks, err := s.history.SearchTracks(ctx, query, maxResults, nil)
	if err != nil {
		return nil, err
	}
	albums, err := s.history.SearchAlbums(ctx, query, maxResults, nil)
	if err != nil {
		return nil, err
	}

	trackSet := newResultSet(tracks)
	albumSet := newResultSet(albums)

	// Second hop: the catalog of every matched artist.
	for _, artist := range artists {
		if trackSet.full() && albumSet.full() {
			break
		}
		if !trackSet.full() {
			artistTracks, err := s.history.SearchTracks(ctx, query, maxResults, &artist.ID)
			if err != nil {
				return nil, err
			}
			trackSet.add(artistTracks)
		}
		if !albumSet.full() {
			artistAlbums, err := s.history.SearchAlbums(ctx, query, maxResults, &artist.ID)
			if err != nil {
				return nil, err
			}
			albumSet.add(artistAlbums)
		}
	}

	results.Tracks = trackSet.items
	results.Albums = albumSet.items
	return results, nil
}

// resultSet accumulates results in order, deduplicated by id and
// capped at maxResults.
type resultSet struct {
	items []music.SearchResult
	seen  map[int64]bool
}

func newResultSet(initial []music.SearchResult) *resultSet {
	set := &resultSet{items: []music.SearchResult{}, seen: map[int64]bool{}}
	set.add(initial)
	return set
}

func (r *resultSet) add(results []music.SearchResult) {
	for _, result := range results {
		if r.full() {
			return
		}
		if r.seen[result.ID] {
			continue
		}
		r.seen[result.ID] = true
		r.items = append(r.items, result)
	}
}

func (r *resultSet) full() bool {
	return len(r.items) >= maxResults
}
