package stats

import (
	"context"
	"log/slog"
	"math"
	"time"

	"github.com/contre95/resonate/src/music"
)

// Milestone thresholds, matching the classic scrobble count badges.
var milestoneThresholds = []int64{1, 100, 500, 1000, 5000}

// Service is the domain service for the stats feature. It assembles
// per-entity listening statistics from the history's primitives.
type Service struct {
	history music.History
}

// NewService creates a new stats service.
func NewService(history music.History) *Service {
	return &Service{history: history}
}

// EntityStats is the full statistics document of one artist or album.
type EntityStats struct {
	ID         int64            `json:"id"`
	Name       string           `json:"name"`
	Kind       music.EntityKind `json:"kind"`
	TotalPlays int64            `json:"total_plays"`
	FirstPlay  *int64           `json:"first_play,omitempty"`
	LastPlay   *int64           `json:"last_play,omitempty"`
	// PercentOfAll is this entity's share of every play in the
	// history, rounded to two decimals. Nil when the entity itself
	// or the whole history has no plays.
	PercentOfAll  *float64           `json:"percent_of_all,omitempty"`
	TopDay        *music.BucketCount `json:"top_day,omitempty"`
	TopMonth      *music.BucketCount `json:"top_month,omitempty"`
	TopYear       *music.BucketCount `json:"top_year,omitempty"`
	LongestStreak int                `json:"longest_streak_days"`
	// Rank is 1-based among all peers of the same kind, nil for an
	// entity that was never played.
	Rank       *int  `json:"rank,omitempty"`
	TotalPeers int   `json:"total_peers"`
}

// Milestone is the play that crossed a scrobble-count threshold.
type Milestone struct {
	Threshold int64            `json:"threshold"`
	Play      music.PlayDetail `json:"play"`
}

// GetArtist returns one artist, or music.ErrNotFound.
func (s *Service) GetArtist(ctx context.Context, id int64) (*music.Artist, error) {
	return s.history.GetArtist(ctx, id)
}

// GetAlbum returns one album, or music.ErrNotFound.
func (s *Service) GetAlbum(ctx context.Context, id int64) (*music.Album, error) {
	return s.history.GetAlbum(ctx, id)
}

// AllArtists returns every artist with its total playcount.
func (s *Service) AllArtists(ctx context.Context) ([]music.EntityPlaycount, error) {
	return s.history.PlaycountsByKind(ctx, music.KindArtist)
}

// EntityStats builds the statistics document of one entity. The
// entity must exist; an id that matches nothing returns
// music.ErrNotFound.
func (s *Service) EntityStats(ctx context.Context, kind music.EntityKind, id int64) (*EntityStats, error) {
	slog.Debug("EntityStats service called", "kind", kind, "id", id)

	name, err := s.entityName(ctx, kind, id)
	if err != nil {
		return nil, err
	}

	summary, err := s.history.PlaySummary(ctx, kind, id)
	if err != nil {
		return nil, err
	}

	stats := &EntityStats{
		ID:         id,
		Name:       name,
		Kind:       kind,
		TotalPlays: summary.Total,
		FirstPlay:  summary.First,
		LastPlay:   summary.Last,
	}

	if kind == music.KindArtist && summary.Total > 0 {
		globalTotal, err := s.history.TotalPlays(ctx)
		if err != nil {
			return nil, err
		}
		if globalTotal > 0 {
			percent := math.Round(float64(summary.Total)/float64(globalTotal)*10000) / 100
			stats.PercentOfAll = &percent
		}
	}

	if stats.TopDay, err = s.history.TopBucket(ctx, kind, id, music.BucketDay); err != nil {
		return nil, err
	}
	if kind == music.KindArtist {
		if stats.TopMonth, err = s.history.TopBucket(ctx, kind, id, music.BucketMonth); err != nil {
			return nil, err
		}
	}
	if stats.TopYear, err = s.history.TopBucket(ctx, kind, id, music.BucketYear); err != nil {
		return nil, err
	}

	if kind == music.KindArtist {
		dates, err := s.history.PlayDates(ctx, kind, id)
		if err != nil {
			return nil, err
		}
		stats.LongestStreak = longestStreak(dates)
	}

	peers, err := s.history.PlaycountsByKind(ctx, kind)
	if err != nil {
		return nil, err
	}
	stats.TotalPeers = len(peers)
	if summary.Total > 0 {
		// Position under playcount DESC, id ASC: a tied peer with a
		// smaller id ranks ahead.
		rank := 1
		for _, peer := range peers {
			if peer.ID == id {
				continue
			}
			if peer.Playcount > summary.Total || (peer.Playcount == summary.Total && peer.ID < id) {
				rank++
			}
		}
		stats.Rank = &rank
	}

	return stats, nil
}

// Milestones returns the plays that crossed each reached threshold.
// Unreached thresholds are simply absent.
func (s *Service) Milestones(ctx context.Context, kind music.EntityKind, id int64) ([]Milestone, error) {
	slog.Debug("Milestones service called", "kind", kind, "id", id)

	if _, err := s.entityName(ctx, kind, id); err != nil {
		return nil, err
	}

	summary, err := s.history.PlaySummary(ctx, kind, id)
	if err != nil {
		return nil, err
	}

	milestones := []Milestone{}
	for _, threshold := range milestoneThresholds {
		if threshold > summary.Total {
			break
		}
		play, err := s.history.NthPlay(ctx, kind, id, threshold)
		if err != nil {
			return nil, err
		}
		milestones = append(milestones, Milestone{Threshold: threshold, Play: *play})
	}
	return milestones, nil
}

func (s *Service) entityName(ctx context.Context, kind music.EntityKind, id int64) (string, error) {
	if kind == music.KindAlbum {
		album, err := s.history.GetAlbum(ctx, id)
		if err != nil {
			return "", err
		}
		return album.Name, nil
	}
	artist, err := s.history.GetArtist(ctx, id)
	if err != nil {
		return "", err
	}
	return artist.Name, nil
}

// longestStreak returns the longest run of consecutive days in an
// ascending list of distinct "YYYY-MM-DD" dates.
func longestStreak(dates []string) int {
	if len(dates) == 0 {
		return 0
	}

	longest, current := 1, 1
	prev, err := time.Parse("2006-01-02", dates[0])
	if err != nil {
		return 0
	}
	for _, date := range dates[1:] {
		day, err := time.Parse("2006-01-02", date)
		if err != nil {
			return 0
		}
		if day.Sub(prev) == 24*time.Hour {
			current++
		} else {
			current = 1
		}
		if current > longest {
			longest = current
		}
		prev = day
	}
	return longest
}
