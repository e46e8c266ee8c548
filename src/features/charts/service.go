package charts

import (
	"context"
	"log/slog"
	"time"

	"github.com/contre95/resonate/src/features/config"
	"github.com/contre95/resonate/src/music"
)

// Service is the domain service for the charts feature. It turns
// period names into timestamp cutoffs and fills in default limits
// before asking the history for ranked rows.
type Service struct {
	history       music.History
	configManager *config.Manager
}

// NewService creates a new charts service.
func NewService(history music.History, cfgManager *config.Manager) *Service {
	return &Service{
		history:       history,
		configManager: cfgManager,
	}
}

// normalizeLimit substitutes the configured default for a missing or
// non-positive limit. Any positive limit is honored as given.
func (s *Service) normalizeLimit(limit int) int {
	if limit <= 0 {
		return s.configManager.Get().Charts.DefaultLimit
	}
	return limit
}

// TopArtists returns the most played artists within the period.
func (s *Service) TopArtists(ctx context.Context, period music.Period, limit int) ([]music.ChartArtist, error) {
	slog.Debug("TopArtists service called", "period", period, "limit", limit)
	return s.history.TopArtists(ctx, s.normalizeLimit(limit), period.CutoffUnix(time.Now()))
}

// TopTracks returns the most played tracks within the period,
// optionally scoped to one artist or album.
func (s *Service) TopTracks(ctx context.Context, period music.Period, limit int, artistID, albumID *int64) ([]music.ChartTrack, error) {
	slog.Debug("TopTracks service called", "period", period, "limit", limit)
	return s.history.TopTracks(ctx, s.normalizeLimit(limit), period.CutoffUnix(time.Now()), artistID, albumID)
}

// TopAlbums returns the most played albums within the period,
// optionally scoped to one artist.
func (s *Service) TopAlbums(ctx context.Context, period music.Period, limit int, artistID *int64) ([]music.ChartAlbum, error) {
	slog.Debug("TopAlbums service called", "period", period, "limit", limit)
	return s.history.TopAlbums(ctx, s.normalizeLimit(limit), period.CutoffUnix(time.Now()), artistID)
}

// RecentPlays returns the newest plays of the whole history.
func (s *Service) RecentPlays(ctx context.Context, limit int) ([]music.PlayDetail, error) {
	slog.Debug("RecentPlays service called", "limit", limit)
	return s.history.RecentPlays(ctx, s.normalizeLimit(limit))
}

// EntityRecentPlays returns the newest plays of one artist or album.
func (s *Service) EntityRecentPlays(ctx context.Context, kind music.EntityKind, id int64, limit int) ([]music.PlayDetail, error) {
	slog.Debug("EntityRecentPlays service called", "kind", kind, "id", id, "limit", limit)
	return s.history.EntityRecentPlays(ctx, kind, id, s.normalizeLimit(limit))
}

// UniqueCounts returns the distinct artist/album/track/play totals.
func (s *Service) UniqueCounts(ctx context.Context) (*music.LibraryCounts, error) {
	slog.Debug("UniqueCounts service called")
	return s.history.UniqueCounts(ctx)
}

// DailyPlays returns the per-day play series for the last N days.
func (s *Service) DailyPlays(ctx context.Context, days int) ([]music.DayCount, error) {
	if days <= 0 {
		days = 90
	}
	slog.Debug("DailyPlays service called", "days", days)
	return s.history.DailyPlays(ctx, days)
}

// ArtistDailyPlays returns the per-day play series of one artist.
func (s *Service) ArtistDailyPlays(ctx context.Context, artistID int64, days int) ([]music.DayCount, error) {
	if days <= 0 {
		days = 90
	}
	slog.Debug("ArtistDailyPlays service called", "artistID", artistID, "days", days)
	return s.history.ArtistDailyPlays(ctx, artistID, days)
}
