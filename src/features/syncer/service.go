package syncer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/contre95/resonate/src/features/config"
	"github.com/contre95/resonate/src/features/metrics"
	"github.com/contre95/resonate/src/infra/watcher"
	"github.com/contre95/resonate/src/music"
)

// Source fetches scrobbles from an external listening service.
type Source interface {
	RecentTracks(ctx context.Context, from int64) ([]music.PlayEvent, error)
}

// Ingester stores play event batches.
type Ingester interface {
	Ingest(ctx context.Context, events []music.PlayEvent, source string) (*music.IngestReport, error)
	LastTimestamp(ctx context.Context) (int64, error)
}

// Service is the domain service for the syncer feature. It pulls new
// scrobbles from last.fm on a timer and imports history dump files
// dropped into the watch directory.
type Service struct {
	source        Source
	ingester      Ingester
	configManager *config.Manager

	mu         sync.RWMutex
	running    bool
	stopChan   chan struct{}
	lastRun    *time.Time
	lastReport *music.IngestReport
}

// NewService creates a new syncer service.
func NewService(source Source, ingester Ingester, cfgManager *config.Manager) *Service {
	return &Service{
		source:        source,
		ingester:      ingester,
		configManager: cfgManager,
	}
}

// Start launches the periodic sync loop. It is a no-op when last.fm
// syncing is disabled in the configuration.
func (s *Service) Start(ctx context.Context) {
	cfg := s.configManager.Get().Lastfm
	if !cfg.Enabled {
		slog.Info("Last.fm sync disabled, not starting syncer")
		return
	}

	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.stopChan = make(chan struct{})
	s.mu.Unlock()

	interval := time.Duration(cfg.SyncInterval) * time.Minute
	slog.Info("Starting last.fm syncer", "user", cfg.User, "interval", interval)

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		// First pull right away so a fresh install fills up without
		// waiting a full interval.
		if _, err := s.RunOnce(ctx); err != nil {
			slog.Error("Initial sync failed", "error", err)
		}

		for {
			select {
			case <-ticker.C:
				if _, err := s.RunOnce(ctx); err != nil {
					slog.Error("Scheduled sync failed", "error", err)
				}
			case <-s.stopChan:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop halts the periodic sync loop.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	slog.Info("Stopping last.fm syncer")
	s.running = false
	close(s.stopChan)
}

// RunOnce pulls every scrobble newer than the stored history and
// ingests it as one batch.
func (s *Service) RunOnce(ctx context.Context) (*music.IngestReport, error) {
	last, err := s.ingester.LastTimestamp(ctx)
	if err != nil {
		metrics.SyncRuns.WithLabelValues("error").Inc()
		return nil, err
	}

	// from is exclusive of the newest stored play; re-delivered plays
	// would be skipped anyway, this just saves bandwidth.
	from := int64(0)
	if last > 0 {
		from = last + 1
	}

	events, err := s.source.RecentTracks(ctx, from)
	if err != nil {
		metrics.SyncRuns.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("fetching recent tracks: %w", err)
	}

	report, err := s.ingester.Ingest(ctx, events, "lastfm")
	if err != nil {
		metrics.SyncRuns.WithLabelValues("error").Inc()
		return nil, err
	}

	now := time.Now()
	s.mu.Lock()
	s.lastRun = &now
	s.lastReport = report
	s.mu.Unlock()

	metrics.SyncRuns.WithLabelValues("ok").Inc()
	slog.Info("Sync run completed", "fetched", len(events), "inserted", report.Inserted, "skipped", report.Skipped)
	return report, nil
}

// Status describes the syncer's last activity.
type Status struct {
	Running    bool                `json:"running"`
	LastRun    *time.Time          `json:"last_run,omitempty"`
	LastReport *music.IngestReport `json:"last_report,omitempty"`
}

// Status returns the syncer's current state.
func (s *Service) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Status{
		Running:    s.running,
		LastRun:    s.lastRun,
		LastReport: s.lastReport,
	}
}

// spotifyEntry is one record of a Spotify extended streaming history
// export. Podcast episodes carry empty track metadata.
type spotifyEntry struct {
	Ts     string `json:"ts"`
	Track  string `json:"master_metadata_track_name"`
	Artist string `json:"master_metadata_album_artist_name"`
	Album  string `json:"master_metadata_album_album_name"`
}

// ImportFile ingests a JSON history dump. Both Spotify extended
// streaming exports and plain play-event arrays are recognized.
func (s *Service) ImportFile(ctx context.Context, path string) (*music.IngestReport, error) {
	slog.Info("Importing history file", "path", path)

	data, err := os.ReadFile(path)
	if err != nil {
		metrics.ImportFiles.WithLabelValues("error").Inc()
		return nil, err
	}

	events, err := parseHistoryDump(data)
	if err != nil {
		metrics.ImportFiles.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	report, err := s.ingester.Ingest(ctx, events, "import")
	if err != nil {
		metrics.ImportFiles.WithLabelValues("error").Inc()
		return nil, err
	}

	metrics.ImportFiles.WithLabelValues("ok").Inc()
	slog.Info("History file imported", "path", path, "inserted", report.Inserted, "skipped", report.Skipped)
	return report, nil
}

func parseHistoryDump(data []byte) ([]music.PlayEvent, error) {
	var spotify []spotifyEntry
	if err := json.Unmarshal(data, &spotify); err != nil {
		return nil, err
	}

	if isSpotifyExport(spotify) {
		events := make([]music.PlayEvent, 0, len(spotify))
		for _, entry := range spotify {
			if entry.Track == "" || entry.Artist == "" {
				continue
			}
			when, err := time.Parse(time.RFC3339, entry.Ts)
			if err != nil {
				continue
			}
			events = append(events, music.PlayEvent{
				Track:     entry.Track,
				Artist:    entry.Artist,
				Album:     entry.Album,
				Timestamp: when.Unix(),
			})
		}
		return events, nil
	}

	var events []music.PlayEvent
	if err := json.Unmarshal(data, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// isSpotifyExport reports whether any record carries the Spotify
// export's timestamp field.
func isSpotifyExport(entries []spotifyEntry) bool {
	for _, entry := range entries {
		if entry.Ts != "" {
			return true
		}
	}
	return false
}

// WatchImports consumes watcher events and imports each announced
// file. It returns when the channel closes or the context ends.
func (s *Service) WatchImports(ctx context.Context, events <-chan watcher.FileEvent) {
	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			if _, err := s.ImportFile(ctx, event.Path); err != nil {
				slog.Error("Failed to import history file", "path", event.Path, "error", err)
			}
		case <-ctx.Done():
			return
		}
	}
}
