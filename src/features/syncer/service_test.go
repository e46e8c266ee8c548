package syncer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/contre95/resonate/src/features/config"
	"github.com/contre95/resonate/src/music"
)

// MockSource returns a canned batch and records the from parameter.
type MockSource struct {
	events   []music.PlayEvent
	err      error
	lastFrom int64
}

func (m *MockSource) RecentTracks(ctx context.Context, from int64) ([]music.PlayEvent, error) {
	m.lastFrom = from
	if m.err != nil {
		return nil, m.err
	}
	return m.events, nil
}

// MockIngester records each batch handed to it.
type MockIngester struct {
	last       int64
	lastSource string
	lastEvents []music.PlayEvent
	err        error
}

func (m *MockIngester) Ingest(ctx context.Context, events []music.PlayEvent, source string) (*music.IngestReport, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.lastSource = source
	m.lastEvents = events
	return &music.IngestReport{Inserted: len(events)}, nil
}

func (m *MockIngester) LastTimestamp(ctx context.Context) (int64, error) {
	return m.last, nil
}

func newTestService(source *MockSource, ingester *MockIngester) *Service {
	manager := config.NewManager(&config.Config{})
	return NewService(source, ingester, manager)
}

func TestRunOnce_StartsAfterNewestStoredPlay(t *testing.T) {
	source := &MockSource{events: []music.PlayEvent{
		{Track: "Reckoner", Artist: "Radiohead", Timestamp: 1700000100},
	}}
	ingester := &MockIngester{last: 1700000000}
	service := newTestService(source, ingester)

	report, err := service.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("RunOnce failed: %v", err)
	}

	if source.lastFrom != 1700000001 {
		t.Errorf("Expected from=1700000001, got %d", source.lastFrom)
	}
	if ingester.lastSource != "lastfm" {
		t.Errorf("Expected source lastfm, got %q", ingester.lastSource)
	}
	if report.Inserted != 1 {
		t.Errorf("Expected 1 inserted, got %d", report.Inserted)
	}
}

func TestRunOnce_EmptyHistoryFetchesEverything(t *testing.T) {
	source := &MockSource{}
	service := newTestService(source, &MockIngester{last: 0})

	if _, err := service.RunOnce(context.Background()); err != nil {
		t.Fatalf("RunOnce failed: %v", err)
	}
	if source.lastFrom != 0 {
		t.Errorf("Expected from=0 on empty history, got %d", source.lastFrom)
	}
}

func TestRunOnce_SourceErrorPropagates(t *testing.T) {
	source := &MockSource{err: errors.New("api down")}
	service := newTestService(source, &MockIngester{})

	if _, err := service.RunOnce(context.Background()); err == nil {
		t.Error("Expected error when the source fails")
	}
}

func TestRunOnce_UpdatesStatus(t *testing.T) {
	service := newTestService(&MockSource{}, &MockIngester{})

	if service.Status().LastRun != nil {
		t.Error("Expected no last run before the first sync")
	}
	if _, err := service.RunOnce(context.Background()); err != nil {
		t.Fatalf("RunOnce failed: %v", err)
	}
	status := service.Status()
	if status.LastRun == nil || status.LastReport == nil {
		t.Error("Expected status to record the completed run")
	}
}

func TestParseHistoryDump_SpotifyExport(t *testing.T) {
	dump := []byte(`[
		{"ts":"2023-04-12T10:00:00Z","master_metadata_track_name":"Nude","master_metadata_album_artist_name":"Radiohead","master_metadata_album_album_name":"In Rainbows"},
		{"ts":"2023-04-12T11:00:00Z","master_metadata_track_name":null,"master_metadata_album_artist_name":null,"master_metadata_album_album_name":null},
		{"ts":"not-a-date","master_metadata_track_name":"Videotape","master_metadata_album_artist_name":"Radiohead","master_metadata_album_album_name":"In Rainbows"}
	]`)

	events, err := parseHistoryDump(dump)
	if err != nil {
		t.Fatalf("parseHistoryDump failed: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("Expected 1 event (podcast and bad date skipped), got %d", len(events))
	}
	if events[0].Track != "Nude" || events[0].Artist != "Radiohead" || events[0].Album != "In Rainbows" {
		t.Errorf("Unexpected event: %+v", events[0])
	}
	if events[0].Timestamp != 1681293600 {
		t.Errorf("Expected timestamp 1681293600, got %d", events[0].Timestamp)
	}
}

func TestParseHistoryDump_PlainEvents(t *testing.T) {
	dump := []byte(`[{"track":"Reckoner","artist":"Radiohead","album":"In Rainbows","timestamp":1700000000}]`)

	events, err := parseHistoryDump(dump)
	if err != nil {
		t.Fatalf("parseHistoryDump failed: %v", err)
	}
	if len(events) != 1 || events[0].Track != "Reckoner" || events[0].Timestamp != 1700000000 {
		t.Errorf("Unexpected events: %+v", events)
	}
}

func TestImportFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "history.json")
	content := `[{"track":"Reckoner","artist":"Radiohead","album":"In Rainbows","timestamp":1700000000}]`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write fixture: %v", err)
	}

	ingester := &MockIngester{}
	service := newTestService(&MockSource{}, ingester)

	report, err := service.ImportFile(context.Background(), path)
	if err != nil {
		t.Fatalf("ImportFile failed: %v", err)
	}
	if report.Inserted != 1 {
		t.Errorf("Expected 1 inserted, got %d", report.Inserted)
	}
	if ingester.lastSource != "import" {
		t.Errorf("Expected source import, got %q", ingester.lastSource)
	}
}

func TestImportFile_MalformedJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatalf("Failed to write fixture: %v", err)
	}

	service := newTestService(&MockSource{}, &MockIngester{})
	if _, err := service.ImportFile(context.Background(), path); err == nil {
		t.Error("Expected error for malformed JSON")
	}
}
