package charts

import (
	"context"
	"testing"
	"time"

	"github.com/contre95/resonate/src/features/config"
	"github.com/contre95/resonate/src/music"
)

// MockHistory is a mock implementation of music.History
type MockHistory struct {
	music.History // Embed interface to avoid implementing all methods for now, will panic if unused methods called
	lastLimit     int
	lastCutoff    int64
	artists       []music.ChartArtist
}

func (m *MockHistory) TopArtists(ctx context.Context, limit int, cutoff int64) ([]music.ChartArtist, error) {
	m.lastLimit = limit
	m.lastCutoff = cutoff
	return m.artists, nil
}

func (m *MockHistory) TopTracks(ctx context.Context, limit int, cutoff int64, artistID, albumID *int64) ([]music.ChartTrack, error) {
	m.lastLimit = limit
	m.lastCutoff = cutoff
	return nil, nil
}

func newTestService(history music.History) *Service {
	manager := config.NewManager(&config.Config{
		Charts: config.Charts{DefaultLimit: 10},
	})
	return NewService(history, manager)
}

func TestTopArtists_DefaultLimit(t *testing.T) {
	mockHistory := &MockHistory{}
	service := newTestService(mockHistory)

	_, err := service.TopArtists(context.Background(), music.PeriodOverall, 0)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if mockHistory.lastLimit != 10 {
		t.Errorf("expected default limit 10, got %d", mockHistory.lastLimit)
	}
}

func TestTopArtists_HonorsAnyPositiveLimit(t *testing.T) {
	mockHistory := &MockHistory{}
	service := newTestService(mockHistory)

	for _, limit := range []int{1, 200, 5000} {
		_, err := service.TopArtists(context.Background(), music.PeriodOverall, limit)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if mockHistory.lastLimit != limit {
			t.Errorf("expected limit %d passed through as given, got %d", limit, mockHistory.lastLimit)
		}
	}
}

func TestTopArtists_OverallHasNoCutoff(t *testing.T) {
	mockHistory := &MockHistory{}
	service := newTestService(mockHistory)

	_, err := service.TopArtists(context.Background(), music.PeriodOverall, 10)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if mockHistory.lastCutoff != 0 {
		t.Errorf("expected zero cutoff for overall, got %d", mockHistory.lastCutoff)
	}
}

func TestTopTracks_WindowedCutoff(t *testing.T) {
	mockHistory := &MockHistory{}
	service := newTestService(mockHistory)

	before := time.Now().Add(-7 * 24 * time.Hour).Unix()
	_, err := service.TopTracks(context.Background(), music.Period7Day, 10, nil, nil)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	after := time.Now().Add(-7 * 24 * time.Hour).Unix()

	if mockHistory.lastCutoff < before || mockHistory.lastCutoff > after {
		t.Errorf("expected cutoff around seven days ago, got %d", mockHistory.lastCutoff)
	}
}

func TestParsePeriod_UnknownFallsBackToOverall(t *testing.T) {
	if got := music.ParsePeriod("fortnight"); got != music.PeriodOverall {
		t.Errorf("expected overall, got %s", got)
	}
	if got := music.ParsePeriod("3month"); got != music.Period3Month {
		t.Errorf("expected 3month, got %s", got)
	}
}
