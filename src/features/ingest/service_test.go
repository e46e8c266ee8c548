package ingest

import (
	"context"
	"errors"
	"testing"

	"github.com/contre95/resonate/src/music"
)

// MockHistory is a mock implementation of music.History
type MockHistory struct {
	music.History // Embed interface to avoid implementing all methods for now, will panic if unused methods called
	plays         map[string]map[int64]bool
	lastTimestamp int64
	failAdd       bool
}

func NewMockHistory() *MockHistory {
	return &MockHistory{plays: make(map[string]map[int64]bool)}
}

func (m *MockHistory) AddPlays(ctx context.Context, events []music.PlayEvent) (int, int, error) {
	if m.failAdd {
		return 0, 0, errors.New("database unavailable")
	}
	inserted, skipped := 0, 0
	for _, event := range events {
		key := event.Artist + "\x00" + event.Track
		if m.plays[key] == nil {
			m.plays[key] = make(map[int64]bool)
		}
		if m.plays[key][event.Timestamp] {
			skipped++
			continue
		}
		m.plays[key][event.Timestamp] = true
		inserted++
		if event.Timestamp > m.lastTimestamp {
			m.lastTimestamp = event.Timestamp
		}
	}
	return inserted, skipped, nil
}

func (m *MockHistory) LastPlayTimestamp(ctx context.Context) (int64, error) {
	return m.lastTimestamp, nil
}

func TestIngest_ValidBatch(t *testing.T) {
	mockHistory := NewMockHistory()
	service := NewService(mockHistory)
	ctx := context.Background()

	events := []music.PlayEvent{
		{Track: "Idioteque", Artist: "Radiohead", Album: "Kid A", Timestamp: 1000},
		{Track: "Idioteque", Artist: "Radiohead", Album: "Kid A", Timestamp: 2000},
	}

	report, err := service.Ingest(ctx, events, "api")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if report.BatchID == "" {
		t.Error("expected a batch id to be assigned")
	}
	if report.Inserted != 2 || report.Skipped != 0 || len(report.Errors) != 0 {
		t.Errorf("unexpected report: %+v", report)
	}
}

func TestIngest_InvalidEventsReportedByIndex(t *testing.T) {
	mockHistory := NewMockHistory()
	service := NewService(mockHistory)
	ctx := context.Background()

	events := []music.PlayEvent{
		{Track: "Valid", Artist: "Someone", Timestamp: 1000},
		{Track: "", Artist: "Someone", Timestamp: 2000},
		{Track: "No Timestamp", Artist: "Someone"},
	}

	report, err := service.Ingest(ctx, events, "api")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if report.Inserted != 1 {
		t.Errorf("expected 1 inserted, got %d", report.Inserted)
	}
	if len(report.Errors) != 2 {
		t.Fatalf("expected 2 errors, got %+v", report.Errors)
	}
	if report.Errors[0].Index != 1 || report.Errors[1].Index != 2 {
		t.Errorf("expected errors at indexes 1 and 2, got %+v", report.Errors)
	}
}

func TestIngest_DuplicatesAreSkippedNotErrors(t *testing.T) {
	mockHistory := NewMockHistory()
	service := NewService(mockHistory)
	ctx := context.Background()

	events := []music.PlayEvent{
		{Track: "Song", Artist: "Artist", Timestamp: 1000},
	}
	if _, err := service.Ingest(ctx, events, "api"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	report, err := service.Ingest(ctx, events, "api")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if report.Inserted != 0 || report.Skipped != 1 || len(report.Errors) != 0 {
		t.Errorf("unexpected report on re-ingest: %+v", report)
	}
}

func TestIngest_EmptyBatch(t *testing.T) {
	mockHistory := NewMockHistory()
	service := NewService(mockHistory)

	report, err := service.Ingest(context.Background(), nil, "api")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if report.Inserted != 0 || report.Skipped != 0 || len(report.Errors) != 0 {
		t.Errorf("unexpected report for empty batch: %+v", report)
	}
}

func TestIngest_StoreFailure(t *testing.T) {
	mockHistory := NewMockHistory()
	mockHistory.failAdd = true
	service := NewService(mockHistory)

	events := []music.PlayEvent{
		{Track: "Song", Artist: "Artist", Timestamp: 1000},
	}
	_, err := service.Ingest(context.Background(), events, "api")
	if err == nil {
		t.Fatal("expected an error when the store fails")
	}
}

func TestLastTimestamp(t *testing.T) {
	mockHistory := NewMockHistory()
	service := NewService(mockHistory)
	ctx := context.Background()

	events := []music.PlayEvent{
		{Track: "Song", Artist: "Artist", Timestamp: 5000},
		{Track: "Song", Artist: "Artist", Timestamp: 3000},
	}
	if _, err := service.Ingest(ctx, events, "api"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	ts, err := service.LastTimestamp(ctx)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if ts != 5000 {
		t.Errorf("expected last timestamp 5000, got %d", ts)
	}
}
