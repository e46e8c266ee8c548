package ingest

import (
	"context"
	"log/slog"

	"github.com/contre95/resonate/src/features/metrics"
	"github.com/contre95/resonate/src/music"
	"github.com/google/uuid"
)

// Service is the domain service for the ingest feature. It validates
// raw play events and commits the survivors as one atomic batch.
type Service struct {
	history music.History
}

// NewService creates a new ingest service.
func NewService(history music.History) *Service {
	return &Service{history: history}
}

// Ingest processes one batch of play events from the given source.
// Invalid events are reported per-index and excluded; valid events are
// stored in a single transaction so a re-sent batch either lands whole
// or not at all.
func (s *Service) Ingest(ctx context.Context, events []music.PlayEvent, source string) (*music.IngestReport, error) {
	report := &music.IngestReport{BatchID: uuid.New().String()}

	valid := make([]music.PlayEvent, 0, len(events))
	for i, event := range events {
		if err := event.Validate(); err != nil {
			report.Errors = append(report.Errors, music.IngestError{Index: i, Reason: err.Error()})
			metrics.EventsRejected.WithLabelValues(source).Inc()
			continue
		}
		valid = append(valid, event)
	}

	if len(valid) > 0 {
		inserted, skipped, err := s.history.AddPlays(ctx, valid)
		if err != nil {
			slog.Error("Ingest: batch failed", "batchID", report.BatchID, "source", source, "error", err)
			metrics.IngestBatches.WithLabelValues(source, "error").Inc()
			return nil, err
		}
		report.Inserted = inserted
		report.Skipped = skipped
	}

	metrics.IngestBatches.WithLabelValues(source, "ok").Inc()
	metrics.PlaysIngested.WithLabelValues(source).Add(float64(report.Inserted))
	metrics.PlaysSkipped.WithLabelValues(source).Add(float64(report.Skipped))

	slog.Info("Ingest: batch processed",
		"batchID", report.BatchID,
		"source", source,
		"events", len(events),
		"inserted", report.Inserted,
		"skipped", report.Skipped,
		"rejected", len(report.Errors),
	)
	return report, nil
}

// LastTimestamp returns the newest play timestamp in the history, or 0
// when nothing has been ingested yet.
func (s *Service) LastTimestamp(ctx context.Context) (int64, error) {
	return s.history.LastPlayTimestamp(ctx)
}
