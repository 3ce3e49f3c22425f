package snapshot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

// Sink persists a finished Snapshot.
type Sink interface {
	Name() string
	Save(ctx context.Context, snap Snapshot) error
}

// Service runs a refresh cycle: aggregate once, then hand the result to every sink.
type Service struct {
	aggregator *Aggregator
	sinks      []Sink
	logger     *slog.Logger
}

// NewService creates a new Service.
func NewService(aggregator *Aggregator, sinks []Sink, logger *slog.Logger) *Service {
	return &Service{
		aggregator: aggregator,
		sinks:      sinks,
		logger:     resolveLogger(logger),
	}
}

// FetchAndStore builds a fresh Snapshot and persists it. Only sink failures
// are reported; source failures have already been replaced by fallbacks.
func (s *Service) FetchAndStore(ctx context.Context) (Snapshot, error) {
	runID := uuid.New().String()
	logger := s.logger.With("run_id", runID)

	if len(s.sinks) == 0 {
		return Snapshot{}, errors.New("no snapshot sinks configured")
	}

	agg := *s.aggregator
	agg.logger = logger
	snap, report := agg.Build(ctx)

	logger.Info("snapshot assembled",
		"sources", len(report),
		"fallbacks", report.Fallbacks(),
		"last_updated", snap.LastUpdated,
	)

	var errs []error
	for _, sink := range s.sinks {
		if err := sink.Save(ctx, snap); err != nil {
			logger.Error("sink save failed", "sink", sink.Name(), "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", sink.Name(), err))
			continue
		}
		logger.Info("snapshot saved", "sink", sink.Name())
	}

	return snap, errors.Join(errs...)
}
