package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/i474232898/city-snapshot/internal/snapshot"
)

// Refresher is the job the scheduler runs.
type Refresher interface {
	FetchAndStore(ctx context.Context) (snapshot.Snapshot, error)
}

// Scheduler periodically refreshes the snapshot document.
type Scheduler struct {
	scheduler  *gocron.Scheduler
	refresher  Refresher
	interval   time.Duration
	runTimeout time.Duration
	logger     *slog.Logger
}

// New creates a new Scheduler. runTimeout bounds a single refresh run.
func New(interval, runTimeout time.Duration, refresher Refresher, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll()
	return &Scheduler{
		scheduler:  s,
		refresher:  refresher,
		interval:   interval,
		runTimeout: runTimeout,
		logger:     logger,
	}
}

// Start schedules the periodic job, runs it once immediately and starts the
// underlying scheduler. With a non-positive interval it performs a single
// refresh synchronously and returns its error, so a served document is never
// left unwritten.
func (s *Scheduler) Start() error {
	if s.interval <= 0 {
		s.logger.Info("scheduler: no refresh interval configured; refreshing once")
		return s.refreshOnce()
	}

	_, err := s.scheduler.Every(s.interval).Do(s.run)
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

func (s *Scheduler) run() {
	s.logger.Info("scheduler: running snapshot refresh")

	if err := s.refreshOnce(); err != nil {
		s.logger.Error("scheduler: snapshot refresh failed", "error", err)
		return
	}
	s.logger.Info("scheduler: completed snapshot refresh")
}

func (s *Scheduler) refreshOnce() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.runTimeout)
	defer cancel()

	_, err := s.refresher.FetchAndStore(ctx)
	return err
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
