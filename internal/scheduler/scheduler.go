// Package scheduler runs the daily pipeline on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Job is a scheduled task. The context carries the per-run timeout.
type Job func(ctx context.Context) error

// Scheduler wraps a cron runner evaluated in a configured timezone.
type Scheduler struct {
	cron       *cron.Cron
	timezone   *time.Location
	runTimeout time.Duration
	logger     *slog.Logger
}

// Config contains scheduler settings.
type Config struct {
	// Timezone is the IANA zone cron expressions are evaluated in.
	Timezone string

	// RunTimeout bounds each job invocation.
	RunTimeout time.Duration

	Logger *slog.Logger
}

// New creates a scheduler. Fails on an unknown timezone.
func New(cfg Config) (*Scheduler, error) {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("loading timezone %q: %w", cfg.Timezone, err)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Scheduler{
		cron:       cron.New(cron.WithLocation(loc)),
		timezone:   loc,
		runTimeout: cfg.RunTimeout,
		logger:     logger.With(slog.String("component", "scheduler.Scheduler")),
	}, nil
}

// AddJob registers a job under a standard five-field cron expression,
// e.g. "0 7 * * *" for 07:00 daily. Job failures are logged, never
// propagated: the next trigger is the retry.
func (s *Scheduler) AddJob(name, schedule string, job Job) error {
	_, err := s.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.runTimeout)
		defer cancel()

		logger := s.logger.With(slog.String("job", name))
		logger.InfoContext(ctx, "job starting")

		start := time.Now()

		if err := job(ctx); err != nil {
			logger.ErrorContext(ctx, "job failed",
				slog.String("error", err.Error()),
				slog.Duration("elapsed", time.Since(start)),
			)

			return
		}

		logger.InfoContext(ctx, "job complete",
			slog.Duration("elapsed", time.Since(start)))
	})

	if err != nil {
		return fmt.Errorf("scheduling job %q: %w", name, err)
	}

	s.logger.Info("job scheduled",
		slog.String("job", name),
		slog.String("schedule", schedule),
		slog.String("timezone", s.timezone.String()),
	)

	return nil
}

// NextRuns returns the next trigger times of all registered jobs.
func (s *Scheduler) NextRuns() []time.Time {
	entries := s.cron.Entries()

	next := make([]time.Time, 0, len(entries))
	for _, entry := range entries {
		next = append(next, entry.Next)
	}

	return next
}

// Start begins evaluating schedules. Non-blocking.
func (s *Scheduler) Start() {
	s.logger.Info("scheduler started")
	s.cron.Start()
}

// Stop halts scheduling and returns a context that is done once any
// in-flight job has finished.
func (s *Scheduler) Stop() context.Context {
	s.logger.Info("scheduler stopping")

	return s.cron.Stop()
}
