package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/robfig/cron/v3"
)

// DefaultSchedule runs at minute 0 of every hour. Schedules carry a seconds field.
const DefaultSchedule = "0 0 * * * *"

// jobTimeout bounds a single run of a job.
const jobTimeout = 5 * time.Minute

// AutoValidator is the job the scheduler runs.
type AutoValidator interface {
	AutoValidate(ctx context.Context, dryRun bool) (int, error)
}

// Scheduler runs background jobs on a cron schedule.
type Scheduler struct {
	cron      *cron.Cron
	validator AutoValidator
	schedule  string
}

// New creates a Scheduler. An empty schedule uses DefaultSchedule.
func New(validator AutoValidator, schedule string) *Scheduler {
	if schedule == "" {
		schedule = DefaultSchedule
	}
	c := cron.New(
		cron.WithSeconds(),
		cron.WithLogger(cronLogger{}),
		cron.WithChain(cron.SkipIfStillRunning(cronLogger{})),
	)
	return &Scheduler{
		cron:      c,
		validator: validator,
		schedule:  schedule,
	}
}

// Start registers the jobs and starts the scheduler.
func (s *Scheduler) Start() error {
	log.Info("Starting cron scheduler", "schedule", s.schedule)
	if _, err := s.cron.AddFunc(s.schedule, s.runAutoValidation); err != nil {
		log.Error("Error scheduling auto-validation job", "error", err)
		return fmt.Errorf("schedule auto-validation %q: %w", s.schedule, err)
	}
	s.cron.Start()
	log.Info("Cron scheduler started successfully")
	return nil
}

// Stop stops the scheduler and waits for a running job to finish.
func (s *Scheduler) Stop(ctx context.Context) {
	log.Info("Stopping cron scheduler")
	select {
	case <-s.cron.Stop().Done():
		log.Info("Cron scheduler stopped")
	case <-ctx.Done():
		log.Warn("Cron scheduler stop timed out", "error", ctx.Err())
	}
}

// Next returns the next activation time, or the zero time when not started.
func (s *Scheduler) Next() time.Time {
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}

func (s *Scheduler) runAutoValidation() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()
	s.RunNow(ctx)
}

// RunNow triggers the auto-validation job immediately.
func (s *Scheduler) RunNow(ctx context.Context) {
	log.Info("Running auto-validation job")
	n, err := s.validator.AutoValidate(ctx, false)
	if err != nil {
		log.Error("Error during auto-validation", "error", err)
		return
	}
	log.Info("Auto-validation job completed", "validated", n)
}

// cronLogger adapts the package logger to cron.Logger.
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...any) {
	log.Debug("cron: "+msg, keysAndValues...)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...any) {
	log.Error("cron: "+msg, append([]any{"error", err}, keysAndValues...)...)
}
