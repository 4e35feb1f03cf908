package scheduler

import (
	"time"

	"github.com/robfig/cron/v3"

	"wotro-backend/internal/jobs"
	"wotro-backend/internal/logger"
)

// Scheduler manages cron job scheduling
type Scheduler struct {
	cron *cron.Cron
	jobs *jobs.JobRunner
}

// NewScheduler creates a new scheduler with the provided job runner.
// Schedules are in UTC with seconds precision.
func NewScheduler(jobRunner *jobs.JobRunner) *Scheduler {
	c := cron.New(
		cron.WithLocation(time.UTC),
		cron.WithSeconds(),
		cron.WithChain(cron.SkipIfStillRunning(cronLogger{})),
	)

	s := &Scheduler{
		cron: c,
		jobs: jobRunner,
	}

	s.registerJobs()
	return s
}

// registerJobs registers all scheduled jobs with the cron scheduler
func (s *Scheduler) registerJobs() {
	cfg := s.jobs.Config().Scheduler

	entries := []struct {
		name string
		spec string
		fn   func()
	}{
		{"ExpireStalePending", cfg.ExpireStalePending, s.jobs.ExpireStalePending},
		{"ReconcileLedger", cfg.ReconcileLedger, s.jobs.ReconcileLedger},
		{"SendPendingReminders", cfg.SendPendingReminders, s.jobs.SendPendingReminders},
	}
	for _, e := range entries {
		if _, err := s.cron.AddFunc(e.spec, e.fn); err != nil {
			logger.Error("Failed to register job", "job", e.name, "schedule", e.spec, "error", err)
			continue
		}
		logger.Debug("Registered job", "job", e.name, "schedule", e.spec)
	}

	logger.Info("Cron jobs registered", "count", len(s.cron.Entries()))
}

// Start begins the cron scheduler
func (s *Scheduler) Start() {
	logger.Info("Starting cron scheduler...")
	s.cron.Start()
	logger.Info("Cron scheduler started successfully")
}

// Stop gracefully stops the cron scheduler, waiting for running jobs
func (s *Scheduler) Stop() {
	logger.Info("Stopping cron scheduler...")
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Info("Cron scheduler stopped")
}

// IsRunning returns true if jobs are registered
func (s *Scheduler) IsRunning() bool {
	return len(s.cron.Entries()) > 0
}

// cronLogger adapts cron's logger to slog
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	logger.Debug("cron: "+msg, keysAndValues...)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	logger.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
