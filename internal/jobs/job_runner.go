package jobs

import (
	"context"
	"time"
	_ "time/tzdata"

	"wotro-backend/internal/config"
	"wotro-backend/internal/logger"
)

const jobTimeout = 5 * time.Minute

type PendingExpirer interface {
	ExpireStalePending(ctx context.Context, today string) (int, error)
}

type ReminderSender interface {
	SendPendingReminders(ctx context.Context) (int, error)
}

type LedgerReconciler interface {
	ReconcileLedger(ctx context.Context) (int, error)
}

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	services *Services
	config   *config.Config
	location *time.Location
	now      func() time.Time
}

// Services holds all service dependencies needed by jobs
type Services struct {
	Booking      PendingExpirer
	Notification ReminderSender
	Earnings     LedgerReconciler
}

// NewJobRunner creates a new job runner. Calendar dates are computed in the
// configured booking time zone, falling back to UTC when it cannot be loaded.
func NewJobRunner(services *Services, cfg *config.Config) *JobRunner {
	loc, err := time.LoadLocation(cfg.Booking.TimeZone)
	if err != nil {
		logger.Warn("Unknown booking time zone, using UTC", "tz", cfg.Booking.TimeZone, "error", err)
		loc = time.UTC
	}
	return &JobRunner{
		services: services,
		config:   cfg,
		location: loc,
		now:      time.Now,
	}
}

// Config returns the configuration the runner was built with
func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

func (jr *JobRunner) today() string {
	return jr.now().In(jr.location).Format("2006-01-02")
}

// runWithRecovery wraps job execution with panic recovery
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func(ctx context.Context) error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", "job", jobName, "panic", r)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()
	ctx = logger.WithAttrs(ctx, "job", jobName)

	start := time.Now()
	logger.Info("Starting job", "job", jobName)
	if err := jobFunc(ctx); err != nil {
		logger.Error("Job failed", "job", jobName, "error", err, "duration_ms", time.Since(start).Milliseconds())
		return
	}
	logger.Info("Job completed", "job", jobName, "duration_ms", time.Since(start).Milliseconds())
}

// RunAllNightlyJobs runs every job in order (for manual execution)
func (jr *JobRunner) RunAllNightlyJobs() {
	jr.ExpireStalePending()
	jr.ReconcileLedger()
	jr.SendPendingReminders()
}
