package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"wotro-backend/internal/config"
	"wotro-backend/internal/jobs"
)

func TestNewScheduler(t *testing.T) {
	t.Run("Registers all jobs", func(t *testing.T) {
		cfg := &config.Config{Scheduler: config.SchedulerConfig{
			ExpireStalePending:   "0 0 1 * * *",
			SendPendingReminders: "0 0 8 * * *",
			ReconcileLedger:      "0 30 2 * * *",
		}}
		s := NewScheduler(jobs.NewJobRunner(&jobs.Services{}, cfg))
		assert.Len(t, s.cron.Entries(), 3)
		assert.True(t, s.IsRunning())
	})

	t.Run("Skips invalid schedule", func(t *testing.T) {
		cfg := &config.Config{Scheduler: config.SchedulerConfig{
			ExpireStalePending:   "every day",
			SendPendingReminders: "0 0 8 * * *",
			ReconcileLedger:      "0 30 2 * * *",
		}}
		s := NewScheduler(jobs.NewJobRunner(&jobs.Services{}, cfg))
		assert.Len(t, s.cron.Entries(), 2)
	})
}
