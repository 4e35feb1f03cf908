package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"wotro-backend/internal/app"
	"wotro-backend/internal/config"
	"wotro-backend/internal/jobs"
	"wotro-backend/internal/logger"
	"wotro-backend/internal/scheduler"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	runOnce := flag.String("run-once", "", "Run a specific job once and exit (e.g., 'expire-stale-pending', 'all-nightly')")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Wotro Cronjob Runner...", "log_level", cfg.Log.Level)

	application, err := app.New(context.Background(), cfg)
	if err != nil {
		logger.Error("Failed to initialize application", "error", err)
		log.Fatalf("Failed to initialize application: %v", err)
	}
	defer application.Close()

	jobServices := &jobs.Services{
		Booking:      application.Services.Booking,
		Notification: application.Services.Notification,
		Earnings:     application.Services.Earnings,
	}

	// Initialize Job Runner
	jobRunner := jobs.NewJobRunner(jobServices, cfg)

	// Check if running a single job
	if *runOnce != "" {
		logger.Info("Running job once", "job", *runOnce)
		if !runJobOnce(jobRunner, *runOnce) {
			application.Close()
			os.Exit(1)
		}
		logger.Info("Job execution completed", "job", *runOnce)
		return
	}

	// Initialize Scheduler
	cronScheduler := scheduler.NewScheduler(jobRunner)

	// Start scheduler
	cronScheduler.Start()
	logger.Info("Cronjob scheduler is running. Press Ctrl+C to stop.")

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	// Graceful shutdown
	logger.Info("Shutting down cronjob scheduler...")
	cronScheduler.Stop()
	logger.Info("Cronjob scheduler stopped. Goodbye!")
}

// runJobOnce runs a specific job once; it reports false for an unknown name
func runJobOnce(jobRunner *jobs.JobRunner, jobName string) bool {
	switch jobName {
	case "expire-stale-pending":
		jobRunner.ExpireStalePending()
	case "send-pending-reminders":
		jobRunner.SendPendingReminders()
	case "reconcile-ledger":
		jobRunner.ReconcileLedger()
	case "all-nightly":
		jobRunner.RunAllNightlyJobs()
	default:
		logger.Error("Unknown job name", "job", jobName)
		fmt.Printf("Available jobs:\n")
		fmt.Printf("  - expire-stale-pending\n")
		fmt.Printf("  - send-pending-reminders\n")
		fmt.Printf("  - reconcile-ledger\n")
		fmt.Printf("  - all-nightly\n")
		return false
	}
	return true
}
