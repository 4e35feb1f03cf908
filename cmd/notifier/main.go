package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"wotro-backend/internal/app"
	"wotro-backend/internal/config"
	"wotro-backend/internal/logger"
	"wotro-backend/internal/queue"
)

// The notifier consumes booking events from RabbitMQ and sends the host and
// tenant emails and WhatsApp messages.
func main() {
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Wotro Notifier...", "exchange", cfg.RabbitMQ.Exchange, "queue", cfg.RabbitMQ.Queue)

	if cfg.RabbitMQ.URL == "" {
		log.Fatalf("rabbitmq url is required for the notifier")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, cfg)
	if err != nil {
		logger.Error("Failed to initialize application", "error", err)
		log.Fatalf("Failed to initialize application: %v", err)
	}
	defer application.Close()

	consumer, err := queue.NewConsumer(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange, cfg.RabbitMQ.Queue)
	if err != nil {
		logger.Error("Failed to start consumer", "error", err)
		log.Fatalf("Failed to start consumer: %v", err)
	}
	defer consumer.Close()

	logger.Info("Notifier consuming. Press Ctrl+C to stop.")
	if err := consumer.Run(ctx, application.Services.Notification.HandleEvent); err != nil && ctx.Err() == nil {
		logger.Error("Consumer stopped", "error", err)
	}
	logger.Info("Notifier stopped. Goodbye!")
}
