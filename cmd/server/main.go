package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	grpcapi "wotro-backend/internal/api/grpc"
	httpapi "wotro-backend/internal/api/http"
	"wotro-backend/internal/app"
	"wotro-backend/internal/config"
	"wotro-backend/internal/logger"
	"wotro-backend/internal/storage"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Wotro Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress(), "health_address", cfg.GetHealthAddress())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, cfg)
	if err != nil {
		logger.Error("Failed to initialize application", "error", err)
		log.Fatalf("Failed to initialize application: %v", err)
	}
	defer application.Close()
	svc := application.Services

	// Initialize HTTP handlers
	authMW := httpapi.NewAuthMiddleware(svc.Auth)
	router := httpapi.NewRouter(httpapi.Handlers{
		Auth:     httpapi.NewAuthHandler(svc.Auth),
		User:     httpapi.NewUserHandler(svc.User),
		Vehicle:  httpapi.NewVehicleHandler(svc.Vehicle, svc.Booking, svc.User),
		Booking:  httpapi.NewBookingHandler(svc.Booking, svc.Contract),
		Earnings: httpapi.NewEarningsHandler(svc.Earnings),
		Chat:     httpapi.NewChatHandler(svc.Chat),
		Admin:    httpapi.NewAdminHandler(svc.Ad, svc.Stats),
		Media:    httpapi.NewMediaHandler(svc.Media),
		Stream:   httpapi.NewStreamHandler(svc.Booking, svc.Chat, 25*time.Second),
	}, authMW)

	// Mock storage endpoints stand in for the bucket in development
	if _, ok := application.Storage.(*storage.MockStorageService); ok {
		httpapi.RegisterMockStorageRoutes(router, application.Storage, cfg.Storage.MaxFileSize<<20)
		logger.Info("Mock storage routes registered")
	}

	srv := &http.Server{
		Addr:              cfg.GetServerAddress(),
		Handler:           httpapi.Wrap(router, cfg.Server.AllowedOrigins),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		// Event streams stay open, so no write deadline
		WriteTimeout: 0,
		IdleTimeout:  120 * time.Second,
		BaseContext:  func(net.Listener) context.Context { return ctx },
	}

	// Set up gRPC health server
	var health *grpcapi.HealthServer
	if addr := cfg.GetHealthAddress(); addr != "" {
		checks := make(map[string]grpcapi.Check)
		for name, check := range application.HealthChecks() {
			checks[name] = check
		}
		health = grpcapi.NewHealthServer(checks, 15*time.Second)
		lis, err := net.Listen("tcp", addr)
		if err != nil {
			logger.Error("Failed to listen", "error", err, "address", addr)
			log.Fatalf("Failed to listen: %v", err)
		}
		go health.Run(ctx)
		go func() {
			logger.Info("gRPC health server listening", "address", addr)
			if err := health.Server().Serve(lis); err != nil {
				logger.Error("gRPC health server error", "error", err)
			}
		}()
	}

	go func() {
		logger.Info("HTTP server listening", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP shutdown error", "error", err)
	}
	if health != nil {
		health.Server().GracefulStop()
	}
	logger.Info("Server stopped. Goodbye!")
}
