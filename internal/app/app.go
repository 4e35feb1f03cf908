// Package app wires configuration into clients, repositories and services.
// The server, cronjob and notifier binaries share it.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"github.com/redis/go-redis/v9"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"wotro-backend/internal/cache"
	"wotro-backend/internal/config"
	"wotro-backend/internal/logger"
	"wotro-backend/internal/queue"
	"wotro-backend/internal/repository"
	"wotro-backend/internal/repository/firestoredb"
	"wotro-backend/internal/repository/postgres"
	"wotro-backend/internal/security"
	"wotro-backend/internal/service"
	"wotro-backend/internal/storage"
)

// Services holds every domain service built from one configuration.
type Services struct {
	Auth         service.AuthService
	User         service.UserService
	Vehicle      service.VehicleService
	Booking      service.BookingService
	Earnings     service.EarningsService
	Contract     service.ContractService
	Chat         service.ChatService
	Ad           service.AdService
	Stats        service.StatsService
	Media        service.MediaService
	Notification service.NotificationService
}

// App owns the external clients; Close releases them in reverse order.
type App struct {
	Config    *config.Config
	Firestore *firestore.Client
	Auth      *auth.Client
	Store     *firestoredb.Store
	Storage   storage.StorageInterface
	DB        *sql.DB
	Redis     *redis.Client
	Services  Services

	publisher *queue.Publisher
	localBus  *queue.LocalBus
	closers   []func()
}

// New connects to Firebase, the optional Postgres ledger, Redis and
// RabbitMQ, then builds the services. Without a RabbitMQ URL booking events
// are handled in-process.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{Config: cfg}
	if err := a.connect(ctx); err != nil {
		a.Close()
		return nil, err
	}
	a.buildServices()
	return a, nil
}

func (a *App) connect(ctx context.Context) error {
	cfg := a.Config

	var opts []option.ClientOption
	if cfg.Firebase.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.Firebase.CredentialsFile))
	}
	fbApp, err := firebase.NewApp(ctx, &firebase.Config{
		ProjectID:     cfg.Firebase.ProjectID,
		StorageBucket: cfg.Firebase.StorageBucket,
	}, opts...)
	if err != nil {
		return fmt.Errorf("failed to initialize firebase: %w", err)
	}

	a.Firestore, err = fbApp.Firestore(ctx)
	if err != nil {
		return fmt.Errorf("failed to connect to firestore: %w", err)
	}
	a.Store = firestoredb.NewStore(a.Firestore)
	a.closers = append(a.closers, func() { a.Store.Close() })
	logger.Info("Firestore connection established", "project_id", cfg.Firebase.ProjectID)

	a.Auth, err = fbApp.Auth(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize firebase auth: %w", err)
	}

	switch cfg.Storage.Type {
	case "gcs":
		storageClient, err := fbApp.Storage(ctx)
		if err != nil {
			return fmt.Errorf("failed to initialize firebase storage: %w", err)
		}
		bucket, err := storageClient.Bucket(cfg.Firebase.StorageBucket)
		if err != nil {
			return fmt.Errorf("failed to open bucket: %w", err)
		}
		a.Storage = storage.NewGCSStorage(bucket, cfg.Firebase.StorageBucket)
		logger.Info("Using Cloud Storage", "bucket", cfg.Firebase.StorageBucket)
	default:
		mockStorage, err := storage.NewMockStorageService(cfg.Storage.BaseURL, cfg.Storage.UploadDir)
		if err != nil {
			return fmt.Errorf("failed to initialize mock storage: %w", err)
		}
		a.Storage = mockStorage
		logger.Info("Using mock storage (local filesystem)", "upload_dir", cfg.Storage.UploadDir)
	}

	if cfg.LedgerEnabled() {
		logger.Info("Connecting to database...", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database)
		a.DB, err = postgres.Open(ctx, cfg.GetDatabaseConnectionString())
		if err != nil {
			return err
		}
		a.closers = append(a.closers, func() { a.DB.Close() })
		if err := postgres.NewStore(a.DB).EnsureSchema(ctx); err != nil {
			return fmt.Errorf("failed to prepare ledger schema: %w", err)
		}
		logger.Info("Database connection established")
	} else {
		logger.Warn("No database configured, host earnings ledger disabled")
	}

	a.Redis = cache.NewRedisClient(cfg.Redis)
	if a.Redis != nil {
		a.closers = append(a.closers, func() { a.Redis.Close() })
		logger.Info("Redis connection established", "addr", cfg.Redis.Addr)
	}

	if cfg.RabbitMQ.URL != "" {
		a.publisher, err = queue.NewPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange)
		if err != nil {
			return err
		}
		a.closers = append(a.closers, a.publisher.Close)
		logger.Info("RabbitMQ publisher ready", "exchange", cfg.RabbitMQ.Exchange)
	}
	return nil
}

func (a *App) buildServices() {
	cfg := a.Config
	store := a.Store

	var ledgerRepo repository.LedgerRepository
	if a.DB != nil {
		ledgerRepo = postgres.NewStore(a.DB).LedgerRepository
	} else {
		ledgerRepo = postgres.NewDisabledLedgerRepository()
	}

	email := service.NewEmailService(cfg.SendGrid.APIKey, cfg.SendGrid.FromEmail, cfg.SendGrid.FromName)
	whatsapp := service.NewWhatsAppService(cfg.Twilio.AccountSID, cfg.Twilio.AuthToken, cfg.Twilio.WhatsAppFrom)
	notification := service.NewNotificationService(store.UserRepository, store.BookingRepository, email, whatsapp)

	var events service.EventPublisher
	if a.publisher != nil {
		events = a.publisher
	} else {
		a.localBus = queue.NewLocalBus(notification.HandleEvent)
		events = a.localBus
	}

	accessExpiry := time.Duration(cfg.JWT.AccessTokenExpiry) * time.Minute
	tokens := security.NewTokenManager(cfg.JWT.Secret, accessExpiry, time.Duration(cfg.JWT.RefreshTokenExpiry)*time.Minute)
	limiter := cache.NewRateLimiter(a.Redis, "booking", cfg.Booking.RequestsPerHour, time.Hour)

	earnings := service.NewEarningsService(store.BookingRepository, ledgerRepo)
	a.Services = Services{
		Auth:     service.NewAuthService(a.Auth, store.UserRepository, tokens, cache.NewRevocationStore(a.Redis), accessExpiry),
		User:     service.NewUserService(store.UserRepository, a.Storage, cfg.Admin.MasterKeyHash),
		Vehicle:  service.NewVehicleService(store.VehicleRepository, store.UserRepository, store.ReviewRepository),
		Earnings: earnings,
		Booking: service.NewBookingService(
			store.BookingRepository,
			store.VehicleRepository,
			store.UserRepository,
			store.ReviewRepository,
			earnings,
			events,
			limiter,
			service.BookingOptions{AllowSameDayTurnover: cfg.Booking.AllowSameDayTurnover},
		),
		Contract:     service.NewContractService(store.BookingRepository, store.VehicleRepository, store.UserRepository),
		Chat:         service.NewChatService(store.ChatRepository, store.VehicleRepository, store.UserRepository),
		Ad:           service.NewAdService(store.AdRepository),
		Stats:        service.NewStatsService(store.UserRepository, store.VehicleRepository, store.BookingRepository),
		Media:        service.NewMediaService(a.Storage, time.Duration(cfg.Storage.URLExpiry)*time.Minute, cfg.Storage.MaxFileSize<<20),
		Notification: notification,
	}
}

// HealthChecks returns a probe per connected dependency.
func (a *App) HealthChecks() map[string]func(ctx context.Context) error {
	checks := map[string]func(ctx context.Context) error{
		"firestore": func(ctx context.Context) error {
			_, err := a.Firestore.Collections(ctx).Next()
			if errors.Is(err, iterator.Done) {
				return nil
			}
			return err
		},
	}
	if a.DB != nil {
		checks["postgres"] = a.DB.PingContext
	}
	if a.Redis != nil {
		checks["redis"] = func(ctx context.Context) error { return a.Redis.Ping(ctx).Err() }
	}
	return checks
}

// Close waits for in-process event deliveries, then releases clients.
func (a *App) Close() {
	if a.localBus != nil {
		a.localBus.Wait()
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
