package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Firebase  FirebaseConfig  `yaml:"firebase"`
	Database  DatabaseConfig  `yaml:"database"`
	JWT       JWTConfig       `yaml:"jwt"`
	Redis     RedisConfig     `yaml:"redis"`
	RabbitMQ  RabbitMQConfig  `yaml:"rabbitmq"`
	SendGrid  SendGridConfig  `yaml:"sendgrid"`
	Twilio    TwilioConfig    `yaml:"twilio"`
	Storage   StorageConfig   `yaml:"storage"`
	Log       LogConfig       `yaml:"log"`
	Booking   BookingConfig   `yaml:"booking"`
	Admin     AdminConfig     `yaml:"admin"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
}

// ServerConfig contains HTTP and gRPC health listener settings
type ServerConfig struct {
	Host           string   `yaml:"host"`
	Port           int      `yaml:"port"`
	HealthPort     int      `yaml:"health_port"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// FirebaseConfig points at the Firebase project backing auth, Firestore and storage
type FirebaseConfig struct {
	ProjectID       string `yaml:"project_id"`
	CredentialsFile string `yaml:"credentials_file"`
	StorageBucket   string `yaml:"storage_bucket"`
}

// DatabaseConfig contains PostgreSQL connection settings for the earnings ledger.
// An empty host disables the ledger.
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"ssl_mode"`
}

// JWTConfig contains session token settings
type JWTConfig struct {
	Secret             string `yaml:"secret"`
	AccessTokenExpiry  int    `yaml:"access_token_expiry_minutes"`
	RefreshTokenExpiry int    `yaml:"refresh_token_expiry_minutes"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type RabbitMQConfig struct {
	URL      string `yaml:"url"`
	Exchange string `yaml:"exchange"`
	Queue    string `yaml:"queue"`
}

type SendGridConfig struct {
	APIKey    string `yaml:"api_key"`
	FromEmail string `yaml:"from_email"`
	FromName  string `yaml:"from_name"`
}

type TwilioConfig struct {
	AccountSID   string `yaml:"account_sid"`
	AuthToken    string `yaml:"auth_token"`
	WhatsAppFrom string `yaml:"whatsapp_from"`
}

// StorageConfig contains file storage settings
type StorageConfig struct {
	Type         string   `yaml:"type"`       // "mock" or "gcs"
	UploadDir    string   `yaml:"upload_dir"` // For mock storage
	BaseURL      string   `yaml:"base_url"`   // Server base URL for mock URLs
	MaxFileSize  int64    `yaml:"max_file_size_mb"`
	URLExpiry    int      `yaml:"url_expiry_minutes"`
	AllowedTypes []string `yaml:"allowed_types"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "text"
}

// BookingConfig tunes the reservation engine
type BookingConfig struct {
	AllowSameDayTurnover bool   `yaml:"allow_same_day_turnover"`
	RequestsPerHour      int    `yaml:"requests_per_hour"`
	TimeZone             string `yaml:"time_zone"`
}

// AdminConfig holds the bcrypt hash of the master key required to create an admin account
type AdminConfig struct {
	MasterKeyHash string `yaml:"master_key_hash"`
}

// SchedulerConfig contains cron schedule settings
type SchedulerConfig struct {
	ExpireStalePending   string `yaml:"expire_stale_pending"`
	SendPendingReminders string `yaml:"send_pending_reminders"`
	ReconcileLedger      string `yaml:"reconcile_ledger"`
}

// Load reads configuration from a YAML file
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.overrideWithEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// overrideWithEnv overrides config values with environment variables
func (c *Config) overrideWithEnv() {
	// Firebase
	if val := os.Getenv("FIREBASE_PROJECT_ID"); val != "" {
		c.Firebase.ProjectID = val
	}
	if val := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); val != "" {
		c.Firebase.CredentialsFile = val
	}
	if val := os.Getenv("FIREBASE_STORAGE_BUCKET"); val != "" {
		c.Firebase.StorageBucket = val
	}

	// Database
	if val := os.Getenv("DB_HOST"); val != "" {
		c.Database.Host = val
	}
	if val := os.Getenv("DB_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Database.Port)
	}
	if val := os.Getenv("DB_USER"); val != "" {
		c.Database.User = val
	}
	if val := os.Getenv("DB_PASSWORD"); val != "" {
		c.Database.Password = val
	}
	if val := os.Getenv("DB_NAME"); val != "" {
		c.Database.Database = val
	}
	if val := os.Getenv("DB_SSL_MODE"); val != "" {
		c.Database.SSLMode = val
	}

	// JWT
	if val := os.Getenv("JWT_SECRET"); val != "" {
		c.JWT.Secret = val
	}

	// Redis
	if val := os.Getenv("REDIS_ADDR"); val != "" {
		c.Redis.Addr = val
	}
	if val := os.Getenv("REDIS_PASSWORD"); val != "" {
		c.Redis.Password = val
	}

	// RabbitMQ
	if val := os.Getenv("RABBITMQ_URL"); val != "" {
		c.RabbitMQ.URL = val
	}

	// SendGrid
	if val := os.Getenv("SENDGRID_API_KEY"); val != "" {
		c.SendGrid.APIKey = val
	}

	// Twilio
	if val := os.Getenv("TWILIO_ACCOUNT_SID"); val != "" {
		c.Twilio.AccountSID = val
	}
	if val := os.Getenv("TWILIO_AUTH_TOKEN"); val != "" {
		c.Twilio.AuthToken = val
	}
	if val := os.Getenv("TWILIO_WHATSAPP_FROM"); val != "" {
		c.Twilio.WhatsAppFrom = val
	}

	// Server
	if val := os.Getenv("SERVER_HOST"); val != "" {
		c.Server.Host = val
	}
	if val := os.Getenv("SERVER_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Server.Port)
	}

	// Storage
	if val := os.Getenv("UPLOAD_DIR"); val != "" {
		c.Storage.UploadDir = val
	}

	// Log
	if val := os.Getenv("LOG_LEVEL"); val != "" {
		c.Log.Level = val
	}
	if val := os.Getenv("LOG_FORMAT"); val != "" {
		c.Log.Format = val
	}

	// Admin
	if val := os.Getenv("ADMIN_MASTER_KEY_HASH"); val != "" {
		c.Admin.MasterKeyHash = val
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate checks if the configuration is valid and fills defaults
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Server.HealthPort < 0 || c.Server.HealthPort > 65535 {
		return fmt.Errorf("invalid health port: %d", c.Server.HealthPort)
	}

	if c.Firebase.ProjectID == "" {
		return fmt.Errorf("firebase project id is required")
	}

	if c.LedgerEnabled() {
		if c.Database.User == "" {
			return fmt.Errorf("database user is required")
		}
		if c.Database.Database == "" {
			return fmt.Errorf("database name is required")
		}
		if c.Database.Port == 0 {
			c.Database.Port = 5432
		}
		if c.Database.SSLMode == "" {
			c.Database.SSLMode = "disable"
		}
	}

	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}
	if len(c.JWT.Secret) < 32 {
		return fmt.Errorf("JWT secret must be at least 32 characters")
	}
	if c.JWT.AccessTokenExpiry == 0 {
		c.JWT.AccessTokenExpiry = 60
	}
	if c.JWT.RefreshTokenExpiry == 0 {
		c.JWT.RefreshTokenExpiry = 7 * 24 * 60
	}

	if c.RabbitMQ.Exchange == "" {
		c.RabbitMQ.Exchange = "wotro.events"
	}
	if c.RabbitMQ.Queue == "" {
		c.RabbitMQ.Queue = "wotro.notifier"
	}

	if c.SendGrid.FromEmail == "" {
		c.SendGrid.FromEmail = "no-reply@wotro.ci"
	}
	if c.SendGrid.FromName == "" {
		c.SendGrid.FromName = "Wotro"
	}

	switch c.Storage.Type {
	case "":
		c.Storage.Type = "mock"
	case "mock", "gcs":
	default:
		return fmt.Errorf("unknown storage type: %s", c.Storage.Type)
	}
	if c.Storage.Type == "mock" && c.Storage.UploadDir == "" {
		return fmt.Errorf("upload directory is required")
	}
	if c.Storage.Type == "gcs" && c.Firebase.StorageBucket == "" {
		return fmt.Errorf("firebase storage bucket is required for gcs storage")
	}
	if c.Storage.MaxFileSize == 0 {
		c.Storage.MaxFileSize = 10
	}
	if c.Storage.URLExpiry == 0 {
		c.Storage.URLExpiry = 15
	}
	if len(c.Storage.AllowedTypes) == 0 {
		c.Storage.AllowedTypes = []string{"image/jpeg", "image/png", "image/webp", "audio/webm"}
	}

	if c.Booking.RequestsPerHour == 0 {
		c.Booking.RequestsPerHour = 10
	}
	if c.Booking.TimeZone == "" {
		c.Booking.TimeZone = "Africa/Abidjan"
	}

	if c.Admin.MasterKeyHash != "" && !strings.HasPrefix(c.Admin.MasterKeyHash, "$2") {
		return fmt.Errorf("admin master key hash must be a bcrypt hash")
	}

	if c.Scheduler.ExpireStalePending == "" {
		c.Scheduler.ExpireStalePending = "0 0 1 * * *" // 1 AM UTC
	}
	if c.Scheduler.SendPendingReminders == "" {
		c.Scheduler.SendPendingReminders = "0 0 8 * * *" // 8 AM UTC
	}
	if c.Scheduler.ReconcileLedger == "" {
		c.Scheduler.ReconcileLedger = "0 30 2 * * *" // 2:30 AM UTC
	}

	return nil
}

// LedgerEnabled reports whether a Postgres earnings ledger is configured
func (c *Config) LedgerEnabled() bool {
	return c.Database.Host != ""
}

// GetDatabaseConnectionString returns a PostgreSQL connection string
func (c *Config) GetDatabaseConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Database,
		c.Database.SSLMode,
	)
}

// GetServerAddress returns the HTTP server address
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// GetHealthAddress returns the gRPC health server address, empty when disabled
func (c *Config) GetHealthAddress() string {
	if c.Server.HealthPort == 0 {
		return ""
	}
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.HealthPort)
}
