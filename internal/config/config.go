package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Auth      AuthConfig
	Logging   LoggingConfig
	Email     EmailConfig
	Poller    PollerConfig
	Dispatch  DispatchConfig
	Scheduler SchedulerConfig
	RateLimit RateLimitConfig
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	CORSOrigins     string // comma separated, empty or * allows all
	Environment     string
}

// DatabaseConfig contains database configuration
type DatabaseConfig struct {
	Driver          string
	Host            string
	Port            int
	Name            string
	User            string
	Password        string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	AutoMigrate     bool
	// For SQLite
	Path string
}

// AuthConfig contains optional bearer-token protection for rule management.
// An empty JWTSecret disables it.
type AuthConfig struct {
	JWTSecret string
}

// Enabled reports whether rule management requires a token
func (a AuthConfig) Enabled() bool {
	return a.JWTSecret != ""
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level      string
	Format     string // json or console
	OutputPath string // stdout, stderr or a file path
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// EmailConfig contains the outbound email transport settings.
// Without an APIKey email delivery is skipped with a warning.
type EmailConfig struct {
	APIKey            string
	APIURL            string
	From              string
	FallbackRecipient string
	Timeout           time.Duration
}

// Configured reports whether a transport credential is present
func (e EmailConfig) Configured() bool {
	return e.APIKey != ""
}

// PollerConfig contains telemetry polling configuration
type PollerConfig struct {
	Enabled    bool
	Interval   time.Duration
	Timeout    time.Duration
	KostalURL  string
	FroniusURL string
}

// DispatchConfig sizes the asynchronous dispatch queue used by ingestion
type DispatchConfig struct {
	Workers   int
	QueueSize int
}

// SchedulerConfig contains cron housekeeping configuration
type SchedulerConfig struct {
	HousekeepingSchedule string
}

// RateLimitConfig contains per-IP rate limiting configuration
type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (ignore errors as it's optional)
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			Port:            getEnvAsInt("SERVER_PORT", 8080),
			ReadTimeout:     getEnvAsDuration("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:    getEnvAsDuration("SERVER_WRITE_TIMEOUT", 10*time.Second),
			ShutdownTimeout: getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second),
			CORSOrigins:     getEnv("CORS_ALLOWED_ORIGINS", "*"),
			Environment:     getEnv("ENVIRONMENT", "development"),
		},
		Database: DatabaseConfig{
			Driver:          getEnv("DB_DRIVER", "sqlite"),
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnvAsInt("DB_PORT", 5432),
			Name:            getEnv("DB_NAME", "voltcast"),
			User:            getEnv("DB_USER", ""),
			Password:        getEnv("DB_PASSWORD", ""),
			SSLMode:         getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
			AutoMigrate:     getEnvAsBool("DB_AUTO_MIGRATE", true),
			Path:            getEnv("DB_PATH", "./voltcast.db"),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("AUTH_JWT_SECRET", ""),
		},
		Logging: LoggingConfig{
			Level:      getEnv("LOG_LEVEL", "info"),
			Format:     getEnv("LOG_FORMAT", "json"),
			OutputPath: getEnv("LOG_OUTPUT", "stdout"),
			MaxSizeMB:  getEnvAsInt("LOG_MAX_SIZE_MB", 100),
			MaxBackups: getEnvAsInt("LOG_MAX_BACKUPS", 3),
			MaxAgeDays: getEnvAsInt("LOG_MAX_AGE_DAYS", 28),
			Compress:   getEnvAsBool("LOG_COMPRESS", true),
		},
		Email: EmailConfig{
			APIKey:            getEnv("EMAIL_API_KEY", ""),
			APIURL:            getEnv("EMAIL_API_URL", "https://api.resend.com/emails"),
			From:              getEnv("EMAIL_FROM", "VoltCast Alerts <alerts@voltcast.dev>"),
			FallbackRecipient: getEnv("EMAIL_FALLBACK_RECIPIENT", "delivered@resend.dev"),
			Timeout:           getEnvAsDuration("EMAIL_TIMEOUT", 10*time.Second),
		},
		Poller: PollerConfig{
			Enabled:    getEnvAsBool("POLLER_ENABLED", true),
			Interval:   getEnvAsDuration("POLL_INTERVAL", 60*time.Second),
			Timeout:    getEnvAsDuration("POLL_TIMEOUT", 10*time.Second),
			KostalURL:  getEnv("KOSTAL_SERVICE_URL", "http://kostal-ms:8082/kostal/realtimedata"),
			FroniusURL: getEnv("FRONIUS_SERVICE_URL", "http://fronius-ms:8081/fronius/realtimedata"),
		},
		Dispatch: DispatchConfig{
			Workers:   getEnvAsInt("DISPATCH_WORKERS", 4),
			QueueSize: getEnvAsInt("DISPATCH_QUEUE_SIZE", 256),
		},
		Scheduler: SchedulerConfig{
			HousekeepingSchedule: getEnv("HOUSEKEEPING_SCHEDULE", "@every 1m"),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: getEnvAsFloat("RATE_LIMIT_RPS", 100),
			Burst:             getEnvAsInt("RATE_LIMIT_BURST", 200),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Database.Driver != "sqlite" && c.Database.Driver != "postgres" {
		return fmt.Errorf("unsupported database driver: %s", c.Database.Driver)
	}

	if c.Poller.Interval <= 0 {
		return fmt.Errorf("poll interval must be positive, got %s", c.Poller.Interval)
	}

	if c.Dispatch.Workers < 1 {
		return fmt.Errorf("dispatch workers must be at least 1, got %d", c.Dispatch.Workers)
	}

	if c.Dispatch.QueueSize < 1 {
		return fmt.Errorf("dispatch queue size must be at least 1, got %d", c.Dispatch.QueueSize)
	}

	if c.Email.Configured() && c.Email.APIURL == "" {
		return fmt.Errorf("EMAIL_API_URL must be set when EMAIL_API_KEY is configured")
	}

	return nil
}

// Addr returns the listen address for the HTTP server
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
