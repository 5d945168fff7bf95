package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Prefix is the environment variable prefix for every setting
const Prefix = "SWIFTSTAY"

// Config holds all configuration for the admin console and the development backend
type Config struct {
	// App Configuration
	App AppConfig

	// API Configuration
	API APIConfig

	// Storage Configuration
	Storage StorageConfig

	// Theme Configuration
	Theme ThemeConfig

	// Logging Configuration
	Logging LoggingConfig

	// Server Configuration (development backend only)
	Server ServerConfig
}

// AppConfig holds application identity settings
type AppConfig struct {
	Name    string `envconfig:"APP_NAME" default:"Swift Stay Admin"`
	Version string `envconfig:"APP_VERSION" default:"1.0.0"`
	Env     string `envconfig:"APP_ENV" default:"development"`
}

// APIConfig holds settings for the backend API
type APIConfig struct {
	URL     string        `envconfig:"API_BASE_URL" default:"http://localhost:5000"`
	Timeout time.Duration `envconfig:"HTTP_TIMEOUT" default:"30s"`
}

// BaseURL returns the API root every endpoint path is relative to
func (c APIConfig) BaseURL() string {
	return strings.TrimRight(c.URL, "/") + "/api"
}

// StorageConfig selects and configures the durable session storage backend
type StorageConfig struct {
	Backend       string        `envconfig:"STORAGE_BACKEND" default:"keyring"`
	Dir           string        `envconfig:"STORAGE_DIR"`
	SQLitePath    string        `envconfig:"SQLITE_PATH"`
	RedisAddr     string        `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	RedisPassword string        `envconfig:"REDIS_PASSWORD"`
	RedisDB       int           `envconfig:"REDIS_DB" default:"0"`
	RedisPrefix   string        `envconfig:"REDIS_PREFIX" default:"swiftstay:"`
	WatchInterval time.Duration `envconfig:"WATCH_INTERVAL" default:"2s"`
}

// ThemeConfig holds the manual theme override window
type ThemeConfig struct {
	OverrideTTL time.Duration `envconfig:"THEME_OVERRIDE_TTL" default:"10m"`
}

// LoggingConfig holds logging-related configuration
type LoggingConfig struct {
	Level  string `envconfig:"LOG_LEVEL" default:"warn"`
	Format string `envconfig:"LOG_FORMAT" default:"console"` // json, console
}

// ServerConfig holds development backend settings
type ServerConfig struct {
	Addr          string `envconfig:"SERVER_ADDR" default:":5000"`
	JWTSecret     string `envconfig:"JWT_SECRET" default:"swiftstay-dev-secret"`
	AdminEmail    string `envconfig:"ADMIN_EMAIL" default:"admin@swiftstay.dev"`
	AdminPassword string `envconfig:"ADMIN_PASSWORD" default:"changeme"`

	AccessTokenTTL  time.Duration `envconfig:"ACCESS_TOKEN_TTL" default:"1h"`
	RefreshTokenTTL time.Duration `envconfig:"REFRESH_TOKEN_TTL" default:"168h"`

	// Seed loads sample properties, users and bookings at startup
	Seed bool `envconfig:"SERVER_SEED" default:"true"`
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env files (fails silently if files don't exist)
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	return FromEnv()
}

// FromEnv builds the configuration from the process environment only
func FromEnv() (*Config, error) {
	cfg := new(Config)

	// Each section is read under the shared prefix so names stay flat (SWIFTSTAY_LOG_LEVEL)
	sections := map[string]any{
		"app":     &cfg.App,
		"api":     &cfg.API,
		"storage": &cfg.Storage,
		"theme":   &cfg.Theme,
		"logging": &cfg.Logging,
		"server":  &cfg.Server,
	}
	for name, section := range sections {
		if err := envconfig.Process(Prefix, section); err != nil {
			return nil, fmt.Errorf("failed to process %s environment: %w", name, err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Storage.Backend {
	case "keyring", "file", "redis", "sqlite", "memory":
	default:
		return fmt.Errorf("invalid storage backend '%s', must be one of: keyring, file, redis, sqlite, memory", c.Storage.Backend)
	}

	if c.API.URL == "" {
		return fmt.Errorf("API base URL is empty")
	}

	if c.API.Timeout <= 0 {
		return fmt.Errorf("HTTP timeout must be positive")
	}

	return nil
}
