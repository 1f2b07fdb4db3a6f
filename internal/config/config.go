package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Target   Target   `yaml:"target"`
	Batch    Batch    `yaml:"batch"`
	Database Database `yaml:"database"`
	S3       S3       `yaml:"s3"`
	Stub     Stub     `yaml:"stub"`
	Log      Log      `yaml:"log"`
}

// Target holds the posts API the seeder writes to
type Target struct {
	URL       string        `yaml:"url" env:"API_URL" env-default:"http://localhost:8080/api/posts"`
	Token     string        `yaml:"token" env:"API_TOKEN"`
	Community string        `yaml:"community" env:"SUB_NAME" env-default:"news"`
	Timeout   time.Duration `yaml:"timeout" env:"HTTP_TIMEOUT" env-default:"30s"`
}

// Batch holds seeding loop configuration
type Batch struct {
	Count int           `yaml:"count" env:"NUM_POSTS" env-default:"100"`
	Delay time.Duration `yaml:"delay" env:"POST_DELAY" env-default:"100ms"`
}

// Database holds database configuration for the run recorder.
// An empty DSN disables recording.
type Database struct {
	PostgresDSN string `yaml:"postgres_dsn" env:"DATABASE_URL"`

	MaxConns int32 `yaml:"max_conns" env:"DB_MAX_CONNS" env-default:"4"`
	MinConns int32 `yaml:"min_conns" env:"DB_MIN_CONNS" env-default:"1"`
}

// Enabled reports whether runs should be recorded in Postgres
func (d Database) Enabled() bool {
	return d.PostgresDSN != ""
}

// S3 holds S3/MinIO configuration for the run report archive
type S3 struct {
	Enabled         bool   `yaml:"enabled" env:"S3_ENABLED" env-default:"false"`
	Endpoint        string `yaml:"endpoint" env:"S3_ENDPOINT" env-default:"http://localhost:9000"`
	AccessKeyID     string `yaml:"access_key_id" env:"S3_ACCESS_KEY_ID" env-default:"minioadmin"`
	SecretAccessKey string `yaml:"secret_access_key" env:"S3_SECRET_ACCESS_KEY" env-default:"minioadmin"`
	Bucket          string `yaml:"bucket" env:"S3_BUCKET" env-default:"seed-reports"`
	Region          string `yaml:"region" env:"S3_REGION" env-default:"us-east-1"`
	Prefix          string `yaml:"prefix" env:"S3_PREFIX" env-default:"runs"`
}

// Stub holds configuration for the local stand-in of the posts API
type Stub struct {
	Host         string        `yaml:"host" env:"STUB_HOST" env-default:"0.0.0.0"`
	Port         string        `yaml:"port" env:"STUB_PORT" env-default:"8080"`
	Token        string        `yaml:"token" env:"STUB_TOKEN"`
	RateLimit    float64       `yaml:"rate_limit" env:"STUB_RATE_LIMIT" env-default:"0"`
	Burst        int           `yaml:"burst" env:"STUB_BURST" env-default:"1"`
	ReadTimeout  time.Duration `yaml:"read_timeout" env:"STUB_READ_TIMEOUT" env-default:"15s"`
	WriteTimeout time.Duration `yaml:"write_timeout" env:"STUB_WRITE_TIMEOUT" env-default:"15s"`
	IdleTimeout  time.Duration `yaml:"idle_timeout" env:"STUB_IDLE_TIMEOUT" env-default:"60s"`
}

// Address returns the full stub server address
func (s Stub) Address() string {
	return s.Host + ":" + s.Port
}

// Log holds logger configuration
type Log struct {
	Level string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
}

// SlogLevel maps the configured level name onto slog, defaulting to info
func (l Log) SlogLevel() slog.Level {
	switch strings.ToLower(l.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Validation errors
var (
	ErrMissingToken     = errors.New("API_TOKEN is required")
	ErrNegativeCount    = errors.New("post count must not be negative")
	ErrNegativeDelay    = errors.New("post delay must not be negative")
	ErrNonPositiveLimit = errors.New("http timeout must be positive")
	ErrMissingCommunity = errors.New("community name is required")
)

// ValidateRun checks the settings the seeding run depends on
func (c Config) ValidateRun() error {
	if c.Target.Token == "" {
		return ErrMissingToken
	}
	if c.Target.Community == "" {
		return ErrMissingCommunity
	}
	if c.Batch.Count < 0 {
		return ErrNegativeCount
	}
	if c.Batch.Delay < 0 {
		return ErrNegativeDelay
	}
	if c.Target.Timeout <= 0 {
		return ErrNonPositiveLimit
	}

	u, err := url.Parse(c.Target.URL)
	if err != nil {
		return fmt.Errorf("parsing API_URL: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("API_URL must be an absolute http(s) URL, got %q", c.Target.URL)
	}

	return nil
}

// Load reads configuration from the environment, loading .env first if present
func Load() (Config, error) {
	// Load .env file if exists (for development)
	_ = godotenv.Load()

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return cfg, fmt.Errorf("reading env: %w", err)
	}

	return cfg, nil
}

// LoadFromFile loads configuration from a YAML file
func LoadFromFile(path string) (Config, error) {
	var cfg Config
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
