package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/Dosada05/bracket-builder/models"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

const (
	// ScraperModeBrowser renders check-in pages in headless Chrome.
	ScraperModeBrowser = "browser"
	// ScraperModeHTTP fetches pages as served, for pre-rendered snapshots.
	ScraperModeHTTP = "http"
)

// Config хранит все конфигурационные параметры приложения.
type Config struct {
	ServerPort     int           `env:"SERVER_PORT"              envDefault:"8080"`
	DatabaseDriver string        `env:"DATABASE_DRIVER"          envDefault:"postgres"`
	DatabaseURL    string        `env:"DATABASE_URL"`
	ConnectTimeout time.Duration `env:"DATABASE_CONNECT_TIMEOUT" envDefault:"5s"`
	JWTSecretKey   string        `env:"JWT_SECRET_KEY"`
	LogLevel       string        `env:"LOG_LEVEL"                envDefault:"info"`

	SeedingPolicy      models.SeedingPolicy `env:"SEEDING_POLICY"       envDefault:"insertion"`
	CORSAllowedOrigins []string             `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`

	Scraper ScraperConfig
	Export  ExportConfig
}

type ScraperConfig struct {
	Mode        string        `env:"SCRAPER_MODE"         envDefault:"browser"`
	BrowserBin  string        `env:"SCRAPER_BROWSER_BIN"`
	CacheBucket string        `env:"SCRAPER_CACHE_BUCKET"`
	CacheTTL    time.Duration `env:"SCRAPER_CACHE_TTL"    envDefault:"1h"`
	UserAgent   string        `env:"SCRAPER_USER_AGENT"   envDefault:"bracket-builder/1.0"`
	Timeout     time.Duration `env:"SCRAPER_TIMEOUT"      envDefault:"30s"`
}

// ExportConfig points at an S3-compatible bucket (AWS S3 or Cloudflare R2).
// Publishing is disabled while Bucket is empty.
type ExportConfig struct {
	Bucket          string `env:"EXPORT_BUCKET"`
	Endpoint        string `env:"EXPORT_ENDPOINT"`
	AccessKeyID     string `env:"EXPORT_ACCESS_KEY_ID"`
	SecretAccessKey string `env:"EXPORT_SECRET_ACCESS_KEY"`
	Region          string `env:"EXPORT_REGION"            envDefault:"auto"`
	PublicBaseURL   string `env:"EXPORT_PUBLIC_BASE_URL"`
	UsePathStyle    bool   `env:"EXPORT_USE_PATH_STYLE"`
}

func (e ExportConfig) Enabled() bool {
	return e.Bucket != ""
}

// Parse reads the environment without validating it. A .env file in the
// working directory is loaded first when present.
func Parse() (*Config, error) {
	// Ошибку не считаем фатальной: .env нужен только для локальной разработки.
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	cfg.DatabaseDriver = strings.ToLower(strings.TrimSpace(cfg.DatabaseDriver))
	cfg.Scraper.Mode = strings.ToLower(strings.TrimSpace(cfg.Scraper.Mode))
	return &cfg, nil
}

// Load parses and validates the configuration of the HTTP server.
func Load() (*Config, error) {
	cfg, err := Parse()
	if err != nil {
		return nil, err
	}
	if err := cfg.ValidateServer(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings every entrypoint needs.
func (c *Config) Validate() error {
	var errs []error
	if c.DatabaseURL == "" {
		errs = append(errs, errors.New("DATABASE_URL environment variable is not set"))
	}
	if c.DatabaseDriver != DriverPostgres && c.DatabaseDriver != DriverSQLite {
		errs = append(errs, fmt.Errorf("DATABASE_DRIVER must be %q or %q, got %q", DriverPostgres, DriverSQLite, c.DatabaseDriver))
	}
	if c.ServerPort <= 0 || c.ServerPort > 65535 {
		errs = append(errs, fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", c.ServerPort))
	}
	if !c.SeedingPolicy.Valid() {
		errs = append(errs, fmt.Errorf("SEEDING_POLICY %q is not supported", c.SeedingPolicy))
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	if c.Scraper.Mode != ScraperModeBrowser && c.Scraper.Mode != ScraperModeHTTP {
		errs = append(errs, fmt.Errorf("SCRAPER_MODE must be %q or %q, got %q", ScraperModeBrowser, ScraperModeHTTP, c.Scraper.Mode))
	}
	if c.Scraper.CacheTTL < 0 {
		errs = append(errs, fmt.Errorf("SCRAPER_CACHE_TTL must not be negative, got %s", c.Scraper.CacheTTL))
	}
	if c.Export.Enabled() && c.Export.PublicBaseURL == "" {
		errs = append(errs, errors.New("EXPORT_PUBLIC_BASE_URL is required when EXPORT_BUCKET is set"))
	}
	return errors.Join(errs...)
}

// ValidateServer is Validate plus the settings only the server needs.
func (c *Config) ValidateServer() error {
	err := c.Validate()
	if c.JWTSecretKey == "" {
		err = errors.Join(err, errors.New("JWT_SECRET_KEY environment variable is not set"))
	}
	return err
}

// SlogLevel returns the configured log level, info when it is not valid.
func (c *Config) SlogLevel() slog.Level {
	level, err := parseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}
	return level
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("LOG_LEVEL %q is not a valid level", s)
	}
	return level, nil
}
