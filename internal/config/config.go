package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// CatalogConfig selects and tunes the primary question source
type CatalogConfig struct {
	// Source is one of "mongo", "sql" or "http"
	Source string `json:"source" env:"CATALOG_SOURCE" envDefault:"mongo"`

	// SQLDriver is "postgres" or "sqlite" when Source is "sql"
	SQLDriver string `json:"sqlDriver" env:"CATALOG_SQL_DRIVER" envDefault:"postgres"`
	SQLDSN    string `json:"-" env:"CATALOG_SQL_DSN"`

	// HTTPURL is the base URL of a remote assessment service
	HTTPURL string `json:"httpUrl" env:"CATALOG_HTTP_URL"`

	// CacheTTL bounds how long a loaded primary catalog is reused
	CacheTTL time.Duration `json:"cacheTtl" env:"CATALOG_CACHE_TTL" envDefault:"5m"`
}

// SubmissionConfig selects where finished payloads are delivered
type SubmissionConfig struct {
	// Sink is "store" (Mongo submissions collection) or "http"
	Sink    string        `json:"sink" env:"SUBMISSION_SINK" envDefault:"store"`
	URL     string        `json:"url" env:"SUBMISSION_URL"`
	Timeout time.Duration `json:"timeout" env:"SUBMISSION_TIMEOUT" envDefault:"10s"`
}

// CORSConfig holds the allowed origins, methods and headers
type CORSConfig struct {
	AllowedOrigins []string `json:"allowedOrigins" env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`
	AllowedMethods []string `json:"allowedMethods" env:"CORS_ALLOWED_METHODS" envDefault:"GET,POST,PUT,DELETE,OPTIONS" envSeparator:","`
	AllowedHeaders []string `json:"allowedHeaders" env:"CORS_ALLOWED_HEADERS" envDefault:"Content-Type,Authorization" envSeparator:","`
}

// Config holds all server configuration
type Config struct {
	Port      string `json:"port" env:"PORT" envDefault:"8080"`
	MongoURI  string `json:"-" env:"MONGO_URI" envDefault:"mongodb://localhost:27017"`
	MongoDB   string `json:"mongoDb" env:"MONGO_DB" envDefault:"esgcheck"`
	RedisAddr string `json:"redisAddr" env:"REDIS_URI" envDefault:"localhost:6379"`

	JWTSecret string        `json:"-" env:"JWT_SECRET"` // Never serialize
	TokenTTL  time.Duration `json:"tokenTtl" env:"TOKEN_TTL" envDefault:"24h"`

	SessionTTL    time.Duration `json:"sessionTtl" env:"SESSION_TTL" envDefault:"24h"`
	ReportTTL     time.Duration `json:"reportTtl" env:"REPORT_TTL" envDefault:"720h"`
	StrictAnswers bool          `json:"strictAnswers" env:"ASSESSMENT_STRICT_ANSWERS" envDefault:"true"`

	Catalog    CatalogConfig    `json:"catalog"`
	Submission SubmissionConfig `json:"submission"`
	CORS       CORSConfig       `json:"cors"`
}

// Load reads configuration from the environment
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	// Remove redis:// prefix if present
	cfg.RedisAddr = strings.TrimPrefix(cfg.RedisAddr, "redis://")
	cfg.Catalog.Source = strings.ToLower(cfg.Catalog.Source)
	cfg.Catalog.SQLDriver = strings.ToLower(cfg.Catalog.SQLDriver)
	cfg.Catalog.HTTPURL = strings.TrimRight(cfg.Catalog.HTTPURL, "/")
	cfg.Submission.Sink = strings.ToLower(cfg.Submission.Sink)
	trimAll(cfg.CORS.AllowedOrigins)
	trimAll(cfg.CORS.AllowedMethods)
	trimAll(cfg.CORS.AllowedHeaders)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}

	switch c.Catalog.Source {
	case "mongo":
	case "sql":
		if c.Catalog.SQLDriver != "postgres" && c.Catalog.SQLDriver != "sqlite" {
			return fmt.Errorf("CATALOG_SQL_DRIVER must be postgres or sqlite, got %q", c.Catalog.SQLDriver)
		}
		if c.Catalog.SQLDSN == "" {
			return fmt.Errorf("CATALOG_SQL_DSN is required when CATALOG_SOURCE=sql")
		}
	case "http":
		if c.Catalog.HTTPURL == "" {
			return fmt.Errorf("CATALOG_HTTP_URL is required when CATALOG_SOURCE=http")
		}
	default:
		return fmt.Errorf("CATALOG_SOURCE must be mongo, sql or http, got %q", c.Catalog.Source)
	}

	switch c.Submission.Sink {
	case "store":
	case "http":
		if c.Submission.URL == "" {
			return fmt.Errorf("SUBMISSION_URL is required when SUBMISSION_SINK=http")
		}
	default:
		return fmt.Errorf("SUBMISSION_SINK must be store or http, got %q", c.Submission.Sink)
	}
	return nil
}

func trimAll(values []string) {
	for i, v := range values {
		values[i] = strings.TrimSpace(v)
	}
}
