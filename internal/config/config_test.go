package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "8080" || cfg.Catalog.Source != "mongo" || cfg.Submission.Sink != "store" {
		t.Fatalf("cfg = %+v", cfg)
	}
	if !cfg.StrictAnswers {
		t.Fatal("strict answers should default to true")
	}
	if cfg.SessionTTL != 24*time.Hour || cfg.Catalog.CacheTTL != 5*time.Minute {
		t.Fatalf("ttls = %v, %v", cfg.SessionTTL, cfg.Catalog.CacheTTL)
	}
	if len(cfg.CORS.AllowedOrigins) != 1 || cfg.CORS.AllowedOrigins[0] != "*" {
		t.Fatalf("cors origins = %q", cfg.CORS.AllowedOrigins)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("REDIS_URI", "redis://cache:6380")
	t.Setenv("CATALOG_SOURCE", "SQL")
	t.Setenv("CATALOG_SQL_DRIVER", "sqlite")
	t.Setenv("CATALOG_SQL_DSN", "file:kesg.db")
	t.Setenv("SESSION_TTL", "90s")
	t.Setenv("SUBMISSION_SINK", "http")
	t.Setenv("SUBMISSION_URL", "http://assessment:8000/submit")
	t.Setenv("SUBMISSION_TIMEOUT", "3s")
	t.Setenv("ASSESSMENT_STRICT_ANSWERS", "false")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://esg.example.com, http://localhost:3000")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.RedisAddr != "cache:6380" {
		t.Fatalf("redis addr = %q", cfg.RedisAddr)
	}
	if cfg.Catalog.Source != "sql" || cfg.Catalog.SQLDriver != "sqlite" {
		t.Fatalf("catalog = %+v", cfg.Catalog)
	}
	if cfg.SessionTTL != 90*time.Second || cfg.Submission.Timeout != 3*time.Second {
		t.Fatalf("durations = %v, %v", cfg.SessionTTL, cfg.Submission.Timeout)
	}
	if cfg.StrictAnswers {
		t.Fatal("strict answers should be disabled")
	}
	if got := cfg.CORS.AllowedOrigins; len(got) != 2 || got[1] != "http://localhost:3000" {
		t.Fatalf("cors origins = %q", got)
	}
}

func TestLoadRejectsInvalidCombinations(t *testing.T) {
	cases := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"missing secret", map[string]string{}, "JWT_SECRET"},
		{"unknown source", map[string]string{"JWT_SECRET": "x", "CATALOG_SOURCE": "csv"}, "CATALOG_SOURCE"},
		{"sql without dsn", map[string]string{"JWT_SECRET": "x", "CATALOG_SOURCE": "sql"}, "CATALOG_SQL_DSN"},
		{"http without url", map[string]string{"JWT_SECRET": "x", "CATALOG_SOURCE": "http"}, "CATALOG_HTTP_URL"},
		{"http sink without url", map[string]string{"JWT_SECRET": "x", "SUBMISSION_SINK": "http"}, "SUBMISSION_URL"},
		{"bad duration", map[string]string{"JWT_SECRET": "x", "SESSION_TTL": "soon"}, "parse env"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("JWT_SECRET", "")
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("err = %v, want mention of %s", err, tc.want)
			}
		})
	}
}
