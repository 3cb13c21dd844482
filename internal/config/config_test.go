package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("API_ORIGIN", "")
	t.Setenv("STORAGE_DRIVER", "")
	t.Setenv("HTTP_CLIENT_TIMEOUT_SECONDS", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.API.Origin != "http://127.0.0.1:8000" {
		t.Errorf("Origin = %q", cfg.API.Origin)
	}
	if cfg.API.TokenURL() != "http://127.0.0.1:8000/auth/token" {
		t.Errorf("TokenURL = %q", cfg.API.TokenURL())
	}
	if cfg.Storage.Driver != "file" {
		t.Errorf("Driver = %q, want file", cfg.Storage.Driver)
	}
	if cfg.API.ClientTimeout() != 0 {
		t.Errorf("ClientTimeout = %v, want transport default", cfg.API.ClientTimeout())
	}
	if !cfg.Session.EagerExpiryLogout {
		t.Error("EagerExpiryLogout should default to true")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("API_ORIGIN", "https://api.jobit.dev/v1/")
	t.Setenv("STORAGE_DRIVER", "Redis")
	t.Setenv("HTTP_CLIENT_TIMEOUT_SECONDS", "15")
	t.Setenv("SESSION_EAGER_EXPIRY_LOGOUT", "false")
	t.Setenv("POSTGRES_MAX_CONNS", "not-a-number")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.API.Origin != "https://api.jobit.dev/v1" {
		t.Errorf("Origin = %q, trailing slash should be trimmed", cfg.API.Origin)
	}
	if cfg.API.TokenURL() != "https://api.jobit.dev/v1/auth/token" {
		t.Errorf("TokenURL = %q", cfg.API.TokenURL())
	}
	if cfg.Storage.Driver != "redis" {
		t.Errorf("Driver = %q", cfg.Storage.Driver)
	}
	if cfg.API.ClientTimeout() != 15*time.Second {
		t.Errorf("ClientTimeout = %v", cfg.API.ClientTimeout())
	}
	if cfg.Session.EagerExpiryLogout {
		t.Error("EagerExpiryLogout should be false")
	}
	if cfg.Storage.MaxConns != 4 {
		t.Errorf("MaxConns = %d, want fallback 4", cfg.Storage.MaxConns)
	}
}

func TestLoadRejectsBadOrigin(t *testing.T) {
	t.Setenv("API_ORIGIN", "api.jobit.dev")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for origin without scheme")
	}
}

func TestLoadRejectsBadRedisDB(t *testing.T) {
	t.Setenv("API_ORIGIN", "")
	t.Setenv("REDIS_DB", "x")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for invalid REDIS_DB")
	}
}
