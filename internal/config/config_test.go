package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadAPIConfig_EnvOverride(t *testing.T) {
	t.Setenv("MARKET_API_BASE_URL", "https://env.example.com/")
	t.Setenv("MARKET_API_TIMEOUT", "5s")

	configPath := filepath.Join(t.TempDir(), "config.yaml")
	content := "api:\n  base-url: https://file.example.com\n  timeout: 1s\n  headers:\n    X-Client: console\n"
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadAPIConfig(configPath)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.BaseURL != "https://env.example.com" {
		t.Fatalf("expected base url=%q, got %q", "https://env.example.com", cfg.BaseURL)
	}
	if cfg.Timeout != 5*time.Second {
		t.Fatalf("expected timeout=%s, got %s", (5 * time.Second).String(), cfg.Timeout.String())
	}
	if cfg.Headers["X-Client"] != "console" {
		t.Fatalf("expected header X-Client=console, got %q", cfg.Headers["X-Client"])
	}
}

func TestLoadAPIConfig_MissingBaseURL(t *testing.T) {
	t.Setenv("MARKET_API_BASE_URL", "")

	missingPath := filepath.Join(t.TempDir(), "missing.yaml")
	_, err := LoadAPIConfig(missingPath)
	if !errors.Is(err, ErrMissingAPIBaseURL) {
		t.Fatalf("expected ErrMissingAPIBaseURL, got %v", err)
	}
}

func TestLoadSessionConfig_Defaults(t *testing.T) {
	t.Setenv("SESSION_DSN", "")
	t.Setenv("SESSION_SECRET", "")

	cfg, err := LoadSessionConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.DSN != DefaultSessionDSN {
		t.Fatalf("expected dsn=%q, got %q", DefaultSessionDSN, cfg.DSN)
	}
	if cfg.Expiry != 7*24*time.Hour {
		t.Fatalf("expected expiry=168h, got %s", cfg.Expiry.String())
	}
}

func TestLoadSessionConfig_EnvSecret(t *testing.T) {
	t.Setenv("SESSION_SECRET", "env-secret")

	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte("session:\n  secret: file-secret\n  expiry: 2h\n"), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadSessionConfig(configPath)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.Secret != "env-secret" {
		t.Fatalf("expected secret=%q, got %q", "env-secret", cfg.Secret)
	}
	if cfg.Expiry != 2*time.Hour {
		t.Fatalf("expected expiry=2h, got %s", cfg.Expiry.String())
	}
}

func TestLoadConsoleConfig_Defaults(t *testing.T) {
	t.Setenv("CONSOLE_PORT", "")

	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte("console:\n  rate-limit: -3\n  redis:\n    db: -1\n"), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadConsoleConfig(configPath)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.Port != DefaultConsolePort {
		t.Fatalf("expected port=%d, got %d", DefaultConsolePort, cfg.Port)
	}
	if cfg.RateLimit != 0 {
		t.Fatalf("expected rate limit=0, got %d", cfg.RateLimit)
	}
	if cfg.Redis.DB != 0 || cfg.Redis.Prefix != DefaultRedisPrefix {
		t.Fatalf("unexpected redis config: %+v", cfg.Redis)
	}
	if cfg.Address() != ":8320" {
		t.Fatalf("expected address=:8320, got %q", cfg.Address())
	}
}

func TestLoadLoggingConfig_InvalidYAML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte("debug: [unterminated\n"), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := LoadLoggingConfig(configPath); err == nil {
		t.Fatalf("expected parse error, got nil")
	}
}
