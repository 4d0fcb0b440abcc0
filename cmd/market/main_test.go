package main

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
)

func TestValidatePort(t *testing.T) {
	for _, port := range []int{-1, 0, 65536} {
		if err := validatePort(port); err == nil {
			t.Fatalf("expected error for port %d", port)
		}
	}
	if err := validatePort(8320); err != nil {
		t.Fatalf("expected port 8320 to be valid, got %v", err)
	}
}

func TestRun_MissingConfig(t *testing.T) {
	t.Setenv("MARKET_API_BASE_URL", "")
	missing := filepath.Join(t.TempDir(), "config.yaml")
	err := run(context.Background(), []string{"--config", missing})
	if err == nil || !strings.Contains(err.Error(), "config not found") {
		t.Fatalf("expected config not found error, got %v", err)
	}
}

func TestRun_InvalidPort(t *testing.T) {
	err := run(context.Background(), []string{"--port", "70000"})
	if err == nil || !strings.Contains(err.Error(), "invalid port") {
		t.Fatalf("expected invalid port error, got %v", err)
	}
}
