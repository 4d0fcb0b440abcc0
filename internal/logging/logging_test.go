package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/router-for-me/ModelMarket/internal/config"
	log "github.com/sirupsen/logrus"
)

func TestSetup_FileOutput(t *testing.T) {
	dir := t.TempDir()
	closer, err := Setup(config.LoggingConfig{Debug: true, LoggingToFile: true, LogDir: dir})
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	t.Cleanup(func() {
		_ = closer.Close()
		log.SetOutput(os.Stderr)
		log.SetLevel(log.InfoLevel)
	})

	if log.GetLevel() != log.DebugLevel {
		t.Fatalf("expected debug level, got %s", log.GetLevel())
	}
	log.Info("logging: test line")
	if _, errStat := os.Stat(filepath.Join(dir, "market.log")); errStat != nil {
		t.Fatalf("expected log file, got %v", errStat)
	}
}

func TestApplyLevel(t *testing.T) {
	t.Cleanup(func() { log.SetLevel(log.InfoLevel) })
	ApplyLevel(true)
	if log.GetLevel() != log.DebugLevel {
		t.Fatalf("expected debug level")
	}
	ApplyLevel(false)
	if log.GetLevel() != log.InfoLevel {
		t.Fatalf("expected info level")
	}
}
