package ratelimit

import (
	"strings"
	"sync/atomic"

	"github.com/router-for-me/ModelMarket/internal/config"
)

// SettingsConfig captures the console rate limit settings.
type SettingsConfig struct {
	Limit         int
	RedisEnabled  bool
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisPrefix   string
}

// SettingsFromConsole maps console config into limiter settings.
func SettingsFromConsole(cfg config.ConsoleConfig) SettingsConfig {
	out := SettingsConfig{
		Limit:         cfg.RateLimit,
		RedisEnabled:  cfg.Redis.Enabled,
		RedisAddr:     strings.TrimSpace(cfg.Redis.Addr),
		RedisPassword: strings.TrimSpace(cfg.Redis.Password),
		RedisDB:       cfg.Redis.DB,
		RedisPrefix:   strings.TrimSpace(cfg.Redis.Prefix),
	}
	if out.RedisPrefix == "" {
		out.RedisPrefix = config.DefaultRedisPrefix
	}
	if out.RedisDB < 0 {
		out.RedisDB = 0
	}
	if out.Limit < 0 {
		out.Limit = 0
	}
	return out
}

// SettingsStore holds the current settings snapshot and is safe for concurrent use.
type SettingsStore struct {
	current atomic.Pointer[SettingsConfig]
}

// NewSettingsStore constructs a store seeded with initial.
func NewSettingsStore(initial SettingsConfig) *SettingsStore {
	s := &SettingsStore{}
	s.Update(initial)
	return s
}

// Update replaces the current snapshot.
func (s *SettingsStore) Update(cfg SettingsConfig) {
	s.current.Store(&cfg)
}

// Load returns the current snapshot. It satisfies SettingsProvider.
func (s *SettingsStore) Load() SettingsConfig {
	if s == nil {
		return SettingsConfig{}
	}
	if cfg := s.current.Load(); cfg != nil {
		return *cfg
	}
	return SettingsConfig{}
}
