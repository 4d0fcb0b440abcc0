package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	EnvConfigPath    = "CONFIG_PATH"
	EnvAPIBaseURL    = "MARKET_API_BASE_URL"
	EnvAPITimeout    = "MARKET_API_TIMEOUT"
	EnvSessionDSN    = "SESSION_DSN"
	EnvSessionSecret = "SESSION_SECRET"
	EnvConsolePort   = "CONSOLE_PORT"
)

// AppConfig holds resolved application configuration values.
type AppConfig struct {
	ConfigPath string
}

// LoadFromEnv loads app config from environment variables.
func LoadFromEnv() (AppConfig, error) {
	return AppConfig{ConfigPath: ResolveConfigPath(os.Getenv(EnvConfigPath))}, nil
}

// ResolveConfigPath normalizes the config path and applies defaults.
func ResolveConfigPath(p string) string {
	trimmed := strings.TrimSpace(p)
	if trimmed == "" {
		trimmed = "./config.yaml"
	}
	if abs, err := filepath.Abs(trimmed); err == nil {
		return abs
	}
	return trimmed
}

// ErrMissingAPIBaseURL indicates no backend address is configured.
var ErrMissingAPIBaseURL = errors.New("missing api base url (set `api.base-url` in config file or MARKET_API_BASE_URL)")

// Defaults applied when the config file omits a value.
const (
	DefaultSessionExpiry = 7 * 24 * time.Hour
	DefaultSessionDSN    = "file:market-session.db?_busy_timeout=5000&_journal_mode=WAL"
	DefaultConsolePort   = 8320
	DefaultRedisPrefix   = "market:rl"
)

// APIConfig holds the backend address and transport settings.
type APIConfig struct {
	BaseURL string            `yaml:"base-url"`
	Timeout time.Duration     `yaml:"timeout"`
	Headers map[string]string `yaml:"headers"`
}

// SessionConfig holds the durable session store settings.
type SessionConfig struct {
	DSN    string        `yaml:"dsn"`
	Expiry time.Duration `yaml:"expiry"`
	Secret string        `yaml:"secret"`
}

// RedisConfig configures the shared console rate limiter.
type RedisConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Prefix   string `yaml:"prefix"`
}

// ConsoleConfig holds the local console server settings.
type ConsoleConfig struct {
	Host      string      `yaml:"host"`
	Port      int         `yaml:"port"`
	RateLimit int         `yaml:"rate-limit"`
	Redis     RedisConfig `yaml:"redis"`
}

// LoggingConfig holds log level and output settings.
type LoggingConfig struct {
	Debug         bool   `yaml:"debug"`
	LoggingToFile bool   `yaml:"logging-to-file"`
	LogDir        string `yaml:"log-dir"`
}

// fileConfig maps the full YAML config file.
type fileConfig struct {
	Debug         bool          `yaml:"debug"`
	LoggingToFile bool          `yaml:"logging-to-file"`
	LogDir        string        `yaml:"log-dir"`
	API           APIConfig     `yaml:"api"`
	Session       SessionConfig `yaml:"session"`
	Console       ConsoleConfig `yaml:"console"`
}

// readFileConfig parses the config file. A missing file yields an empty config.
func readFileConfig(configPath string) (fileConfig, error) {
	var cfg fileConfig
	data, errRead := os.ReadFile(configPath)
	if errRead != nil {
		if errors.Is(errRead, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config file: %w", errRead)
	}
	if errUnmarshal := yaml.Unmarshal(data, &cfg); errUnmarshal != nil {
		return cfg, fmt.Errorf("parse config file: %w", errUnmarshal)
	}
	return cfg, nil
}

// LoadAPIConfig loads backend settings from the YAML config file and environment.
func LoadAPIConfig(configPath string) (APIConfig, error) {
	cfg, err := readFileConfig(configPath)
	if err != nil {
		return APIConfig{}, err
	}
	result := cfg.API

	if baseURL := strings.TrimSpace(os.Getenv(EnvAPIBaseURL)); baseURL != "" {
		result.BaseURL = baseURL
	}
	if timeoutRaw := strings.TrimSpace(os.Getenv(EnvAPITimeout)); timeoutRaw != "" {
		if timeout, errParse := time.ParseDuration(timeoutRaw); errParse == nil && timeout >= 0 {
			result.Timeout = timeout
		}
	}

	result.BaseURL = strings.TrimRight(strings.TrimSpace(result.BaseURL), "/")
	if result.BaseURL == "" {
		return result, ErrMissingAPIBaseURL
	}
	if result.Timeout < 0 {
		result.Timeout = 0
	}
	return result, nil
}

// LoadSessionConfig loads session store settings from the YAML config file and environment.
func LoadSessionConfig(configPath string) (SessionConfig, error) {
	cfg, err := readFileConfig(configPath)
	if err != nil {
		return SessionConfig{}, err
	}
	result := cfg.Session

	if dsn := strings.TrimSpace(os.Getenv(EnvSessionDSN)); dsn != "" {
		result.DSN = dsn
	}
	if secret := strings.TrimSpace(os.Getenv(EnvSessionSecret)); secret != "" {
		result.Secret = secret
	}

	result.DSN = strings.TrimSpace(result.DSN)
	if result.DSN == "" {
		result.DSN = DefaultSessionDSN
	}
	if result.Expiry <= 0 {
		result.Expiry = DefaultSessionExpiry
	}
	return result, nil
}

// LoadConsoleConfig loads console server settings from the YAML config file and environment.
func LoadConsoleConfig(configPath string) (ConsoleConfig, error) {
	cfg, err := readFileConfig(configPath)
	if err != nil {
		return ConsoleConfig{}, err
	}
	result := cfg.Console

	if portRaw := strings.TrimSpace(os.Getenv(EnvConsolePort)); portRaw != "" {
		if port, errParse := strconv.Atoi(portRaw); errParse == nil {
			result.Port = port
		}
	}
	if result.Port <= 0 {
		result.Port = DefaultConsolePort
	}
	if result.RateLimit < 0 {
		result.RateLimit = 0
	}
	result.Redis.Addr = strings.TrimSpace(result.Redis.Addr)
	result.Redis.Prefix = strings.TrimSpace(result.Redis.Prefix)
	if result.Redis.Prefix == "" {
		result.Redis.Prefix = DefaultRedisPrefix
	}
	if result.Redis.DB < 0 {
		result.Redis.DB = 0
	}
	return result, nil
}

// LoadLoggingConfig loads logging settings from the YAML config file.
func LoadLoggingConfig(configPath string) (LoggingConfig, error) {
	cfg, err := readFileConfig(configPath)
	if err != nil {
		return LoggingConfig{}, err
	}
	return LoggingConfig{
		Debug:         cfg.Debug,
		LoggingToFile: cfg.LoggingToFile,
		LogDir:        strings.TrimSpace(cfg.LogDir),
	}, nil
}

// Address returns the listen address for the console server.
func (c ConsoleConfig) Address() string {
	return fmt.Sprintf("%s:%d", strings.TrimSpace(c.Host), c.Port)
}
