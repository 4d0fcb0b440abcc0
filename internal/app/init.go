package app

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/router-for-me/ModelMarket/internal/config"
	"github.com/router-for-me/ModelMarket/internal/db"
	"github.com/router-for-me/ModelMarket/internal/security"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// InitRequest contains parameters for writing a first config file.
type InitRequest struct {
	APIBaseURL       string `json:"api_base_url"`
	DatabaseType     string `json:"database_type"`
	DatabaseHost     string `json:"database_host"`
	DatabasePort     int    `json:"database_port"`
	DatabaseUser     string `json:"database_user"`
	DatabasePassword string `json:"database_password"`
	DatabaseName     string `json:"database_name"`
	DatabasePath     string `json:"database_path"`
	DatabaseSSLMode  string `json:"database_ssl_mode"`
	ConsolePort      int    `json:"console_port"`
}

// ErrConfigExists is returned when InitConfig would overwrite an existing file.
var ErrConfigExists = errors.New("config file already exists")

// ConfigExists reports whether the config file exists at the path.
func ConfigExists(configPath string) bool {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return false
	}
	return true
}

// defaultSQLitePath is the default SQLite session database file name.
const defaultSQLitePath = "market-session.db"

// BuildDSN builds a session database DSN from the init request.
func BuildDSN(req InitRequest) (string, error) {
	switch strings.ToLower(strings.TrimSpace(req.DatabaseType)) {
	case "", "sqlite":
		return buildSQLiteDSN(req.DatabasePath), nil
	case "postgres":
		sslMode := req.DatabaseSSLMode
		if sslMode == "" {
			sslMode = "disable"
		}
		u := url.URL{
			Scheme:   "postgres",
			User:     url.UserPassword(req.DatabaseUser, req.DatabasePassword),
			Host:     fmt.Sprintf("%s:%d", req.DatabaseHost, req.DatabasePort),
			Path:     "/" + req.DatabaseName,
			RawQuery: "sslmode=" + url.QueryEscape(sslMode),
		}
		return u.String(), nil
	default:
		return "", fmt.Errorf("unsupported database type")
	}
}

// buildSQLiteDSN constructs a SQLite DSN with default parameters.
func buildSQLiteDSN(path string) string {
	dsn := strings.TrimSpace(path)
	if dsn == "" {
		dsn = defaultSQLitePath
	}
	if !strings.HasPrefix(strings.ToLower(dsn), "file:") {
		dsn = "file:" + dsn
	}
	separator := "?"
	if strings.Contains(dsn, "?") {
		separator = "&"
	}
	return dsn + separator + strings.Join([]string{
		"_busy_timeout=5000",
		"_journal_mode=WAL",
		"_synchronous=NORMAL",
	}, "&")
}

// TestDatabaseConnection validates that the DSN can connect and ping.
func TestDatabaseConnection(dsn string) error {
	conn, err := db.Open(dsn)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	sqlDB, err := conn.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql db: %w", err)
	}
	defer func() {
		if errClose := sqlDB.Close(); errClose != nil {
			log.Errorf("sql db close error: %v", errClose)
		}
	}()
	return sqlDB.Ping()
}

// validateInitRequest normalizes and validates init input data.
func validateInitRequest(req *InitRequest) error {
	req.APIBaseURL = strings.TrimRight(strings.TrimSpace(req.APIBaseURL), "/")
	if req.APIBaseURL == "" {
		return fmt.Errorf("API base URL is required")
	}
	parsed, errParse := url.Parse(req.APIBaseURL)
	if errParse != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("API base URL must be an absolute URL")
	}

	dbType := strings.ToLower(strings.TrimSpace(req.DatabaseType))
	if dbType == "" {
		dbType = "sqlite"
	}
	req.DatabaseType = dbType

	switch dbType {
	case "postgres":
		if strings.TrimSpace(req.DatabaseHost) == "" {
			return fmt.Errorf("Database host is required")
		}
		if req.DatabasePort <= 0 {
			req.DatabasePort = 5432
		}
		if strings.TrimSpace(req.DatabaseUser) == "" {
			return fmt.Errorf("Database username is required")
		}
		if strings.TrimSpace(req.DatabaseName) == "" {
			return fmt.Errorf("Database name is required")
		}
	case "sqlite":
		if strings.TrimSpace(req.DatabasePath) == "" {
			req.DatabasePath = defaultSQLitePath
		}
	default:
		return fmt.Errorf("Unsupported database type")
	}

	if req.ConsolePort <= 0 {
		req.ConsolePort = config.DefaultConsolePort
	}
	if req.ConsolePort > 65535 {
		return fmt.Errorf("Invalid console port")
	}
	return nil
}

// configFile maps YAML fields for the generated config file.
type configFile struct {
	Debug         bool       `yaml:"debug"`
	LoggingToFile bool       `yaml:"logging-to-file"`
	API           apiCfg     `yaml:"api"`
	Session       sessionCfg `yaml:"session"`
	Console       consoleCfg `yaml:"console"`
}

type apiCfg struct {
	BaseURL string `yaml:"base-url"`
	Timeout string `yaml:"timeout"`
}

type sessionCfg struct {
	DSN    string `yaml:"dsn"`
	Expiry string `yaml:"expiry"`
	Secret string `yaml:"secret"`
}

type consoleCfg struct {
	Host      string `yaml:"host"`
	Port      int    `yaml:"port"`
	RateLimit int    `yaml:"rate-limit"`
}

// generateSessionSecret creates a random secret for sealing stored session values.
func generateSessionSecret() string {
	secret, err := security.GenerateRandomString(32)
	if err != nil {
		return "change-me-to-a-secure-random-string"
	}
	return secret
}

// WriteConfigFile writes the initial config file to disk.
func WriteConfigFile(configPath string, req InitRequest, dsn string) error {
	cfg := configFile{
		API: apiCfg{
			BaseURL: req.APIBaseURL,
			Timeout: "30s",
		},
		Session: sessionCfg{
			DSN:    dsn,
			Expiry: config.DefaultSessionExpiry.String(),
			Secret: generateSessionSecret(),
		},
		Console: consoleCfg{
			Host: "127.0.0.1",
			Port: req.ConsolePort,
		},
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	dir := filepath.Dir(configPath)
	if errMkdir := os.MkdirAll(dir, 0755); errMkdir != nil {
		return fmt.Errorf("create config dir: %w", errMkdir)
	}

	if errWrite := os.WriteFile(configPath, data, 0600); errWrite != nil {
		return fmt.Errorf("write config file: %w", errWrite)
	}

	return nil
}

// InitConfig validates req, checks the session database, and writes a new config file.
func InitConfig(configPath string, req InitRequest) (string, error) {
	if ConfigExists(configPath) {
		return "", ErrConfigExists
	}
	if errValidate := validateInitRequest(&req); errValidate != nil {
		return "", errValidate
	}
	dsn, errBuild := BuildDSN(req)
	if errBuild != nil {
		return "", errBuild
	}
	if errTest := TestDatabaseConnection(dsn); errTest != nil {
		return "", fmt.Errorf("Database connection failed: %w", errTest)
	}
	if errWrite := WriteConfigFile(configPath, req, dsn); errWrite != nil {
		return "", errWrite
	}
	log.Infof("wrote config to %s", configPath)
	return dsn, nil
}
