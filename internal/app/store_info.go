package app

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// StoreInfo describes a session database DSN without its password.
type StoreInfo struct {
	Type        string `json:"type"`
	Host        string `json:"host,omitempty"`
	Port        int    `json:"port,omitempty"`
	User        string `json:"user,omitempty"`
	Name        string `json:"name,omitempty"`
	SSLMode     string `json:"ssl_mode,omitempty"`
	Path        string `json:"path,omitempty"`
	PasswordSet bool   `json:"password_set"`
}

// String renders the info for logs.
func (s StoreInfo) String() string {
	if s.Type == "sqlite" {
		return "sqlite " + s.Path
	}
	return fmt.Sprintf("postgres %s@%s:%d/%s (sslmode=%s)", s.User, s.Host, s.Port, s.Name, s.SSLMode)
}

// DescribeSessionStore parses dsn into a StoreInfo.
func DescribeSessionStore(dsn string) (StoreInfo, error) {
	trimmed := strings.TrimSpace(dsn)
	if trimmed == "" {
		return StoreInfo{}, fmt.Errorf("empty dsn")
	}

	lowered := strings.ToLower(trimmed)
	if strings.HasPrefix(lowered, "file:") {
		pathPart := trimmed[len("file:"):]
		pathPart, _, _ = strings.Cut(pathPart, "?")
		return StoreInfo{Type: "sqlite", Path: strings.TrimSpace(pathPart)}, nil
	}

	u, errParse := url.Parse(trimmed)
	if errParse != nil {
		return StoreInfo{}, fmt.Errorf("parse dsn: %w", errParse)
	}

	switch strings.ToLower(strings.TrimSpace(u.Scheme)) {
	case "postgres", "postgresql":
		port := 5432
		if rawPort := strings.TrimSpace(u.Port()); rawPort != "" {
			parsedPort, errPort := strconv.Atoi(rawPort)
			if errPort != nil {
				return StoreInfo{}, fmt.Errorf("parse port: %w", errPort)
			}
			port = parsedPort
		}

		info := StoreInfo{
			Type:    "postgres",
			Host:    strings.TrimSpace(u.Hostname()),
			Port:    port,
			Name:    strings.TrimSpace(strings.TrimPrefix(u.Path, "/")),
			SSLMode: strings.TrimSpace(u.Query().Get("sslmode")),
		}
		if u.User != nil {
			info.User = strings.TrimSpace(u.User.Username())
			_, info.PasswordSet = u.User.Password()
		}
		if info.SSLMode == "" {
			info.SSLMode = "disable"
		}
		return info, nil
	default:
		return StoreInfo{}, fmt.Errorf("unsupported dsn scheme")
	}
}
