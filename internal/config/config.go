// Package config reads siteplan settings from the environment.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Config holds process-wide settings.
type Config struct {
	// DBPath is the SQLite file. Empty means ~/.siteplan/siteplan.db.
	DBPath      string
	LogLevel    slog.Level
	LogFormat   string // "text" or "json"
	LogUseCases bool
	Notify      bool
}

// DefaultConfig returns the settings used when no variables are set.
func DefaultConfig() Config {
	return Config{
		LogLevel:  slog.LevelWarn,
		LogFormat: "text",
		Notify:    true,
	}
}

// LoadConfig reads configuration from environment variables,
// falling back to defaults for any unset or malformed values.
func LoadConfig() Config {
	cfg := DefaultConfig()

	if v := os.Getenv("SITEPLAN_DB"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("SITEPLAN_LOG_LEVEL"); v != "" {
		if lvl, err := ParseLevel(v); err == nil {
			cfg.LogLevel = lvl
		}
	}
	if v := strings.ToLower(os.Getenv("SITEPLAN_LOG_FORMAT")); v == "text" || v == "json" {
		cfg.LogFormat = v
	}
	if v := os.Getenv("SITEPLAN_LOG_USE_CASES"); v != "" {
		cfg.LogUseCases, _ = strconv.ParseBool(v)
	}
	if v := os.Getenv("SITEPLAN_NOTIFY"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Notify = b
		}
	}

	return cfg
}

// DatabasePath resolves DBPath, defaulting under the user's home directory.
func (c Config) DatabasePath() (string, error) {
	if c.DBPath != "" {
		return c.DBPath, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("finding home directory: %w", err)
	}
	return filepath.Join(home, ".siteplan", "siteplan.db"), nil
}

// ParseLevel accepts debug, info, warn (or warning) and error.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("invalid log level %q", s)
}

// NewLogger builds the process logger writing to w.
func (c Config) NewLogger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.LogLevel}
	if c.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
