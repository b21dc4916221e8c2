// Package config loads application configuration from environment variables.
package config

import (
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
)

const (
	defaultListenAddr = "127.0.0.1:8080"
	defaultDBPath     = "codehub.db"
	defaultPageSize   = 30
	maxPageSize       = 100
	defaultLocale     = "en"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	GitHubToken  string
	GitHubAPIURL string // Empty for github.com.
	ListenAddr   string
	DBPath       string
	SecretKey    []byte // nil when CODEHUB_SECRET_KEY is unset; accounts cannot be stored.
	PageSize     int
	Locale       string
	LogLevel     slog.Level
}

// HasGitHubToken returns true when a token was provided in the environment.
// The composition root uses it to decide whether to bind a client at startup
// or fall back to the stored active account.
func (c *Config) HasGitHubToken() bool {
	return c.GitHubToken != ""
}

// Load reads configuration from environment variables and returns a validated Config.
// All variables are optional. Defaults: CODEHUB_LISTEN_ADDR (127.0.0.1:8080),
// CODEHUB_DB_PATH (codehub.db), CODEHUB_PAGE_SIZE (30), CODEHUB_LOCALE (en),
// CODEHUB_LOG_LEVEL (info). CODEHUB_SECRET_KEY must be 64 hex characters when set.
func Load() (*Config, error) {
	cfg := &Config{
		GitHubToken:  os.Getenv("CODEHUB_GITHUB_TOKEN"),
		GitHubAPIURL: os.Getenv("CODEHUB_GITHUB_API_URL"),
		ListenAddr:   defaultListenAddr,
		DBPath:       defaultDBPath,
		PageSize:     defaultPageSize,
		Locale:       defaultLocale,
		LogLevel:     slog.LevelInfo,
	}

	if v, ok := os.LookupEnv("CODEHUB_LISTEN_ADDR"); ok && v != "" {
		cfg.ListenAddr = v
	}

	if v, ok := os.LookupEnv("CODEHUB_DB_PATH"); ok && v != "" {
		cfg.DBPath = v
	}

	if v, ok := os.LookupEnv("CODEHUB_SECRET_KEY"); ok && v != "" {
		key, err := hex.DecodeString(v)
		if err != nil {
			return nil, fmt.Errorf("CODEHUB_SECRET_KEY is not valid hex: %w", err)
		}
		if len(key) != 32 {
			return nil, fmt.Errorf("CODEHUB_SECRET_KEY must be 64 hex characters (32 bytes), got %d bytes", len(key))
		}
		cfg.SecretKey = key
	}

	if v, ok := os.LookupEnv("CODEHUB_PAGE_SIZE"); ok && v != "" {
		size, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("CODEHUB_PAGE_SIZE has invalid value %q: %w", v, err)
		}
		if size < 1 || size > maxPageSize {
			return nil, fmt.Errorf("CODEHUB_PAGE_SIZE must be between 1 and %d, got %d", maxPageSize, size)
		}
		cfg.PageSize = size
	}

	if v, ok := os.LookupEnv("CODEHUB_LOCALE"); ok && v != "" {
		cfg.Locale = v
	}

	if v, ok := os.LookupEnv("CODEHUB_LOG_LEVEL"); ok && v != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(strings.ToUpper(v))); err != nil {
			return nil, fmt.Errorf("CODEHUB_LOG_LEVEL has invalid level %q: %w", v, err)
		}
	}

	return cfg, nil
}
