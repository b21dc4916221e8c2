package config

import (
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// allConfigKeys lists every CODEHUB_ env var that Load() reads.
var allConfigKeys = []string{
	"CODEHUB_GITHUB_TOKEN",
	"CODEHUB_GITHUB_API_URL",
	"CODEHUB_LISTEN_ADDR",
	"CODEHUB_DB_PATH",
	"CODEHUB_SECRET_KEY",
	"CODEHUB_PAGE_SIZE",
	"CODEHUB_LOCALE",
	"CODEHUB_LOG_LEVEL",
}

// isolateConfigEnv saves and unsets all CODEHUB_ env vars so tests don't
// inherit values from the host environment.
// t.Cleanup restores original values after the test.
func isolateConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range allConfigKeys {
		if orig, ok := os.LookupEnv(key); ok {
			t.Cleanup(func() { os.Setenv(key, orig) })
		} else {
			t.Cleanup(func() { os.Unsetenv(key) })
		}
		os.Unsetenv(key)
	}
}

func TestLoad_Success(t *testing.T) {
	isolateConfigEnv(t)
	t.Setenv("CODEHUB_GITHUB_TOKEN", "ghp_test123")
	t.Setenv("CODEHUB_GITHUB_API_URL", "https://ghe.example.com/api/v3/")
	t.Setenv("CODEHUB_LISTEN_ADDR", "0.0.0.0:9090")
	t.Setenv("CODEHUB_DB_PATH", "/tmp/test.db")
	t.Setenv("CODEHUB_PAGE_SIZE", "50")
	t.Setenv("CODEHUB_LOCALE", "de-DE")
	t.Setenv("CODEHUB_LOG_LEVEL", "debug")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "ghp_test123", cfg.GitHubToken)
	assert.True(t, cfg.HasGitHubToken())
	assert.Equal(t, "https://ghe.example.com/api/v3/", cfg.GitHubAPIURL)
	assert.Equal(t, "0.0.0.0:9090", cfg.ListenAddr)
	assert.Equal(t, "/tmp/test.db", cfg.DBPath)
	assert.Equal(t, 50, cfg.PageSize)
	assert.Equal(t, "de-DE", cfg.Locale)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
}

func TestLoad_Defaults(t *testing.T) {
	isolateConfigEnv(t)

	cfg, err := Load()

	require.NoError(t, err)
	assert.False(t, cfg.HasGitHubToken())
	assert.Empty(t, cfg.GitHubAPIURL)
	assert.Equal(t, "127.0.0.1:8080", cfg.ListenAddr)
	assert.Equal(t, "codehub.db", cfg.DBPath)
	assert.Equal(t, 30, cfg.PageSize)
	assert.Equal(t, "en", cfg.Locale)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Nil(t, cfg.SecretKey)
}

func TestLoad_PageSize(t *testing.T) {
	tests := []struct {
		value   string
		wantErr bool
	}{
		{value: "1"},
		{value: "100"},
		{value: "0", wantErr: true},
		{value: "101", wantErr: true},
		{value: "thirty", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			isolateConfigEnv(t)
			t.Setenv("CODEHUB_PAGE_SIZE", tt.value)

			cfg, err := Load()

			if tt.wantErr {
				assert.Nil(t, cfg)
				require.Error(t, err)
				assert.Contains(t, err.Error(), "CODEHUB_PAGE_SIZE")
				return
			}
			require.NoError(t, err)
			assert.NotZero(t, cfg.PageSize)
		})
	}
}

func TestLoad_InvalidLogLevel(t *testing.T) {
	isolateConfigEnv(t)
	t.Setenv("CODEHUB_LOG_LEVEL", "chatty")

	cfg, err := Load()

	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CODEHUB_LOG_LEVEL")
}

func TestLoad_SecretKey_Valid(t *testing.T) {
	isolateConfigEnv(t)
	// 64 hex chars = 32 bytes
	t.Setenv("CODEHUB_SECRET_KEY", "0102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f20")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Len(t, cfg.SecretKey, 32)
}

func TestLoad_SecretKey_TooShort(t *testing.T) {
	isolateConfigEnv(t)
	t.Setenv("CODEHUB_SECRET_KEY", "deadbeef")

	cfg, err := Load()

	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CODEHUB_SECRET_KEY")
}

func TestLoad_SecretKey_NotHex(t *testing.T) {
	isolateConfigEnv(t)
	// 64 chars but not valid hex
	t.Setenv("CODEHUB_SECRET_KEY", "zzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzz")

	cfg, err := Load()

	assert.Nil(t, cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CODEHUB_SECRET_KEY")
}
