package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, key := range []string{
		"APP_ENV", "RENDER_BASE_URL", "RENDER_HTTP_TIMEOUT_SECONDS", "LISTEN_ADDR",
		"HTTP_READ_TIMEOUT_SECONDS", "HTTP_WRITE_TIMEOUT_SECONDS", "HTTP_IDLE_TIMEOUT_SECONDS", "MAX_UPLOAD_MB", "SESSION_IDLE_TIMEOUT_MINUTES",
	} {
		t.Setenv(key, "")
	}
}

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	chdir(t, t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "production", cfg.AppEnv)
	assert.False(t, cfg.IsDevelopment())
	assert.Equal(t, "http://127.0.0.1:5000", cfg.RenderBaseURL)
	assert.Zero(t, cfg.RenderTimeout)
	assert.Equal(t, "127.0.0.1:3000", cfg.HTTP.ListenAddr)
	assert.Equal(t, "http://127.0.0.1:3000", cfg.Origin())
	assert.Equal(t, 15*time.Second, cfg.HTTP.ReadTimeout)
	assert.Equal(t, int64(32<<20), cfg.MaxUploadBytes())
	assert.Equal(t, time.Hour, cfg.HTTP.SessionIdleTimeout)
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	chdir(t, t.TempDir())
	t.Setenv("APP_ENV", "development")
	t.Setenv("RENDER_BASE_URL", "https://render.example.com")
	t.Setenv("RENDER_HTTP_TIMEOUT_SECONDS", "90")
	t.Setenv("LISTEN_ADDR", "0.0.0.0:8088")
	t.Setenv("MAX_UPLOAD_MB", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, "https://render.example.com", cfg.RenderBaseURL)
	assert.Equal(t, 90*time.Second, cfg.RenderTimeout)
	assert.Equal(t, "0.0.0.0:8088", cfg.HTTP.ListenAddr)
	assert.Equal(t, 32, cfg.HTTP.MaxUploadMB, "unparsable ints fall back to the default")
}

func TestLoadRejectsBadBaseURL(t *testing.T) {
	clearEnv(t)
	chdir(t, t.TempDir())

	for _, raw := range []string{"127.0.0.1:5000", "ftp://host", "http://"} {
		t.Setenv("RENDER_BASE_URL", raw)
		_, err := Load()
		assert.Error(t, err, raw)
	}
}

func TestLoadSessionIdleTimeout(t *testing.T) {
	clearEnv(t)
	chdir(t, t.TempDir())

	t.Setenv("SESSION_IDLE_TIMEOUT_MINUTES", "5")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 5*time.Minute, cfg.HTTP.SessionIdleTimeout)

	t.Setenv("SESSION_IDLE_TIMEOUT_MINUTES", "-1")
	_, err = Load()
	assert.Error(t, err)
}
