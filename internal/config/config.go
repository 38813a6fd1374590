package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// HTTPConfig holds the local browser UI server configuration
type HTTPConfig struct {
	ListenAddr   string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	MaxUploadMB  int

	// Browser sessions unused for SessionIdleTimeout are closed
	SessionIdleTimeout time.Duration
	SessionSweep       time.Duration
}

// Config holds all configuration for the application
type Config struct {
	AppEnv        string
	RenderBaseURL string
	RenderTimeout time.Duration
	HTTP          HTTPConfig
}

// Load loads the configuration from an optional .env file and environment variables
func Load() (*Config, error) {
	// A missing .env file is fine; anything else is not
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	config := &Config{
		AppEnv:        getEnv("APP_ENV", "production"),
		RenderBaseURL: getEnv("RENDER_BASE_URL", "http://127.0.0.1:5000"),
		RenderTimeout: time.Duration(getEnvInt("RENDER_HTTP_TIMEOUT_SECONDS", 0)) * time.Second,
		HTTP: HTTPConfig{
			ListenAddr:   getEnv("LISTEN_ADDR", "127.0.0.1:3000"),
			ReadTimeout:  time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)) * time.Second,
			WriteTimeout: time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 0)) * time.Second,
			IdleTimeout:  time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)) * time.Second,
			MaxUploadMB:  getEnvInt("MAX_UPLOAD_MB", 32),

			SessionIdleTimeout: time.Duration(getEnvInt("SESSION_IDLE_TIMEOUT_MINUTES", 60)) * time.Minute,
			SessionSweep:       time.Minute,
		},
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks the loaded values
func (c *Config) Validate() error {
	u, err := url.Parse(c.RenderBaseURL)
	if err != nil {
		return fmt.Errorf("RENDER_BASE_URL is invalid: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("RENDER_BASE_URL must be an absolute http(s) URL, got %q", c.RenderBaseURL)
	}
	if c.RenderTimeout < 0 {
		return fmt.Errorf("RENDER_HTTP_TIMEOUT_SECONDS must not be negative")
	}
	if c.HTTP.ListenAddr == "" {
		return fmt.Errorf("LISTEN_ADDR is required")
	}
	if c.HTTP.SessionIdleTimeout <= 0 {
		return fmt.Errorf("SESSION_IDLE_TIMEOUT_MINUTES must be positive")
	}
	if c.HTTP.MaxUploadMB <= 0 {
		return fmt.Errorf("MAX_UPLOAD_MB must be positive")
	}
	return nil
}

// IsDevelopment reports whether APP_ENV selects development mode
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// Origin returns the browser-visible origin of the local UI server
func (c *Config) Origin() string {
	return "http://" + c.HTTP.ListenAddr
}

// MaxUploadBytes returns the upload limit in bytes
func (c *Config) MaxUploadBytes() int64 {
	return int64(c.HTTP.MaxUploadMB) << 20
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}
