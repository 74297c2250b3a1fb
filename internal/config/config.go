package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultPath is used when CONFIG_PATH is not set
const DefaultPath = "config/config.yaml"

// Config represents the application configuration
type Config struct {
	Server struct {
		Port int    `yaml:"port"`
		Host string `yaml:"host"`
	} `yaml:"server"`

	AssemblyAI struct {
		APIKey  string `yaml:"api_key"`
		BaseURL string `yaml:"base_url"`
	} `yaml:"assemblyai"`

	Storage struct {
		StagingDir string `yaml:"staging_dir"`
	} `yaml:"storage"`

	Cleanup struct {
		IntervalMinutes int `yaml:"interval_minutes"`
		MaxAgeHours     int `yaml:"max_age_hours"`
	} `yaml:"cleanup"`

	Limits struct {
		MaxFileSizeMB         int `yaml:"max_file_size_mb"`
		RequestTimeoutMinutes int `yaml:"request_timeout_minutes"`
	} `yaml:"limits"`

	Webhook struct {
		URL            string `yaml:"url"`
		TimeoutSeconds int    `yaml:"timeout_seconds"`
	} `yaml:"webhook"`

	CORS struct {
		AllowOrigins string `yaml:"allow_origins"`
	} `yaml:"cors"`

	Sentry struct {
		DSN         string `yaml:"dsn"`
		Environment string `yaml:"environment"`
	} `yaml:"sentry"`
}

// Default returns the configuration used when no file is present
func Default() *Config {
	cfg := &Config{}
	cfg.Server.Host = "0.0.0.0"
	cfg.Server.Port = 8000
	cfg.Storage.StagingDir = "temp"
	cfg.Cleanup.IntervalMinutes = 30
	cfg.Cleanup.MaxAgeHours = 1
	cfg.Limits.MaxFileSizeMB = 100
	cfg.Limits.RequestTimeoutMinutes = 30
	cfg.Webhook.TimeoutSeconds = 10
	cfg.CORS.AllowOrigins = "http://localhost:5173"
	cfg.Sentry.Environment = "development"
	return cfg
}

// Load reads .env, the YAML file at path (if present), and environment overrides.
// The result is validated; a missing API key is an error.
func Load(path string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	cfg := Default()

	file, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(file, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
		// defaults + environment only
	default:
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// applyEnv overrides file values with non-empty environment variables
func (c *Config) applyEnv() {
	c.AssemblyAI.APIKey = getenv("ASSEMBLYAI_API_KEY", c.AssemblyAI.APIKey)
	c.AssemblyAI.BaseURL = getenv("ASSEMBLYAI_BASE_URL", c.AssemblyAI.BaseURL)
	c.Webhook.URL = getenv("WEBHOOK_URL", c.Webhook.URL)
	c.CORS.AllowOrigins = getenv("CORS_ALLOW_ORIGINS", c.CORS.AllowOrigins)
	c.Sentry.DSN = getenv("SENTRY_DSN", c.Sentry.DSN)
	c.Sentry.Environment = getenv("ENVIRONMENT", c.Sentry.Environment)
	c.Storage.StagingDir = getenv("STAGING_DIR", c.Storage.StagingDir)

	if port, err := strconv.Atoi(os.Getenv("PORT")); err == nil && port > 0 {
		c.Server.Port = port
	}
}

// Validate checks required values and ranges
func (c *Config) Validate() error {
	if strings.TrimSpace(c.AssemblyAI.APIKey) == "" {
		return errors.New("assemblyai api key is required (set ASSEMBLYAI_API_KEY)")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server port %d out of range", c.Server.Port)
	}
	if c.Storage.StagingDir == "" {
		return errors.New("storage staging_dir is required")
	}
	if c.Limits.MaxFileSizeMB <= 0 {
		return fmt.Errorf("limits max_file_size_mb must be positive, got %d", c.Limits.MaxFileSizeMB)
	}
	if c.Cleanup.IntervalMinutes <= 0 {
		return fmt.Errorf("cleanup interval_minutes must be positive, got %d", c.Cleanup.IntervalMinutes)
	}
	if c.Cleanup.MaxAgeHours <= 0 {
		return fmt.Errorf("cleanup max_age_hours must be positive, got %d", c.Cleanup.MaxAgeHours)
	}
	if c.Limits.RequestTimeoutMinutes <= 0 {
		return fmt.Errorf("limits request_timeout_minutes must be positive, got %d", c.Limits.RequestTimeoutMinutes)
	}
	// the sweeper must never reach a file whose request is still running
	if c.Limits.RequestTimeoutMinutes >= c.Cleanup.MaxAgeHours*60 {
		return fmt.Errorf("limits request_timeout_minutes (%d) must be below cleanup max_age_hours (%dh)",
			c.Limits.RequestTimeoutMinutes, c.Cleanup.MaxAgeHours)
	}
	return nil
}

// Addr returns the listen address
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// MaxFileSize returns the upload limit in bytes
func (c *Config) MaxFileSize() int {
	return c.Limits.MaxFileSizeMB * 1024 * 1024
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
