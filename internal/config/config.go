// Package config loads dashboard configuration from an optional YAML file and
// environment variables.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config defines client configuration.
type Config struct {
	API APIConfig `yaml:"api"`
	UI  UIConfig  `yaml:"ui"`
	Log LogConfig `yaml:"log"`
}

// APIConfig describes how to reach the backend.
type APIConfig struct {
	BaseURL        string        `yaml:"base_url"`
	Root           string        `yaml:"root"`
	HealthPath     string        `yaml:"health_path"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	GetRetries     int           `yaml:"get_retries"`
	RetryBackoff   time.Duration `yaml:"retry_backoff"`
	Breaker        BreakerConfig `yaml:"breaker"`
}

// BreakerConfig tunes the circuit breaker wrapped around every backend call.
type BreakerConfig struct {
	MaxRequests  uint32        `yaml:"max_requests"`
	Interval     time.Duration `yaml:"interval"`
	Timeout      time.Duration `yaml:"timeout"`
	FailureRatio float64       `yaml:"failure_ratio"`
	MinRequests  uint32        `yaml:"min_requests"`
}

type UIConfig struct {
	ToastTTL    time.Duration `yaml:"toast_ttl"`
	HealthRetry time.Duration `yaml:"health_retry"`
	StartPage   string        `yaml:"start_page"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	File   string `yaml:"file"`
	Format string `yaml:"format"` // "json" or "console"
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		API: APIConfig{
			BaseURL:        "http://localhost:8000",
			Root:           "/api/v1",
			HealthPath:     "/health",
			RequestTimeout: 10 * time.Second,
			GetRetries:     2,
			RetryBackoff:   250 * time.Millisecond,
			Breaker: BreakerConfig{
				MaxRequests:  5,
				Interval:     30 * time.Second,
				Timeout:      60 * time.Second,
				FailureRatio: 0.8,
				MinRequests:  5,
			},
		},
		UI: UIConfig{
			ToastTTL:    3 * time.Second,
			HealthRetry: 5 * time.Second,
			StartPage:   "dashboard",
		},
		Log: LogConfig{
			Level:  "info",
			File:   defaultLogFile(),
			Format: "json",
		},
	}
}

// Load reads configuration from an optional YAML file and environment variables.
// The file is taken from PREP_CONFIG_PATH unless path is non-empty.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv("PREP_CONFIG_PATH")
	}
	if path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if baseURL := os.Getenv("PREP_BASE_URL"); baseURL != "" {
		cfg.API.BaseURL = baseURL
	}
	if level := os.Getenv("PREP_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if file := os.Getenv("PREP_LOG_FILE"); file != "" {
		cfg.Log.File = file
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid api.base_url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid api.base_url %q: must be absolute", c.API.BaseURL)
	}
	if c.API.Root == "" {
		return errors.New("api.root must not be empty")
	}
	if c.API.RequestTimeout <= 0 {
		return errors.New("api.request_timeout must be positive")
	}
	if c.API.GetRetries < 0 {
		return errors.New("api.get_retries must not be negative")
	}
	if c.API.RetryBackoff <= 0 {
		return errors.New("api.retry_backoff must be positive")
	}
	if b := c.API.Breaker; b.Interval <= 0 || b.Timeout <= 0 {
		return errors.New("api.breaker durations must be positive")
	}
	if r := c.API.Breaker.FailureRatio; r <= 0 || r > 1 {
		return fmt.Errorf("api.breaker.failure_ratio %v must be in (0, 1]", r)
	}
	if c.UI.ToastTTL <= 0 || c.UI.HealthRetry <= 0 {
		return errors.New("ui durations must be positive")
	}
	return nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func defaultLogFile() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "prep.log"
	}
	return filepath.Join(dir, "prep", "prep.log")
}
