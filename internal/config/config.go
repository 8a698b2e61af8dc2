package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/quinnjr/fgo-sheba/internal/atlas"
)

// Config defines configuration for the fgo-sheba CLI.
type Config struct {
	Region      string        `yaml:"region"`
	Output      string        `yaml:"output"`
	Limit       int           `yaml:"limit"`
	Workers     int           `yaml:"workers"`
	TaskTimeout time.Duration `yaml:"task_timeout"`
	Progress    bool          `yaml:"progress"`
	Retry       RetryConfig   `yaml:"retry"`
}

// RetryConfig defines retry behavior for API and CDN requests.
type RetryConfig struct {
	Attempts   int           `yaml:"attempts"`
	Backoff    time.Duration `yaml:"backoff"`
	MaxBackoff time.Duration `yaml:"max_backoff"`
}

// Default returns a Config with sensible defaults.
func Default() Config {
	return Config{
		Region:      "na",
		Output:      "./training_data",
		Workers:     8,
		TaskTimeout: 30 * time.Second,
		Retry: RetryConfig{
			Attempts:   5,
			Backoff:    time.Second,
			MaxBackoff: 30 * time.Second,
		},
	}
}

// yamlConfig is used for YAML unmarshaling with string durations.
type yamlConfig struct {
	Region      string          `yaml:"region"`
	Output      string          `yaml:"output"`
	Limit       int             `yaml:"limit"`
	Workers     int             `yaml:"workers"`
	TaskTimeout string          `yaml:"task_timeout"`
	Progress    bool            `yaml:"progress"`
	Retry       yamlRetryConfig `yaml:"retry"`
}

type yamlRetryConfig struct {
	Attempts   int    `yaml:"attempts"`
	Backoff    string `yaml:"backoff"`
	MaxBackoff string `yaml:"max_backoff"`
}

// LoadFromFile loads configuration from a YAML file.
func LoadFromFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}

	var yc yamlConfig
	if err := yaml.Unmarshal(data, &yc); err != nil {
		return Config{}, fmt.Errorf("parse config file: %w", err)
	}

	cfg := Default()

	if yc.Region != "" {
		cfg.Region = yc.Region
	}
	if yc.Output != "" {
		cfg.Output = yc.Output
	}
	if yc.Limit != 0 {
		cfg.Limit = yc.Limit
	}
	if yc.Workers != 0 {
		cfg.Workers = yc.Workers
	}
	if yc.TaskTimeout != "" {
		d, err := time.ParseDuration(yc.TaskTimeout)
		if err != nil {
			return Config{}, fmt.Errorf("parse task_timeout: %w", err)
		}
		cfg.TaskTimeout = d
	}
	cfg.Progress = yc.Progress
	if yc.Retry.Attempts != 0 {
		cfg.Retry.Attempts = yc.Retry.Attempts
	}
	if yc.Retry.Backoff != "" {
		d, err := time.ParseDuration(yc.Retry.Backoff)
		if err != nil {
			return Config{}, fmt.Errorf("parse retry.backoff: %w", err)
		}
		cfg.Retry.Backoff = d
	}
	if yc.Retry.MaxBackoff != "" {
		d, err := time.ParseDuration(yc.Retry.MaxBackoff)
		if err != nil {
			return Config{}, fmt.Errorf("parse retry.max_backoff: %w", err)
		}
		cfg.Retry.MaxBackoff = d
	}

	return cfg, nil
}

// LoadFromEnv loads configuration from environment variables.
// Environment variables use the SHEBA_ prefix.
func (c *Config) LoadFromEnv() error {
	if v := os.Getenv("SHEBA_REGION"); v != "" {
		c.Region = v
	}
	if v := os.Getenv("SHEBA_OUTPUT"); v != "" {
		c.Output = v
	}
	if v := os.Getenv("SHEBA_LIMIT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parse SHEBA_LIMIT: %w", err)
		}
		c.Limit = n
	}
	if v := os.Getenv("SHEBA_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parse SHEBA_WORKERS: %w", err)
		}
		c.Workers = n
	}
	if v := os.Getenv("SHEBA_TASK_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parse SHEBA_TASK_TIMEOUT: %w", err)
		}
		c.TaskTimeout = d
	}
	if v := os.Getenv("SHEBA_PROGRESS"); v != "" {
		c.Progress = v == "true" || v == "1"
	}
	if v := os.Getenv("SHEBA_RETRY_ATTEMPTS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parse SHEBA_RETRY_ATTEMPTS: %w", err)
		}
		c.Retry.Attempts = n
	}
	if v := os.Getenv("SHEBA_RETRY_BACKOFF"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parse SHEBA_RETRY_BACKOFF: %w", err)
		}
		c.Retry.Backoff = d
	}
	if v := os.Getenv("SHEBA_RETRY_MAX_BACKOFF"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parse SHEBA_RETRY_MAX_BACKOFF: %w", err)
		}
		c.Retry.MaxBackoff = d
	}

	return nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if _, err := atlas.ParseRegion(c.Region); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.Output == "" {
		return errors.New("config: output is required")
	}
	if c.Limit < 0 {
		return errors.New("config: limit must not be negative")
	}
	if c.Workers <= 0 {
		return errors.New("config: workers must be positive")
	}
	if c.TaskTimeout <= 0 {
		return errors.New("config: task_timeout must be positive")
	}
	return nil
}

// Merge merges override values into c, returning a new Config.
// Zero values in override are ignored.
func (c Config) Merge(override Config) Config {
	if override.Region != "" {
		c.Region = override.Region
	}
	if override.Output != "" {
		c.Output = override.Output
	}
	if override.Limit != 0 {
		c.Limit = override.Limit
	}
	if override.Workers != 0 {
		c.Workers = override.Workers
	}
	if override.TaskTimeout != 0 {
		c.TaskTimeout = override.TaskTimeout
	}
	if override.Progress {
		c.Progress = override.Progress
	}
	if override.Retry.Attempts != 0 {
		c.Retry.Attempts = override.Retry.Attempts
	}
	if override.Retry.Backoff != 0 {
		c.Retry.Backoff = override.Retry.Backoff
	}
	if override.Retry.MaxBackoff != 0 {
		c.Retry.MaxBackoff = override.Retry.MaxBackoff
	}
	return c
}
