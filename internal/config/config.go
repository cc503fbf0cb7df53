// Package config holds decprobe's run configuration: YAML file with
// environment-variable overrides, defaults matching the reference
// parameters (one billion integers, six fractional digits).
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"decprobe/internal/codec"
)

// Config holds all decprobe configuration.
type Config struct {
	// Verification run parameters
	Run RunConfig `yaml:"run"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// RunConfig parameterizes one verification sweep.
type RunConfig struct {
	// Exclusive upper bound on the integral part of tested values
	MaxInteger int64 `yaml:"max_integer"`

	// Fixed number of fractional digits
	DecimalPlaces int `yaml:"decimal_places"`

	// Parallel workers; 0 uses the host's available parallelism
	Workers int `yaml:"workers"`

	// Successful checks between progress flushes
	BatchSize int64 `yaml:"batch_size"`

	// Aggregation cadence, e.g. "1s"
	TickInterval string `yaml:"tick_interval"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, console
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Run: RunConfig{
			MaxInteger:    1_000_000_000,
			DecimalPlaces: 6,
			Workers:       0,
			BatchSize:     10_000_000,
			TickInterval:  "1s",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load loads configuration from a YAML file, falling back to defaults when
// the file does not exist. Environment variables override file values.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// Tick parses the configured tick interval.
func (c *Config) Tick() (time.Duration, error) {
	if c.Run.TickInterval == "" {
		return time.Second, nil
	}
	d, err := time.ParseDuration(c.Run.TickInterval)
	if err != nil {
		return 0, fmt.Errorf("invalid tick_interval %q: %w", c.Run.TickInterval, err)
	}
	return d, nil
}

// Validate checks the configuration for values the engine cannot run with.
func (c *Config) Validate() error {
	if c.Run.MaxInteger <= 0 {
		return fmt.Errorf("run.max_integer must be positive, got %d", c.Run.MaxInteger)
	}
	if c.Run.DecimalPlaces < 0 {
		return fmt.Errorf("run.decimal_places must be non-negative, got %d", c.Run.DecimalPlaces)
	}
	safe := codec.SafeDigits(c.Run.MaxInteger)
	if safe < 0 || c.Run.DecimalPlaces > safe {
		return fmt.Errorf("run.max_integer %d with %d decimal places exceeds the exact float64 range (at most %d digits)",
			c.Run.MaxInteger, c.Run.DecimalPlaces, safe)
	}
	if c.Run.Workers < 0 {
		return fmt.Errorf("run.workers must be non-negative, got %d", c.Run.Workers)
	}
	if c.Run.BatchSize < 0 {
		return fmt.Errorf("run.batch_size must be non-negative, got %d", c.Run.BatchSize)
	}
	if _, err := c.Tick(); err != nil {
		return err
	}
	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug/info/warn/error, got %q", c.Logging.Level)
	}
	return nil
}

// applyEnvOverrides applies DECPROBE_* environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("DECPROBE_MAX_INTEGER"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Run.MaxInteger = n
		}
	}
	if v := os.Getenv("DECPROBE_DECIMAL_PLACES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Run.DecimalPlaces = n
		}
	}
	if v := os.Getenv("DECPROBE_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Run.Workers = n
		}
	}
	if v := os.Getenv("DECPROBE_BATCH_SIZE"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Run.BatchSize = n
		}
	}
	if v := os.Getenv("DECPROBE_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
}
