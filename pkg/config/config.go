package config

import (
	"github.com/ndelcroix/wikimirror/pkg/models"
)

// Config represents the application configuration
type Config struct {
	Fetch       FetchConfig       `yaml:"fetch"`
	Performance PerformanceConfig `yaml:"performance"`
	Output      OutputConfig      `yaml:"output"`
	Logging     LoggingConfig     `yaml:"logging"`
	Exclude     []string          `yaml:"exclude"`
}

// FetchConfig holds remote retrieval settings
type FetchConfig struct {
	// TimeoutSeconds bounds every single fetch
	TimeoutSeconds int `yaml:"timeout_seconds"`
	// UserAgent sent with every request
	UserAgent string `yaml:"user_agent"`
	// BandwidthLimit in bytes per second, 0 = unlimited
	BandwidthLimit int64 `yaml:"bandwidth_limit"`
}

// PerformanceConfig holds concurrency settings
type PerformanceConfig struct {
	// MaxWorkers bounds the number of in-flight downloads
	MaxWorkers int `yaml:"max_workers"`
}

// OutputConfig holds output-related settings
type OutputConfig struct {
	Format   string `yaml:"format"`   // "human" or "json"
	Progress bool   `yaml:"progress"` // show a progress bar on a terminal
	Quiet    bool   `yaml:"quiet"`    // suppress per-asset output
}

// LoggingConfig holds failure-log settings
type LoggingConfig struct {
	Enabled bool   `yaml:"enabled"`
	Format  string `yaml:"format"` // "json" or "text"
	Level   string `yaml:"level"`  // "debug", "info", "warn", "error"
	File    string `yaml:"file"`   // log file path (empty = <output root>/mirror_errors.log)
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Fetch: FetchConfig{
			TimeoutSeconds: 15,
			UserAgent:      "wikimirror/1.0",
			BandwidthLimit: 0,
		},
		Performance: PerformanceConfig{
			MaxWorkers: 10,
		},
		Output: OutputConfig{
			Format:   "human",
			Progress: true,
			Quiet:    false,
		},
		Logging: LoggingConfig{
			Enabled: true,
			Format:  "text",
			Level:   "info",
			File:    "",
		},
		Exclude: []string{},
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Fetch.TimeoutSeconds < 1 {
		return &models.ValidationError{
			Field:   "fetch.timeout_seconds",
			Message: "must be at least 1",
		}
	}

	if c.Fetch.BandwidthLimit < 0 {
		return &models.ValidationError{
			Field:   "fetch.bandwidth_limit",
			Message: "must not be negative",
		}
	}

	if c.Performance.MaxWorkers < 1 {
		return &models.ValidationError{
			Field:   "performance.max_workers",
			Message: "must be at least 1",
		}
	}

	validFormats := map[string]bool{"human": true, "json": true}
	if !validFormats[c.Output.Format] {
		return &models.ValidationError{
			Field:   "output.format",
			Message: "must be 'human' or 'json'",
		}
	}

	validLogFormats := map[string]bool{"json": true, "text": true}
	if !validLogFormats[c.Logging.Format] {
		return &models.ValidationError{
			Field:   "logging.format",
			Message: "must be 'json' or 'text'",
		}
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Logging.Level] {
		return &models.ValidationError{
			Field:   "logging.level",
			Message: "must be 'debug', 'info', 'warn', or 'error'",
		}
	}

	return nil
}
