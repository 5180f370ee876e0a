// Package config defines process configuration and how it is loaded.
//
// Conventions:
// - New returns a Config holding every default.
// - Load layers a YAML file and the environment on top of New.
// - Errors are wrapped with ErrInvalidConfig or ErrLoadConfig.
package config

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/okian/travrank/internal/domain/scoring"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log encoding: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// DriversFile, TracksFile and HorsesFile point at the reference tables.
	// A missing file leaves its table empty.
	DriversFile string `koanf:"drivers_file"`
	TracksFile  string `koanf:"tracks_file"`
	HorsesFile  string `koanf:"horses_file"`

	// WorkerCount bounds how many races are ranked concurrently.
	WorkerCount int `koanf:"worker_count"`

	// MaxBodyBytes caps request bodies on the HTTP API.
	MaxBodyBytes int64 `koanf:"max_body_bytes"`

	// Weights tunes the score formula. They must sum to 1.
	Weights scoring.Weights `koanf:"weights"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:     "info",
		LogFormat:    "text",
		Addr:         ":9080",
		DriversFile:  "data/drivers.json",
		TracksFile:   "data/tracks.json",
		HorsesFile:   "data/horses.json",
		WorkerCount:  runtime.NumCPU(),
		MaxBodyBytes: 4 << 20,
		Weights:      scoring.DefaultWeights(),
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Addr) == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if c.WorkerCount < 1 {
		return fmt.Errorf("%w: worker_count must be positive, got %d", ErrInvalidConfig, c.WorkerCount)
	}
	if c.MaxBodyBytes < 1 {
		return fmt.Errorf("%w: max_body_bytes must be positive, got %d", ErrInvalidConfig, c.MaxBodyBytes)
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("%w: log_format must be text or json, got %q", ErrInvalidConfig, c.LogFormat)
	}
	if err := c.Weights.Validate(); err != nil {
		return fmt.Errorf("%w: weights: %w", ErrInvalidConfig, err)
	}
	return nil
}
