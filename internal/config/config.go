// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(ctx) to build a Config with defaults.
// - Load layers a YAML file and the environment on top of the defaults.
// - External errors are wrapped with this package's sentinel errors.
package config

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Supported storage drivers.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogJSON switches log output to JSON.
	LogJSON bool `koanf:"log_json"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// StorageDriver selects the key-value backend: memory, sqlite or postgres.
	StorageDriver string `koanf:"storage_driver"`

	// StorageDSN is the file path (sqlite) or connection string (postgres).
	StorageDSN string `koanf:"storage_dsn"`

	// TickIntervalMS is the scheduler cadence in milliseconds.
	TickIntervalMS int `koanf:"tick_interval_ms"`

	// Accelerated starts the virtual clock accelerated.
	Accelerated bool `koanf:"accelerated"`

	// SecondsPerVirtualDay is how many real seconds make a virtual day when accelerated.
	SecondsPerVirtualDay float64 `koanf:"seconds_per_virtual_day"`

	// CompetitorReward is the points a competitor earns on a successful day.
	CompetitorReward int `koanf:"competitor_reward"`

	// InstallSuppressHour is the hour before which install day does not roll.
	InstallSuppressHour int `koanf:"install_suppress_hour"`

	// Timezone names the location used for day boundaries, e.g. "Local" or "Europe/Berlin".
	Timezone string `koanf:"timezone"`

	// MaxLeaderboardLimit caps GET /leaderboard?limit.
	MaxLeaderboardLimit int `koanf:"max_leaderboard_limit"`

	// RandomSeed seeds the trials and prompt draws; 0 seeds from entropy.
	RandomSeed uint64 `koanf:"random_seed"`
}

// New creates a Config with defaults. The context is reserved for future use.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:             "info",
		Addr:                 ":9080",
		StorageDriver:        DriverSQLite,
		StorageDSN:           "rivals.db",
		TickIntervalMS:       1000,
		SecondsPerVirtualDay: 5,
		CompetitorReward:     3,
		InstallSuppressHour:  12,
		Timezone:             "Local",
		MaxLeaderboardLimit:  100,
	}
}

// TickInterval returns the scheduler cadence.
func (c *Config) TickInterval() time.Duration {
	return time.Duration(c.TickIntervalMS) * time.Millisecond
}

// Location resolves Timezone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: timezone %q: %v", ErrInvalidConfig, c.Timezone, err)
	}
	return loc, nil
}

// Validate checks the configuration for values the service cannot run with.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.TickIntervalMS <= 0:
		return fmt.Errorf("%w: tick_interval_ms must be positive", ErrInvalidConfig)
	case c.SecondsPerVirtualDay <= 0:
		return fmt.Errorf("%w: seconds_per_virtual_day must be positive", ErrInvalidConfig)
	case c.CompetitorReward <= 0:
		return fmt.Errorf("%w: competitor_reward must be positive", ErrInvalidConfig)
	case c.InstallSuppressHour < 0 || c.InstallSuppressHour > 24:
		return fmt.Errorf("%w: install_suppress_hour must be in [0,24]", ErrInvalidConfig)
	case c.MaxLeaderboardLimit <= 0:
		return fmt.Errorf("%w: max_leaderboard_limit must be positive", ErrInvalidConfig)
	}
	switch strings.ToLower(c.StorageDriver) {
	case DriverMemory:
	case DriverSQLite, DriverPostgres:
		if c.StorageDSN == "" {
			return fmt.Errorf("%w: storage_dsn is required for %s", ErrInvalidConfig, c.StorageDriver)
		}
	default:
		return fmt.Errorf("%w: unknown storage_driver %q", ErrInvalidConfig, c.StorageDriver)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}
