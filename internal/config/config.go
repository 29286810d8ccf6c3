// ABOUTME: Configuration loading with TOML file support and sane defaults
// ABOUTME: All tunable windows and host policy live here, not in package constants

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds every tunable the pipeline depends on. Constructors take a
// *Config so windows and host policy can be overridden in tests.
type Config struct {
	// DBPath is the SQLite database location. Defaults to the XDG data dir.
	DBPath string `toml:"db_path"`

	// UserAgent is sent on every outbound fetch.
	UserAgent string `toml:"user_agent"`

	// FetchTimeoutSeconds bounds a single feed fetch.
	FetchTimeoutSeconds int `toml:"fetch_timeout_seconds"`

	// MaxConcurrentFetches bounds the refresh worker pool.
	MaxConcurrentFetches int `toml:"max_concurrent_fetches"`

	// FreshnessWindowHours is how long after publication a re-seen item may
	// still have its mutable fields overwritten.
	FreshnessWindowHours int `toml:"freshness_window_hours"`

	// RetentionDays is the age cutoff for the retention sweep.
	RetentionDays int `toml:"retention_days"`

	// RefreshIntervalMinutes is the daemon's refresh cadence.
	RefreshIntervalMinutes int `toml:"refresh_interval_minutes"`

	// AllowPrivateHosts disables the loopback/private-range host check on
	// bulk imports. Dev-mode only.
	AllowPrivateHosts bool `toml:"allow_private_hosts"`

	// DefaultUser is the user ID assumed when --user is not given.
	DefaultUser string `toml:"default_user"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		DBPath:                 defaultDBPath(),
		UserAgent:              "lectern/1.0 (feed reader)",
		FetchTimeoutSeconds:    30,
		MaxConcurrentFetches:   8,
		FreshnessWindowHours:   36,
		RetentionDays:          90,
		RefreshIntervalMinutes: 30,
		DefaultUser:            "default",
	}
}

// Load reads a TOML config file, layering it over the defaults.
// A missing file is not an error; the defaults are returned.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config file: %w", err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}
	return cfg, nil
}

// FetchTimeout returns the per-request fetch timeout.
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.FetchTimeoutSeconds) * time.Second
}

// FreshnessWindow returns the item overwrite window.
func (c *Config) FreshnessWindow() time.Duration {
	return time.Duration(c.FreshnessWindowHours) * time.Hour
}

// RetentionWindow returns the retention sweep lookback.
func (c *Config) RetentionWindow() time.Duration {
	return time.Duration(c.RetentionDays) * 24 * time.Hour
}

// RefreshInterval returns the daemon refresh cadence.
func (c *Config) RefreshInterval() time.Duration {
	return time.Duration(c.RefreshIntervalMinutes) * time.Minute
}

// GetConfigPath returns the default config file location.
func GetConfigPath() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, _ := os.UserHomeDir()
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "lectern", "config.toml")
}

func defaultDBPath() string {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "./lectern.db"
		}
		dataDir = filepath.Join(homeDir, ".local", "share")
	}
	return filepath.Join(dataDir, "lectern", "lectern.db")
}
