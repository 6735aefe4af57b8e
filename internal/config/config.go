// Package config loads the process configuration and posting credentials.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"

	"arxivbot/internal/filter"
	"arxivbot/internal/model"
)

// ErrInvalid marks a configuration problem that must stop the process at startup.
var ErrInvalid = errors.New("invalid configuration")

// Supported posting platforms.
const (
	PlatformTwitter  = "twitter"
	PlatformTelegram = "telegram"
)

// Supported state drivers.
const (
	DriverFile   = "file"
	DriverSQLite = "sqlite"
)

//go:embed default_config.yaml
var defaultConfig []byte

// Source is a single feed the bot announces.
type Source struct {
	ID      string         `yaml:"id"`
	Name    string         `yaml:"name"`
	URL     string         `yaml:"url"`
	Filters []model.Filter `yaml:"filters,omitempty"`
}

// StateConfig selects where the seen markers and post history live.
type StateConfig struct {
	Driver string `yaml:"driver"`
	Path   string `yaml:"path"`
}

// LogConfig controls the log level and the append-only log file.
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Config holds the application configuration.
type Config struct {
	Platform      string      `yaml:"platform"`
	Credentials   string      `yaml:"credentials"`
	State         StateConfig `yaml:"state"`
	Log           LogConfig   `yaml:"log"`
	HTTPTimeout   string      `yaml:"http_timeout"`
	TweetInterval string      `yaml:"tweet_interval"`
	CycleSchedule string      `yaml:"cycle_schedule"`
	Sources       []Source    `yaml:"sources"`
}

// Default returns the embedded default configuration.
func Default() (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(defaultConfig, &cfg); err != nil {
		return nil, fmt.Errorf("parse embedded config: %w", err)
	}
	return &cfg, nil
}

// DefaultPath is the per-user config file location.
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, "arxivbot", "config.yaml")
}

// Load reads the configuration file at path on top of the embedded defaults
// and applies environment overrides. An empty path falls back to
// ARXIVBOT_CONFIG, then to DefaultPath if that file exists, and then to the
// defaults alone.
func Load(path string) (*Config, error) {
	cfg, err := Default()
	if err != nil {
		return nil, err
	}

	if path == "" {
		path = os.Getenv("ARXIVBOT_CONFIG")
	}
	if path == "" {
		if _, err := os.Stat(DefaultPath()); err == nil {
			path = DefaultPath()
		}
	}
	if path != "" {
		data, err := os.ReadFile(path) //nolint:gosec // operator-supplied config path
		if err != nil {
			return nil, fmt.Errorf("%w: read config %s: %w", ErrInvalid, path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("%w: parse config %s: %w", ErrInvalid, path, err)
		}
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("ARXIVBOT_CREDENTIALS"); v != "" {
		cfg.Credentials = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FILE"); v != "" {
		cfg.Log.File = v
	}
	if v := os.Getenv("DATABASE_PATH"); v != "" {
		cfg.State.Driver = DriverSQLite
		cfg.State.Path = v
	}
}

// Validate checks the configuration for values the bot cannot run with.
func (c *Config) Validate() error {
	switch c.Platform {
	case PlatformTwitter, PlatformTelegram:
	default:
		return fmt.Errorf("%w: unknown platform %q", ErrInvalid, c.Platform)
	}
	switch c.State.Driver {
	case DriverFile, DriverSQLite:
	default:
		return fmt.Errorf("%w: unknown state driver %q", ErrInvalid, c.State.Driver)
	}
	if len(c.Sources) == 0 {
		return fmt.Errorf("%w: at least one source is required", ErrInvalid)
	}
	seen := make(map[string]bool, len(c.Sources))
	for i, s := range c.Sources {
		if s.ID == "" || s.URL == "" {
			return fmt.Errorf("%w: source %d needs both id and url", ErrInvalid, i)
		}
		if strings.ContainsAny(s.ID, `/\`) {
			return fmt.Errorf("%w: source id %q must not contain path separators", ErrInvalid, s.ID)
		}
		if seen[s.ID] {
			return fmt.Errorf("%w: duplicate source id %q", ErrInvalid, s.ID)
		}
		seen[s.ID] = true
		if _, err := filter.Compile(s.Filters); err != nil {
			return fmt.Errorf("%w: source %s: %w", ErrInvalid, s.ID, err)
		}
	}
	for name, v := range map[string]string{
		"http_timeout":   c.HTTPTimeout,
		"tweet_interval": c.TweetInterval,
	} {
		if v == "" {
			continue
		}
		if _, err := time.ParseDuration(v); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrInvalid, name, err)
		}
	}
	if _, err := cron.ParseStandard(c.CycleScheduleSpec()); err != nil {
		return fmt.Errorf("%w: cycle_schedule: %w", ErrInvalid, err)
	}
	return nil
}

// HTTPTimeoutDuration returns the feed/post request timeout, 30s by default.
func (c *Config) HTTPTimeoutDuration() time.Duration {
	return parseDurationOr(c.HTTPTimeout, 30*time.Second)
}

// TweetIntervalDuration returns the pause between two posts, 20m by default.
func (c *Config) TweetIntervalDuration() time.Duration {
	return parseDurationOr(c.TweetInterval, 20*time.Minute)
}

// CycleScheduleSpec returns the cron spec for feed refreshes.
func (c *Config) CycleScheduleSpec() string {
	if c.CycleSchedule == "" {
		return "@every 10h"
	}
	return c.CycleSchedule
}

func parseDurationOr(s string, def time.Duration) time.Duration {
	if s == "" {
		return def
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return def
	}
	return d
}
