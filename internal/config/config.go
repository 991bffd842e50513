// Package config loads application settings for the polyorder command.
//
// Settings are layered: built-in defaults, then an optional TOML file, then
// POLYORDER_* environment variables. Command-line flags are applied on top
// by the cli package.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
	"github.com/kelseyhightower/envconfig"

	"github.com/tsawler/polyorder/layout"
)

// EnvPrefix is the prefix of every environment variable read by Load.
const EnvPrefix = "POLYORDER"

// PathEnv names the variable consulted when no config path is given.
const PathEnv = EnvPrefix + "_CONFIG"

// ErrInvalid is wrapped by every validation error.
var ErrInvalid = errors.New("invalid configuration")

// Config holds the application settings. Field tags name the TOML key; the
// environment name is POLYORDER_ plus the field name split into words
// (ThresholdRatio is POLYORDER_THRESHOLD_RATIO). Unprefixed names are never
// read.
type Config struct {
	Direction      string  `toml:"direction" split_words:"true"`
	ThresholdRatio float64 `toml:"threshold_ratio" split_words:"true"`
	Classes        string  `toml:"classes" split_words:"true"`
	Listen         string  `toml:"listen" split_words:"true"`
	LogLevel       string  `toml:"log_level" split_words:"true"`
	Jobs           int     `toml:"jobs" split_words:"true"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Direction:      layout.RightToLeft.String(),
		ThresholdRatio: layout.DefaultRowConfig().ThresholdRatio,
		Listen:         ":8080",
		LogLevel:       "info",
		Jobs:           4,
	}
}

// Load builds the configuration. path may be empty, in which case
// $POLYORDER_CONFIG is used if set; with neither, only defaults and the
// environment apply. Unknown keys in the file are an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv(PathEnv)
	}
	if path != "" {
		md, err := toml.DecodeFile(path, &cfg)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			return nil, fmt.Errorf("%w: unknown keys in %s: %s", ErrInvalid, path, strings.Join(keys, ", "))
		}
	}

	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks every setting.
func (c *Config) Validate() error {
	if _, err := layout.ParseReadingDirection(c.Direction); err != nil {
		return fmt.Errorf("%w: direction: %v", ErrInvalid, err)
	}
	if math.IsNaN(c.ThresholdRatio) || math.IsInf(c.ThresholdRatio, 0) || c.ThresholdRatio < 0 {
		return fmt.Errorf("%w: threshold_ratio must be a non-negative number, got %v", ErrInvalid, c.ThresholdRatio)
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: log_level: %v", ErrInvalid, err)
	}
	if c.Jobs < 1 {
		return fmt.Errorf("%w: jobs must be at least 1, got %d", ErrInvalid, c.Jobs)
	}
	return nil
}

// ReadingDirection returns the parsed direction, RightToLeft if invalid.
func (c *Config) ReadingDirection() layout.ReadingDirection {
	d, err := layout.ParseReadingDirection(c.Direction)
	if err != nil {
		return layout.RightToLeft
	}
	return d
}

// Level returns the parsed log level, info if invalid.
func (c *Config) Level() log.Level {
	l, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return l
}
