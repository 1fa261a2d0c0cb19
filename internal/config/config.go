// Package config loads listsync settings from, in increasing priority: built-in defaults, a TOML file, LISTSYNC_* environment variables, and command-line flags (applied
// by the caller after Load). Missing files and unset variables are skipped; values that are present but malformed are errors.
//
// Example file:
//
//	animate = true
//	animation = "fade"     # automatic | fade | none
//	animation_ms = 250
//	log_file = "~/listsync.log"
//	log_level = "debug"    # debug | info | warn | error
//	metrics_addr = ":9090"
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/codalotl/listsync/internal/listsync"
	"github.com/codalotl/listsync/internal/simplelogger"
)

// Config is the effective configuration.
type Config struct {
	Animate     bool   `toml:"animate"`      // Animate structural updates.
	Animation   string `toml:"animation"`    // Animation name; see listsync.ParseAnimation.
	AnimationMS int    `toml:"animation_ms"` // How long inserted and moved rows stay highlighted.
	LogFile     string `toml:"log_file"`     // Empty disables logging.
	LogLevel    string `toml:"log_level"`
	MetricsAddr string `toml:"metrics_addr"` // Listen address for /metrics. Empty disables the server.
}

// Default returns the built-in defaults.
func Default() Config {
	return Config{
		Animate:     true,
		Animation:   listsync.AnimationAutomatic.String(),
		AnimationMS: 250,
		LogLevel:    "info",
	}
}

// Environment variables, by the setting they override.
const (
	EnvAnimate     = "LISTSYNC_ANIMATE"
	EnvAnimation   = "LISTSYNC_ANIMATION"
	EnvAnimationMS = "LISTSYNC_ANIMATION_MS"
	EnvLogFile     = simplelogger.EnvLogFile
	EnvLogLevel    = "LISTSYNC_LOG_LEVEL"
	EnvMetricsAddr = "LISTSYNC_METRICS_ADDR"
)

// Load returns the defaults overlaid with the TOML file at path (skipped if path is empty or the file doesn't exist) and then with the environment as seen through lookup
// (nil means os.LookupEnv). The result is not validated, since flags may still override it.
func Load(path string, lookup func(string) (string, bool)) (Config, error) {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	cfg := Default()

	if path != "" {
		path = ExpandPath(path)
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return Config{}, fmt.Errorf("config: %s: %w", path, err)
			}
		}
	}

	if err := cfg.applyEnv(lookup); err != nil {
		return Config{}, err
	}
	cfg.LogFile = ExpandPath(cfg.LogFile)
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvAnimate); ok {
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("config: %s: %w", EnvAnimate, err)
		}
		c.Animate = b
	}
	if v, ok := lookup(EnvAnimation); ok {
		c.Animation = strings.TrimSpace(v)
	}
	if v, ok := lookup(EnvAnimationMS); ok {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("config: %s: %w", EnvAnimationMS, err)
		}
		c.AnimationMS = n
	}
	if v, ok := lookup(EnvLogFile); ok {
		c.LogFile = v
	}
	if v, ok := lookup(EnvLogLevel); ok {
		c.LogLevel = strings.TrimSpace(v)
	}
	if v, ok := lookup(EnvMetricsAddr); ok {
		c.MetricsAddr = strings.TrimSpace(v)
	}
	return nil
}

// Validate reports the first setting that can't be used.
func (c Config) Validate() error {
	if _, err := listsync.ParseAnimation(c.Animation); err != nil {
		return fmt.Errorf("config: animation: %w", err)
	}
	if c.AnimationMS < 0 {
		return fmt.Errorf("config: animation_ms must not be negative, got %d", c.AnimationMS)
	}
	if _, err := simplelogger.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("config: log_level: %w", err)
	}
	return nil
}

// DefaultPath is where the config file lives when --config isn't given: listsync/config.toml under the user's config directory.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "listsync", "config.toml")
}

// ExpandPath replaces a leading "~" with the home directory. Other paths are returned unchanged.
func ExpandPath(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") && !strings.HasPrefix(path, `~\`) {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return path
	}
	if path == "~" {
		return home
	}
	return filepath.Join(home, path[2:])
}
