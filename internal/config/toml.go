// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Stats      StatsConfig       `toml:"stats"`
	Log        LogConfig         `toml:"log"`
	Categories map[string]string `toml:"categories"`
}

// StatsConfig maps analysis settings. Unset keys stay nil so CLI defaults
// apply.
type StatsConfig struct {
	GapSeconds  *int    `toml:"gap-seconds"`
	Windows     []int   `toml:"windows"`
	CurveWindow *int    `toml:"curve-window"`
	Timezone    *string `toml:"timezone"`
}

// LogConfig maps logging settings.
type LogConfig struct {
	Level *string `toml:"level"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	if err := cfg.Validate(); err != nil {
		return FileConfig{}, err
	}
	return cfg, nil
}

// Validate checks value ranges of the set keys.
func (c FileConfig) Validate() error {
	if c.Stats.GapSeconds != nil && *c.Stats.GapSeconds <= 0 {
		return fmt.Errorf("stats.gap-seconds must be > 0")
	}
	for _, n := range c.Stats.Windows {
		if n < 1 {
			return fmt.Errorf("stats.windows must contain sizes >= 1, got %d", n)
		}
	}
	if c.Stats.CurveWindow != nil && *c.Stats.CurveWindow < 1 {
		return fmt.Errorf("stats.curve-window must be >= 1")
	}
	if c.Stats.Timezone != nil {
		if _, err := time.LoadLocation(*c.Stats.Timezone); err != nil {
			return fmt.Errorf("stats.timezone: %w", err)
		}
	}
	return nil
}
