// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/verte-zerg/matchlog/internal/model"
	"github.com/verte-zerg/matchlog/internal/stats"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Analysis AnalysisConfig `toml:"analysis"`
}

// AnalysisConfig maps analysis-related settings. Unset values are nil.
type AnalysisConfig struct {
	HistMin  *float64 `toml:"hist-min"`
	HistMax  *float64 `toml:"hist-max"`
	HistStep *float64 `toml:"hist-step"`
	BarScale *int     `toml:"bar-scale"`
	Archive  *bool    `toml:"archive"`
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
	return cfg, nil
}

// Validate checks that an analysis configuration is usable.
func Validate(cfg model.AnalysisConfig) error {
	if cfg.HistStep <= 0 {
		return fmt.Errorf("hist-step must be > 0")
	}
	if cfg.HistMax <= cfg.HistMin {
		return fmt.Errorf("hist-max must be greater than hist-min")
	}
	if _, err := stats.BucketCount(cfg.HistMin, cfg.HistMax, cfg.HistStep); err != nil {
		return fmt.Errorf("invalid histogram range: %w", err)
	}
	if cfg.BarScale <= 0 {
		return fmt.Errorf("bar-scale must be > 0")
	}
	return nil
}
