// Package config provides configuration management for the walkabout CLI.
//
// It layers CLI-specific settings over the shared source configuration in
// internal/config. SourceConfig is re-exported here via a type alias for
// convenience.
package config

import (
	sharedcfg "github.com/walkabout-eda/walkabout/internal/config"
	"github.com/walkabout-eda/walkabout/internal/support"
)

// SourceConfig is an alias for the shared source configuration.
type SourceConfig = sharedcfg.SourceConfig

// OutlierConfig holds defaults for outlier detection.
type OutlierConfig struct {
	// Inclusive keeps values lying exactly on an IQR fence.
	Inclusive bool `koanf:"inclusive"`
}

// ServeConfig holds configuration for the HTTP API.
type ServeConfig struct {
	Addr string `koanf:"addr"`
}

// Config holds all CLI configuration options.
type Config struct {
	ProjectRoot     string        `koanf:"-"`
	StatePath       string        `koanf:"state_path"`
	OutputFormat    string        `koanf:"output"`
	Verbose         bool          `koanf:"verbose"`
	Workers         int           `koanf:"workers"`
	Strip           bool          `koanf:"strip"`
	UsePlaceholders bool          `koanf:"use_placeholders"`
	Placeholders    []string      `koanf:"placeholders"`
	Outliers        OutlierConfig `koanf:"outliers"`
	Source          *SourceConfig `koanf:"source"`
	Serve           ServeConfig   `koanf:"serve"`
}

// PlaceholderSet returns the placeholders to replace with missing values.
// An empty list in the config means the built-in defaults.
func (c *Config) PlaceholderSet() support.Placeholders {
	if !c.UsePlaceholders {
		return support.Placeholders{}
	}
	if len(c.Placeholders) == 0 {
		return support.DefaultPlaceholders()
	}
	return support.ParsePlaceholders(c.Placeholders)
}

// Default configuration values - uses shared defaults from internal/config
const (
	DefaultStateFile = sharedcfg.DefaultStateFile
	DefaultOutput    = sharedcfg.DefaultOutput
	DefaultServeAddr = sharedcfg.DefaultServeAddr
)
