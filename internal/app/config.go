package app

import (
	"github.com/vk/shipline/internal/config"
)

// DefaultReleaseFile is picked up from the project directory when no
// explicit release file path was given.
const DefaultReleaseFile = "release.hcl"

// Config holds everything an App instance needs to run one pipeline.
type Config struct {
	// ConfigPath is an explicit release file. Empty means "use the default
	// file if present, otherwise flags and environment only".
	ConfigPath string

	// WorkDir is the project directory holding the wrapped tool's sources.
	WorkDir string

	LogFormat string
	LogLevel  string

	// Flags carries the pipeline values parsed from the command line, and
	// FlagsSet names the ones the user actually provided. Only those
	// override the release file and environment layers.
	Flags    config.Pipeline
	FlagsSet map[string]bool
}

// NewConfig normalizes an app configuration.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.WorkDir == "" {
		cfg.WorkDir = "."
	}
	if cfg.FlagsSet == nil {
		cfg.FlagsSet = map[string]bool{}
	}
	return &cfg, nil
}
