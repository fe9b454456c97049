// Package config provides configuration loading and management.
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	oerrors "github.com/opmodel/pybake/internal/errors"
)

// LogConfig contains logging-related settings.
type LogConfig struct {
	// Timestamps controls whether timestamps are shown in log output.
	// Default: true. Override with --timestamps.
	Timestamps *bool `mapstructure:"timestamps" yaml:"timestamps,omitempty"`
}

// Config is the pybake user configuration.
type Config struct {
	// DefaultContext pre-fills option values. Values files, replay records
	// and --set flags override it.
	DefaultContext map[string]string `mapstructure:"default_context" yaml:"default_context,omitempty"`

	// ReplayDir stores replay records.
	// Env: PYBAKE_REPLAY_DIR, Default: <xdg data>/pybake/replay
	ReplayDir string `mapstructure:"replay_dir" yaml:"replay_dir,omitempty"`

	// OutputDir is the default output directory.
	// Env: PYBAKE_OUTPUT_DIR, Default: current directory
	OutputDir string `mapstructure:"output_dir" yaml:"output_dir,omitempty"`

	Log LogConfig `mapstructure:"log" yaml:"log,omitempty"`
}

// DefaultConfig returns the configuration written by `pybake config init`.
func DefaultConfig() *Config {
	timestamps := true
	return &Config{
		DefaultContext: map[string]string{
			"full_name":       "Your Name",
			"email":           "you@example.com",
			"github_username": "your-github-username",
		},
		Log: LogConfig{Timestamps: &timestamps},
	}
}

// WithDefaults fills unset directories from paths.
func (c *Config) WithDefaults(paths *Paths) *Config {
	out := *c
	if out.DefaultContext == nil {
		out.DefaultContext = map[string]string{}
	}
	if out.ReplayDir == "" {
		out.ReplayDir = paths.ReplayDir
	}
	if out.OutputDir == "" {
		out.OutputDir = "."
	}
	return &out
}

// WriteDefault writes DefaultConfig to path. An existing file is only
// replaced when force is set.
func WriteDefault(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return oerrors.NewValidationError("config file already exists", path, "", "use --force to overwrite it")
	} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return oerrors.NewIOError(path, err)
	}

	data, err := yaml.Marshal(DefaultConfig())
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return oerrors.NewIOError(filepath.Dir(path), err)
	}
	header := []byte("# pybake configuration. Check it with: pybake config vet\n")
	if err := os.WriteFile(path, append(header, data...), 0o644); err != nil {
		return oerrors.NewIOError(path, err)
	}
	return nil
}
