// Package cmd provides CLI command implementations.
package cmd

import (
	"time"

	"github.com/opmodel/pybake/internal/config"
)

// GlobalConfig holds CLI-wide configuration resolved during PersistentPreRunE.
// It is populated once at startup and passed explicitly into every
// sub-command constructor.
type GlobalConfig struct {
	// Config is the loaded tool configuration with defaults applied.
	Config *config.Config

	// ConfigPath is the resolved --config path.
	ConfigPath string

	// LoadErr is set when the config file exists but could not be read.
	// Commands that need the config report it; config init and vet do not.
	LoadErr error

	Verbose bool

	// Now supplies the current time for the year field and replay records.
	Now func() time.Time
}

// RequireConfig returns the loaded config, or the error that prevented
// loading it.
func (g *GlobalConfig) RequireConfig() (*config.Config, error) {
	if g.LoadErr != nil {
		return nil, g.LoadErr
	}
	if g.Config == nil {
		return (&config.Config{}).WithDefaults(config.DefaultPaths()), nil
	}
	return g.Config, nil
}

func (g *GlobalConfig) now() time.Time {
	if g.Now == nil {
		return time.Now()
	}
	return g.Now()
}
