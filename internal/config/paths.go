package config

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

const appName = "pybake"

// Paths contains the standard filesystem locations for pybake.
type Paths struct {
	// ConfigFile is <xdg config>/pybake/config.yaml.
	ConfigFile string

	// DataDir is <xdg data>/pybake.
	DataDir string

	// ReplayDir is <xdg data>/pybake/replay.
	ReplayDir string
}

// DefaultPaths returns the XDG paths for pybake.
func DefaultPaths() *Paths {
	dataDir := filepath.Join(xdg.DataHome, appName)
	return &Paths{
		ConfigFile: filepath.Join(xdg.ConfigHome, appName, "config.yaml"),
		DataDir:    dataDir,
		ReplayDir:  filepath.Join(dataDir, "replay"),
	}
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) (string, error) {
	if path == "" || path[0] != '~' {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	if len(path) == 1 {
		return homeDir, nil
	}
	if path[1] == '/' || path[1] == filepath.Separator {
		return filepath.Join(homeDir, path[2:]), nil
	}

	// ~username is not supported.
	return path, nil
}
