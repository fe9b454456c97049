package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	oerrors "github.com/opmodel/pybake/internal/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoader_Load(t *testing.T) {
	path := writeConfig(t, `
default_context:
  full_name: Ada Lovelace
  license: ISC
replay_dir: /var/replay
output_dir: /srv/projects
log:
  timestamps: false
`)

	cfg, err := NewLoader().Load(path)
	require.NoError(t, err)

	assert.Equal(t, "Ada Lovelace", cfg.DefaultContext["full_name"])
	assert.Equal(t, "ISC", cfg.DefaultContext["license"])
	assert.Equal(t, "/var/replay", cfg.ReplayDir)
	assert.Equal(t, "/srv/projects", cfg.OutputDir)
	require.NotNil(t, cfg.Log.Timestamps)
	assert.False(t, *cfg.Log.Timestamps)
}

func TestLoader_MissingFileIsEmpty(t *testing.T) {
	cfg, err := NewLoader().Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Empty(t, cfg.DefaultContext)
	assert.Nil(t, cfg.Log.Timestamps)
}

func TestLoader_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "output_dir: /from/file\n")
	t.Setenv("PYBAKE_OUTPUT_DIR", "/from/env")
	t.Setenv("PYBAKE_REPLAY_DIR", "/env/replay")

	cfg, err := NewLoader().Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/from/env", cfg.OutputDir)
	assert.Equal(t, "/env/replay", cfg.ReplayDir)
}

func TestLoader_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "default_context: [\n")
	_, err := NewLoader().Load(path)
	assert.ErrorIs(t, err, oerrors.ErrValidation)
}

func TestLoader_LoadWithDefaults(t *testing.T) {
	path := writeConfig(t, "log:\n  timestamps: true\n")
	cfg, err := NewLoader().LoadWithDefaults(path, &Paths{ReplayDir: "/replay"})
	require.NoError(t, err)
	assert.Equal(t, "/replay", cfg.ReplayDir)
	assert.Equal(t, ".", cfg.OutputDir)
}
