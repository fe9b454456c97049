package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFile_CreatesParents(t *testing.T) {
	dir := t.TempDir()
	path := WriteFile(t, dir, "a/b/c.txt", "hello")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
	assert.Equal(t, filepath.Join(dir, "a", "b", "c.txt"), path)
}

func TestIsolate(t *testing.T) {
	env := Isolate(t)

	assert.Equal(t, env.ConfigPath, os.Getenv("PYBAKE_CONFIG"))
	assert.Equal(t, filepath.Join(env.Root, "data"), os.Getenv("XDG_DATA_HOME"))
	assert.Contains(t, env.Environ(), "PYBAKE_CONFIG="+env.ConfigPath)
}

func TestTempDir_Cleanup(t *testing.T) {
	dir, cleanup := TempDir(t)
	assert.DirExists(t, dir)
	cleanup()
	assert.NoDirExists(t, dir)
}
