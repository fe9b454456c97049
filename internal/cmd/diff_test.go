package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	oerrors "github.com/opmodel/pybake/internal/errors"
)

func TestDiff_NoChanges(t *testing.T) {
	env := newTestEnv(t)
	_, err := execute(t, "bake")
	require.NoError(t, err)

	stdout, err := execute(t, "diff", env.project("python-project"), "--replay")
	require.NoError(t, err)
	assert.Contains(t, stdout, "No changes detected.")
}

func TestDiff_ReportsChanges(t *testing.T) {
	env := newTestEnv(t)
	_, err := execute(t, "bake")
	require.NoError(t, err)

	project := env.project("python-project")
	require.NoError(t, os.WriteFile(filepath.Join(project, "README.md"), []byte("# mine\n"), 0o644))

	stdout, err := execute(t, "diff", project, "--set", "license=no")
	require.NoError(t, err, "differences do not fail the command")

	assert.Contains(t, stdout, "Modified:")
	assert.Contains(t, stdout, "README.md")
	assert.Contains(t, stdout, "Removed:")
	assert.Contains(t, stdout, "LICENSE")
}

func TestDiff_Args(t *testing.T) {
	newTestEnv(t)

	_, err := execute(t, "diff")
	assert.Error(t, err)
}

func TestDiff_MissingProject(t *testing.T) {
	env := newTestEnv(t)

	_, err := execute(t, "diff", filepath.Join(env.dir, "absent"))
	require.Error(t, err)
	assert.Equal(t, oerrors.ExitNotFound, oerrors.ExitCodeFromError(err))
}
