package options

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	oerrors "github.com/opmodel/pybake/internal/errors"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestValuesLoader_Formats(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"cue", "values.cue", "project_name: \"Demo\"\ncreate_author_file: false\nlicense: \"ISC\"\n"},
		{"yaml", "values.yaml", "project_name: Demo\ncreate_author_file: false\nlicense: ISC\n"},
		{"yml", "values.yml", "project_name: Demo\ncreate_author_file: no\nlicense: ISC\n"},
		{"json", "values.json", `{"project_name": "Demo", "create_author_file": false, "license": "ISC"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, dir, tt.file, tt.content)
			got, err := NewValuesLoader(DefaultSchema()).LoadFiles(path)
			require.NoError(t, err)
			assert.Equal(t, map[string]string{
				ProjectName:      "Demo",
				CreateAuthorFile: "n",
				License:          "ISC",
			}, got)
		})
	}
}

func TestValuesLoader_Numbers(t *testing.T) {
	path := writeFile(t, t.TempDir(), "v.json", `{"version": 2, "full_name": "x"}`)
	got, err := NewValuesLoader(DefaultSchema()).LoadFiles(path)
	require.NoError(t, err)
	assert.Equal(t, "2", got[Version])
}

func TestValuesLoader_NoFiles(t *testing.T) {
	got, err := NewValuesLoader(DefaultSchema()).LoadFiles()
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestValuesLoader_UnifiesFiles(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.yaml", "project_name: Demo\n")
	b := writeFile(t, dir, "b.cue", "license: \"no\"\nproject_name: \"Demo\"\n")

	got, err := NewValuesLoader(DefaultSchema()).LoadFiles(a, b)
	require.NoError(t, err)
	assert.Equal(t, "Demo", got[ProjectName])
	assert.Equal(t, "no", got[License])
}

func TestValuesLoader_ConflictIsValidationError(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.yaml", "license: MIT\n")
	b := writeFile(t, dir, "b.yaml", "license: ISC\n")

	_, err := NewValuesLoader(DefaultSchema()).LoadFiles(a, b)
	require.Error(t, err)
	assert.ErrorIs(t, err, oerrors.ErrValidation)
}

func TestValuesLoader_Errors(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing file", func(t *testing.T) {
		_, err := NewValuesLoader(DefaultSchema()).LoadFiles(filepath.Join(dir, "absent.yaml"))
		assert.ErrorIs(t, err, oerrors.ErrNotFound)
	})

	t.Run("unsupported extension", func(t *testing.T) {
		path := writeFile(t, dir, "values.toml", "license = 'MIT'\n")
		_, err := NewValuesLoader(DefaultSchema()).LoadFiles(path)
		assert.ErrorIs(t, err, oerrors.ErrValidation)
		assert.Contains(t, err.Error(), "unsupported file format")
	})

	t.Run("nested value", func(t *testing.T) {
		path := writeFile(t, dir, "nested.yaml", "license:\n  id: MIT\n")
		_, err := NewValuesLoader(DefaultSchema()).LoadFiles(path)
		assert.ErrorIs(t, err, oerrors.ErrValidation)
	})

	t.Run("incomplete cue", func(t *testing.T) {
		path := writeFile(t, dir, "open.cue", "license: string\n")
		_, err := NewValuesLoader(DefaultSchema()).LoadFiles(path)
		assert.ErrorIs(t, err, oerrors.ErrValidation)
	})

	t.Run("top-level list", func(t *testing.T) {
		path := writeFile(t, dir, "list.json", `["MIT"]`)
		_, err := NewValuesLoader(DefaultSchema()).LoadFiles(path)
		assert.ErrorIs(t, err, oerrors.ErrValidation)
	})

	t.Run("bad yaml", func(t *testing.T) {
		path := writeFile(t, dir, "bad.yaml", "license: [\n")
		_, err := NewValuesLoader(DefaultSchema()).LoadFiles(path)
		assert.ErrorIs(t, err, oerrors.ErrValidation)
	})
}

func TestValuesLoader_FalseMapsToNoForLicense(t *testing.T) {
	path := writeFile(t, t.TempDir(), "v.yaml", "license: no\ncommand_line_interface: no\ncreate_author_file: no\n")
	got, err := NewValuesLoader(DefaultSchema()).LoadFiles(path)
	require.NoError(t, err)
	assert.Equal(t, "no", got[License])
	assert.Equal(t, "no", got[CommandLineInterface])
	assert.Equal(t, "n", got[CreateAuthorFile])

	_, err = Resolve(got)
	require.NoError(t, err)
}
