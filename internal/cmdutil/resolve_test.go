package cmdutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opmodel/pybake/internal/config"
	oerrors "github.com/opmodel/pybake/internal/errors"
	"github.com/opmodel/pybake/internal/options"
	"github.com/opmodel/pybake/internal/replay"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestResolveOptions_Defaults(t *testing.T) {
	res, err := ResolveOptions(ResolveOpts{})
	require.NoError(t, err)

	assert.Equal(t, "pypackage", res.Template)
	assert.NotNil(t, res.Tree)
	assert.Equal(t, "python-project", res.Options.Value(options.ProjectNameSlug))
	assert.Empty(t, res.Merged.Overrides)
}

func TestResolveOptions_LayerPrecedence(t *testing.T) {
	values := writeFile(t, "values.yaml", "license: ISC\nproject_name: From Values\n")
	cfg := &config.Config{DefaultContext: map[string]string{
		"full_name":    "Config Person",
		"license":      "BSD-3-Clause",
		"project_name": "From Config",
	}}

	res, err := ResolveOptions(ResolveOpts{
		Config: cfg,
		Flags: OverrideFlags{
			Values: []string{values},
			Set:    []string{"project_name=From Flag"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "Config Person", res.Options.Value(options.FullName))
	assert.Equal(t, "ISC", res.Options.Value(options.License))
	assert.Equal(t, "From Flag", res.Options.Value(options.ProjectName))
	assert.Equal(t, "from-flag", res.Options.Value(options.ProjectNameSlug))

	assert.Equal(t, options.SourceConfig, res.Merged.Sources[options.FullName])
	assert.Equal(t, options.SourceValues, res.Merged.Sources[options.License])
	assert.Equal(t, options.SourceFlag, res.Merged.Sources[options.ProjectName])
	assert.Len(t, res.Merged.Shadowed[options.ProjectName], 2)
}

func TestResolveOptions_Replay(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, replay.NewStore(dir).Save(replay.Record{
		Template: "pypackage",
		BakedAt:  time.Date(2031, 1, 1, 0, 0, 0, 0, time.UTC),
		Options:  map[string]string{"project_name": "Replayed", "license": "no"},
	}))

	res, err := ResolveOptions(ResolveOpts{
		Config: &config.Config{ReplayDir: dir},
		Flags:  OverrideFlags{Replay: true, Set: []string{"license=MIT"}},
	})
	require.NoError(t, err)

	assert.Equal(t, "Replayed", res.Options.Value(options.ProjectName))
	assert.Equal(t, "MIT", res.Options.Value(options.License))
	assert.Equal(t, options.SourceReplay, res.Merged.Sources[options.ProjectName])
}

func TestResolveOptions_ReplayMissing(t *testing.T) {
	_, err := ResolveOptions(ResolveOpts{
		Config: &config.Config{ReplayDir: t.TempDir()},
		Flags:  OverrideFlags{Replay: true},
	})
	assert.ErrorIs(t, err, oerrors.ErrNotFound)
}

func TestResolveOptions_Errors(t *testing.T) {
	tests := []struct {
		name  string
		opts  ResolveOpts
		want  error
		field string
	}{
		{
			name: "unknown template",
			opts: ResolveOpts{Flags: OverrideFlags{Template: "rustcrate"}},
			want: oerrors.ErrNotFound,
		},
		{
			name: "unknown --set key",
			opts: ResolveOpts{Flags: OverrideFlags{Set: []string{"licence=MIT"}}},
			want: oerrors.ErrInvalidOption,
		},
		{
			name: "malformed --set",
			opts: ResolveOpts{Flags: OverrideFlags{Set: []string{"license"}}},
			want: oerrors.ErrInvalidOption,
		},
		{
			name: "choice not allowed",
			opts: ResolveOpts{Flags: OverrideFlags{Set: []string{"command_line_interface=typer"}}},
			want: oerrors.ErrInvalidOption,
		},
		{
			name: "unknown config key",
			opts: ResolveOpts{Config: &config.Config{DefaultContext: map[string]string{"colour": "blue"}}},
			want: oerrors.ErrInvalidOption,
		},
		{
			name: "missing values file",
			opts: ResolveOpts{Flags: OverrideFlags{Values: []string{"/does/not/exist.yaml"}}},
			want: oerrors.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ResolveOptions(tt.opts)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestResolution_ReplayOptions(t *testing.T) {
	res, err := ResolveOptions(ResolveOpts{Flags: OverrideFlags{Set: []string{
		"project_name=Demo",
		"package_name=custom_pkg",
	}}})
	require.NoError(t, err)

	replayed := res.ReplayOptions()
	assert.Equal(t, "Demo", replayed[options.ProjectName])
	assert.Equal(t, "custom_pkg", replayed[options.PackageName], "explicit derived value is kept")
	assert.NotContains(t, replayed, options.ProjectNameSlug, "implicit derived value is dropped")
	assert.Equal(t, "MIT", replayed[options.License])
}

func TestResolution_OptionRows(t *testing.T) {
	res, err := ResolveOptions(ResolveOpts{Flags: OverrideFlags{Set: []string{"license=ISC"}}})
	require.NoError(t, err)

	rows := res.OptionRows()
	require.Len(t, rows, len(res.Schema.Options()))

	byName := make(map[string]int)
	for i, r := range rows {
		byName[r.Name] = i
	}

	lic := rows[byName[options.License]]
	assert.Equal(t, "ISC", lic.Value)
	assert.Equal(t, options.SourceFlag, lic.Source)
	assert.Equal(t, "choice", lic.Kind)
	assert.Contains(t, lic.Choices, "MIT, ")

	slug := rows[byName[options.ProjectNameSlug]]
	assert.Equal(t, options.SourceDerived, slug.Source)
	assert.Empty(t, slug.Choices)

	name := rows[byName[options.FullName]]
	assert.Equal(t, options.SourceDefault, name.Source)
}
