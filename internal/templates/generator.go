package templates

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/osfs"

	oerrors "github.com/opmodel/pybake/internal/errors"
	"github.com/opmodel/pybake/internal/options"
	"github.com/opmodel/pybake/internal/output"
)

// BakeOptions configures Bake.
type BakeOptions struct {
	Tree   *Tree
	Config options.Resolved

	// OutputDir is the directory the project directory is created in.
	OutputDir string

	// Force renders over an existing project directory in place.
	Force bool

	// DryRun renders into memory and writes nothing.
	DryRun bool

	// Now supplies the year field. Defaults to time.Now.
	Now func() time.Time
}

// Bake materializes a project under OutputDir. Without Force the project is
// rendered into a temporary directory beside it and renamed into place, so a
// failed bake leaves nothing behind.
func Bake(ctx context.Context, opts BakeOptions) (*MaterializedTree, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}
	clock := WithClock(now)

	projectDir, err := opts.Tree.ProjectDir(opts.Config, now())
	if err != nil {
		return nil, err
	}
	logger := output.ProjectLogger(projectDir)

	if opts.DryRun {
		logger.Debug("dry run, rendering in memory")
		result, err := Materialize(opts.Tree, opts.Config, memfs.New(), clock)
		if err != nil {
			return nil, err
		}
		result.Root = opts.OutputDir
		result.DryRun = true
		return result, nil
	}

	target := filepath.Join(opts.OutputDir, projectDir)
	exists, err := checkTarget(target, opts.Force)
	if err != nil {
		return nil, err
	}

	if exists {
		logger.Debug("rendering over existing project", "path", target)
		return Materialize(opts.Tree, opts.Config, osfs.New(opts.OutputDir), clock)
	}

	if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
		return nil, oerrors.NewIOError(opts.OutputDir, err)
	}

	staging, err := os.MkdirTemp(opts.OutputDir, ".pybake-")
	if err != nil {
		return nil, oerrors.NewIOError(opts.OutputDir, err)
	}
	defer os.RemoveAll(staging)

	logger.Debug("rendering into staging directory", "path", staging)
	result, err := Materialize(opts.Tree, opts.Config, osfs.New(staging), clock)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := os.Rename(filepath.Join(staging, projectDir), target); err != nil {
		return nil, oerrors.NewIOError(target, err)
	}

	result.Root = opts.OutputDir
	logger.Debug("project created", "path", target, "files", len(result.Files))
	return result, nil
}

// checkTarget reports whether target exists. An existing target is an error
// unless force is set; a non-directory target is always an error.
func checkTarget(target string, force bool) (bool, error) {
	info, err := os.Stat(target)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, oerrors.NewIOError(target, err)
	}

	if !info.IsDir() {
		return false, oerrors.NewValidationError("output path exists and is not a directory", target, "", "")
	}
	if !force {
		return false, oerrors.NewValidationError("project directory already exists", target, "",
			"use --force to render over it, or choose another --output directory")
	}
	return true, nil
}
