package cmd

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/MakeNowJust/heredoc"
	"github.com/spf13/cobra"

	"github.com/opmodel/pybake/internal/cmdutil"
	"github.com/opmodel/pybake/internal/config"
	oerrors "github.com/opmodel/pybake/internal/errors"
	"github.com/opmodel/pybake/internal/output"
	"github.com/opmodel/pybake/internal/replay"
	"github.com/opmodel/pybake/internal/templates"
	"github.com/opmodel/pybake/internal/verify"
)

// NewBakeCmd creates the bake command.
func NewBakeCmd(g *GlobalConfig) *cobra.Command {
	var (
		overrideFlags cmdutil.OverrideFlags
		outputFlags   cmdutil.OutputFlags
		smokeTest     bool
	)

	c := &cobra.Command{
		Use:   "bake",
		Short: "Create a Python package project",
		Long: heredoc.Doc(`
			Create a Python package project in the output directory.

			The project directory is named after project_name_slug. Without
			--force an existing project directory is an error, and a failed bake
			leaves nothing behind. With --force files are rendered over the
			existing project in place.

			The resolved options are recorded so a later 'pybake bake --replay'
			starts from them.`),
		Example: heredoc.Doc(`
			# Bake with defaults into the current directory
			pybake bake

			# Set options on the command line
			pybake bake --set project_name="Data Tools" --set license=ISC

			# Read options from a values file and preview the result
			pybake bake -f values.yaml --dry-run

			# Bake an argparse entry point and run it
			pybake bake --set command_line_interface=argparse --smoke-test`),
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			return runBake(c, g, &overrideFlags, &outputFlags, smokeTest)
		},
	}

	overrideFlags.AddTo(c)
	outputFlags.AddTo(c)
	c.Flags().BoolVar(&smokeTest, "smoke-test", false,
		"Run the generated command line entry point after baking")

	return c
}

func runBake(c *cobra.Command, g *GlobalConfig, overrideFlags *cmdutil.OverrideFlags, outputFlags *cmdutil.OutputFlags, smokeTest bool) error {
	ctx := c.Context()
	out := c.OutOrStdout()

	cfg, err := g.RequireConfig()
	if err != nil {
		return cmdutil.PrintError("loading configuration", err)
	}

	res, err := cmdutil.ResolveOptions(cmdutil.ResolveOpts{Flags: *overrideFlags, Config: cfg})
	if err != nil {
		return cmdutil.PrintError("resolving options", err)
	}

	outputDir := config.ResolveOutputDir(outputFlags.Output, cfg.OutputDir)
	config.LogResolvedValues(outputDir)
	dir, err := config.ExpandPath(outputDir.Value)
	if err != nil {
		return cmdutil.PrintError("resolving output directory", oerrors.NewIOError(outputDir.Value, err))
	}

	result, err := templates.Bake(ctx, templates.BakeOptions{
		Tree:      res.Tree,
		Config:    res.Options,
		OutputDir: dir,
		Force:     outputFlags.Force,
		DryRun:    outputFlags.DryRun,
		Now:       g.now,
	})
	if err != nil {
		return cmdutil.PrintError("bake failed", err)
	}

	projectPath := filepath.Join(dir, result.ProjectDir)
	styles := output.StylesForTerminal()

	if result.DryRun {
		fmt.Fprintf(out, "Dry run: would create %s (%d files)\n\n", output.StyleNoun.Render(projectPath), len(result.Files))
		fmt.Fprint(out, output.RenderFileTree(result.ProjectDir, result.FileMap(), styles))
		if smokeTest {
			output.Warn("--smoke-test has no effect with --dry-run")
		}
		return nil
	}

	store := replay.NewStore(cfg.ReplayDir)
	if err := store.Save(replay.Record{
		Template: res.Template,
		BakedAt:  g.now().UTC(),
		Options:  res.ReplayOptions(),
	}); err != nil {
		output.Warn("could not record options for --replay", "error", err)
	} else {
		output.Debug("recorded replay options", "path", store.Path(res.Template))
	}

	fmt.Fprintln(out, output.FormatCheckmark(fmt.Sprintf("Created %s (%d files)", output.StyleNoun.Render(projectPath), len(result.Files))))
	fmt.Fprintln(out)
	fmt.Fprint(out, output.RenderFileTree(result.ProjectDir, result.FileMap(), styles))

	if smokeTest {
		return runSmokeTest(c, projectPath, res)
	}
	return nil
}

func runSmokeTest(c *cobra.Command, projectPath string, res *cmdutil.Resolution) error {
	var smoke *verify.Result

	err := output.RunWithSpinner(c.Context(), func(ctx context.Context) error {
		var err error
		smoke, err = verify.NewSmokeTest().Run(ctx, projectPath, res.Options)
		return err
	}, output.WithTitle("Running the generated entry point..."))
	if err != nil {
		return cmdutil.PrintError("smoke test failed", err)
	}

	if smoke.Skipped {
		output.Warn("smoke test skipped", "reason", smoke.Reason)
		return nil
	}
	fmt.Fprintln(c.OutOrStdout(), output.FormatCheckmark("Entry point smoke test passed"))
	return nil
}
