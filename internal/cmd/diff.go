package cmd

import (
	"fmt"

	"github.com/MakeNowJust/heredoc"
	"github.com/spf13/cobra"

	"github.com/opmodel/pybake/internal/cmdutil"
	"github.com/opmodel/pybake/internal/diff"
	"github.com/opmodel/pybake/internal/output"
)

// NewDiffCmd creates the diff command.
func NewDiffCmd(g *GlobalConfig) *cobra.Command {
	var overrideFlags cmdutil.OverrideFlags

	c := &cobra.Command{
		Use:   "diff <project-dir>",
		Short: "Compare a project with a fresh rendering of its template",
		Long: heredoc.Doc(`
			Render the template in memory with the resolved options and compare
			the result with an existing project directory. Nothing is written.

			Files the template would create are listed as added, files it no
			longer produces as removed. Modified YAML files are compared
			structurally; other files get a unified diff. Tool directories such
			as .git, .venv and __pycache__ are ignored.

			Exits 0 whether or not differences were found.`),
		Example: heredoc.Doc(`
			# Compare with the options of the last bake
			pybake diff ./python-project --replay

			# See what switching the license would change
			pybake diff ./python-project --replay --set license=Apache-2.0`),
		Args: cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			cfg, err := g.RequireConfig()
			if err != nil {
				return cmdutil.PrintError("loading configuration", err)
			}

			res, err := cmdutil.ResolveOptions(cmdutil.ResolveOpts{Flags: overrideFlags, Config: cfg})
			if err != nil {
				return cmdutil.PrintError("resolving options", err)
			}

			useColor := output.IsTTY()
			result, err := diff.Project(c.Context(), args[0], diff.Options{
				Tree:     res.Tree,
				Config:   res.Options,
				Now:      g.now,
				UseColor: useColor,
			})
			if err != nil {
				return cmdutil.PrintError("diff failed", err)
			}

			styles := output.PlainStyles()
			if useColor {
				styles = output.GetStyles()
			}
			fmt.Fprintln(c.OutOrStdout(), output.RenderDiff(result.Added, result.Removed, result.Modified, styles))
			return nil
		},
	}

	overrideFlags.AddTo(c)
	return c
}
