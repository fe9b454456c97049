package cmd

import (
	"fmt"

	"github.com/MakeNowJust/heredoc"
	"github.com/spf13/cobra"

	"github.com/opmodel/pybake/internal/cmdutil"
	"github.com/opmodel/pybake/internal/output"
)

// NewOptionsCmd creates the options command.
func NewOptionsCmd(g *GlobalConfig) *cobra.Command {
	var overrideFlags cmdutil.OverrideFlags

	c := &cobra.Command{
		Use:   "options",
		Short: "List template options and their resolved values",
		Long: heredoc.Doc(`
			List every option of the template with its kind, the value a bake
			would use, where that value comes from, and the allowed values of
			choice options.

			Accepts the same override flags as bake, so it can be used to
			preview how --set, -f and --replay combine.`),
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			cfg, err := g.RequireConfig()
			if err != nil {
				return cmdutil.PrintError("loading configuration", err)
			}

			res, err := cmdutil.ResolveOptions(cmdutil.ResolveOpts{Flags: overrideFlags, Config: cfg})
			if err != nil {
				return cmdutil.PrintError("resolving options", err)
			}

			fmt.Fprintln(c.OutOrStdout(), output.RenderOptionsTable(res.OptionRows()))
			return nil
		},
	}

	overrideFlags.AddTo(c)
	return c
}
