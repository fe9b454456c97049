package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/opmodel/pybake/internal/version"
)

// NewVersionCmd creates the version command.
func NewVersionCmd(_ *GlobalConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long: `Show pybake version information.

Displays:
  - pybake version, commit, build date and Go version
  - CUE SDK version (embedded in the CLI)
  - the Python interpreter used by 'bake --smoke-test'`,
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			out := c.OutOrStdout()
			fmt.Fprintln(out, version.Get().String())
			fmt.Fprintln(out)
			fmt.Fprintln(out, "Python:")
			fmt.Fprintln(out, version.DetectPython(c.Context()).String())
			return nil
		},
	}
}
