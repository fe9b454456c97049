// Package cmdutil provides shared command utilities for the bake, diff and
// options commands. It centralizes the override flag group, option
// resolution across override layers, and error reporting.
package cmdutil

import (
	"github.com/spf13/cobra"

	"github.com/opmodel/pybake/internal/templates"
)

// OverrideFlags holds flags common to commands that resolve options
// (bake, diff, options).
type OverrideFlags struct {
	Set      []string
	Values   []string
	Replay   bool
	Template string
}

// AddTo registers the override flags on the given cobra command.
func (f *OverrideFlags) AddTo(cmd *cobra.Command) {
	cmd.Flags().StringArrayVar(&f.Set, "set", nil,
		"Set an option as key=value (can be repeated)")
	cmd.Flags().StringArrayVarP(&f.Values, "values", "f", nil,
		"Values file (.cue, .yaml, .json) with option overrides (can be repeated)")
	cmd.Flags().BoolVar(&f.Replay, "replay", false,
		"Start from the options of the previous bake of this template")
	cmd.Flags().StringVar(&f.Template, "template", templates.DefaultTemplateName,
		"Template to bake")
}

// OutputFlags holds flags for commands that write a project.
type OutputFlags struct {
	Output string
	Force  bool
	DryRun bool
}

// AddTo registers the output flags on the given cobra command.
func (f *OutputFlags) AddTo(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.Output, "output", "o", "",
		"Directory to create the project in (default: output_dir from config, or .)")
	cmd.Flags().BoolVar(&f.Force, "force", false,
		"Render over an existing project directory")
	cmd.Flags().BoolVar(&f.DryRun, "dry-run", false,
		"Show what would be created without writing anything")
}
