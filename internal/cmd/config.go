package cmd

import (
	"errors"
	"fmt"

	"github.com/MakeNowJust/heredoc"
	"github.com/spf13/cobra"

	"github.com/opmodel/pybake/internal/cmdutil"
	"github.com/opmodel/pybake/internal/config"
	oerrors "github.com/opmodel/pybake/internal/errors"
	"github.com/opmodel/pybake/internal/output"
	"github.com/opmodel/pybake/internal/templates"
)

// NewConfigCmd creates the config command group.
func NewConfigCmd(g *GlobalConfig) *cobra.Command {
	c := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
		Long:  `Configuration management for the pybake CLI.`,
	}

	c.AddCommand(NewConfigInitCmd(g))
	c.AddCommand(NewConfigVetCmd(g))

	return c
}

// NewConfigInitCmd creates the config init command.
func NewConfigInitCmd(g *GlobalConfig) *cobra.Command {
	var force bool

	c := &cobra.Command{
		Use:   "init",
		Short: "Initialize default configuration",
		Long: heredoc.Doc(`
			Write a default configuration file.

			The file is created at the resolved config path:
			  --config flag > PYBAKE_CONFIG env > <xdg config>/pybake/config.yaml

			It sets default_context placeholders for your name, email and GitHub
			user name, which every bake then uses unless overridden.`),
		Example: heredoc.Doc(`
			# Initialize configuration
			pybake config init

			# Overwrite existing configuration
			pybake config init --force`),
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			path, err := config.ExpandPath(g.ConfigPath)
			if err != nil {
				return cmdutil.PrintError("resolving config path", oerrors.NewIOError(g.ConfigPath, err))
			}

			if err := config.WriteDefault(path, force); err != nil {
				return cmdutil.PrintError("writing configuration", err)
			}

			fmt.Fprintln(c.OutOrStdout(), output.FormatCheckmark("Config file created: "+path))
			fmt.Fprintln(c.OutOrStdout(), "Validate with: pybake config vet")
			return nil
		},
	}

	c.Flags().BoolVarP(&force, "force", "f", false, "Overwrite existing configuration")
	return c
}

// NewConfigVetCmd creates the config vet command.
func NewConfigVetCmd(g *GlobalConfig) *cobra.Command {
	return &cobra.Command{
		Use:   "vet",
		Short: "Validate configuration",
		Long: heredoc.Doc(`
			Validate the configuration file.

			Checks performed:
			  1. The config file exists at the resolved path
			  2. It is valid YAML matching the config schema (no unknown fields,
			     string option values, non-empty directories)
			  3. Every default_context key is a known option and every choice
			     option holds an allowed value

			Each failing field is reported. Exits 2 when validation fails.`),
		Args: cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			path, err := config.ExpandPath(g.ConfigPath)
			if err != nil {
				return cmdutil.PrintError("resolving config path", oerrors.NewIOError(g.ConfigPath, err))
			}

			validator, err := config.NewValidator()
			if err != nil {
				return cmdutil.PrintError("loading config schema", err)
			}

			schema, err := templates.Schema(templates.DefaultTemplateName)
			if err != nil {
				return cmdutil.PrintError("loading option schema", err)
			}

			output.Debug("validating config", "path", path)
			if err := validator.ValidateFile(path, schema); err != nil {
				var verrs config.ValidationErrors
				if errors.As(err, &verrs) {
					output.Error("configuration is invalid", "path", path)
					for _, e := range verrs {
						output.Error(e.Message, "field", e.Field)
					}
					return &oerrors.ExitError{Code: oerrors.ExitValidationError, Err: err, Printed: true}
				}
				return cmdutil.PrintError("validating configuration", err)
			}

			fmt.Fprintln(c.OutOrStdout(), output.FormatCheckmark("Configuration is valid: "+path))
			return nil
		},
	}
}
