package cmd

import (
	"github.com/MakeNowJust/heredoc"
	"github.com/spf13/cobra"

	"github.com/opmodel/pybake/internal/config"
	"github.com/opmodel/pybake/internal/output"
	"github.com/opmodel/pybake/internal/version"
)

// rootFlags are the persistent flags shared by every command.
type rootFlags struct {
	config     string
	verbose    bool
	timestamps bool
}

// NewRootCmd creates the root command for the pybake CLI.
func NewRootCmd() *cobra.Command {
	return newRootCmd(&GlobalConfig{})
}

func newRootCmd(g *GlobalConfig) *cobra.Command {
	var flags rootFlags

	rootCmd := &cobra.Command{
		Use:   "pybake",
		Short: "Bake Python package projects from templates",
		Long: heredoc.Doc(`
			pybake creates ready-to-use Python package projects from a built-in
			template: packaging metadata, license, documentation, tests and an
			optional command line entry point.

			Options come from, in increasing precedence: built-in defaults, the
			default_context of the config file, the replay record of the previous
			bake (--replay), values files (-f) and --set flags.`),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return initializeGlobals(cmd, g, &flags)
		},
	}

	rootCmd.PersistentFlags().StringVar(&flags.config, "config", "", "Path to config file (env: PYBAKE_CONFIG)")
	rootCmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&flags.timestamps, "timestamps", true, "Show timestamps in log output")

	rootCmd.AddCommand(NewBakeCmd(g))
	rootCmd.AddCommand(NewOptionsCmd(g))
	rootCmd.AddCommand(NewDiffCmd(g))
	rootCmd.AddCommand(NewConfigCmd(g))
	rootCmd.AddCommand(NewVersionCmd(g))

	return rootCmd
}

// initializeGlobals loads configuration and sets up logging.
func initializeGlobals(cmd *cobra.Command, g *GlobalConfig, flags *rootFlags) error {
	configPath := config.ResolveConfigPath(flags.config)
	g.ConfigPath = configPath.Value
	g.Verbose = flags.verbose

	cfg, err := config.NewLoader().LoadWithDefaults(configPath.Value, config.DefaultPaths())
	if err != nil {
		// Commands that need the config report this; config vet and init must
		// still work on a broken file.
		g.LoadErr = err
	}
	g.Config = cfg

	output.SetupLogging(output.LogConfig{
		Verbose:    flags.verbose,
		Timestamps: config.ResolveTimestamps(cmd.Flags().Changed("timestamps"), flags.timestamps, cfg),
	})

	if err != nil {
		output.Debug("config load error", "error", err)
	}

	info := version.Get()
	output.Debug("pybake started", "version", info.Version, "cue_sdk", info.CUESDKVersion)
	config.LogResolvedValues(configPath)

	return nil
}
