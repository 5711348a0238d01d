// Package commands defines all Cobra CLI commands for the netatmo-cli binary.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/54b3r/netatmo-cli/internal/audit"
	"github.com/54b3r/netatmo-cli/internal/config"
	"github.com/54b3r/netatmo-cli/internal/logging"
	"github.com/54b3r/netatmo-cli/internal/version"
)

// NewRootCmd constructs the root Cobra command that all subcommands attach to.
func NewRootCmd() *cobra.Command {
	// configPath holds the --config flag value for YAML config file override.
	var configPath string

	root := &cobra.Command{
		Use:   "netatmo-cli",
		Short: "Control Netatmo thermostats from the command line",
		Long: `netatmo-cli controls Netatmo thermostats from the command line.

Settings are read from environment variables or a YAML config file
(~/.netatmo-cli/config.yaml). Environment variables always win.
See 'netatmo-cli --help' for available commands.`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			log := logging.New()

			// Load YAML config (env vars always override YAML values).
			loadedConfigPath, err := config.Load(configPath, log)
			if err != nil {
				return err
			}
			// Rebuild so logging settings from the YAML file take effect.
			log = logging.New()

			if err := enforceRequiredVersion(log); err != nil {
				return err
			}

			// Emit structured audit log for every command invocation.
			audit.LogCommandStart(log, cmd.CommandPath(), loadedConfigPath)

			ctx := logging.WithLogger(cmd.Context(), log)
			cmd.SetContext(ctx)

			recordRun(ctx, cmd.CommandPath())
			return nil
		},
	}

	root.SetVersionTemplate("netatmo-cli {{.Version}}\n")
	root.PersistentFlags().StringVar(&configPath, "config", "", "Path to YAML config file (default: ~/.netatmo-cli/config.yaml)")

	root.AddCommand(
		NewVersionCmd(),
	)

	return root
}
