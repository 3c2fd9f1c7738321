// Package cli defines the orbitsim command tree.
package cli

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/signalsfoundry/orbit-simulator/internal/logging"
)

// Options stores global CLI options shared between commands.
type Options struct {
	LogLevel  string
	LogFormat string
	EnvFile   string
}

// Execute builds the root command, runs it with the provided args, and
// returns any error.
func Execute(args []string) error {
	rootCmd := NewRootCommand()
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

// NewRootCommand constructs the root cobra.Command with global flags and
// subcommands.
func NewRootCommand() *cobra.Command {
	opts := &Options{}

	cmd := &cobra.Command{
		Use:           "orbitsim",
		Short:         "orbitsim computes positions of bodies on nested elliptical orbits",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if opts.EnvFile != "" {
				if err := godotenv.Load(opts.EnvFile); err != nil {
					return fmt.Errorf("load env file %q: %w", opts.EnvFile, err)
				}
			}

			level := opts.LogLevel
			if level == "" {
				level = os.Getenv("ORBITSIM_LOG_LEVEL")
			}
			format := opts.LogFormat
			if format == "" {
				format = os.Getenv("ORBITSIM_LOG_FORMAT")
			}
			log := logging.New(logging.Config{Level: level, Format: format})
			cmd.SetContext(logging.ContextWithLogger(cmd.Context(), log))
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(&opts.LogFormat, "log-format", "", "Log format (json, console)")
	cmd.PersistentFlags().StringVar(&opts.EnvFile, "env-file", "", "Path to a .env file to load before running")

	cmd.AddCommand(
		newRunCommand(),
		newValidateCommand(),
		newPositionsCommand(),
		newImportTLECommand(),
	)

	return cmd
}
