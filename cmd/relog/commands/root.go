// Package commands wires the relog CLI.
package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

const (
	ErrorColor   = "\033[31m" // Red
	SuccessColor = "\033[32m" // Green
	ResetColor   = "\033[0m"
)

// rootOptions carries state shared by every subcommand. Logging goes to
// stderr so data on stdout stays clean.
type rootOptions struct {
	verbose    bool
	configPath string
	logger     zerolog.Logger
}

// NewRootCmd constructs the relog root command.
func NewRootCmd(version string) *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "relog",
		Short:         "relog - AI-summarized release notes from git history",
		Long:          "relog walks git history, filters it down to changelog-worthy commits and summarizes each one with a chat-completion service.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := zerolog.WarnLevel
			if opts.verbose {
				level = zerolog.DebugLevel
			}
			opts.logger = zerolog.New(zerolog.ConsoleWriter{
				Out:        os.Stderr,
				TimeFormat: time.Kitchen,
			}).Level(level).With().Timestamp().Logger()
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable verbose output")
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default .relog.yaml if present)")

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number of relog",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "relog version %s\n", version)
		},
	})

	cmd.AddCommand(newFetchCommand(opts))
	cmd.AddCommand(newChangelogCommand(opts))
	cmd.AddCommand(newHistoryCommand(opts))
	cmd.AddCommand(newStatsCommand(opts))

	return cmd
}
