// Package cmd implements the kaya command line interface.
package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/mmogomedia/kaya/internal/log"
)

var (
	flagDebug   bool
	flagLogJSON bool
)

var rootCmd = &cobra.Command{
	Use:   "kaya",
	Short: "Kaya - conversational assistant for South African music",
	Long: `Kaya is the conversational assistant behind the Kaya music platform.

It routes listener queries to specialized discovery, playback, and
recommendation agents, lets the model call catalogue tools, and shapes
the results into renderable responses.

Run "kaya serve" to start the HTTP API, or "kaya ask" for a one-shot
query from the terminal.`,
	SilenceUsage: true,
	PersistentPreRun: func(*cobra.Command, []string) {
		level := slog.LevelInfo
		if flagDebug {
			level = slog.LevelDebug
		}
		slog.SetDefault(log.New(log.Config{Level: level, JSON: flagLogJSON}))
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&flagLogJSON, "log-json", false, "log in JSON format")
}
