package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"parcel-watch/internal/config"
)

var (
	version = "dev"
	commit  = "unknown"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "parcel-watch",
		Short:         "Detect changes in municipal parcel datasets",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	cmd.PersistentFlags().String("config", "", "path to YAML config file")
	cmd.PersistentFlags().String("log-level", "", "log level override (debug|info|warn|error)")

	cmd.AddCommand(newDetectCmd())
	cmd.AddCommand(newSummaryCmd())
	cmd.AddCommand(newWatchlistCmd())
	cmd.AddCommand(newVersionCmd())
	return cmd
}

// resolveConfig applies the precedence chain up to persistent flags.
// Command-local flags are layered on top by each command.
func resolveConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}
	if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
		cfg.LogLevel = lvl
	}
	return cfg, nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "parcel-watch %s (%s)\n", version, commit)
		},
	}
}
