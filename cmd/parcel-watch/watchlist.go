package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"parcel-watch/internal/watchlist"
)

func newWatchlistCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watchlist",
		Short: "Show the parsed watchlist",
		Args:  cobra.NoArgs,
		RunE:  runWatchlist,
	}
	cmd.Flags().String("watchlist", "", "path to the watchlist file")
	return cmd
}

func runWatchlist(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if v, _ := cmd.Flags().GetString("watchlist"); v != "" {
		cfg.WatchlistPath = v
	}

	set, err := watchlist.Load(cfg.WatchlistPath)
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()
	if set == nil {
		fmt.Fprintf(w, "watch mode off (%s not found)\n", cfg.WatchlistPath)
		return nil
	}
	if len(set) == 0 {
		fmt.Fprintf(w, "watchlist %s is empty; filtering disabled\n", cfg.WatchlistPath)
		return nil
	}
	fmt.Fprintf(w, "watching %d parcel(s):\n", len(set))
	for _, id := range set.IDs() {
		fmt.Fprintf(w, "  %s\n", id)
	}
	return nil
}
