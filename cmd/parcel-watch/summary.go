package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"parcel-watch/internal/summary"
)

func newSummaryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Pretty-print the last persisted summary record",
		Args:  cobra.NoArgs,
		RunE:  runSummary,
	}
	cmd.Flags().String("summary", "", "path to the summary record (JSON)")
	return cmd
}

func runSummary(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if v, _ := cmd.Flags().GetString("summary"); v != "" {
		cfg.SummaryPath = v
	}

	s, err := summary.Load(cfg.SummaryPath)
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()
	if s == nil {
		fmt.Fprintf(w, "no summary recorded yet (%s)\n", cfg.SummaryPath)
		return nil
	}

	bold := color.New(color.Bold).SprintFunc()
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()

	fmt.Fprintf(w, "%s  %s\n", bold("status:"), s.Status)
	fmt.Fprintf(w, "%s %s\n", bold("generated:"), s.Generated.Format(time.RFC3339))
	st := s.Stats
	fmt.Fprintf(w, "%s current=%d previous=%d added=%s removed=%s changed=%s unchanged=%d\n",
		bold("stats:"), st.CurrentTotal, st.PreviousTotal,
		green(st.AddedCount), red(st.RemovedCount), yellow(st.ChangedCount), st.UnchangedCount)
	if st.SkippedCurrent > 0 || st.SkippedPrevious > 0 {
		fmt.Fprintf(w, "%s current=%d previous=%d (features without identifier)\n",
			bold("skipped:"), st.SkippedCurrent, st.SkippedPrevious)
	}
	if s.Watchlist.Enabled {
		fmt.Fprintf(w, "%s %d parcel(s) watched\n", bold("watchlist:"), s.Watchlist.Size)
	}
	printSample(w, green("sample added:"), s.Samples.Added)
	printSample(w, red("sample removed:"), s.Samples.Removed)
	printSample(w, yellow("sample changed:"), s.Samples.Changed)
	return nil
}

func printSample(w io.Writer, label string, ids []string) {
	if len(ids) == 0 {
		return
	}
	fmt.Fprintf(w, "%s %s\n", label, strings.Join(ids, ", "))
}
