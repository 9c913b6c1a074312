package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"parcel-watch/internal/logging"
	"parcel-watch/internal/run"
)

func newDetectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "detect",
		Short: "Run one detection cycle against the baseline",
		Args:  cobra.NoArgs,
		RunE:  runDetect,
	}
	cmd.Flags().String("current", "", "path to the current parcel dataset (GeoJSON)")
	cmd.Flags().String("baseline", "", "path to the baseline dataset (GeoJSON)")
	cmd.Flags().String("summary", "", "path to write the summary record (JSON)")
	cmd.Flags().String("report", "", "path to write a unified-diff text report (optional)")
	cmd.Flags().String("watchlist", "", "path to the watchlist file")
	cmd.Flags().Int("sample-size", 0, "max IDs listed per class before truncating with +N more")
	cmd.Flags().Bool("send-when-no-changes", false, "mark the notification sendable even with zero changes")
	cmd.Flags().Bool("no-promote", false, "skip promoting the current dataset to baseline")
	return cmd
}

func runDetect(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if v, _ := cmd.Flags().GetString("current"); v != "" {
		cfg.CurrentPath = v
	}
	if v, _ := cmd.Flags().GetString("baseline"); v != "" {
		cfg.BaselinePath = v
	}
	if v, _ := cmd.Flags().GetString("summary"); v != "" {
		cfg.SummaryPath = v
	}
	if v, _ := cmd.Flags().GetString("report"); v != "" {
		cfg.ReportPath = v
	}
	if v, _ := cmd.Flags().GetString("watchlist"); v != "" {
		cfg.WatchlistPath = v
	}
	if v, _ := cmd.Flags().GetInt("sample-size"); v > 0 {
		cfg.SampleSize = v
	}
	if v, _ := cmd.Flags().GetBool("send-when-no-changes"); v {
		cfg.SendWhenNoChanges = true
	}
	if v, _ := cmd.Flags().GetBool("no-promote"); v {
		cfg.Promote = false
	}

	log, err := logging.New(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	out, err := run.Detect(cfg, log)
	if err != nil {
		return err
	}

	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	st := out.Summary.Stats
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "added=%s removed=%s changed=%s unchanged=%d (current=%d)\n",
		green(st.AddedCount), red(st.RemovedCount), yellow(st.ChangedCount),
		st.UnchangedCount, st.CurrentTotal)

	if out.Send {
		fmt.Fprintln(w, out.Message)
	} else {
		fmt.Fprintln(w, "notification suppressed (no changes)")
	}
	return nil
}
