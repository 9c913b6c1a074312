// Package run orchestrates one synchronous detection cycle: load both
// snapshots, diff, apply the watchlist, persist the summary (and optional
// report), render the notification, then promote the current dataset to be
// the next baseline.
//
// Failure policy (documented, not incidental):
//   - A missing or invalid CURRENT dataset is fatal: nothing is written,
//     the previous summary and baseline stay untouched.
//   - A missing BASELINE is a first run: the summary is flagged
//     initialized=true, zero adds/removes are reported, and the baseline is
//     created by promotion. An invalid baseline is fatal.
//   - An unreadable watchlist file is fatal. Proceeding unfiltered when
//     filtering was configured would silently change the report's meaning
//     between runs.
//   - Per-record identification failures never abort; they are counted in
//     the summary.
package run

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"parcel-watch/internal/config"
	"parcel-watch/internal/delta"
	"parcel-watch/internal/geojson"
	"parcel-watch/internal/notify"
	"parcel-watch/internal/report"
	"parcel-watch/internal/summary"
	"parcel-watch/internal/watchlist"
)

// Outcome is what one completed run hands back to the command layer.
type Outcome struct {
	Summary     *summary.Summary
	Message     string
	Send        bool
	Initialized bool
}

// Detect executes one detection cycle with cfg. The caller owns process
// exit codes and any delivery of Outcome.Message.
func Detect(cfg config.Config, log *zap.Logger) (*Outcome, error) {
	current, err := geojson.Load(cfg.CurrentPath, cfg.IDFields)
	if err != nil {
		return nil, err
	}
	log.Info("loaded current dataset",
		zap.String("path", cfg.CurrentPath),
		zap.Int("parcels", current.Count()),
		zap.Int("skipped", current.SkippedNoID))

	initialized := false
	baseline, err := geojson.Load(cfg.BaselinePath, cfg.IDFields)
	if err != nil {
		if !errors.Is(err, geojson.ErrDatasetMissing) {
			return nil, err
		}
		initialized = true
		baseline = geojson.Empty()
		log.Info("no baseline found, initializing", zap.String("path", cfg.BaselinePath))
	} else {
		log.Info("loaded baseline dataset",
			zap.String("path", cfg.BaselinePath),
			zap.Int("parcels", baseline.Count()),
			zap.Int("skipped", baseline.SkippedNoID))
	}

	watch, err := watchlist.Load(cfg.WatchlistPath)
	if err != nil {
		return nil, err
	}
	if len(watch) > 0 {
		log.Info("watchlist active", zap.Int("size", len(watch)))
	}

	var d delta.Delta
	if initialized {
		// First-run policy: the baseline did not exist, so nothing is
		// reported as added; the comparison starts next run.
		d = delta.Delta{Added: []string{}, Removed: []string{}, Changed: []delta.ParcelChange{}}
	} else {
		d = delta.Build(baseline, current, delta.Options{IgnoreFields: cfg.IgnoreFields})
		d = watchlist.Filter(d, watch)
	}

	sum := summary.Build(summary.BuildInput{
		Delta:       d,
		Current:     current,
		Baseline:    baseline,
		Watch:       watch,
		Initialized: initialized,
		SampleSize:  cfg.SampleSize,
		Now:         time.Now(),
	})
	if err := summary.Validate(sum); err != nil {
		return nil, err
	}
	if err := summary.Save(cfg.SummaryPath, sum); err != nil {
		return nil, err
	}
	log.Info("summary written", zap.String("path", cfg.SummaryPath))

	if cfg.ReportPath != "" {
		if err := report.Write(cfg.ReportPath, d, baseline, current); err != nil {
			return nil, err
		}
		log.Info("report written", zap.String("path", cfg.ReportPath))
	}

	msg, send := notify.Render(sum, notify.Options{
		SendWhenNoChanges: cfg.SendWhenNoChanges,
		MaxListed:         cfg.SampleSize,
	})

	if cfg.Promote {
		if err := promote(cfg.CurrentPath, cfg.BaselinePath); err != nil {
			return nil, err
		}
		log.Info("baseline promoted", zap.String("path", cfg.BaselinePath))
	}

	return &Outcome{Summary: sum, Message: msg, Send: send, Initialized: initialized}, nil
}

// promote copies the current dataset over the baseline path using a
// write-then-rename so a crash mid-copy never leaves a torn baseline.
func promote(currentPath, baselinePath string) error {
	src, err := os.Open(currentPath)
	if err != nil {
		return err
	}
	defer src.Close()

	dir := filepath.Dir(baselinePath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, ".tmp-"+filepath.Base(baselinePath)+"-")
	if err != nil {
		return err
	}
	tmp := f.Name()
	if _, err := io.Copy(f, src); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, baselinePath)
}
