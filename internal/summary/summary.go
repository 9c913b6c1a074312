// Package summary builds and persists the per-run summary record: stable
// field names, deterministic ordering, written atomically so readers never
// observe a torn file.
//
// The record carries both a truncated "samples" view for quick consumption
// and a full "details" section with every field-level change. Watchlist
// scope is recorded explicitly so a filtered zero-change run can never be
// mistaken for an unfiltered one.
package summary

import (
	"time"

	"parcel-watch/internal/delta"
	"parcel-watch/internal/geojson"
	"parcel-watch/internal/watchlist"
)

// Status values for the Summary record.
const (
	StatusOK          = "ok"
	StatusInitialized = "initialized"
)

// DefaultSampleSize bounds the samples section when the caller does not
// configure a limit.
const DefaultSampleSize = 10

// Stats are the headline counts of one run.
type Stats struct {
	CurrentTotal    int `json:"current_total"`
	PreviousTotal   int `json:"previous_total"`
	AddedCount      int `json:"added_count"`
	RemovedCount    int `json:"removed_count"`
	ChangedCount    int `json:"changed_count"`
	UnchangedCount  int `json:"unchanged_count"`
	SkippedCurrent  int `json:"skipped_current"`
	SkippedPrevious int `json:"skipped_previous"`
}

// WatchInfo records whether the diff was restricted to a watchlist.
type WatchInfo struct {
	Enabled bool `json:"enabled"`
	Size    int  `json:"size"`
}

// Samples hold the first IDs of each class, in the same lexicographic order
// as the full details, bounded by the configured sample size.
type Samples struct {
	Added   []string `json:"added"`
	Removed []string `json:"removed"`
	Changed []string `json:"changed"`
}

// Details enumerate every classified parcel, including field-level changes.
type Details struct {
	Added   []string             `json:"added"`
	Removed []string             `json:"removed"`
	Changed []delta.ParcelChange `json:"changed"`
}

// Summary is the persisted record of one detection run.
type Summary struct {
	Status      string    `json:"status"`
	Generated   time.Time `json:"generated"`
	Initialized bool      `json:"initialized"`
	Stats       Stats     `json:"stats"`
	Watchlist   WatchInfo `json:"watchlist"`
	Samples     Samples   `json:"samples"`
	Details     Details   `json:"details"`
}

// BuildInput carries everything Build needs. Now is injected so identical
// inputs can produce byte-identical records under test.
type BuildInput struct {
	Delta       delta.Delta
	Current     *geojson.Snapshot
	Baseline    *geojson.Snapshot
	Watch       watchlist.Set
	Initialized bool
	SampleSize  int
	Now         time.Time
}

// Build assembles the summary record for one run.
func Build(in BuildInput) *Summary {
	size := in.SampleSize
	if size <= 0 {
		size = DefaultSampleSize
	}

	changedIDs := make([]string, 0, len(in.Delta.Changed))
	for _, pc := range in.Delta.Changed {
		changedIDs = append(changedIDs, pc.ID)
	}

	status := StatusOK
	if in.Initialized {
		status = StatusInitialized
	}

	s := &Summary{
		Status:      status,
		Generated:   in.Now.UTC().Truncate(time.Second),
		Initialized: in.Initialized,
		Stats: Stats{
			CurrentTotal:    in.Current.Count(),
			PreviousTotal:   in.Baseline.Count(),
			AddedCount:      len(in.Delta.Added),
			RemovedCount:    len(in.Delta.Removed),
			ChangedCount:    len(in.Delta.Changed),
			UnchangedCount:  in.Delta.Unchanged,
			SkippedCurrent:  in.Current.SkippedNoID,
			SkippedPrevious: in.Baseline.SkippedNoID,
		},
		Watchlist: WatchInfo{Enabled: len(in.Watch) > 0, Size: len(in.Watch)},
		Samples: Samples{
			Added:   head(in.Delta.Added, size),
			Removed: head(in.Delta.Removed, size),
			Changed: head(changedIDs, size),
		},
		Details: Details{
			Added:   nonNil(in.Delta.Added),
			Removed: nonNil(in.Delta.Removed),
			Changed: nonNilChanges(in.Delta.Changed),
		},
	}
	return s
}

// ChangedIDs returns the IDs of changed parcels in detail order.
func (s *Summary) ChangedIDs() []string {
	out := make([]string, 0, len(s.Details.Changed))
	for _, pc := range s.Details.Changed {
		out = append(out, pc.ID)
	}
	return out
}

// HasChanges reports whether any parcel was classified as added, removed or
// changed.
func (s *Summary) HasChanges() bool {
	return s.Stats.AddedCount+s.Stats.RemovedCount+s.Stats.ChangedCount > 0
}

func head(ids []string, n int) []string {
	if len(ids) > n {
		ids = ids[:n]
	}
	out := make([]string, len(ids))
	copy(out, ids)
	return out
}

// nonNil guarantees [] instead of null in the marshaled record.
func nonNil(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}

func nonNilChanges(cs []delta.ParcelChange) []delta.ParcelChange {
	if cs == nil {
		return []delta.ParcelChange{}
	}
	return cs
}
