package summary

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Validate checks structural constraints on a summary record before it is
// written. It aggregates every complaint into a single error so a bad
// record is diagnosed in one pass:
//
//   - Status must be "ok" or "initialized", matching the Initialized flag.
//   - Generated must be set.
//   - Counts must be non-negative and consistent with the detail lists.
//   - Samples must be prefixes of the corresponding details.
//   - Detail lists must be sorted by ID (determinism contract).
//   - An initialized record must report zero adds/removes/changes.
func Validate(s *Summary) error {
	var errs errlist

	switch s.Status {
	case StatusOK:
		if s.Initialized {
			errs.add("status %q conflicts with initialized=true", s.Status)
		}
	case StatusInitialized:
		if !s.Initialized {
			errs.add("status %q conflicts with initialized=false", s.Status)
		}
	default:
		errs.add("status must be %q or %q (got %q)", StatusOK, StatusInitialized, s.Status)
	}

	if s.Generated.IsZero() {
		errs.add("generated timestamp must be set")
	}

	st := s.Stats
	for _, c := range []struct {
		name string
		n    int
	}{
		{"current_total", st.CurrentTotal},
		{"previous_total", st.PreviousTotal},
		{"added_count", st.AddedCount},
		{"removed_count", st.RemovedCount},
		{"changed_count", st.ChangedCount},
		{"unchanged_count", st.UnchangedCount},
		{"skipped_current", st.SkippedCurrent},
		{"skipped_previous", st.SkippedPrevious},
	} {
		if c.n < 0 {
			errs.add("stats.%s must be >= 0 (got %d)", c.name, c.n)
		}
	}

	if st.AddedCount != len(s.Details.Added) {
		errs.add("stats.added_count=%d but details.added has %d entries", st.AddedCount, len(s.Details.Added))
	}
	if st.RemovedCount != len(s.Details.Removed) {
		errs.add("stats.removed_count=%d but details.removed has %d entries", st.RemovedCount, len(s.Details.Removed))
	}
	if st.ChangedCount != len(s.Details.Changed) {
		errs.add("stats.changed_count=%d but details.changed has %d entries", st.ChangedCount, len(s.Details.Changed))
	}

	if s.Initialized && (st.AddedCount != 0 || st.RemovedCount != 0 || st.ChangedCount != 0) {
		errs.add("initialized run must report zero adds/removes/changes")
	}

	if !sort.StringsAreSorted(s.Details.Added) {
		errs.add("details.added must be sorted by ID")
	}
	if !sort.StringsAreSorted(s.Details.Removed) {
		errs.add("details.removed must be sorted by ID")
	}
	if !sort.SliceIsSorted(s.Details.Changed, func(i, j int) bool {
		return s.Details.Changed[i].ID < s.Details.Changed[j].ID
	}) {
		errs.add("details.changed must be sorted by ID")
	}

	if !isPrefix(s.Samples.Added, s.Details.Added) {
		errs.add("samples.added must be a prefix of details.added")
	}
	if !isPrefix(s.Samples.Removed, s.Details.Removed) {
		errs.add("samples.removed must be a prefix of details.removed")
	}
	if !isPrefix(s.Samples.Changed, s.ChangedIDs()) {
		errs.add("samples.changed must be a prefix of details.changed IDs")
	}

	if s.Watchlist.Size < 0 {
		errs.add("watchlist.size must be >= 0 (got %d)", s.Watchlist.Size)
	}
	if s.Watchlist.Enabled && s.Watchlist.Size == 0 {
		errs.add("watchlist.enabled=true requires size > 0")
	}

	return errs.err()
}

func isPrefix(sample, full []string) bool {
	if len(sample) > len(full) {
		return false
	}
	for i := range sample {
		if sample[i] != full[i] {
			return false
		}
	}
	return true
}

// errlist aggregates multiple validation issues into a single error.
type errlist struct {
	msgs []string
}

func (e *errlist) add(format string, args ...any) {
	e.msgs = append(e.msgs, fmt.Sprintf(format, args...))
}

func (e *errlist) err() error {
	if len(e.msgs) == 0 {
		return nil
	}
	return errors.New(strings.Join(e.msgs, "\n"))
}
