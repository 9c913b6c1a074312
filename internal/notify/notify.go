// Package notify renders the human-readable notification for one detection
// run and decides whether it should be sent at all. Delivery is someone
// else's job: the caller hands the text to whatever channel it owns, and
// only when Render says so.
package notify

import (
	"fmt"
	"strings"

	"parcel-watch/internal/summary"
)

// Options controls rendering.
type Options struct {
	// SendWhenNoChanges forces the send decision to true even for a run
	// with zero changes (including an initialization run).
	SendWhenNoChanges bool

	// MaxListed bounds each ID list in the message; the remainder is
	// collapsed into an explicit "+N more" marker. Values <= 0 use
	// summary.DefaultSampleSize.
	MaxListed int
}

// Render formats the notification text for s and returns it together with
// the send decision. The text is always produced, even when send is false,
// so callers can log what would have been sent.
func Render(s *summary.Summary, opt Options) (text string, send bool) {
	limit := opt.MaxListed
	if limit <= 0 {
		limit = summary.DefaultSampleSize
	}

	var b strings.Builder
	b.WriteString("Parcel change summary\n")

	if s.Initialized {
		b.WriteString("Baseline created from current parcel dataset; no diff available yet.\n")
		fmt.Fprintf(&b, "Current parcels: %d\n", s.Stats.CurrentTotal)
		return b.String(), opt.SendWhenNoChanges
	}

	fmt.Fprintf(&b, "Current parcels: %d\n", s.Stats.CurrentTotal)
	fmt.Fprintf(&b, "Added: %d\n", s.Stats.AddedCount)
	fmt.Fprintf(&b, "Removed: %d\n", s.Stats.RemovedCount)
	fmt.Fprintf(&b, "Changed: %d\n", s.Stats.ChangedCount)

	writeList(&b, "Added", s.Details.Added, limit)
	writeList(&b, "Removed", s.Details.Removed, limit)
	writeList(&b, "Changed", s.ChangedIDs(), limit)

	if s.Watchlist.Enabled {
		fmt.Fprintf(&b, "Watchlist: filtered to %d watched parcel(s)\n", s.Watchlist.Size)
	}
	b.WriteString("(Changes reflect dataset updates, not verified ownership changes.)")

	return b.String(), s.HasChanges() || opt.SendWhenNoChanges
}

// writeList emits "<label> parcels: id1, id2 +N more" keeping the list's
// existing (lexicographic) order. Empty lists emit nothing.
func writeList(b *strings.Builder, label string, ids []string, limit int) {
	if len(ids) == 0 {
		return
	}
	shown := ids
	more := 0
	if len(ids) > limit {
		shown = ids[:limit]
		more = len(ids) - limit
	}
	fmt.Fprintf(b, "%s parcels: %s", label, strings.Join(shown, ", "))
	if more > 0 {
		fmt.Fprintf(b, " +%d more", more)
	}
	b.WriteString("\n")
}
