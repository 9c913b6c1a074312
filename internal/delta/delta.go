// Package delta computes the change set between two parcel snapshots.
//
// The comparison is keyed purely by parcel ID: a parcel present in the
// current snapshot but not the baseline is Added, the reverse is Removed,
// and parcels present in both are compared attribute by attribute over the
// union of their field names. A field absent from one side is normalized to
// a "missing" sentinel that is never equal to JSON null or to the empty
// string.
//
// All output is deterministic: Added/Removed are sorted by ID, Changed is
// sorted by ID, and each parcel's field changes are sorted by field name.
// Two runs over the same pair of files yield identical deltas regardless of
// feature order on disk.
package delta

import (
	"sort"

	"parcel-watch/internal/geojson"
	"parcel-watch/internal/sortutil"
)

// FieldChange is one differing attribute: field name plus the old and new
// values. A nil Old means the field appeared; a nil New means it vanished.
type FieldChange struct {
	Field string `json:"field"`
	Old   *Value `json:"old,omitempty"`
	New   *Value `json:"new,omitempty"`
}

// ParcelChange groups the field changes of one parcel present in both
// snapshots.
type ParcelChange struct {
	ID     string        `json:"parcel_id"`
	Fields []FieldChange `json:"changes"`
}

// Delta is the full classification of one comparison run.
type Delta struct {
	Added     []string       `json:"added"`
	Removed   []string       `json:"removed"`
	Changed   []ParcelChange `json:"changed"`
	Unchanged int            `json:"unchanged"`
}

// Options tunes the comparison.
type Options struct {
	// IgnoreFields are attribute names excluded from the field diff, for
	// service-generated counters that churn on every export. IDs are still
	// matched normally even when an identifier field is listed here.
	IgnoreFields []string
}

// Build compares baseline against current and returns the change set.
func Build(baseline, current *geojson.Snapshot, opt Options) Delta {
	ignore := make(map[string]struct{}, len(opt.IgnoreFields))
	for _, f := range opt.IgnoreFields {
		if f != "" {
			ignore[f] = struct{}{}
		}
	}

	d := Delta{
		Added:   make([]string, 0),
		Removed: make([]string, 0),
		Changed: make([]ParcelChange, 0),
	}

	for _, id := range current.IDs() {
		if _, ok := baseline.Get(id); !ok {
			d.Added = append(d.Added, id)
		}
	}
	for _, id := range baseline.IDs() {
		curr, ok := current.Get(id)
		if !ok {
			d.Removed = append(d.Removed, id)
			continue
		}
		prev, _ := baseline.Get(id)
		fields := diffFields(prev, curr, ignore)
		if len(fields) == 0 {
			d.Unchanged++
			continue
		}
		d.Changed = append(d.Changed, ParcelChange{ID: id, Fields: fields})
	}

	// IDs() is already sorted; sorting again keeps the invariant local and
	// cheap if callers ever construct snapshots differently.
	sort.Strings(d.Added)
	sort.Strings(d.Removed)
	sort.Slice(d.Changed, func(i, j int) bool { return d.Changed[i].ID < d.Changed[j].ID })
	return d
}

// diffFields compares two versions of the same parcel over the union of
// their attribute names. Geometry is not an attribute and never shows up
// here.
func diffFields(prev, curr *geojson.Parcel, ignore map[string]struct{}) []FieldChange {
	union := make(map[string]struct{}, len(prev.Attrs)+len(curr.Attrs))
	for k := range prev.Attrs {
		union[k] = struct{}{}
	}
	for k := range curr.Attrs {
		union[k] = struct{}{}
	}

	out := make([]FieldChange, 0)
	for _, field := range sortutil.SortedKeys(union) {
		if _, skip := ignore[field]; skip {
			continue
		}
		ov, oPresent := prev.Attrs[field]
		nv, nPresent := curr.Attrs[field]
		switch {
		case !oPresent && !nPresent:
			// Unreachable given the union, kept for clarity.
			continue
		case oPresent != nPresent:
			// Missing on one side is always a change, even against "".
		case valueEqual(ov, nv):
			continue
		}
		fc := FieldChange{Field: field}
		if oPresent {
			fc.Old = NewValue(ov)
		}
		if nPresent {
			fc.New = NewValue(nv)
		}
		out = append(out, fc)
	}
	return out
}
