// Package report renders an optional reviewer-friendly text report of one
// detection run: a unified diff of each changed parcel's attribute listing,
// plus full listings for parcels that appeared or vanished. Output order is
// the same lexicographic ID order as the delta itself.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"parcel-watch/internal/delta"
	"parcel-watch/internal/diff"
	"parcel-watch/internal/geojson"
	"parcel-watch/internal/textutil"
)

// Render produces the report text for d against the two snapshots.
func Render(d delta.Delta, baseline, current *geojson.Snapshot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# parcel change report\n")
	fmt.Fprintf(&b, "# added=%d removed=%d changed=%d unchanged=%d\n",
		len(d.Added), len(d.Removed), len(d.Changed), d.Unchanged)

	opt := diff.Options{Context: 3}

	for _, id := range d.Added {
		fmt.Fprintf(&b, "\n== added %s\n", id)
		if p, ok := current.Get(id); ok {
			patch, err := diff.Appeared(id, attrLines(p), opt)
			if err == nil {
				b.WriteString(patch)
			}
		}
	}
	for _, id := range d.Removed {
		fmt.Fprintf(&b, "\n== removed %s\n", id)
		if p, ok := baseline.Get(id); ok {
			patch, err := diff.Vanished(id, attrLines(p), opt)
			if err == nil {
				b.WriteString(patch)
			}
		}
	}
	for _, pc := range d.Changed {
		fmt.Fprintf(&b, "\n== changed %s\n", pc.ID)
		prev, pok := baseline.Get(pc.ID)
		curr, cok := current.Get(pc.ID)
		if !pok || !cok {
			continue
		}
		patch, err := diff.Unified("a/"+pc.ID, "b/"+pc.ID, attrLines(prev), attrLines(curr), opt)
		if err == nil {
			b.WriteString(patch)
		}
	}
	return string(textutil.EnsureTrailingLF([]byte(b.String())))
}

// Write renders and persists the report atomically (temp file + rename).
func Write(path string, d delta.Delta, baseline, current *geojson.Snapshot) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(path), ".tmp-"+filepath.Base(path)+"-")
	if err != nil {
		return err
	}
	tmp := f.Name()
	if _, err := f.WriteString(Render(d, baseline, current)); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}

// attrLines renders a parcel's attributes as sorted "FIELD = value" lines.
// Geometry is not an attribute and is not listed.
func attrLines(p *geojson.Parcel) []string {
	fields := make([]string, 0, len(p.Attrs))
	for f := range p.Attrs {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		out = append(out, fmt.Sprintf("%s = %s", f, delta.NewValue(p.Attrs[f]).String()))
	}
	return out
}
