// Package watchlist loads an optional parcel-ID allowlist and restricts a
// delta to it. When no watchlist file is configured the filter is an
// identity transform; consumers can tell the two apart because the summary
// records whether filtering was applied and how many IDs were watched.
package watchlist

import (
	"errors"
	"io/fs"
	"os"
	"strings"

	"parcel-watch/internal/delta"
	"parcel-watch/internal/sortutil"
	"parcel-watch/internal/textutil"
)

// Set is the parsed watchlist. A nil Set means watch mode is off.
type Set map[string]struct{}

// Has reports membership. Nil sets contain nothing.
func (s Set) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// IDs returns the watched IDs in lexicographic order.
func (s Set) IDs() []string { return sortutil.SortedKeys(s) }

// Load parses the watchlist file at path: one parcel ID per line, blank
// lines and '#'-comment lines ignored, CRLF tolerated.
//
// An absent file returns (nil, nil): watch mode off. Any other read failure
// is an error; the caller fails the run rather than silently reporting an
// unfiltered diff when filtering was configured.
func Load(path string) (Set, error) {
	if path == "" {
		return nil, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	return Parse(string(textutil.NormalizeUTF8LF(b))), nil
}

// Parse builds a Set from watchlist file content. It always returns a
// non-nil Set, possibly empty; emptiness disables filtering (see Filter).
func Parse(content string) Set {
	set := Set{}
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		set[line] = struct{}{}
	}
	return set
}

// Filter restricts d to parcels in set. An empty or nil set returns d
// untouched. The Unchanged count is not filtered: it describes the overall
// comparison, not the watched subset.
func Filter(d delta.Delta, set Set) delta.Delta {
	if len(set) == 0 {
		return d
	}
	out := delta.Delta{
		Added:     keep(d.Added, set),
		Removed:   keep(d.Removed, set),
		Changed:   make([]delta.ParcelChange, 0),
		Unchanged: d.Unchanged,
	}
	for _, pc := range d.Changed {
		if set.Has(pc.ID) {
			out.Changed = append(out.Changed, pc)
		}
	}
	return out
}

func keep(ids []string, set Set) []string {
	out := make([]string, 0)
	for _, id := range ids {
		if set.Has(id) {
			out = append(out, id)
		}
	}
	return out
}
