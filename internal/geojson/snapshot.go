package geojson

import (
	"encoding/json"
	"strings"
	"time"

	"parcel-watch/internal/sortutil"
)

// Snapshot is one point-in-time indexed collection of parcels.
type Snapshot struct {
	Source      string
	Loaded      time.Time
	SkippedNoID int

	parcels map[string]*Parcel
}

// Empty returns a snapshot with no parcels, used as the comparison base on
// a first run.
func Empty() *Snapshot {
	return &Snapshot{parcels: map[string]*Parcel{}}
}

// NewSnapshot builds an indexed snapshot from already-identified parcels.
// Duplicate IDs follow the same last-seen-wins rule as Load.
func NewSnapshot(parcels ...*Parcel) *Snapshot {
	s := &Snapshot{parcels: make(map[string]*Parcel, len(parcels))}
	for _, p := range parcels {
		s.parcels[p.ID] = p
	}
	return s
}

// Count reports the number of indexed parcels.
func (s *Snapshot) Count() int { return len(s.parcels) }

// Get looks up a parcel by ID.
func (s *Snapshot) Get(id string) (*Parcel, bool) {
	p, ok := s.parcels[id]
	return p, ok
}

// IDs returns all parcel IDs in lexicographic order. Input file ordering is
// never meaningful; every consumer iterates in this order so output stays
// stable across runs.
func (s *Snapshot) IDs() []string {
	return sortutil.SortedKeys(s.parcels)
}

// extractID tries idFields in order against props and returns the first
// present, non-empty value, stringified. Numeric identifiers keep their
// exact decimal form.
func extractID(props map[string]any, idFields []string) (string, bool) {
	for _, f := range idFields {
		v, ok := props[f]
		if !ok || v == nil {
			continue
		}
		switch x := v.(type) {
		case string:
			if t := strings.TrimSpace(x); t != "" {
				return t, true
			}
		case json.Number:
			return x.String(), true
		}
	}
	return "", false
}
