package geojson

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

const sampleFC = `{
  "type": "FeatureCollection",
  "features": [
    {"type": "Feature", "properties": {"PARCEL_ID": "15-003-0002", "STREET": "123 MAIN ST"}, "geometry": {"type": "Polygon", "coordinates": []}},
    {"type": "Feature", "properties": {"PARCEL_ID": "15-003-0001", "STREET": "99 ELM ST"}, "geometry": null}
  ]
}`

func TestLoadIndexesByParcelID(t *testing.T) {
	path := writeFile(t, "parcels.geojson", sampleFC)
	s, err := Load(path, nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Count() != 2 {
		t.Fatalf("count got %d, want 2", s.Count())
	}
	if got := s.IDs(); !reflect.DeepEqual(got, []string{"15-003-0001", "15-003-0002"}) {
		t.Fatalf("IDs not sorted: %v", got)
	}
	p, ok := s.Get("15-003-0002")
	if !ok {
		t.Fatalf("parcel not indexed")
	}
	if p.Attrs["STREET"] != "123 MAIN ST" {
		t.Fatalf("attrs not carried: %v", p.Attrs)
	}
	if len(p.Geometry) == 0 {
		t.Fatalf("geometry not passed through")
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.geojson"), nil)
	if !errors.Is(err, ErrDatasetMissing) {
		t.Fatalf("want ErrDatasetMissing, got %v", err)
	}
	var de *DatasetError
	if !errors.As(err, &de) {
		t.Fatalf("want *DatasetError, got %T", err)
	}
}

func TestLoadInvalidJSON(t *testing.T) {
	path := writeFile(t, "bad.geojson", "{not json")
	_, err := Load(path, nil)
	var de *DatasetError
	if !errors.As(err, &de) {
		t.Fatalf("want *DatasetError, got %v", err)
	}
	if errors.Is(err, ErrDatasetMissing) {
		t.Fatalf("invalid file must not look like a missing file")
	}
}

func TestLoadRejectsNonFeatureCollection(t *testing.T) {
	path := writeFile(t, "feature.geojson", `{"type": "Feature", "properties": {}}`)
	if _, err := Load(path, nil); err == nil {
		t.Fatalf("expected error for non-FeatureCollection input")
	}
}

func TestLoadRejectsMissingFeaturesArray(t *testing.T) {
	path := writeFile(t, "empty.geojson", `{"type": "FeatureCollection"}`)
	if _, err := Load(path, nil); err == nil {
		t.Fatalf("expected error when features array is absent")
	}
}

func TestUnidentifiableFeaturesAreCountedNotIndexed(t *testing.T) {
	path := writeFile(t, "noid.geojson", `{
	  "type": "FeatureCollection",
	  "features": [
	    {"type": "Feature", "properties": {"STREET": "1 NOWHERE"}, "geometry": null},
	    {"type": "Feature", "properties": {"PARCEL_ID": "A1"}, "geometry": null}
	  ]
	}`)
	s, err := Load(path, nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.SkippedNoID != 1 {
		t.Fatalf("SkippedNoID got %d, want 1", s.SkippedNoID)
	}
	if s.Count() != 1 {
		t.Fatalf("count got %d, want 1", s.Count())
	}
	if _, ok := s.Get(""); ok {
		t.Fatalf("empty ID must never be indexed")
	}
}

func TestIDFallbackOrder(t *testing.T) {
	path := writeFile(t, "fallback.geojson", `{
	  "type": "FeatureCollection",
	  "features": [
	    {"type": "Feature", "properties": {"PARCEL_ID": "", "PARCELID": "B2"}, "geometry": null},
	    {"type": "Feature", "properties": {"PARCEL_ID": null, "OBJECTID": 42}, "geometry": null}
	  ]
	}`)
	s, err := Load(path, nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, ok := s.Get("B2"); !ok {
		t.Fatalf("empty PARCEL_ID should fall through to PARCELID")
	}
	if _, ok := s.Get("42"); !ok {
		t.Fatalf("null PARCEL_ID should fall through to numeric OBJECTID, ids=%v", s.IDs())
	}
}

func TestDuplicateIDLastSeenWins(t *testing.T) {
	path := writeFile(t, "dup.geojson", `{
	  "type": "FeatureCollection",
	  "features": [
	    {"type": "Feature", "properties": {"PARCEL_ID": "X", "STREET": "FIRST"}, "geometry": null},
	    {"type": "Feature", "properties": {"PARCEL_ID": "X", "STREET": "SECOND"}, "geometry": null}
	  ]
	}`)
	s, err := Load(path, nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Count() != 1 {
		t.Fatalf("count got %d, want 1", s.Count())
	}
	p, _ := s.Get("X")
	if p.Attrs["STREET"] != "SECOND" {
		t.Fatalf("last-seen must win, got %v", p.Attrs["STREET"])
	}
}

func TestCustomIDFields(t *testing.T) {
	path := writeFile(t, "custom.geojson", `{
	  "type": "FeatureCollection",
	  "features": [
	    {"type": "Feature", "properties": {"PIN": "P-9", "PARCEL_ID": "ignored"}, "geometry": null}
	  ]
	}`)
	s, err := Load(path, []string{"PIN"})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, ok := s.Get("P-9"); !ok {
		t.Fatalf("custom id field not honored: %v", s.IDs())
	}
}
