package summary

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"parcel-watch/internal/delta"
	"parcel-watch/internal/geojson"
	"parcel-watch/internal/watchlist"
)

var fixedNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func buildInput() BuildInput {
	curr := geojson.NewSnapshot(
		&geojson.Parcel{ID: "A", Attrs: map[string]any{}},
		&geojson.Parcel{ID: "B", Attrs: map[string]any{}},
		&geojson.Parcel{ID: "C", Attrs: map[string]any{}},
	)
	prev := geojson.NewSnapshot(
		&geojson.Parcel{ID: "B", Attrs: map[string]any{}},
		&geojson.Parcel{ID: "C", Attrs: map[string]any{}},
		&geojson.Parcel{ID: "Z", Attrs: map[string]any{}},
	)
	return BuildInput{
		Delta: delta.Delta{
			Added:     []string{"A"},
			Removed:   []string{"Z"},
			Changed:   []delta.ParcelChange{{ID: "B", Fields: []delta.FieldChange{{Field: "STREET", Old: delta.NewValue("1"), New: delta.NewValue("2")}}}},
			Unchanged: 1,
		},
		Current:  curr,
		Baseline: prev,
		Now:      fixedNow,
	}
}

func TestBuildCountsAndStatus(t *testing.T) {
	s := Build(buildInput())
	if s.Status != StatusOK || s.Initialized {
		t.Fatalf("status got %q initialized=%v", s.Status, s.Initialized)
	}
	st := s.Stats
	if st.CurrentTotal != 3 || st.PreviousTotal != 3 {
		t.Fatalf("totals: %+v", st)
	}
	if st.AddedCount != 1 || st.RemovedCount != 1 || st.ChangedCount != 1 || st.UnchangedCount != 1 {
		t.Fatalf("counts: %+v", st)
	}
	if err := Validate(s); err != nil {
		t.Fatalf("valid record rejected: %v", err)
	}
}

func TestBuildTruncatesSamples(t *testing.T) {
	in := buildInput()
	added := make([]string, 0, 25)
	for i := 0; i < 25; i++ {
		added = append(added, fmt.Sprintf("P-%02d", i))
	}
	in.Delta.Added = added
	in.SampleSize = 10
	s := Build(in)
	if len(s.Samples.Added) != 10 {
		t.Fatalf("sample size got %d, want 10", len(s.Samples.Added))
	}
	if !reflect.DeepEqual(s.Samples.Added, added[:10]) {
		t.Fatalf("sample must be the leading IDs: %v", s.Samples.Added)
	}
	if len(s.Details.Added) != 25 {
		t.Fatalf("details must keep the full list: %d", len(s.Details.Added))
	}
}

func TestBuildWatchlistScope(t *testing.T) {
	in := buildInput()
	in.Watch = watchlist.Set{"B": {}, "Q": {}}
	s := Build(in)
	if !s.Watchlist.Enabled || s.Watchlist.Size != 2 {
		t.Fatalf("watchlist info: %+v", s.Watchlist)
	}

	in.Watch = nil
	if s = Build(in); s.Watchlist.Enabled || s.Watchlist.Size != 0 {
		t.Fatalf("no watchlist must record enabled=false: %+v", s.Watchlist)
	}
}

func TestInitializedRun(t *testing.T) {
	in := BuildInput{
		Delta:       delta.Delta{Added: []string{}, Removed: []string{}, Changed: []delta.ParcelChange{}},
		Current:     geojson.NewSnapshot(&geojson.Parcel{ID: "A"}),
		Baseline:    geojson.Empty(),
		Initialized: true,
		Now:         fixedNow,
	}
	s := Build(in)
	if s.Status != StatusInitialized || !s.Initialized {
		t.Fatalf("initialized run: %+v", s)
	}
	if s.HasChanges() {
		t.Fatalf("initialized run must report zero changes")
	}
	if err := Validate(s); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestValidateCatchesInconsistencies(t *testing.T) {
	s := Build(buildInput())
	s.Stats.AddedCount = 7
	s.Details.Removed = []string{"Z", "A"} // unsorted
	s.Status = "done"
	err := Validate(s)
	if err == nil {
		t.Fatalf("expected validation failure")
	}
	msg := err.Error()
	for _, want := range []string{"added_count", "sorted", "status"} {
		if !strings.Contains(msg, want) {
			t.Fatalf("aggregated error missing %q:\n%s", want, msg)
		}
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "summary.json")
	s := Build(buildInput())
	if err := Save(path, s); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Status != s.Status || got.Stats != s.Stats || !got.Generated.Equal(s.Generated) {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", got, s)
	}
	if !reflect.DeepEqual(got.Samples, s.Samples) {
		t.Fatalf("samples mismatch: %+v vs %+v", got.Samples, s.Samples)
	}
}

func TestLoadMissingReturnsNil(t *testing.T) {
	got, err := Load(filepath.Join(t.TempDir(), "none.json"))
	if err != nil || got != nil {
		t.Fatalf("missing summary: got=%v err=%v", got, err)
	}
}

func TestSaveLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "summary.json")
	if err := Save(path, Build(buildInput())); err != nil {
		t.Fatalf("Save: %v", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "summary.json" {
		t.Fatalf("unexpected directory contents: %v", entries)
	}
}

func TestIdenticalInputsProduceIdenticalBytes(t *testing.T) {
	a, err := json.Marshal(Build(buildInput()))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	b, err := json.Marshal(Build(buildInput()))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Fatalf("summary bytes differ:\n%s\n%s", a, b)
	}
}

func TestEmptyListsMarshalAsArrays(t *testing.T) {
	in := buildInput()
	in.Delta = delta.Delta{}
	b, err := json.Marshal(Build(in))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(b), "null") {
		t.Fatalf("record must not contain nulls for empty lists:\n%s", b)
	}
}
