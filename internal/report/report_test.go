package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"parcel-watch/internal/delta"
	"parcel-watch/internal/geojson"
)

func testSnapshots() (*geojson.Snapshot, *geojson.Snapshot, delta.Delta) {
	prev := geojson.NewSnapshot(
		&geojson.Parcel{ID: "A", Attrs: map[string]any{"OWNER": "SMITH", "STREET": "1 MAIN"}},
		&geojson.Parcel{ID: "GONE", Attrs: map[string]any{"STREET": "9 OLD RD"}},
	)
	curr := geojson.NewSnapshot(
		&geojson.Parcel{ID: "A", Attrs: map[string]any{"OWNER": "JONES", "STREET": "1 MAIN"}},
		&geojson.Parcel{ID: "NEW", Attrs: map[string]any{"STREET": "5 FRESH AVE"}},
	)
	d := delta.Build(prev, curr, delta.Options{})
	return prev, curr, d
}

func TestRenderSections(t *testing.T) {
	prev, curr, d := testSnapshots()
	out := Render(d, prev, curr)

	for _, want := range []string{
		"== added NEW",
		"== removed GONE",
		"== changed A",
		"-OWNER = \"SMITH\"",
		"+OWNER = \"JONES\"",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("report missing %q:\n%s", want, out)
		}
	}
	if !strings.HasSuffix(out, "\n") {
		t.Fatalf("report must end with a newline")
	}
}

func TestRenderIsDeterministic(t *testing.T) {
	prev, curr, d := testSnapshots()
	if Render(d, prev, curr) != Render(d, prev, curr) {
		t.Fatalf("repeated renders differ")
	}
}

func TestWriteAtomic(t *testing.T) {
	prev, curr, d := testSnapshots()
	dir := t.TempDir()
	path := filepath.Join(dir, "report.txt")
	if err := Write(path, d, prev, curr); err != nil {
		t.Fatalf("Write: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if string(b) != Render(d, prev, curr) {
		t.Fatalf("file content differs from Render output")
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Fatalf("temp files left behind: %v", entries)
	}
}
