package geojson

import (
	"errors"
	"fmt"
)

// ErrDatasetMissing reports that a dataset file does not exist on disk.
// Callers that load a baseline treat this as "no previous snapshot" and
// initialize a fresh baseline; for the current dataset it is fatal.
var ErrDatasetMissing = errors.New("dataset file missing")

// DatasetError describes a dataset file that exists but cannot be used:
// unreadable, not valid JSON, or not a FeatureCollection. The run must
// abort without writing any output when the error concerns either input.
type DatasetError struct {
	Path   string
	Reason string
	Err    error
}

func (e *DatasetError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("dataset %s: %s: %v", e.Path, e.Reason, e.Err)
	}
	return fmt.Sprintf("dataset %s: %s", e.Path, e.Reason)
}

func (e *DatasetError) Unwrap() error { return e.Err }
