// Package geojson loads parcel snapshots from GeoJSON FeatureCollection
// files and indexes them by a stable parcel identifier.
//
// This package is the input boundary of the change-detection pipeline. It
// offers:
//   - Tolerant decoding of a FeatureCollection with schema-less properties
//     (Load). Numbers are kept as json.Number so later comparisons are
//     exact rather than float-rounded.
//   - Identifier extraction via an ordered candidate field list
//     (DefaultIDFields); the first present, non-empty value wins.
//   - An indexed Snapshot keyed by parcel ID with a count of features that
//     carried no usable identifier.
//
// Conventions:
//   - Geometry is carried as raw JSON and never inspected or compared.
//   - A feature without any identifier field is skipped and counted, never
//     indexed under an empty ID.
//   - Duplicate IDs within one file: last feature wins.
package geojson

import (
	"bytes"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"time"
)

// DefaultIDFields is the identifier lookup order used when the caller does
// not configure its own. County assessor exports have shipped the parcel
// number under several names over the years.
var DefaultIDFields = []string{"PARCEL_ID", "PARCELID", "PARCEL_NO", "OBJECTID"}

// Parcel is one indexed feature: its stable ID, the flat attribute map, and
// the untouched geometry payload.
type Parcel struct {
	ID       string
	Attrs    map[string]any
	Geometry json.RawMessage
}

type feature struct {
	Type       string          `json:"type"`
	Properties map[string]any  `json:"properties"`
	Geometry   json.RawMessage `json:"geometry"`
}

type featureCollection struct {
	Type     string     `json:"type"`
	Features *[]feature `json:"features"`
}

// Load reads and indexes the GeoJSON file at path.
//
// A missing file yields an error wrapping ErrDatasetMissing. Any other
// failure (unreadable file, invalid JSON, not a FeatureCollection) yields a
// *DatasetError identifying the path and the check that failed.
func Load(path string, idFields []string) (*Snapshot, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &DatasetError{Path: path, Reason: "not found", Err: ErrDatasetMissing}
		}
		return nil, &DatasetError{Path: path, Reason: "read failed", Err: err}
	}
	return decode(path, b, idFields)
}

func decode(path string, b []byte, idFields []string) (*Snapshot, error) {
	var fc featureCollection
	dec := newStrictDecoder(b)
	if err := dec.Decode(&fc); err != nil {
		return nil, &DatasetError{Path: path, Reason: "invalid JSON", Err: err}
	}
	if fc.Type != "FeatureCollection" {
		return nil, &DatasetError{Path: path, Reason: "not a FeatureCollection (type=" + fc.Type + ")"}
	}
	if fc.Features == nil {
		return nil, &DatasetError{Path: path, Reason: "missing features array"}
	}

	snap := &Snapshot{
		Source:  path,
		Loaded:  time.Now().UTC(),
		parcels: make(map[string]*Parcel, len(*fc.Features)),
	}
	if len(idFields) == 0 {
		idFields = DefaultIDFields
	}
	for i := range *fc.Features {
		ft := &(*fc.Features)[i]
		id, ok := extractID(ft.Properties, idFields)
		if !ok {
			snap.SkippedNoID++
			continue
		}
		snap.parcels[id] = &Parcel{ID: id, Attrs: ft.Properties, Geometry: ft.Geometry}
	}
	return snap, nil
}

// newStrictDecoder returns a decoder that keeps numbers as json.Number.
// float64 round-tripping would make "exact equality" on attribute values a
// lie for large parcel numbers and assessed values.
func newStrictDecoder(b []byte) *json.Decoder {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	return dec
}
