package delta

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Value wraps one attribute value for inclusion in a field change. A nil
// *Value means the field was absent from that side of the comparison, which
// is distinct from a Value holding JSON null and from one holding "".
//
// In marshaled output an absent field is omitted entirely (omitempty on the
// pointer) while null survives as null, so the three cases stay
// distinguishable to machine consumers.
type Value struct {
	raw any
}

// NewValue wraps a decoded attribute value (string, json.Number, bool or
// nil).
func NewValue(raw any) *Value { return &Value{raw: raw} }

// Raw returns the wrapped value.
func (v *Value) Raw() any {
	if v == nil {
		return nil
	}
	return v.raw
}

// String renders the value for human-readable output. Absent values render
// as "<missing>" so text reports keep the missing/null/empty distinction.
func (v *Value) String() string {
	if v == nil {
		return "<missing>"
	}
	switch x := v.raw.(type) {
	case nil:
		return "null"
	case string:
		return fmt.Sprintf("%q", x)
	case json.Number:
		return x.String()
	default:
		return fmt.Sprintf("%v", x)
	}
}

func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.raw)
}

func (v *Value) UnmarshalJSON(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	return dec.Decode(&v.raw)
}

// valueEqual compares two present attribute values exactly: same JSON kind
// and same literal content. Numbers compare by their decimal text, so 1.0
// and 1 differ.
func valueEqual(a, b any) bool {
	switch x := a.(type) {
	case nil:
		return b == nil
	case string:
		y, ok := b.(string)
		return ok && x == y
	case json.Number:
		y, ok := b.(json.Number)
		return ok && x.String() == y.String()
	case bool:
		y, ok := b.(bool)
		return ok && x == y
	default:
		// Non-scalar attribute values are not expected; fall back to a
		// canonical JSON comparison rather than guessing.
		ab, aerr := json.Marshal(a)
		bb, berr := json.Marshal(b)
		return aerr == nil && berr == nil && bytes.Equal(ab, bb)
	}
}
