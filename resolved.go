package senml

import (
	"encoding/json"
	"time"
)

// DefaultVersion is the SenML media type version defined by RFC 8428.
// Packs that never name a version use it implicitly, and it is never
// emitted in resolved records.
const DefaultVersion uint64 = 10

// ResolvedRecord is a SenML Record with all base-field inheritance and
// value/sum/time arithmetic applied. It is self-contained: no external
// context is needed to interpret it.
type ResolvedRecord struct {
	// Name is the base name concatenated with the record's own name.
	// Always present, never empty, and valid per the RFC name grammar.
	Name string

	// Unit is the unit of the measurement. Empty means absent.
	Unit string

	// Value is the measurement payload, exactly one of the four kinds.
	// Nil only when the record carries a sum instead; a record with
	// neither resolves to FloatValue(0).
	Value Value

	// Sum is the integrated sum of the values over time. Nil means
	// absent; a zero sum is distinct from no sum.
	Sum *float64

	// Time is the absolute instant of the measurement. Always present.
	Time time.Time

	// UpdateTime is the maximum time in seconds before an updated
	// reading is expected. Never inherited from base fields.
	UpdateTime *float64

	// Version is the pack's media type version when it differs from
	// DefaultVersion, and 0 otherwise (version 0 is never valid on the
	// wire, so 0 safely means "default, not emitted").
	Version uint64

	// Extra holds unrecognized wire fields, verbatim. Nil when the
	// record carried none.
	Extra map[string]json.RawMessage
}

// FloatValue returns the floating-point payload, if that is the
// record's value kind.
func (r *ResolvedRecord) FloatValue() (float64, bool) {
	v, ok := r.Value.(FloatValue)
	return float64(v), ok
}

// StringValue returns the text payload, if that is the record's value
// kind.
func (r *ResolvedRecord) StringValue() (string, bool) {
	v, ok := r.Value.(StringValue)
	return string(v), ok
}

// BoolValue returns the boolean payload, if that is the record's value
// kind.
func (r *ResolvedRecord) BoolValue() (bool, bool) {
	v, ok := r.Value.(BoolValue)
	return bool(v), ok
}

// DataValue returns the binary payload, if that is the record's value
// kind.
func (r *ResolvedRecord) DataValue() ([]byte, bool) {
	v, ok := r.Value.(DataValue)
	return []byte(v), ok
}
