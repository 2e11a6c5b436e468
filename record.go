package senml

import (
	"encoding/json"
	"fmt"
)

// Record is one raw entry of a SenML Pack as it appears on the wire.
// Every field is optional; nil means the label was absent. A record is
// only meaningful in sequence: base fields set here apply to this
// record and every following record until overridden.
type Record struct {
	// Base fields (wire labels bn, bt, bu, bv, bs, bver).
	BaseName    *string
	BaseTime    *float64
	BaseUnit    *string
	BaseValue   *float64
	BaseSum     *float64
	BaseVersion *uint64

	// Own fields (wire labels n, u, v, vs, vb, vd, s, t, ut).
	Name        *string
	Unit        *string
	Value       *float64
	StringValue *string
	BoolValue   *bool
	DataValue   *string
	Sum         *float64
	Time        *float64
	UpdateTime  *float64

	// Extra holds fields outside the RFC 8428 label set, verbatim,
	// for round-trip fidelity.
	Extra map[string]json.RawMessage
}

// UnmarshalJSON splits the RFC 8428 labels from unrecognized fields.
// encoding/json has no flatten equivalent, so known labels are picked
// out of a generic object and the remainder lands in Extra.
func (r *Record) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	for label, raw := range fields {
		var err error
		switch label {
		case "bn":
			err = decodeField(raw, label, &r.BaseName)
		case "bt":
			err = decodeField(raw, label, &r.BaseTime)
		case "bu":
			err = decodeField(raw, label, &r.BaseUnit)
		case "bv":
			err = decodeField(raw, label, &r.BaseValue)
		case "bs":
			err = decodeField(raw, label, &r.BaseSum)
		case "bver":
			err = decodeField(raw, label, &r.BaseVersion)
		case "n":
			err = decodeField(raw, label, &r.Name)
		case "u":
			err = decodeField(raw, label, &r.Unit)
		case "v":
			err = decodeField(raw, label, &r.Value)
		case "vs":
			err = decodeField(raw, label, &r.StringValue)
		case "vb":
			err = decodeField(raw, label, &r.BoolValue)
		case "vd":
			err = decodeField(raw, label, &r.DataValue)
		case "s":
			err = decodeField(raw, label, &r.Sum)
		case "t":
			err = decodeField(raw, label, &r.Time)
		case "ut":
			err = decodeField(raw, label, &r.UpdateTime)
		default:
			if r.Extra == nil {
				r.Extra = make(map[string]json.RawMessage)
			}
			r.Extra[label] = raw
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// decodeField unmarshals a single labeled field into *T, allocating
// the pointer so presence is distinguishable from the zero value.
func decodeField[T any](raw json.RawMessage, label string, dst **T) error {
	v := new(T)
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("field %q: %w", label, err)
	}
	*dst = v
	return nil
}

// DecodeJSON decodes a SenML Pack from JSON text into raw records.
// The records still carry unresolved base fields; pass them to Resolve
// to obtain self-contained records.
func DecodeJSON(data []byte) ([]Record, error) {
	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, &Error{Code: CodeInvalidJSON, Index: -1, Message: "malformed SenML pack", Err: err}
	}
	return records, nil
}
