package senml

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
)

// EncodeJSON serializes resolved records to a SenML JSON pack. The
// output is not the most compact SenML representation (every record is
// self-contained), but it is a valid one per RFC 8428 section 4.6.
func EncodeJSON(records []ResolvedRecord) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i := range records {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := appendRecord(&buf, &records[i]); err != nil {
			return nil, err
		}
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

// MarshalJSON implements json.Marshaler. Fields are emitted in wire
// order: n, u, the value kind, s, t, ut, bver, then unrecognized
// fields sorted by key.
func (r ResolvedRecord) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := appendRecord(&buf, &r); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func appendRecord(buf *bytes.Buffer, r *ResolvedRecord) error {
	buf.WriteByte('{')

	appendStringField(buf, "n", r.Name)

	if r.Unit != "" {
		buf.WriteByte(',')
		appendStringField(buf, "u", r.Unit)
	}

	switch v := r.Value.(type) {
	case FloatValue:
		buf.WriteString(`,"v":`)
		appendWireNumber(buf, float64(v))
	case StringValue:
		buf.WriteByte(',')
		appendStringField(buf, "vs", string(v))
	case BoolValue:
		buf.WriteByte(',')
		buf.WriteString(`"vb":`)
		buf.WriteString(strconv.FormatBool(bool(v)))
	case DataValue:
		buf.WriteByte(',')
		appendStringField(buf, "vd", base64.RawURLEncoding.EncodeToString(v))
	case nil:
		// Sum-only record, no value field.
	default:
		return fmt.Errorf("unsupported value kind: %T", r.Value)
	}

	if r.Sum != nil {
		buf.WriteString(`,"s":`)
		appendNumber(buf, *r.Sum)
	}

	seconds, precise, subsecond := TimeToWire(r.Time)
	buf.WriteString(`,"t":`)
	if subsecond {
		// Always plain decimal notation so the timestamp stays
		// recognizable to human readers.
		buf.Write(strconv.AppendFloat(nil, precise, 'f', -1, 64))
	} else {
		buf.Write(strconv.AppendInt(nil, seconds, 10))
	}

	if r.UpdateTime != nil {
		buf.WriteString(`,"ut":`)
		appendNumber(buf, *r.UpdateTime)
	}

	if r.Version != 0 {
		buf.WriteString(`,"bver":`)
		buf.Write(strconv.AppendUint(nil, r.Version, 10))
	}

	if len(r.Extra) > 0 {
		keys := make([]string, 0, len(r.Extra))
		for k := range r.Extra {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			buf.WriteByte(',')
			appendString(buf, k)
			buf.WriteByte(':')
			if err := json.Compact(buf, r.Extra[k]); err != nil {
				return fmt.Errorf("extra field %q: %w", k, err)
			}
		}
	}

	buf.WriteByte('}')
	return nil
}

// appendWireNumber emits a value float: an integer literal when the
// fractional part is exactly zero, a floating literal otherwise.
// The upper bound is strict: MaxInt64 rounds up to 2^63 as a float64,
// and int64(2^63) would overflow. MinInt64 is exactly representable,
// so the lower bound is inclusive.
func appendWireNumber(buf *bytes.Buffer, v float64) {
	if math.Trunc(v) == v && v >= math.MinInt64 && v < math.MaxInt64 {
		buf.Write(strconv.AppendInt(nil, int64(v), 10))
		return
	}
	appendNumber(buf, v)
}

// appendNumber emits a float in the shortest form that re-parses to
// the same value, preferring plain decimal notation and falling back
// to scientific notation at the same magnitudes encoding/json does.
func appendNumber(buf *bytes.Buffer, v float64) {
	abs := math.Abs(v)
	format := byte('f')
	if abs != 0 && (abs < 1e-6 || abs >= 1e21) {
		format = 'e'
	}
	buf.Write(strconv.AppendFloat(nil, v, format, -1, 64))
}

func appendStringField(buf *bytes.Buffer, label, value string) {
	appendString(buf, label)
	buf.WriteByte(':')
	appendString(buf, value)
}

func appendString(buf *bytes.Buffer, s string) {
	// json.Marshal on a string cannot fail.
	b, _ := json.Marshal(s)
	buf.Write(b)
}
