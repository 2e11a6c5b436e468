package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	senml "github.com/SINTEF/sindit-senml"
)

// Value kinds as stored in the measurements.kind column.
const (
	KindFloat  = "float"
	KindString = "string"
	KindBool   = "bool"
	KindData   = "data"
	KindNone   = "none" // sum-only record
)

// valueColumns breaks a Value union into its typed column
// representation. The switch is exhaustive over the sealed interface;
// an unknown kind is a programming error.
func valueColumns(v senml.Value) (kind string, f sql.NullFloat64, s sql.NullString, b sql.NullBool, data []byte, err error) {
	switch val := v.(type) {
	case senml.FloatValue:
		return KindFloat, sql.NullFloat64{Float64: float64(val), Valid: true}, s, b, nil, nil
	case senml.StringValue:
		return KindString, f, sql.NullString{String: string(val), Valid: true}, b, nil, nil
	case senml.BoolValue:
		return KindBool, f, s, sql.NullBool{Bool: bool(val), Valid: true}, nil, nil
	case senml.DataValue:
		return KindData, f, s, b, []byte(val), nil
	case nil:
		return KindNone, f, s, b, nil, nil
	default:
		return "", f, s, b, nil, fmt.Errorf("unsupported value kind: %T", v)
	}
}

// marshalExtra serializes the open bag to JSON text with sorted keys
// for deterministic storage. Returns "" when the bag is empty.
func marshalExtra(extra map[string]json.RawMessage) (string, error) {
	if len(extra) == 0 {
		return "", nil
	}

	keys := make([]string, 0, len(extra))
	for k := range extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	sb.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			sb.WriteByte(',')
		}
		keyJSON, err := json.Marshal(k)
		if err != nil {
			return "", fmt.Errorf("marshal extra key %q: %w", k, err)
		}
		sb.Write(keyJSON)
		sb.WriteByte(':')
		sb.Write(extra[k])
	}
	sb.WriteByte('}')
	return sb.String(), nil
}
