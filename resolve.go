package senml

import (
	"encoding/base64"
	"encoding/json"
	"time"
)

// baseContext accumulates base fields across a pack. Each slot, once
// set by any record, persists for all subsequent records until
// overwritten; slots are never cleared. A fresh context is created per
// Resolve call and never shared.
type baseContext struct {
	name    *string
	time    *float64
	unit    *string
	value   *float64
	sum     *float64
	version uint64 // 0 until established
}

// Resolve applies base-field inheritance to a pack of raw records,
// producing one self-contained record per input record.
//
// Records are processed strictly left to right; the first structurally
// invalid record aborts the whole call with a *senml.Error carrying
// its 0-based index. now is the reference instant for relative time
// values.
func Resolve(records []Record, now time.Time) ([]ResolvedRecord, error) {
	ctx := baseContext{}
	resolved := make([]ResolvedRecord, 0, len(records))
	for i := range records {
		out, err := resolveRecord(&ctx, &records[i], i, now)
		if err != nil {
			return nil, err
		}
		resolved = append(resolved, out)
	}
	return resolved, nil
}

func resolveRecord(ctx *baseContext, rec *Record, index int, now time.Time) (ResolvedRecord, error) {
	// Base fields overwrite their context slot unconditionally,
	// last-write-wins, before anything else is resolved.
	if rec.BaseName != nil {
		ctx.name = rec.BaseName
	}
	if rec.BaseTime != nil {
		ctx.time = rec.BaseTime
	}
	if rec.BaseUnit != nil {
		ctx.unit = rec.BaseUnit
	}
	if rec.BaseValue != nil {
		ctx.value = rec.BaseValue
	}
	if rec.BaseSum != nil {
		ctx.sum = rec.BaseSum
	}

	if err := reconcileVersion(ctx, rec); err != nil {
		return ResolvedRecord{}, err
	}

	name, err := resolveName(ctx, rec, index)
	if err != nil {
		return ResolvedRecord{}, err
	}

	var unit string
	switch {
	case rec.Unit != nil:
		unit = *rec.Unit
	case ctx.unit != nil:
		unit = *ctx.unit
	}

	value, err := resolveValue(rec, ctx.value, index)
	if err != nil {
		return ResolvedRecord{}, err
	}

	var seconds float64
	if ctx.time != nil {
		seconds = *ctx.time
	}
	if rec.Time != nil {
		seconds += *rec.Time
	}
	at, ok := ConvertTime(seconds, now)
	if !ok {
		return ResolvedRecord{}, newRecordError(CodeInvalidTime, index, "time value is not finite")
	}

	var sum *float64
	switch {
	case rec.Sum != nil && ctx.sum != nil:
		s := *ctx.sum + *rec.Sum
		sum = &s
	case rec.Sum != nil:
		s := *rec.Sum
		sum = &s
	case ctx.sum != nil:
		s := *ctx.sum
		sum = &s
	}

	// A record must carry a value or a sum. When both are absent the
	// value defaults to 0; the sum never defaults.
	if value == nil && sum == nil {
		value = FloatValue(0)
	}

	var version uint64
	if ctx.version != DefaultVersion {
		version = ctx.version
	}

	// The open bag is carried over only when non-empty; a present but
	// empty bag is treated as absent.
	var extra map[string]json.RawMessage
	if len(rec.Extra) > 0 {
		extra = make(map[string]json.RawMessage, len(rec.Extra))
		for k, v := range rec.Extra {
			extra[k] = v
		}
	}

	return ResolvedRecord{
		Name:       name,
		Unit:       unit,
		Value:      value,
		Sum:        sum,
		Time:       at,
		UpdateTime: rec.UpdateTime,
		Version:    version,
		Extra:      extra,
	}, nil
}

// reconcileVersion enforces the single-version rule: the first base
// version named by any record pins the version for the whole pack, and
// packs that never name one implicitly adopt DefaultVersion.
func reconcileVersion(ctx *baseContext, rec *Record) error {
	if rec.BaseVersion == nil {
		if ctx.version == 0 {
			ctx.version = DefaultVersion
		}
		return nil
	}

	v := *rec.BaseVersion
	if ctx.version != 0 {
		if ctx.version != v {
			return newPackError(CodeVersionMismatch, "all records must have the same version number")
		}
		return nil
	}
	if v == 0 {
		return newPackError(CodeInvalidVersion, "positive version number required")
	}
	ctx.version = v
	return nil
}

func resolveName(ctx *baseContext, rec *Record, index int) (string, error) {
	var name string
	switch {
	case ctx.name != nil && rec.Name != nil:
		name = *ctx.name + *rec.Name
	case rec.Name != nil:
		name = *rec.Name
	case ctx.name != nil:
		name = *ctx.name
	default:
		return "", newRecordError(CodeMissingName, index, "record has neither a base name nor a name")
	}

	if !ValidName(name) {
		return "", newRecordError(CodeInvalidName, index, "resolved name violates the name grammar")
	}
	return name, nil
}

// resolveValue picks the record's value kind with precedence
// v > vs > vb > vd, rejecting records that set more than one. The base
// value offsets numeric values, passes through unadded when no own
// kind is present, and never touches the other kinds.
func resolveValue(rec *Record, baseValue *float64, index int) (Value, error) {
	switch {
	case rec.Value != nil:
		if rec.StringValue != nil || rec.BoolValue != nil || rec.DataValue != nil {
			return nil, newRecordError(CodeMultipleValues, index, "only one value kind per record")
		}
		if baseValue != nil {
			return FloatValue(*baseValue + *rec.Value), nil
		}
		return FloatValue(*rec.Value), nil

	case rec.StringValue != nil:
		if rec.BoolValue != nil || rec.DataValue != nil {
			return nil, newRecordError(CodeMultipleValues, index, "only one value kind per record")
		}
		return StringValue(*rec.StringValue), nil

	case rec.BoolValue != nil:
		if rec.DataValue != nil {
			return nil, newRecordError(CodeMultipleValues, index, "only one value kind per record")
		}
		return BoolValue(*rec.BoolValue), nil

	case rec.DataValue != nil:
		data, err := base64.RawURLEncoding.Strict().DecodeString(*rec.DataValue)
		if err != nil {
			return nil, &Error{
				Code:    CodeInvalidData,
				Index:   index,
				Message: "data value is not URL-safe base64",
				Err:     err,
			}
		}
		return DataValue(data), nil

	default:
		if baseValue != nil {
			return FloatValue(*baseValue), nil
		}
		return nil, nil
	}
}
