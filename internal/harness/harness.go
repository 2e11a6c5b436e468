package harness

import (
	"encoding/json"
	"fmt"
	"time"

	senml "github.com/SINTEF/sindit-senml"
)

// Result holds the outcome of running a scenario's pack through the
// codec.
type Result struct {
	// Resolved is the resolved pack. Nil when resolution failed.
	Resolved []senml.ResolvedRecord

	// Encoded is the canonical JSON encoding of Resolved. Nil when
	// resolution failed.
	Encoded []byte

	// Err is the decode or resolution failure, if any.
	Err error
}

// Run executes the scenario's pack through decode, resolve, and
// encode. Resolution failures land in Result.Err rather than the
// returned error; the returned error covers harness-level problems
// (a pack that cannot even be shaped into JSON).
func Run(scenario *Scenario) (*Result, error) {
	wire, err := json.Marshal(scenario.Records)
	if err != nil {
		return nil, fmt.Errorf("shape records as JSON: %w", err)
	}

	now := time.Now().UTC()
	if scenario.Now != 0 {
		now = time.Unix(scenario.Now, 0).UTC()
	}

	resolved, err := senml.ParseJSON(wire, now)
	if err != nil {
		return &Result{Err: err}, nil
	}

	encoded, err := senml.EncodeJSON(resolved)
	if err != nil {
		return nil, fmt.Errorf("encode resolved pack: %w", err)
	}

	return &Result{Resolved: resolved, Encoded: encoded}, nil
}

// Check verifies the result against the scenario's expectations.
func Check(scenario *Scenario, result *Result) error {
	if scenario.Expect.Error != nil {
		return checkError(scenario.Expect.Error, result)
	}
	return checkRecords(scenario.Expect.Records, result)
}

func checkError(expect *ExpectError, result *Result) error {
	if result.Err == nil {
		return fmt.Errorf("expected error %s, resolution succeeded", expect.Code)
	}
	if code := senml.CodeOf(result.Err); string(code) != expect.Code {
		return fmt.Errorf("error code = %s, want %s (%v)", code, expect.Code, result.Err)
	}
	if expect.Index != nil {
		if idx := senml.IndexOf(result.Err); idx != *expect.Index {
			return fmt.Errorf("error index = %d, want %d (%v)", idx, *expect.Index, result.Err)
		}
	}
	return nil
}

func checkRecords(expect []map[string]any, result *Result) error {
	if result.Err != nil {
		return fmt.Errorf("resolution failed: %w", result.Err)
	}

	// Compare through the wire encoding so both sides carry JSON
	// number semantics.
	var got []map[string]any
	if err := json.Unmarshal(result.Encoded, &got); err != nil {
		return fmt.Errorf("reparse encoded pack: %w", err)
	}

	if len(got) != len(expect) {
		return fmt.Errorf("resolved %d records, want %d", len(got), len(expect))
	}

	for i, want := range expect {
		normalized, err := normalize(want)
		if err != nil {
			return fmt.Errorf("record %d: %w", i, err)
		}
		for field, wantVal := range normalized {
			gotVal, ok := got[i][field]
			if !ok {
				return fmt.Errorf("record %d: field %q absent, want %v", i, field, wantVal)
			}
			if !equalJSON(gotVal, wantVal) {
				return fmt.Errorf("record %d: field %q = %v, want %v", i, field, gotVal, wantVal)
			}
		}
	}

	return nil
}

// normalize round-trips a YAML-decoded map through JSON so its values
// compare cleanly against reparsed wire output (all numbers become
// float64).
func normalize(m map[string]any) (map[string]any, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("shape expected record: %w", err)
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("reparse expected record: %w", err)
	}
	return out, nil
}

func equalJSON(a, b any) bool {
	aj, err := json.Marshal(a)
	if err != nil {
		return false
	}
	bj, err := json.Marshal(b)
	if err != nil {
		return false
	}
	return string(aj) == string(bj)
}
