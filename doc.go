// Package senml implements the JSON representation of SenML (Sensor
// Measurement Lists), RFC 8428.
//
// A SenML Pack on the wire is a sequence of terse records that may
// inherit shared base fields (name prefix, time offset, unit, value
// offset, sum offset, version) from the records preceding them. This
// package decodes a pack, resolves that inheritance into fully
// self-contained records, and encodes resolved records back to JSON.
//
// The package is layered so each concern stays independent:
//   - record.go decodes raw wire records, preserving unrecognized fields
//   - resolve.go folds the base-field context over the pack
//   - time.go converts SenML time values to absolute instants and back
//   - name.go validates resolved names against the RFC grammar
//   - encode.go serializes resolved records in wire field order
//
// Resolution is a pure function of the input pack and a reference
// "now"; separate calls share no state and may run concurrently.
//
//	records, err := senml.ParseJSON(data, time.Time{})
//	if err != nil {
//		// *senml.Error carries a code and the failing record index
//	}
package senml
