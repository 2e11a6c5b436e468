// Package harness runs YAML-defined conformance scenarios against the
// SenML codec. A scenario carries a pack as wire-shaped records, a
// fixed reference time, and either the expected resolved output or the
// expected error. Golden files pin the encoded output byte-for-byte.
package harness
