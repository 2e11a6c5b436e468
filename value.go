package senml

// Value is a sealed interface representing the measurement payload of
// a resolved record. Exactly four types implement it: FloatValue,
// StringValue, BoolValue, and DataValue. A record carries at most one
// kind at a time; consumers type-switch exhaustively so no kind is
// silently dropped.
type Value interface {
	senmlValue() // Sealed - only the four kinds implement it
}

// FloatValue is a floating-point measurement (wire label "v").
// Base value offsets are already applied during resolution.
type FloatValue float64

func (FloatValue) senmlValue() {}

// StringValue is a text measurement (wire label "vs").
type StringValue string

func (StringValue) senmlValue() {}

// BoolValue is a boolean measurement (wire label "vb").
type BoolValue bool

func (BoolValue) senmlValue() {}

// DataValue is an opaque binary measurement (wire label "vd"). On the
// wire it is URL-safe no-pad base64 text; in memory it is the decoded
// bytes.
type DataValue []byte

func (DataValue) senmlValue() {}
