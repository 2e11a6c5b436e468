package senml

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeJSONEmpty(t *testing.T) {
	data, err := EncodeJSON(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

func TestEncodeJSONSingleRecord(t *testing.T) {
	records := []ResolvedRecord{{
		Name:    "abcd",
		Value:   FloatValue(10.3),
		Time:    time.Unix(1234567890, 123400000).UTC(),
		Version: 12,
	}}

	data, err := EncodeJSON(records)
	require.NoError(t, err)
	assert.Equal(t, `[{"n":"abcd","v":10.3,"t":1234567890.1234,"bver":12}]`, string(data))
}

func TestEncodeJSONIntegralFloatAsIntegerLiteral(t *testing.T) {
	records := []ResolvedRecord{{
		Name:  "temperature",
		Unit:  "Cel",
		Value: FloatValue(42),
		Time:  time.Unix(1234567890, 0).UTC(),
	}}

	data, err := EncodeJSON(records)
	require.NoError(t, err)
	assert.Equal(t, `[{"n":"temperature","u":"Cel","v":42,"t":1234567890}]`, string(data))
}

func TestEncodeJSONInt64BoundaryValues(t *testing.T) {
	at := time.Unix(1234567890, 0).UTC()

	// 2^63 is integral but beyond int64, so it stays a float literal
	// that re-parses to the same value instead of wrapping negative.
	data, err := EncodeJSON([]ResolvedRecord{{
		Name:  "counter",
		Value: FloatValue(9223372036854775808),
		Time:  at,
	}})
	require.NoError(t, err)
	assert.Equal(t, `[{"n":"counter","v":9223372036854776000,"t":1234567890}]`, string(data))

	resolved, err := ParseJSON(data, testNow())
	require.NoError(t, err)
	v, ok := resolved[0].FloatValue()
	require.True(t, ok)
	assert.Equal(t, float64(9223372036854775808), v)

	// MinInt64 is exactly representable and emits as an integer literal.
	data, err = EncodeJSON([]ResolvedRecord{{
		Name:  "counter",
		Value: FloatValue(math.MinInt64),
		Time:  at,
	}})
	require.NoError(t, err)
	assert.Equal(t, `[{"n":"counter","v":-9223372036854775808,"t":1234567890}]`, string(data))
}

func TestEncodeJSONEmptyUnitOmitted(t *testing.T) {
	// An input "u": "" resolves to an absent unit and is not emitted.
	resolved, err := ParseJSON([]byte(`[{"n":"abcd","u":"","v":1,"t":1234567890}]`), testNow())
	require.NoError(t, err)
	require.Len(t, resolved, 1)
	assert.Empty(t, resolved[0].Unit)

	data, err := EncodeJSON(resolved)
	require.NoError(t, err)
	assert.Equal(t, `[{"n":"abcd","v":1,"t":1234567890}]`, string(data))
}

func TestEncodeJSONAllKinds(t *testing.T) {
	at := time.Unix(1234567890, 123400000).UTC()
	records := []ResolvedRecord{
		{
			Name:  "abcd",
			Value: FloatValue(10),
			Time:  at,
			Extra: map[string]json.RawMessage{"extra_field": json.RawMessage(`"extra_value"`)},
		},
		{
			Name:  "efgh",
			Value: DataValue([]byte("Hello world!")),
			Time:  at,
			Extra: map[string]json.RawMessage{"no": json.RawMessage(`false`)},
		},
		{
			Name:  "ijkl",
			Value: BoolValue(true),
			Time:  at,
		},
		{
			Name:  "mnop",
			Value: StringValue("Hello world!"),
			Time:  at,
		},
	}

	data, err := EncodeJSON(records)
	require.NoError(t, err)
	assert.Equal(t,
		`[{"n":"abcd","v":10,"t":1234567890.1234,"extra_field":"extra_value"},`+
			`{"n":"efgh","vd":"SGVsbG8gd29ybGQh","t":1234567890.1234,"no":false},`+
			`{"n":"ijkl","vb":true,"t":1234567890.1234},`+
			`{"n":"mnop","vs":"Hello world!","t":1234567890.1234}]`,
		string(data))
}

func TestEncodeJSONSumOnly(t *testing.T) {
	records := []ResolvedRecord{{
		Name: "counter",
		Sum:  floatPtr(33.5),
		Time: time.Unix(1234567890, 0).UTC(),
	}}

	data, err := EncodeJSON(records)
	require.NoError(t, err)
	assert.Equal(t, `[{"n":"counter","s":33.5,"t":1234567890}]`, string(data))
}

func TestEncodeJSONUpdateTime(t *testing.T) {
	records := []ResolvedRecord{{
		Name:       "temp",
		Value:      FloatValue(1.5),
		Time:       time.Unix(1234567890, 0).UTC(),
		UpdateTime: floatPtr(300),
	}}

	data, err := EncodeJSON(records)
	require.NoError(t, err)
	assert.Equal(t, `[{"n":"temp","v":1.5,"t":1234567890,"ut":300}]`, string(data))
}

func TestEncodeJSONDataValueURLSafeNoPad(t *testing.T) {
	at := time.Unix(1234567890, 0).UTC()

	data, err := EncodeJSON([]ResolvedRecord{{
		Name:  "abcd",
		Value: DataValue([]byte("light work")),
		Time:  at,
	}})
	require.NoError(t, err)
	assert.Equal(t, `[{"n":"abcd","vd":"bGlnaHQgd29yaw","t":1234567890}]`, string(data))

	// Bytes whose standard-alphabet encoding would contain "/" and "+"
	// must come out in the URL-safe alphabet.
	data, err = EncodeJSON([]ResolvedRecord{{
		Name:  "abcd",
		Value: DataValue([]byte{0x2f, 0x2f, 0xc2, 0xbb}),
		Time:  at,
	}})
	require.NoError(t, err)
	assert.Equal(t, `[{"n":"abcd","vd":"Ly_Cuw","t":1234567890}]`, string(data))
}

func TestEncodeJSONExtraFieldsSortedAndCompacted(t *testing.T) {
	records := []ResolvedRecord{{
		Name:  "x",
		Value: FloatValue(1),
		Time:  time.Unix(1234567890, 0).UTC(),
		Extra: map[string]json.RawMessage{
			"zeta":  json.RawMessage(`{ "k": [1, 2] }`),
			"alpha": json.RawMessage(`3`),
		},
	}}

	data, err := EncodeJSON(records)
	require.NoError(t, err)
	assert.Equal(t, `[{"n":"x","v":1,"t":1234567890,"alpha":3,"zeta":{"k":[1,2]}}]`, string(data))
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	now := time.Unix(1700000000, 0).UTC()
	original := []byte(`[{"bn":"dev-","bt":1234567890,"bu":"Cel"},{"n":"temp","v":23.1},{"n":"hum","v":41,"u":"%RH"}]`)

	resolved, err := ParseJSON(original, now)
	require.NoError(t, err)

	encoded, err := EncodeJSON(resolved)
	require.NoError(t, err)

	// Resolved output re-parses to the identical resolved records.
	again, err := ParseJSON(encoded, now)
	require.NoError(t, err)
	assert.Equal(t, resolved, again)
}

func TestMarshalJSONViaStdlib(t *testing.T) {
	// ResolvedRecord implements json.Marshaler, so plain json.Marshal
	// of a record produces wire-ordered output too.
	rec := ResolvedRecord{
		Name:  "temperature",
		Value: FloatValue(42),
		Time:  time.Unix(1234567890, 0).UTC(),
	}
	data, err := json.Marshal(rec)
	require.NoError(t, err)
	assert.Equal(t, `{"n":"temperature","v":42,"t":1234567890}`, string(data))
}
