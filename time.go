package senml

import (
	"math"
	"time"
)

// TimeThreshold divides absolute from relative SenML time values.
// Values greater than or equal to 2^28 seconds (roughly 1978-07-04 as
// a Unix timestamp) are absolute times anchored to the Unix epoch;
// smaller values, including negative ones, are offsets from the
// caller-supplied reference time.
const TimeThreshold = 268435456.0 // 2**28

// ConvertTime converts a SenML time value to an absolute instant.
//
// Non-finite values (NaN, ±Inf) are rejected. Fractional seconds are
// converted to nanoseconds by multiplying by 1e9 and truncating toward
// zero; SenML relies on float64 for subsecond precision, so values
// round-trip only approximately at nanosecond resolution.
func ConvertTime(seconds float64, now time.Time) (time.Time, bool) {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return time.Time{}, false
	}

	// Whole seconds beyond int64 cannot be represented as an instant;
	// the conversion below would otherwise wrap. MaxInt64 rounds up to
	// 2^63 as a float64, so the upper bound is strict.
	truncated := math.Trunc(seconds)
	if truncated < math.MinInt64 || truncated >= math.MaxInt64 {
		return time.Time{}, false
	}

	wholeSeconds := int64(truncated)
	fracSeconds := seconds - truncated

	var nanoseconds int64
	if fracSeconds != 0 {
		nanoseconds = int64(math.Trunc(fracSeconds * 1e9))
	}

	if seconds >= TimeThreshold {
		return time.Unix(wholeSeconds, nanoseconds).UTC(), true
	}

	// Relative to now. Whole seconds and nanoseconds may both be
	// negative, moving the result backward.
	offset := time.Duration(wholeSeconds)*time.Second + time.Duration(nanoseconds)*time.Nanosecond
	return now.Add(offset), true
}

// TimeToWire converts an absolute instant to its SenML wire form: the
// Unix-epoch second count, plus a float64 combining seconds and
// fraction when the instant carries a non-zero subsecond component.
// precise is only meaningful when ok is true.
func TimeToWire(t time.Time) (seconds int64, precise float64, ok bool) {
	seconds = t.Unix()
	nanos := t.Nanosecond()
	if nanos > 0 {
		return seconds, float64(seconds) + float64(nanos)/1e9, true
	}
	return seconds, 0, false
}
