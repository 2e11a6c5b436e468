package senml

import "time"

// ParseJSON decodes a SenML JSON pack and resolves it into
// self-contained records in one step.
//
// now anchors relative time values; a zero now defaults to the current
// wall-clock time in UTC. The error, when non-nil, is a *senml.Error.
func ParseJSON(data []byte, now time.Time) ([]ResolvedRecord, error) {
	records, err := DecodeJSON(data)
	if err != nil {
		return nil, err
	}
	if now.IsZero() {
		now = time.Now().UTC()
	}
	return Resolve(records, now)
}
