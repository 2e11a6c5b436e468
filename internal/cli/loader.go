package cli

import (
	"fmt"
	"os"

	"github.com/tidwall/jsonc"

	senml "github.com/SINTEF/sindit-senml"
)

// DefaultMaxRecords bounds pack size at the CLI boundary. Resolution
// itself is O(n) with no unbounded work, so the guard lives here, not
// in the core.
const DefaultMaxRecords = 100000

// LoadError represents an error that occurred while loading a pack
// file, before resolution starts.
type LoadError struct {
	Code    string // ErrCodeNotFound or ErrCodeLoad
	Message string
	Err     error
}

func (e *LoadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// ReadPack reads a SenML pack from a file and decodes it into raw
// records. Files may contain comments and trailing commas (JSONC);
// they are stripped here so the codec only ever sees plain JSON.
// maxRecords <= 0 means DefaultMaxRecords.
func ReadPack(path string, maxRecords int) ([]senml.Record, error) {
	if maxRecords <= 0 {
		maxRecords = DefaultMaxRecords
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("pack file not found: %s", path)}
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeLoad, Message: fmt.Sprintf("error reading %s", path), Err: err}
	}

	records, err := senml.DecodeJSON(jsonc.ToJSON(data))
	if err != nil {
		return nil, &LoadError{Code: ErrCodeLoad, Message: fmt.Sprintf("error decoding %s", path), Err: err}
	}

	if len(records) > maxRecords {
		return nil, &LoadError{
			Code:    ErrCodeLoad,
			Message: fmt.Sprintf("pack %s has %d records, limit is %d", path, len(records), maxRecords),
		}
	}

	return records, nil
}
