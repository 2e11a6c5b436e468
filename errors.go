package senml

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes pack decoding and resolution failures.
type ErrorCode string

const (
	// CodeInvalidJSON indicates the input text is not a valid JSON pack.
	CodeInvalidJSON ErrorCode = "INVALID_JSON"

	// CodeMissingName indicates a record resolved to no name at all
	// (neither a base name nor an own name was in effect).
	CodeMissingName ErrorCode = "MISSING_NAME"

	// CodeInvalidName indicates the resolved name fails the RFC 8428
	// name grammar.
	CodeInvalidName ErrorCode = "INVALID_NAME"

	// CodeInvalidTime indicates the record's computed time value is
	// not a finite number.
	CodeInvalidTime ErrorCode = "INVALID_TIME"

	// CodeVersionMismatch indicates a record supplied a base version
	// that conflicts with the version already established for the pack.
	CodeVersionMismatch ErrorCode = "VERSION_MISMATCH"

	// CodeInvalidVersion indicates a base version of zero was supplied.
	CodeInvalidVersion ErrorCode = "INVALID_VERSION"

	// CodeMultipleValues indicates more than one value kind (v, vs,
	// vb, vd) was supplied on a single record.
	CodeMultipleValues ErrorCode = "MULTIPLE_VALUES"

	// CodeInvalidData indicates a data value (vd) failed URL-safe
	// base64 decoding.
	CodeInvalidData ErrorCode = "INVALID_DATA"
)

// Error is the error type returned by pack decoding and resolution.
//
// Errors are terminal for the whole pack: the first failing record
// aborts resolution with no partial output. Index identifies the
// offending record where the failure is record-scoped.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Index is the 0-based index of the offending record, or -1 when
	// the error is not tied to a single record (malformed JSON,
	// version conflicts that concern the pack as a whole).
	Index int

	// Message is a human-readable description.
	Message string

	// Err is the underlying cause, if any (JSON or base64 decode
	// failures).
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("%s: %s (record=%d)", e.Code, e.Message, e.Index)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As chains.
func (e *Error) Unwrap() error {
	return e.Err
}

// CodeOf extracts the ErrorCode from an error. Returns the empty code
// if the error is not a *senml.Error. Uses errors.As to handle
// wrapped errors.
func CodeOf(err error) ErrorCode {
	var se *Error
	if errors.As(err, &se) {
		return se.Code
	}
	return ""
}

// IndexOf extracts the failing record index from an error. Returns -1
// if the error is not a *senml.Error or is not record-scoped.
func IndexOf(err error) int {
	var se *Error
	if errors.As(err, &se) {
		return se.Index
	}
	return -1
}

func newRecordError(code ErrorCode, index int, message string) *Error {
	return &Error{Code: code, Index: index, Message: message}
}

func newPackError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Index: -1, Message: message}
}
