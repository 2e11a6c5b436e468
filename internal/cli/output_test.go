package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExitError_Message(t *testing.T) {
	err := NewExitError(ExitFailure, "pack is invalid")
	assert.Equal(t, "pack is invalid", err.Error())

	wrapped := WrapExitError(ExitCommandError, "loading pack", errors.New("no such file"))
	assert.Equal(t, "loading pack: no such file", wrapped.Error())
}

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitFailure, GetExitCode(NewExitError(ExitFailure, "bad pack")))
	assert.Equal(t, ExitCommandError, GetExitCode(NewExitError(ExitCommandError, "missing file")))

	// Wrapped ExitError is still found via errors.As.
	inner := NewExitError(ExitCommandError, "store error")
	assert.Equal(t, ExitCommandError, GetExitCode(fmt.Errorf("ingest: %w", inner)))

	// Plain errors default to failure.
	assert.Equal(t, ExitFailure, GetExitCode(errors.New("unknown")))
}

func TestOutputFormatter_SuccessJSON(t *testing.T) {
	var buf bytes.Buffer
	f := &OutputFormatter{Format: "json", Writer: &buf}

	require.NoError(t, f.Success(map[string]int{"records": 3}))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Nil(t, resp.Error)
}

func TestOutputFormatter_ErrorJSON(t *testing.T) {
	var buf bytes.Buffer
	f := &OutputFormatter{Format: "json", Writer: &buf}

	require.NoError(t, f.Error(ErrCodeResolve, "pack failed resolution", map[string]any{"index": 2}))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeResolve, resp.Error.Code)
	assert.Equal(t, "pack failed resolution", resp.Error.Message)
}

func TestOutputFormatter_ErrorText(t *testing.T) {
	var buf bytes.Buffer
	f := &OutputFormatter{Format: "text", Writer: &buf}

	require.NoError(t, f.Error(ErrCodeNotFound, "pack file not found", nil))
	assert.Equal(t, "Error [E001]: pack file not found\n", buf.String())
}

func TestOutputFormatter_Raw(t *testing.T) {
	var buf bytes.Buffer
	f := &OutputFormatter{Format: "json", Writer: &buf}

	require.NoError(t, f.Raw([]byte(`[{"n":"a","v":1}]`)))
	assert.Equal(t, "[{\"n\":\"a\",\"v\":1}]\n", buf.String())
}

func TestOutputFormatter_VerboseLog(t *testing.T) {
	var out, errOut bytes.Buffer

	quiet := &OutputFormatter{Format: "text", Writer: &out, ErrWriter: &errOut}
	quiet.VerboseLog("hidden %d", 1)
	assert.Empty(t, out.String())
	assert.Empty(t, errOut.String())

	verbose := &OutputFormatter{Format: "json", Writer: &out, ErrWriter: &errOut, Verbose: true}
	verbose.VerboseLog("loaded %d record(s)", 4)
	assert.Empty(t, out.String(), "verbose output must not corrupt JSON output")
	assert.Equal(t, "loaded 4 record(s)\n", errOut.String())
}
