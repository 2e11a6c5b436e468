package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	senml "github.com/SINTEF/sindit-senml"
)

// ResolveOptions holds flags for the resolve command.
type ResolveOptions struct {
	Now        int64 // reference time as unix seconds; 0 means wall clock
	MaxRecords int
}

// NewResolveCommand creates the resolve command.
func NewResolveCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ResolveOptions{}

	cmd := &cobra.Command{
		Use:   "resolve <pack.json>",
		Short: "Resolve a SenML pack into self-contained records",
		Long: `Resolve a SenML pack into self-contained records.

Base fields (bn, bt, bu, bv, bs, bver) are folded into each record so
the output needs no context to interpret. With --format json the output
is itself a valid SenML pack.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResolve(rootOpts, opts, args[0], cmd)
		},
	}

	cmd.Flags().Int64Var(&opts.Now, "now", 0, "reference time for relative values (unix seconds, 0 = current time)")
	cmd.Flags().IntVar(&opts.MaxRecords, "max-records", DefaultMaxRecords, "maximum records accepted per pack")

	return cmd
}

func runResolve(rootOpts *RootOptions, opts *ResolveOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    rootOpts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   rootOpts.Verbose,
	}

	resolved, err := loadAndResolve(formatter, opts, path)
	if err != nil {
		return err
	}

	if rootOpts.Format == "json" {
		encoded, err := senml.EncodeJSON(resolved)
		if err != nil {
			return WrapExitError(ExitCommandError, "encoding resolved pack", err)
		}
		return formatter.Raw(encoded)
	}

	for _, rec := range resolved {
		fmt.Fprintln(formatter.Writer, renderRecord(&rec))
	}
	return nil
}

// loadAndResolve is the shared decode-and-resolve path for the
// resolve, validate, and ingest commands.
func loadAndResolve(formatter *OutputFormatter, opts *ResolveOptions, path string) ([]senml.ResolvedRecord, error) {
	records, err := ReadPack(path, opts.MaxRecords)
	if err != nil {
		var loadErr *LoadError
		if errors.As(err, &loadErr) {
			formatter.Error(loadErr.Code, loadErr.Message, nil)
			return nil, WrapExitError(ExitCommandError, loadErr.Message, loadErr.Err)
		}
		return nil, WrapExitError(ExitCommandError, "loading pack", err)
	}

	formatter.VerboseLog("Loaded %d record(s) from %s", len(records), path)

	var now time.Time
	if opts.Now != 0 {
		now = time.Unix(opts.Now, 0).UTC()
	} else {
		now = time.Now().UTC()
	}

	resolved, err := senml.Resolve(records, now)
	if err != nil {
		formatter.Error(ErrCodeResolve, err.Error(), map[string]any{
			"code":  string(senml.CodeOf(err)),
			"index": senml.IndexOf(err),
		})
		return nil, WrapExitError(ExitFailure, "pack failed resolution", err)
	}

	return resolved, nil
}

// renderRecord formats one resolved record for text output.
func renderRecord(rec *senml.ResolvedRecord) string {
	var b strings.Builder
	b.WriteString(rec.Time.Format(time.RFC3339Nano))
	b.WriteByte(' ')
	b.WriteString(rec.Name)

	switch v := rec.Value.(type) {
	case senml.FloatValue:
		fmt.Fprintf(&b, " = %v", float64(v))
	case senml.StringValue:
		fmt.Fprintf(&b, " = %q", string(v))
	case senml.BoolValue:
		fmt.Fprintf(&b, " = %t", bool(v))
	case senml.DataValue:
		fmt.Fprintf(&b, " = <%d bytes>", len(v))
	}

	if rec.Unit != "" {
		b.WriteByte(' ')
		b.WriteString(rec.Unit)
	}
	if rec.Sum != nil {
		fmt.Fprintf(&b, " sum=%v", *rec.Sum)
	}
	return b.String()
}
