package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	senml "github.com/SINTEF/sindit-senml"
)

// ValidationIssue describes one reason a pack was rejected.
type ValidationIssue struct {
	Code    string `json:"code"`
	Index   int    `json:"index"` // 0-based record index, -1 when pack-wide
	Message string `json:"message"`
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid   bool              `json:"valid"`
	Records int               `json:"records"`
	Errors  []ValidationIssue `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ResolveOptions{}

	cmd := &cobra.Command{
		Use:   "validate <pack.json>",
		Short: "Validate a SenML pack without emitting records",
		Long: `Validate a SenML pack without emitting resolved records.

Runs the full resolution pass and reports the first structural problem
(missing or invalid names, conflicting versions, multiple value kinds,
bad base64 data, non-finite times) with its record index.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, opts, args[0], cmd)
		},
	}

	cmd.Flags().Int64Var(&opts.Now, "now", 0, "reference time for relative values (unix seconds, 0 = current time)")
	cmd.Flags().IntVar(&opts.MaxRecords, "max-records", DefaultMaxRecords, "maximum records accepted per pack")

	return cmd
}

func runValidate(rootOpts *RootOptions, opts *ResolveOptions, path string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    rootOpts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   rootOpts.Verbose,
	}

	records, err := ReadPack(path, opts.MaxRecords)
	if err != nil {
		var loadErr *LoadError
		if errors.As(err, &loadErr) {
			formatter.Error(loadErr.Code, loadErr.Message, nil)
			return WrapExitError(ExitCommandError, loadErr.Message, loadErr.Err)
		}
		return WrapExitError(ExitCommandError, "loading pack", err)
	}

	var now time.Time
	if opts.Now != 0 {
		now = time.Unix(opts.Now, 0).UTC()
	} else {
		now = time.Now().UTC()
	}

	result := ValidationResult{Valid: true, Records: len(records)}
	if _, err := senml.Resolve(records, now); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, ValidationIssue{
			Code:    string(senml.CodeOf(err)),
			Index:   senml.IndexOf(err),
			Message: err.Error(),
		})
	}

	if rootOpts.Format == "json" {
		if err := formatter.Success(result); err != nil {
			return err
		}
	} else if result.Valid {
		fmt.Fprintf(formatter.Writer, "OK: %d record(s)\n", result.Records)
	} else {
		for _, issue := range result.Errors {
			fmt.Fprintf(formatter.Writer, "INVALID: %s\n", issue.Message)
		}
	}

	if !result.Valid {
		return NewExitError(ExitFailure, "pack is invalid")
	}
	return nil
}
