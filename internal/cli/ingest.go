package cli

import (
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/SINTEF/sindit-senml/internal/store"
)

// IngestOptions holds flags for the ingest command.
type IngestOptions struct {
	ResolveOptions
	DBPath string
}

// NewIngestCommand creates the ingest command.
func NewIngestCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &IngestOptions{}

	cmd := &cobra.Command{
		Use:   "ingest --db <path> <pack.json>...",
		Short: "Resolve packs and write them to the measurement store",
		Long: `Resolve one or more SenML packs and write the resolved records to a
SQLite measurement store. Each pack becomes one batch with a
time-sortable UUIDv7 identifier.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIngest(rootOpts, opts, args, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.DBPath, "db", "", "path to the measurement store database (required)")
	cmd.Flags().Int64Var(&opts.Now, "now", 0, "reference time for relative values (unix seconds, 0 = current time)")
	cmd.Flags().IntVar(&opts.MaxRecords, "max-records", DefaultMaxRecords, "maximum records accepted per pack")
	cmd.MarkFlagRequired("db")

	return cmd
}

func runIngest(rootOpts *RootOptions, opts *IngestOptions, paths []string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    rootOpts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   rootOpts.Verbose,
	}

	logger, err := newLogger(rootOpts.Verbose)
	if err != nil {
		return WrapExitError(ExitCommandError, "initializing logger", err)
	}
	defer logger.Sync()

	st, err := store.Open(opts.DBPath)
	if err != nil {
		formatter.Error(ErrCodeStore, err.Error(), nil)
		return WrapExitError(ExitCommandError, "opening measurement store", err)
	}
	defer st.Close()

	ctx := cmd.Context()
	type batchSummary struct {
		Batch   string `json:"batch"`
		Source  string `json:"source"`
		Records int    `json:"records"`
	}
	summaries := make([]batchSummary, 0, len(paths))

	for _, path := range paths {
		resolved, err := loadAndResolve(formatter, &opts.ResolveOptions, path)
		if err != nil {
			logger.Error("pack rejected", zap.String("source", path), zap.Error(err))
			return err
		}

		batch := store.Batch{
			ID:         uuid.Must(uuid.NewV7()).String(),
			Source:     path,
			IngestedAt: time.Now().UTC(),
		}
		if err := st.WriteBatch(ctx, batch, resolved); err != nil {
			logger.Error("batch write failed", zap.String("source", path), zap.Error(err))
			formatter.Error(ErrCodeStore, err.Error(), nil)
			return WrapExitError(ExitCommandError, "writing batch", err)
		}

		logger.Info("pack ingested",
			zap.String("batch", batch.ID),
			zap.String("source", path),
			zap.Int("records", len(resolved)),
		)
		summaries = append(summaries, batchSummary{Batch: batch.ID, Source: path, Records: len(resolved)})
	}

	if rootOpts.Format == "json" {
		return formatter.Success(summaries)
	}
	for _, s := range summaries {
		formatter.VerboseLog("batch %s: %d record(s) from %s", s.Batch, s.Records, s.Source)
	}
	return formatter.Success(len(summaries))
}

// newLogger builds the ingest logger: human-readable in verbose mode,
// production JSON otherwise. Logs go to stderr either way so they
// never mix with command output.
func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
