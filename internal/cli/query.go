package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/SINTEF/sindit-senml/internal/store"
)

// QueryOptions holds flags for the query command.
type QueryOptions struct {
	DBPath     string
	NamePrefix string
	Since      int64
	Until      int64
	Limit      int
}

// NewQueryCommand creates the query command.
func NewQueryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &QueryOptions{}

	cmd := &cobra.Command{
		Use:   "query --db <path>",
		Short: "Query measurements from the store",
		Long: `Query resolved measurements previously ingested into the store,
filtered by name prefix and time range, ordered by time.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(rootOpts, opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.DBPath, "db", "", "path to the measurement store database (required)")
	cmd.Flags().StringVar(&opts.NamePrefix, "name", "", "name prefix filter")
	cmd.Flags().Int64Var(&opts.Since, "since", 0, "lower time bound (unix seconds, inclusive)")
	cmd.Flags().Int64Var(&opts.Until, "until", 0, "upper time bound (unix seconds, exclusive)")
	cmd.Flags().IntVar(&opts.Limit, "limit", 100, "maximum rows returned")
	cmd.MarkFlagRequired("db")

	return cmd
}

func runQuery(rootOpts *RootOptions, opts *QueryOptions, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    rootOpts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   rootOpts.Verbose,
	}

	st, err := store.Open(opts.DBPath)
	if err != nil {
		formatter.Error(ErrCodeStore, err.Error(), nil)
		return WrapExitError(ExitCommandError, "opening measurement store", err)
	}
	defer st.Close()

	q := store.Query{
		NamePrefix: opts.NamePrefix,
		Limit:      opts.Limit,
	}
	if opts.Since != 0 {
		q.Since = time.Unix(opts.Since, 0).UTC()
	}
	if opts.Until != 0 {
		q.Until = time.Unix(opts.Until, 0).UTC()
	}

	rows, err := st.Measurements(cmd.Context(), q)
	if err != nil {
		formatter.Error(ErrCodeStore, err.Error(), nil)
		return WrapExitError(ExitCommandError, "querying measurements", err)
	}

	if rootOpts.Format == "json" {
		return formatter.Success(rows)
	}
	for _, m := range rows {
		fmt.Fprintln(formatter.Writer, renderMeasurement(&m))
	}
	formatter.VerboseLog("%d row(s)", len(rows))
	return nil
}

func renderMeasurement(m *store.Measurement) string {
	s := fmt.Sprintf("%s %s", m.Time.Format(time.RFC3339Nano), m.Name)
	switch m.Kind {
	case store.KindFloat:
		s += fmt.Sprintf(" = %v", *m.Float)
	case store.KindString:
		s += fmt.Sprintf(" = %q", *m.String)
	case store.KindBool:
		s += fmt.Sprintf(" = %t", *m.Bool)
	case store.KindData:
		s += fmt.Sprintf(" = <%d bytes>", len(m.Data))
	}
	if m.Unit != "" {
		s += " " + m.Unit
	}
	if m.Sum != nil {
		s += fmt.Sprintf(" sum=%v", *m.Sum)
	}
	return s
}
