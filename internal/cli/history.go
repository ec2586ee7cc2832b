package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/lexsync/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Database   string
	Instrument string
	Limit      int
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}
	cfg, cfgErr := LoadEnvConfig()

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded runs or one instrument's status over time",
		Long: `Read the SQLite run ledger written by "lexsync sync --db".

Without --instrument, lists the most recent runs with their counts.
With --instrument, shows that instrument's recorded state in every run.

Example:
  lexsync history --db ./ledger.db
  lexsync history --db ./ledger.db --instrument fdl-33-2021`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfgErr != nil {
				return WrapExitError(ExitCommandError, "invalid environment", cfgErr)
			}
			return runHistory(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", cfg.Database, "path to SQLite run ledger (required)")
	cmd.Flags().StringVar(&opts.Instrument, "instrument", "", "instrument ID to trace")
	cmd.Flags().IntVar(&opts.Limit, "limit", cfg.HistoryLimit, "maximum number of runs to list")

	return cmd
}

func runHistory(cmd *cobra.Command, opts *HistoryOptions) error {
	out := opts.formatter(cmd)

	if opts.Database == "" {
		return WrapExitError(ExitCommandError, "--db is required", nil)
	}

	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open ledger", err)
	}
	defer st.Close()

	ctx := cmd.Context()

	if opts.Instrument != "" {
		entries, err := st.InstrumentHistory(ctx, opts.Instrument)
		if err != nil {
			return WrapExitError(ExitFailure, "failed to read instrument history", err)
		}
		if len(entries) == 0 {
			return WrapExitError(ExitFailure, fmt.Sprintf("instrument %q not found in ledger", opts.Instrument), nil)
		}
		return out.Success(instrumentHistory(entries))
	}

	runs, err := st.ListRuns(ctx, opts.Limit)
	if err != nil {
		return WrapExitError(ExitFailure, "failed to list runs", err)
	}
	return out.Success(runList(runs))
}

type runList []store.Run

func (l runList) RenderText(w io.Writer) error {
	if len(l) == 0 {
		_, err := fmt.Fprintln(w, "No runs recorded")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SEQ\tDATE\tINSTRUMENTS\tADDED\tREMOVED\tCHANGED\tRUN")
	for _, r := range l {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t%d\t%d\t%s\n",
			r.Seq, r.Date, r.Instruments, r.Added, r.Removed, r.Changed, r.ID)
	}
	return tw.Flush()
}

type instrumentHistory []store.StatusEntry

func (h instrumentHistory) RenderText(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tSTATUS\tEFFECTIVE FROM\tEFFECTIVE TO\tREPEALED BY")
	for _, e := range h {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			e.RunDate, e.Status, dash(e.EffectiveFrom), dash(e.EffectiveTo), dash(e.RepealedBy))
	}
	return tw.Flush()
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
