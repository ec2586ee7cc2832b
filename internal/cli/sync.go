package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/lexsync/internal/archive"
	"github.com/roach88/lexsync/internal/discovery"
	"github.com/roach88/lexsync/internal/enrich"
	"github.com/roach88/lexsync/internal/fetch"
	"github.com/roach88/lexsync/internal/pipeline"
	"github.com/roach88/lexsync/internal/sources"
	"github.com/roach88/lexsync/internal/store"
)

// SyncOptions holds flags for the sync command.
type SyncOptions struct {
	*RootOptions
	OutDir    string
	Sources   string
	Database  string
	UserAgent string
	Topic     string

	// Fetcher overrides the HTTP transport (for testing).
	Fetcher fetch.Fetcher
	// Now overrides the wall clock (for testing).
	Now func() time.Time
	// NewRunID overrides run ID generation (for testing).
	NewRunID func() string
}

// NewSyncCommand creates the sync command.
func NewSyncCommand(rootOpts *RootOptions) *cobra.Command {
	return newSyncCommand(&SyncOptions{RootOptions: rootOpts})
}

func newSyncCommand(opts *SyncOptions) *cobra.Command {
	cfg, cfgErr := LoadEnvConfig()

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Discover, enrich and snapshot the instrument registry",
		Long: `Run one sync: fetch the configured index pages, merge in the configured
instruments, enrich each from its portal page, infer amendment and repeal
links, then write today's snapshot, the in-force view and a diff against
the previous snapshot.

Example:
  lexsync sync --out ./api
  lexsync sync --sources ./sources.cue --db ./ledger.db --verbose`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfgErr != nil {
				return WrapExitError(ExitCommandError, "invalid environment", cfgErr)
			}
			return runSync(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.OutDir, "out", cfg.OutDir, "output directory for snapshots, diffs and laws.json")
	cmd.Flags().StringVar(&opts.Sources, "sources", cfg.Sources, "sources file (.yaml or .cue); embedded default when empty")
	cmd.Flags().StringVar(&opts.Database, "db", cfg.Database, "path to SQLite run ledger (optional)")
	cmd.Flags().StringVar(&opts.UserAgent, "user-agent", cfg.UserAgent, "User-Agent header for every fetch")
	cmd.Flags().StringVar(&opts.Topic, "topic", cfg.DefaultTopic, "topic for instruments without one")

	return cmd
}

func runSync(cmd *cobra.Command, opts *SyncOptions) error {
	logger := newLogger(cmd.ErrOrStderr(), opts.Verbose)
	out := opts.formatter(cmd)

	src, err := sources.Load(opts.Sources)
	if err != nil {
		return reportFailure(out, WrapExitError(ExitCommandError, "failed to load sources",
			&pipeline.FatalError{Stage: pipeline.StageConfig, Err: err}))
	}
	logger.Debug("sources loaded", "index_pages", len(src.IndexPages), "instruments", len(src.Instruments))

	fetcher := opts.Fetcher
	if fetcher == nil {
		fetcher = fetch.NewHTTPFetcher(opts.UserAgent)
	}

	syncer := &pipeline.Syncer{
		Sources:      src,
		Discoverer:   discovery.New(fetcher, logger),
		Enricher:     enrich.New(fetcher, logger),
		Archive:      archive.New(opts.OutDir),
		DefaultTopic: opts.Topic,
		Now:          opts.Now,
		NewRunID:     opts.NewRunID,
		Logger:       logger,
	}

	if opts.Database != "" {
		logger.Debug("opening ledger", "path", opts.Database)
		st, err := store.Open(opts.Database)
		if err != nil {
			return reportFailure(out, WrapExitError(ExitCommandError, "failed to open ledger",
				&pipeline.FatalError{Stage: pipeline.StageLedger, Err: err}))
		}
		defer func() {
			if closeErr := st.Close(); closeErr != nil {
				logger.Error("error closing ledger", "error", closeErr)
			}
		}()
		syncer.Ledger = st
	}

	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, stop := signal.NotifyContext(parentCtx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	report, err := syncer.Run(ctx)
	if err != nil {
		return reportFailure(out, WrapExitError(ExitFailure, "sync failed", err))
	}
	return out.Success(syncSummary{report})
}

// reportFailure writes err through the formatter in JSON mode so callers
// get a structured envelope, then returns err for the exit code.
func reportFailure(out *OutputFormatter, err *ExitError) error {
	if out.Format == "json" {
		_ = out.Error(ErrorCode(err), err.Error(), nil)
	}
	return err
}

type syncSummary struct {
	*pipeline.Report
}

func (s syncSummary) RenderText(w io.Writer) error {
	r := s.Report
	lines := []string{
		fmt.Sprintf("Snapshot: %s", r.Paths.Snapshot),
		fmt.Sprintf("In-force: %s (%d of %d)", r.Paths.InForce, r.InForce, r.Instruments),
	}
	if r.Paths.Diff != "" {
		lines = append(lines, fmt.Sprintf("Diff: %s", r.Paths.Diff))
	}
	lines = append(lines, fmt.Sprintf("Added: %d, Removed: %d, Changed: %d",
		r.Counts.Added, r.Counts.Removed, r.Counts.Changed))
	if r.EnrichFailed > 0 {
		lines = append(lines, fmt.Sprintf("Enrichment failures: %d", r.EnrichFailed))
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
