package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/lexsync/internal/archive"
	"github.com/roach88/lexsync/internal/snapdiff"
)

// DiffOptions holds flags for the diff command.
type DiffOptions struct {
	*RootOptions

	// Now overrides the generatedAt clock (for testing).
	Now func() time.Time
}

// NewDiffCommand creates the diff command.
func NewDiffCommand(rootOpts *RootOptions) *cobra.Command {
	return newDiffCommand(&DiffOptions{RootOptions: rootOpts})
}

func newDiffCommand(opts *DiffOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "diff <previous.json> <current.json>",
		Short: "Compare two snapshot files",
		Long: `Compare two persisted snapshot files by instrument ID and report
added, removed and changed instruments. Only title, status, effectiveFrom,
effectiveTo and repealedBy are compared.

Example:
  lexsync diff api/snapshots/2024-01-01.json api/snapshots/2024-02-01.json
  lexsync diff --format json old.json new.json`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiff(cmd, opts, args[0], args[1])
		},
	}
}

func runDiff(cmd *cobra.Command, opts *DiffOptions, prevPath, currPath string) error {
	out := opts.formatter(cmd)

	prev, err := archive.ReadSnapshot(prevPath)
	if err != nil {
		return reportInputError(out, prevPath, err)
	}
	curr, err := archive.ReadSnapshot(currPath)
	if err != nil {
		return reportInputError(out, currPath, err)
	}

	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}
	d := snapdiff.Compute(prev.Instruments, curr.Instruments, now())
	return out.Success(diffView{Diff: d})
}

func reportInputError(out *OutputFormatter, path string, err error) error {
	exitErr := WrapExitError(ExitCommandError, fmt.Sprintf("cannot read snapshot %s", path), err)
	if out.Format == "json" {
		_ = out.Error(ErrCodeInput, exitErr.Error(), map[string]bool{"parse_error": archive.IsParseError(err)})
	}
	return exitErr
}

type diffView struct {
	snapdiff.Diff
}

func (v diffView) RenderText(w io.Writer) error {
	d := v.Diff
	if d.Empty() {
		_, err := fmt.Fprintln(w, "No changes")
		return err
	}
	for _, it := range d.Added {
		fmt.Fprintf(w, "+ %s  %s\n", it.ID, it.Title)
	}
	for _, it := range d.Removed {
		fmt.Fprintf(w, "- %s  %s\n", it.ID, it.Title)
	}
	for _, c := range d.Changed {
		fmt.Fprintf(w, "~ %s\n", c.ID)
		for _, field := range snapdiff.TrackedFields {
			ch, ok := c.Changes[field]
			if !ok {
				continue
			}
			fmt.Fprintf(w, "    %s: %s -> %s\n", field, display(ch.From), display(ch.To))
		}
	}
	counts := d.Counts()
	_, err := fmt.Fprintf(w, "Added: %d, Removed: %d, Changed: %d\n", counts.Added, counts.Removed, counts.Changed)
	return err
}

func display(s *string) string {
	if s == nil {
		return "null"
	}
	return fmt.Sprintf("%q", *s)
}
