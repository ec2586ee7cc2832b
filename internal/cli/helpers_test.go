package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/roach88/lexsync/internal/testutil"
)

const (
	testIndexURL  = "https://www.example.gov/en/laws.aspx"
	testPortalURL = "https://legislation.example/Details/1541"
)

const testSourcesYAML = `indexPages:
  - ` + testIndexURL + `
instruments:
  - id: fdl-33-2021
    titleHint: Federal Decree-Law No. 33 of 2021
    topic: labour
    mohreRef: ` + testIndexURL + `
    uaePortal: ` + testPortalURL + `
`

const (
	testIndexPage    = `<ul><li><a href="/about">About us</a></li></ul>`
	testPortalPage   = `<span>Status: In Force</span><span>Effective Date: 2 February 2022</span>`
	testRepealedPage = `<span>Status: Repealed and replaced</span><span>Effective Date: 2 February 2022</span>`
)

// cliHarness runs commands against a temp output directory with a scripted
// fetcher and a fixed clock.
type cliHarness struct {
	dir     string
	sources string
	fetcher *testutil.ScriptedFetcher
	clock   *testutil.FixedClock
	verbose bool
	runs    int
}

func newCLIHarness(t *testing.T) *cliHarness {
	t.Helper()
	dir := t.TempDir()
	src := filepath.Join(dir, "sources.yaml")
	require.NoError(t, os.WriteFile(src, []byte(testSourcesYAML), 0o644))

	return &cliHarness{
		dir:     dir,
		sources: src,
		fetcher: testutil.NewScriptedFetcher(map[string]string{
			testIndexURL:  testIndexPage,
			testPortalURL: testPortalPage,
		}),
		clock: testutil.NewFixedClockAt("2024-01-01"),
	}
}

func (h *cliHarness) outDir() string { return filepath.Join(h.dir, "api") }

func (h *cliHarness) dbPath() string { return filepath.Join(h.dir, "ledger.db") }

// sync runs the sync command with format and extra flags.
func (h *cliHarness) sync(format string, args ...string) (string, string, error) {
	opts := &SyncOptions{
		RootOptions: &RootOptions{Format: format, Verbose: h.verbose},
		Fetcher:     h.fetcher,
		Now:         h.clock.Now,
		NewRunID: func() string {
			h.runs++
			return fmt.Sprintf("run-%d", h.runs)
		},
	}
	cmd := newSyncCommand(opts)
	base := []string{"--out", h.outDir(), "--sources", h.sources}
	return execute(cmd, append(base, args...)...)
}

func execute(cmd *cobra.Command, args ...string) (string, string, error) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}
