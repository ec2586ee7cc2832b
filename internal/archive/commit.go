package archive

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/roach88/lexsync/internal/instrument"
	"github.com/roach88/lexsync/internal/snapdiff"
)

// Batch is everything one run persists.
type Batch struct {
	Snapshot instrument.Snapshot
	// PreviousDate names the diff file; Diff is written only when it is set.
	PreviousDate string
	Diff         *snapdiff.Diff
}

// Paths reports where a committed batch landed. Diff is empty when no diff
// was written.
type Paths struct {
	Snapshot string `json:"snapshot"`
	InForce  string `json:"in_force"`
	Diff     string `json:"diff,omitempty"`
}

type pending struct {
	dest string
	v    any
}

type staged struct {
	tmp, dest string
	backup    string // previous dest, moved aside while installing
}

// rename is os.Rename; tests swap it to inject failures.
var rename = os.Rename

// Commit writes the snapshot, the in-force view and, when a previous
// snapshot existed, the diff. Either every file is installed or the
// directory is left as it was before the call.
func (a *Archive) Commit(b Batch) (Paths, error) {
	paths := Paths{
		Snapshot: a.SnapshotPath(b.Snapshot.Date),
		InForce:  a.InForcePath(),
	}
	files := []pending{
		{paths.Snapshot, b.Snapshot.Instruments},
		{paths.InForce, b.Snapshot.InForce()},
	}
	if b.PreviousDate != "" && b.Diff != nil {
		paths.Diff = a.DiffPath(b.PreviousDate, b.Snapshot.Date)
		files = append(files, pending{paths.Diff, b.Diff})
	}

	var stage []staged
	for _, f := range files {
		tmp, err := writeTemp(f.dest, f.v)
		if err != nil {
			for _, s := range stage {
				_ = os.Remove(s.tmp)
			}
			return Paths{}, fmt.Errorf("stage %s: %w", f.dest, err)
		}
		stage = append(stage, staged{tmp: tmp, dest: f.dest})
	}

	// The snapshot goes in last: Latest only sees a run once it is complete.
	slices.Reverse(stage)
	if err := install(stage); err != nil {
		return Paths{}, err
	}
	return paths, nil
}

// install renames every staged file into place. Files it replaces are
// moved aside first so a failure can restore them.
func install(stage []staged) error {
	var done []staged
	rollback := func() {
		for i := len(done) - 1; i >= 0; i-- {
			d := done[i]
			_ = os.Remove(d.dest)
			if d.backup != "" {
				_ = rename(d.backup, d.dest)
			}
		}
		for _, s := range stage {
			_ = os.Remove(s.tmp)
		}
	}

	for _, s := range stage {
		if _, err := os.Stat(s.dest); err == nil {
			s.backup = s.tmp + ".prev"
			if err := rename(s.dest, s.backup); err != nil {
				rollback()
				return fmt.Errorf("commit %s: %w", s.dest, err)
			}
		}
		if err := rename(s.tmp, s.dest); err != nil {
			if s.backup != "" {
				_ = rename(s.backup, s.dest)
			}
			rollback()
			return fmt.Errorf("commit %s: %w", s.dest, err)
		}
		done = append(done, s)
	}

	for _, d := range done {
		if d.backup != "" {
			_ = os.Remove(d.backup)
		}
	}
	return nil
}

// writeTemp encodes v into a temporary file next to dest.
func writeTemp(dest string, v any) (string, error) {
	data, err := encode(v)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return "", err
	}
	f, err := os.CreateTemp(filepath.Dir(dest), "."+filepath.Base(dest)+".*.tmp")
	if err != nil {
		return "", err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", err
	}
	return f.Name(), nil
}
