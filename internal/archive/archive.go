// Package archive persists sync output as JSON files under one directory:
//
//	<dir>/snapshots/<date>.json         full snapshot, one per run date
//	<dir>/laws.json                     in-force view, overwritten each run
//	<dir>/diff/<prev>_to_<curr>.json    diff, only when a previous snapshot existed
//
// A run's files are committed together: everything is staged to temporary
// files first and only renamed into place once all of them are written.
package archive

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/roach88/lexsync/internal/instrument"
	"github.com/roach88/lexsync/internal/snapdiff"
)

const (
	SnapshotDir = "snapshots"
	DiffDir     = "diff"
	InForceFile = "laws.json"
)

// ParseError reports a persisted file that is not valid JSON.
// Readers recover by treating the file as empty.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// IsParseError returns true if err is or wraps a *ParseError.
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}

// Archive is a directory of persisted runs.
type Archive struct {
	Dir string
}

// New creates an Archive rooted at dir. Nothing is created until Commit.
func New(dir string) *Archive {
	return &Archive{Dir: dir}
}

// SnapshotPath returns the file for a run date.
func (a *Archive) SnapshotPath(date string) string {
	return filepath.Join(a.Dir, SnapshotDir, date+".json")
}

// InForcePath returns the in-force view file.
func (a *Archive) InForcePath() string {
	return filepath.Join(a.Dir, InForceFile)
}

// DiffPath returns the diff file for a pair of run dates.
func (a *Archive) DiffPath(prevDate, currDate string) string {
	return filepath.Join(a.Dir, DiffDir, prevDate+"_to_"+currDate+".json")
}

// Dates returns the dates of persisted snapshots, oldest first.
// A missing snapshot directory yields no dates.
func (a *Archive) Dates() ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(a.Dir, SnapshotDir))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}

	var dates []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		dates = append(dates, strings.TrimSuffix(name, ".json"))
	}
	sort.Strings(dates)
	return dates, nil
}

// Latest loads the most recent snapshot by date order.
//
// With no snapshots it returns the zero Snapshot. A snapshot file that
// fails to parse returns a Snapshot carrying its date and no instruments,
// together with a *ParseError the caller may log; the date still counts as
// a previous run.
func (a *Archive) Latest() (instrument.Snapshot, error) {
	dates, err := a.Dates()
	if err != nil {
		return instrument.Snapshot{}, err
	}
	if len(dates) == 0 {
		return instrument.Snapshot{}, nil
	}
	date := dates[len(dates)-1]
	items, err := ReadInstruments(a.SnapshotPath(date))
	return instrument.Snapshot{Date: date, Instruments: items}, err
}

// ReadInstruments decodes a JSON array of instruments from path.
// Malformed content returns a nil slice and a *ParseError.
func ReadInstruments(path string) ([]instrument.Instrument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var items []instrument.Instrument
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	for i := range items {
		items[i] = items[i].Clone()
	}
	return items, nil
}

// ReadSnapshot loads a snapshot file, taking the date from its name.
func ReadSnapshot(path string) (instrument.Snapshot, error) {
	items, err := ReadInstruments(path)
	if err != nil {
		return instrument.Snapshot{}, err
	}
	date := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return instrument.Snapshot{Date: date, Instruments: items}, nil
}

// ReadDiff loads a persisted diff artifact.
func ReadDiff(path string) (snapdiff.Diff, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return snapdiff.Diff{}, fmt.Errorf("read %s: %w", path, err)
	}
	var d snapdiff.Diff
	if err := json.Unmarshal(data, &d); err != nil {
		return snapdiff.Diff{}, &ParseError{Path: path, Err: err}
	}
	return d, nil
}

// encode renders v the way every archive file is written.
func encode(v any) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
