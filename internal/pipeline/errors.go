package pipeline

import (
	"errors"
	"fmt"
)

// Stage identifies where a fatal error stopped the run.
type Stage string

const (
	// StageConfig covers loading and validating sources.
	StageConfig Stage = "config"

	// StageDiscovery covers fetching index pages.
	StageDiscovery Stage = "discovery"

	// StagePersist covers writing archive files.
	StagePersist Stage = "persist"

	// StageLedger covers recording the run in the SQLite ledger.
	StageLedger Stage = "ledger"
)

// FatalError aborts a sync run. Nothing from the run is persisted when it
// is returned from a stage before StageLedger.
type FatalError struct {
	Stage Stage
	Err   error
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *FatalError) Unwrap() error {
	return e.Err
}

var errNoSources = errors.New("no sources configured")

func fatal(stage Stage, err error) *FatalError {
	return &FatalError{Stage: stage, Err: err}
}

// IsFatal returns true if err is or wraps a *FatalError.
// Uses errors.As to handle wrapped errors.
func IsFatal(err error) bool {
	var fe *FatalError
	return errors.As(err, &fe)
}

// FatalStage returns the stage of a *FatalError in err's chain, or "".
func FatalStage(err error) Stage {
	var fe *FatalError
	if errors.As(err, &fe) {
		return fe.Stage
	}
	return ""
}
