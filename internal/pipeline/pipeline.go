// Package pipeline sequences a sync run: discovery, identity merge,
// enrichment, relationship inference, status derivation, diffing and
// persistence.
//
// The orchestrator owns the merged registry for the whole run and writes
// nothing until every in-memory stage has finished.
package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/roach88/lexsync/internal/archive"
	"github.com/roach88/lexsync/internal/instrument"
	"github.com/roach88/lexsync/internal/lifecycle"
	"github.com/roach88/lexsync/internal/snapdiff"
	"github.com/roach88/lexsync/internal/sources"
	"github.com/roach88/lexsync/internal/store"
)

// Discoverer turns index pages into a registry of discovered instruments.
type Discoverer interface {
	Discover(ctx context.Context, indexPages []string) (*instrument.Registry, error)
}

// Enricher augments one instrument from its portal page. The returned
// instrument is usable even when err is non-nil.
type Enricher interface {
	Enrich(ctx context.Context, it instrument.Instrument, url string) (instrument.Instrument, error)
}

// Archive loads the previous snapshot and commits a run's files.
type Archive interface {
	Latest() (instrument.Snapshot, error)
	Commit(b archive.Batch) (archive.Paths, error)
}

// Ledger records completed runs. Optional.
type Ledger interface {
	RecordRun(ctx context.Context, run store.Run, items []instrument.Instrument) (store.Run, error)
}

// Syncer runs the pipeline.
type Syncer struct {
	Sources      *sources.Sources
	Discoverer   Discoverer
	Enricher     Enricher
	Archive      Archive
	Ledger       Ledger
	DefaultTopic string
	Now          func() time.Time
	NewRunID     func() string
	Logger       *slog.Logger
}

// Report summarises a completed run.
type Report struct {
	RunID        string          `json:"run_id"`
	Date         string          `json:"date"`
	PreviousDate string          `json:"previous_date,omitempty"`
	Paths        archive.Paths   `json:"paths"`
	Instruments  int             `json:"instruments"`
	InForce      int             `json:"in_force"`
	Enriched     int             `json:"enriched"`
	EnrichFailed int             `json:"enrich_failed"`
	Links        lifecycle.Links `json:"links"`
	Counts       snapdiff.Counts `json:"counts"`
}

// Result is the in-memory outcome of the pipeline before persistence.
type Result struct {
	Snapshot     instrument.Snapshot
	Diff         snapdiff.Diff
	Links        lifecycle.Links
	Enriched     int
	EnrichFailed int
}

func (s *Syncer) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

func (s *Syncer) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Syncer) runID() string {
	if s.NewRunID != nil {
		return s.NewRunID()
	}
	return uuid.Must(uuid.NewV7()).String()
}

// Run loads the previous snapshot from the archive and syncs against it.
// A malformed previous snapshot is logged and treated as empty.
func (s *Syncer) Run(ctx context.Context) (*Report, error) {
	previous, err := s.Archive.Latest()
	if err != nil {
		if !archive.IsParseError(err) {
			return nil, fatal(StagePersist, err)
		}
		s.logger().Warn("previous snapshot unreadable, treating as empty", "date", previous.Date, "error", err)
	}
	return s.Sync(ctx, previous)
}

// Sync runs every stage against an explicit previous snapshot and persists
// the result. A zero previous snapshot means this is the first run.
func (s *Syncer) Sync(ctx context.Context, previous instrument.Snapshot) (*Report, error) {
	log := s.logger()
	runID := s.runID()
	log = log.With("run_id", runID)

	res, err := s.Build(ctx, previous)
	if err != nil {
		return nil, err
	}

	batch := archive.Batch{Snapshot: res.Snapshot}
	if !previous.IsZero() {
		batch.PreviousDate = previous.Date
		batch.Diff = &res.Diff
	}
	paths, err := s.Archive.Commit(batch)
	if err != nil {
		return nil, fatal(StagePersist, err)
	}
	log.Info("snapshot written", "path", paths.Snapshot, "instruments", len(res.Snapshot.Instruments))

	report := &Report{
		RunID:        runID,
		Date:         res.Snapshot.Date,
		PreviousDate: batch.PreviousDate,
		Paths:        paths,
		Instruments:  len(res.Snapshot.Instruments),
		InForce:      len(res.Snapshot.InForce()),
		Enriched:     res.Enriched,
		EnrichFailed: res.EnrichFailed,
		Links:        res.Links,
		Counts:       res.Diff.Counts(),
	}

	if s.Ledger != nil {
		if err := s.record(ctx, report, res.Snapshot); err != nil {
			return report, fatal(StageLedger, err)
		}
	}
	return report, nil
}

func (s *Syncer) record(ctx context.Context, report *Report, snap instrument.Snapshot) error {
	digest, err := store.SnapshotDigest(snap.Instruments)
	if err != nil {
		return err
	}
	_, err = s.Ledger.RecordRun(ctx, store.Run{
		ID:           report.RunID,
		Date:         report.Date,
		PreviousDate: report.PreviousDate,
		SnapshotPath: report.Paths.Snapshot,
		InForcePath:  report.Paths.InForce,
		DiffPath:     report.Paths.Diff,
		Digest:       digest,
		Added:        report.Counts.Added,
		Removed:      report.Counts.Removed,
		Changed:      report.Counts.Changed,
	}, snap.Instruments)
	return err
}

// Build runs the in-memory stages and returns the snapshot and its diff
// against previous. It writes nothing.
func (s *Syncer) Build(ctx context.Context, previous instrument.Snapshot) (*Result, error) {
	log := s.logger()
	now := s.now()
	runDate := now.UTC().Format(instrument.DateLayout)

	if s.Sources == nil {
		return nil, fatal(StageConfig, errNoSources)
	}

	reg, err := s.Discoverer.Discover(ctx, s.Sources.IndexPages)
	if err != nil {
		return nil, fatal(StageDiscovery, err)
	}
	log.Info("discovery complete", "pages", len(s.Sources.IndexPages), "instruments", reg.Len())

	instrument.Merge(reg, s.Sources.Instruments, s.DefaultTopic)

	res := &Result{}
	for _, seed := range s.Sources.Instruments {
		base, _ := reg.Get(seed.ID)
		enriched, err := s.Enricher.Enrich(ctx, *base, seed.Portal)
		if err != nil {
			res.EnrichFailed++
		} else if seed.Portal != "" {
			res.Enriched++
		}
		reg.Put(enriched)
	}
	log.Info("enrichment complete", "enriched", res.Enriched, "failed", res.EnrichFailed)

	res.Links = lifecycle.Infer(reg)
	lifecycle.Derive(reg, runDate)
	log.Info("relationships inferred", "amendments", res.Links.Amendments, "repeals", res.Links.Repeals)

	res.Snapshot = instrument.NewSnapshot(runDate, reg)
	res.Diff = snapdiff.Compute(previous.Instruments, res.Snapshot.Instruments, now)
	return res, nil
}
