// Package enrich augments an instrument with status, effective date and a
// page fingerprint read from its secondary authoritative profile page.
//
// Enrichment never fails the pipeline: a fetch or parse failure returns the
// instrument with its portal URL recorded and its prior status kept,
// together with an *EnrichmentError the caller logs.
package enrich

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/roach88/lexsync/internal/fetch"
	"github.com/roach88/lexsync/internal/instrument"
)

// MetaHashLength is the number of hex characters kept from the page digest.
const MetaHashLength = 12

var (
	repealCue  = regexp.MustCompile(`(?i)repeal|repealed|replaced`)
	inForceCue = regexp.MustCompile(`(?i)in\s*force|active`)
	amendCue   = regexp.MustCompile(`(?i)amend|amended`)
)

// EnrichmentError records a per-instrument enrichment failure.
type EnrichmentError struct {
	InstrumentID string
	URL          string
	Err          error
}

func (e *EnrichmentError) Error() string {
	return fmt.Sprintf("enrich %s from %s: %v", e.InstrumentID, e.URL, e.Err)
}

func (e *EnrichmentError) Unwrap() error {
	return e.Err
}

// IsEnrichmentError returns true if err is or wraps an *EnrichmentError.
func IsEnrichmentError(err error) bool {
	var ee *EnrichmentError
	return errors.As(err, &ee)
}

// Enricher reads profile pages through a Fetcher.
type Enricher struct {
	Fetcher fetch.Fetcher
	Logger  *slog.Logger
}

// New creates an Enricher.
func New(f fetch.Fetcher, logger *slog.Logger) *Enricher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Enricher{Fetcher: f, Logger: logger}
}

// Enrich returns a copy of it augmented from the page at url.
//
// An empty url returns it unchanged with a nil error. On failure the
// returned instrument is still usable and the error is an *EnrichmentError.
func (e *Enricher) Enrich(ctx context.Context, it instrument.Instrument, url string) (instrument.Instrument, error) {
	out := it.Clone()
	if url == "" {
		return out, nil
	}

	out.Portal = url
	page, err := e.Fetcher.Fetch(ctx, url)
	if err != nil {
		if out.Status == "" {
			out.Status = instrument.StatusUnknown
		}
		ee := &EnrichmentError{InstrumentID: it.ID, URL: url, Err: err}
		e.Logger.Warn("enrichment failed", "instrument", it.ID, "url", url, "error", err)
		return out, ee
	}

	p := ParsePage(page)
	out.Status = p.Status
	out.EffectiveFrom = p.EffectiveFrom
	out.MetaHash = p.MetaHash
	e.Logger.Debug("instrument enriched",
		"instrument", it.ID, "status", p.Status, "effective_from", p.EffectiveFrom)
	return out, nil
}

// Profile is what a portal page says about an instrument.
type Profile struct {
	Status        instrument.Status
	EffectiveFrom string
	MetaHash      string
}

// ParsePage derives a Profile from the raw page text.
//
// Status precedence: a repeal cue anywhere on the page, then an in-force
// cue inside the Status region, then an amendment cue anywhere, else unknown.
func ParsePage(page string) Profile {
	statusRegion := textBetween(page, "Status", "</")
	effectiveRegion := textBetween(page, "Effective Date", "</")

	status := instrument.StatusUnknown
	switch {
	case repealCue.MatchString(page):
		status = instrument.StatusRepealed
	case inForceCue.MatchString(statusRegion):
		status = instrument.StatusInForce
	case amendCue.MatchString(page):
		status = instrument.StatusAmended
	}

	return Profile{
		Status:        status,
		EffectiveFrom: EffectiveDate(effectiveRegion),
		MetaHash:      MetaHash(page),
	}
}

// MetaHash fingerprints page text for change detection across runs.
func MetaHash(page string) string {
	sum := sha1.Sum([]byte(page))
	return hex.EncodeToString(sum[:])[:MetaHashLength]
}

// textBetween returns the text after the first start marker up to the next
// end marker, or "" if either is missing.
func textBetween(s, start, end string) string {
	_, after, ok := strings.Cut(s, start)
	if !ok {
		return ""
	}
	region, _, ok := strings.Cut(after, end)
	if !ok {
		return ""
	}
	return region
}
