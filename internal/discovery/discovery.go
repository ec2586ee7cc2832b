// Package discovery turns configured index pages into candidate
// instruments: fetch each page, extract anchors, keep the ones whose label
// looks like a legal instrument, and derive identities from the labels.
package discovery

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"regexp"

	"github.com/roach88/lexsync/internal/fetch"
	"github.com/roach88/lexsync/internal/instrument"
)

// instrumentLabel selects anchors that name an instrument.
var instrumentLabel = regexp.MustCompile(`(?i)decree|law|resolution|regulation|domestic|emiratisation`)

// Discoverer scans index pages.
type Discoverer struct {
	Fetcher   fetch.Fetcher
	Extractor LinkExtractor
	Logger    *slog.Logger
}

// New creates a Discoverer using the HTML extractor.
func New(f fetch.Fetcher, logger *slog.Logger) *Discoverer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Discoverer{Fetcher: f, Extractor: HTMLExtractor{}, Logger: logger}
}

// Discover fetches every index page in order and returns the discovered
// instruments as a registry. Any fetch failure aborts discovery.
func (d *Discoverer) Discover(ctx context.Context, indexPages []string) (*instrument.Registry, error) {
	reg := instrument.NewRegistry()
	for _, page := range indexPages {
		items, err := d.Page(ctx, page)
		if err != nil {
			return nil, err
		}
		for _, it := range items {
			reg.Put(it)
		}
		d.Logger.Debug("index page scanned", "url", page, "instruments", len(items))
	}
	return reg, nil
}

// Page discovers the instruments listed on a single index page,
// de-duplicated by ID (last occurrence wins).
func (d *Discoverer) Page(ctx context.Context, pageURL string) ([]instrument.Instrument, error) {
	body, err := d.Fetcher.Fetch(ctx, pageURL)
	if err != nil {
		return nil, fmt.Errorf("discover %s: %w", pageURL, err)
	}

	reg := instrument.NewRegistry()
	for _, link := range d.Extractor.ExtractLinks(body) {
		if !instrumentLabel.MatchString(link.Label) {
			continue
		}
		title := instrument.CleanTitle(link.Label)
		if title == "" {
			continue
		}
		reg.Put(instrument.Instrument{
			ID:        instrument.LabelID(link.Label),
			Title:     title,
			SourceURL: absolute(pageURL, link.Href),
		})
	}
	return reg.List(), nil
}

// absolute resolves href against base; unparseable input is returned as is.
func absolute(base, href string) string {
	b, err := url.Parse(base)
	if err != nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return b.ResolveReference(ref).String()
}
