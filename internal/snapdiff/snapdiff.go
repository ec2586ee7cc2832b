// Package snapdiff compares two registry snapshots by instrument ID.
package snapdiff

import (
	"time"

	"github.com/roach88/lexsync/internal/instrument"
)

// Tracked fields, in report order.
const (
	FieldTitle         = "title"
	FieldStatus        = "status"
	FieldEffectiveFrom = "effectiveFrom"
	FieldEffectiveTo   = "effectiveTo"
	FieldRepealedBy    = "repealedBy"
)

// TrackedFields lists the fields compared for instruments in both snapshots.
var TrackedFields = []string{FieldTitle, FieldStatus, FieldEffectiveFrom, FieldEffectiveTo, FieldRepealedBy}

// Change is one field's before and after value. Nil is the null value.
type Change struct {
	From *string `json:"from"`
	To   *string `json:"to"`
}

// Changed lists the differing tracked fields of one instrument.
type Changed struct {
	ID      string            `json:"id"`
	Changes map[string]Change `json:"changes"`
}

// Diff is the write-once comparison artifact.
type Diff struct {
	GeneratedAt time.Time               `json:"generatedAt"`
	Added       []instrument.Instrument `json:"added"`
	Removed     []instrument.Instrument `json:"removed"`
	Changed     []Changed               `json:"changed"`
}

// Counts summarises a diff.
type Counts struct {
	Added   int `json:"added"`
	Removed int `json:"removed"`
	Changed int `json:"changed"`
}

// Counts returns the number of added, removed and changed instruments.
func (d Diff) Counts() Counts {
	return Counts{Added: len(d.Added), Removed: len(d.Removed), Changed: len(d.Changed)}
}

// Empty reports whether the snapshots were equivalent.
func (d Diff) Empty() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0 && len(d.Changed) == 0
}

// Compute diffs previous against current.
//
// Added and Changed follow current's order; Removed follows previous's.
// Empty strings and nulls compare equal.
func Compute(previous, current []instrument.Instrument, generatedAt time.Time) Diff {
	prevByID := keyBy(previous)
	currByID := keyBy(current)

	d := Diff{
		GeneratedAt: generatedAt.UTC(),
		Added:       []instrument.Instrument{},
		Removed:     []instrument.Instrument{},
		Changed:     []Changed{},
	}

	for _, c := range dedupe(current) {
		p, ok := prevByID[c.ID]
		if !ok {
			d.Added = append(d.Added, c.Clone())
			continue
		}
		if changes := compare(p, c); len(changes) > 0 {
			d.Changed = append(d.Changed, Changed{ID: c.ID, Changes: changes})
		}
	}
	for _, p := range dedupe(previous) {
		if _, ok := currByID[p.ID]; !ok {
			d.Removed = append(d.Removed, p.Clone())
		}
	}
	return d
}

func compare(p, c instrument.Instrument) map[string]Change {
	pv, cv := fields(p), fields(c)
	changes := map[string]Change{}
	for _, f := range TrackedFields {
		if pv[f] != cv[f] {
			changes[f] = Change{From: nullable(pv[f]), To: nullable(cv[f])}
		}
	}
	return changes
}

func fields(it instrument.Instrument) map[string]string {
	return map[string]string{
		FieldTitle:         it.Title,
		FieldStatus:        string(it.Status),
		FieldEffectiveFrom: it.EffectiveFrom,
		FieldEffectiveTo:   it.EffectiveTo,
		FieldRepealedBy:    it.RepealedBy,
	}
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// keyBy maps instruments by ID; the last duplicate wins.
func keyBy(items []instrument.Instrument) map[string]instrument.Instrument {
	m := make(map[string]instrument.Instrument, len(items))
	for _, it := range items {
		m[it.ID] = it
	}
	return m
}

// dedupe keeps the first position and last value of each ID, matching keyBy.
func dedupe(items []instrument.Instrument) []instrument.Instrument {
	return instrument.NewRegistry(items...).List()
}
