package lifecycle

import (
	"github.com/roach88/lexsync/internal/instrument"
)

// Links counts the relationships written by one Infer call.
type Links struct {
	Amendments int `json:"amendments"`
	Repeals    int `json:"repeals"`
}

// Infer links amending instruments to their targets and repealing
// instruments to their predecessors. Amendment linking completes before
// repeal linking starts.
func Infer(reg *instrument.Registry) Links {
	return Links{
		Amendments: linkAmendments(reg),
		Repeals:    linkRepeals(reg),
	}
}

func linkAmendments(reg *instrument.Registry) int {
	n := 0
	reg.Each(func(amender *instrument.Instrument) {
		for _, ref := range AmendmentTargets(amender.Title) {
			target, ok := AmendmentTarget(reg, amender, ref)
			if ok && target.AddAmendment(amender.ID) {
				n++
			}
		}
	})
	return n
}

// AmendmentTarget resolves ref to the instrument it designates. An
// instrument named by ref wins over one whose title merely mentions it;
// otherwise the first in registry order wins. The amender never targets
// itself.
func AmendmentTarget(reg *instrument.Registry, amender *instrument.Instrument, ref Designation) (*instrument.Instrument, bool) {
	designates := func(x *instrument.Instrument) bool {
		if x.ID == amender.ID {
			return false
		}
		d, ok := Primary(x.Title)
		return ok && d == ref
	}
	if target, ok := reg.Find(func(x *instrument.Instrument) bool {
		return designates(x) && NamedBy(x.Title)
	}); ok {
		return target, true
	}
	return reg.Find(designates)
}

func linkRepeals(reg *instrument.Registry) int {
	n := 0
	reg.Each(func(repealer *instrument.Instrument) {
		if !IsRepealing(repealer.Title) {
			return
		}
		cand := RepealCandidate(reg, repealer)
		if cand != nil && cand.SetRepealedBy(repealer.ID) {
			n++
		}
	})
	return n
}

// RepealCandidate picks the instrument repealer most likely replaces: same
// topic, an effective date strictly before the repealer's, and the latest
// such date. Dates compare as strings. Ties go to the first in registry
// order. Returns nil when the repealer has no effective date.
func RepealCandidate(reg *instrument.Registry, repealer *instrument.Instrument) *instrument.Instrument {
	if repealer.EffectiveFrom == "" {
		return nil
	}
	var best *instrument.Instrument
	reg.Each(func(x *instrument.Instrument) {
		if x.Topic != repealer.Topic || x.EffectiveFrom == "" || x.EffectiveFrom >= repealer.EffectiveFrom {
			return
		}
		if best == nil || x.EffectiveFrom > best.EffectiveFrom {
			best = x
		}
	})
	return best
}
