package lifecycle

import (
	"github.com/roach88/lexsync/internal/instrument"
)

// Derive sets each instrument's final status. runDate becomes the
// effectiveTo of every repealed instrument.
func Derive(reg *instrument.Registry, runDate string) {
	reg.Each(func(it *instrument.Instrument) {
		DeriveOne(it, runDate)
	})
}

// DeriveOne applies the status precedence to a single instrument.
func DeriveOne(it *instrument.Instrument, runDate string) {
	switch {
	case it.RepealedBy != "":
		it.EffectiveTo = runDate
		it.Status = instrument.StatusRepealed
	case len(it.AsAmendedBy) > 0:
		if it.Status != instrument.StatusRepealed {
			it.Status = instrument.StatusAmended
		}
	case it.Status == "":
		it.Status = instrument.StatusInForce
	}
}
