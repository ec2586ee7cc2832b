package instrument

// DateLayout is the ISO date form used for run dates and file names.
const DateLayout = "2006-01-02"

// Snapshot is a dated, full capture of the registry. Once built it is
// never mutated; Instruments are copies detached from any Registry.
type Snapshot struct {
	Date        string
	Instruments []Instrument
}

// NewSnapshot captures reg as of date.
func NewSnapshot(date string, reg *Registry) Snapshot {
	return Snapshot{Date: date, Instruments: reg.List()}
}

// InForce returns the instruments whose status is not repealed.
func (s Snapshot) InForce() []Instrument {
	out := make([]Instrument, 0, len(s.Instruments))
	for _, it := range s.Instruments {
		if !it.IsRepealed() {
			out = append(out, it.Clone())
		}
	}
	return out
}

// IsZero reports whether the snapshot holds no capture (no previous run).
func (s Snapshot) IsZero() bool {
	return s.Date == "" && len(s.Instruments) == 0
}
