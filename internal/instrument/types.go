package instrument

import "slices"

// Status is the lifecycle state of an instrument.
type Status string

const (
	StatusInForce  Status = "in_force"
	StatusAmended  Status = "amended"
	StatusRepealed Status = "repealed"
	StatusUnknown  Status = "unknown"
)

// Instrument is one law, decree or resolution tracked by the registry.
//
// Dates are ISO strings (YYYY-MM-DD). An empty string is the null value;
// persisted snapshots written with explicit nulls decode to the same thing.
type Instrument struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	SourceURL     string   `json:"sourceUrl,omitempty"`
	Topic         string   `json:"topic,omitempty"`
	Portal        string   `json:"uaePortal,omitempty"`
	Status        Status   `json:"status,omitempty"`
	EffectiveFrom string   `json:"effectiveFrom,omitempty"`
	EffectiveTo   string   `json:"effectiveTo,omitempty"`
	MetaHash      string   `json:"metaHash,omitempty"`
	AsAmendedBy   []string `json:"asAmendedBy"`
	RepealedBy    string   `json:"repealedBy,omitempty"`
}

// Clone returns a deep copy; AsAmendedBy is never shared between copies.
func (i Instrument) Clone() Instrument {
	out := i
	out.AsAmendedBy = slices.Clone(i.AsAmendedBy)
	if out.AsAmendedBy == nil {
		out.AsAmendedBy = []string{}
	}
	return out
}

// AddAmendment appends amenderID to AsAmendedBy.
// Returns false if the ID is already present or names the instrument itself.
func (i *Instrument) AddAmendment(amenderID string) bool {
	if amenderID == "" || amenderID == i.ID || slices.Contains(i.AsAmendedBy, amenderID) {
		return false
	}
	i.AsAmendedBy = append(i.AsAmendedBy, amenderID)
	return true
}

// SetRepealedBy records the repealing instrument. The first value wins:
// returns false and leaves the record untouched if RepealedBy is already set.
func (i *Instrument) SetRepealedBy(repealerID string) bool {
	if i.RepealedBy != "" || repealerID == "" || repealerID == i.ID {
		return false
	}
	i.RepealedBy = repealerID
	return true
}

// IsRepealed reports whether the instrument is no longer in force.
func (i Instrument) IsRepealed() bool {
	return i.Status == StatusRepealed
}

// Seed is a configured instrument descriptor that pins identity and the
// canonical secondary-source URL. An empty Portal means "not yet known".
type Seed struct {
	ID        string `yaml:"id" json:"id"`
	TitleHint string `yaml:"titleHint" json:"titleHint"`
	Topic     string `yaml:"topic" json:"topic"`
	MohreRef  string `yaml:"mohreRef" json:"mohreRef"`
	Portal    string `yaml:"uaePortal" json:"uaePortal"`
}
