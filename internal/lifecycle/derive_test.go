package lifecycle

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"

	"github.com/roach88/lexsync/internal/instrument"
)

func TestDeriveOnePrecedence(t *testing.T) {
	tests := []struct {
		name   string
		in     instrument.Instrument
		status instrument.Status
		to     string
	}{
		{
			name:   "repeal overrides enrichment and amendment",
			in:     instrument.Instrument{Status: instrument.StatusInForce, AsAmendedBy: []string{"x"}, RepealedBy: "y"},
			status: instrument.StatusRepealed,
			to:     "2024-01-01",
		},
		{
			name:   "amendment overrides in force",
			in:     instrument.Instrument{Status: instrument.StatusInForce, AsAmendedBy: []string{"x"}},
			status: instrument.StatusAmended,
		},
		{
			name:   "amendment keeps an enrichment repeal",
			in:     instrument.Instrument{Status: instrument.StatusRepealed, AsAmendedBy: []string{"x"}},
			status: instrument.StatusRepealed,
		},
		{
			name:   "enrichment status kept",
			in:     instrument.Instrument{Status: instrument.StatusUnknown},
			status: instrument.StatusUnknown,
		},
		{
			name:   "default in force",
			in:     instrument.Instrument{},
			status: instrument.StatusInForce,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			it := tt.in
			DeriveOne(&it, "2024-01-01")
			assert.Equal(t, tt.status, it.Status)
			assert.Equal(t, tt.to, it.EffectiveTo)
		})
	}
}

func TestDeriveRepealedAlwaysClosed(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	statuses := gen.OneConstOf(
		instrument.Status(""),
		instrument.StatusInForce,
		instrument.StatusAmended,
		instrument.StatusRepealed,
		instrument.StatusUnknown,
	)

	properties.Property("repealedBy implies repealed status and an effectiveTo", prop.ForAll(
		func(status instrument.Status, amenders []string, repealer string) bool {
			it := instrument.Instrument{ID: "subject", Status: status, AsAmendedBy: amenders, RepealedBy: repealer}
			DeriveOne(&it, "2024-01-01")
			if repealer == "" {
				return it.EffectiveTo == "" && it.Status != ""
			}
			return it.Status == instrument.StatusRepealed && it.EffectiveTo == "2024-01-01"
		},
		statuses,
		gen.SliceOf(gen.Identifier()),
		gen.OneConstOf("", "repealer"),
	))

	properties.TestingRun(t)
}
