package enrich

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/lexsync/internal/instrument"
	"github.com/roach88/lexsync/internal/testutil"
)

const portalURL = "https://legislation.example/En/Legislation/Details/1541"

const inForcePage = `<div class="meta">
<span>Status: In Force</span></div>
<div><span>Effective Date: 2 February 2022</span></div>`

func TestEnrichEmptyURLIsNoop(t *testing.T) {
	f := testutil.NewScriptedFetcher(nil)
	in := instrument.Instrument{ID: "fdl-20-2023", Title: "Federal Decree-Law No. 20 of 2023", Topic: "labour"}

	out, err := New(f, nil).Enrich(context.Background(), in, "")
	require.NoError(t, err)
	assert.Equal(t, in.Clone(), out)
	assert.Empty(t, f.Calls())
}

func TestEnrichInForce(t *testing.T) {
	f := testutil.NewScriptedFetcher(map[string]string{portalURL: inForcePage})
	in := instrument.Instrument{ID: "fdl-33-2021"}

	out, err := New(f, nil).Enrich(context.Background(), in, portalURL)
	require.NoError(t, err)
	assert.Equal(t, portalURL, out.Portal)
	assert.Equal(t, instrument.StatusInForce, out.Status)
	assert.Equal(t, "2022-02-02", out.EffectiveFrom)
	assert.Equal(t, MetaHash(inForcePage), out.MetaHash)
	assert.Len(t, out.MetaHash, MetaHashLength)
	assert.Empty(t, in.Portal, "input is not mutated")
}

func TestEnrichFailureDegrades(t *testing.T) {
	tests := []struct {
		name       string
		prior      instrument.Status
		wantStatus instrument.Status
	}{
		{"no prior status", "", instrument.StatusUnknown},
		{"prior status kept", instrument.StatusAmended, instrument.StatusAmended},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := testutil.NewScriptedFetcher(nil)
			f.Fail(portalURL, errors.New("connection reset"))
			in := instrument.Instrument{ID: "cab-res-1-2022", Status: tt.prior}

			out, err := New(f, nil).Enrich(context.Background(), in, portalURL)
			require.Error(t, err)
			assert.True(t, IsEnrichmentError(err))
			assert.Contains(t, err.Error(), "connection reset")
			assert.Equal(t, portalURL, out.Portal)
			assert.Equal(t, tt.wantStatus, out.Status)
			assert.Empty(t, out.MetaHash)
		})
	}
}

func TestParsePageStatusPrecedence(t *testing.T) {
	tests := []struct {
		name string
		page string
		want instrument.Status
	}{
		{
			name: "repeal cue anywhere wins",
			page: `<span>Status</span><b>In Force</b><p>This law was Replaced by Decree 20</p>`,
			want: instrument.StatusRepealed,
		},
		{
			name: "active in status region",
			page: `<span>Status: Active</span><p>amended twice</p>`,
			want: instrument.StatusInForce,
		},
		{
			name: "in force outside status region is ignored",
			page: `<span>Status</span><p>in force</p><p>Amended by Resolution 1</p>`,
			want: instrument.StatusAmended,
		},
		{
			name: "no cues",
			page: `<p>Federal Decree-Law</p>`,
			want: instrument.StatusUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParsePage(tt.page).Status)
		})
	}
}

func TestTextBetween(t *testing.T) {
	assert.Equal(t, ": Active", textBetween("<i>Status: Active</i>", "Status", "</"))
	assert.Equal(t, "", textBetween("no marker", "Status", "</"))
	assert.Equal(t, "", textBetween("Status without end", "Status", "</"))
}
