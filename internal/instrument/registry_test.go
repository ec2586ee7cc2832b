package instrument

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryKeepsFirstPositionOnReplace(t *testing.T) {
	reg := NewRegistry(
		Instrument{ID: "a", Title: "first a"},
		Instrument{ID: "b", Title: "b"},
		Instrument{ID: "a", Title: "second a"},
	)

	require.Equal(t, 2, reg.Len())
	list := reg.List()
	assert.Equal(t, "a", list[0].ID)
	assert.Equal(t, "second a", list[0].Title)
	assert.Equal(t, "b", list[1].ID)
}

func TestRegistryListIsDetached(t *testing.T) {
	reg := NewRegistry(Instrument{ID: "a"})
	list := reg.List()
	list[0].AsAmendedBy = append(list[0].AsAmendedBy, "x")

	live, ok := reg.Get("a")
	require.True(t, ok)
	assert.Empty(t, live.AsAmendedBy)
	assert.NotNil(t, live.AsAmendedBy)
}

func TestAddAmendment(t *testing.T) {
	it := Instrument{ID: "target"}

	assert.True(t, it.AddAmendment("a"))
	assert.False(t, it.AddAmendment("a"), "duplicates are rejected")
	assert.False(t, it.AddAmendment("target"), "self amendment is rejected")
	assert.True(t, it.AddAmendment("b"))
	assert.Equal(t, []string{"a", "b"}, it.AsAmendedBy)
}

func TestSetRepealedByFirstWins(t *testing.T) {
	it := Instrument{ID: "old"}

	assert.True(t, it.SetRepealedBy("new"))
	assert.False(t, it.SetRepealedBy("newer"))
	assert.Equal(t, "new", it.RepealedBy)
}

func TestSnapshotInForce(t *testing.T) {
	snap := NewSnapshot("2024-01-01", NewRegistry(
		Instrument{ID: "a", Status: StatusInForce},
		Instrument{ID: "b", Status: StatusRepealed},
		Instrument{ID: "c", Status: StatusAmended},
	))

	var ids []string
	for _, it := range snap.InForce() {
		ids = append(ids, it.ID)
	}
	assert.Equal(t, []string{"a", "c"}, ids)
	assert.False(t, snap.IsZero())
	assert.True(t, Snapshot{}.IsZero())
}
