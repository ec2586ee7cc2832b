package instrument

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeSeedWithoutDiscovery(t *testing.T) {
	reg := Merge(NewRegistry(), []Seed{{
		ID:        "fdl-33-2021",
		TitleHint: "Federal Decree-Law No. 33 of 2021",
		MohreRef:  "https://example.gov/laws",
	}}, "")

	it, ok := reg.Get("fdl-33-2021")
	require.True(t, ok)
	assert.Equal(t, "Federal Decree-Law No. 33 of 2021", it.Title)
	assert.Equal(t, "https://example.gov/laws", it.SourceURL)
	assert.Equal(t, DefaultTopic, it.Topic)
}

func TestMergeDiscoveredSuppliesTitleSeedSuppliesTopic(t *testing.T) {
	discovered := NewRegistry(Instrument{
		ID:        "fdl-9-2022",
		Title:     "Federal Decree-Law No. 9 of 2022 Regarding Domestic Workers",
		SourceURL: "https://example.gov/laws/9",
		Topic:     "labour",
	})

	reg := Merge(discovered, []Seed{{
		ID:        "fdl-9-2022",
		TitleHint: "Federal Decree-Law No. 9 of 2022",
		Topic:     "domestic-workers",
		MohreRef:  "https://example.gov/laws",
	}}, "")

	it, ok := reg.Get("fdl-9-2022")
	require.True(t, ok)
	assert.Equal(t, "Federal Decree-Law No. 9 of 2022 Regarding Domestic Workers", it.Title)
	assert.Equal(t, "https://example.gov/laws/9", it.SourceURL)
	assert.Equal(t, "domestic-workers", it.Topic)
}

func TestMergeKeepsDiscoveredTopicWhenSeedHasNone(t *testing.T) {
	discovered := NewRegistry(Instrument{ID: "x", Title: "X", Topic: "emiratisation"})

	reg := Merge(discovered, []Seed{{ID: "x"}}, "labour")

	it, _ := reg.Get("x")
	assert.Equal(t, "emiratisation", it.Topic)
}

func TestMergePreservesUnseededDiscoveries(t *testing.T) {
	discovered := NewRegistry(
		Instrument{ID: "unseeded", Title: "Ministerial Resolution No. 5"},
		Instrument{ID: "seeded", Title: "Seeded"},
	)

	reg := Merge(discovered, []Seed{{ID: "seeded", Topic: "labour"}, {ID: "new", TitleHint: "New"}}, "")

	list := reg.List()
	require.Len(t, list, 3)
	assert.Equal(t, []string{"unseeded", "seeded", "new"}, []string{list[0].ID, list[1].ID, list[2].ID})
	assert.Empty(t, list[0].Topic)
}
