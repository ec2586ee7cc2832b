package sources

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/lexsync/internal/instrument"
)

func TestDefault(t *testing.T) {
	s, err := Default()
	require.NoError(t, err)

	assert.Len(t, s.IndexPages, 2)
	require.Len(t, s.Instruments, 4)

	domestic := s.Instruments[3]
	assert.Equal(t, "fdl-9-2022", domestic.ID)
	assert.Equal(t, "domestic-workers", domestic.Topic)

	pending := s.Instruments[2]
	assert.Equal(t, "fdl-20-2023", pending.ID)
	assert.Empty(t, pending.Portal)
}

func TestLoadEmptyPathUsesDefault(t *testing.T) {
	s, err := Load("")
	require.NoError(t, err)
	assert.Len(t, s.Instruments, 4)
}

func TestLoadYAML(t *testing.T) {
	s, err := Load(filepath.Join("testdata", "sources.yaml"))
	require.NoError(t, err)

	assert.Equal(t, []string{"https://www.example.gov/en/laws.aspx"}, s.IndexPages)
	require.Len(t, s.Instruments, 1)
	assert.Equal(t, "https://legislation.example/Details/1541", s.Instruments[0].Portal)
}

func TestLoadCUE(t *testing.T) {
	s, err := Load(filepath.Join("testdata", "sources.cue"))
	require.NoError(t, err)

	assert.Equal(t, []string{"https://www.example.gov/en/laws.aspx"}, s.IndexPages)
	require.Len(t, s.Instruments, 2)
	assert.Equal(t, "https://www.example.gov/en/laws.aspx", s.Instruments[1].MohreRef)
	assert.Empty(t, s.Instruments[1].Portal)
}

func TestLoadRejectsNonConcreteCUE(t *testing.T) {
	path := filepath.Join(t.TempDir(), "open.cue")
	require.NoError(t, os.WriteFile(path, []byte(`indexPages: [...string]
instruments: [{id: string}]
`), 0644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse sources cue")
}

func TestLoadUnsupportedExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sources.toml")
	require.NoError(t, os.WriteFile(path, []byte(""), 0644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported file type")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestParseYAMLUnknownField(t *testing.T) {
	_, err := ParseYAML([]byte("indexPages: []\nseeds: []\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse sources yaml")
}

func TestValidate(t *testing.T) {
	s := &Sources{
		IndexPages: []string{"https://ok.example/", "relative/page"},
		Instruments: []instrument.Seed{
			{ID: "a"},
			{ID: ""},
			{ID: "a"},
		},
	}

	err := s.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `indexPages[1]: "relative/page" is not an absolute URL`)
	assert.Contains(t, err.Error(), "instruments[1]: id is required")
	assert.Contains(t, err.Error(), `instruments[2]: duplicate id "a"`)
}
