// Package sources loads the sync configuration: the index pages to
// discover from and the seed instruments that pin identities and portal
// URLs. Files may be YAML or CUE; with no file the embedded defaults apply.
package sources

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"

	"github.com/roach88/lexsync/internal/instrument"
)

//go:embed default.yaml
var defaultYAML []byte

// Sources is the configuration for one sync run.
type Sources struct {
	IndexPages  []string          `yaml:"indexPages" json:"indexPages"`
	Instruments []instrument.Seed `yaml:"instruments" json:"instruments"`
}

// Default returns the embedded configuration.
func Default() (*Sources, error) {
	return ParseYAML(defaultYAML)
}

// Load reads path, choosing the decoder by extension (.cue, .yaml, .yml).
// An empty path returns Default().
func Load(path string) (*Sources, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read sources: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".cue":
		return ParseCUE(path, data)
	case ".yaml", ".yml":
		return ParseYAML(data)
	default:
		return nil, fmt.Errorf("read sources: unsupported file type %q", filepath.Ext(path))
	}
}

// ParseYAML decodes and validates YAML sources. Unknown keys are rejected.
func ParseYAML(data []byte) (*Sources, error) {
	var s Sources
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("parse sources yaml: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// ParseCUE evaluates CUE sources. The file must be concrete.
func ParseCUE(filename string, data []byte) (*Sources, error) {
	ctx := cuecontext.New()
	v := ctx.CompileBytes(data, cue.Filename(filename))
	if err := v.Err(); err != nil {
		return nil, fmt.Errorf("parse sources cue: %w", err)
	}
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return nil, fmt.Errorf("parse sources cue: %w", err)
	}

	var s Sources
	if err := v.Decode(&s); err != nil {
		return nil, fmt.Errorf("decode sources cue: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks index pages are absolute URLs and seed IDs are present
// and unique. All problems are reported together.
func (s *Sources) Validate() error {
	var errs []error
	for i, page := range s.IndexPages {
		u, err := url.Parse(page)
		if err != nil || !u.IsAbs() {
			errs = append(errs, fmt.Errorf("indexPages[%d]: %q is not an absolute URL", i, page))
		}
	}

	seen := make(map[string]bool, len(s.Instruments))
	for i, seed := range s.Instruments {
		switch {
		case seed.ID == "":
			errs = append(errs, fmt.Errorf("instruments[%d]: id is required", i))
		case seen[seed.ID]:
			errs = append(errs, fmt.Errorf("instruments[%d]: duplicate id %q", i, seed.ID))
		}
		seen[seed.ID] = true
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid sources: %w", errors.Join(errs...))
	}
	return nil
}
