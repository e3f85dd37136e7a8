package hal

import (
	_ "embed"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/hyalite/mediacopy/internal/model"
)

//go:embed tables.yaml
var tablesYAML []byte

// Generation holds the format-support tables for one hardware generation.
// Tables are read-only after load; lookups are safe for concurrent use.
type Generation struct {
	name   string
	vebox  map[model.Format]bool
	render map[model.Format]bool
}

// Name returns the generation identifier, e.g. "xe-lp".
func (g *Generation) Name() string { return g.name }

// VeboxFormatSupported reports whether the fixed-function path can copy
// between the given formats. Both ends must be in the vebox table.
func (g *Generation) VeboxFormatSupported(src, dst model.Format) bool {
	return g.vebox[src] && g.vebox[dst]
}

// RenderFormatSupported reports whether the compute path can copy between the
// given formats. Both ends must be in the render table.
func (g *Generation) RenderFormatSupported(src, dst model.Format) bool {
	return g.render[src] && g.render[dst]
}

// tablesFile mirrors the embedded YAML document.
type tablesFile struct {
	Generations map[string]struct {
		Vebox  []model.Format `yaml:"vebox"`
		Render []model.Format `yaml:"render"`
	} `yaml:"generations"`
}

// LoadGenerations parses the embedded capability tables.
func LoadGenerations() (map[string]*Generation, error) {
	var f tablesFile
	if err := yaml.Unmarshal(tablesYAML, &f); err != nil {
		return nil, fmt.Errorf("parse generation tables: %w", err)
	}
	if len(f.Generations) == 0 {
		return nil, fmt.Errorf("generation tables are empty")
	}

	gens := make(map[string]*Generation, len(f.Generations))
	for name, t := range f.Generations {
		g := &Generation{
			name:   name,
			vebox:  make(map[model.Format]bool, len(t.Vebox)),
			render: make(map[model.Format]bool, len(t.Render)),
		}
		for _, fmtName := range t.Vebox {
			g.vebox[fmtName] = true
		}
		for _, fmtName := range t.Render {
			g.render[fmtName] = true
		}
		gens[name] = g
	}
	return gens, nil
}

// LookupGeneration loads the tables and returns the named generation, listing
// the known names in the error when the lookup misses.
func LookupGeneration(name string) (*Generation, error) {
	gens, err := LoadGenerations()
	if err != nil {
		return nil, err
	}
	g, ok := gens[name]
	if !ok {
		known := make([]string, 0, len(gens))
		for n := range gens {
			known = append(known, n)
		}
		sort.Strings(known)
		return nil, fmt.Errorf("unknown generation %q (known: %v)", name, known)
	}
	return g, nil
}
