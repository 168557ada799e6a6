package geometry

import (
	"errors"
	"fmt"
	"sort"
)

// MaxVertices bounds the vertex count of any generated mesh so GPU buffer
// size stays sane under deep recursive sub-parameters.
const MaxVertices = 65536

// ErrUnknownFamily flags a geometry name outside the fixed registry.
// Callers are expected to validate against Families() first; generation
// never silently substitutes a default.
var ErrUnknownFamily = errors.New("unknown geometry family")

// Generator is a deterministic, pure mesh generation rule.
type Generator func(SubParams) Mesh

// The family set is closed: a fixed enumeration rather than open-ended
// dynamic registration, so the whole set is exhaustively testable.
var families = map[string]Generator{
	"hypercube":   generateHypercube,
	"hypersphere": generateHypersphere,
	"hypertetra":  generateHypertetra,
	"torus":       generateTorus,
	"kleinbottle": generateKleinBottle,
	"fractal":     generateFractal,
	"wave":        generateWave,
	"crystal":     generateCrystal,
}

// Families lists the valid family names, sorted.
func Families() []string {
	out := make([]string, 0, len(families))
	for name := range families {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Known reports whether name is a valid family.
func Known(name string) bool {
	_, ok := families[name]
	return ok
}

// Generate produces the 4D mesh for the named family. Unknown names fail
// fast. Vertex counts are capped at MaxVertices (trimmed to a whole number
// of primitives for line and triangle topologies).
func Generate(name string, sub SubParams) (Mesh, error) {
	gen, ok := families[name]
	if !ok {
		return Mesh{}, fmt.Errorf("geometry %q: %w", name, ErrUnknownFamily)
	}
	m := gen(sub.sanitized())
	capMesh(&m)
	return m, nil
}

func capMesh(m *Mesh) {
	limit := MaxVertices
	switch m.Topology {
	case Lines:
		limit -= limit % 2
	case Triangles:
		limit -= limit % 3
	}
	if len(m.Vertices) > limit {
		m.Vertices = m.Vertices[:limit]
	}
	if len(m.Normals) > len(m.Vertices) {
		m.Normals = m.Normals[:len(m.Vertices)]
	}
	if len(m.UVs) > len(m.Vertices) {
		m.UVs = m.UVs[:len(m.Vertices)]
	}
}
