// Package preset persists named visual configurations as flat JSON records
// and rebuilds typed base sets from them. Records store the authoritative
// base values only; effective values are derived at runtime and never
// written back.
package preset

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/coreman2200/funtimes-hypercube/internal/geometry"
	"github.com/coreman2200/funtimes-hypercube/internal/param"
	"github.com/coreman2200/funtimes-hypercube/internal/projection"
)

// Record is the stored form of one preset.
type Record struct {
	Name              string             `json:"name"`
	Geometry          string             `json:"geometry"`
	GeometrySub       geometry.SubParams `json:"geometrySubParams"`
	Projection        string             `json:"projection"`
	ProjectionSub     map[string]float64 `json:"projectionSubParams,omitempty"`
	Base              map[string]any     `json:"base"`
	TransitionSeconds float64            `json:"transitionSeconds,omitempty"`
}

// ErrInvalid wraps every validation failure so callers can branch on it.
var ErrInvalid = errors.New("invalid preset")

// FromState captures a record from live engine state.
func FromState(name string, geom string, gsub geometry.SubParams, proj projection.Kind, psub map[string]float64, base param.Set) Record {
	return Record{
		Name:          name,
		Geometry:      geom,
		GeometrySub:   gsub,
		Projection:    string(proj),
		ProjectionSub: psub,
		Base:          base.ToPlain(),
	}
}

// BaseSet rebuilds the typed base set from the flat record form.
func (r Record) BaseSet() (param.Set, error) {
	return param.FromPlain(r.Base)
}

// Validate checks the record against the live registries and schema before
// it is allowed anywhere near the engine.
func (r Record) Validate(schema param.Schema) error {
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("%w: empty name", ErrInvalid)
	}
	if !geometry.Known(r.Geometry) {
		return fmt.Errorf("%w: geometry %q not in %v", ErrInvalid, r.Geometry, geometry.Families())
	}
	if !projection.Known(r.Projection) {
		return fmt.Errorf("%w: projection %q not in %v", ErrInvalid, r.Projection, projection.Kinds())
	}
	p := projection.DefaultParams(projection.Kind(r.Projection))
	if err := p.ApplyOverrides(r.ProjectionSub); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	base, err := r.BaseSet()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if err := schema.Validate(base); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

// Encode renders the record as indented JSON.
func Encode(r Record) ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// Decode parses a record, rejecting unknown fields so typos in hand-edited
// files surface immediately.
func Decode(data []byte) (Record, error) {
	dec := json.NewDecoder(strings.NewReader(string(data)))
	dec.DisallowUnknownFields()
	var r Record
	if err := dec.Decode(&r); err != nil {
		return Record{}, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return r, nil
}

// Load reads and validates a preset file.
func Load(path string, schema param.Schema) (Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Record{}, err
	}
	r, err := Decode(data)
	if err != nil {
		return Record{}, fmt.Errorf("%s: %w", path, err)
	}
	if err := r.Validate(schema); err != nil {
		return Record{}, fmt.Errorf("%s: %w", path, err)
	}
	return r, nil
}

// Save validates and writes the record next to any siblings, creating the
// directory if needed.
func Save(path string, r Record, schema param.Schema) error {
	if err := r.Validate(schema); err != nil {
		return err
	}
	data, err := Encode(r)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

// LoadDir loads every *.json record under dir, sorted by name. Invalid
// files fail the whole load; a preset library with a broken entry is a
// configuration error, not something to paper over.
func LoadDir(dir string, schema param.Schema) ([]Record, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var out []Record
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		r, err := Load(filepath.Join(dir, e.Name()), schema)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
