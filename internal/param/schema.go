package param

import (
	"fmt"
	"strings"
)

// UniformPrefix marks keys that are forwarded to the GPU. Everything else in
// a set is host-side metadata and is skipped during uniform dispatch.
const UniformPrefix = "u_"

// IsUniformKey reports whether a key follows the reserved GPU naming
// convention.
func IsUniformKey(key string) bool { return strings.HasPrefix(key, UniformPrefix) }

// Spec describes one key: its kind, optional scalar range, and default.
type Spec struct {
	Kind     Kind
	Min, Max float64
	HasRange bool
	Default  Value
}

// Schema maps keys to their specs. It is the single source of truth for
// which keys exist, their kinds, and valid ranges, so interpolation and
// uniform dispatch stay exhaustive.
type Schema map[string]Spec

func scalarSpec(def, lo, hi float64) Spec {
	return Spec{Kind: KindScalar, Min: lo, Max: hi, HasRange: true, Default: Scalar(def)}
}

// DefaultSchema returns the engine's reserved keys.
func DefaultSchema() Schema {
	return Schema{
		"u_time":             {Kind: KindScalar, Default: Scalar(0)},
		"u_resolution":       {Kind: KindVec2, Default: Vec2(1, 1)},
		"u_dimension":        scalarSpec(4.0, 3.0, 4.0),
		"u_morphFactor":      scalarSpec(0.0, 0.0, 1.0),
		"u_rotationSpeed":    scalarSpec(0.5, 0.0, 3.0),
		"u_gridDensity":      scalarSpec(8.0, 1.0, 64.0),
		"u_lineThickness":    scalarSpec(0.03, 0.002, 0.1),
		"u_patternIntensity": scalarSpec(1.0, 0.0, 3.0),
		"u_universeModifier": scalarSpec(1.0, 0.3, 2.5),
		"u_colorShift":       scalarSpec(0.0, -1.0, 1.0),
		"u_glitchIntensity":  scalarSpec(0.0, 0.0, 0.2),
		"u_audioBass":        scalarSpec(0.0, 0.0, 1.0),
		"u_audioMid":         scalarSpec(0.0, 0.0, 1.0),
		"u_audioHigh":        scalarSpec(0.0, 0.0, 1.0),
		"u_baseColor":        {Kind: KindVec3, Default: Vec3(1, 0, 1)},
		"u_wireframe":        {Kind: KindBool, Default: Bool(false)},
		"geometry":           {Kind: KindEnum, Default: Enum("hypercube")},
		"projection":         {Kind: KindEnum, Default: Enum("perspective")},
	}
}

// Defaults materializes a base set holding every schema default.
func (s Schema) Defaults() Set {
	out := make(Set, len(s))
	for k, spec := range s {
		out[k] = spec.Default.Clone()
	}
	return out
}

// Validate checks every entry of set against the schema. Unknown keys and
// kind mismatches are configuration errors.
func (s Schema) Validate(set Set) error {
	for _, k := range set.Keys() {
		spec, ok := s[k]
		if !ok {
			return fmt.Errorf("param %q: %w", k, ErrUnknownKey)
		}
		v := set[k]
		if v.Kind != spec.Kind {
			return fmt.Errorf("param %q: kind %s, schema wants %s", k, v.Kind, spec.Kind)
		}
		if n := vecLen(spec.Kind); n > 0 && len(v.Vec) != n {
			return fmt.Errorf("param %q: vector length %d, schema wants %d", k, len(v.Vec), n)
		}
	}
	return nil
}

// Clamp returns v forced into the schema range for key. Keys without a
// declared range pass through unchanged.
func (s Schema) Clamp(key string, v Value) Value {
	spec, ok := s[key]
	if !ok || v.Kind != KindScalar || !spec.HasRange {
		return v
	}
	return Scalar(clampf(v.Num, spec.Min, spec.Max))
}

// ErrUnknownKey flags a parameter name outside the schema.
var ErrUnknownKey = errUnknownKey{}

type errUnknownKey struct{}

func (errUnknownKey) Error() string { return "unknown parameter key" }
