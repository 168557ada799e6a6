package param

import (
	"fmt"
	"sort"
)

// Set is an ordered mapping from parameter name to typed value. Iteration
// helpers walk keys in sorted order so uniform dispatch and serialization
// stay deterministic.
//
// Two flavors exist at runtime and must never be conflated: the base set
// (authoritative, mutated only explicitly) and the effective set (derived
// every frame, read-only to consumers, never persisted).
type Set map[string]Value

// Keys returns the key list in sorted order.
func (s Set) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Clone returns a deep copy.
func (s Set) Clone() Set {
	out := make(Set, len(s))
	for k, v := range s {
		out[k] = v.Clone()
	}
	return out
}

// Merge copies every entry of other into s, overwriting existing keys.
func (s Set) Merge(other Set) {
	for k, v := range other {
		s[k] = v.Clone()
	}
}

// Equal reports whether both sets hold exactly the same keys and values.
func (s Set) Equal(other Set) bool {
	if len(s) != len(other) {
		return false
	}
	for k, v := range s {
		ov, ok := other[k]
		if !ok || !v.Equal(ov) {
			return false
		}
	}
	return true
}

// Scalar reads a scalar key, falling back to def when absent or mistyped.
func (s Set) Scalar(key string, def float64) float64 {
	if v, ok := s[key]; ok && v.Kind == KindScalar {
		return v.Num
	}
	return def
}

// ToPlain flattens the set into JSON-friendly values: scalars as numbers,
// vectors as arrays, bools and enum strings as themselves.
func (s Set) ToPlain() map[string]any {
	out := make(map[string]any, len(s))
	for k, v := range s {
		switch v.Kind {
		case KindScalar:
			out[k] = v.Num
		case KindBool:
			out[k] = v.Flag
		case KindEnum:
			out[k] = v.Name
		default:
			vec := make([]float64, len(v.Vec))
			copy(vec, v.Vec)
			out[k] = vec
		}
	}
	return out
}

// FromPlain rebuilds a Set from the flat form produced by ToPlain (or by
// JSON decoding). Value kinds are recovered from the dynamic type; vector
// lengths outside 2..4 are rejected.
func FromPlain(plain map[string]any) (Set, error) {
	out := make(Set, len(plain))
	for k, raw := range plain {
		switch v := raw.(type) {
		case float64:
			out[k] = Scalar(v)
		case int:
			out[k] = Scalar(float64(v))
		case bool:
			out[k] = Bool(v)
		case string:
			out[k] = Enum(v)
		case []float64:
			val, err := vecValue(k, v)
			if err != nil {
				return nil, err
			}
			out[k] = val
		case []any:
			vec := make([]float64, 0, len(v))
			for _, el := range v {
				f, ok := el.(float64)
				if !ok {
					return nil, fmt.Errorf("param %q: non-numeric vector element %T", k, el)
				}
				vec = append(vec, f)
			}
			val, err := vecValue(k, vec)
			if err != nil {
				return nil, err
			}
			out[k] = val
		default:
			return nil, fmt.Errorf("param %q: unsupported value type %T", k, raw)
		}
	}
	return out, nil
}

func vecValue(key string, vec []float64) (Value, error) {
	switch len(vec) {
	case 2:
		return Value{Kind: KindVec2, Vec: vec}, nil
	case 3:
		return Value{Kind: KindVec3, Vec: vec}, nil
	case 4:
		return Value{Kind: KindVec4, Vec: vec}, nil
	default:
		return Value{}, fmt.Errorf("param %q: vector length %d outside 2..4", key, len(vec))
	}
}
