package param

import "math"

// Kind enumerates supported parameter value kinds.
type Kind string

const (
	KindScalar Kind = "scalar"
	KindVec2   Kind = "vec2"
	KindVec3   Kind = "vec3"
	KindVec4   Kind = "vec4"
	KindBool   Kind = "bool"
	KindEnum   Kind = "enum"
)

// Value is a closed tagged union over the kinds a parameter may take.
// Exactly the field matching Kind is meaningful.
type Value struct {
	Kind Kind
	Num  float64
	Vec  []float64
	Flag bool
	Name string
}

// Scalar wraps a float parameter.
func Scalar(v float64) Value { return Value{Kind: KindScalar, Num: v} }

// Bool wraps a boolean parameter.
func Bool(b bool) Value { return Value{Kind: KindBool, Flag: b} }

// Enum wraps an enumerated-string parameter (e.g. a geometry name).
func Enum(s string) Value { return Value{Kind: KindEnum, Name: s} }

// Vec2 wraps a fixed-length 2-vector.
func Vec2(x, y float64) Value { return Value{Kind: KindVec2, Vec: []float64{x, y}} }

// Vec3 wraps a fixed-length 3-vector.
func Vec3(x, y, z float64) Value { return Value{Kind: KindVec3, Vec: []float64{x, y, z}} }

// Vec4 wraps a fixed-length 4-vector.
func Vec4(x, y, z, w float64) Value { return Value{Kind: KindVec4, Vec: []float64{x, y, z, w}} }

func vecLen(k Kind) int {
	switch k {
	case KindVec2:
		return 2
	case KindVec3:
		return 3
	case KindVec4:
		return 4
	}
	return 0
}

// IsVec reports whether the value is one of the fixed-length vector kinds.
func (v Value) IsVec() bool { return vecLen(v.Kind) > 0 }

// Clone returns a deep copy.
func (v Value) Clone() Value {
	if v.Vec != nil {
		c := make([]float64, len(v.Vec))
		copy(c, v.Vec)
		v.Vec = c
	}
	return v
}

// Equal reports exact equality (bit-for-bit on floats).
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case KindScalar:
		return v.Num == o.Num
	case KindBool:
		return v.Flag == o.Flag
	case KindEnum:
		return v.Name == o.Name
	default:
		if len(v.Vec) != len(o.Vec) {
			return false
		}
		for i := range v.Vec {
			if v.Vec[i] != o.Vec[i] {
				return false
			}
		}
		return true
	}
}

// Lerp interpolates a toward b at progress u in [0,1]. Numeric kinds lerp
// (vectors component-wise); every other kind, and any kind mismatch, snaps
// to b once u reaches the midpoint and never before.
func Lerp(a, b Value, u float64) Value {
	if u <= 0 {
		return a.Clone()
	}
	if u >= 1 {
		return b.Clone()
	}
	if a.Kind == b.Kind {
		switch a.Kind {
		case KindScalar:
			return Scalar(a.Num + (b.Num-a.Num)*u)
		case KindVec2, KindVec3, KindVec4:
			if len(a.Vec) == len(b.Vec) {
				out := make([]float64, len(a.Vec))
				for i := range out {
					out[i] = a.Vec[i] + (b.Vec[i]-a.Vec[i])*u
				}
				return Value{Kind: a.Kind, Vec: out}
			}
		}
	}
	if u >= 0.5 {
		return b.Clone()
	}
	return a.Clone()
}

func clampf(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
