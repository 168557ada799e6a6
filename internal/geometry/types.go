package geometry

import "math"

// Vec4 is a point or direction in 4D space.
type Vec4 struct{ X, Y, Z, W float64 }

// UV is a texture coordinate.
type UV struct{ U, V float64 }

// Topology hints how a mesh's vertex stream should be drawn.
type Topology int

const (
	Points Topology = iota
	Lines
	Triangles
)

func (t Topology) String() string {
	switch t {
	case Points:
		return "points"
	case Lines:
		return "lines"
	case Triangles:
		return "triangles"
	default:
		return "unknown"
	}
}

// Mesh is the generated 4D vertex data plus its draw-topology hint.
// Lines topology carries vertex pairs (even count); Triangles carries
// vertex triples.
type Mesh struct {
	Vertices []Vec4
	Normals  []Vec4
	UVs      []UV
	Topology Topology
}

// SubParams are the structural knobs shared by the family generators.
type SubParams struct {
	GridDensity int     `json:"gridDensity" yaml:"grid_density"`
	Iterations  int     `json:"iterations" yaml:"iterations"`
	Scale       float64 `json:"scale" yaml:"scale"`
}

// DefaultSubParams returns the stock structural parameters.
func DefaultSubParams() SubParams {
	return SubParams{GridDensity: 12, Iterations: 4, Scale: 1.0}
}

func (p SubParams) sanitized() SubParams {
	if p.GridDensity < 2 {
		p.GridDensity = 2
	}
	if p.Iterations < 1 {
		p.Iterations = 1
	}
	if p.Scale <= 0 {
		p.Scale = 1.0
	}
	return p
}

func (v Vec4) scale(s float64) Vec4 {
	return Vec4{v.X * s, v.Y * s, v.Z * s, v.W * s}
}

func (v Vec4) normalized() Vec4 {
	n := math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z + v.W*v.W)
	if n == 0 {
		return Vec4{X: 1}
	}
	return v.scale(1 / n)
}

func (v Vec4) sub(o Vec4) Vec4 {
	return Vec4{v.X - o.X, v.Y - o.Y, v.Z - o.Z, v.W - o.W}
}

func (v Vec4) add(o Vec4) Vec4 {
	return Vec4{v.X + o.X, v.Y + o.Y, v.Z + o.Z, v.W + o.W}
}

func midpoint(a, b Vec4) Vec4 {
	return Vec4{(a.X + b.X) / 2, (a.Y + b.Y) / 2, (a.Z + b.Z) / 2, (a.W + b.W) / 2}
}
