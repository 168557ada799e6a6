package projection

import "math"

// Vec3 is a point in the 3D viewing space.
type Vec3 struct{ X, Y, Z float64 }

// Mat4 is a 4x4 matrix in column-major order, matching GPU upload layout.
type Mat4 [16]float64

// Identity returns the identity matrix.
func Identity() Mat4 {
	return Mat4{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1}
}

// Mul returns a * b.
func (a Mat4) Mul(b Mat4) Mat4 {
	var out Mat4
	for c := 0; c < 4; c++ {
		for r := 0; r < 4; r++ {
			sum := 0.0
			for k := 0; k < 4; k++ {
				sum += a[k*4+r] * b[c*4+k]
			}
			out[c*4+r] = sum
		}
	}
	return out
}

// Transform applies the matrix to a point (w assumed 1), with perspective
// divide.
func (a Mat4) Transform(v Vec3) Vec3 {
	x := a[0]*v.X + a[4]*v.Y + a[8]*v.Z + a[12]
	y := a[1]*v.X + a[5]*v.Y + a[9]*v.Z + a[13]
	z := a[2]*v.X + a[6]*v.Y + a[10]*v.Z + a[14]
	w := a[3]*v.X + a[7]*v.Y + a[11]*v.Z + a[15]
	if w != 0 && w != 1 {
		return Vec3{x / w, y / w, z / w}
	}
	return Vec3{x, y, z}
}

// PerspectiveMat builds a right-handed perspective projection.
func PerspectiveMat(fovyRad, aspect, near, far float64) Mat4 {
	f := 1 / math.Tan(fovyRad/2)
	var m Mat4
	m[0] = f / aspect
	m[5] = f
	m[10] = (far + near) / (near - far)
	m[11] = -1
	m[14] = 2 * far * near / (near - far)
	return m
}

// OrthographicMat builds a right-handed orthographic projection.
func OrthographicMat(left, right, bottom, top, near, far float64) Mat4 {
	var m Mat4
	m[0] = 2 / (right - left)
	m[5] = 2 / (top - bottom)
	m[10] = -2 / (far - near)
	m[12] = -(right + left) / (right - left)
	m[13] = -(top + bottom) / (top - bottom)
	m[14] = -(far + near) / (far - near)
	m[15] = 1
	return m
}

// LookAtMat builds a view matrix for a camera at eye looking at center.
func LookAtMat(eye, center, up Vec3) Mat4 {
	f := normalize3(sub3(center, eye))
	s := normalize3(cross3(f, up))
	u := cross3(s, f)

	m := Identity()
	m[0], m[4], m[8] = s.X, s.Y, s.Z
	m[1], m[5], m[9] = u.X, u.Y, u.Z
	m[2], m[6], m[10] = -f.X, -f.Y, -f.Z
	m[12] = -dot3(s, eye)
	m[13] = -dot3(u, eye)
	m[14] = dot3(f, eye)
	return m
}

// LerpMat interpolates two matrices component-wise. This is a matrix-space
// blend, not a geometric one: acceptable for continuous visual transitions
// between projection settings.
func LerpMat(a, b Mat4, t float64) Mat4 {
	if t <= 0 {
		return a
	}
	if t >= 1 {
		return b
	}
	var out Mat4
	for i := range out {
		out[i] = a[i] + (b[i]-a[i])*t
	}
	return out
}

func sub3(a, b Vec3) Vec3 { return Vec3{a.X - b.X, a.Y - b.Y, a.Z - b.Z} }

func dot3(a, b Vec3) float64 { return a.X*b.X + a.Y*b.Y + a.Z*b.Z }

func cross3(a, b Vec3) Vec3 {
	return Vec3{a.Y*b.Z - a.Z*b.Y, a.Z*b.X - a.X*b.Z, a.X*b.Y - a.Y*b.X}
}

func normalize3(v Vec3) Vec3 {
	n := math.Sqrt(dot3(v, v))
	if n == 0 {
		return Vec3{Z: 1}
	}
	return Vec3{v.X / n, v.Y / n, v.Z / n}
}
