package projection

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/funtimes-hypercube/internal/geometry"
)

func mustState(t *testing.T, kind Kind, over map[string]float64) *State {
	t.Helper()
	s, err := NewState(kind, over, DefaultTuning())
	require.NoError(t, err)
	return s
}

func finite3(v Vec3) bool {
	for _, f := range []float64{v.X, v.Y, v.Z} {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return true
}

func TestUnknownDiscipline(t *testing.T) {
	_, err := NewState(Kind("isometric"), nil, DefaultTuning())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestOverrides(t *testing.T) {
	s := mustState(t, Perspective, map[string]float64{"camDistance": 5, "fov": 45})
	assert.Equal(t, 5.0, s.Params().CamDistance)
	assert.Equal(t, 45.0, s.Params().FOVDeg)

	_, err := NewState(Perspective, map[string]float64{"bogus": 1}, DefaultTuning())
	assert.Error(t, err)
}

func TestStereographicPoleNeverNaN(t *testing.T) {
	s := mustState(t, Stereographic, map[string]float64{"sphereRadius": 1.5, "poleSign": 1})
	tun := DefaultTuning()

	// walk w toward the pole from both sides
	for _, eps := range []float64{1e-1, 1e-3, 1e-6, 1e-12, 0, -1e-6} {
		p := geometry.Vec4{X: 0.3, Y: -0.2, Z: 0.1, W: 1.5 - eps}
		out := s.Project4(p)
		require.True(t, finite3(out), "w=%v produced %v", p.W, out)
		assert.LessOrEqual(t, math.Abs(out.X), tun.OutputClamp)
		assert.LessOrEqual(t, math.Abs(out.Y), tun.OutputClamp)
		assert.LessOrEqual(t, math.Abs(out.Z), tun.OutputClamp)
	}
}

func TestStereographicFormula(t *testing.T) {
	s := mustState(t, Stereographic, map[string]float64{"sphereRadius": 2, "poleSign": 1})
	out := s.Project4(geometry.Vec4{X: 1, Y: 0, Z: 0, W: 0})
	// (x,y,z) * R / (R - w) with w=0 gives the identity on xyz
	assert.InDelta(t, 1.0, out.X, 1e-12)
	assert.InDelta(t, 0.0, out.Y, 1e-12)

	// negative pole projects from the other side
	s = mustState(t, Stereographic, map[string]float64{"sphereRadius": 2, "poleSign": -1})
	out = s.Project4(geometry.Vec4{X: 1, W: 1})
	assert.InDelta(t, 2.0/3.0, out.X, 1e-12)
}

func TestStereographicPoleModulation(t *testing.T) {
	s := mustState(t, Stereographic, map[string]float64{"sphereRadius": 2})
	base := s.Project4(geometry.Vec4{X: 1, W: 0.5})
	s.SetModulation(0, 0, 1) // full high signal shrinks the pole radius
	mod := s.Project4(geometry.Vec4{X: 1, W: 0.5})
	assert.NotEqual(t, base.X, mod.X)
	assert.True(t, finite3(mod))
}

func TestPerspectiveDistanceModulation(t *testing.T) {
	s := mustState(t, Perspective, nil)
	_, viewRest := s.Matrices()

	s.SetModulation(1.0, 1.0, 0)
	_, viewNear := s.Matrices()
	assert.NotEqual(t, viewRest, viewNear, "modulation must move the camera")

	// camera never crosses the near plane no matter how hard it is pushed
	s.SetModulation(100, 100, 0)
	d := s.effectiveDistance()
	assert.GreaterOrEqual(t, d, s.Params().Near)
}

func TestModulationSanitizesNaN(t *testing.T) {
	s := mustState(t, Perspective, nil)
	s.SetModulation(math.NaN(), math.Inf(1), 0)
	assert.Equal(t, s.Params().CamDistance, s.effectiveDistance())
}

func TestOrthographicBlend(t *testing.T) {
	pure := mustState(t, Orthographic, map[string]float64{"orthoBlend": 0})
	blended := mustState(t, Orthographic, map[string]float64{"orthoBlend": 1})
	half := mustState(t, Orthographic, map[string]float64{"orthoBlend": 0.5})

	p0, _ := pure.Matrices()
	p1, _ := blended.Matrices()
	ph, _ := half.Matrices()

	persp := PerspectiveMat(60*math.Pi/180, 1, 0.1, 100)
	for i := range p1 {
		assert.InDelta(t, persp[i], p1[i], 1e-12, "blend 1 is pure perspective, component %d", i)
	}
	for i := range ph {
		assert.InDelta(t, (p0[i]+p1[i])/2, ph[i], 1e-12, "component %d", i)
	}
}

func TestOrthographicProjectionDropsW(t *testing.T) {
	s := mustState(t, Orthographic, nil)
	out := s.Project4(geometry.Vec4{X: 1, Y: 2, Z: 3, W: 99})
	assert.Equal(t, Vec3{1, 2, 3}, out)
}

func TestLookAtPlacesCamera(t *testing.T) {
	view := LookAtMat(Vec3{Z: 2}, Vec3{}, Vec3{Y: 1})
	// the origin should land two units down the view axis
	p := view.Transform(Vec3{})
	assert.InDelta(t, -2.0, p.Z, 1e-12)
	assert.InDelta(t, 0.0, p.X, 1e-12)
}

func TestMat4MulIdentity(t *testing.T) {
	m := PerspectiveMat(1, 1.5, 0.1, 10)
	assert.Equal(t, m, Identity().Mul(m))
	assert.Equal(t, m, m.Mul(Identity()))
}
