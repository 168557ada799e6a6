package gpu_test

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/funtimes-hypercube/internal/gpu"
	"github.com/coreman2200/funtimes-hypercube/internal/gpu/fake"
	"github.com/coreman2200/funtimes-hypercube/internal/param"
	"github.com/coreman2200/funtimes-hypercube/internal/projection"
)

func TestBindUniformsTypeDirected(t *testing.T) {
	ctx := fake.New(640, 480)
	m := gpu.NewManager(ctx, zerolog.Nop())
	require.NoError(t, m.Compile(gpu.ProgramSource{Name: "t", Fragment: "x"}))

	eff := param.Set{
		"u_morphFactor": param.Scalar(0.25),
		"u_baseColor":   param.Vec3(1, 0, 0.5),
		"u_wireframe":   param.Bool(true),
		"u_resolution":  param.Vec2(640, 480),
		"geometry":      param.Enum("torus"), // host-side, must be skipped
		"displayName":   param.Enum("Torus"), // host-side, must be skipped
	}
	m.BindUniforms(eff, projection.Identity(), projection.Identity())

	v, ok := ctx.Uniform("u_morphFactor")
	require.True(t, ok)
	assert.Equal(t, 0.25, v)

	vec, ok := ctx.Uniform("u_baseColor")
	require.True(t, ok)
	assert.Equal(t, []float64{1, 0, 0.5}, vec)

	// booleans dispatch as integer 0/1
	b, ok := ctx.Uniform("u_wireframe")
	require.True(t, ok)
	assert.Equal(t, 1, b)

	_, ok = ctx.Uniform("geometry")
	assert.False(t, ok, "non-reserved keys are host-side metadata")
	_, ok = ctx.Uniform("displayName")
	assert.False(t, ok)

	mat, ok := ctx.Uniform("u_projectionMatrix")
	require.True(t, ok)
	assert.Equal(t, [16]float64(projection.Identity()), mat)
}

func TestCompileFailureLeavesManagerInert(t *testing.T) {
	ctx := fake.New(1, 1)
	ctx.FailCompile = true
	ctx.CompileLog = "syntax error at line 3"

	m := gpu.NewManager(ctx, zerolog.Nop())
	err := m.Compile(gpu.ProgramSource{Name: "broken"})
	require.Error(t, err)

	var ce *gpu.CompileError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "fragment", ce.Stage)
	assert.False(t, m.Active())

	// binding against an inert manager is a no-op, not a panic
	m.BindUniforms(param.Set{"u_time": param.Scalar(1)}, projection.Identity(), projection.Identity())

	// recovery: a later successful compile re-activates
	ctx.FailCompile = false
	require.NoError(t, m.Compile(gpu.ProgramSource{Name: "fixed"}))
	assert.True(t, m.Active())
}
