package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllFamiliesGenerate(t *testing.T) {
	for _, name := range Families() {
		m, err := Generate(name, DefaultSubParams())
		require.NoError(t, err, name)
		require.NotEmpty(t, m.Vertices, "%s returned an empty vertex buffer", name)
		assert.Equal(t, len(m.Vertices), len(m.Normals), name)
		assert.Equal(t, len(m.Vertices), len(m.UVs), name)
		assert.LessOrEqual(t, len(m.Vertices), MaxVertices, name)

		switch m.Topology {
		case Lines:
			assert.Zero(t, len(m.Vertices)%2, "%s line list must have even vertex count", name)
		case Triangles:
			assert.Zero(t, len(m.Vertices)%3, "%s triangle list must be a whole number of triangles", name)
		}
	}
}

func TestGenerateIsDeterministic(t *testing.T) {
	for _, name := range Families() {
		a, err := Generate(name, DefaultSubParams())
		require.NoError(t, err)
		b, err := Generate(name, DefaultSubParams())
		require.NoError(t, err)
		assert.Equal(t, a.Vertices, b.Vertices, name)
	}
}

func TestUnknownFamilyFailsFast(t *testing.T) {
	_, err := Generate("dodecaplex", DefaultSubParams())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownFamily)
}

func TestFractalGrowthIsCapped(t *testing.T) {
	small, err := Generate("fractal", SubParams{GridDensity: 4, Iterations: 2, Scale: 1})
	require.NoError(t, err)
	deep, err := Generate("fractal", SubParams{GridDensity: 4, Iterations: 50, Scale: 1})
	require.NoError(t, err)
	assert.Greater(t, len(deep.Vertices), len(small.Vertices))
	assert.LessOrEqual(t, len(deep.Vertices), MaxVertices)
}

func TestFractalCountGrowsCombinatorially(t *testing.T) {
	one, _ := Generate("fractal", SubParams{GridDensity: 4, Iterations: 1, Scale: 1})
	two, _ := Generate("fractal", SubParams{GridDensity: 4, Iterations: 2, Scale: 1})
	assert.Equal(t, 25, len(one.Vertices))
	assert.Equal(t, 125, len(two.Vertices))
}

func TestSubParamsSanitized(t *testing.T) {
	m, err := Generate("hypersphere", SubParams{GridDensity: -3, Iterations: 0, Scale: -1})
	require.NoError(t, err)
	assert.NotEmpty(t, m.Vertices)
}

func TestHypercubeEdgeCount(t *testing.T) {
	// density below subdivision threshold: 32 edges, two vertices each
	m, err := Generate("hypercube", SubParams{GridDensity: 4, Iterations: 1, Scale: 1})
	require.NoError(t, err)
	assert.Equal(t, 64, len(m.Vertices))
}
