package param

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/funtimes-hypercube/internal/interaction"
)

func TestLerpScalarAndVector(t *testing.T) {
	v := Lerp(Scalar(0), Scalar(10), 0.25)
	assert.Equal(t, 2.5, v.Num)

	vec := Lerp(Vec3(0, 0, 0), Vec3(1, 2, 4), 0.5)
	assert.Equal(t, []float64{0.5, 1, 2}, vec.Vec)

	// endpoints are exact, not merely close
	assert.True(t, Lerp(Scalar(0.1), Scalar(0.7), 1).Equal(Scalar(0.7)))
	assert.True(t, Lerp(Scalar(0.1), Scalar(0.7), 0).Equal(Scalar(0.1)))
}

func TestLerpSnapKindsAtMidpoint(t *testing.T) {
	a, b := Enum("hypercube"), Enum("torus")
	assert.Equal(t, "hypercube", Lerp(a, b, 0.49).Name)
	assert.Equal(t, "torus", Lerp(a, b, 0.5).Name)

	assert.False(t, Lerp(Bool(false), Bool(true), 0.4).Flag)
	assert.True(t, Lerp(Bool(false), Bool(true), 0.6).Flag)

	// kind mismatch degrades to the snap rule instead of interpolating
	assert.Equal(t, KindScalar, Lerp(Scalar(1), Enum("x"), 0.2).Kind)
	assert.Equal(t, KindEnum, Lerp(Scalar(1), Enum("x"), 0.8).Kind)
}

func TestSchemaValidate(t *testing.T) {
	schema := DefaultSchema()
	require.NoError(t, schema.Validate(schema.Defaults()))

	bad := Set{"u_nonsense": Scalar(1)}
	err := schema.Validate(bad)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownKey)

	mistyped := Set{"u_morphFactor": Bool(true)}
	assert.Error(t, schema.Validate(mistyped))
}

func TestSchemaClamp(t *testing.T) {
	schema := DefaultSchema()
	assert.Equal(t, 1.0, schema.Clamp("u_morphFactor", Scalar(7)).Num)
	assert.Equal(t, 0.0, schema.Clamp("u_morphFactor", Scalar(-2)).Num)
	// keys without a range pass through
	assert.Equal(t, 123.0, schema.Clamp("u_time", Scalar(123)).Num)
}

func TestEffectiveEqualsBaseAtRest(t *testing.T) {
	schema := DefaultSchema()
	m := NewMapper(schema, DefaultModulation())
	base := schema.Defaults()
	base["u_gridDensity"] = Scalar(10)
	base["u_rotationSpeed"] = Scalar(0.5)

	eff := m.ComputeEffective(base, interaction.Zero(), 1.0)
	for _, k := range base.Keys() {
		if k == "u_time" {
			continue // the clock channel tracks elapsed time by definition
		}
		assert.True(t, eff[k].Equal(base[k]), "key %s drifted at rest", k)
	}
	assert.Equal(t, 1.0, eff.Scalar("u_time", -1))
	assert.Equal(t, 10.0, eff.Scalar("u_gridDensity", -1))
	assert.Equal(t, 0.5, eff.Scalar("u_rotationSpeed", -1))
}

func TestEffectiveModulation(t *testing.T) {
	schema := DefaultSchema()
	m := NewMapper(schema, DefaultModulation())
	base := schema.Defaults()

	sig := interaction.Zero()
	sig.Scroll.Intensity = 0.5
	sig.Hold.Intensity = 1.0
	sig.Move.Intensity = 0.25

	eff := m.ComputeEffective(base, sig, 2.0)
	assert.Equal(t, 0.5, eff.Scalar("u_audioBass", -1))
	assert.Equal(t, 1.0, eff.Scalar("u_audioMid", -1))
	assert.Equal(t, 0.25, eff.Scalar("u_audioHigh", -1))
	assert.InDelta(t, 0.4, eff.Scalar("u_morphFactor", -1), 1e-9)
	assert.InDelta(t, 0.5+0.5*1.2, eff.Scalar("u_rotationSpeed", -1), 1e-9)
	assert.InDelta(t, 8*(1+0.5*0.5), eff.Scalar("u_gridDensity", -1), 1e-9)

	// the idle multiplier scales every derived channel
	sig.Idle.Decay = 0.5
	eff = m.ComputeEffective(base, sig, 2.0)
	assert.Equal(t, 0.25, eff.Scalar("u_audioBass", -1))
	assert.Equal(t, 0.5, eff.Scalar("u_audioMid", -1))
}

func TestEffectiveStaysInSchemaRange(t *testing.T) {
	schema := DefaultSchema()
	m := NewMapper(schema, DefaultModulation())
	base := schema.Defaults()
	base["u_morphFactor"] = Scalar(0.9)

	sig := interaction.Zero()
	sig.Hold.Intensity = 1.0
	eff := m.ComputeEffective(base, sig, 0)
	assert.LessOrEqual(t, eff.Scalar("u_morphFactor", -1), 1.0)
}

func TestPlainRoundTrip(t *testing.T) {
	set := Set{
		"u_gridDensity": Scalar(12),
		"u_baseColor":   Vec3(1, 0, 0.5),
		"u_wireframe":   Bool(true),
		"geometry":      Enum("torus"),
	}
	back, err := FromPlain(set.ToPlain())
	require.NoError(t, err)
	assert.True(t, set.Equal(back))

	_, err = FromPlain(map[string]any{"v": []any{1.0, "x"}})
	assert.Error(t, err)
	_, err = FromPlain(map[string]any{"v": []float64{1, 2, 3, 4, 5}})
	assert.Error(t, err)
}

func TestSetCloneIsDeep(t *testing.T) {
	set := Set{"u_baseColor": Vec3(1, 2, 3)}
	c := set.Clone()
	c["u_baseColor"].Vec[0] = 9
	assert.Equal(t, 1.0, set["u_baseColor"].Vec[0])
}
