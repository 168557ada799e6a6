package transition

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/funtimes-hypercube/internal/param"
)

func setOf(morph float64) param.Set {
	return param.Set{
		"u_morphFactor": param.Scalar(morph),
		"geometry":      param.Enum("hypercube"),
	}
}

func TestEndpointsExact(t *testing.T) {
	c := NewController(Hooks{})
	src := param.Set{"u_morphFactor": param.Scalar(0.123), "u_baseColor": param.Vec3(1, 0, 0)}
	dst := param.Set{"u_morphFactor": param.Scalar(0.789), "u_baseColor": param.Vec3(0, 0, 1)}
	c.Begin(Target{Base: dst}, 1.0, src)

	at0 := c.Sample(0)
	assert.True(t, at0.Equal(src), "progress 0 must return the source")

	at1 := c.Sample(1)
	assert.True(t, at1.Equal(dst), "progress 1 must return the target bit-for-bit")
}

func TestIntermediateValuesBounded(t *testing.T) {
	c := NewController(Hooks{})
	src := param.Set{"u_morphFactor": param.Scalar(0.0)}
	dst := param.Set{"u_morphFactor": param.Scalar(1.0)}
	c.Begin(Target{Base: dst}, 1.0, src)

	for _, p := range []float64{0.1, 0.25, 0.5, 0.75, 0.9} {
		v := c.Sample(p).Scalar("u_morphFactor", -1)
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, 1.0)
	}
}

func TestMorphHalfwayScenario(t *testing.T) {
	// preset A morphFactor 0 -> preset B morphFactor 1 over 1000ms
	var completed param.Set
	c := NewController(Hooks{Completed: func(s param.Set) { completed = s }})
	c.Begin(Target{Base: setOf(1.0)}, 1.0, setOf(0.0))

	cur, active := c.Tick(0.5)
	require.True(t, active)
	v := cur.Scalar("u_morphFactor", -1)
	assert.GreaterOrEqual(t, v, 0.45)
	assert.LessOrEqual(t, v, 0.55)

	cur, active = c.Tick(0.5)
	assert.False(t, active)
	assert.Equal(t, 1.0, cur.Scalar("u_morphFactor", -1))
	require.NotNil(t, completed)
	assert.Equal(t, 1.0, completed.Scalar("u_morphFactor", -1))
	assert.Equal(t, Idle, c.State())
}

func TestEnumSnapsAtMidpoint(t *testing.T) {
	c := NewController(Hooks{})
	src := param.Set{"geometry": param.Enum("hypercube")}
	dst := param.Set{"geometry": param.Enum("torus")}
	c.Begin(Target{Base: dst}, 1.0, src)

	assert.Equal(t, "hypercube", c.Sample(0.49)["geometry"].Name)
	assert.Equal(t, "torus", c.Sample(0.5)["geometry"].Name)
}

func TestRetargetMidFlightIsContinuous(t *testing.T) {
	c := NewController(Hooks{})
	c.Begin(Target{Base: setOf(1.0)}, 1.0, setOf(0.0))

	cur, _ := c.Tick(0.5) // around 0.5 now
	mid := cur.Scalar("u_morphFactor", -1)

	// retarget toward 0: the new source is the current value, no snap-back
	c.Begin(Target{Base: setOf(0.0)}, 1.0, c.Current())
	start := c.Sample(0).Scalar("u_morphFactor", -1)
	assert.InDelta(t, mid, start, 1e-9)

	// and re-beginning toward the same target is a no-op
	c.Tick(0.25)
	before := c.Current().Scalar("u_morphFactor", -1)
	c.Begin(Target{Base: setOf(0.0)}, 1.0, c.Current())
	after := c.Current().Scalar("u_morphFactor", -1)
	assert.Equal(t, before, after)
}

func TestDeferredSwitchFiresAtEndOnly(t *testing.T) {
	var switched []Switch
	c := NewController(Hooks{ApplySwitch: func(s Switch) { switched = append(switched, s) }})
	sw := Switch{Geometry: "torus", HasGeometry: true}
	c.Begin(Target{Base: setOf(1.0), Switch: sw}, 1.0, setOf(0.0))

	c.Tick(0.5)
	assert.Empty(t, switched, "switch must wait for the end of the transition")
	c.Tick(0.6)
	require.Len(t, switched, 1)
	assert.Equal(t, "torus", switched[0].Geometry)
}

func TestZeroDurationAppliesSynchronously(t *testing.T) {
	var completed param.Set
	var switched int
	c := NewController(Hooks{
		Completed:   func(s param.Set) { completed = s },
		ApplySwitch: func(Switch) { switched++ },
	})

	// collapse an in-flight run with an immediate application
	c.Begin(Target{Base: setOf(1.0)}, 1.0, setOf(0.0))
	c.Tick(0.3)
	c.Begin(Target{Base: setOf(0.25), Switch: Switch{HasGeometry: true, Geometry: "wave"}}, 0, nil)

	assert.Equal(t, Idle, c.State())
	assert.Equal(t, 1, switched)
	require.NotNil(t, completed)
	assert.Equal(t, 0.25, completed.Scalar("u_morphFactor", -1))
}

func TestCollapseNow(t *testing.T) {
	var completed param.Set
	c := NewController(Hooks{Completed: func(s param.Set) { completed = s }})
	c.Begin(Target{Base: setOf(1.0)}, 1.0, setOf(0.0))
	c.Tick(0.2)
	c.CollapseNow()
	assert.Equal(t, Idle, c.State())
	assert.Equal(t, 1.0, completed.Scalar("u_morphFactor", -1))
}

func TestSourceOnlyKeysHoldTarget(t *testing.T) {
	c := NewController(Hooks{})
	src := param.Set{"u_morphFactor": param.Scalar(0)}
	dst := param.Set{"u_morphFactor": param.Scalar(1), "u_gridDensity": param.Scalar(12)}
	c.Begin(Target{Base: dst}, 1.0, src)
	assert.Equal(t, 12.0, c.Sample(0.1).Scalar("u_gridDensity", -1))
}
