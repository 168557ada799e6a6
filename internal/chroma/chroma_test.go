package chroma

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/funtimes-hypercube/internal/interaction"
)

type captureSink struct {
	calls  int
	tokens map[string]string
}

func (c *captureSink) PushTokens(t map[string]string) {
	c.calls++
	c.tokens = t
}

func TestDeterministicForSameInputs(t *testing.T) {
	e := New(DefaultTuning(), nil)
	sig := interaction.Zero()
	a := e.Update("torus", sig, 1.25)
	b := e.Update("torus", sig, 1.25)
	assert.Equal(t, a, b)
}

func TestFamiliesHaveDistinctBaseTones(t *testing.T) {
	e := New(DefaultTuning(), nil)
	sig := interaction.Zero()
	seen := map[float64]string{}
	for fam := range familyBase {
		st := e.Update(fam, sig, 0)
		if prev, dup := seen[st.Primary.H]; dup {
			t.Fatalf("%s and %s share hue %v", fam, prev, st.Primary.H)
		}
		seen[st.Primary.H] = fam
	}
}

func TestHueDriftsLinearlyAndWraps(t *testing.T) {
	tun := DefaultTuning()
	tun.HueDriftDegPerSec = 90
	e := New(tun, nil)
	sig := interaction.Zero()

	at0 := e.Update("hypersphere", sig, 0).Primary.H
	at1 := e.Update("hypersphere", sig, 1).Primary.H
	assert.InDelta(t, 90, math.Mod(at1-at0+360, 360), 1e-9)

	// a full cycle returns to the base hue
	at4 := e.Update("hypersphere", sig, 4).Primary.H
	assert.InDelta(t, at0, at4, 1e-9)
}

func TestSaturationPulsesWithHoldSignal(t *testing.T) {
	e := New(DefaultTuning(), nil)
	calm := e.Update("hypercube", interaction.Zero(), 0)

	sig := interaction.Zero()
	sig.Hold.Intensity = 1
	hot := e.Update("hypercube", sig, 0)
	assert.Greater(t, hot.Primary.S, calm.Primary.S)
	assert.LessOrEqual(t, hot.Primary.S, 1.0)
}

func TestLuminanceWaveGatedByMoveSignal(t *testing.T) {
	tun := DefaultTuning()
	tun.LumWaveHz = 0.25 // peak at t=1
	e := New(tun, nil)

	still := e.Update("wave", interaction.Zero(), 1)
	sig := interaction.Zero()
	sig.Move.Intensity = 1
	moving := e.Update("wave", sig, 1)
	assert.Greater(t, moving.Primary.L, still.Primary.L)
}

func TestIdleDecayDampsModulation(t *testing.T) {
	e := New(DefaultTuning(), nil)
	sig := interaction.Zero()
	sig.Hold.Intensity = 1
	full := e.Update("crystal", sig, 0).Primary.S

	sig.Idle.Decay = 0
	damped := e.Update("crystal", sig, 0).Primary.S
	base := e.Update("crystal", interaction.Zero(), 0).Primary.S
	assert.Less(t, damped, full)
	assert.Equal(t, base, damped)
}

func TestUnknownFamilyFallsBack(t *testing.T) {
	e := New(DefaultTuning(), nil)
	sig := interaction.Zero()
	assert.Equal(t, e.Update("hypercube", sig, 0), e.Update("nonagon", sig, 0))
}

func TestSecondaryTonesDeriveFromPrimary(t *testing.T) {
	e := New(DefaultTuning(), nil)
	st := e.Update("fractal", interaction.Zero(), 2)

	assert.Equal(t, st.Primary.H, st.Background.H)
	assert.Less(t, st.Background.L, st.Primary.L)
	assert.Greater(t, st.Foreground.L, st.Primary.L)
	assert.InDelta(t, math.Mod(st.Primary.H+180, 360), st.Accent.H, 1e-9)
}

func TestTokensPushedOncePerUpdate(t *testing.T) {
	sink := &captureSink{}
	e := New(DefaultTuning(), sink)
	st := e.Update("torus", interaction.Zero(), 0)

	require.Equal(t, 1, sink.calls)
	assert.Equal(t, st.Tokens(), sink.tokens)
	assert.Contains(t, sink.tokens, "--hv-primary")
	assert.Contains(t, sink.tokens, "--hv-accent")
}

func TestRGBKnownValues(t *testing.T) {
	r, g, b := HSL{H: 0, S: 1, L: 0.5}.RGB()
	assert.InDelta(t, 1, r, 1e-9)
	assert.InDelta(t, 0, g, 1e-9)
	assert.InDelta(t, 0, b, 1e-9)

	r, g, b = HSL{H: 120, S: 1, L: 0.5}.RGB()
	assert.InDelta(t, 0, r, 1e-9)
	assert.InDelta(t, 1, g, 1e-9)
	assert.InDelta(t, 0, b, 1e-9)

	// grey regardless of hue when saturation is zero
	r, g, b = HSL{H: 213, S: 0, L: 0.7}.RGB()
	assert.InDelta(t, 0.7, r, 1e-9)
	assert.InDelta(t, 0.7, g, 1e-9)
	assert.InDelta(t, 0.7, b, 1e-9)
}
