// Package chroma derives an emergent color state from geometry identity,
// interaction signals and elapsed time. Secondary tones are deterministic
// offsets from the primary, recomputed every frame and never stored.
package chroma

import (
	"fmt"
	"math"

	"github.com/coreman2200/funtimes-hypercube/internal/interaction"
)

// HSL is a hue (degrees, 0..360), saturation and luminance (0..1) triple.
type HSL struct {
	H float64
	S float64
	L float64
}

// State is the per-frame color output.
type State struct {
	Primary    HSL
	Background HSL
	Foreground HSL
	Accent     HSL
}

// TokenSink receives the derived tones as host-style tokens once per frame.
// Purely a one-way notification; the engine never reads it back.
type TokenSink interface {
	PushTokens(tokens map[string]string)
}

// Tuning holds the drift and pulse strengths. Configuration defaults.
type Tuning struct {
	HueDriftDegPerSec float64
	SatPulse          float64 // saturation added at full mid signal
	LumWaveAmp        float64 // luminance wave amplitude at full high signal
	LumWaveHz         float64
}

// DefaultTuning returns the stock strengths.
func DefaultTuning() Tuning {
	return Tuning{HueDriftDegPerSec: 12, SatPulse: 0.25, LumWaveAmp: 0.15, LumWaveHz: 0.5}
}

// each geometry family owns a base tone
var familyBase = map[string]HSL{
	"hypercube":   {H: 300, S: 0.85, L: 0.55},
	"hypersphere": {H: 200, S: 0.80, L: 0.55},
	"hypertetra":  {H: 160, S: 0.75, L: 0.50},
	"torus":       {H: 30, S: 0.85, L: 0.55},
	"kleinbottle": {H: 340, S: 0.70, L: 0.50},
	"fractal":     {H: 270, S: 0.90, L: 0.60},
	"wave":        {H: 180, S: 0.75, L: 0.60},
	"crystal":     {H: 45, S: 0.65, L: 0.65},
}

// Engine computes the color state. Stateless between frames apart from the
// tuning; the same inputs always produce the same state.
type Engine struct {
	tun  Tuning
	sink TokenSink
}

// New builds an engine; sink may be nil.
func New(tun Tuning, sink TokenSink) *Engine {
	return &Engine{tun: tun, sink: sink}
}

// SetSink attaches (or detaches, with nil) the token sink.
func (e *Engine) SetSink(sink TokenSink) { e.sink = sink }

// Update derives this frame's color state for the active geometry and
// pushes the host tokens if a sink is attached. Unknown families fall back
// to the hypercube tone; geometry validity is the coordinator's concern.
func (e *Engine) Update(family string, sig interaction.Signals, t float64) State {
	base, ok := familyBase[family]
	if !ok {
		base = familyBase["hypercube"]
	}

	d := sig.Idle.Decay
	mid := sig.Hold.Intensity * d
	high := sig.Move.Intensity * d

	primary := HSL{
		H: math.Mod(base.H+e.tun.HueDriftDegPerSec*t, 360),
		S: clamp01(base.S + mid*e.tun.SatPulse),
		L: clamp01(base.L + math.Sin(2*math.Pi*e.tun.LumWaveHz*t)*e.tun.LumWaveAmp*high),
	}

	st := State{
		Primary:    primary,
		Background: HSL{H: primary.H, S: primary.S * 0.4, L: primary.L * 0.25},
		Foreground: HSL{H: primary.H, S: primary.S * 0.6, L: clamp01(primary.L + 0.35)},
		Accent:     HSL{H: math.Mod(primary.H+180, 360), S: primary.S, L: primary.L},
	}

	if e.sink != nil {
		e.sink.PushTokens(st.Tokens())
	}
	return st
}

// Tokens renders the state as host-style custom properties.
func (s State) Tokens() map[string]string {
	return map[string]string{
		"--hv-primary":    s.Primary.css(),
		"--hv-background": s.Background.css(),
		"--hv-foreground": s.Foreground.css(),
		"--hv-accent":     s.Accent.css(),
	}
}

func (h HSL) css() string {
	return fmt.Sprintf("hsl(%.1f, %.1f%%, %.1f%%)", h.H, h.S*100, h.L*100)
}

// RGB converts to linear 0..1 channels for uniform upload.
func (h HSL) RGB() (r, g, b float64) {
	c := (1 - math.Abs(2*h.L-1)) * h.S
	hp := math.Mod(h.H, 360) / 60
	x := c * (1 - math.Abs(math.Mod(hp, 2)-1))
	var r1, g1, b1 float64
	switch {
	case hp < 1:
		r1, g1, b1 = c, x, 0
	case hp < 2:
		r1, g1, b1 = x, c, 0
	case hp < 3:
		r1, g1, b1 = 0, c, x
	case hp < 4:
		r1, g1, b1 = 0, x, c
	case hp < 5:
		r1, g1, b1 = x, 0, c
	default:
		r1, g1, b1 = c, 0, x
	}
	m := h.L - c/2
	return r1 + m, g1 + m, b1 + m
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
