package param

import (
	"github.com/coreman2200/funtimes-hypercube/internal/interaction"
)

// Modulation holds the strengths applied when merging interaction signals
// into the base set. All terms are identity at zero signal, so a resting
// effective set equals its base.
type Modulation struct {
	Morph    float64 `yaml:"morph"`
	Rotation float64 `yaml:"rotation"`
	Grid     float64 `yaml:"grid"`
	Glitch   float64 `yaml:"glitch"`
	Pattern  float64 `yaml:"pattern"`
}

// DefaultModulation returns the stock strengths.
func DefaultModulation() Modulation {
	return Modulation{Morph: 0.4, Rotation: 1.2, Grid: 0.5, Glitch: 0.1, Pattern: 0.6}
}

// Mapper merges a base set with live signals into the effective set. It is
// a pure function of its inputs: no hidden state, so the effective flavor is
// always reconstructible from base + signals + elapsed time.
type Mapper struct {
	Schema Schema
	Mod    Modulation
}

// NewMapper wires a mapper over the given schema.
func NewMapper(schema Schema, mod Modulation) Mapper {
	return Mapper{Schema: schema, Mod: mod}
}

// ComputeEffective derives the per-frame effective set. Three audio-style
// channels are produced directly from the scroll, hold and pointer-move
// intensities (bass/mid/high), scaled by the idle decay factor, for
// consumers that want an audio-reactive interface without the raw channel
// shapes.
func (m Mapper) ComputeEffective(base Set, sig interaction.Signals, elapsed float64) Set {
	out := base.Clone()

	d := sig.Idle.Decay
	bass := sig.Scroll.Intensity * d
	mid := sig.Hold.Intensity * d
	high := sig.Move.Intensity * d

	out["u_time"] = Scalar(elapsed)

	m.add(out, "u_audioBass", bass)
	m.add(out, "u_audioMid", mid)
	m.add(out, "u_audioHigh", high)

	m.add(out, "u_morphFactor", mid*m.Mod.Morph)
	m.add(out, "u_rotationSpeed", bass*m.Mod.Rotation)
	m.scale(out, "u_gridDensity", bass*m.Mod.Grid)
	m.add(out, "u_glitchIntensity", high*m.Mod.Glitch)

	vel := sig.Move.VelX
	if sig.Move.VelY > vel {
		vel = sig.Move.VelY
	}
	m.scale(out, "u_patternIntensity", vel*d*m.Mod.Pattern)

	return out
}

// add offsets a scalar key already present in the set, clamped to schema.
func (m Mapper) add(s Set, key string, delta float64) {
	v, ok := s[key]
	if !ok || v.Kind != KindScalar {
		return
	}
	if delta == 0 {
		return
	}
	s[key] = m.Schema.Clamp(key, Scalar(v.Num+delta))
}

// scale multiplies a scalar key by (1 + factor), clamped to schema.
func (m Mapper) scale(s Set, key string, factor float64) {
	v, ok := s[key]
	if !ok || v.Kind != KindScalar {
		return
	}
	if factor == 0 {
		return
	}
	s[key] = m.Schema.Clamp(key, Scalar(v.Num*(1+factor)))
}
