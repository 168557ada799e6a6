// Package projection converts 4D coordinates to the 3D viewing space under
// one of three disciplines and derives the standard 3D camera matrices.
// Interaction-derived modulation couples directly into camera placement and
// pole radius, so "push in" and "morph" read as one continuous gesture.
package projection

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/coreman2200/funtimes-hypercube/internal/geometry"
)

// Kind names a projection discipline.
type Kind string

const (
	Perspective   Kind = "perspective"
	Orthographic  Kind = "orthographic"
	Stereographic Kind = "stereographic"
)

// ErrUnknownKind flags a discipline name outside the fixed set.
var ErrUnknownKind = errors.New("unknown projection discipline")

// Kinds lists the valid discipline names, sorted.
func Kinds() []string {
	out := []string{string(Orthographic), string(Perspective), string(Stereographic)}
	sort.Strings(out)
	return out
}

// Known reports whether name is a valid discipline.
func Known(name string) bool {
	switch Kind(name) {
	case Perspective, Orthographic, Stereographic:
		return true
	}
	return false
}

// Params are the per-discipline sub-parameters. A discipline switch
// reconstructs them from DefaultParams merged with explicit overrides.
type Params struct {
	FOVDeg       float64 // perspective field of view
	Near, Far    float64
	CamDistance  float64 // base camera distance along +Z
	OrthoHeight  float64 // half-height of the orthographic volume
	OrthoBlend   float64 // 0 = pure orthographic, 1 = perspective-under-ortho
	SphereRadius float64 // stereographic hypersphere radius R
	PoleSign     float64 // +1 or -1: which W pole projects
	Aspect       float64
}

// DefaultParams returns the stock sub-parameters for a discipline.
func DefaultParams(k Kind) Params {
	p := Params{
		FOVDeg:       60,
		Near:         0.1,
		Far:          100,
		CamDistance:  2.5,
		OrthoHeight:  1.5,
		OrthoBlend:   0,
		SphereRadius: 1.5,
		PoleSign:     1,
		Aspect:       1,
	}
	if k == Orthographic {
		p.CamDistance = 3.0
	}
	return p
}

// ApplyOverrides merges explicit sub-parameter overrides (by field name, as
// carried in preset records) onto p. Unknown names are configuration errors.
func (p *Params) ApplyOverrides(over map[string]float64) error {
	for _, name := range sortedKeys(over) {
		v := over[name]
		switch name {
		case "fov":
			p.FOVDeg = v
		case "near":
			p.Near = v
		case "far":
			p.Far = v
		case "camDistance":
			p.CamDistance = v
		case "orthoHeight":
			p.OrthoHeight = v
		case "orthoBlend":
			p.OrthoBlend = clamp(v, 0, 1)
		case "sphereRadius":
			p.SphereRadius = v
		case "poleSign":
			if v < 0 {
				p.PoleSign = -1
			} else {
				p.PoleSign = 1
			}
		default:
			return fmt.Errorf("projection override %q: unknown sub-parameter", name)
		}
	}
	return nil
}

// Tuning holds the modulation strengths and numeric guards. Configuration
// defaults, overridable from yaml.
type Tuning struct {
	DistanceStrength float64 // camera pull per unit of (morph + mid)
	PoleStrength     float64 // pole radius shrink per unit of high signal
	Epsilon          float64 // denominator clamp for stereographic
	OutputClamp      float64 // bound on projected coordinate magnitude
}

// DefaultTuning returns the stock guards.
func DefaultTuning() Tuning {
	return Tuning{DistanceStrength: 1.0, PoleStrength: 0.5, Epsilon: 1e-3, OutputClamp: 100}
}

// State is the single active projection: discipline, sub-parameters and the
// per-frame modulation inputs. Exactly one State is active per coordinator.
type State struct {
	kind Kind
	p    Params
	tun  Tuning

	// modulation inputs, fed once per frame
	morph float64
	mid   float64
	high  float64
}

// NewState builds a State for the discipline from its defaults merged with
// explicit overrides.
func NewState(kind Kind, overrides map[string]float64, tun Tuning) (*State, error) {
	if !Known(string(kind)) {
		return nil, fmt.Errorf("projection %q: %w", kind, ErrUnknownKind)
	}
	p := DefaultParams(kind)
	if err := p.ApplyOverrides(overrides); err != nil {
		return nil, err
	}
	return &State{kind: kind, p: p, tun: tun}, nil
}

// Kind returns the active discipline.
func (s *State) Kind() Kind { return s.kind }

// Params returns the current sub-parameters.
func (s *State) Params() Params { return s.p }

// SetAspect updates the viewport aspect ratio.
func (s *State) SetAspect(aspect float64) {
	if aspect > 0 {
		s.p.Aspect = aspect
	}
}

// SetModulation feeds the per-frame modulation inputs (morph factor plus the
// mid and high derived interaction channels).
func (s *State) SetModulation(morph, mid, high float64) {
	s.morph = sanitize(morph)
	s.mid = sanitize(mid)
	s.high = sanitize(high)
}

// effectiveDistance couples animation state into camera placement: the
// camera pulls in as morph and mid-signal rise, clamped off the near plane.
func (s *State) effectiveDistance() float64 {
	d := s.p.CamDistance - (s.morph+s.mid)*s.tun.DistanceStrength
	min := s.p.Near + s.tun.Epsilon
	if d < min {
		d = min
	}
	return d
}

// Matrices returns the current projection and view matrices.
func (s *State) Matrices() (proj, view Mat4) {
	fov := s.p.FOVDeg * math.Pi / 180
	persp := PerspectiveMat(fov, s.p.Aspect, s.p.Near, s.p.Far)

	switch s.kind {
	case Orthographic:
		h := s.p.OrthoHeight
		w := h * s.p.Aspect
		ortho := OrthographicMat(-w, w, -h, h, s.p.Near, s.p.Far)
		proj = LerpMat(ortho, persp, s.p.OrthoBlend)
		view = LookAtMat(Vec3{Z: s.p.CamDistance}, Vec3{}, Vec3{Y: 1})
	default:
		proj = persp
		view = LookAtMat(Vec3{Z: s.effectiveDistance()}, Vec3{}, Vec3{Y: 1})
	}
	return proj, view
}

// Project4 collapses a 4D point into the 3D viewing space under the active
// discipline. Numeric degeneracies are recovered locally by clamping; the
// result never carries NaN or infinity into the pipeline.
func (s *State) Project4(v geometry.Vec4) Vec3 {
	var out Vec3
	switch s.kind {
	case Stereographic:
		out = s.stereographic(v)
	case Orthographic:
		out = Vec3{v.X, v.Y, v.Z}
	default:
		// 4D perspective: scale xyz by distance over (distance + w)
		den := s.effectiveDistance() + v.W
		den = clampDenominator(den, s.tun.Epsilon)
		f := s.effectiveDistance() / den
		out = Vec3{v.X * f, v.Y * f, v.Z * f}
	}
	return s.clampOutput(out)
}

// stereographic projects from the pole at (0,0,0, poleSign*R) onto the
// w = 0 hyperplane. The pole radius shrinks with the high-frequency signal.
func (s *State) stereographic(v geometry.Vec4) Vec3 {
	r := s.p.SphereRadius * (1 - s.high*s.tun.PoleStrength)
	den := r - s.p.PoleSign*v.W
	den = clampDenominator(den, s.tun.Epsilon)
	f := r / den
	return Vec3{v.X * f, v.Y * f, v.Z * f}
}

func (s *State) clampOutput(v Vec3) Vec3 {
	c := s.tun.OutputClamp
	return Vec3{clamp(v.X, -c, c), clamp(v.Y, -c, c), clamp(v.Z, -c, c)}
}

// clampDenominator keeps |den| >= eps while preserving sign, so points at or
// approaching the pole clamp instead of propagating infinity.
func clampDenominator(den, eps float64) float64 {
	if math.IsNaN(den) {
		return eps
	}
	if den >= 0 && den < eps {
		return eps
	}
	if den < 0 && den > -eps {
		return -eps
	}
	return den
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func sanitize(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func sortedKeys(m map[string]float64) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
