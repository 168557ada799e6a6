// Package transition drives smooth, type-aware interpolation between two
// parameter sets over a fixed duration, with an optional geometry/projection
// switch deferred to the end so the outgoing shape finishes its animation
// before being replaced.
package transition

import (
	"math"

	"github.com/coreman2200/funtimes-hypercube/internal/geometry"
	"github.com/coreman2200/funtimes-hypercube/internal/param"
	"github.com/coreman2200/funtimes-hypercube/internal/projection"
)

// State enumerates the controller states.
type State string

const (
	Idle    State = "idle"
	Running State = "running"
)

// Switch is the deferred geometry/projection replacement applied when a
// transition completes.
type Switch struct {
	Geometry      string
	GeometrySub   geometry.SubParams
	HasGeometry   bool
	Projection    projection.Kind
	ProjectionSub map[string]float64
	HasProjection bool
}

func (s Switch) equal(o Switch) bool {
	if s.HasGeometry != o.HasGeometry || s.HasProjection != o.HasProjection {
		return false
	}
	if s.HasGeometry && (s.Geometry != o.Geometry || s.GeometrySub != o.GeometrySub) {
		return false
	}
	if s.HasProjection {
		if s.Projection != o.Projection || len(s.ProjectionSub) != len(o.ProjectionSub) {
			return false
		}
		for k, v := range s.ProjectionSub {
			if o.ProjectionSub[k] != v {
				return false
			}
		}
	}
	return true
}

// Target is what a transition runs toward.
type Target struct {
	Base   param.Set
	Switch Switch
}

// Hooks are the controller's callbacks into the coordinator.
type Hooks struct {
	// ApplySwitch performs the deferred geometry/projection swap.
	ApplySwitch func(Switch)
	// Completed receives the exact target set, free of interpolation drift.
	Completed func(param.Set)
}

// Controller is the Idle -> Running -> Idle state machine. At most one
// transition is in flight; beginning a new one mid-flight captures the
// current interpolated values as the new source, never snapping back.
type Controller struct {
	state    State
	hooks    Hooks
	ease     func(float64) float64
	source   param.Set
	target   Target
	elapsed  float64
	duration float64
}

// NewController builds an idle controller.
func NewController(h Hooks) *Controller {
	return &Controller{state: Idle, hooks: h, ease: easeLinear}
}

// SetEase installs a progress-shaping function. The shape must stay within
// [0,1] so interpolated values remain bounded by their endpoints; anything
// else falls back to linear.
func (c *Controller) SetEase(name string) {
	switch name {
	case "smooth":
		c.ease = easeSmooth
	case "cubic":
		c.ease = easeCubic
	default:
		c.ease = easeLinear
	}
}

// State reports the current controller state.
func (c *Controller) State() State { return c.state }

// Running reports whether a transition is in flight.
func (c *Controller) Running() bool { return c.state == Running }

// Begin starts a transition from current toward target over duration
// seconds. A Begin toward an identical in-flight target is a no-op. A
// non-positive duration applies the target synchronously, collapsing any
// in-flight record.
func (c *Controller) Begin(target Target, duration float64, current param.Set) {
	if c.state == Running && c.target.Base.Equal(target.Base) && c.target.Switch.equal(target.Switch) {
		return
	}
	if duration <= 0 {
		c.apply(target)
		return
	}
	c.source = current.Clone()
	c.target = Target{Base: target.Base.Clone(), Switch: target.Switch}
	c.elapsed = 0
	c.duration = duration
	c.state = Running
}

// CollapseNow synchronously finishes any in-flight transition at its target
// rather than leaving stale interpolation for the next tick.
func (c *Controller) CollapseNow() {
	if c.state != Running {
		return
	}
	c.apply(c.target)
}

func (c *Controller) apply(target Target) {
	c.state = Idle
	c.source = nil
	if c.hooks.ApplySwitch != nil && (target.Switch.HasGeometry || target.Switch.HasProjection) {
		c.hooks.ApplySwitch(target.Switch)
	}
	if c.hooks.Completed != nil {
		c.hooks.Completed(target.Base.Clone())
	}
}

// Tick advances the transition by dt seconds and returns the interpolated
// set. When progress reaches 1 the deferred switch fires, the exact target
// set is handed to Completed, and the controller returns to Idle.
func (c *Controller) Tick(dt float64) (param.Set, bool) {
	if c.state != Running {
		return nil, false
	}
	c.elapsed += dt
	progress := math.Min(c.elapsed/c.duration, 1)
	if progress >= 1 {
		target := c.target
		c.apply(target)
		return target.Base.Clone(), false
	}
	return c.Sample(progress), true
}

// Sample interpolates per key at an explicit progress: numeric keys lerp,
// fixed-length arrays lerp component-wise, everything else snaps to the
// target at the midpoint and never before. Keys absent from the source hold
// the target value throughout.
func (c *Controller) Sample(progress float64) param.Set {
	u := c.ease(clamp01(progress))
	out := make(param.Set, len(c.target.Base))
	for k, tv := range c.target.Base {
		sv, ok := c.source[k]
		if !ok {
			out[k] = tv.Clone()
			continue
		}
		out[k] = param.Lerp(sv, tv, u)
	}
	return out
}

// Current returns the interpolated set at the controller's own elapsed
// progress. Only meaningful while Running.
func (c *Controller) Current() param.Set {
	if c.state != Running {
		return nil
	}
	return c.Sample(c.elapsed / c.duration)
}

func easeLinear(x float64) float64 { return x }

// classic smoothstep
func easeSmooth(x float64) float64 { return x * x * (3 - 2*x) }

// smootherstep
func easeCubic(x float64) float64 { return x * x * x * (x*(x*6-15) + 10) }

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
