package interaction

import (
	"math"
	"sync"
	"time"
)

// Tuning holds the channel constants. These are configuration defaults, not
// load-bearing values; internal/config overrides them from yaml.
type Tuning struct {
	ScrollNorm    float64 // k1: intensity per unit of scroll delta
	ScrollVelNorm float64 // k2: velocity per (delta/second)
	MoveNorm      float64 // intensity per unit of pointer travel
	MoveVelNorm   float64 // per-axis velocity per (travel/second)

	ScrollDecay      time.Duration // watchdog window before scroll clears
	MoveDecay        time.Duration // watchdog window before move clears
	HoldThreshold    time.Duration // press longer than this counts as holding
	MultiClickWindow time.Duration // presses within this window bump ClickCount
	ReleaseDecay     time.Duration // hold intensity clears this long after release

	HoldRamp     float64 // seconds of holding to reach full intensity
	IdleTimeout  float64 // seconds of no activity before decay starts
	IdleHalfLife float64 // seconds for the decay factor to halve afterwards
}

// DefaultTuning returns the stock constants.
func DefaultTuning() Tuning {
	return Tuning{
		ScrollNorm:       0.01,
		ScrollVelNorm:    0.002,
		MoveNorm:         2.0,
		MoveVelNorm:      0.8,
		ScrollDecay:      150 * time.Millisecond,
		MoveDecay:        120 * time.Millisecond,
		HoldThreshold:    120 * time.Millisecond,
		MultiClickWindow: 300 * time.Millisecond,
		ReleaseDecay:     250 * time.Millisecond,
		HoldRamp:         1.5,
		IdleTimeout:      3.0,
		IdleHalfLife:     1.5,
	}
}

// Engine turns raw pointer/scroll/touch primitives into the normalized
// Signals snapshot. Channels run independently; each keeps at most one live
// decay timer (a new event cancels the prior one before arming the next).
//
// The clock reports elapsed seconds and is injected so the engine stays
// deterministic under test.
//
// TODO: per-touch signal mapping beyond the primary touch (extra touches are
// only counted today).
type Engine struct {
	mu    sync.Mutex
	tun   Tuning
	sched Scheduler
	clock func() float64

	sig Signals

	// scroll
	cancelScroll func()
	lastScrollT  float64
	haveScroll   bool

	// press-hold
	cancelRelease func()
	pressed       bool
	pressedAt     float64
	lastPressT    float64
	havePress     bool

	// pointer-move
	cancelMove func()
	lastMoveT  float64
	lastMoveX  float64
	lastMoveY  float64
	haveMove   bool

	lastActivity float64
	haveActivity bool
}

// New constructs an Engine. sched supplies debounce timers; clock reports
// elapsed seconds.
func New(tun Tuning, sched Scheduler, clock func() float64) *Engine {
	e := &Engine{tun: tun, sched: sched, clock: clock}
	e.sig = Zero()
	return e
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
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

// Scroll feeds one raw scroll event (signed delta in host units).
func (e *Engine) Scroll(delta float64) {
	if !finite(delta) || delta == 0 {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.clock()
	dt := 1.0 / 60.0
	if e.haveScroll && now > e.lastScrollT {
		dt = now - e.lastScrollT
	}
	e.lastScrollT = now
	e.haveScroll = true

	e.sig.Scroll.Active = true
	e.sig.Scroll.Intensity = clamp01(math.Abs(delta) * e.tun.ScrollNorm)
	e.sig.Scroll.Velocity = clamp01(math.Abs(delta) / dt * e.tun.ScrollVelNorm)
	if delta > 0 {
		e.sig.Scroll.Direction = 1
	} else {
		e.sig.Scroll.Direction = -1
	}
	e.markActivity(now)

	if e.cancelScroll != nil {
		e.cancelScroll()
	}
	e.cancelScroll = e.sched.Schedule(e.tun.ScrollDecay, func() {
		e.mu.Lock()
		e.sig.Scroll = ScrollState{}
		e.cancelScroll = nil
		e.mu.Unlock()
	})
}

// PointerMove feeds one pointer sample in normalized [0,1] coordinates.
func (e *Engine) PointerMove(x, y float64) {
	if !finite(x, y) {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.clock()
	if !e.haveMove {
		e.lastMoveX, e.lastMoveY, e.lastMoveT = x, y, now
		e.haveMove = true
		return
	}
	dt := now - e.lastMoveT
	if dt <= 0 {
		dt = 1.0 / 60.0
	}
	dx := x - e.lastMoveX
	dy := y - e.lastMoveY
	e.lastMoveX, e.lastMoveY, e.lastMoveT = x, y, now

	dist := math.Hypot(dx, dy)
	if dist == 0 {
		return
	}
	e.sig.Move.Active = true
	e.sig.Move.Intensity = clamp01(dist * e.tun.MoveNorm)
	e.sig.Move.VelX = clamp01(math.Abs(dx) / dt * e.tun.MoveVelNorm)
	e.sig.Move.VelY = clamp01(math.Abs(dy) / dt * e.tun.MoveVelNorm)
	e.sig.Move.X, e.sig.Move.Y = x, y
	e.markActivity(now)

	if e.cancelMove != nil {
		e.cancelMove()
	}
	e.cancelMove = e.sched.Schedule(e.tun.MoveDecay, func() {
		e.mu.Lock()
		x, y := e.sig.Move.X, e.sig.Move.Y
		e.sig.Move = MoveState{X: x, Y: y}
		e.cancelMove = nil
		e.mu.Unlock()
	})
}

// Press feeds a press (mouse-down or primary touch-down).
func (e *Engine) Press() {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.clock()
	if e.havePress && now-e.lastPressT <= e.tun.MultiClickWindow.Seconds() {
		e.sig.Hold.ClickCount++
	} else {
		e.sig.Hold.ClickCount = 1
	}
	e.lastPressT = now
	e.havePress = true

	e.pressed = true
	e.pressedAt = now
	e.sig.Hold.Active = true
	e.markActivity(now)

	// a re-press must beat any pending post-release decay
	if e.cancelRelease != nil {
		e.cancelRelease()
		e.cancelRelease = nil
	}
}

// Release feeds the matching release. Final intensity reflects the total
// hold duration, then clears after the release-decay window unless a new
// press arrives first.
func (e *Engine) Release() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.pressed {
		return
	}
	now := e.clock()
	held := now - e.pressedAt
	e.pressed = false
	e.sig.Hold.Holding = false
	e.sig.Hold.HoldFor = 0
	e.sig.Hold.Intensity = clamp01(held / e.tun.HoldRamp)
	e.markActivity(now)

	if e.cancelRelease != nil {
		e.cancelRelease()
	}
	e.cancelRelease = e.sched.Schedule(e.tun.ReleaseDecay, func() {
		e.mu.Lock()
		clicks := e.sig.Hold.ClickCount
		e.sig.Hold = HoldState{ClickCount: clicks}
		e.cancelRelease = nil
		e.mu.Unlock()
	})
}

// TouchStart maps the primary touch onto the hold and move channels.
func (e *Engine) TouchStart(x, y float64) {
	if !finite(x, y) {
		return
	}
	e.mu.Lock()
	first := !e.sig.Touch.Active
	e.sig.Touch.Active = true
	e.sig.Touch.Count++
	e.mu.Unlock()
	if first {
		e.Press()
		e.PointerMove(x, y)
	}
}

// TouchMove feeds a primary-touch move sample.
func (e *Engine) TouchMove(x, y float64) {
	e.PointerMove(x, y)
}

// TouchEnd releases one touch; releasing the last one releases the hold.
func (e *Engine) TouchEnd() {
	e.mu.Lock()
	if e.sig.Touch.Count > 0 {
		e.sig.Touch.Count--
	}
	last := e.sig.Touch.Count == 0
	if last {
		e.sig.Touch.Active = false
	}
	e.mu.Unlock()
	if last {
		e.Release()
	}
}

// Update advances frame-driven state: hold-intensity growth while pressed
// and the idle decay. Debounced decay is timer-driven and does not happen
// here.
func (e *Engine) Update() {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.clock()
	if e.pressed {
		held := now - e.pressedAt
		e.sig.Hold.HoldFor = held
		if held >= e.tun.HoldThreshold.Seconds() {
			e.sig.Hold.Holding = true
			e.sig.Hold.Intensity = clamp01(held / e.tun.HoldRamp)
		}
	}

	if !e.haveActivity {
		e.lastActivity = now
		e.haveActivity = true
	}
	idleFor := now - e.lastActivity
	e.sig.Idle.Since = idleFor
	if idleFor <= e.tun.IdleTimeout {
		e.sig.Idle.Decay = 1
	} else {
		over := idleFor - e.tun.IdleTimeout
		e.sig.Idle.Decay = math.Exp2(-over / e.tun.IdleHalfLife)
	}

	e.sig.Pattern = e.classify()
}

func (e *Engine) classify() Pattern {
	s := e.sig
	switch {
	case s.Scroll.Intensity > 0.8 || s.Hold.Intensity > 0.8 || s.Move.Intensity > 0.8:
		return PatternIntense
	case s.Hold.ClickCount >= 3 && s.Hold.Active:
		return PatternRhythmic
	case s.Move.Active && s.Move.Intensity > 0 && s.Move.VelX < 0.2 && s.Move.VelY < 0.2:
		return PatternPrecise
	default:
		return PatternCasual
	}
}

func (e *Engine) markActivity(now float64) {
	e.lastActivity = now
	e.haveActivity = true
	e.sig.Idle.Since = 0
	e.sig.Idle.Decay = 1
}

// Snapshot returns a copy of the current signal state.
func (e *Engine) Snapshot() Signals {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sig
}
