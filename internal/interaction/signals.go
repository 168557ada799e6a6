package interaction

// Pattern is a coarse classification of how the user is currently
// interacting, derived from channel intensities and velocities.
type Pattern string

const (
	PatternCasual   Pattern = "casual"
	PatternRhythmic Pattern = "rhythmic"
	PatternIntense  Pattern = "intense"
	PatternPrecise  Pattern = "precise"
)

// ScrollState is the scroll channel snapshot.
type ScrollState struct {
	Active    bool
	Intensity float64 // 0..1
	Velocity  float64 // 0..1
	Direction int     // -1, 0, +1
}

// HoldState is the press-and-hold channel snapshot.
type HoldState struct {
	Active     bool
	Holding    bool
	Intensity  float64 // 0..1, grows with hold duration up to the cap
	ClickCount int
	HoldFor    float64 // seconds held so far (0 when not pressed)
}

// MoveState is the pointer-move channel snapshot.
type MoveState struct {
	Active    bool
	Intensity float64 // 0..1
	VelX      float64 // 0..1 per axis
	VelY      float64
	X, Y      float64 // last normalized position
}

// TouchState mirrors the primary touch onto hold/move; extra simultaneous
// touches are only counted, not mapped to their own signals.
type TouchState struct {
	Active bool
	Count  int
}

// IdleState tracks time since the most recent activity on any channel.
// Decay stays at 1 until the idle timeout elapses, then falls smoothly
// toward 0. Any activity restores it to 1 immediately.
type IdleState struct {
	Since float64 // seconds since last activity
	Decay float64 // 0..1
}

// Signals is the read-only per-frame snapshot handed to the parameter
// mapping and chromatic layers.
type Signals struct {
	Scroll  ScrollState
	Hold    HoldState
	Move    MoveState
	Touch   TouchState
	Idle    IdleState
	Pattern Pattern
}

// Zero returns a rest-state snapshot (no activity, full idle decay).
func Zero() Signals {
	return Signals{Idle: IdleState{Decay: 1}, Pattern: PatternCasual}
}
