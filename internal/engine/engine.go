// Package engine hosts the Coordinator: the single owner of geometry,
// projection, parameter, interaction, transition, chroma and GPU state, and
// the per-frame tick that threads them together.
package engine

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/coreman2200/funtimes-hypercube/internal/chroma"
	"github.com/coreman2200/funtimes-hypercube/internal/diagnostics"
	"github.com/coreman2200/funtimes-hypercube/internal/geometry"
	"github.com/coreman2200/funtimes-hypercube/internal/gpu"
	"github.com/coreman2200/funtimes-hypercube/internal/interaction"
	"github.com/coreman2200/funtimes-hypercube/internal/param"
	"github.com/coreman2200/funtimes-hypercube/internal/preset"
	"github.com/coreman2200/funtimes-hypercube/internal/projection"
	"github.com/coreman2200/funtimes-hypercube/internal/transition"
)

// EventKind enumerates the observable state changes.
type EventKind string

const (
	GeometryChanged   EventKind = "geometry_changed"
	ProjectionChanged EventKind = "projection_changed"
	BaseParamChanged  EventKind = "base_param_changed"
	PresetApplied     EventKind = "preset_applied"
)

// Event describes one state change. Listeners run synchronously on the
// mutating goroutine and must not call back into the coordinator.
type Event struct {
	Kind       EventKind
	Key        string // BaseParamChanged
	Geometry   string // GeometryChanged
	Projection string // ProjectionChanged
	Preset     string // PresetApplied
}

// Options wires a coordinator. Ctx and Sched are required; everything else
// has a working default.
type Options struct {
	Ctx   gpu.Context
	Sched interaction.Scheduler
	Log   zerolog.Logger

	InteractionTuning *interaction.Tuning
	Modulation        *param.Modulation
	ProjectionTuning  *projection.Tuning
	ChromaTuning      *chroma.Tuning

	TokenSink chroma.TokenSink
	Reporter  diagnostics.Reporter
	Fragment  string // shader source, DefaultFragment when empty
	Ease      string
}

// Coordinator owns the full engine state. All exported methods are safe for
// concurrent use; the render host calls Tick once per frame.
type Coordinator struct {
	mu  sync.Mutex
	log zerolog.Logger

	ctx      gpu.Context
	mgr      *gpu.Manager
	input    *interaction.Engine
	mapper   param.Mapper
	schema   param.Schema
	trans    *transition.Controller
	colors   *chroma.Engine
	reporter diagnostics.Reporter
	projTun  projection.Tuning

	elapsed float64

	base      param.Set
	effective param.Set
	family    string
	familySub geometry.SubParams
	proj      *projection.State
	projOver  map[string]float64
	mesh      gpu.Mesh
	lastColor chroma.State

	listeners []func(Event)
}

// New builds a coordinator with the schema defaults as its base set. A
// shader compile failure is reported and degrades to the no-op render path
// rather than failing construction; geometry or projection failures are
// construction errors.
func New(opts Options) (*Coordinator, error) {
	it := interaction.DefaultTuning()
	if opts.InteractionTuning != nil {
		it = *opts.InteractionTuning
	}
	mod := param.DefaultModulation()
	if opts.Modulation != nil {
		mod = *opts.Modulation
	}
	pt := projection.DefaultTuning()
	if opts.ProjectionTuning != nil {
		pt = *opts.ProjectionTuning
	}
	ct := chroma.DefaultTuning()
	if opts.ChromaTuning != nil {
		ct = *opts.ChromaTuning
	}
	rep := opts.Reporter
	if rep == nil {
		rep = diagnostics.Discard
	}

	schema := param.DefaultSchema()
	c := &Coordinator{
		log:      opts.Log,
		ctx:      opts.Ctx,
		mgr:      gpu.NewManager(opts.Ctx, opts.Log),
		mapper:   param.NewMapper(schema, mod),
		schema:   schema,
		colors:   chroma.New(ct, opts.TokenSink),
		reporter: rep,
		projTun:  pt,
		base:     schema.Defaults(),
	}
	c.input = interaction.New(it, opts.Sched, func() float64 {
		return c.elapsedNow()
	})
	c.trans = transition.NewController(transition.Hooks{
		ApplySwitch: c.applySwitchLocked,
		Completed:   c.transitionDoneLocked,
	})
	c.trans.SetEase(opts.Ease)

	c.family = c.base["geometry"].Name
	c.familySub = geometry.DefaultSubParams()
	proj, err := projection.NewState(projection.Kind(c.base["projection"].Name), nil, pt)
	if err != nil {
		return nil, err
	}
	c.proj = proj

	if err := c.rebuildMeshLocked(); err != nil {
		return nil, err
	}

	src := opts.Fragment
	if src == "" {
		src = DefaultFragment
	}
	if err := c.compileLocked("main", src); err != nil {
		c.log.Warn().Err(err).Msg("starting with no-op render path")
	}
	return c, nil
}

func (c *Coordinator) elapsedNow() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.elapsed
}

// Input exposes the interaction engine for raw event forwarding.
func (c *Coordinator) Input() *interaction.Engine { return c.input }

// SetTokenSink attaches a color-token sink after construction; the sink is
// usually the ws broadcaster, which itself needs the coordinator first.
func (c *Coordinator) SetTokenSink(sink chroma.TokenSink) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.colors.SetSink(sink)
}

// SetReporter swaps the diagnostics reporter after construction.
func (c *Coordinator) SetReporter(rep diagnostics.Reporter) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if rep == nil {
		rep = diagnostics.Discard
	}
	c.reporter = rep
}

// OnChange registers a state-change listener.
func (c *Coordinator) OnChange(fn func(Event)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, fn)
}

func (c *Coordinator) emitLocked(ev Event) {
	for _, fn := range c.listeners {
		fn(ev)
	}
}

func (c *Coordinator) compileLocked(name, fragment string) error {
	err := c.mgr.Compile(gpu.ProgramSource{Name: name, Fragment: fragment})
	if err != nil {
		c.reporter.Report(diagnostics.Errf("SHADER.COMPILE", "shader compile failed", err.Error()))
	}
	return err
}

// Recompile swaps the active program. Failure leaves the coordinator on the
// no-op render path until a later compile succeeds.
func (c *Coordinator) Recompile(name, fragment string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.compileLocked(name, fragment)
}

// rebuildMeshLocked regenerates the active family's mesh. The old buffer is
// destroyed before the replacement is created so at most one buffer is live.
func (c *Coordinator) rebuildMeshLocked() error {
	m, err := geometry.Generate(c.family, c.familySub)
	if err != nil {
		return err
	}
	if c.mesh != nil {
		c.ctx.DestroyMesh(c.mesh)
		c.mesh = nil
	}
	h, err := c.ctx.CreateMesh(m)
	if err != nil {
		return err
	}
	c.mesh = h
	c.log.Debug().Str("family", c.family).Int("vertices", h.VertexCount()).
		Stringer("topology", h.Topology()).Msg("mesh rebuilt")
	return nil
}

// SetGeometry switches the active family, regenerating the mesh immediately.
func (c *Coordinator) SetGeometry(family string, sub geometry.SubParams) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !geometry.Known(family) {
		return fmt.Errorf("geometry %q: %w", family, geometry.ErrUnknownFamily)
	}
	prevFamily, prevSub := c.family, c.familySub
	c.family, c.familySub = family, sub
	if err := c.rebuildMeshLocked(); err != nil {
		c.family, c.familySub = prevFamily, prevSub
		return err
	}
	c.base["geometry"] = param.Enum(family)
	c.emitLocked(Event{Kind: GeometryChanged, Geometry: family})
	return nil
}

// SetProjection switches the discipline, rebuilding its sub-parameters from
// defaults merged with the overrides.
func (c *Coordinator) SetProjection(kind projection.Kind, overrides map[string]float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.setProjectionLocked(kind, overrides)
}

func (c *Coordinator) setProjectionLocked(kind projection.Kind, overrides map[string]float64) error {
	st, err := projection.NewState(kind, overrides, c.projTun)
	if err != nil {
		return err
	}
	c.proj = st
	c.projOver = overrides
	c.base["projection"] = param.Enum(string(kind))
	c.emitLocked(Event{Kind: ProjectionChanged, Projection: string(kind)})
	return nil
}

// SetBaseParameter writes one key of the base set, schema-validated and
// range-clamped.
func (c *Coordinator) SetBaseParameter(key string, v param.Value) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.setBaseLocked(key, v)
}

// SetBaseParameters applies a bulk update; the whole batch validates before
// any key lands.
func (c *Coordinator) SetBaseParameters(vals param.Set) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.schema.Validate(vals); err != nil {
		return err
	}
	for _, k := range vals.Keys() {
		if err := c.setBaseLocked(k, vals[k]); err != nil {
			return err
		}
	}
	return nil
}

func (c *Coordinator) setBaseLocked(key string, v param.Value) error {
	if err := c.schema.Validate(param.Set{key: v}); err != nil {
		return err
	}
	c.base[key] = c.schema.Clamp(key, v.Clone())
	c.emitLocked(Event{Kind: BaseParamChanged, Key: key})
	return nil
}

// LoadPreset transitions toward the record over seconds. Zero seconds
// applies synchronously, collapsing any in-flight transition first.
func (c *Coordinator) LoadPreset(rec preset.Record, seconds float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := rec.Validate(c.schema); err != nil {
		c.reporter.Report(diagnostics.Errf("PRESET.INVALID", "preset rejected", err.Error()))
		return err
	}
	recBase, err := rec.BaseSet()
	if err != nil {
		return err
	}

	target := c.base.Clone()
	target.Merge(recBase)
	target["geometry"] = param.Enum(rec.Geometry)
	target["projection"] = param.Enum(rec.Projection)

	sw := transition.Switch{}
	if rec.Geometry != c.family || rec.GeometrySub != c.familySub {
		sw.HasGeometry = true
		sw.Geometry = rec.Geometry
		sw.GeometrySub = rec.GeometrySub
	}
	if projection.Kind(rec.Projection) != c.proj.Kind() || len(rec.ProjectionSub) > 0 {
		sw.HasProjection = true
		sw.Projection = projection.Kind(rec.Projection)
		sw.ProjectionSub = rec.ProjectionSub
	}

	source := c.base
	if cur := c.trans.Current(); cur != nil {
		source = cur
	}
	c.trans.Begin(transition.Target{Base: target, Switch: sw}, seconds, source)
	c.emitLocked(Event{Kind: PresetApplied, Preset: rec.Name})
	return nil
}

// CapturePreset snapshots the current base state as a named record.
func (c *Coordinator) CapturePreset(name string) preset.Record {
	c.mu.Lock()
	defer c.mu.Unlock()
	return preset.FromState(name, c.family, c.familySub, c.proj.Kind(), c.projOver, c.base)
}

// applySwitchLocked is the transition controller's deferred swap hook. It
// runs under the coordinator lock (Begin/Tick are only reached from locked
// methods).
func (c *Coordinator) applySwitchLocked(sw transition.Switch) {
	if sw.HasGeometry {
		prevFamily, prevSub := c.family, c.familySub
		c.family, c.familySub = sw.Geometry, sw.GeometrySub
		if err := c.rebuildMeshLocked(); err != nil {
			c.family, c.familySub = prevFamily, prevSub
			c.reporter.Report(diagnostics.Errf("GEOMETRY.SWAP", "geometry swap failed", err.Error()))
			return
		}
		c.base["geometry"] = param.Enum(sw.Geometry)
		c.emitLocked(Event{Kind: GeometryChanged, Geometry: sw.Geometry})
	}
	if sw.HasProjection {
		if err := c.setProjectionLocked(sw.Projection, sw.ProjectionSub); err != nil {
			c.reporter.Report(diagnostics.Errf("PROJECTION.SWAP", "projection swap failed", err.Error()))
		}
	}
}

func (c *Coordinator) transitionDoneLocked(target param.Set) {
	// the exact target becomes authoritative, free of interpolation drift
	c.base = target
}

// Tick advances one frame: interaction update, transition-aware effective
// derivation, chroma, camera matrices, uniform dispatch, draw. It never
// fails the frame loop; draw errors are logged and the loop keeps ticking.
func (c *Coordinator) Tick(dt float64) {
	c.input.Update()
	sig := c.input.Snapshot()

	c.mu.Lock()
	defer c.mu.Unlock()
	c.elapsed += dt

	// the controller hands back the exact target on its completion frame;
	// using it (not the pre-transition base) keeps the last frame continuous
	base := c.base
	if cur, _ := c.trans.Tick(dt); cur != nil {
		base = cur
	}

	eff := c.mapper.ComputeEffective(base, sig, c.elapsed)

	c.lastColor = c.colors.Update(c.family, sig, c.elapsed)
	r, g, b := c.lastColor.Primary.RGB()
	eff["u_baseColor"] = param.Vec3(r, g, b)

	w, h := c.ctx.Size()
	eff["u_resolution"] = param.Vec2(float64(w), float64(h))
	if h > 0 {
		c.proj.SetAspect(float64(w) / float64(h))
	}

	c.proj.SetModulation(
		eff.Scalar("u_morphFactor", 0),
		eff.Scalar("u_audioMid", 0),
		eff.Scalar("u_audioHigh", 0),
	)
	projMat, viewMat := c.proj.Matrices()
	c.mgr.BindUniforms(eff, projMat, viewMat)
	c.effective = eff

	if c.mgr.Active() && c.mesh != nil {
		pass := gpu.Pass{
			Project4:   c.proj.Project4,
			Projection: projMat,
			View:       viewMat,
			PointSize:  eff.Scalar("u_lineThickness", 0.03) * 100,
		}
		if err := c.ctx.Draw(c.mgr.Program(), c.mesh, pass); err != nil {
			c.log.Debug().Err(err).Msg("draw failed")
		}
	}
}

// BaseParameters returns a snapshot of the authoritative base set.
func (c *Coordinator) BaseParameters() param.Set {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.base.Clone()
}

// EffectiveParameters returns the last derived effective set.
func (c *Coordinator) EffectiveParameters() param.Set {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.effective.Clone()
}

// Signals returns the current interaction snapshot.
func (c *Coordinator) Signals() interaction.Signals { return c.input.Snapshot() }

// Geometry reports the active family and its structural parameters.
func (c *Coordinator) Geometry() (string, geometry.SubParams) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.family, c.familySub
}

// Projection reports the active discipline.
func (c *Coordinator) Projection() projection.Kind {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.proj.Kind()
}

// Colors returns the last derived chromatic state.
func (c *Coordinator) Colors() chroma.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastColor
}

// Transitioning reports whether a parameter transition is in flight.
func (c *Coordinator) Transitioning() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.trans.Running()
}

// Close releases GPU resources.
func (c *Coordinator) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.mesh != nil {
		c.ctx.DestroyMesh(c.mesh)
		c.mesh = nil
	}
	c.mgr.Release()
}
