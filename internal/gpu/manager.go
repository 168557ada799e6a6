package gpu

import (
	"errors"

	"github.com/rs/zerolog"

	"github.com/coreman2200/funtimes-hypercube/internal/param"
	"github.com/coreman2200/funtimes-hypercube/internal/projection"
)

// Manager compiles/links the active GPU program and dispatches typed uniform
// updates from the effective parameter set. A compile failure leaves the
// manager with no active program; callers keep rendering through the no-op
// path until a later compile succeeds.
type Manager struct {
	ctx  Context
	prog Program
	log  zerolog.Logger
}

// NewManager wires a manager over the context.
func NewManager(ctx Context, log zerolog.Logger) *Manager {
	return &Manager{ctx: ctx, log: log}
}

// Compile builds a new program and makes it active, releasing the previous
// one. On CompileError the previous program is still released (its sources
// are assumed stale) and the manager goes inert.
func (m *Manager) Compile(src ProgramSource) error {
	if m.prog != nil {
		m.prog.Release()
		m.prog = nil
	}
	p, err := m.ctx.Compile(src)
	if err != nil {
		var ce *CompileError
		if errors.As(err, &ce) {
			m.log.Error().Str("program", src.Name).Str("stage", ce.Stage).
				Str("log", ce.Log).Msg("shader compile failed; rendering inert")
		}
		return err
	}
	m.prog = p
	m.log.Debug().Str("program", src.Name).Msg("shader program linked")
	return nil
}

// Active reports whether a usable program is bound.
func (m *Manager) Active() bool { return m.prog != nil }

// Program returns the active program, or nil when inert.
func (m *Manager) Program() Program { return m.prog }

// BindUniforms pushes the effective parameter set plus the camera matrices.
// Dispatch is type-directed: scalars as floats, fixed-length arrays as
// vectors, booleans as 0/1 integers. Only keys under the engine's reserved
// naming convention reach the GPU; host-side metadata (geometry display
// names and the like) is skipped.
func (m *Manager) BindUniforms(eff param.Set, proj, view projection.Mat4) {
	if m.prog == nil {
		return
	}
	for _, key := range eff.Keys() {
		if !param.IsUniformKey(key) {
			continue
		}
		v := eff[key]
		switch v.Kind {
		case param.KindScalar:
			m.prog.SetFloat(key, v.Num)
		case param.KindVec2, param.KindVec3, param.KindVec4:
			m.prog.SetVec(key, v.Vec)
		case param.KindBool:
			b := 0
			if v.Flag {
				b = 1
			}
			m.prog.SetInt(key, b)
		}
	}
	m.prog.SetMatrix("u_projectionMatrix", [16]float64(proj))
	m.prog.SetMatrix("u_viewMatrix", [16]float64(view))
}

// Release frees the active program.
func (m *Manager) Release() {
	if m.prog != nil {
		m.prog.Release()
		m.prog = nil
	}
}
