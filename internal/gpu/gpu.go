// Package gpu defines the render-surface ports the coordinator draws
// through: a context that compiles programs, owns mesh buffers and issues
// draws, plus the typed uniform dispatch layer. Implementations live in the
// fake (headless) and ebitengpu (windowed) subpackages.
package gpu

import (
	"fmt"

	"github.com/coreman2200/funtimes-hypercube/internal/geometry"
	"github.com/coreman2200/funtimes-hypercube/internal/projection"
)

// ProgramSource carries both shader stages. Backends that compile a single
// combined source (Kage) use Fragment and ignore Vertex.
type ProgramSource struct {
	Name     string
	Vertex   string
	Fragment string
}

// CompileError reports a shader compile or link failure. It is fatal to the
// program, never to the process: the coordinator degrades to a no-op render
// path instead of crashing the frame loop.
type CompileError struct {
	Stage string // "vertex", "fragment" or "link"
	Log   string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("shader %s compile failed: %s", e.Stage, e.Log)
}

// Program is a compiled GPU program with typed uniform setters. Setters on
// names the program does not declare are silently ignored.
type Program interface {
	SetFloat(name string, v float64)
	SetVec(name string, v []float64)
	SetInt(name string, v int)
	SetMatrix(name string, m [16]float64)
	Release()
}

// Mesh is a GPU-resident vertex buffer handle. Handles are owned exclusively
// by the coordinator and must be destroyed before a replacement is created.
type Mesh interface {
	VertexCount() int
	Topology() geometry.Topology
}

// Pass carries the per-frame vertex-stage inputs for one draw: the active
// discipline's 4D collapse plus the 3D camera matrices.
type Pass struct {
	Project4   func(geometry.Vec4) projection.Vec3
	Projection projection.Mat4
	View       projection.Mat4
	PointSize  float64
}

// Context is the GPU surface the coordinator renders through.
type Context interface {
	Compile(src ProgramSource) (Program, error)
	CreateMesh(m geometry.Mesh) (Mesh, error)
	DestroyMesh(h Mesh)
	Draw(p Program, h Mesh, pass Pass) error
	Size() (w, h int)
}
