// Package fake is a recording GPU context for headless runs and tests: it
// counts live meshes (so resource-leak invariants are assertable), captures
// the last uniform values, and can simulate compile failures.
package fake

import (
	"errors"
	"sync"

	"github.com/coreman2200/funtimes-hypercube/internal/geometry"
	"github.com/coreman2200/funtimes-hypercube/internal/gpu"
)

// Context implements gpu.Context in memory.
type Context struct {
	mu sync.Mutex

	W, H int

	// FailCompile makes every Compile return a CompileError with this log.
	FailCompile bool
	CompileLog  string

	Compiles      int
	Draws         int
	LiveMeshes    int
	MaxLiveMeshes int
	LastUniforms  map[string]any
	LastPass      gpu.Pass
}

// New returns a context reporting the given surface size.
func New(w, h int) *Context {
	return &Context{W: w, H: h, LastUniforms: map[string]any{}}
}

func (c *Context) Size() (int, int) { return c.W, c.H }

func (c *Context) Compile(src gpu.ProgramSource) (gpu.Program, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Compiles++
	if c.FailCompile {
		log := c.CompileLog
		if log == "" {
			log = "forced failure"
		}
		return nil, &gpu.CompileError{Stage: "fragment", Log: log}
	}
	return &program{ctx: c}, nil
}

func (c *Context) CreateMesh(m geometry.Mesh) (gpu.Mesh, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(m.Vertices) == 0 {
		return nil, errors.New("fake gpu: empty vertex buffer")
	}
	c.LiveMeshes++
	if c.LiveMeshes > c.MaxLiveMeshes {
		c.MaxLiveMeshes = c.LiveMeshes
	}
	return &mesh{count: len(m.Vertices), topo: m.Topology}, nil
}

func (c *Context) DestroyMesh(h gpu.Mesh) {
	c.mu.Lock()
	defer c.mu.Unlock()
	mh, ok := h.(*mesh)
	if !ok || mh.released {
		return
	}
	mh.released = true
	c.LiveMeshes--
}

func (c *Context) Draw(p gpu.Program, h gpu.Mesh, pass gpu.Pass) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	mh, ok := h.(*mesh)
	if !ok {
		return errors.New("fake gpu: foreign mesh handle")
	}
	if mh.released {
		return errors.New("fake gpu: draw after destroy")
	}
	c.Draws++
	c.LastPass = pass
	return nil
}

// Uniform returns the last value dispatched for name.
func (c *Context) Uniform(name string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.LastUniforms[name]
	return v, ok
}

type mesh struct {
	count    int
	topo     geometry.Topology
	released bool
}

func (m *mesh) VertexCount() int            { return m.count }
func (m *mesh) Topology() geometry.Topology { return m.topo }

type program struct {
	ctx      *Context
	released bool
}

func (p *program) set(name string, v any) {
	p.ctx.mu.Lock()
	p.ctx.LastUniforms[name] = v
	p.ctx.mu.Unlock()
}

func (p *program) SetFloat(name string, v float64) { p.set(name, v) }
func (p *program) SetInt(name string, v int)       { p.set(name, v) }
func (p *program) SetMatrix(name string, m [16]float64) {
	p.set(name, m)
}
func (p *program) SetVec(name string, v []float64) {
	c := make([]float64, len(v))
	copy(c, v)
	p.set(name, c)
}
func (p *program) Release() { p.released = true }
