// Package ebitengpu implements the gpu.Context port on an ebiten render
// surface. Programs compile from Kage source (the single-source stage; the
// vertex stage runs CPU-side here), meshes are retained 4D vertex buffers,
// and draws tessellate the projected vertices into screen-space triangles
// dispatched through DrawTrianglesShader.
package ebitengpu

import (
	"errors"
	"math"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/coreman2200/funtimes-hypercube/internal/geometry"
	"github.com/coreman2200/funtimes-hypercube/internal/gpu"
)

const maxBatchVertices = 60000 // stay under ebiten's uint16 index space

// Context renders onto the ebiten screen handed to BeginFrame each Draw.
type Context struct {
	screen *ebiten.Image
	w, h   int
}

// New returns a context with a nominal size; the real size tracks the
// screen passed to BeginFrame.
func New(w, h int) *Context { return &Context{w: w, h: h} }

// BeginFrame points the context at this frame's render target. Must be
// called from the host's Draw callback before the coordinator ticks.
func (c *Context) BeginFrame(screen *ebiten.Image) {
	c.screen = screen
	b := screen.Bounds()
	c.w, c.h = b.Dx(), b.Dy()
}

func (c *Context) Size() (int, int) { return c.w, c.h }

// Compile builds a Kage program from the fragment source. Kage has no
// separate vertex stage, so src.Vertex is ignored here; the declared
// uniform names are scanned out of the source so undeclared uniforms can be
// dropped instead of failing the draw.
func (c *Context) Compile(src gpu.ProgramSource) (gpu.Program, error) {
	sh, err := ebiten.NewShader([]byte(src.Fragment))
	if err != nil {
		return nil, &gpu.CompileError{Stage: "fragment", Log: err.Error()}
	}
	return &program{
		shader:   sh,
		declared: scanUniforms(src.Fragment),
		uniforms: map[string]any{},
	}, nil
}

// scanUniforms collects top-level `var Name type` declarations from Kage
// source.
func scanUniforms(src string) map[string]bool {
	out := map[string]bool{}
	for _, line := range strings.Split(src, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "var ") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) >= 3 {
			out[fields[1]] = true
		}
	}
	return out
}

// uniformName maps the engine's reserved key convention onto Kage's
// exported-identifier convention: u_morphFactor -> MorphFactor.
func uniformName(key string) string {
	k := strings.TrimPrefix(key, "u_")
	if k == "" {
		return k
	}
	return strings.ToUpper(k[:1]) + k[1:]
}

type program struct {
	shader   *ebiten.Shader
	declared map[string]bool
	uniforms map[string]any
}

func (p *program) put(key string, v any) {
	name := uniformName(key)
	if !p.declared[name] {
		return
	}
	p.uniforms[name] = v
}

func (p *program) SetFloat(name string, v float64) { p.put(name, float32(v)) }
func (p *program) SetInt(name string, v int)       { p.put(name, v) }

func (p *program) SetVec(name string, v []float64) {
	vec := make([]float32, len(v))
	for i, f := range v {
		vec[i] = float32(f)
	}
	p.put(name, vec)
}

func (p *program) SetMatrix(name string, m [16]float64) {
	vec := make([]float32, 16)
	for i, f := range m {
		vec[i] = float32(f)
	}
	p.put(name, vec)
}

func (p *program) Release() {
	if p.shader != nil {
		p.shader.Dispose()
		p.shader = nil
	}
}

type mesh struct {
	verts    []geometry.Vec4
	topo     geometry.Topology
	released bool
}

func (m *mesh) VertexCount() int            { return len(m.verts) }
func (m *mesh) Topology() geometry.Topology { return m.topo }

func (c *Context) CreateMesh(m geometry.Mesh) (gpu.Mesh, error) {
	if len(m.Vertices) == 0 {
		return nil, errors.New("ebitengpu: empty vertex buffer")
	}
	verts := make([]geometry.Vec4, len(m.Vertices))
	copy(verts, m.Vertices)
	return &mesh{verts: verts, topo: m.Topology}, nil
}

func (c *Context) DestroyMesh(h gpu.Mesh) {
	if mh, ok := h.(*mesh); ok {
		mh.released = true
		mh.verts = nil
	}
}

// Draw runs the CPU vertex stage (4D collapse, camera transform, viewport
// mapping) and dispatches the resulting triangles through the program.
func (c *Context) Draw(pr gpu.Program, h gpu.Mesh, pass gpu.Pass) error {
	p, ok := pr.(*program)
	if !ok || p.shader == nil {
		return errors.New("ebitengpu: foreign or released program")
	}
	mh, ok := h.(*mesh)
	if !ok || mh.released {
		return errors.New("ebitengpu: draw after destroy")
	}
	if c.screen == nil {
		return errors.New("ebitengpu: no frame begun")
	}

	screenPts := make([][2]float32, 0, len(mh.verts))
	visible := make([]bool, 0, len(mh.verts))
	for _, v := range mh.verts {
		sp, okv := c.toScreen(v, pass)
		screenPts = append(screenPts, sp)
		visible = append(visible, okv)
	}

	ps := float32(pass.PointSize)
	if ps <= 0 {
		ps = 2
	}

	b := newBatcher(c.screen, p)
	switch mh.topo {
	case geometry.Points:
		for i, sp := range screenPts {
			if visible[i] {
				b.quad(sp, ps)
			}
		}
	case geometry.Lines:
		for i := 0; i+1 < len(screenPts); i += 2 {
			if visible[i] && visible[i+1] {
				b.segment(screenPts[i], screenPts[i+1], ps/2)
			}
		}
	case geometry.Triangles:
		for i := 0; i+2 < len(screenPts); i += 3 {
			if visible[i] && visible[i+1] && visible[i+2] {
				b.triangle(screenPts[i], screenPts[i+1], screenPts[i+2])
			}
		}
	}
	b.flush()
	return nil
}

// toScreen collapses one 4D vertex to pixel coordinates. Vertices behind
// the camera or outside a generous NDC guard band are culled.
func (c *Context) toScreen(v geometry.Vec4, pass gpu.Pass) ([2]float32, bool) {
	p3 := pass.Project4(v)
	eye := pass.View.Transform(p3)
	clip := pass.Projection.Transform(eye)
	if math.IsNaN(clip.X) || math.IsNaN(clip.Y) {
		return [2]float32{}, false
	}
	if eye.Z > -1e-6 {
		return [2]float32{}, false
	}
	if clip.X < -2 || clip.X > 2 || clip.Y < -2 || clip.Y > 2 {
		return [2]float32{}, false
	}
	x := float32((clip.X + 1) / 2 * float64(c.w))
	y := float32((1 - (clip.Y+1)/2) * float64(c.h))
	return [2]float32{x, y}, true
}

// batcher accumulates screen triangles and flushes before the uint16 index
// space overflows.
type batcher struct {
	screen *ebiten.Image
	prog   *program
	verts  []ebiten.Vertex
	idx    []uint16
}

func newBatcher(screen *ebiten.Image, prog *program) *batcher {
	return &batcher{screen: screen, prog: prog}
}

func (b *batcher) vertex(x, y float32) uint16 {
	b.verts = append(b.verts, ebiten.Vertex{
		DstX: x, DstY: y,
		SrcX: x, SrcY: y,
		ColorR: 1, ColorG: 1, ColorB: 1, ColorA: 1,
	})
	return uint16(len(b.verts) - 1)
}

func (b *batcher) ensure(n int) {
	if len(b.verts)+n > maxBatchVertices {
		b.flush()
	}
}

func (b *batcher) triangle(a, c, d [2]float32) {
	b.ensure(3)
	i0 := b.vertex(a[0], a[1])
	i1 := b.vertex(c[0], c[1])
	i2 := b.vertex(d[0], d[1])
	b.idx = append(b.idx, i0, i1, i2)
}

func (b *batcher) quad(center [2]float32, size float32) {
	b.ensure(4)
	h := size / 2
	i0 := b.vertex(center[0]-h, center[1]-h)
	i1 := b.vertex(center[0]+h, center[1]-h)
	i2 := b.vertex(center[0]+h, center[1]+h)
	i3 := b.vertex(center[0]-h, center[1]+h)
	b.idx = append(b.idx, i0, i1, i2, i0, i2, i3)
}

func (b *batcher) segment(p0, p1 [2]float32, half float32) {
	dx := p1[0] - p0[0]
	dy := p1[1] - p0[1]
	n := float32(math.Hypot(float64(dx), float64(dy)))
	if n == 0 {
		return
	}
	if half < 0.5 {
		half = 0.5
	}
	// perpendicular offset
	ox := -dy / n * half
	oy := dx / n * half

	b.ensure(4)
	i0 := b.vertex(p0[0]+ox, p0[1]+oy)
	i1 := b.vertex(p1[0]+ox, p1[1]+oy)
	i2 := b.vertex(p1[0]-ox, p1[1]-oy)
	i3 := b.vertex(p0[0]-ox, p0[1]-oy)
	b.idx = append(b.idx, i0, i1, i2, i0, i2, i3)
}

func (b *batcher) flush() {
	if len(b.idx) == 0 {
		return
	}
	op := &ebiten.DrawTrianglesShaderOptions{Uniforms: b.prog.uniforms}
	b.screen.DrawTrianglesShader(b.verts, b.idx, b.prog.shader, op)
	b.verts = b.verts[:0]
	b.idx = b.idx[:0]
}
