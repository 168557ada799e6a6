package geometry

import "math"

// generateHypercube emits the tesseract edge lattice as a line list. Each of
// the 32 edges is subdivided GridDensity/4 times so denser settings read as
// a finer wireframe.
func generateHypercube(sub SubParams) Mesh {
	s := sub.Scale
	var corners []Vec4
	for i := 0; i < 16; i++ {
		corners = append(corners, Vec4{
			X: axisSign(i, 0) * s,
			Y: axisSign(i, 1) * s,
			Z: axisSign(i, 2) * s,
			W: axisSign(i, 3) * s,
		})
	}

	segs := sub.GridDensity / 4
	if segs < 1 {
		segs = 1
	}

	m := Mesh{Topology: Lines}
	for i := 0; i < 16; i++ {
		for bit := 0; bit < 4; bit++ {
			j := i ^ (1 << bit)
			if j < i {
				continue // each edge once
			}
			a, b := corners[i], corners[j]
			for k := 0; k < segs; k++ {
				t0 := float64(k) / float64(segs)
				t1 := float64(k+1) / float64(segs)
				p0 := lerp4(a, b, t0)
				p1 := lerp4(a, b, t1)
				m.Vertices = append(m.Vertices, p0, p1)
				m.Normals = append(m.Normals, p0.normalized(), p1.normalized())
				m.UVs = append(m.UVs, UV{t0, 0}, UV{t1, 0})
			}
		}
	}
	return m
}

// generateHypersphere samples the 3-sphere on a latitude/longitude-style
// grid of hyperspherical angles, producing a point cloud.
func generateHypersphere(sub SubParams) Mesh {
	n := sub.GridDensity
	m := Mesh{Topology: Points}
	for i := 0; i < n; i++ {
		t1 := math.Pi * (float64(i) + 0.5) / float64(n)
		for j := 0; j < n; j++ {
			t2 := math.Pi * (float64(j) + 0.5) / float64(n)
			for k := 0; k < n; k++ {
				t3 := 2 * math.Pi * float64(k) / float64(n)
				v := Vec4{
					X: math.Cos(t1),
					Y: math.Sin(t1) * math.Cos(t2),
					Z: math.Sin(t1) * math.Sin(t2) * math.Cos(t3),
					W: math.Sin(t1) * math.Sin(t2) * math.Sin(t3),
				}.scale(sub.Scale)
				m.Vertices = append(m.Vertices, v)
				m.Normals = append(m.Normals, v.normalized())
				m.UVs = append(m.UVs, UV{float64(k) / float64(n), float64(j) / float64(n)})
			}
		}
	}
	return m
}

// pentatope vertices of the regular 4-simplex, unit-normalized
func pentatope(scale float64) [5]Vec4 {
	r5 := math.Sqrt(5)
	raw := [5]Vec4{
		{1, 1, 1, -1 / r5},
		{1, -1, -1, -1 / r5},
		{-1, 1, -1, -1 / r5},
		{-1, -1, 1, -1 / r5},
		{0, 0, 0, 4 / r5},
	}
	var out [5]Vec4
	for i, v := range raw {
		out[i] = v.normalized().scale(scale)
	}
	return out
}

// generateHypertetra draws the 5-cell's 10 edges as a line list.
func generateHypertetra(sub SubParams) Mesh {
	verts := pentatope(sub.Scale)
	segs := sub.GridDensity / 4
	if segs < 1 {
		segs = 1
	}
	m := Mesh{Topology: Lines}
	for i := 0; i < 5; i++ {
		for j := i + 1; j < 5; j++ {
			for k := 0; k < segs; k++ {
				t0 := float64(k) / float64(segs)
				t1 := float64(k+1) / float64(segs)
				p0 := lerp4(verts[i], verts[j], t0)
				p1 := lerp4(verts[i], verts[j], t1)
				m.Vertices = append(m.Vertices, p0, p1)
				m.Normals = append(m.Normals, p0.normalized(), p1.normalized())
				m.UVs = append(m.UVs, UV{t0, 0}, UV{t1, 0})
			}
		}
	}
	return m
}

// generateTorus tessellates the Clifford torus (flat in 4D) into a triangle
// list over a GridDensity x GridDensity quad grid.
func generateTorus(sub SubParams) Mesh {
	n := sub.GridDensity
	inv := 1 / math.Sqrt2
	at := func(i, j int) (Vec4, UV) {
		u := 2 * math.Pi * float64(i) / float64(n)
		v := 2 * math.Pi * float64(j) / float64(n)
		p := Vec4{
			X: math.Cos(u) * inv,
			Y: math.Sin(u) * inv,
			Z: math.Cos(v) * inv,
			W: math.Sin(v) * inv,
		}.scale(sub.Scale)
		return p, UV{float64(i) / float64(n), float64(j) / float64(n)}
	}
	return quadGrid(n, at)
}

// generateKleinBottle uses the 4D "figure-8" immersion, where the tube
// twists through the fourth axis instead of self-intersecting.
func generateKleinBottle(sub SubParams) Mesh {
	n := sub.GridDensity
	const a, b = 1.0, 0.4
	at := func(i, j int) (Vec4, UV) {
		u := 2 * math.Pi * float64(i) / float64(n)
		v := 2 * math.Pi * float64(j) / float64(n)
		p := Vec4{
			X: (a + b*math.Cos(v)) * math.Cos(u),
			Y: (a + b*math.Cos(v)) * math.Sin(u),
			Z: b * math.Sin(v) * math.Cos(u/2),
			W: b * math.Sin(v) * math.Sin(u/2),
		}.scale(sub.Scale * 0.7)
		return p, UV{float64(i) / float64(n), float64(j) / float64(n)}
	}
	return quadGrid(n, at)
}

// generateFractal iterates a 5-corner midpoint contraction (a 4D Sierpinski
// analogue). Point count multiplies by five per iteration and is bounded
// here before the registry cap ever has to trim.
func generateFractal(sub SubParams) Mesh {
	corners := pentatope(sub.Scale)
	pts := make([]Vec4, 0, MaxVertices)
	pts = append(pts, corners[:]...)
	for it := 0; it < sub.Iterations; it++ {
		if len(pts)*5 > MaxVertices {
			break
		}
		next := make([]Vec4, 0, len(pts)*5)
		for _, p := range pts {
			for _, c := range corners {
				next = append(next, midpoint(p, c))
			}
		}
		pts = next
	}

	m := Mesh{Topology: Points}
	for i, p := range pts {
		m.Vertices = append(m.Vertices, p)
		m.Normals = append(m.Normals, p.normalized())
		m.UVs = append(m.UVs, UV{float64(i%5) / 5, 0})
	}
	return m
}

// generateWave displaces a planar grid through the Z and W axes with fixed
// spatial frequencies, producing a point cloud.
func generateWave(sub SubParams) Mesh {
	n := sub.GridDensity * 2
	m := Mesh{Topology: Points}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			u := 2*float64(i)/float64(n-1) - 1
			v := 2*float64(j)/float64(n-1) - 1
			p := Vec4{
				X: u,
				Y: v,
				Z: 0.4 * math.Sin(2*math.Pi*u),
				W: 0.4 * math.Cos(2*math.Pi*v),
			}.scale(sub.Scale)
			m.Vertices = append(m.Vertices, p)
			m.Normals = append(m.Normals, Vec4{Z: 1})
			m.UVs = append(m.UVs, UV{(u + 1) / 2, (v + 1) / 2})
		}
	}
	return m
}

// generateCrystal fills a bounded 4D lattice with points. Density is capped
// tighter than elsewhere since the count grows with the fourth power.
func generateCrystal(sub SubParams) Mesh {
	n := sub.GridDensity
	if n > 8 {
		n = 8
	}
	m := Mesh{Topology: Points}
	for a := 0; a < n; a++ {
		for b := 0; b < n; b++ {
			for c := 0; c < n; c++ {
				for d := 0; d < n; d++ {
					p := Vec4{
						X: 2*float64(a)/float64(n-1) - 1,
						Y: 2*float64(b)/float64(n-1) - 1,
						Z: 2*float64(c)/float64(n-1) - 1,
						W: 2*float64(d)/float64(n-1) - 1,
					}.scale(sub.Scale)
					m.Vertices = append(m.Vertices, p)
					m.Normals = append(m.Normals, p.normalized())
					m.UVs = append(m.UVs, UV{float64(a) / float64(n), float64(b) / float64(n)})
				}
			}
		}
	}
	return m
}

func axisSign(index, axis int) float64 {
	if index&(1<<axis) != 0 {
		return 1
	}
	return -1
}

func lerp4(a, b Vec4, t float64) Vec4 {
	return a.add(b.sub(a).scale(t))
}

// quadGrid triangulates an n x n periodic grid (two triangles per quad).
func quadGrid(n int, at func(i, j int) (Vec4, UV)) Mesh {
	m := Mesh{Topology: Triangles}
	push := func(i, j int) {
		p, uv := at(i, j)
		m.Vertices = append(m.Vertices, p)
		m.Normals = append(m.Normals, p.normalized())
		m.UVs = append(m.UVs, uv)
	}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			push(i, j)
			push(i+1, j)
			push(i+1, j+1)
			push(i, j)
			push(i+1, j+1)
			push(i, j+1)
		}
	}
	return m
}
