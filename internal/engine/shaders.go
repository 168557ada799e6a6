package engine

// DefaultFragment is the stock Kage program. The vertex stage runs host-side
// in the gpu backend; this stage shades the projected primitives from the
// reserved uniform set.
const DefaultFragment = `//kage:unit pixels

package main

var Time float
var Resolution vec2
var BaseColor vec3
var Dimension float
var MorphFactor float
var RotationSpeed float
var GridDensity float
var LineThickness float
var PatternIntensity float
var UniverseModifier float
var ColorShift float
var GlitchIntensity float
var AudioBass float
var AudioMid float
var AudioHigh float
var Wireframe int

func Fragment(dstPos vec4, srcPos vec2, color vec4) vec4 {
	uv := dstPos.xy / Resolution
	p := (uv - 0.5) * UniverseModifier

	g := p * GridDensity
	cell := abs(fract(g) - 0.5)
	line := 1.0 - smoothstep(0.0, LineThickness*GridDensity, min(cell.x, cell.y))

	wave := 0.5 + 0.5*sin(Time*RotationSpeed+(p.x+p.y)*Dimension)
	glow := mix(line, wave*line, MorphFactor) * PatternIntensity

	shift := ColorShift + AudioMid*0.25
	base := vec3(
		BaseColor.r*cos(shift)-BaseColor.g*sin(shift),
		BaseColor.r*sin(shift)+BaseColor.g*cos(shift),
		BaseColor.b,
	)

	flick := 1.0 + GlitchIntensity*sin(Time*97.0+uv.y*331.0)
	level := glow * (0.6 + 0.4*AudioBass) * flick
	if Wireframe != 0 {
		level = line
	}
	rgb := base * level * (0.75 + 0.25*AudioHigh)
	return vec4(rgb, 1.0)
}
`
