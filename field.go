package wordwave

import (
	"log"
	"math"
)

// displacementField is the host-side evaluator: it computes the summed 2D
// offset of the effect sequence for a base position and the current time.
// Noise terms sample per-effect coarse lattices; Wave and Pulse terms are
// evaluated analytically per particle. Custom effects are shader-only and
// contribute zero here.
type displacementField struct {
	effects []Effect
	grids   []*noiseGrid // parallel to effects; nil for non-Noise entries
	width   float64
	height  float64
	time    float64
}

// newDisplacementField builds the evaluator for a width×height viewport.
// The effect list must already have defaults applied. A Custom effect in the
// list is reported once as a diagnostic since the host renders it undisplaced.
func newDisplacementField(effects []Effect, width, height, cell float64, seed int64) *displacementField {
	f := &displacementField{
		effects: effects,
		grids:   make([]*noiseGrid, len(effects)),
		width:   width,
		height:  height,
	}
	for i, e := range effects {
		if n, ok := e.(Noise); ok {
			f.grids[i] = newNoiseGrid(n, width, height, cell, seed+int64(i))
		}
	}
	if hasCustom(effects) {
		log.Printf("wordwave: custom effects are shader-only; the host evaluator renders them undisplaced")
	}
	return f
}

// refill advances the field to time t and re-evaluates every noise lattice.
// Call once per tick, before sampling particle offsets.
func (f *displacementField) refill(t float64) {
	f.time = t
	for _, g := range f.grids {
		if g != nil {
			g.refill(t)
		}
	}
}

// at returns the summed displacement for base position (x, y) at the time of
// the last refill. Effect order never changes the result.
func (f *displacementField) at(x, y float64) (dx, dy float64) {
	for i, e := range f.effects {
		switch e := e.(type) {
		case Noise:
			v := f.grids[i].sample(x, y)
			dx += v * e.Amplitude
			dy += v * e.YScale * e.Amplitude
		case Wave:
			wx, wy := waveOffset(e, x, y, f.time)
			dx += wx
			dy += wy
		case Pulse:
			px, py := pulseOffset(e, x, y, f.width, f.height, f.time)
			dx += px
			dy += py
		case Custom:
			// Shader-only; see the constructor diagnostic.
		}
	}
	return dx, dy
}

// waveOffset evaluates one Wave term: project the position onto the travel
// direction, form a traveling-wave phase, and push along the direction by a
// one-sided squared sine. The wave only ever pushes, never pulls.
func waveOffset(e Wave, x, y, t float64) (dx, dy float64) {
	rad := e.Direction * math.Pi / 180
	dirX := math.Cos(rad)
	dirY := math.Sin(rad)
	phase := (x*dirX+y*dirY)*e.Propagation - t*e.Speed
	s := math.Max(0, math.Sin(phase))
	amp := s * s * e.Amplitude
	return dirX * amp, dirY * amp
}

// pulseOffset evaluates one Pulse term: same one-sided shape as waveOffset,
// but the phase is a function of radial distance from the center and the
// offset is directed radially outward. The direction vector is zero exactly
// at the center, so no division by zero can occur.
func pulseOffset(e Pulse, x, y, width, height, t float64) (dx, dy float64) {
	cx := e.CenterX * width
	cy := e.CenterY * height
	relX := x - cx
	relY := y - cy
	dist := math.Hypot(relX, relY)
	if dist == 0 {
		return 0, 0
	}
	phase := dist*e.Frequency - t*e.Speed
	s := math.Max(0, math.Sin(phase))
	amp := s * s * e.Amplitude / dist
	return relX * amp, relY * amp
}
