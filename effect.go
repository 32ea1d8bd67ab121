package wordwave

// Effect is one parameterized displacement contribution. Contributions from
// all configured effects sum additively; their order in the list only affects
// uniform naming, never the visual result.
//
// The interface is sealed: only the built-in variants (Noise, Wave, Pulse,
// Custom) implement it. Adding a new kind means updating the host evaluator
// (field.go) and the shader generator (shader.go) together.
type Effect interface {
	// withDefaults returns a copy with zero-valued fields replaced by the
	// documented defaults.
	withDefaults() Effect
	// bound returns the largest displacement magnitude this effect can
	// produce, used to pad shader-mode quads.
	bound() float64
}

// Noise displaces particles by a 3D gradient-noise field (two spatial
// dimensions plus time). A zero field means "use the default": Frequency
// 0.008, Amplitude 40, Speed 0.35, YScale 1.
type Noise struct {
	// Frequency is the spatial frequency of the noise field in 1/pixels.
	Frequency float64
	// Amplitude is the maximum horizontal displacement in pixels.
	Amplitude float64
	// Speed scales how fast the field evolves over time.
	Speed float64
	// YScale multiplies the vertical component of the offset.
	YScale float64
}

func (n Noise) withDefaults() Effect {
	if n.Frequency == 0 {
		n.Frequency = 0.008
	}
	if n.Amplitude == 0 {
		n.Amplitude = 40
	}
	if n.Speed == 0 {
		n.Speed = 0.35
	}
	if n.YScale == 0 {
		n.YScale = 1
	}
	return n
}

func (n Noise) bound() float64 {
	ys := n.YScale
	if ys < 0 {
		ys = -ys
	}
	if ys > 1 {
		return n.Amplitude * ys
	}
	return n.Amplitude
}

// Wave displaces particles along a direction vector by a one-sided traveling
// wave: max(0, sin(phase))² so the wave only ever pushes, never pulls. Zero
// fields default to: Propagation 0.02, Amplitude 30, Speed 4. Direction's
// default is 0° (rightward), which coincides with the zero value.
type Wave struct {
	// Direction is the travel direction in degrees, 0° = +X, 90° = +Y.
	Direction float64
	// Propagation converts distance along the direction into phase.
	Propagation float64
	// Amplitude is the maximum displacement in pixels.
	Amplitude float64
	// Speed is the phase advance per second.
	Speed float64
}

func (w Wave) withDefaults() Effect {
	if w.Propagation == 0 {
		w.Propagation = 0.02
	}
	if w.Amplitude == 0 {
		w.Amplitude = 30
	}
	if w.Speed == 0 {
		w.Speed = 4
	}
	return w
}

func (w Wave) bound() float64 { return w.Amplitude }

// Pulse displaces particles radially outward from a center point using the
// same one-sided squared-sine shape as Wave. The direction vector is zero
// exactly at the center, by construction. Zero fields default to: CenterX
// 0.5, CenterY 0.5, Frequency 0.05, Amplitude 30, Speed 5. A center exactly
// on the left or top edge can be approximated with a small epsilon.
type Pulse struct {
	// CenterX and CenterY locate the pulse origin as fractions of the
	// viewport in [0, 1].
	CenterX float64
	CenterY float64
	// Frequency converts radial distance into phase.
	Frequency float64
	// Amplitude is the maximum displacement in pixels.
	Amplitude float64
	// Speed is the phase advance per second.
	Speed float64
}

func (p Pulse) withDefaults() Effect {
	if p.CenterX == 0 {
		p.CenterX = 0.5
	}
	if p.CenterY == 0 {
		p.CenterY = 0.5
	}
	if p.Frequency == 0 {
		p.Frequency = 0.05
	}
	if p.Amplitude == 0 {
		p.Amplitude = 30
	}
	if p.Speed == 0 {
		p.Speed = 5
	}
	return p
}

func (p Pulse) bound() float64 { return p.Amplitude }

// customPadBound pads shader quads for Custom effects that declare no
// Amplitude parameter, since their displacement range is unknowable.
const customPadBound = 20.0

// Custom injects a caller-supplied Kage snippet into the generated shader.
// The snippet may read pos (the particle base position, vec2), time (seconds,
// float), and must accumulate into d (the displacement, vec2). Params become
// shader uniforms under their own names, not auto-namespaced, so they must be
// exported Kage identifiers and must not collide with reserved or already
// declared uniform names.
//
// Custom effects are shader-only: the host evaluator renders particles
// undisplaced when a Custom effect is configured and no shader is available.
type Custom struct {
	Code   string
	Params map[string]float64
}

func (c Custom) withDefaults() Effect { return c }

func (c Custom) bound() float64 {
	if amp, ok := c.Params["Amplitude"]; ok && amp > 0 {
		return amp
	}
	return customPadBound
}

// effectsWithDefaults returns a copy of the list with every effect's
// zero-valued fields filled in.
func effectsWithDefaults(effects []Effect) []Effect {
	out := make([]Effect, len(effects))
	for i, e := range effects {
		out[i] = e.withDefaults()
	}
	return out
}

// displacementBound sums each effect's maximum displacement. Shader-mode
// quads are padded by this amount on every side so a displaced glyph never
// clips against its own quad.
func displacementBound(effects []Effect) float64 {
	var pad float64
	for _, e := range effects {
		pad += e.bound()
	}
	return pad
}

// hasNoise reports whether at least one Noise effect is present.
func hasNoise(effects []Effect) bool {
	for _, e := range effects {
		if _, ok := e.(Noise); ok {
			return true
		}
	}
	return false
}

// hasCustom reports whether at least one Custom effect is present.
func hasCustom(effects []Effect) bool {
	for _, e := range effects {
		if _, ok := e.(Custom); ok {
			return true
		}
	}
	return false
}
