package wordwave

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// layoutSeed keeps particle layout (depth opacity, noise lattices)
// reproducible across rebuilds of the same engine.
const layoutSeed = 7

// Config is consumed once by NewEngine and never mutated afterwards. Any
// "live update" is a destroy + reconstruct at the embedder level. Zero fields
// get documented defaults.
type Config struct {
	// Words is the text pool cycled across the particle grid.
	// Empty falls back to DefaultWords.
	Words []string
	// Mode selects character particles (default) or word particles.
	Mode DisplayMode

	// Width and Height are the viewport in logical pixels (default 640×480).
	Width, Height int

	// FontSource supplies the typeface; nil uses the bundled Go Regular.
	FontSource *text.GoTextFaceSource
	// FontSize is the rasterization size in pixels (default 16).
	FontSize float64
	// Color tints the rasterized glyphs (zero value means white).
	Color Color
	// Opacity scales the depth opacity band (default 1).
	Opacity float64

	// SpacingX and SpacingY are the brick-grid cell spacing (default 14×26).
	SpacingX, SpacingY float64

	// Legacy scalar parameters, used only when Effects is nil: they build an
	// implicit Noise effect, plus a Wave effect when WaveAmplitude is set.
	Frequency     float64
	Amplitude     float64
	Speed         float64
	Direction     float64
	Propagation   float64
	WaveAmplitude float64

	// Effects is the displacement effect sequence. Non-nil disables the
	// legacy scalar parameters above.
	Effects []Effect

	// Displacement selects where displacement is computed (default Auto).
	Displacement DisplacementMode
	// CellSize is the host-mode noise lattice spacing (default 50).
	CellSize float64

	// FadeIn is the start-up fade duration in seconds (default 0.6;
	// negative disables the fade).
	FadeIn float64

	// ReducedMotion is the embedder-resolved motion preference; honored
	// when RespectReducedMotion is set by rendering the static undisplaced
	// field.
	ReducedMotion        bool
	RespectReducedMotion bool

	// PauseWhenHidden stops the tick loop while SetVisible(false) is in
	// effect, resuming on SetVisible(true).
	PauseWhenHidden bool

	// Debug logs per-frame timing to stderr.
	Debug bool
}

// Engine animates a field of text particles displaced by the configured
// effect sequence. Construction builds atlas → particles → shader (when
// effects are present); all mutable state is touched only from Update/Draw on
// the game loop, so no locking exists anywhere.
//
// Drive it from an ebiten.Game:
//
//	func (g *Game) Update() error       { g.engine.Update(); return nil }
//	func (g *Game) Draw(s *ebiten.Image) { g.engine.Draw(s) }
type Engine struct {
	cfg     Config
	effects []Effect
	fadeIn  float64

	width, height float64

	atlas     *glyphAtlas
	particles []Particle
	field     *displacementField
	renderer  *renderer
	artifact  *ShaderArtifact

	time       float64
	alpha      float64
	fade       *gween.Tween
	running    bool
	wasRunning bool
	visible    bool
	destroyed  bool
}

// NewEngine builds an engine from the configuration. It returns an error only
// for invalid effect configuration (unknown kind, uniform collision) — a
// caller programming error. Resource problems (unusable font, shader compile
// failure) degrade with a diagnostic instead: the engine stays constructible
// and destructible, possibly with zero particles or a slower render path.
func NewEngine(cfg Config) (*Engine, error) {
	e := &Engine{
		cfg:     cfg,
		alpha:   1,
		visible: true,
	}

	words := cfg.Words
	if len(words) == 0 {
		words = DefaultWords
	}
	e.width = float64(cfg.Width)
	e.height = float64(cfg.Height)
	if e.width <= 0 {
		e.width = 640
	}
	if e.height <= 0 {
		e.height = 480
	}
	fontSize := cfg.FontSize
	if fontSize <= 0 {
		fontSize = DefaultFontSize
	}
	clr := cfg.Color
	if clr == (Color{}) {
		clr = ColorWhite
	}
	e.fadeIn = cfg.FadeIn
	if e.fadeIn == 0 {
		e.fadeIn = defaultFadeIn
	} else if e.fadeIn < 0 {
		e.fadeIn = 0
	}

	e.effects = effectsWithDefaults(cfg.effectList())

	// Validate the effect configuration up front, whatever the render path
	// ends up being.
	var artifact *ShaderArtifact
	if len(e.effects) > 0 {
		a, err := GenerateShader(e.effects)
		if err != nil {
			return nil, err
		}
		artifact = a
	}
	e.artifact = artifact

	src := cfg.FontSource
	if src == nil {
		src = ensureDefaultFaceSource()
	}
	var face *text.GoTextFace
	if src != nil {
		face = &text.GoTextFace{Source: src, Size: fontSize}
	}
	e.atlas = buildGlyphAtlas(displayUnits(words, cfg.Mode), face, clr)

	e.particles = buildParticles(
		e.width, e.height,
		e.spacingX(), e.spacingY(),
		words, cfg.Mode, e.atlas, e.opacityBand(), layoutSeed,
	)

	useShader := artifact != nil &&
		cfg.Displacement != DisplacementCPU
	if useShader {
		r, err := newShaderRenderer(artifact)
		if err != nil {
			log.Printf("wordwave: %v; falling back to host displacement", err)
			e.renderer = newFallbackRenderer()
		} else {
			e.renderer = r
		}
	} else {
		e.renderer = newCPURenderer()
	}

	if e.renderer.mode != rendererShader {
		e.field = newDisplacementField(e.effects, e.width, e.height, e.cellSize(), layoutSeed)
	}

	e.renderer.setParticles(e.particles, e.atlas, displacementBound(e.effects))
	e.renderer.setResolution(e.width, e.height)
	e.renderer.setAlpha(1)
	if e.renderer.mode == rendererShader {
		e.renderer.setEffectUniforms(UniformValues(e.effects))
		e.renderer.setTime(0)
	}

	return e, nil
}

// effectList resolves the mutually exclusive effect configuration: an
// explicit Effects list wins; otherwise the legacy scalar parameters build an
// implicit Noise (plus Wave when WaveAmplitude is set).
func (c Config) effectList() []Effect {
	if c.Effects != nil {
		return c.Effects
	}
	effects := []Effect{Noise{
		Frequency: c.Frequency,
		Amplitude: c.Amplitude,
		Speed:     c.Speed,
	}}
	if c.WaveAmplitude != 0 {
		effects = append(effects, Wave{
			Direction:   c.Direction,
			Propagation: c.Propagation,
			Amplitude:   c.WaveAmplitude,
			Speed:       c.Speed,
		})
	}
	return effects
}

func (e *Engine) spacingX() float64 {
	if e.cfg.SpacingX > 0 {
		return e.cfg.SpacingX
	}
	return DefaultSpacingX
}

func (e *Engine) spacingY() float64 {
	if e.cfg.SpacingY > 0 {
		return e.cfg.SpacingY
	}
	return DefaultSpacingY
}

func (e *Engine) cellSize() float64 {
	if e.cfg.CellSize > 0 {
		return e.cfg.CellSize
	}
	return DefaultCellSize
}

func (e *Engine) opacityBand() Range {
	scale := e.cfg.Opacity
	if scale <= 0 {
		scale = 1
	}
	return Range{Min: defaultOpacityMin * scale, Max: defaultOpacityMax * scale}
}

func (e *Engine) reducedMotion() bool {
	return e.cfg.RespectReducedMotion && e.cfg.ReducedMotion
}

// Start begins animating. Calling it again while running is a no-op, so no
// second loop can ever exist; calling it after Destroy is a no-op.
func (e *Engine) Start() {
	if e.destroyed || e.running {
		return
	}
	e.running = true
	e.wasRunning = true
	if e.fadeIn > 0 && !e.reducedMotion() {
		e.alpha = 0
		e.renderer.setAlpha(0)
		e.fade = gween.New(0, 1, float32(e.fadeIn), ease.OutQuad)
	}
}

// Stop halts the animation. Safe to call when not running or after Destroy.
func (e *Engine) Stop() {
	e.running = false
	e.wasRunning = false
}

// SetVisible reports viewport visibility to the engine. With PauseWhenHidden
// set, hiding stops the tick loop and showing resumes it if it was running.
// Idempotent; no-op after Destroy.
func (e *Engine) SetVisible(visible bool) {
	if e.destroyed || visible == e.visible {
		return
	}
	e.visible = visible
	if !e.cfg.PauseWhenHidden {
		return
	}
	if visible {
		e.running = e.wasRunning
	} else {
		e.wasRunning = e.running
		e.running = false
	}
}

// Resize rebuilds the particle grid (and host-mode lattices) for a new
// viewport. The atlas is kept; it depends only on font and words. No-op after
// Destroy or when the size is unchanged.
func (e *Engine) Resize(width, height int) {
	if e.destroyed {
		return
	}
	w, h := float64(width), float64(height)
	if w <= 0 || h <= 0 || (w == e.width && h == e.height) {
		return
	}
	e.width = w
	e.height = h

	words := e.cfg.Words
	if len(words) == 0 {
		words = DefaultWords
	}
	e.particles = buildParticles(
		w, h, e.spacingX(), e.spacingY(),
		words, e.cfg.Mode, e.atlas, e.opacityBand(), layoutSeed,
	)
	if e.field != nil {
		e.field = newDisplacementField(e.effects, w, h, e.cellSize(), layoutSeed)
	}
	e.renderer.setParticles(e.particles, e.atlas, displacementBound(e.effects))
	e.renderer.setResolution(w, h)
}

// Update is one tick of the animation driver: advance time by the fixed
// per-frame step, refill the coarse noise lattices and recompute displaced
// positions (host mode) or push uniforms (shader mode), and advance the
// fade-in. It checks running/destroyed at tick start, so a Stop or Destroy
// between ticks means no further work happens. Call once per frame from the
// game loop; it is directly callable, no scheduler involved.
func (e *Engine) Update() {
	if e.destroyed || !e.running {
		return
	}

	if e.fade != nil {
		v, done := e.fade.Update(float32(defaultTimeStep))
		e.alpha = float64(v)
		e.renderer.setAlpha(e.alpha)
		if done {
			e.fade = nil
		}
	}

	if e.reducedMotion() {
		return
	}

	e.time += defaultTimeStep

	if e.field != nil {
		e.field.refill(e.time)
		for i := range e.particles {
			p := &e.particles[i]
			dx, dy := e.field.at(p.BaseX, p.BaseY)
			p.RenderX = p.BaseX + dx
			p.RenderY = p.BaseY + dy
		}
		e.renderer.updatePositions(e.particles)
	} else {
		e.renderer.setTime(e.time)
	}
}

// Draw renders the current frame to screen. No-op after Destroy.
func (e *Engine) Draw(screen *ebiten.Image) {
	if e.destroyed {
		return
	}
	if !e.cfg.Debug {
		e.renderer.draw(screen)
		return
	}
	t0 := time.Now()
	e.renderer.draw(screen)
	fmt.Fprintf(os.Stderr, "[wordwave] draw: %v | particles: %d | mode: %d\n",
		time.Since(t0), len(e.particles), e.renderer.mode)
}

// Destroy stops the animation and releases the atlas bitmap, the vertex
// buffers, and the compiled shader. Idempotent; every other method is a
// no-op afterwards.
func (e *Engine) Destroy() {
	if e.destroyed {
		return
	}
	e.destroyed = true
	e.running = false
	e.wasRunning = false
	e.fade = nil
	e.renderer.destroy()
	e.atlas.release()
	e.particles = nil
	e.field = nil
}

// Running reports whether the animation loop is active.
func (e *Engine) Running() bool {
	return e.running
}

// ParticleCount returns the size of the current particle generation.
func (e *Engine) ParticleCount() int {
	return len(e.particles)
}
