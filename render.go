package wordwave

import (
	"fmt"
	"image"

	"github.com/hajimehoshi/ebiten/v2"
)

// rendererMode selects the draw path.
type rendererMode uint8

const (
	// rendererShader draws all particles in one DrawTrianglesShader32 call;
	// displacement happens inside the generated Kage program.
	rendererShader rendererMode = iota
	// rendererCPU draws all particles in one DrawTriangles32 call from
	// host-displaced positions repacked into the vertex buffer each frame.
	rendererCPU
	// rendererFallback blits particles one by one from the atlas bitmap, in
	// pre-sorted opacity order.
	rendererFallback
)

// renderer owns the per-generation vertex buffers and the compiled shader.
// Lifecycle: Uninitialized → Ready (after setParticles) → Destroyed.
// Destroyed is terminal; every later call is a no-op.
type renderer struct {
	mode      rendererMode
	destroyed bool

	shader   *ebiten.Shader
	uniforms map[string]any
	known    map[string]bool // uniform names present in the compiled program

	atlas     *glyphAtlas
	particles []Particle
	padding   float64
	alpha     float64

	verts []ebiten.Vertex
	inds  []uint32

	imgOp    ebiten.DrawImageOptions
	shaderOp ebiten.DrawTrianglesShaderOptions
	triOp    ebiten.DrawTrianglesOptions
}

// newShaderRenderer compiles the generated artifact. A compile or link
// failure is returned as a wrapped error for the engine to catch and degrade
// from; it must never propagate to the embedder unhandled.
func newShaderRenderer(artifact *ShaderArtifact) (*renderer, error) {
	shader, err := ebiten.NewShader([]byte(artifact.Source))
	if err != nil {
		return nil, fmt.Errorf("wordwave: generated shader failed to compile: %w", err)
	}
	known := make(map[string]bool, len(artifact.UniformNames))
	for _, name := range artifact.UniformNames {
		known[name] = true
	}
	return &renderer{
		mode:     rendererShader,
		shader:   shader,
		uniforms: make(map[string]any, len(artifact.UniformNames)),
		known:    known,
		alpha:    1,
	}, nil
}

// newCPURenderer returns the batched host-displacement renderer.
func newCPURenderer() *renderer {
	return &renderer{mode: rendererCPU, alpha: 1}
}

// newFallbackRenderer returns the per-particle blit renderer.
func newFallbackRenderer() *renderer {
	return &renderer{mode: rendererFallback, alpha: 1}
}

// setParticles installs a new particle generation and rebuilds the static
// per-instance vertex data. Buffers are reused across generations.
func (r *renderer) setParticles(particles []Particle, atlas *glyphAtlas, padding float64) {
	if r.destroyed {
		return
	}
	r.particles = particles
	r.atlas = atlas
	r.padding = padding

	r.verts = r.verts[:0]
	r.inds = r.inds[:0]

	switch r.mode {
	case rendererShader:
		for i := range particles {
			r.appendShaderQuad(&particles[i])
		}
	case rendererCPU:
		for i := range particles {
			r.appendCPUQuad(&particles[i])
		}
	}
}

// appendShaderQuad emits one padded quad. The pad leaves room for the glyph
// to travel by the effect sequence's displacement bound without clipping.
// Custom0..3 carry the base position and the atlas rect so the fragment can
// displace and mask; the vertex color carries premultiplied opacity.
func (r *renderer) appendShaderQuad(p *Particle) {
	s := p.Sprite
	half := s.SourceWidth / 2
	pad := r.padding

	x0 := float32(p.BaseX - half - pad)
	x1 := float32(p.BaseX + half + pad)
	y0 := float32(p.BaseY - pad)
	y1 := float32(p.BaseY + r.atlas.cellHeight + pad)

	sx0 := float32(s.SourceX - pad)
	sx1 := float32(s.SourceX + s.SourceWidth + pad)
	sy0 := float32(-pad)
	sy1 := float32(r.atlas.cellHeight + pad)

	a := float32(p.Opacity)
	base := uint32(len(r.verts))

	vx := [4]float32{x0, x1, x0, x1}
	vy := [4]float32{y0, y0, y1, y1}
	sx := [4]float32{sx0, sx1, sx0, sx1}
	sy := [4]float32{sy0, sy0, sy1, sy1}

	for i := 0; i < 4; i++ {
		r.verts = append(r.verts, ebiten.Vertex{
			DstX:    vx[i],
			DstY:    vy[i],
			SrcX:    sx[i],
			SrcY:    sy[i],
			ColorR:  a,
			ColorG:  a,
			ColorB:  a,
			ColorA:  a,
			Custom0: float32(p.BaseX),
			Custom1: float32(p.BaseY),
			Custom2: float32(s.SourceX),
			Custom3: float32(s.SourceWidth),
		})
	}
	r.inds = append(r.inds,
		base+0, base+1, base+2,
		base+1, base+3, base+2,
	)
}

// appendCPUQuad emits one unpadded quad at the particle's current render
// position. Positions and colors are overwritten by updatePositions each
// frame; the source rect never changes within a generation.
func (r *renderer) appendCPUQuad(p *Particle) {
	s := p.Sprite
	half := s.SourceWidth / 2

	sx0 := float32(s.SourceX)
	sx1 := float32(s.SourceX + s.SourceWidth)
	sy1 := float32(r.atlas.cellHeight)

	a := float32(p.Opacity * r.alpha)
	base := uint32(len(r.verts))

	x0 := float32(p.RenderX - half)
	x1 := float32(p.RenderX + half)
	y0 := float32(p.RenderY)
	y1 := float32(p.RenderY) + sy1

	vx := [4]float32{x0, x1, x0, x1}
	vy := [4]float32{y0, y0, y1, y1}
	sx := [4]float32{sx0, sx1, sx0, sx1}
	sy := [4]float32{0, 0, sy1, sy1}

	for i := 0; i < 4; i++ {
		r.verts = append(r.verts, ebiten.Vertex{
			DstX:   vx[i],
			DstY:   vy[i],
			SrcX:   sx[i],
			SrcY:   sy[i],
			ColorR: a,
			ColorG: a,
			ColorB: a,
			ColorA: a,
		})
	}
	r.inds = append(r.inds,
		base+0, base+1, base+2,
		base+1, base+3, base+2,
	)
}

// updatePositions repacks the dynamic vertex data from the particles' current
// render positions. Partial in-place update, no reallocation. CPU mode only.
func (r *renderer) updatePositions(particles []Particle) {
	if r.destroyed || r.mode != rendererCPU {
		return
	}
	if len(r.verts) != len(particles)*4 {
		return
	}
	for i := range particles {
		p := &particles[i]
		half := p.Sprite.SourceWidth / 2
		x0 := float32(p.RenderX - half)
		x1 := float32(p.RenderX + half)
		y0 := float32(p.RenderY)
		y1 := float32(p.RenderY + r.atlas.cellHeight)
		a := float32(p.Opacity * r.alpha)

		v := r.verts[i*4 : i*4+4]
		v[0].DstX, v[0].DstY = x0, y0
		v[1].DstX, v[1].DstY = x1, y0
		v[2].DstX, v[2].DstY = x0, y1
		v[3].DstX, v[3].DstY = x1, y1
		for j := range v {
			v[j].ColorR = a
			v[j].ColorG = a
			v[j].ColorB = a
			v[j].ColorA = a
		}
	}
}

// setTime pushes the time uniform (shader mode; no-op otherwise).
func (r *renderer) setTime(t float64) {
	if r.destroyed || r.uniforms == nil {
		return
	}
	r.uniforms["Time"] = float32(t)
}

// setResolution pushes the viewport-resolution uniform.
func (r *renderer) setResolution(width, height float64) {
	if r.destroyed || r.uniforms == nil {
		return
	}
	r.uniforms["Resolution"] = []float32{float32(width), float32(height)}
}

// setAlpha sets the global fade multiplier. Shader mode pushes the Alpha
// uniform; the other modes fold it into per-particle opacity at repack or
// blit time.
func (r *renderer) setAlpha(a float64) {
	if r.destroyed {
		return
	}
	r.alpha = a
	if r.uniforms != nil {
		r.uniforms["Alpha"] = float32(a)
	}
}

// setEffectUniforms pushes effect parameter values. Names not present in the
// compiled program are skipped, keeping callers effect-list-agnostic.
func (r *renderer) setEffectUniforms(values map[string]any) {
	if r.destroyed || r.uniforms == nil {
		return
	}
	for name, v := range values {
		if r.known[name] {
			r.uniforms[name] = v
		}
	}
}

// draw renders the current particle generation to dst. No-op when the
// renderer is destroyed, has no particles, or the atlas is empty.
func (r *renderer) draw(dst *ebiten.Image) {
	if r.destroyed || len(r.particles) == 0 || r.atlas == nil || r.atlas.image == nil {
		return
	}
	switch r.mode {
	case rendererShader:
		r.shaderOp.Images[0] = r.atlas.image
		r.shaderOp.Uniforms = r.uniforms
		dst.DrawTrianglesShader32(r.verts, r.inds, r.shader, &r.shaderOp)

	case rendererCPU:
		r.triOp.ColorScaleMode = ebiten.ColorScaleModePremultipliedAlpha
		dst.DrawTriangles32(r.verts, r.inds, r.atlas.image, &r.triOp)

	case rendererFallback:
		r.drawFallback(dst)
	}
}

// drawFallback blits each particle from the atlas at its current render
// position. Particles arrive sorted by opacity ascending, so the paint state
// (ColorScale) only changes when the opacity value does.
func (r *renderer) drawFallback(dst *ebiten.Image) {
	cellH := int(r.atlas.cellHeight)
	op := &r.imgOp

	lastOpacity := -1.0
	for i := range r.particles {
		p := &r.particles[i]
		s := p.Sprite

		if p.Opacity != lastOpacity {
			lastOpacity = p.Opacity
			a := float32(p.Opacity * r.alpha)
			op.ColorScale.Reset()
			op.ColorScale.Scale(a, a, a, a)
		}

		sub := r.atlas.image.SubImage(image.Rect(
			int(s.SourceX), 0,
			int(s.SourceX+s.SourceWidth), cellH,
		)).(*ebiten.Image)

		op.GeoM.Reset()
		op.GeoM.Translate(p.RenderX-s.SourceWidth/2, p.RenderY)
		dst.DrawImage(sub, op)
	}
}

// destroy releases the compiled shader and drops the buffers. Idempotent.
func (r *renderer) destroy() {
	if r.destroyed {
		return
	}
	r.destroyed = true
	if r.shader != nil {
		r.shader.Deallocate()
		r.shader = nil
	}
	r.verts = nil
	r.inds = nil
	r.particles = nil
	r.uniforms = nil
	r.atlas = nil
}
