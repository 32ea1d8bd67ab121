package wordwave

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

func renderTestParticles() ([]Particle, *glyphAtlas) {
	atlas := testAtlas([]string{"a", "b"}, 10)
	atlas.image = ebiten.NewImage(64, 20)
	particles := []Particle{
		{BaseX: 50, BaseY: 30, RenderX: 50, RenderY: 30, Opacity: 0.5, Sprite: atlas.sprites["a"]},
		{BaseX: 80, BaseY: 30, RenderX: 80, RenderY: 30, Opacity: 1, Sprite: atlas.sprites["b"]},
	}
	return particles, atlas
}

func TestCPURendererQuadLayout(t *testing.T) {
	particles, atlas := renderTestParticles()
	defer atlas.release()

	r := newCPURenderer()
	r.setParticles(particles, atlas, 0)

	if len(r.verts) != 8 {
		t.Fatalf("len(verts) = %v, want 8", len(r.verts))
	}
	if len(r.inds) != 12 {
		t.Fatalf("len(inds) = %v, want 12", len(r.inds))
	}

	s := particles[0].Sprite
	half := float32(s.SourceWidth / 2)
	if got, want := r.verts[0].DstX, float32(50)-half; got != want {
		t.Errorf("verts[0].DstX = %v, want %v", got, want)
	}
	if got, want := r.verts[0].DstY, float32(30); got != want {
		t.Errorf("verts[0].DstY = %v, want %v", got, want)
	}
	if got, want := r.verts[3].DstY, float32(30+atlas.cellHeight); got != want {
		t.Errorf("verts[3].DstY = %v, want %v", got, want)
	}

	// Premultiplied vertex color: every channel carries the opacity.
	a := float32(0.5)
	v := r.verts[0]
	if v.ColorR != a || v.ColorG != a || v.ColorB != a || v.ColorA != a {
		t.Errorf("verts[0] color = (%v, %v, %v, %v), want all %v",
			v.ColorR, v.ColorG, v.ColorB, v.ColorA, a)
	}
}

func TestShaderRendererQuadPadding(t *testing.T) {
	particles, atlas := renderTestParticles()
	defer atlas.release()

	artifact, err := GenerateShader([]Effect{Wave{Amplitude: 12}})
	if err != nil {
		t.Fatalf("GenerateShader: %v", err)
	}
	r, err := newShaderRenderer(artifact)
	if err != nil {
		t.Fatalf("newShaderRenderer: %v", err)
	}
	defer r.destroy()

	pad := 12.0
	r.setParticles(particles, atlas, pad)

	s := particles[0].Sprite
	wantX := float32(50 - s.SourceWidth/2 - pad)
	if got := r.verts[0].DstX; got != wantX {
		t.Errorf("verts[0].DstX = %v, want %v (padded)", got, wantX)
	}
	if got, want := r.verts[0].SrcX, float32(s.SourceX-pad); got != want {
		t.Errorf("verts[0].SrcX = %v, want %v (padded)", got, want)
	}

	// Custom attributes carry base position and atlas rect for the fragment.
	v := r.verts[0]
	if v.Custom0 != 50 || v.Custom1 != 30 {
		t.Errorf("custom base = (%v, %v), want (50, 30)", v.Custom0, v.Custom1)
	}
	if v.Custom2 != float32(s.SourceX) || v.Custom3 != float32(s.SourceWidth) {
		t.Errorf("custom rect = (%v, %v), want (%v, %v)",
			v.Custom2, v.Custom3, s.SourceX, s.SourceWidth)
	}
}

func TestUpdatePositionsRepacks(t *testing.T) {
	particles, atlas := renderTestParticles()
	defer atlas.release()

	r := newCPURenderer()
	r.setParticles(particles, atlas, 0)

	particles[0].RenderX = 75
	particles[0].RenderY = 40
	r.updatePositions(particles)

	half := float32(particles[0].Sprite.SourceWidth / 2)
	if got, want := r.verts[0].DstX, float32(75)-half; got != want {
		t.Errorf("verts[0].DstX = %v, want %v after repack", got, want)
	}
	if got, want := r.verts[0].DstY, float32(40); got != want {
		t.Errorf("verts[0].DstY = %v, want %v after repack", got, want)
	}
}

func TestUpdatePositionsLengthGuard(t *testing.T) {
	particles, atlas := renderTestParticles()
	defer atlas.release()

	r := newCPURenderer()
	r.setParticles(particles, atlas, 0)
	before := r.verts[0].DstX

	// A mismatched generation must not panic or touch the buffer.
	r.updatePositions(particles[:1])
	if r.verts[0].DstX != before {
		t.Errorf("buffer modified by mismatched particle slice")
	}
}

func TestUpdatePositionsFoldsAlpha(t *testing.T) {
	particles, atlas := renderTestParticles()
	defer atlas.release()

	r := newCPURenderer()
	r.setParticles(particles, atlas, 0)
	r.setAlpha(0.5)
	r.updatePositions(particles)

	want := float32(0.5 * 0.5) // opacity × alpha
	if got := r.verts[0].ColorA; got != want {
		t.Errorf("verts[0].ColorA = %v, want %v", got, want)
	}
}

func TestShaderRendererUniformFiltering(t *testing.T) {
	artifact, err := GenerateShader([]Effect{Noise{}})
	if err != nil {
		t.Fatalf("GenerateShader: %v", err)
	}
	r, err := newShaderRenderer(artifact)
	if err != nil {
		t.Fatalf("newShaderRenderer: %v", err)
	}
	defer r.destroy()

	r.setEffectUniforms(map[string]any{
		"Effect0Amplitude": float32(40),
		"Effect9Bogus":     float32(1),
	})
	if _, ok := r.uniforms["Effect0Amplitude"]; !ok {
		t.Errorf("declared uniform dropped")
	}
	if _, ok := r.uniforms["Effect9Bogus"]; ok {
		t.Errorf("undeclared uniform accepted")
	}

	r.setTime(1.5)
	r.setResolution(640, 480)
	r.setAlpha(0.25)
	if got := r.uniforms["Time"]; got != float32(1.5) {
		t.Errorf("Time = %v, want 1.5", got)
	}
	if got := r.uniforms["Alpha"]; got != float32(0.25) {
		t.Errorf("Alpha = %v, want 0.25", got)
	}
	res, ok := r.uniforms["Resolution"].([]float32)
	if !ok || len(res) != 2 || res[0] != 640 || res[1] != 480 {
		t.Errorf("Resolution = %v, want [640 480]", r.uniforms["Resolution"])
	}
}

func TestRendererDrawPaths(t *testing.T) {
	dst := ebiten.NewImage(128, 64)

	for _, newR := range []func() *renderer{newCPURenderer, newFallbackRenderer} {
		particles, atlas := renderTestParticles()
		r := newR()
		r.setParticles(particles, atlas, 0)
		r.draw(dst) // must not panic
		r.destroy()
		atlas.release()
	}

	// Empty renderer and destroyed renderer are draw no-ops.
	r := newCPURenderer()
	r.draw(dst)
	r.destroy()
	r.draw(dst)
}

func TestRendererDestroyIdempotent(t *testing.T) {
	particles, atlas := renderTestParticles()
	defer atlas.release()

	artifact, err := GenerateShader([]Effect{Noise{}})
	if err != nil {
		t.Fatalf("GenerateShader: %v", err)
	}
	r, err := newShaderRenderer(artifact)
	if err != nil {
		t.Fatalf("newShaderRenderer: %v", err)
	}
	r.setParticles(particles, atlas, 0)

	r.destroy()
	r.destroy()

	// Every method is a no-op after destroy.
	r.setParticles(particles, atlas, 0)
	r.setTime(1)
	r.setAlpha(0.5)
	r.updatePositions(particles)
	if r.verts != nil {
		t.Errorf("buffers rebuilt after destroy")
	}
}

func BenchmarkUpdatePositions(b *testing.B) {
	atlas := testAtlas([]string{"a"}, 10)
	atlas.image = ebiten.NewImage(32, 20)
	defer atlas.release()

	particles := make([]Particle, 5000)
	for i := range particles {
		particles[i] = Particle{
			BaseX: float64(i % 100), BaseY: float64(i / 100),
			Opacity: 0.5, Sprite: atlas.sprites["a"],
		}
	}
	r := newCPURenderer()
	r.setParticles(particles, atlas, 0)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		r.updatePositions(particles)
	}
}
