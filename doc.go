// Package wordwave renders an animated field of text particles with
// [Ebitengine].
//
// Words from a configurable pool are split into characters (or kept whole),
// laid out on a brick-offset grid, and displaced every frame by a sequence of
// procedural effects: gradient noise, directional traveling waves, radial
// pulses, or caller-supplied Kage snippets. Each particle also carries a fixed
// opacity drawn from a low-frequency noise band, which reads as depth.
//
// # Quick start
//
// Build an [Engine] and drive it from an [ebiten.Game]:
//
//	engine, err := wordwave.NewEngine(wordwave.Config{
//		Words:  []string{"hello", "world"},
//		Width:  640,
//		Height: 480,
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//	engine.Start()
//
//	type Game struct{ engine *wordwave.Engine }
//
//	func (g *Game) Update() error          { g.engine.Update(); return nil }
//	func (g *Game) Draw(s *ebiten.Image)   { g.engine.Draw(s) }
//	func (g *Game) Layout(w, h int) (int, int) { return w, h }
//
// # Effects
//
// With no explicit effect list, the legacy scalar fields of [Config] build a
// single [Noise] effect. An explicit list composes freely; contributions sum:
//
//	Effects: []wordwave.Effect{
//		wordwave.Noise{Amplitude: 25},
//		wordwave.Wave{Direction: 90, Amplitude: 12},
//		wordwave.Pulse{},
//	}
//
// [Custom] injects raw Kage code with its own uniforms; see [GenerateShader]
// for the contract the snippet must follow.
//
// # Render paths
//
// When effects are present the engine generates a Kage shader and draws every
// particle in a single batched call, with displacement evaluated on the GPU.
// If shader compilation fails, or [DisplacementCPU] is configured, the engine
// evaluates displacement on the host against coarse noise lattices instead.
// Both paths produce the same motion.
//
// The package is single-threaded by design: every method of [Engine] must be
// called from the game loop goroutine, the same place Ebitengine calls Update
// and Draw.
//
// [Ebitengine]: https://ebitengine.org
package wordwave
