package wordwave

import (
	"sort"

	opensimplex "github.com/ojrac/opensimplex-go"
)

// Particle is one rendered text unit. BaseX/BaseY are the fixed grid
// position, Opacity is fixed at creation, and RenderX/RenderY are recomputed
// every frame in host-displacement mode. The sprite is shared with the atlas,
// not owned. Particles are recreated wholesale on resize or option change;
// count and order stay stable within one generation so per-generation vertex
// buffers remain index-aligned.
type Particle struct {
	BaseX, BaseY     float64
	RenderX, RenderY float64
	Opacity          float64
	Sprite           *GlyphSprite
}

// opacityNoiseFrequency is the spatial frequency of the depth-opacity noise,
// sampled at grid coordinates (column, row), not pixel positions.
const opacityNoiseFrequency = 0.35

// buildParticles lays out particle base positions on a brick grid across the
// width×height viewport: rows are offset alternately by half the horizontal
// spacing, each cell is assigned a word cycling through the word list, and
// each word is split into display units placed sequentially, centered around
// the cell position. Base opacity comes from a low-frequency noise sample at
// the cell's grid coordinates scaled into the band, giving a depth illusion.
//
// Units missing from the atlas lookup are silently skipped. The result is
// sorted by opacity ascending (stable) to minimize paint-state changes in the
// fallback render path. Layout is deterministic for identical inputs.
func buildParticles(width, height, spacingX, spacingY float64, words []string, mode DisplayMode, atlas *glyphAtlas, band Range, seed int64) []Particle {
	if len(words) == 0 || len(atlas.sprites) == 0 || spacingX <= 0 || spacingY <= 0 {
		return nil
	}

	depth := opensimplex.NewNormalized(seed)

	cols := int(width/spacingX) + 1
	rows := int(height/spacingY) + 1

	particles := make([]Particle, 0, cols*rows)

	for row := 0; row < rows; row++ {
		rowY := float64(row) * spacingY
		offsetX := 0.0
		if row%2 == 1 {
			offsetX = spacingX / 2
		}
		for col := 0; col < cols; col++ {
			cellX := float64(col)*spacingX + offsetX
			word := words[(row*cols+col)%len(words)]

			opacity := band.Min + depth.Eval2(
				float64(col)*opacityNoiseFrequency,
				float64(row)*opacityNoiseFrequency,
			)*(band.Max-band.Min)

			var units []string
			if mode == ModeWord {
				units = []string{word}
			} else {
				units = make([]string, 0, len(word))
				for _, r := range word {
					units = append(units, string(r))
				}
			}

			var total float64
			for _, u := range units {
				if s, ok := atlas.sprites[u]; ok {
					total += s.RenderWidth
				}
			}

			cursor := cellX - total/2
			for _, u := range units {
				s, ok := atlas.sprites[u]
				if !ok {
					continue
				}
				baseX := cursor + s.HalfRenderWidth
				cursor += s.RenderWidth
				particles = append(particles, Particle{
					BaseX:   baseX,
					BaseY:   rowY,
					RenderX: baseX,
					RenderY: rowY,
					Opacity: opacity,
					Sprite:  s,
				})
			}
		}
	}

	sort.SliceStable(particles, func(i, j int) bool {
		return particles[i].Opacity < particles[j].Opacity
	})
	return particles
}
