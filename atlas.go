package wordwave

import (
	"bytes"
	"log"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/goregular"
)

// GlyphSprite describes one pre-rendered text unit inside the shared atlas
// bitmap. SourceX/SourceWidth locate the padded cell; RenderWidth is the
// logical advance used for layout, with HalfRenderWidth precomputed for
// centering math.
type GlyphSprite struct {
	SourceX         float64
	SourceWidth     float64
	RenderWidth     float64
	HalfRenderWidth float64
}

// atlasPad is the horizontal and vertical padding around each rasterized
// unit, keeping neighbors from bleeding when sampled with displacement.
const atlasPad = 2

// glyphAtlas holds every unique text unit rendered once into a single-row
// bitmap, plus the lookup from unit text to its sprite. Built once per engine
// generation and immutable thereafter. Single-row packing is fine because
// unique-unit counts are small, tens to low hundreds.
type glyphAtlas struct {
	image      *ebiten.Image
	sprites    map[string]*GlyphSprite
	cellHeight float64
}

// displayUnits returns the unique text units of the word list in first-seen
// order: individual characters in ModeCharacter, whole words in ModeWord.
func displayUnits(words []string, mode DisplayMode) []string {
	seen := make(map[string]bool)
	var units []string
	for _, word := range words {
		if mode == ModeWord {
			if !seen[word] {
				seen[word] = true
				units = append(units, word)
			}
			continue
		}
		for _, r := range word {
			u := string(r)
			if !seen[u] {
				seen[u] = true
				units = append(units, u)
			}
		}
	}
	return units
}

// buildGlyphAtlas rasterizes every unit once, side by side on a single row,
// with the target color baked in. Cell height is uniform, derived from the
// face's ascent and descent plus fixed padding.
//
// If no usable face is available the atlas is returned empty with a
// diagnostic; callers must treat an empty lookup as "no particles can be
// created", not crash.
func buildGlyphAtlas(units []string, face *text.GoTextFace, clr Color) *glyphAtlas {
	a := &glyphAtlas{sprites: make(map[string]*GlyphSprite, len(units))}
	if face == nil {
		log.Printf("wordwave: no font face available, atlas left empty")
		return a
	}
	if len(units) == 0 {
		return a
	}

	m := face.Metrics()
	lineHeight := m.HAscent + m.HDescent
	a.cellHeight = math.Ceil(lineHeight) + 2*atlasPad

	// Measure first so the bitmap can be sized exactly.
	widths := make([]float64, len(units))
	totalW := 0.0
	for i, u := range units {
		w, _ := text.Measure(u, face, lineHeight)
		widths[i] = w
		totalW += math.Ceil(w) + 2*atlasPad
	}
	if totalW <= 0 {
		return a
	}

	a.image = ebiten.NewImage(int(totalW), int(a.cellHeight))

	cursor := 0.0
	for i, u := range units {
		sw := math.Ceil(widths[i]) + 2*atlasPad

		op := &text.DrawOptions{}
		op.GeoM.Translate(cursor+atlasPad, atlasPad)
		op.ColorScale.Scale(
			float32(clr.R),
			float32(clr.G),
			float32(clr.B),
			float32(clr.A),
		)
		op.LineSpacing = lineHeight
		text.Draw(a.image, u, face, op)

		a.sprites[u] = &GlyphSprite{
			SourceX:         cursor,
			SourceWidth:     sw,
			RenderWidth:     widths[i],
			HalfRenderWidth: widths[i] / 2,
		}
		cursor += sw
	}

	return a
}

// release frees the atlas bitmap. Safe to call more than once.
func (a *glyphAtlas) release() {
	if a.image != nil {
		a.image.Deallocate()
		a.image = nil
	}
}

// default face source singleton (no sync.Once — wordwave is single-threaded)
var defaultFaceSource *text.GoTextFaceSource

// ensureDefaultFaceSource parses the bundled Go Regular font on first use.
func ensureDefaultFaceSource() *text.GoTextFaceSource {
	if defaultFaceSource == nil {
		src, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
		if err != nil {
			log.Printf("wordwave: failed to parse bundled font: %v", err)
			return nil
		}
		defaultFaceSource = src
	}
	return defaultFaceSource
}
