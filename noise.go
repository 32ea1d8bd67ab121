package wordwave

import (
	"math"

	opensimplex "github.com/ojrac/opensimplex-go"
)

// noiseGrid samples a 3D gradient-noise function (two spatial dimensions plus
// time) on a coarse lattice covering the viewport plus a one-cell margin, so
// particles never sample outside it. Per-particle values come from bilinear
// interpolation among the four enclosing lattice samples. The lattice spacing
// is fixed at construction; spacing larger than the smallest feature the
// noise frequency resolves produces visible faceting.
type noiseGrid struct {
	noise     opensimplex.Noise
	frequency float64
	speed     float64

	cell    float64
	cols    int
	rows    int
	originX float64
	originY float64
	values  []float64
}

// newNoiseGrid builds a lattice for one Noise effect over a width×height
// viewport. cell is the lattice spacing in logical pixels.
func newNoiseGrid(e Noise, width, height, cell float64, seed int64) *noiseGrid {
	if cell <= 0 {
		cell = DefaultCellSize
	}
	cols := int(math.Ceil(width/cell)) + 3
	rows := int(math.Ceil(height/cell)) + 3
	return &noiseGrid{
		noise:     opensimplex.New(seed),
		frequency: e.Frequency,
		speed:     e.Speed,
		cell:      cell,
		cols:      cols,
		rows:      rows,
		originX:   -cell,
		originY:   -cell,
		values:    make([]float64, cols*rows),
	}
}

// refill re-evaluates every lattice sample for time t. Called once per tick
// in host-displacement mode; cost is cols*rows noise evaluations regardless
// of particle count.
func (g *noiseGrid) refill(t float64) {
	zt := t * g.speed
	for j := 0; j < g.rows; j++ {
		py := (g.originY + float64(j)*g.cell) * g.frequency
		row := j * g.cols
		for i := 0; i < g.cols; i++ {
			px := (g.originX + float64(i)*g.cell) * g.frequency
			g.values[row+i] = g.noise.Eval3(px, py, zt)
		}
	}
}

// sample bilinearly interpolates the lattice at (x, y), clamping to the
// lattice bounds at the viewport edges.
func (g *noiseGrid) sample(x, y float64) float64 {
	fx := (x - g.originX) / g.cell
	fy := (y - g.originY) / g.cell

	maxX := float64(g.cols - 1)
	maxY := float64(g.rows - 1)
	fx = math.Min(math.Max(fx, 0), maxX)
	fy = math.Min(math.Max(fy, 0), maxY)

	i0 := int(fx)
	j0 := int(fy)
	if i0 >= g.cols-1 {
		i0 = g.cols - 2
	}
	if j0 >= g.rows-1 {
		j0 = g.rows - 2
	}
	tx := fx - float64(i0)
	ty := fy - float64(j0)

	v00 := g.values[j0*g.cols+i0]
	v10 := g.values[j0*g.cols+i0+1]
	v01 := g.values[(j0+1)*g.cols+i0]
	v11 := g.values[(j0+1)*g.cols+i0+1]

	top := v00 + (v10-v00)*tx
	bot := v01 + (v11-v01)*tx
	return top + (bot-top)*ty
}
