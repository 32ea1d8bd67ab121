package wordwave

import (
	"math"
	"testing"
)

func TestWaveOffsetPushesAlongDirection(t *testing.T) {
	e := Wave{}.withDefaults().(Wave) // direction 0° = +X

	// Pick x so the phase lands on sin = 1: amplitude fully realized.
	x := (math.Pi / 2) / e.Propagation
	dx, dy := waveOffset(e, x, 0, 0)
	if math.Abs(dx-e.Amplitude) > 1e-9 {
		t.Errorf("dx = %v, want %v", dx, e.Amplitude)
	}
	if dy != 0 {
		t.Errorf("dy = %v, want 0", dy)
	}

	up := Wave{Direction: 90}.withDefaults().(Wave)
	y := (math.Pi / 2) / up.Propagation
	dx, dy = waveOffset(up, 0, y, 0)
	if math.Abs(dx) > 1e-9 {
		t.Errorf("dx = %v, want ~0 for a 90° wave", dx)
	}
	if math.Abs(dy-up.Amplitude) > 1e-9 {
		t.Errorf("dy = %v, want %v", dy, up.Amplitude)
	}
}

func TestWaveOffsetOneSided(t *testing.T) {
	e := Wave{}.withDefaults().(Wave)

	// A phase in the negative half of the sine must clamp to zero: the wave
	// pushes, never pulls.
	x := (3 * math.Pi / 2) / e.Propagation
	dx, dy := waveOffset(e, x, 0, 0)
	if dx != 0 || dy != 0 {
		t.Errorf("offset = (%v, %v), want (0, 0) on the negative half-cycle", dx, dy)
	}

	// Zero phase is also zero displacement.
	dx, dy = waveOffset(e, 0, 0, 0)
	if dx != 0 || dy != 0 {
		t.Errorf("offset = (%v, %v), want (0, 0) at zero phase", dx, dy)
	}
}

func TestPulseOffsetZeroAtCenter(t *testing.T) {
	e := Pulse{}.withDefaults().(Pulse)
	width, height := 200.0, 100.0

	dx, dy := pulseOffset(e, e.CenterX*width, e.CenterY*height, width, height, 1.23)
	if dx != 0 || dy != 0 {
		t.Errorf("offset = (%v, %v), want (0, 0) at the pulse center", dx, dy)
	}
}

func TestPulseOffsetRadial(t *testing.T) {
	e := Pulse{}.withDefaults().(Pulse)
	width, height := 200.0, 200.0 // center (100, 100)

	// Sample straight right of the center at a distance that maximizes the
	// pulse: offset must point along +X with the full amplitude.
	dist := (math.Pi / 2) / e.Frequency
	dx, dy := pulseOffset(e, 100+dist, 100, width, height, 0)
	if math.Abs(dx-e.Amplitude) > 1e-9 {
		t.Errorf("dx = %v, want %v", dx, e.Amplitude)
	}
	if dy != 0 {
		t.Errorf("dy = %v, want 0 on the horizontal axis", dy)
	}
}

func TestFieldSumsEffects(t *testing.T) {
	effects := effectsWithDefaults([]Effect{Wave{}, Wave{Direction: 90}})
	f := newDisplacementField(effects, 400, 300, 50, 1)
	f.refill(0.5)

	w0, _ := effects[0].(Wave)
	w1, _ := effects[1].(Wave)
	wantX, _ := waveOffset(w0, 40, 60, 0.5)
	_, wantY := waveOffset(w1, 40, 60, 0.5)

	dx, dy := f.at(40, 60)
	if math.Abs(dx-wantX) > 1e-9 {
		t.Errorf("dx = %v, want %v", dx, wantX)
	}
	if math.Abs(dy-wantY) > 1e-9 {
		t.Errorf("dy = %v, want %v", dy, wantY)
	}
}

func TestFieldCustomContributesZero(t *testing.T) {
	effects := effectsWithDefaults([]Effect{Custom{Code: "d += vec2(5, 5)"}})
	f := newDisplacementField(effects, 400, 300, 50, 1)
	f.refill(2)

	dx, dy := f.at(100, 100)
	if dx != 0 || dy != 0 {
		t.Errorf("offset = (%v, %v), want (0, 0): custom effects are shader-only", dx, dy)
	}
}

func TestFieldNoiseWithinAmplitude(t *testing.T) {
	n := Noise{}.withDefaults().(Noise)
	f := newDisplacementField([]Effect{n}, 400, 300, 50, 1)
	f.refill(1)

	for _, p := range [][2]float64{{0, 0}, {200, 150}, {399, 299}} {
		dx, dy := f.at(p[0], p[1])
		if math.Abs(dx) > n.Amplitude || math.Abs(dy) > n.Amplitude*n.YScale {
			t.Errorf("offset at (%v, %v) = (%v, %v), exceeds amplitude %v",
				p[0], p[1], dx, dy, n.Amplitude)
		}
	}
}

func BenchmarkFieldRefill(b *testing.B) {
	effects := effectsWithDefaults([]Effect{Noise{}, Wave{}})
	f := newDisplacementField(effects, 1920, 1080, 50, 1)
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		f.refill(float64(i) * defaultTimeStep)
	}
}

func BenchmarkFieldAt(b *testing.B) {
	effects := effectsWithDefaults([]Effect{Noise{}, Wave{}, Pulse{}})
	f := newDisplacementField(effects, 1920, 1080, 50, 1)
	f.refill(1)
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		f.at(float64(i%1920), float64(i%1080))
	}
}
