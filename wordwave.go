package wordwave

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
// Premultiplication occurs at render submission time.
type Color struct {
	R, G, B, A float64
}

// ColorWhite is the default particle color.
var ColorWhite = Color{1, 1, 1, 1}

// Vec2 is a 2D vector used for positions, offsets, and directions.
type Vec2 struct {
	X, Y float64
}

// Range is a general-purpose min/max range. Used for the depth opacity band.
type Range struct {
	Min, Max float64
}

// DisplayMode selects the text unit each particle carries.
type DisplayMode uint8

const (
	// ModeCharacter gives each particle a single character (default).
	ModeCharacter DisplayMode = iota
	// ModeWord gives each particle a whole word.
	ModeWord
)

// DisplacementMode selects where per-particle displacement is computed.
type DisplacementMode uint8

const (
	// DisplacementAuto compiles a generated shader when effects are present
	// and falls back to host evaluation if compilation fails (default).
	DisplacementAuto DisplacementMode = iota
	// DisplacementGPU behaves like DisplacementAuto. It exists so configs can
	// state the intent explicitly.
	DisplacementGPU
	// DisplacementCPU always evaluates displacement on the host and renders
	// through the batched non-shader path.
	DisplacementCPU
)

// DefaultWords is the word list used when a Config supplies none.
var DefaultWords = []string{"No", "Words", "Supplied!"}

// Layout and animation defaults. A zero Config field means "use the default".
const (
	DefaultSpacingX   = 14.0
	DefaultSpacingY   = 26.0
	DefaultFontSize   = 16.0
	DefaultCellSize   = 50.0
	defaultTimeStep   = 1.0 / 60.0
	defaultFadeIn     = 0.6 // seconds
	defaultOpacityMin = 0.25
	defaultOpacityMax = 1.0
)
