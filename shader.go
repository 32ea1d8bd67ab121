package wordwave

import (
	"fmt"
	"sort"
	"strings"
	"unicode"
)

// Reserved uniform names, always declared by the generated shader. Effect
// uniforms must not collide with them. Ebitengine vertices are already in
// screen pixels, so no projection uniform is needed; Alpha fills that slot as
// the global fade multiplier.
var reservedUniforms = []string{"Time", "Resolution", "Alpha"}

// ShaderArtifact is the deterministic output of GenerateShader. Kage is a
// single-source shading language (fragment stage only), so there is no
// vertex/fragment split; Source is the whole program.
type ShaderArtifact struct {
	Source       string
	UniformNames []string
}

// UniformCollisionError reports an effect-declared uniform that collides with
// a reserved name or another declared uniform. This is a programming error in
// the caller's configuration, surfaced at construction time.
type UniformCollisionError struct {
	Name string
}

func (e *UniformCollisionError) Error() string {
	return fmt.Sprintf("wordwave: uniform %q collides with a reserved or already declared uniform name", e.Name)
}

// degrees-to-radians factor written as a literal; Kage has no radians().
const shaderDegToRad = "0.017453292519943295"

// kageNoiseBody is the 3D gradient-noise function emitted only when at least
// one Noise effect is present, keeping compile cost down otherwise. Output is
// in [-1, 1].
const kageNoiseBody = `func noiseHash(p vec3) float {
	return fract(sin(dot(p, vec3(127.1, 311.7, 74.7))) * 43758.5453123)
}

func noise3(p vec3) float {
	i := floor(p)
	f := fract(p)
	u := f * f * (3.0 - 2.0*f)
	n000 := noiseHash(i + vec3(0, 0, 0))
	n100 := noiseHash(i + vec3(1, 0, 0))
	n010 := noiseHash(i + vec3(0, 1, 0))
	n110 := noiseHash(i + vec3(1, 1, 0))
	n001 := noiseHash(i + vec3(0, 0, 1))
	n101 := noiseHash(i + vec3(1, 0, 1))
	n011 := noiseHash(i + vec3(0, 1, 1))
	n111 := noiseHash(i + vec3(1, 1, 1))
	x00 := mix(n000, n100, u.x)
	x10 := mix(n010, n110, u.x)
	x01 := mix(n001, n101, u.x)
	x11 := mix(n011, n111, u.x)
	y0 := mix(x00, x10, u.y)
	y1 := mix(x01, x11, u.y)
	return mix(y0, y1, u.z)*2.0 - 1.0
}

`

// GenerateShader assembles a Kage program that applies the summed
// displacement of the effect sequence per particle. Output is deterministic:
// the same effect list always yields byte-identical Source and the same
// UniformNames ordering.
//
// Each particle quad carries its base position in custom.xy and its atlas
// rect (sourceX, sourceWidth) in custom.zw. Displacement depends only on the
// base position and time, so it is constant across the quad; the fragment
// shifts the source sampling coordinate by -d, which moves the glyph by +d
// inside its padded quad.
func GenerateShader(effects []Effect) (*ShaderArtifact, error) {
	effects = effectsWithDefaults(effects)

	declared := make(map[string]bool, len(reservedUniforms)+len(effects)*4)
	for _, name := range reservedUniforms {
		declared[name] = true
	}

	names := make([]string, 0, len(reservedUniforms)+len(effects)*4)
	names = append(names, reservedUniforms...)

	var decls strings.Builder
	var body strings.Builder

	for i, e := range effects {
		prefix := fmt.Sprintf("Effect%d", i)
		switch e := e.(type) {
		case Noise:
			for _, f := range [...]string{"Frequency", "Amplitude", "Speed", "YScale"} {
				names = append(names, prefix+f)
				declared[prefix+f] = true
				fmt.Fprintf(&decls, "var %s%s float\n", prefix, f)
			}
			fmt.Fprintf(&body, "\t// effect %d: noise\n\t{\n", i)
			fmt.Fprintf(&body, "\t\tn := noise3(vec3(pos.x*%[1]sFrequency, pos.y*%[1]sFrequency, time*%[1]sSpeed))\n", prefix)
			fmt.Fprintf(&body, "\t\td += vec2(n*%[1]sAmplitude, n*%[1]sYScale*%[1]sAmplitude)\n\t}\n", prefix)

		case Wave:
			for _, f := range [...]string{"Direction", "Propagation", "Amplitude", "Speed"} {
				names = append(names, prefix+f)
				declared[prefix+f] = true
				fmt.Fprintf(&decls, "var %s%s float\n", prefix, f)
			}
			fmt.Fprintf(&body, "\t// effect %d: wave\n\t{\n", i)
			fmt.Fprintf(&body, "\t\trad := %sDirection * %s\n", prefix, shaderDegToRad)
			fmt.Fprintf(&body, "\t\tdir := vec2(cos(rad), sin(rad))\n")
			fmt.Fprintf(&body, "\t\tphase := dot(pos, dir)*%[1]sPropagation - time*%[1]sSpeed\n", prefix)
			fmt.Fprintf(&body, "\t\ts := max(0.0, sin(phase))\n")
			fmt.Fprintf(&body, "\t\td += dir * (s * s * %sAmplitude)\n\t}\n", prefix)

		case Pulse:
			for _, f := range [...]string{"CenterX", "CenterY", "Frequency", "Amplitude", "Speed"} {
				names = append(names, prefix+f)
				declared[prefix+f] = true
				fmt.Fprintf(&decls, "var %s%s float\n", prefix, f)
			}
			fmt.Fprintf(&body, "\t// effect %d: pulse\n\t{\n", i)
			fmt.Fprintf(&body, "\t\tcenter := vec2(%[1]sCenterX, %[1]sCenterY) * Resolution\n", prefix)
			fmt.Fprintf(&body, "\t\trel := pos - center\n")
			fmt.Fprintf(&body, "\t\tdist := length(rel)\n")
			fmt.Fprintf(&body, "\t\tdir := vec2(0)\n")
			fmt.Fprintf(&body, "\t\tif dist > 0.0 {\n\t\t\tdir = rel / dist\n\t\t}\n")
			fmt.Fprintf(&body, "\t\tphase := dist*%[1]sFrequency - time*%[1]sSpeed\n", prefix)
			fmt.Fprintf(&body, "\t\ts := max(0.0, sin(phase))\n")
			fmt.Fprintf(&body, "\t\td += dir * (s * s * %sAmplitude)\n\t}\n", prefix)

		case Custom:
			params := sortedParamNames(e.Params)
			for _, name := range params {
				if !validUniformName(name) {
					return nil, fmt.Errorf("wordwave: custom effect %d: %q is not an exported Kage identifier", i, name)
				}
				if declared[name] {
					return nil, &UniformCollisionError{Name: name}
				}
				names = append(names, name)
				declared[name] = true
				fmt.Fprintf(&decls, "var %s float\n", name)
			}
			fmt.Fprintf(&body, "\t// effect %d: custom\n\t{\n", i)
			for _, line := range strings.Split(strings.TrimRight(e.Code, "\n"), "\n") {
				body.WriteString("\t\t")
				body.WriteString(line)
				body.WriteString("\n")
			}
			body.WriteString("\t}\n")

		default:
			return nil, fmt.Errorf("wordwave: unknown effect type %T", e)
		}
	}

	var src strings.Builder
	src.WriteString("//kage:unit pixels\n\npackage main\n\n")
	src.WriteString("var Time float\nvar Resolution vec2\nvar Alpha float\n")
	src.WriteString(decls.String())
	src.WriteString("\n")
	if hasNoise(effects) {
		src.WriteString(kageNoiseBody)
	}
	src.WriteString("func Fragment(dst vec4, src vec2, color vec4, custom vec4) vec4 {\n")
	src.WriteString("\tpos := custom.xy\n")
	src.WriteString("\ttime := Time\n")
	src.WriteString("\td := vec2(0)\n")
	src.WriteString("\t_ = pos\n\t_ = time\n")
	src.WriteString(body.String())
	src.WriteString("\torigin := imageSrc0Origin()\n")
	src.WriteString("\tsize := imageSrc0Size()\n")
	src.WriteString("\tlocal := src - origin - d\n")
	src.WriteString("\tif local.x < custom.z || local.x >= custom.z+custom.w ||\n")
	src.WriteString("\t\tlocal.y < 0.0 || local.y >= size.y {\n")
	src.WriteString("\t\treturn vec4(0)\n\t}\n")
	src.WriteString("\treturn imageSrc0At(local+origin) * color * Alpha\n")
	src.WriteString("}\n")

	return &ShaderArtifact{Source: src.String(), UniformNames: names}, nil
}

// UniformValues flattens the effect sequence's live parameter values into a
// name → value map matching the names GenerateShader declares. Reserved
// uniforms (Time, Resolution, Alpha) are pushed separately by the engine and
// are not included.
func UniformValues(effects []Effect) map[string]any {
	effects = effectsWithDefaults(effects)
	values := make(map[string]any, len(effects)*5)
	for i, e := range effects {
		prefix := fmt.Sprintf("Effect%d", i)
		switch e := e.(type) {
		case Noise:
			values[prefix+"Frequency"] = float32(e.Frequency)
			values[prefix+"Amplitude"] = float32(e.Amplitude)
			values[prefix+"Speed"] = float32(e.Speed)
			values[prefix+"YScale"] = float32(e.YScale)
		case Wave:
			values[prefix+"Direction"] = float32(e.Direction)
			values[prefix+"Propagation"] = float32(e.Propagation)
			values[prefix+"Amplitude"] = float32(e.Amplitude)
			values[prefix+"Speed"] = float32(e.Speed)
		case Pulse:
			values[prefix+"CenterX"] = float32(e.CenterX)
			values[prefix+"CenterY"] = float32(e.CenterY)
			values[prefix+"Frequency"] = float32(e.Frequency)
			values[prefix+"Amplitude"] = float32(e.Amplitude)
			values[prefix+"Speed"] = float32(e.Speed)
		case Custom:
			for _, name := range sortedParamNames(e.Params) {
				values[name] = float32(e.Params[name])
			}
		}
	}
	return values
}

// sortedParamNames returns the map keys in sorted order so generation and
// extraction are deterministic.
func sortedParamNames(params map[string]float64) []string {
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// validUniformName reports whether name is an exported identifier usable as a
// Kage uniform: an uppercase letter followed by letters, digits, or
// underscores.
func validUniformName(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		if i == 0 {
			if !unicode.IsUpper(r) {
				return false
			}
			continue
		}
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			return false
		}
	}
	return true
}
