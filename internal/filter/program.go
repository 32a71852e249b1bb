package filter

import (
	_ "embed"
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/gogpu/naga"
)

//go:embed shader.wgsl
var shaderSource string

// ShaderSource returns the WGSL source of the adjustment program.
func ShaderSource() string { return shaderSource }

const spirvMagic = 0x07230203

var (
	// ErrCompile wraps shader compiler diagnostics.
	ErrCompile = errors.New("filter: shader compile failed")
	// ErrNoDevice reports that no graphics device could be acquired.
	ErrNoDevice = errors.New("filter: no graphics device")
)

// Compiler turns WGSL source into SPIR-V bytes.
type Compiler func(source string) ([]byte, error)

// NagaCompiler compiles with github.com/gogpu/naga.
func NagaCompiler(source string) ([]byte, error) { return naga.Compile(source) }

// Program is a compiled adjustment program.
type Program struct {
	Source string
	Words  []uint32
}

// Compile compiles src and checks the SPIR-V header.
func Compile(src string, compile Compiler) (*Program, error) {
	if compile == nil {
		compile = NagaCompiler
	}
	out, err := compile(src)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCompile, err)
	}
	if len(out) < 4 || len(out)%4 != 0 {
		return nil, fmt.Errorf("%w: SPIR-V output has %d bytes", ErrCompile, len(out))
	}
	words := make([]uint32, len(out)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(out[i*4:])
	}
	if words[0] != spirvMagic {
		return nil, fmt.Errorf("%w: bad SPIR-V magic 0x%08X", ErrCompile, words[0])
	}
	return &Program{Source: src, Words: words}, nil
}

// uniformNames is the field order of the Adjustments block.
var uniformNames = []string{
	"enhance", "brightness", "contrast", "saturation", "warmth", "fade",
	"highlights", "shadows", "vignette", "sharpen", "grain",
}

// Uniforms is the value of the Adjustments block bound for one draw.
type Uniforms struct {
	Settings Settings
	Width    float32
	Height   float32
}

// Bytes packs u with std140-compatible layout: eleven f32, one pad and a
// vec2 at offset 48.
func (u Uniforms) Bytes() []byte {
	buf := make([]byte, 56)
	for i, name := range uniformNames {
		v, _ := u.Settings.Get(name)
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(float32(v)))
	}
	binary.LittleEndian.PutUint32(buf[48:], math.Float32bits(u.Width))
	binary.LittleEndian.PutUint32(buf[52:], math.Float32bits(u.Height))
	return buf
}
