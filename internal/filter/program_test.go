package filter

import (
	"encoding/binary"
	"errors"
	"math"
	"strings"
	"testing"
)

func TestShaderSourceDeclaresAdjustments(t *testing.T) {
	src := ShaderSource()
	required := []string{"@vertex", "@fragment", "vs_main", "fs_main", "texture_2d<f32>", "sampler", "textureSample", "texture_size"}
	required = append(required, uniformNames...)
	for _, req := range required {
		if !strings.Contains(src, req) {
			t.Errorf("shader missing %q", req)
		}
	}
}

func TestCompileRejectsBadOutput(t *testing.T) {
	_, err := Compile("x", func(string) ([]byte, error) { return []byte{1, 2, 3, 4}, nil })
	if !errors.Is(err, ErrCompile) {
		t.Fatalf("err = %v, want ErrCompile", err)
	}
	_, err = Compile("x", func(string) ([]byte, error) { return nil, errors.New("expected ';'") })
	if !errors.Is(err, ErrCompile) || !strings.Contains(err.Error(), "expected ';'") {
		t.Fatalf("diagnostic lost: %v", err)
	}
}

func TestUniformLayout(t *testing.T) {
	u := Uniforms{Settings: Settings{Enhance: 1, Sharpen: 9, Grain: 10}, Width: 640, Height: 480}
	b := u.Bytes()
	if len(b) != 56 {
		t.Fatalf("len = %d", len(b))
	}
	f := func(off int) float32 { return math.Float32frombits(binary.LittleEndian.Uint32(b[off:])) }
	if f(0) != 1 || f(36) != 9 || f(40) != 10 {
		t.Fatalf("channel offsets wrong: %v %v %v", f(0), f(36), f(40))
	}
	if f(48) != 640 || f(52) != 480 {
		t.Fatalf("texture size = %v x %v", f(48), f(52))
	}
}
