package filter

import (
	"errors"
	"image"
	"image/color"
	"testing"
)

// stubCompiler returns a minimal SPIR-V header so tests do not depend on the
// WGSL front end.
func stubCompiler(string) ([]byte, error) {
	return []byte{0x03, 0x02, 0x23, 0x07, 0, 0, 1, 0}, nil
}

func gradient(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(x * 255 / (w - 1)),
				G: uint8(y * 255 / (h - 1)),
				B: uint8((x + y) * 255 / (w + h - 2)),
				A: 255,
			})
		}
	}
	return img
}

func newTestEngine(t *testing.T, src image.Image) (*Engine, *Target) {
	t.Helper()
	e := NewEngine(WithCompiler(stubCompiler))
	target, err := e.Initialize(src)
	if err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	t.Cleanup(func() { e.Close() })
	return e, target
}

func absDiff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}

func TestIdentityReproducesSource(t *testing.T) {
	src := gradient(32, 24)
	e, target := newTestEngine(t, src)
	if err := e.Render(Settings{}); err != nil {
		t.Fatalf("Render: %v", err)
	}
	out := target.Image()
	for y := 0; y < 24; y++ {
		for x := 0; x < 32; x++ {
			a := src.NRGBAAt(x, y)
			b := out.NRGBAAt(x, y)
			if absDiff(a.R, b.R) > 1 || absDiff(a.G, b.G) > 1 || absDiff(a.B, b.B) > 1 || a.A != b.A {
				t.Fatalf("pixel (%d,%d): got %v want %v", x, y, b, a)
			}
		}
	}
}

func TestBrightnessIsMonotonic(t *testing.T) {
	src := gradient(16, 16)
	e, target := newTestEngine(t, src)
	prev := image.NewNRGBA(src.Rect)
	copy(prev.Pix, src.Pix)
	for _, b := range []float64{0, 10, 35, 60, 100} {
		if err := e.Render(Settings{Brightness: b}); err != nil {
			t.Fatalf("Render: %v", err)
		}
		out := target.Image()
		for i := 0; i < len(out.Pix); i += 4 {
			for k := 0; k < 3; k++ {
				if out.Pix[i+k] < src.Pix[i+k] {
					t.Fatalf("brightness %v lowered channel %d at byte %d: %d < %d", b, k, i, out.Pix[i+k], src.Pix[i+k])
				}
				if out.Pix[i+k] < prev.Pix[i+k] {
					t.Fatalf("brightness %v darker than the previous step at byte %d", b, i)
				}
			}
		}
		copy(prev.Pix, out.Pix)
	}
}

func TestBrightnessSaturatesAtWhite(t *testing.T) {
	src := gradient(8, 8)
	e, target := newTestEngine(t, src)
	if err := e.Render(Settings{Brightness: 100}); err != nil {
		t.Fatal(err)
	}
	c := target.Image().NRGBAAt(7, 7)
	if c.R != 255 || c.G != 255 || c.B != 255 {
		t.Fatalf("bright corner = %v, want white", c)
	}
}

func TestContrastFloor(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	src.SetNRGBA(0, 0, color.NRGBA{0, 0, 0, 255})
	src.SetNRGBA(1, 0, color.NRGBA{255, 255, 255, 255})
	e, target := newTestEngine(t, src)
	if err := e.Render(Settings{Contrast: -100}); err != nil {
		t.Fatal(err)
	}
	// factor floors at 0.1: 0.5 -/+ 0.05
	dark := target.Image().NRGBAAt(0, 0)
	light := target.Image().NRGBAAt(1, 0)
	if absDiff(dark.R, 115) > 1 || absDiff(light.R, 140) > 1 {
		t.Fatalf("contrast -100: dark %d light %d, want ~115 and ~140", dark.R, light.R)
	}
}

func TestSaturationRemovesColour(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	src.SetNRGBA(0, 0, color.NRGBA{200, 40, 40, 255})
	e, target := newTestEngine(t, src)
	if err := e.Render(Settings{Saturation: -100}); err != nil {
		t.Fatal(err)
	}
	c := target.Image().NRGBAAt(0, 0)
	if absDiff(c.R, c.G) > 1 || absDiff(c.G, c.B) > 1 {
		t.Fatalf("saturation -100 left colour %v", c)
	}
}

func TestVignetteDarkensCornersOnly(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 41, 41))
	for i := range src.Pix {
		src.Pix[i] = 200
	}
	e, target := newTestEngine(t, src)
	if err := e.Render(Settings{Vignette: 100}); err != nil {
		t.Fatal(err)
	}
	out := target.Image()
	if c := out.NRGBAAt(20, 20); absDiff(c.R, 200) > 1 {
		t.Errorf("centre changed: %v", c)
	}
	if c := out.NRGBAAt(0, 0); c.R >= 150 {
		t.Errorf("corner not darkened: %v", c)
	}
}

func TestGrainIsDeterministic(t *testing.T) {
	src := gradient(20, 20)
	e, target := newTestEngine(t, src)
	if err := e.Render(Settings{Grain: 80}); err != nil {
		t.Fatal(err)
	}
	first := append([]uint8(nil), target.Image().Pix...)
	if err := e.Render(Settings{Grain: 80}); err != nil {
		t.Fatal(err)
	}
	second := target.Image().Pix
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("grain differs between renders at byte %d", i)
		}
	}
}

func TestSharpenLeavesFlatRegions(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 10, 10))
	for i := range src.Pix {
		src.Pix[i] = 128
	}
	for i := 3; i < len(src.Pix); i += 4 {
		src.Pix[i] = 255
	}
	e, target := newTestEngine(t, src)
	if err := e.Render(Settings{Sharpen: 100}); err != nil {
		t.Fatal(err)
	}
	c := target.Image().NRGBAAt(5, 5)
	if absDiff(c.R, 128) > 1 || c.A != 255 {
		t.Fatalf("flat region changed by sharpen: %v", c)
	}
}

func TestSharpenBoostsEdges(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 4, 1))
	for x := 0; x < 4; x++ {
		v := uint8(100)
		if x >= 2 {
			v = 150
		}
		src.SetNRGBA(x, 0, color.NRGBA{v, v, v, 255})
	}
	e, target := newTestEngine(t, src)
	if err := e.Render(Settings{Sharpen: 50}); err != nil {
		t.Fatal(err)
	}
	if c := target.Image().NRGBAAt(2, 0); c.R <= 150 {
		t.Fatalf("bright side of edge not boosted: %v", c)
	}
	if c := target.Image().NRGBAAt(1, 0); c.R >= 100 {
		t.Fatalf("dark side of edge not reduced: %v", c)
	}
}

func TestNoDeviceFallsBackToPassthrough(t *testing.T) {
	src := gradient(8, 8)
	e := NewEngine(WithCompiler(stubCompiler), WithDevice(func() (Device, error) {
		return nil, errors.New("no adapter")
	}))
	target, err := e.Initialize(src)
	if !errors.Is(err, ErrNoDevice) {
		t.Fatalf("Initialize error = %v, want ErrNoDevice", err)
	}
	if target == nil || !e.Degraded() {
		t.Fatalf("expected a degraded target")
	}
	if err := e.Render(Settings{Brightness: 100}); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got, want := target.Image().NRGBAAt(3, 4), src.NRGBAAt(3, 4); got != want {
		t.Fatalf("passthrough pixel = %v, want %v", got, want)
	}
}

func TestCompileFailureYieldsNoTarget(t *testing.T) {
	e := NewEngine(WithCompiler(func(string) ([]byte, error) {
		return nil, errors.New("line 3: unknown identifier")
	}))
	target, err := e.Initialize(gradient(4, 4))
	if !errors.Is(err, ErrCompile) {
		t.Fatalf("error = %v, want ErrCompile", err)
	}
	if target != nil {
		t.Fatalf("expected nil target")
	}
	if err := e.Render(Settings{}); err != nil {
		t.Fatalf("Render after failed compile: %v", err)
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	e, _ := newTestEngine(t, gradient(4, 4))
	if err := e.Close(); err != nil {
		t.Fatal(err)
	}
	if err := e.Close(); err != nil {
		t.Fatal(err)
	}
	if e.Target() != nil {
		t.Fatal("target survived Close")
	}
}
