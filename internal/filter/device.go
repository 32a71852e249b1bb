package filter

import (
	"fmt"
	"image"
	"math"
)

// Device executes a compiled program over a target image. A GPU device
// uploads prog.Words as its shader module and u.Bytes() as the uniform
// buffer. SoftwareDevice ignores the words and evaluates shade, the CPU
// rendition of the same fragment stage.
type Device interface {
	Name() string
	// Draw runs one full-target pass of prog sampling tex.
	Draw(prog *Program, tex *Texture, u Uniforms, dst *image.NRGBA) error
	Release()
}

// Acquirer obtains a Device for an engine.
type Acquirer func() (Device, error)

// SoftwareDevice evaluates the adjustment program on the CPU.
type SoftwareDevice struct{}

// AcquireSoftware returns a SoftwareDevice.
func AcquireSoftware() (Device, error) { return SoftwareDevice{}, nil }

func (SoftwareDevice) Name() string { return "software" }

func (SoftwareDevice) Release() {}

func (SoftwareDevice) Draw(prog *Program, tex *Texture, u Uniforms, dst *image.NRGBA) error {
	if prog == nil {
		return fmt.Errorf("filter: draw without program")
	}
	if tex == nil {
		return fmt.Errorf("filter: draw without texture")
	}
	b := dst.Bounds()
	w, h := b.Dx(), b.Dy()
	for y := 0; y < h; y++ {
		row := dst.Pix[y*dst.Stride:]
		for x := 0; x < w; x++ {
			uv := [2]float64{(float64(x) + 0.5) / float64(w), 1 - (float64(y)+0.5)/float64(h)}
			c := shade(tex, u, uv)
			i := x * 4
			row[i+0] = to8(c[0])
			row[i+1] = to8(c[1])
			row[i+2] = to8(c[2])
			row[i+3] = to8(c[3])
		}
	}
	return nil
}

func to8(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}

type vec3 [3]float32

func (a vec3) add(s float32) vec3 { return vec3{a[0] + s, a[1] + s, a[2] + s} }
func (a vec3) mul(s float32) vec3 { return vec3{a[0] * s, a[1] * s, a[2] * s} }

func (a vec3) clamp() vec3 {
	return vec3{clamp01(a[0]), clamp01(a[1]), clamp01(a[2])}
}

func (a vec3) lum() float32 {
	return a[0]*0.2126 + a[1]*0.7152 + a[2]*0.0722
}

func mixv(a, b vec3, t float32) vec3 {
	return vec3{a[0] + (b[0]-a[0])*t, a[1] + (b[1]-a[1])*t, a[2] + (b[2]-a[2])*t}
}

func mixf(a, b, t float32) float32 { return a + (b-a)*t }

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func smoothstep(e0, e1, x float32) float32 {
	t := clamp01((x - e0) / (e1 - e0))
	return t * t * (3 - 2*t)
}

func fract(v float32) float32 { return v - float32(math.Floor(float64(v))) }

func noise(u, v float32) float32 {
	x := u * 10
	y := v * 10
	d := x*12.9898 + y*78.233
	return fract(float32(math.Sin(float64(d))) * 43758.5453)
}

// shade is the fragment stage of shader.wgsl.
func shade(tex *Texture, u Uniforms, uv [2]float64) [4]float32 {
	s := u.Settings
	src := tex.Sample(uv[0], uv[1])
	rgb := vec3{src[0], src[1], src[2]}

	rgb = rgb.add(float32(s.Brightness/100) * 0.5).clamp()

	cf := float32(1 + s.Contrast/100)
	if cf < 0.1 {
		cf = 0.1
	}
	rgb = rgb.add(-0.5).mul(cf).add(0.5).clamp()

	rgb = rgb.add(clamp01(float32(s.Enhance) * 0.25 / 100)).clamp()

	g := rgb.lum()
	rgb = mixv(vec3{g, g, g}, rgb, float32(s.Saturation/100)+1)

	warmth := float32(s.Warmth) * 0.2 / 100
	if s.Warmth < 0 {
		warmth = float32(s.Warmth) * 0.5 / 100
	}
	rgb = mixv(rgb, vec3{1, 0.8, 0.6}, warmth)

	rgb = rgb.mul(1 - float32(s.Fade/100)*0.5)

	lum := rgb.lum()
	if lum > 0.7 {
		k := float32(s.Highlights/100) * 0.5
		rgb = vec3{rgb[0] + (1-rgb[0])*k, rgb[1] + (1-rgb[1])*k, rgb[2] + (1-rgb[2])*k}.clamp()
	}
	if lum < 0.3 {
		k := float32(s.Shadows/100) * 0.5
		rgb = vec3{rgb[0] - rgb[0]*k, rgb[1] - rgb[1]*k, rgb[2] - rgb[2]*k}.clamp()
	}

	strength := float32(s.Vignette) * 0.8 / 100
	if strength != 0 {
		cx := float32(uv[0]-0.5) * (u.Width / u.Height)
		cy := float32(uv[1] - 0.5)
		dist := float32(math.Sqrt(float64(cx*cx + cy*cy)))
		rgb = rgb.mul(mixf(1, 1-smoothstep(0.3, 0.5, dist)*strength, strength))
	}

	if amount := float32(s.Grain) * 0.3 / 100; amount != 0 {
		grain := noise(float32(uv[0])*u.Width, float32(uv[1])*u.Height) * amount
		rgb = rgb.add(grain)
	}
	rgb = rgb.clamp()

	out := [4]float32{rgb[0], rgb[1], rgb[2], src[3]}
	if k := float32(s.Sharpen / 100); k != 0 {
		dx := 1 / float64(u.Width)
		dy := 1 / float64(u.Height)
		l := tex.Sample(uv[0]-dx, uv[1])
		r := tex.Sample(uv[0]+dx, uv[1])
		t := tex.Sample(uv[0], uv[1]-dy)
		b := tex.Sample(uv[0], uv[1]+dy)
		for i := 0; i < 4; i++ {
			out[i] = out[i]*(1+4*k) - (l[i]+r[i]+t[i]+b[i])*k
		}
		out[0], out[1], out[2] = clamp01(out[0]), clamp01(out[1]), clamp01(out[2])
	}
	return out
}
