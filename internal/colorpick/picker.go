package colorpick

import (
	"image"
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

const (
	DefaultPickerWidth  = 300
	DefaultPickerHeight = 150
)

// Selection is a picked colour in both display formats.
type Selection struct {
	Hex string // uppercase #RRGGBB
	RGB string // "r, g, b"
}

// Picker is the 2D saturation/value field for a base hue. Horizontally it
// runs white to the base colour at the midpoint and stays at the base;
// vertically the lower half darkens towards black.
type Picker struct {
	Base   string
	Width  int
	Height int
	Thumb  image.Point

	base colorful.Color
}

// NewPicker returns a default-sized picker for base.
func NewPicker(base string) *Picker {
	p := &Picker{Width: DefaultPickerWidth, Height: DefaultPickerHeight, Thumb: image.Pt(100, 60)}
	p.SetBase(base)
	return p
}

// SetBase changes the base colour and returns it as the current selection.
func (p *Picker) SetBase(base string) Selection {
	c, err := ParseColor(base)
	if err != nil {
		c = color.NRGBA{255, 255, 255, 255}
	}
	p.base, _ = colorful.MakeColor(color.NRGBA{c.R, c.G, c.B, 255})
	p.Base = FormatHex(color.NRGBA{c.R, c.G, c.B, 255})
	return Selection{Hex: p.Base, RGB: RGBString(p.Base)}
}

// ColorAt returns the field colour of pixel (x, y).
func (p *Picker) ColorAt(x, y int) color.NRGBA {
	x = clampInt(x, 0, p.Width-1)
	y = clampInt(y, 0, p.Height-1)
	t := (float64(x) + 0.5) / float64(p.Width)
	s := (float64(y) + 0.5) / float64(p.Height)

	white := colorful.Color{R: 1, G: 1, B: 1}
	c := p.base
	if t < 0.5 {
		c = white.BlendRgb(p.base, t/0.5)
	}
	dark := 0.0
	if s > 0.5 {
		dark = (s - 0.5) / 0.5
	}
	c = colorful.Color{R: c.R * (1 - dark), G: c.G * (1 - dark), B: c.B * (1 - dark)}
	return color.NRGBA{R: to8(c.R), G: to8(c.G), B: to8(c.B), A: 255}
}

func to8(v float64) uint8 {
	return uint8(math.Round(math.Max(0, math.Min(1, v)) * 255))
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Pick moves the thumb to (x, y) and returns the colour under it.
func (p *Picker) Pick(x, y int) Selection {
	p.Thumb = image.Pt(clampInt(x, 0, p.Width-1), clampInt(y, 0, p.Height-1))
	c := p.ColorAt(p.Thumb.X, p.Thumb.Y)
	hex := FormatHex(c)
	return Selection{Hex: hex, RGB: RGBString(hex)}
}

// Render draws the whole field.
func (p *Picker) Render() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, p.Width, p.Height))
	for y := 0; y < p.Height; y++ {
		for x := 0; x < p.Width; x++ {
			img.SetNRGBA(x, y, p.ColorAt(x, y))
		}
	}
	return img
}
