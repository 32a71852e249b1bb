package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"log"
	"math"

	"github.com/example/mediaeditor/internal/compositor"
	"github.com/example/mediaeditor/internal/overlay"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
)

// Renderer measures and draws overlay elements.
type Renderer struct {
	fonts *FontSet
}

// NewRenderer returns a renderer using fonts, or the bundled fonts when nil.
func NewRenderer(fonts *FontSet) *Renderer {
	if fonts == nil {
		fonts = NewFontSet()
	}
	return &Renderer{fonts: fonts}
}

// Fonts returns the font set.
func (r *Renderer) Fonts() *FontSet { return r.fonts }

// Measure implements overlay.Measurer.
func (r *Renderer) Measure(e overlay.Element) (float64, float64) {
	switch e.Kind {
	case overlay.KindSticker:
		if e.Sticker.Image == nil {
			return 0, 0
		}
		b := e.Sticker.Image.Bounds()
		return float64(b.Dx()), float64(b.Dy())
	default:
		l, err := r.LayoutText(e.Display(), e.Text.Style)
		if err != nil {
			log.Printf("measure text %d: %v", e.ID, err)
			return 0, 0
		}
		return float64(l.Width), float64(l.Height)
	}
}

// Rasterize returns the element's unscaled pixels.
func (r *Renderer) Rasterize(e overlay.Element) (image.Image, error) {
	if e.Kind == overlay.KindSticker {
		if e.Sticker.Image == nil {
			return nil, fmt.Errorf("sticker %d has no image", e.ID)
		}
		return e.Sticker.Image, nil
	}
	return r.RasterizeText(e.Display(), e.Text.Style)
}

// Transform returns the source-to-surface matrix for an element whose
// unscaled pixels are src. Scale and rotation apply about the centre.
func Transform(e overlay.Element, src image.Rectangle) f64.Aff3 {
	w, h := float64(src.Dx()), float64(src.Dy())
	s := e.Scale
	if s == 0 {
		s = 1
	}
	sin, cos := math.Sincos(e.Rotation)
	a, b := s*cos, -s*sin
	d, ee := s*sin, s*cos
	cx, cy := e.X+w/2, e.Y+h/2
	sx, sy := float64(src.Min.X)+w/2, float64(src.Min.Y)+h/2
	return f64.Aff3{
		a, b, cx - (a*sx + b*sy),
		d, ee, cy - (d*sx + ee*sy),
	}
}

// DrawElement composites e onto dst.
func (r *Renderer) DrawElement(dst draw.Image, e overlay.Element) error {
	src, err := r.Rasterize(e)
	if err != nil {
		return err
	}
	sb := src.Bounds()
	if sb.Empty() {
		return nil
	}
	if (e.Scale == 1 || e.Scale == 0) && e.Rotation == 0 && e.X == math.Trunc(e.X) && e.Y == math.Trunc(e.Y) {
		at := image.Pt(int(e.X), int(e.Y))
		draw.Draw(dst, sb.Sub(sb.Min).Add(at), src, sb.Min, draw.Over)
		return nil
	}
	xdraw.BiLinear.Transform(dst, Transform(e, sb), src, sb, xdraw.Over, nil)
	return nil
}

// Painter draws every element of a model, substituting the live preview of
// an element being dragged.
type Painter struct {
	r *Renderer
	m *overlay.Model
}

// Overlay returns a painter for m suitable for compositor.Flatten.
func (r *Renderer) Overlay(m *overlay.Model) Painter {
	return Painter{r: r, m: m}
}

var _ compositor.OverlayPainter = Painter{}

// Paint implements compositor.OverlayPainter.
func (p Painter) Paint(dst *image.RGBA) error {
	preview, dragging := p.m.Preview()
	for _, e := range p.m.Elements() {
		if dragging && e.ID == preview.ID {
			e = preview
		}
		if err := p.r.DrawElement(dst, e); err != nil {
			return fmt.Errorf("draw element %d: %w", e.ID, err)
		}
	}
	return nil
}

var (
	outlineColor = color.NRGBA{255, 255, 255, 160}
	handleColor  = color.NRGBA{255, 255, 255, 255}
)

// DrawDecorations outlines the focused element and draws its handles. It is
// for on-screen display only and is never part of an export.
func (r *Renderer) DrawDecorations(dst draw.Image, m *overlay.Model) {
	id := m.Focused()
	e, err := m.Get(id)
	if err != nil {
		return
	}
	if pe, ok := m.Preview(); ok && pe.ID == id {
		e = pe
	}
	rect := m.Bounds(e)
	if e.Rotation == 0 {
		box := image.Rect(int(rect.Min.X), int(rect.Min.Y), int(math.Ceil(rect.Max.X)), int(math.Ceil(rect.Max.Y)))
		strokeRect(dst, box, outlineColor)
	}
	for _, h := range m.Handles(id) {
		hr := image.Rect(int(h.Rect.Min.X), int(h.Rect.Min.Y), int(h.Rect.Max.X), int(h.Rect.Max.Y))
		draw.Draw(dst, hr, image.NewUniform(handleColor), image.Point{}, draw.Over)
	}
}

func strokeRect(dst draw.Image, r image.Rectangle, c color.Color) {
	u := image.NewUniform(c)
	draw.Draw(dst, image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+1), u, image.Point{}, draw.Over)
	draw.Draw(dst, image.Rect(r.Min.X, r.Max.Y-1, r.Max.X, r.Max.Y), u, image.Point{}, draw.Over)
	draw.Draw(dst, image.Rect(r.Min.X, r.Min.Y, r.Min.X+1, r.Max.Y), u, image.Point{}, draw.Over)
	draw.Draw(dst, image.Rect(r.Max.X-1, r.Min.Y, r.Max.X, r.Max.Y), u, image.Point{}, draw.Over)
}
