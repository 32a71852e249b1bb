package render

import (
	"image"
	"image/color"
	"math"
	"strings"

	"github.com/example/mediaeditor/internal/overlay"
	"github.com/gogpu/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// TextLayout is the measured arrangement of a text field.
type TextLayout struct {
	Lines      []string
	Widths     []int
	Width      int
	Height     int
	LineHeight int
	Ascent     int
	Pad        int
	face       font.Face
}

// padding around text inside a frame, in pixels
func padFor(size int) int {
	p := size / 4
	if p < 2 {
		p = 2
	}
	return p
}

// LayoutText measures text in style. An empty size yields an empty layout.
func (r *Renderer) LayoutText(text string, style overlay.Style) (TextLayout, error) {
	if style.Size <= 0 {
		return TextLayout{}, nil
	}
	face, err := r.fonts.Face(style.Font, style.Size)
	if err != nil {
		return TextLayout{}, err
	}
	m := face.Metrics()
	l := TextLayout{
		Lines:      strings.Split(text, "\n"),
		LineHeight: m.Height.Ceil(),
		Ascent:     m.Ascent.Ceil(),
		Pad:        padFor(style.Size),
		face:       face,
	}
	if l.LineHeight <= 0 {
		l.LineHeight = style.Size
	}
	widest := 0
	for _, line := range l.Lines {
		w := font.MeasureString(face, line).Ceil()
		l.Widths = append(l.Widths, w)
		if w > widest {
			widest = w
		}
	}
	l.Width = widest + 2*l.Pad
	l.Height = len(l.Lines)*l.LineHeight + 2*l.Pad
	return l, nil
}

// lineX returns the left edge of line i for the alignment.
func (l TextLayout) lineX(i int, align overlay.Align) int {
	inner := l.Width - 2*l.Pad
	switch align {
	case overlay.AlignCentre:
		return l.Pad + (inner-l.Widths[i])/2
	case overlay.AlignRight:
		return l.Pad + inner - l.Widths[i]
	}
	return l.Pad
}

// RasterizeText draws a text field at its unscaled size.
func (r *Renderer) RasterizeText(text string, style overlay.Style) (*image.NRGBA, error) {
	l, err := r.LayoutText(text, style)
	if err != nil {
		return nil, err
	}
	if l.Width <= 0 || l.Height <= 0 {
		return image.NewNRGBA(image.Rect(0, 0, 0, 0)), nil
	}
	pm := gg.NewPixmap(l.Width, l.Height)
	dc := gg.NewContext(l.Width, l.Height, gg.WithPixmap(pm))
	defer dc.Close()
	radius := float64(l.Pad)

	textColor := parseColor(style.Color)
	switch style.Frame {
	case overlay.FrameBlack:
		dc.SetRGBA(0, 0, 0, 1)
		dc.DrawRoundedRectangle(0, 0, float64(l.Width), float64(l.Height), radius)
		_ = dc.Fill()
	case overlay.FrameWhite:
		// one highlight per line
		dc.SetRGBA(1, 1, 1, 1)
		for i := range l.Lines {
			if l.Widths[i] == 0 {
				continue
			}
			x := float64(l.lineX(i, style.Align) - l.Pad)
			y := float64(l.Pad + i*l.LineHeight)
			dc.DrawRoundedRectangle(x, y, float64(l.Widths[i]+2*l.Pad), float64(l.LineHeight), radius)
		}
		_ = dc.Fill()
		if isWhite(textColor) {
			textColor = color.NRGBA{A: 255}
		}
	}

	dst := &image.NRGBA{Pix: pm.Data(), Stride: l.Width * 4, Rect: image.Rect(0, 0, l.Width, l.Height)}
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(textColor), Face: l.face}
	for i, line := range l.Lines {
		d.Dot = fixed.P(l.lineX(i, style.Align), l.Pad+i*l.LineHeight+l.Ascent)
		d.DrawString(line)
	}
	return dst, nil
}

func isWhite(c color.NRGBA) bool {
	return c.R > 240 && c.G > 240 && c.B > 240
}

func parseColor(s string) color.NRGBA {
	c := gg.Hex(s)
	return color.NRGBA{
		R: uint8(math.Round(c.R * 255)),
		G: uint8(math.Round(c.G * 255)),
		B: uint8(math.Round(c.B * 255)),
		A: uint8(math.Round(c.A * 255)),
	}
}
