// Package compositor owns the three working surfaces of an edit session and
// merges them into the exported image.
package compositor

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"io"

	"github.com/gogpu/gg"
	xdraw "golang.org/x/image/draw"
)

// OverlayPainter draws elements that sit above the raster surfaces.
type OverlayPainter interface {
	Paint(dst *image.RGBA) error
}

// OverlayFunc adapts a function to OverlayPainter.
type OverlayFunc func(dst *image.RGBA) error

// Paint calls f(dst).
func (f OverlayFunc) Paint(dst *image.RGBA) error { return f(dst) }

// Fit returns the working size for a source of srcW x srcH shown in a
// viewW x viewH viewport, preserving the source aspect ratio.
func Fit(srcW, srcH, viewW, viewH int) (int, int) {
	if srcW <= 0 || srcH <= 0 {
		return 0, 0
	}
	if viewW <= 0 || viewH <= 0 {
		return srcW, srcH
	}
	aspect := float64(srcW) / float64(srcH)
	w := float64(viewW)
	h := float64(viewW) / aspect
	if float64(viewW)/float64(viewH) > aspect {
		w = float64(viewH) * aspect
		h = float64(viewH)
	}
	iw, ih := int(w), int(h)
	if iw < 1 {
		iw = 1
	}
	if ih < 1 {
		ih = 1
	}
	return iw, ih
}

// Compositor holds the background, filter and drawing surfaces. All three
// always share the same bounds.
type Compositor struct {
	source     image.Image
	background *image.RGBA
	filter     *image.NRGBA
	drawing    *gg.Pixmap
}

// New scales src into a w x h background and allocates the other surfaces.
func New(src image.Image, w, h int) (*Compositor, error) {
	if src == nil {
		return nil, fmt.Errorf("compositor: nil source")
	}
	c := &Compositor{source: src}
	if err := c.Resize(w, h); err != nil {
		return nil, err
	}
	return c, nil
}

// Resize recreates all surfaces at w x h. The background is redrawn from the
// source, existing strokes are scaled into the new drawing surface and the
// filter surface is left empty for the next render.
func (c *Compositor) Resize(w, h int) error {
	if w <= 0 || h <= 0 {
		return fmt.Errorf("compositor: invalid size %dx%d", w, h)
	}
	rect := image.Rect(0, 0, w, h)
	bg := image.NewRGBA(rect)
	sb := c.source.Bounds()
	if sb.Dx() == w && sb.Dy() == h {
		draw.Draw(bg, rect, c.source, sb.Min, draw.Src)
	} else {
		xdraw.CatmullRom.Scale(bg, rect, c.source, sb, draw.Src, nil)
	}

	drawing := gg.NewPixmap(w, h)
	if c.drawing != nil {
		old := PixmapImage(c.drawing)
		xdraw.ApproxBiLinear.Scale(PixmapImage(drawing), rect, old, old.Rect, draw.Src, nil)
	}

	c.background = bg
	c.filter = image.NewNRGBA(rect)
	c.drawing = drawing
	return nil
}

// Bounds returns the shared surface bounds.
func (c *Compositor) Bounds() image.Rectangle { return c.background.Rect }

// Source returns the image the session was opened with.
func (c *Compositor) Source() image.Image { return c.source }

// Background returns the background surface. It is not modified after load.
func (c *Compositor) Background() *image.RGBA { return c.background }

// Filter returns the filter surface.
func (c *Compositor) Filter() *image.NRGBA { return c.filter }

// SetFilter replaces the filter surface with the engine's render target.
func (c *Compositor) SetFilter(img *image.NRGBA) error {
	if img.Rect != c.background.Rect {
		return fmt.Errorf("compositor: filter surface %v does not match %v", img.Rect, c.background.Rect)
	}
	c.filter = img
	return nil
}

// Drawing returns the drawing surface.
func (c *Compositor) Drawing() *gg.Pixmap { return c.drawing }

// PixmapImage views a gg pixmap as a straight-alpha image without copying.
func PixmapImage(pm *gg.Pixmap) *image.NRGBA {
	return &image.NRGBA{
		Pix:    pm.Data(),
		Stride: pm.Width() * 4,
		Rect:   image.Rect(0, 0, pm.Width(), pm.Height()),
	}
}

// FlattenImage merges background, filter, drawing and overlays in that order.
func (c *Compositor) FlattenImage(overlays ...OverlayPainter) (*image.RGBA, error) {
	rect := c.background.Rect
	out := image.NewRGBA(rect)
	draw.Draw(out, rect, c.background, image.Point{}, draw.Src)
	draw.Draw(out, rect, c.filter, image.Point{}, draw.Over)
	draw.Draw(out, rect, PixmapImage(c.drawing), image.Point{}, draw.Over)
	for _, o := range overlays {
		if o == nil {
			continue
		}
		if err := o.Paint(out); err != nil {
			return nil, fmt.Errorf("flatten overlays: %w", err)
		}
	}
	return out, nil
}

// Flatten writes the merged surfaces to w as PNG.
func (c *Compositor) Flatten(w io.Writer, overlays ...OverlayPainter) error {
	img, err := c.FlattenImage(overlays...)
	if err != nil {
		return err
	}
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("flatten encode: %w", err)
	}
	return nil
}

// FlattenPNG returns the merged surfaces as PNG bytes.
func (c *Compositor) FlattenPNG(overlays ...OverlayPainter) ([]byte, error) {
	var buf bytes.Buffer
	if err := c.Flatten(&buf, overlays...); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
