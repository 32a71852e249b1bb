package appstate

import "image"

const (
	tabHeight   = 36
	rowHeight   = 24
	pad         = 4
	panelRows   = 3
	panelHeight = panelRows*rowHeight + (panelRows+1)*pad
)

// Layout splits the window into the canvas, the tool panel below it and the
// tabs bar along the bottom edge.
type Layout struct {
	Window image.Rectangle
	Canvas image.Rectangle
	Panel  image.Rectangle
	Tabs   image.Rectangle
}

// NewLayout lays out a window of the given size. The canvas keeps at least
// one row of pixels.
func NewLayout(width, height int) Layout {
	if width < 1 {
		width = 1
	}
	if minH := tabHeight + panelHeight + 1; height < minH {
		height = minH
	}
	tabsTop := height - tabHeight
	panelTop := tabsTop - panelHeight
	return Layout{
		Window: image.Rect(0, 0, width, height),
		Canvas: image.Rect(0, 0, width, panelTop),
		Panel:  image.Rect(0, panelTop, width, tabsTop),
		Tabs:   image.Rect(0, tabsTop, width, height),
	}
}

// WindowSize returns the window needed for a canvas of the given size.
func WindowSize(canvasW, canvasH int) image.Point {
	return image.Pt(canvasW, canvasH+panelHeight+tabHeight)
}

// Surface centres a surface of the given size in the canvas.
func (l Layout) Surface(size image.Point) image.Rectangle {
	x := l.Canvas.Min.X + (l.Canvas.Dx()-size.X)/2
	y := l.Canvas.Min.Y + (l.Canvas.Dy()-size.Y)/2
	return image.Rectangle{Min: image.Pt(x, y), Max: image.Pt(x+size.X, y+size.Y)}
}

// TabRects divides the tabs bar evenly between n tabs.
func (l Layout) TabRects(n int) []image.Rectangle {
	return splitRow(l.Tabs, n, 0)
}

// TabAt returns the index of the tab under p.
func (l Layout) TabAt(p image.Point, n int) (int, bool) {
	for i, r := range l.TabRects(n) {
		if p.In(r) {
			return i, true
		}
	}
	return -1, false
}

// Row returns the i-th row of the tool panel, inset by the padding.
func (l Layout) Row(i int) image.Rectangle {
	y := l.Panel.Min.Y + pad + i*(rowHeight+pad)
	return image.Rect(l.Panel.Min.X+pad, y, l.Panel.Max.X-pad, y+rowHeight)
}

// ToSurface maps a window point into surface coordinates.
func ToSurface(surface image.Rectangle, x, y float32) (float64, float64) {
	return float64(x) - float64(surface.Min.X), float64(y) - float64(surface.Min.Y)
}

// splitRow cuts r into n columns separated by gap pixels. The last column
// absorbs any remainder.
func splitRow(r image.Rectangle, n, gap int) []image.Rectangle {
	if n <= 0 {
		return nil
	}
	avail := r.Dx() - gap*(n-1)
	w := avail / n
	out := make([]image.Rectangle, n)
	x := r.Min.X
	for i := range out {
		x1 := x + w
		if i == n-1 {
			x1 = r.Max.X
		}
		out[i] = image.Rect(x, r.Min.Y, x1, r.Max.Y)
		x = x1 + gap
	}
	return out
}

// splitAt cuts r vertically at the fraction f of its width.
func splitAt(r image.Rectangle, f float64) (image.Rectangle, image.Rectangle) {
	x := r.Min.X + int(float64(r.Dx())*f)
	return image.Rect(r.Min.X, r.Min.Y, x, r.Max.Y), image.Rect(x+pad, r.Min.Y, r.Max.X, r.Max.Y)
}
