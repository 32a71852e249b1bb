package appstate

import (
	"context"
	"image"
	"image/color"
	"image/draw"
	"log"
	"time"

	"github.com/example/mediaeditor/internal/theme"
	"golang.org/x/exp/shiny/screen"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// frameDropThreshold specifies how many consecutive frames can be canceled
// before a draw is allowed to complete to keep the UI responsive.
const frameDropThreshold = 10

// PaintState is everything needed to draw one window frame. It is built on
// the event loop and handed to the paint goroutine.
type PaintState struct {
	Width, Height int
	Theme         *theme.Theme

	// Frame is the flattened editing surface, drawn centred in the canvas.
	Frame *image.RGBA

	Tabs     []string
	Current  int
	HoverTab int

	Widgets []Widget
	Hover   int
	Pressed int

	Message      string
	MessageUntil time.Time
	Status       string
}

func fillRect(dst *image.RGBA, r image.Rectangle, c color.Color) {
	draw.Draw(dst, r, &image.Uniform{c}, image.Point{}, draw.Over)
}

func strokeRect(dst *image.RGBA, r image.Rectangle, c color.Color, thick int) {
	fillRect(dst, image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+thick), c)
	fillRect(dst, image.Rect(r.Min.X, r.Max.Y-thick, r.Max.X, r.Max.Y), c)
	fillRect(dst, image.Rect(r.Min.X, r.Min.Y, r.Min.X+thick, r.Max.Y), c)
	fillRect(dst, image.Rect(r.Max.X-thick, r.Min.Y, r.Max.X, r.Max.Y), c)
}

// drawLabel centres s in r using the fixed 7x13 face, truncating on the
// right when it does not fit.
func drawLabel(dst *image.RGBA, r image.Rectangle, s string, c color.Color) {
	face := basicfont.Face7x13
	d := &font.Drawer{Dst: dst, Src: &image.Uniform{c}, Face: face}
	for s != "" && d.MeasureString(s).Ceil() > r.Dx()-4 {
		rs := []rune(s)
		s = string(rs[:len(rs)-1])
	}
	w := d.MeasureString(s).Ceil()
	m := face.Metrics()
	ascent, descent := m.Ascent.Ceil(), m.Descent.Ceil()
	x := r.Min.X + (r.Dx()-w)/2
	y := r.Min.Y + (r.Dy()-ascent-descent)/2 + ascent
	d.Dot = fixed.P(x, y)
	d.DrawString(s)
}

// drawCheckerboard fills rect of dst with a checkerboard pattern of the given
// colors. size controls the checker square size.
func drawCheckerboard(dst *image.RGBA, rect image.Rectangle, size int, light, dark color.Color) {
	l, d := &image.Uniform{light}, &image.Uniform{dark}
	for y := rect.Min.Y; y < rect.Max.Y; y += size {
		for x := rect.Min.X; x < rect.Max.X; x += size {
			src := l
			if ((x-rect.Min.X)/size+(y-rect.Min.Y)/size)%2 != 0 {
				src = d
			}
			cell := image.Rect(x, y, x+size, y+size).Intersect(rect)
			draw.Draw(dst, cell, src, image.Point{}, draw.Src)
		}
	}
}

// DrawScene renders st into dst. It stops early when ctx is cancelled; a nil
// ctx never cancels.
func DrawScene(ctx context.Context, dst *image.RGBA, st PaintState) {
	if ctx == nil {
		ctx = context.Background()
	}
	th := st.Theme
	if th == nil {
		th = theme.Default()
	}
	l := NewLayout(st.Width, st.Height)
	draw.Draw(dst, l.Canvas, &image.Uniform{th.Background}, image.Point{}, draw.Src)

	if st.Frame != nil {
		surface := l.Surface(st.Frame.Bounds().Size())
		visible := surface.Intersect(l.Canvas)
		drawCheckerboard(dst, visible, 8, th.CheckerLight, th.CheckerDark)
		sp := st.Frame.Bounds().Min.Add(visible.Min.Sub(surface.Min))
		draw.Draw(dst, visible, st.Frame, sp, draw.Over)
	}
	if ctx.Err() != nil {
		return
	}

	draw.Draw(dst, l.Panel, &image.Uniform{th.PanelBackground}, image.Point{}, draw.Src)
	for i, w := range st.Widgets {
		state := StateDefault
		switch i {
		case st.Pressed:
			state = StatePressed
		case st.Hover:
			state = StateHover
		}
		w.Draw(dst, th, state)
	}
	if ctx.Err() != nil {
		return
	}

	drawTabs(dst, l, th, st)

	if st.Status != "" {
		r := image.Rect(l.Canvas.Min.X+pad, l.Canvas.Max.Y-rowHeight-pad, l.Canvas.Max.X-pad, l.Canvas.Max.Y-pad)
		drawLabel(dst, r, st.Status, th.Foreground)
	}

	if st.Message != "" && time.Now().Before(st.MessageUntil) {
		d := &font.Drawer{Face: basicfont.Face7x13}
		w := d.MeasureString(st.Message).Ceil() + 24
		c := l.Canvas.Min.Add(l.Canvas.Size().Div(2))
		r := image.Rect(c.X-w/2, c.Y-rowHeight/2, c.X+w/2, c.Y+rowHeight/2)
		fillRect(dst, r, color.NRGBA{0, 0, 0, 0xC0})
		strokeRect(dst, r, th.Accent, 1)
		drawLabel(dst, r, st.Message, th.Foreground)
	}
}

func drawTabs(dst *image.RGBA, l Layout, th *theme.Theme, st PaintState) {
	draw.Draw(dst, l.Tabs, &image.Uniform{th.TabBackground}, image.Point{}, draw.Src)
	for i, r := range l.TabRects(len(st.Tabs)) {
		fg := th.TabText
		switch {
		case i == st.Current:
			fg = th.TabTextActive
			fillRect(dst, image.Rect(r.Min.X+pad, r.Max.Y-3, r.Max.X-pad, r.Max.Y), th.TabUnderline)
		case i == st.HoverTab:
			fillRect(dst, r, th.ButtonHover)
		}
		drawLabel(dst, r, st.Tabs[i], fg)
	}
}

// drawFrame renders st into a fresh screen buffer and publishes it.
func drawFrame(ctx context.Context, s screen.Screen, w screen.Window, st PaintState) {
	b, err := s.NewBuffer(image.Point{st.Width, st.Height})
	if err != nil {
		log.Printf("new buffer: %v", err)
		return
	}
	defer b.Release()

	DrawScene(ctx, b.RGBA(), st)
	if ctx.Err() != nil {
		return
	}
	w.Upload(image.Point{}, b, b.Bounds())
	w.Publish()
}
