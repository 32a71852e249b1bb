package appstate

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/example/mediaeditor/internal/theme"
)

// ButtonState describes the visual state of a widget.
type ButtonState int

const (
	StateDefault ButtonState = iota
	StateHover
	StatePressed
)

// Widget is an interactive element of the tool panel. Press is called on a
// button press and, for draggable widgets, on every move while held.
type Widget interface {
	Draw(dst *image.RGBA, th *theme.Theme, state ButtonState)
	Rect() image.Rectangle
	Press(p image.Point)
}

// Button is a labelled push button. A non-nil Swatch draws a colour chip
// instead of the label.
type Button struct {
	Label    string
	Swatch   *color.NRGBA
	Selected bool
	rect     image.Rectangle
	onPress  func()
}

var _ Widget = (*Button)(nil)

func (b *Button) Draw(dst *image.RGBA, th *theme.Theme, state ButtonState) {
	bg := th.ButtonBackground
	if state == StateHover {
		bg = th.ButtonHover
	}
	fillRect(dst, b.rect, bg)
	if b.Swatch != nil {
		fillRect(dst, b.rect.Inset(3), *b.Swatch)
	} else {
		fg := th.ButtonText
		if b.Selected {
			fg = th.Accent
		}
		drawLabel(dst, b.rect, b.Label, fg)
	}
	if b.Selected || state == StatePressed {
		strokeRect(dst, b.rect, th.Accent, 2)
	}
}

func (b *Button) Rect() image.Rectangle { return b.rect }

func (b *Button) Press(image.Point) {
	if b.onPress != nil {
		b.onPress()
	}
}

// Slider maps a horizontal position onto [Min, Max]. Values are whole
// numbers. Press reports the new value through onChange; the panel is
// rebuilt to show it.
type Slider struct {
	Label    string
	Min, Max float64
	Value    float64
	rect     image.Rectangle
	onChange func(float64)
}

var _ Widget = (*Slider)(nil)

// track leaves room for the label on the left.
func (s *Slider) track() image.Rectangle {
	_, t := splitAt(s.rect, 0.3)
	return t
}

// ValueAt returns the value for window column x, clamped to the range.
func (s *Slider) ValueAt(x int) float64 {
	t := s.track()
	if t.Dx() <= 1 || s.Max <= s.Min {
		return s.Min
	}
	f := float64(x-t.Min.X) / float64(t.Dx()-1)
	f = math.Max(0, math.Min(1, f))
	return math.Round(s.Min + f*(s.Max-s.Min))
}

func (s *Slider) Draw(dst *image.RGBA, th *theme.Theme, state ButtonState) {
	label, t := splitAt(s.rect, 0.3)
	drawLabel(dst, label, fmt.Sprintf("%s %d", s.Label, int(s.Value)), th.Foreground)
	mid := t.Min.Y + t.Dy()/2
	track := image.Rect(t.Min.X, mid-2, t.Max.X, mid+2)
	fillRect(dst, track, th.SliderTrack)
	f := 0.0
	if s.Max > s.Min {
		f = (s.Value - s.Min) / (s.Max - s.Min)
	}
	x := t.Min.X + int(f*float64(t.Dx()-1))
	origin := t.Min.X
	if s.Min < 0 {
		origin = t.Min.X + int((-s.Min)/(s.Max-s.Min)*float64(t.Dx()-1))
	}
	lo, hi := origin, x
	if lo > hi {
		lo, hi = hi, lo
	}
	fillRect(dst, image.Rect(lo, mid-2, hi+1, mid+2), th.SliderFill)
	knob := image.Rect(x-5, t.Min.Y+3, x+6, t.Max.Y-3)
	c := th.SliderFill
	if state != StateDefault {
		c = th.Accent
	}
	fillRect(dst, knob, c)
}

func (s *Slider) Rect() image.Rectangle { return s.rect }

func (s *Slider) Press(p image.Point) {
	v := s.ValueAt(p.X)
	if v != s.Value && s.onChange != nil {
		s.onChange(v)
	}
}

// widgetAt returns the index of the widget under p, or -1.
func widgetAt(ws []Widget, p image.Point) int {
	for i, w := range ws {
		if p.In(w.Rect()) {
			return i
		}
	}
	return -1
}
