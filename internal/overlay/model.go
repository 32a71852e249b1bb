package overlay

import (
	"errors"
	"image"
	"math"
	"time"

	"github.com/gogpu/gg"
)

// ErrNotFound is returned by lookups for ids that are not in the model.
var ErrNotFound = errors.New("overlay: element not found")

// Point is a surface-relative position in pixels.
type Point = gg.Point

// Kind distinguishes text fields from stickers.
type Kind int

const (
	KindText Kind = iota
	KindSticker
)

func (k Kind) String() string {
	if k == KindSticker {
		return "sticker"
	}
	return "text"
}

// TextField is the text payload of an element. Draft holds uncommitted
// edits while the field is focused.
type TextField struct {
	Text  string
	Draft string
	Style Style
}

// Sticker is the image payload of an element.
type Sticker struct {
	StickerID   string
	Image       image.Image
	Placeholder bool
}

// Element is one overlay entity. X and Y locate its top-left corner before
// scale and rotation are applied about its centre.
type Element struct {
	ID       int64
	Kind     Kind
	X, Y     float64
	Editing  bool
	Scale    float64
	Rotation float64 // radians

	Text    TextField
	Sticker Sticker
}

// Display returns the text to render: the draft while editing.
func (e Element) Display() string {
	if e.Editing {
		return e.Text.Draft
	}
	return e.Text.Text
}

// Measurer reports the unscaled size of an element.
type Measurer interface {
	Measure(e Element) (w, h float64)
}

// MeasureFunc adapts a function to Measurer.
type MeasureFunc func(e Element) (w, h float64)

// Measure calls f(e).
func (f MeasureFunc) Measure(e Element) (float64, float64) { return f(e) }

// estimate sizes text from glyph count when no font metrics are available.
func estimate(e Element) (float64, float64) {
	if e.Kind == KindSticker {
		if e.Sticker.Image == nil {
			return 0, 0
		}
		b := e.Sticker.Image.Bounds()
		return float64(b.Dx()), float64(b.Dy())
	}
	size := float64(e.Text.Style.Size)
	lines, widest := 1, 0
	n := 0
	for _, r := range e.Display() {
		if r == '\n' {
			lines++
			n = 0
			continue
		}
		n++
		if n > widest {
			widest = n
		}
	}
	return float64(widest) * size * 0.6, float64(lines) * size * 1.2
}

// Option configures a Model.
type Option func(*Model)

// WithClock sets the source of element ids.
func WithClock(now func() time.Time) Option {
	return func(m *Model) { m.now = now }
}

// WithMeasurer sets the element size oracle used by hit tests and handles.
func WithMeasurer(ms Measurer) Option {
	return func(m *Model) { m.measure = ms }
}

// Model owns the overlay elements and the single focused id.
type Model struct {
	elements []Element
	focused  int64
	lastID   int64
	now      func() time.Time
	measure  Measurer

	gesture *gesture

	subs   []subscription
	nextID int
}

// NewModel returns an empty model.
func NewModel(opts ...Option) *Model {
	m := &Model{now: time.Now, measure: MeasureFunc(estimate)}
	for _, o := range opts {
		o(m)
	}
	return m
}

func (m *Model) newID() int64 {
	id := m.now().UnixMilli()
	if id <= m.lastID {
		id = m.lastID + 1
	}
	m.lastID = id
	return id
}

func (m *Model) index(id int64) int {
	for i := range m.elements {
		if m.elements[i].ID == id {
			return i
		}
	}
	return -1
}

// Get returns a copy of the element with id.
func (m *Model) Get(id int64) (Element, error) {
	i := m.index(id)
	if i < 0 {
		return Element{}, ErrNotFound
	}
	return m.elements[i], nil
}

// Elements returns a snapshot in paint order, bottom first.
func (m *Model) Elements() []Element {
	return append([]Element(nil), m.elements...)
}

// Len returns the number of elements.
func (m *Model) Len() int { return len(m.elements) }

// Focused returns the id of the element being edited, or 0.
func (m *Model) Focused() int64 { return m.focused }

// AddText inserts a focused text field at (x, y) with a copy of style.
func (m *Model) AddText(x, y float64, style Style) int64 {
	m.Blur()
	e := Element{
		ID:      m.newID(),
		Kind:    KindText,
		X:       x,
		Y:       y,
		Editing: true,
		Scale:   1,
		Text:    TextField{Text: DefaultText, Draft: DefaultText, Style: style},
	}
	return m.insert(e)
}

// AddSticker inserts a focused sticker at the surface origin.
func (m *Model) AddSticker(stickerID string, img image.Image, placeholder bool) int64 {
	m.Blur()
	e := Element{
		ID:      m.newID(),
		Kind:    KindSticker,
		Editing: true,
		Scale:   1,
		Sticker: Sticker{StickerID: stickerID, Image: img, Placeholder: placeholder},
	}
	return m.insert(e)
}

// Insert adds a fully formed element, keeping its id if it is unused. It is
// used to restore removed elements.
func (m *Model) Insert(e Element) int64 {
	if e.ID == 0 || m.index(e.ID) >= 0 {
		e.ID = m.newID()
	} else if e.ID > m.lastID {
		m.lastID = e.ID
	}
	if e.Editing {
		m.Blur()
	}
	return m.insert(e)
}

func (m *Model) insert(e Element) int64 {
	if e.Scale == 0 {
		e.Scale = 1
	}
	m.elements = append(m.elements, e)
	m.notify(Event{Kind: Added, ID: e.ID, Element: e})
	if e.Editing {
		m.focused = e.ID
		m.notify(Event{Kind: Focused, ID: e.ID, Element: e})
	}
	return e.ID
}

// Remove deletes the element. Missing ids are ignored.
func (m *Model) Remove(id int64) bool {
	i := m.index(id)
	if i < 0 {
		return false
	}
	e := m.elements[i]
	m.elements = append(m.elements[:i], m.elements[i+1:]...)
	if m.focused == id {
		m.focused = 0
	}
	if m.gesture != nil && m.gesture.id == id {
		m.gesture = nil
	}
	m.notify(Event{Kind: Removed, ID: id, Element: e})
	return true
}

// Focus makes id the only editing element. The previously focused element
// commits its draft and is blurred exactly once.
func (m *Model) Focus(id int64) bool {
	i := m.index(id)
	if i < 0 {
		return false
	}
	if m.focused == id {
		return true
	}
	m.Blur()
	e := &m.elements[i]
	e.Editing = true
	e.Text.Draft = e.Text.Text
	m.focused = id
	m.notify(Event{Kind: Focused, ID: id, Element: *e})
	return true
}

// Blur ends editing on the focused element, committing its draft text.
func (m *Model) Blur() bool {
	if m.focused == 0 {
		return false
	}
	id := m.focused
	m.focused = 0
	i := m.index(id)
	if i < 0 {
		return false
	}
	e := &m.elements[i]
	prev := *e
	prev.Editing = false
	e.Editing = false
	changed := e.Kind == KindText && e.Text.Draft != e.Text.Text
	if changed {
		e.Text.Text = e.Text.Draft
	}
	m.notify(Event{Kind: Blurred, ID: id, Element: *e})
	if changed {
		m.notify(Event{Kind: TextChanged, ID: id, Element: *e, Prev: prev})
	}
	return true
}

// SetDraft replaces the uncommitted text of a focused text field.
func (m *Model) SetDraft(id int64, text string) bool {
	i := m.index(id)
	if i < 0 || m.elements[i].Kind != KindText || !m.elements[i].Editing {
		return false
	}
	m.elements[i].Text.Draft = text
	return true
}

// SetText commits text to a text field immediately.
func (m *Model) SetText(id int64, text string) bool {
	i := m.index(id)
	if i < 0 || m.elements[i].Kind != KindText {
		return false
	}
	e := &m.elements[i]
	prev := *e
	e.Text.Text = text
	e.Text.Draft = text
	m.notify(Event{Kind: TextChanged, ID: id, Element: *e, Prev: prev})
	return true
}

// Restyle replaces the style of a text field.
func (m *Model) Restyle(id int64, style Style) bool {
	i := m.index(id)
	if i < 0 || m.elements[i].Kind != KindText {
		return false
	}
	e := &m.elements[i]
	if e.Text.Style == style {
		return true
	}
	prev := *e
	e.Text.Style = style
	m.notify(Event{Kind: Restyled, ID: id, Element: *e, Prev: prev})
	return true
}

// ApplyStyleToFocused restyles the focused element if it is a text field.
func (m *Model) ApplyStyleToFocused(style Style) bool {
	if m.focused == 0 {
		return false
	}
	return m.Restyle(m.focused, style)
}

// Place sets position, scale and rotation in one step and emits the events
// for whatever changed.
func (m *Model) Place(id int64, x, y, scale, rotation float64) bool {
	i := m.index(id)
	if i < 0 {
		return false
	}
	e := &m.elements[i]
	prev := *e
	moved := e.X != x || e.Y != y
	resized := e.Scale != scale
	rotated := e.Rotation != rotation
	e.X, e.Y, e.Scale, e.Rotation = x, y, scale, rotation
	if moved {
		m.notify(Event{Kind: Moved, ID: id, Element: *e, Prev: prev})
	}
	if resized {
		m.notify(Event{Kind: Resized, ID: id, Element: *e, Prev: prev})
	}
	if rotated {
		m.notify(Event{Kind: Rotated, ID: id, Element: *e, Prev: prev})
	}
	return true
}

// Rect is an axis-aligned rectangle in surface coordinates.
type Rect struct {
	Min, Max Point
}

// Contains reports whether p lies inside r.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Min.X && p.X < r.Max.X && p.Y >= r.Min.Y && p.Y < r.Max.Y
}

// Center returns the midpoint of r.
func (r Rect) Center() Point {
	return Point{X: (r.Min.X + r.Max.X) / 2, Y: (r.Min.Y + r.Max.Y) / 2}
}

// Size returns the unscaled element size.
func (m *Model) Size(e Element) (float64, float64) {
	return m.measure.Measure(e)
}

// Bounds returns the element's scaled, unrotated box. Scaling is about the
// unscaled box centre.
func (m *Model) Bounds(e Element) Rect {
	w, h := m.measure.Measure(e)
	scale := e.Scale
	if scale == 0 {
		scale = 1
	}
	cx, cy := e.X+w/2, e.Y+h/2
	sw, sh := w*scale/2, h*scale/2
	return Rect{Min: Point{X: cx - sw, Y: cy - sh}, Max: Point{X: cx + sw, Y: cy + sh}}
}

// local maps p into the element's unrotated frame.
func local(e Element, r Rect, p Point) Point {
	if e.Rotation == 0 {
		return p
	}
	c := r.Center()
	d := p.Sub(c)
	sin, cos := math.Sincos(-e.Rotation)
	return Point{X: c.X + d.X*cos - d.Y*sin, Y: c.Y + d.X*sin + d.Y*cos}
}

// HitTest returns the topmost element under p, or 0.
func (m *Model) HitTest(p Point) int64 {
	for i := len(m.elements) - 1; i >= 0; i-- {
		e := m.elements[i]
		r := m.Bounds(e)
		if r.Contains(local(e, r, p)) {
			return e.ID
		}
	}
	return 0
}

// ClickResult describes what a click did.
type ClickResult int

const (
	ClickNone ClickResult = iota
	ClickCreated
	ClickFocused
	ClickKept
	ClickBlurred
)

// Click applies the click rules. With the text tool an empty area inserts a
// text field when nothing is focused; clicking the focused element keeps it
// editing; clicking another element focuses it; anything else blurs.
func (m *Model) Click(p Point, textTool bool, style Style) (int64, ClickResult) {
	if hit := m.HitTest(p); hit != 0 {
		if hit == m.focused {
			return hit, ClickKept
		}
		m.Focus(hit)
		return hit, ClickFocused
	}
	if textTool && m.focused == 0 {
		return m.AddText(p.X, p.Y, style), ClickCreated
	}
	if m.Blur() {
		return 0, ClickBlurred
	}
	return 0, ClickNone
}
