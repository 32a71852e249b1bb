package paint

import (
	"fmt"
	"image"

	"github.com/gogpu/gg"
)

// Point is a surface-relative position in pixels.
type Point = gg.Point

// State is the stroke state of the engine.
type State int

const (
	Idle State = iota
	Stroking
)

func (s State) String() string {
	if s == Stroking {
		return "stroking"
	}
	return "idle"
}

// Stroke describes a completed stroke.
type Stroke struct {
	Brush  Brush
	Points []Point
}

// Option configures an Engine.
type Option func(*Engine)

// WithObserver registers fn to receive every completed stroke.
func WithObserver(fn func(Stroke)) Option {
	return func(e *Engine) {
		if fn != nil {
			e.observers = append(e.observers, fn)
		}
	}
}

// WithBrush sets the initial brush.
func WithBrush(b Brush) Option {
	return func(e *Engine) { e.brush = b }
}

// Engine is the pointer-driven stroke state machine. It is the only writer
// of the drawing surface.
type Engine struct {
	surface    *gg.Pixmap
	background image.Image
	scratch    *gg.Pixmap
	scratchCtx *gg.Context
	blurred    *image.NRGBA

	brush  Brush
	active bool
	state  State
	last   Point
	points []Point

	observers []func(Stroke)
}

// NewEngine binds an engine to the drawing surface. background is sampled by
// the blur brush and may be nil.
func NewEngine(surface *gg.Pixmap, background image.Image, opts ...Option) *Engine {
	e := &Engine{brush: DefaultBrush()}
	for _, o := range opts {
		o(e)
	}
	e.Bind(surface, background)
	return e
}

// Bind points the engine at new surfaces, typically after a resize. Any
// stroke in progress is abandoned.
func (e *Engine) Bind(surface *gg.Pixmap, background image.Image) {
	if e.scratchCtx != nil {
		_ = e.scratchCtx.Close()
	}
	e.surface = surface
	e.background = background
	e.blurred = nil
	e.scratch = gg.NewPixmap(surface.Width(), surface.Height())
	e.scratchCtx = gg.NewContext(surface.Width(), surface.Height(), gg.WithPixmap(e.scratch))
	e.state = Idle
	e.points = nil
}

// Surface returns the drawing surface.
func (e *Engine) Surface() *gg.Pixmap { return e.surface }

// Brush returns the current brush.
func (e *Engine) Brush() Brush { return e.brush }

// SetBrush replaces the brush. A stroke in progress continues with it.
func (e *Engine) SetBrush(b Brush) { e.brush = b }

// Active reports whether the engine accepts pointer input.
func (e *Engine) Active() bool { return e.active }

// SetActive gates pointer input. Deactivating ends a stroke in progress.
func (e *Engine) SetActive(active bool) {
	if !active && e.state == Stroking {
		e.finish()
	}
	e.active = active
}

// State returns the current stroke state.
func (e *Engine) State() State { return e.state }

func (e *Engine) bounds() image.Rectangle {
	return image.Rect(0, 0, e.surface.Width(), e.surface.Height())
}

func (e *Engine) inside(p Point) bool {
	return p.X >= 0 && p.Y >= 0 && p.X < float64(e.surface.Width()) && p.Y < float64(e.surface.Height())
}

// PointerDown starts a stroke and lays a dab at p. It reports whether the
// event was consumed.
func (e *Engine) PointerDown(p Point) bool {
	if !e.active || e.state == Stroking || !e.inside(p) {
		return false
	}
	e.state = Stroking
	e.points = append(e.points[:0:0], p)
	e.last = p
	e.dab(p, p)
	return true
}

// PointerMove connects the previous sample to p.
func (e *Engine) PointerMove(p Point) bool {
	if !e.active || e.state != Stroking || !e.inside(p) {
		return false
	}
	e.dab(e.last, p)
	e.last = p
	e.points = append(e.points, p)
	return true
}

// PointerUp ends the stroke. A release outside the surface ends the stroke
// at the last sample inside it.
func (e *Engine) PointerUp(p Point) bool {
	if e.state != Stroking {
		return false
	}
	if e.inside(p) && p != e.last {
		e.dab(e.last, p)
		e.last = p
		e.points = append(e.points, p)
	}
	e.finish()
	return true
}

func (e *Engine) finish() {
	if e.brush.Type == Arrow && len(e.points) > 1 {
		e.head(e.points[0], e.last, e.brush)
	}
	stroke := Stroke{Brush: e.brush, Points: e.points}
	e.state = Idle
	e.points = nil
	for _, fn := range e.observers {
		fn(stroke)
	}
}

func (e *Engine) dab(from, to Point) {
	b := e.brush
	if b.width() <= 0 {
		return
	}
	switch b.Type {
	case Pen, Arrow:
		e.solid(from, to, b)
	case Soft:
		e.soft(from, to, b)
	case Neon:
		e.neon(from, to, b)
	case Blur:
		e.reveal(from, to, b)
	case Eraser:
		e.erase(from, to, b)
	}
}

// Replay draws a recorded stroke without notifying observers.
func (e *Engine) Replay(s Stroke) {
	if len(s.Points) == 0 {
		return
	}
	saved := e.brush
	e.brush = s.Brush
	defer func() { e.brush = saved }()
	prev := s.Points[0]
	e.dab(prev, prev)
	for _, p := range s.Points[1:] {
		e.dab(prev, p)
		prev = p
	}
	if s.Brush.Type == Arrow && len(s.Points) > 1 {
		e.head(s.Points[0], prev, s.Brush)
	}
}

func (e *Engine) head(start, end Point, b Brush) {
	left, right := ArrowHead(start, end, b.Size)
	e.solid(end, left, b)
	e.solid(end, right, b)
}

// Reset clears the drawing surface.
func (e *Engine) Reset() {
	e.surface.Clear(gg.Transparent)
	e.state = Idle
	e.points = nil
}

// Snapshot copies the drawing surface pixels.
func (e *Engine) Snapshot() []byte {
	return append([]byte(nil), e.surface.Data()...)
}

// Restore replaces the drawing surface pixels with a snapshot.
func (e *Engine) Restore(snap []byte) error {
	data := e.surface.Data()
	if len(snap) != len(data) {
		return fmt.Errorf("paint: snapshot is %d bytes, surface is %d", len(snap), len(data))
	}
	copy(data, snap)
	return nil
}
