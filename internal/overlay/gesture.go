package overlay

import "math"

// Handle identifies a corner handle of a focused element.
type Handle int

const (
	TopLeft Handle = iota
	TopRight
	BottomLeft
	BottomRight
)

var handleNames = [...]string{"top-left", "top-right", "bottom-left", "bottom-right"}

func (h Handle) String() string {
	if h < 0 || int(h) >= len(handleNames) {
		return "handle"
	}
	return handleNames[h]
}

// HandleSize is the side of a handle square in pixels.
const HandleSize = 12

// HandleRect locates one handle.
type HandleRect struct {
	Handle Handle
	Rect   Rect
}

// Handles returns the four corner handles of id. Only the focused element
// has handles.
func (m *Model) Handles(id int64) []HandleRect {
	if id == 0 || id != m.focused {
		return nil
	}
	e, err := m.Get(id)
	if err != nil {
		return nil
	}
	r := m.Bounds(e)
	corners := [...]Point{
		TopLeft:     r.Min,
		TopRight:    {X: r.Max.X, Y: r.Min.Y},
		BottomLeft:  {X: r.Min.X, Y: r.Max.Y},
		BottomRight: r.Max,
	}
	c := r.Center()
	sin, cos := math.Sincos(e.Rotation)
	out := make([]HandleRect, 0, len(corners))
	for h, p := range corners {
		d := p.Sub(c)
		p = Point{X: c.X + d.X*cos - d.Y*sin, Y: c.Y + d.X*sin + d.Y*cos}
		half := HandleSize / 2.0
		out = append(out, HandleRect{
			Handle: Handle(h),
			Rect:   Rect{Min: Point{X: p.X - half, Y: p.Y - half}, Max: Point{X: p.X + half, Y: p.Y + half}},
		})
	}
	return out
}

// HandleAt returns the handle of the focused element under p.
func (m *Model) HandleAt(p Point) (int64, Handle, bool) {
	for _, hr := range m.Handles(m.focused) {
		if hr.Rect.Contains(p) {
			return m.focused, hr.Handle, true
		}
	}
	return 0, 0, false
}

type gestureKind int

const (
	gestureDrag gestureKind = iota
	gestureResize
	gestureRotate
)

type gesture struct {
	kind    gestureKind
	id      int64
	handle  Handle
	start   Point
	initial Element
	center  Point
	preview Element
}

func (m *Model) begin(kind gestureKind, id int64, h Handle, p Point) bool {
	e, err := m.Get(id)
	if err != nil {
		return false
	}
	m.gesture = &gesture{
		kind:    kind,
		id:      id,
		handle:  h,
		start:   p,
		initial: e,
		center:  m.Bounds(e).Center(),
		preview: e,
	}
	return true
}

// BeginDrag starts moving id with the pointer at p.
func (m *Model) BeginDrag(id int64, p Point) bool {
	return m.begin(gestureDrag, id, 0, p)
}

// BeginResize starts scaling id from handle h.
func (m *Model) BeginResize(id int64, h Handle, p Point) bool {
	return m.begin(gestureResize, id, h, p)
}

// BeginRotate starts rotating id from handle h.
func (m *Model) BeginRotate(id int64, h Handle, p Point) bool {
	return m.begin(gestureRotate, id, h, p)
}

// Dragging reports whether a gesture is in progress.
func (m *Model) Dragging() bool { return m.gesture != nil }

// Preview returns the in-progress geometry of the gestured element.
func (m *Model) Preview() (Element, bool) {
	if m.gesture == nil {
		return Element{}, false
	}
	return m.gesture.preview, true
}

// DragTo updates the gesture preview without committing it.
func (m *Model) DragTo(p Point) (Element, bool) {
	g := m.gesture
	if g == nil {
		return Element{}, false
	}
	e := g.initial
	switch g.kind {
	case gestureDrag:
		// newPos = pointer - (initialPointer - initialPos)
		e.X = p.X - (g.start.X - g.initial.X)
		e.Y = p.Y - (g.start.Y - g.initial.Y)
	case gestureResize:
		d0 := g.start.Distance(g.center)
		if d0 > 0 {
			s := g.initial.Scale * p.Distance(g.center) / d0
			if s < 0.1 {
				s = 0.1
			}
			e.Scale = s
		}
	case gestureRotate:
		a0 := math.Atan2(g.start.Y-g.center.Y, g.start.X-g.center.X)
		a1 := math.Atan2(p.Y-g.center.Y, p.X-g.center.X)
		e.Rotation = g.initial.Rotation + a1 - a0
	}
	g.preview = e
	return e, true
}

// EndDrag finishes the gesture at p and commits the result once. A release
// that leaves the element unchanged commits nothing.
func (m *Model) EndDrag(p Point) bool {
	if m.gesture == nil {
		return false
	}
	e, _ := m.DragTo(p)
	g := m.gesture
	m.gesture = nil
	i := g.initial
	if e.X == i.X && e.Y == i.Y && e.Scale == i.Scale && e.Rotation == i.Rotation {
		return false
	}
	return m.Place(g.id, e.X, e.Y, e.Scale, e.Rotation)
}

// CancelDrag abandons the gesture.
func (m *Model) CancelDrag() { m.gesture = nil }
