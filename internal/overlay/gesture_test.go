package overlay

import (
	"math"
	"testing"
)

func TestDragCommitsOnce(t *testing.T) {
	var events []Event
	m := newModel(&events)
	id := m.AddText(30, 40, DefaultStyle())
	events = nil

	if !m.BeginDrag(id, Point{X: 35, Y: 45}) {
		t.Fatal("BeginDrag failed")
	}
	for i := 1; i <= 5; i++ {
		prev, ok := m.DragTo(Point{X: 35 + float64(i)*2, Y: 45 + float64(i)})
		if !ok || prev.X != 30+float64(i)*2 {
			t.Fatalf("preview %d = %+v", i, prev)
		}
	}
	if n := count(events, Moved, id); n != 0 {
		t.Fatalf("%d commits before release", n)
	}
	e, _ := m.Get(id)
	if e.X != 30 || e.Y != 40 {
		t.Fatalf("drag persisted before release: %v,%v", e.X, e.Y)
	}
	if !m.EndDrag(Point{X: 45, Y: 50}) {
		t.Fatal("EndDrag committed nothing")
	}
	e, _ = m.Get(id)
	if e.X != 40 || e.Y != 45 {
		t.Fatalf("committed %v,%v, want 40,45", e.X, e.Y)
	}
	if n := count(events, Moved, id); n != 1 {
		t.Fatalf("moved events = %d, want 1", n)
	}
	if m.EndDrag(Point{}) {
		t.Fatal("second release committed")
	}
}

func TestStationaryReleaseCommitsNothing(t *testing.T) {
	var events []Event
	m := newModel(&events)
	id := m.AddText(0, 0, DefaultStyle())
	events = nil
	m.BeginDrag(id, Point{X: 5, Y: 5})
	if m.EndDrag(Point{X: 5, Y: 5}) || len(events) != 0 {
		t.Fatalf("stationary release produced %v", events)
	}
}

func TestHandlesOnlyWhenFocused(t *testing.T) {
	m := newModel(nil)
	a := m.AddText(0, 0, DefaultStyle())
	hs := m.Handles(a)
	if len(hs) != 4 {
		t.Fatalf("got %d handles", len(hs))
	}
	want := map[Handle]Point{TopLeft: {X: 0, Y: 0}, TopRight: {X: 100, Y: 0}, BottomLeft: {X: 0, Y: 40}, BottomRight: {X: 100, Y: 40}}
	for _, h := range hs {
		if c := h.Rect.Center(); math.Abs(c.X-want[h.Handle].X) > 1e-9 || math.Abs(c.Y-want[h.Handle].Y) > 1e-9 {
			t.Errorf("%v centred at %+v", h.Handle, c)
		}
	}
	m.Blur()
	if m.Handles(a) != nil {
		t.Fatal("blurred element has handles")
	}
}

func TestResizeFromCorner(t *testing.T) {
	var events []Event
	m := newModel(&events)
	id := m.AddText(0, 0, DefaultStyle())
	got, h, ok := m.HandleAt(Point{X: 101, Y: 41})
	if !ok || got != id || h != BottomRight {
		t.Fatalf("HandleAt = %d %v %v", got, h, ok)
	}
	// centre is (50,20); doubling the distance doubles the scale
	m.BeginResize(id, h, Point{X: 100, Y: 40})
	m.EndDrag(Point{X: 150, Y: 60})
	e, _ := m.Get(id)
	if math.Abs(e.Scale-2) > 1e-9 || e.X != 0 || e.Y != 0 {
		t.Fatalf("after resize %+v", e)
	}
	if count(events, Resized, id) != 1 || count(events, Moved, id) != 0 {
		t.Fatal("resize events wrong")
	}
	if r := m.Bounds(e); r.Min.X != -50 || r.Max.X != 150 {
		t.Fatalf("scaled bounds %+v", r)
	}
}

func TestRotateFromCorner(t *testing.T) {
	m := newModel(nil)
	id := m.AddText(0, 0, DefaultStyle())
	// from directly right of centre (50,20) to directly below it
	m.BeginRotate(id, TopRight, Point{X: 80, Y: 20})
	m.EndDrag(Point{X: 50, Y: 50})
	e, _ := m.Get(id)
	if math.Abs(e.Rotation-math.Pi/2) > 1e-9 {
		t.Fatalf("rotation = %v", e.Rotation)
	}
	// a point above the centre is inside once the box is turned upright
	if m.HitTest(Point{X: 50, Y: -20}) != id {
		t.Fatal("rotated hit test missed")
	}
}
