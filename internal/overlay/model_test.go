package overlay

import (
	"errors"
	"image"
	"testing"
	"time"
)

func stalledClock() time.Time { return time.UnixMilli(1000) }

// box measures every element as 100x40 so geometry is predictable.
var box = MeasureFunc(func(Element) (float64, float64) { return 100, 40 })

func newModel(events *[]Event) *Model {
	m := NewModel(WithClock(stalledClock), WithMeasurer(box))
	if events != nil {
		m.Subscribe(func(ev Event) { *events = append(*events, ev) })
	}
	return m
}

func count(events []Event, kind EventKind, id int64) int {
	n := 0
	for _, ev := range events {
		if ev.Kind == kind && ev.ID == id {
			n++
		}
	}
	return n
}

func TestIDsAreUniqueWhenClockStalls(t *testing.T) {
	m := newModel(nil)
	a := m.AddText(0, 0, DefaultStyle())
	b := m.AddText(10, 10, DefaultStyle())
	c := m.AddSticker("cats/1.png", image.NewRGBA(image.Rect(0, 0, 4, 4)), false)
	if a != 1000 || b != 1001 || c != 1002 {
		t.Fatalf("ids = %d %d %d", a, b, c)
	}
}

func TestFocusIsExclusive(t *testing.T) {
	for _, order := range []string{"forward", "reverse"} {
		t.Run(order, func(t *testing.T) {
			var events []Event
			m := newModel(&events)
			a := m.AddText(0, 0, DefaultStyle())
			b := m.AddText(200, 200, DefaultStyle())
			if order == "reverse" {
				a, b = b, a
			}
			m.Focus(a)
			events = nil
			if !m.Focus(b) {
				t.Fatal("Focus failed")
			}
			if got := count(events, Blurred, a); got != 1 {
				t.Fatalf("blur events for A = %d, want 1", got)
			}
			ea, _ := m.Get(a)
			eb, _ := m.Get(b)
			if ea.Editing || !eb.Editing || m.Focused() != b {
				t.Fatalf("editing A=%v B=%v focused=%d", ea.Editing, eb.Editing, m.Focused())
			}
			m.Focus(b)
			if got := count(events, Blurred, a); got != 1 {
				t.Fatalf("refocus produced extra blur events: %d", got)
			}
		})
	}
}

func TestNewElementsTakeFocus(t *testing.T) {
	m := newModel(nil)
	a := m.AddText(5, 5, DefaultStyle())
	s := m.AddSticker("x", nil, true)
	ea, _ := m.Get(a)
	es, _ := m.Get(s)
	if ea.Editing || !es.Editing || m.Focused() != s {
		t.Fatalf("sticker did not take focus")
	}
	if es.X != 0 || es.Y != 0 || !es.Sticker.Placeholder {
		t.Fatalf("sticker = %+v", es)
	}
}

func TestBlurCommitsDraft(t *testing.T) {
	var events []Event
	m := newModel(&events)
	id := m.AddText(0, 0, DefaultStyle())
	m.SetDraft(id, "hello")
	e, _ := m.Get(id)
	if e.Text.Text != DefaultText || e.Display() != "hello" {
		t.Fatalf("draft leaked into committed text: %+v", e.Text)
	}
	m.Blur()
	e, _ = m.Get(id)
	if e.Text.Text != "hello" || e.Display() != "hello" {
		t.Fatalf("blur did not commit: %+v", e.Text)
	}
	if count(events, TextChanged, id) != 1 {
		t.Fatal("missing text change event")
	}
	for _, ev := range events {
		if ev.Kind == TextChanged && ev.Prev.Text.Text != DefaultText {
			t.Fatalf("prev text = %q", ev.Prev.Text.Text)
		}
	}
	if m.SetDraft(id, "again") {
		t.Fatal("draft accepted on blurred field")
	}
}

func TestMissingIDsAreNoOps(t *testing.T) {
	m := newModel(nil)
	if m.Focus(42) || m.Remove(42) || m.SetText(42, "x") || m.Restyle(42, DefaultStyle()) || m.BeginDrag(42, Point{}) || m.Place(42, 1, 1, 1, 0) {
		t.Fatal("mutation on missing id reported success")
	}
	if _, err := m.Get(42); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get err = %v", err)
	}
	if m.Handles(42) != nil {
		t.Fatal("handles for missing id")
	}
}

func TestApplyStyleToFocused(t *testing.T) {
	m := newModel(nil)
	a := m.AddText(0, 0, DefaultStyle())
	b := m.AddText(0, 100, DefaultStyle())
	style := DefaultStyle()
	style.Frame = FrameWhite
	style.Font = "Georgia"
	if !m.ApplyStyleToFocused(style) {
		t.Fatal("no focused field restyled")
	}
	ea, _ := m.Get(a)
	eb, _ := m.Get(b)
	if ea.Text.Style.Frame != FrameNone || eb.Text.Style != style {
		t.Fatalf("restyle hit the wrong field: a=%+v b=%+v", ea.Text.Style, eb.Text.Style)
	}
}

func TestClickRules(t *testing.T) {
	m := newModel(nil)
	style := DefaultStyle()

	id, res := m.Click(Point{X: 10, Y: 10}, true, style)
	if res != ClickCreated || id == 0 {
		t.Fatalf("empty click with text tool = %v", res)
	}
	if _, res := m.Click(Point{X: 50, Y: 20}, true, style); res != ClickKept {
		t.Fatalf("click on focused field = %v", res)
	}
	if _, res := m.Click(Point{X: 400, Y: 400}, true, style); res != ClickBlurred {
		t.Fatalf("empty click while focused = %v, want blur", res)
	}
	if m.Len() != 1 {
		t.Fatalf("blur click inserted a field: %d elements", m.Len())
	}
	if _, res := m.Click(Point{X: 400, Y: 400}, false, style); res != ClickNone {
		t.Fatalf("empty click without text tool = %v", res)
	}
	if got, res := m.Click(Point{X: 20, Y: 20}, false, style); res != ClickFocused || got != id {
		t.Fatalf("click on element = %v %d", res, got)
	}
}

func TestHitTestPrefersTopmost(t *testing.T) {
	m := newModel(nil)
	m.AddText(0, 0, DefaultStyle())
	top := m.AddText(50, 0, DefaultStyle())
	if got := m.HitTest(Point{X: 75, Y: 10}); got != top {
		t.Fatalf("HitTest = %d, want %d", got, top)
	}
	if got := m.HitTest(Point{X: 500, Y: 500}); got != 0 {
		t.Fatalf("HitTest on empty = %d", got)
	}
}

func TestRemoveClearsFocus(t *testing.T) {
	var events []Event
	m := newModel(&events)
	id := m.AddText(0, 0, DefaultStyle())
	m.Remove(id)
	if m.Focused() != 0 || m.Len() != 0 || count(events, Removed, id) != 1 {
		t.Fatalf("remove left focus=%d len=%d", m.Focused(), m.Len())
	}
	restored := m.Insert(events[len(events)-1].Element)
	if restored != id {
		t.Fatalf("Insert changed id %d -> %d", id, restored)
	}
}

func TestSubscribeCancel(t *testing.T) {
	m := NewModel()
	n := 0
	cancel := m.Subscribe(func(Event) { n++ })
	m.AddText(0, 0, DefaultStyle())
	cancel()
	cancel()
	m.AddText(0, 0, DefaultStyle())
	if n != 2 {
		t.Fatalf("events after cancel: %d", n)
	}
}
