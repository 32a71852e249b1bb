package appstate

import (
	"image"
	"testing"

	"github.com/example/mediaeditor/internal/editor"
	"golang.org/x/mobile/event/key"
)

func TestLayoutStacksCanvasPanelAndTabs(t *testing.T) {
	l := NewLayout(800, 600)
	if l.Tabs != image.Rect(0, 600-tabHeight, 800, 600) {
		t.Fatalf("tabs = %v", l.Tabs)
	}
	if l.Panel.Max.Y != l.Tabs.Min.Y || l.Panel.Dy() != panelHeight {
		t.Fatalf("panel = %v", l.Panel)
	}
	if l.Canvas != image.Rect(0, 0, 800, l.Panel.Min.Y) {
		t.Fatalf("canvas = %v", l.Canvas)
	}
	if got := WindowSize(800, l.Canvas.Dy()); got != image.Pt(800, 600) {
		t.Fatalf("WindowSize = %v", got)
	}
}

func TestLayoutKeepsCanvasOnTinyWindow(t *testing.T) {
	l := NewLayout(0, 10)
	if l.Canvas.Dy() < 1 || l.Window.Dx() != 1 {
		t.Fatalf("layout = %+v", l)
	}
}

func TestSurfaceIsCentred(t *testing.T) {
	l := NewLayout(400, WindowSize(400, 300).Y)
	got := l.Surface(image.Pt(200, 100))
	if got != image.Rect(100, 100, 300, 200) {
		t.Fatalf("surface = %v", got)
	}
	x, y := ToSurface(got, 150, 120)
	if x != 50 || y != 20 {
		t.Fatalf("ToSurface = %v,%v", x, y)
	}
}

func TestTabAt(t *testing.T) {
	l := NewLayout(500, 400)
	n := len(editor.Tabs())
	rects := l.TabRects(n)
	if len(rects) != n || rects[n-1].Max.X != 500 {
		t.Fatalf("rects = %v", rects)
	}
	for i, r := range rects {
		if got, ok := l.TabAt(r.Min.Add(image.Pt(2, 2)), n); !ok || got != i {
			t.Fatalf("TabAt(%v) = %d,%v want %d", r.Min, got, ok, i)
		}
	}
	if _, ok := l.TabAt(image.Pt(10, 10), n); ok {
		t.Fatal("canvas point hit a tab")
	}
}

func TestSplitRowAbsorbsRemainder(t *testing.T) {
	cols := splitRow(image.Rect(0, 0, 103, 10), 4, 2)
	if len(cols) != 4 {
		t.Fatalf("cols = %v", cols)
	}
	if cols[0].Dx() != 24 || cols[1].Min.X != 26 || cols[3].Max.X != 103 {
		t.Fatalf("cols = %v", cols)
	}
	if splitRow(image.Rect(0, 0, 10, 10), 0, 2) != nil {
		t.Fatal("zero columns")
	}
}

func TestSliderValueAt(t *testing.T) {
	s := &Slider{Min: -100, Max: 100, rect: image.Rect(0, 0, 300, 20)}
	tr := s.track()
	if got := s.ValueAt(tr.Min.X - 50); got != -100 {
		t.Fatalf("left of track = %v", got)
	}
	if got := s.ValueAt(tr.Max.X + 50); got != 100 {
		t.Fatalf("right of track = %v", got)
	}
	if got := s.ValueAt(tr.Min.X + (tr.Dx()-1)/2); got < -1 || got > 1 {
		t.Fatalf("middle = %v", got)
	}

	var changed []float64
	s.onChange = func(v float64) { changed = append(changed, v) }
	s.Press(image.Pt(tr.Min.X, 5))
	s.Value = -100
	s.Press(image.Pt(tr.Min.X, 5))
	if len(changed) != 1 || changed[0] != -100 {
		t.Fatalf("changes = %v", changed)
	}
}

func TestWidgetAt(t *testing.T) {
	ws := []Widget{
		&Button{rect: image.Rect(0, 0, 10, 10)},
		&Button{rect: image.Rect(20, 0, 30, 10)},
	}
	if widgetAt(ws, image.Pt(25, 5)) != 1 || widgetAt(ws, image.Pt(15, 5)) != -1 {
		t.Fatal("widgetAt")
	}
}

func TestShortcutsMatchCaseInsensitively(t *testing.T) {
	a := newActions()
	var saved int
	a.register("save", saveKeys, func() { saved++ })
	a.register("redo", redoKeys, func() {})
	name, ok := a.lookup(key.Event{Rune: 'S', Modifiers: key.ModControl})
	if !ok || name != "save" {
		t.Fatalf("lookup = %q,%v", name, ok)
	}
	if !a.run(name) || saved != 1 {
		t.Fatal("run")
	}
	if name, _ := a.lookup(key.Event{Rune: 'Z', Modifiers: key.ModControl | key.ModShift}); name != "redo" {
		t.Fatalf("shift+ctrl+z = %q", name)
	}
	if _, ok := a.lookup(key.Event{Rune: 's'}); ok {
		t.Fatal("bare s matched")
	}
	if a.run("missing") {
		t.Fatal("missing action ran")
	}
}

func TestModifiersAndDigits(t *testing.T) {
	if m := modifiers(key.ModShift | key.ModControl); m != editor.ModShift|editor.ModControl {
		t.Fatalf("modifiers = %v", m)
	}
	if tab, ok := tabForDigit('4'); !ok || tab != editor.TabPaint {
		t.Fatalf("digit 4 = %v,%v", tab, ok)
	}
	if _, ok := tabForDigit('9'); ok {
		t.Fatal("digit 9 selected a tab")
	}
}
