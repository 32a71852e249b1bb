package paint

import (
	"bytes"
	"testing"
)

func TestPatchCoversStrokeOnly(t *testing.T) {
	e := newTestEngine(t, 60, 40)
	e.SetBrush(Brush{Color: "#00FF00", Type: Pen, Size: 4})
	before := e.Snapshot()
	e.PointerDown(Point{X: 10, Y: 10})
	e.PointerMove(Point{X: 20, Y: 12})
	e.PointerUp(Point{X: 20, Y: 12})
	after := e.Snapshot()

	p, err := e.Diff(before)
	if err != nil {
		t.Fatal(err)
	}
	if p.Empty() || p.Rect.Max.X > 30 || p.Rect.Max.Y > 20 {
		t.Fatalf("patch rect %v", p.Rect)
	}
	if err := e.Apply(p, true); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(e.Snapshot(), before) {
		t.Fatal("revert did not restore the surface")
	}
	if err := e.Apply(p, false); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(e.Snapshot(), after) {
		t.Fatal("apply did not redo the stroke")
	}
}

func TestPatchNoChange(t *testing.T) {
	e := newTestEngine(t, 8, 8)
	p, err := e.Diff(e.Snapshot())
	if err != nil || !p.Empty() {
		t.Fatalf("diff of identical surface = %v, %v", p.Rect, err)
	}
	if _, err := e.Diff(make([]byte, 3)); err == nil {
		t.Fatal("short snapshot accepted")
	}
}
