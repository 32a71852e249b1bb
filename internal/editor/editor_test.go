package editor

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"math"
	"testing"
	"time"

	"golang.org/x/text/language"

	"github.com/example/mediaeditor/internal/filter"
	"github.com/example/mediaeditor/internal/overlay"
	"github.com/example/mediaeditor/internal/paint"
)

func stubCompiler(string) ([]byte, error) {
	return []byte{0x03, 0x02, 0x23, 0x07, 0, 0, 1, 0}, nil
}

func solid(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img
}

var blue = color.NRGBA{0, 0, 255, 255}

func stalled() time.Time { return time.Unix(1700000000, 0) }

func newEditor(t *testing.T, src image.Image, opts ...Option) *Editor {
	t.Helper()
	base := []Option{
		WithViewport(src.Bounds().Dx(), src.Bounds().Dy()),
		WithFilterEngine(filter.NewEngine(filter.WithCompiler(stubCompiler))),
		WithClock(stalled),
	}
	e, err := Open(src, append(base, opts...)...)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { e.Close() })
	return e
}

func drawingAlpha(e *Editor, x, y int) uint8 {
	pm := e.Compositor().Drawing()
	return pm.Data()[(y*pm.Width()+x)*4+3]
}

func TestOpenFitsViewport(t *testing.T) {
	e, err := Open(solid(400, 200, blue),
		WithViewport(200, 200),
		WithFilterEngine(filter.NewEngine(filter.WithCompiler(stubCompiler))))
	if err != nil {
		t.Fatal(err)
	}
	defer e.Close()
	if b := e.Bounds(); b.Dx() != 200 || b.Dy() != 100 {
		t.Fatalf("bounds = %v, want 200x100", b)
	}
	if e.Tab() != TabFilters || e.Degraded() {
		t.Fatalf("tab %v degraded %v", e.Tab(), e.Degraded())
	}
	if _, err := Open(nil); err == nil {
		t.Fatal("nil source accepted")
	}
}

func TestPaintOnlyOnPaintTab(t *testing.T) {
	e := newEditor(t, solid(40, 30, blue))
	if err := e.SetBrush(paint.Brush{Color: "#FF0000", Type: paint.Pen, Size: 4}); err != nil {
		t.Fatal(err)
	}
	e.PointerDown(10, 10, 0)
	e.PointerMove(30, 10, 0)
	e.PointerUp(30, 10, 0)
	if a := drawingAlpha(e, 20, 10); a != 0 {
		t.Fatalf("painted on the filters tab: alpha %d", a)
	}

	e.SelectTab(TabPaint)
	if !e.PointerDown(10, 10, 0) {
		t.Fatal("press not consumed on the paint tab")
	}
	e.PointerMove(30, 10, 0)
	e.PointerUp(30, 10, 0)
	if a := drawingAlpha(e, 20, 10); a < 250 {
		t.Fatalf("stroke alpha %d", a)
	}

	if label, err := e.Undo(); err != nil || label != "pen stroke" {
		t.Fatalf("Undo = %q, %v", label, err)
	}
	if a := drawingAlpha(e, 20, 10); a != 0 {
		t.Fatalf("undo left alpha %d", a)
	}
	if _, err := e.Redo(); err != nil {
		t.Fatal(err)
	}
	if a := drawingAlpha(e, 20, 10); a < 250 {
		t.Fatalf("redo alpha %d", a)
	}
}

func TestFilterRendersOncePerTick(t *testing.T) {
	eng := filter.NewEngine(filter.WithCompiler(stubCompiler))
	e := newEditor(t, solid(16, 16, blue), WithFilterEngine(eng))
	before := eng.Draws()
	for _, v := range []float64{10, 20, 30} {
		if err := e.SetFilter("brightness", v); err != nil {
			t.Fatal(err)
		}
	}
	if eng.Draws() != before {
		t.Fatal("rendered before the frame tick")
	}
	if !e.Tick() || eng.Draws() != before+1 {
		t.Fatalf("draws = %d, want %d", eng.Draws(), before+1)
	}
	if e.Tick() {
		t.Fatal("second tick rendered with nothing pending")
	}
	if got := e.Settings().Brightness; got != 30 {
		t.Fatalf("brightness = %v", got)
	}

	// the three slider steps are one undo step
	if _, err := e.Undo(); err != nil {
		t.Fatal(err)
	}
	if !e.Settings().IsIdentity() || e.History().CanUndo() {
		t.Fatalf("after undo: %v, can undo %v", e.Settings(), e.History().CanUndo())
	}
	if err := e.SetFilter("sparkle", 1); err == nil {
		t.Fatal("unknown channel accepted")
	}
}

func TestDegradedFiltersKeepEditorUsable(t *testing.T) {
	eng := filter.NewEngine(filter.WithCompiler(stubCompiler), filter.WithDevice(func() (filter.Device, error) {
		return nil, errors.New("no adapter")
	}))
	e := newEditor(t, solid(20, 20, blue), WithFilterEngine(eng))
	if !e.Degraded() {
		t.Fatal("expected degraded mode")
	}
	e.SelectTab(TabPaint)
	e.PointerDown(5, 5, 0)
	e.PointerUp(5, 5, 0)
	if drawingAlpha(e, 5, 5) == 0 {
		t.Fatal("paint disabled in degraded mode")
	}
	if _, err := e.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}
}

func TestTextTabCreatesAndEdits(t *testing.T) {
	e := newEditor(t, solid(200, 100, blue))
	e.SelectTab(TabText)
	if !e.PointerDown(50, 40, 0) {
		t.Fatal("click on empty area did not create a field")
	}
	e.PointerUp(50, 40, 0)
	m := e.Overlay()
	id := m.Focused()
	if id == 0 || m.Len() != 1 {
		t.Fatalf("focused %d len %d", id, m.Len())
	}
	e.SetDraft("")
	e.TypeRune('H')
	e.TypeRune('é')
	e.Backspace()
	e.TypeRune('i')
	if !e.Commit() {
		t.Fatal("commit")
	}
	el, _ := m.Get(id)
	if el.Text.Text != "Hi" || el.Editing {
		t.Fatalf("committed %+v", el.Text)
	}

	e.Undo()
	if el, _ := m.Get(id); el.Text.Text != overlay.DefaultText {
		t.Fatalf("undo text = %q", el.Text.Text)
	}
	e.Undo()
	if m.Len() != 0 {
		t.Fatal("undo did not remove the field")
	}
	e.Redo()
	if _, err := m.Get(id); err != nil {
		t.Fatalf("redo lost the id: %v", err)
	}
}

func TestTextStyleAppliesToFocused(t *testing.T) {
	e := newEditor(t, solid(200, 100, blue))
	id, _ := e.AddText(10, 10)
	s := overlay.DefaultStyle()
	s.Color = "#fe4438"
	s.Frame = overlay.FrameBlack
	if err := e.SetTextStyle(s); err != nil {
		t.Fatal(err)
	}
	el, _ := e.Overlay().Get(id)
	if el.Text.Style.Color != "#FE4438" || el.Text.Style.Frame != overlay.FrameBlack {
		t.Fatalf("style = %+v", el.Text.Style)
	}
	s.Size = overlay.MaxTextSize + 1
	if err := e.SetTextStyle(s); err == nil {
		t.Fatal("oversized text accepted")
	}
}

func TestStickerDragOnAnyTab(t *testing.T) {
	src := overlay.NewMemorySource()
	src.Add("basic", "basic/red", solid(20, 20, color.NRGBA{255, 0, 0, 255}))
	e := newEditor(t, solid(100, 100, blue), WithStickerSource(src))
	e.SelectTab(TabStickers)
	id, err := e.AddSticker(context.Background(), "basic/red")
	if err != nil {
		t.Fatal(err)
	}
	e.Commit()

	if !e.PointerDown(10, 10, 0) {
		t.Fatal("press on sticker not consumed")
	}
	e.PointerMove(20, 25, 0)
	e.PointerUp(30, 30, 0)
	el, _ := e.Overlay().Get(id)
	if el.X != 20 || el.Y != 20 {
		t.Fatalf("sticker at %v,%v", el.X, el.Y)
	}
	e.Undo()
	if el, _ := e.Overlay().Get(id); el.X != 0 || el.Y != 0 {
		t.Fatalf("undo left sticker at %v,%v", el.X, el.Y)
	}

	data, err := e.Save()
	if err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	if r, _, b, _ := img.At(5, 5).RGBA(); r>>8 < 250 || b>>8 > 5 {
		t.Fatalf("sticker missing from export: %v", img.At(5, 5))
	}
	if _, _, b, _ := img.At(50, 50).RGBA(); b>>8 < 250 {
		t.Fatalf("background missing from export: %v", img.At(50, 50))
	}
}

func TestMissingStickerUsesPlaceholder(t *testing.T) {
	e := newEditor(t, solid(100, 100, blue))
	id, err := e.AddSticker(context.Background(), "gone/cat")
	if err == nil || id == 0 {
		t.Fatalf("id %d err %v", id, err)
	}
	el, _ := e.Overlay().Get(id)
	if !el.Sticker.Placeholder || el.Sticker.Image == nil {
		t.Fatalf("sticker %+v", el.Sticker)
	}
}

func TestSaveAndCloseCallbacks(t *testing.T) {
	var saves, closes int
	e := newEditor(t, solid(10, 10, blue),
		OnSave(func([]byte) { saves++ }),
		OnClose(func() { closes++ }))
	if _, err := e.Save(); err != nil {
		t.Fatal(err)
	}
	if _, err := e.Save(); !errors.Is(err, ErrSaved) {
		t.Fatalf("second save = %v", err)
	}
	e.Close()
	e.Close()
	if saves != 1 || closes != 0 {
		t.Fatalf("saves %d closes %d", saves, closes)
	}

	e2 := newEditor(t, solid(10, 10, blue), OnClose(func() { closes++ }))
	e2.Close()
	if closes != 1 {
		t.Fatalf("closes = %d", closes)
	}
	if err := e2.SetFilter("fade", 10); !errors.Is(err, ErrClosed) {
		t.Fatalf("SetFilter after close = %v", err)
	}
}

func TestListenersReleasedOnClose(t *testing.T) {
	e := newEditor(t, solid(10, 10, blue))
	attached := 0
	src := EventSourceFunc(func(*Editor) func() {
		attached++
		return func() { attached-- }
	})
	r1 := e.Listen(src)
	e.Listen(src)
	if attached != 2 || e.Listeners() != 2 {
		t.Fatalf("attached %d", attached)
	}
	r1()
	r1()
	if attached != 1 {
		t.Fatalf("release ran twice: attached %d", attached)
	}
	e.Close()
	if attached != 0 || e.Listeners() != 0 {
		t.Fatalf("close left %d attached", attached)
	}
}

func TestSetBrushValidates(t *testing.T) {
	e := newEditor(t, solid(10, 10, blue))
	if err := e.SetBrush(paint.Brush{Color: "#abc", Type: paint.Neon, Size: 15}); err != nil {
		t.Fatal(err)
	}
	if b := e.Brush(); b.Color != "#AABBCC" || b.Type != paint.Neon {
		t.Fatalf("brush = %+v", b)
	}
	for _, b := range []paint.Brush{
		{Color: "#FFF", Size: paint.MaxSize + 1},
		{Color: "nope", Size: 1},
		{Color: "#FFF", Type: paint.BrushType(42), Size: 1},
	} {
		if err := e.SetBrush(b); err == nil {
			t.Errorf("SetBrush(%+v) accepted", b)
		}
	}
}

func TestLabels(t *testing.T) {
	l := English()
	if got := l.Translate(LabelFilters); got != "Enhance" {
		t.Fatalf("Filters = %q", got)
	}
	if got := l.Translate("unlisted"); got != "unlisted" {
		t.Fatalf("unlisted = %q", got)
	}
	de, err := NewCatalog(language.German, map[string]string{LabelSave: "Speichern"})
	if err != nil {
		t.Fatal(err)
	}
	if got := de.Translate(LabelSave); got != "Speichern" {
		t.Fatalf("German save = %q", got)
	}
}

func TestSetFilterRejectsNaN(t *testing.T) {
	e := newEditor(t, solid(8, 8, blue))
	if err := e.SetFilter("brightness", math.NaN()); err == nil {
		t.Fatal("NaN accepted")
	}
	if !e.Settings().IsIdentity() || e.History().CanUndo() {
		t.Fatalf("settings %v, can undo %v", e.Settings(), e.History().CanUndo())
	}
}
