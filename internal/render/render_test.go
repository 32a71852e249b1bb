package render

import (
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/example/mediaeditor/internal/overlay"
)

func TestEveryFontResolves(t *testing.T) {
	fs := NewFontSet()
	for _, name := range overlay.Fonts {
		if _, err := fs.Face(name, 24); err != nil {
			t.Errorf("%s: %v", name, err)
		}
	}
	if _, err := fs.Face("Roboto", 0); err == nil {
		t.Error("zero size face accepted")
	}
}

func TestLayoutAlignment(t *testing.T) {
	r := NewRenderer(nil)
	style := overlay.DefaultStyle()
	l, err := r.LayoutText("a long first line\nb", style)
	if err != nil {
		t.Fatal(err)
	}
	if len(l.Lines) != 2 || l.Height != 2*l.LineHeight+2*l.Pad {
		t.Fatalf("layout = %+v", l)
	}
	left := l.lineX(1, overlay.AlignLeft)
	centre := l.lineX(1, overlay.AlignCentre)
	right := l.lineX(1, overlay.AlignRight)
	if !(left < centre && centre < right) {
		t.Fatalf("alignment x: %d %d %d", left, centre, right)
	}
	if right+l.Widths[1] != l.Width-l.Pad {
		t.Fatalf("right aligned line does not end at the padding")
	}
}

func TestBlackFrameFillsBox(t *testing.T) {
	r := NewRenderer(nil)
	style := overlay.DefaultStyle()
	style.Frame = overlay.FrameBlack
	img, err := r.RasterizeText("Hi", style)
	if err != nil {
		t.Fatal(err)
	}
	c := img.NRGBAAt(img.Rect.Dx()/2, 1)
	if c.A != 255 || c.R != 0 {
		t.Fatalf("frame pixel = %v", c)
	}
	plain, _ := r.RasterizeText("Hi", overlay.DefaultStyle())
	if a := plain.NRGBAAt(plain.Rect.Dx()/2, 1).A; a != 0 {
		t.Fatalf("unframed text has background alpha %d", a)
	}
}

func TestMeasureMatchesRaster(t *testing.T) {
	r := NewRenderer(nil)
	m := overlay.NewModel(overlay.WithMeasurer(r))
	id := m.AddText(0, 0, overlay.DefaultStyle())
	e, _ := m.Get(id)
	w, h := r.Measure(e)
	img, err := r.Rasterize(e)
	if err != nil {
		t.Fatal(err)
	}
	if float64(img.Bounds().Dx()) != w || float64(img.Bounds().Dy()) != h {
		t.Fatalf("measure %vx%v vs raster %v", w, h, img.Bounds())
	}
}

func TestTransformRotatesAboutCentre(t *testing.T) {
	e := overlay.Element{X: 10, Y: 20, Scale: 2, Rotation: math.Pi / 2}
	m := Transform(e, image.Rect(0, 0, 4, 2))
	apply := func(x, y float64) (float64, float64) {
		return m[0]*x + m[1]*y + m[2], m[3]*x + m[4]*y + m[5]
	}
	// the source centre stays put
	if x, y := apply(2, 1); math.Abs(x-12) > 1e-9 || math.Abs(y-21) > 1e-9 {
		t.Fatalf("centre mapped to %v,%v", x, y)
	}
	// +x in the source points down after a quarter turn, doubled
	if x, y := apply(3, 1); math.Abs(x-12) > 1e-9 || math.Abs(y-23) > 1e-9 {
		t.Fatalf("unit x mapped to %v,%v", x, y)
	}
}

func TestPainterDrawsStickers(t *testing.T) {
	r := NewRenderer(nil)
	m := overlay.NewModel(overlay.WithMeasurer(r))
	sticker := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for i := range sticker.Pix {
		sticker.Pix[i] = 255
	}
	id := m.AddSticker("s", sticker, false)
	m.Place(id, 5, 6, 1, 0)
	dst := image.NewRGBA(image.Rect(0, 0, 20, 20))
	if err := r.Overlay(m).Paint(dst); err != nil {
		t.Fatal(err)
	}
	if got := dst.RGBAAt(6, 7); got != (color.RGBA{255, 255, 255, 255}) {
		t.Fatalf("sticker pixel = %v", got)
	}
	if got := dst.RGBAAt(2, 2); got.A != 0 {
		t.Fatalf("outside sticker = %v", got)
	}

	// the drag preview is painted instead of the committed position
	m.BeginDrag(id, overlay.Point{X: 6, Y: 7})
	m.DragTo(overlay.Point{X: 16, Y: 7})
	dst = image.NewRGBA(image.Rect(0, 0, 20, 20))
	_ = r.Overlay(m).Paint(dst)
	if dst.RGBAAt(6, 7).A != 0 || dst.RGBAAt(16, 7).A != 255 {
		t.Fatal("preview not painted")
	}
}
