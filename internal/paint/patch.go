package paint

import (
	"fmt"
	"image"
)

// Patch is the changed region of the drawing surface between two states.
type Patch struct {
	Rect   image.Rectangle
	width  int
	before []byte
	after  []byte
}

// Empty reports whether the patch changes nothing.
func (p Patch) Empty() bool { return p.Rect.Empty() }

// Diff compares an earlier Snapshot with the current surface and keeps only
// the rows and columns that differ.
func (e *Engine) Diff(before []byte) (Patch, error) {
	cur := e.surface.Data()
	if len(before) != len(cur) {
		return Patch{}, fmt.Errorf("paint: snapshot is %d bytes, surface is %d", len(before), len(cur))
	}
	w, h := e.surface.Width(), e.surface.Height()
	r := image.Rectangle{}
	for y := 0; y < h; y++ {
		row := y * w * 4
		for x := 0; x < w; x++ {
			i := row + x*4
			if before[i] != cur[i] || before[i+1] != cur[i+1] || before[i+2] != cur[i+2] || before[i+3] != cur[i+3] {
				r = r.Union(image.Rect(x, y, x+1, y+1))
			}
		}
	}
	p := Patch{Rect: r, width: w}
	if r.Empty() {
		return p, nil
	}
	p.before = crop(before, w, r)
	p.after = crop(cur, w, r)
	return p, nil
}

func crop(pix []byte, stride int, r image.Rectangle) []byte {
	out := make([]byte, 0, r.Dx()*r.Dy()*4)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		i := (y*stride + r.Min.X) * 4
		out = append(out, pix[i:i+r.Dx()*4]...)
	}
	return out
}

// Apply writes the after state of p into the surface, or the before state
// when revert is set.
func (e *Engine) Apply(p Patch, revert bool) error {
	if p.Empty() {
		return nil
	}
	if p.width != e.surface.Width() || !p.Rect.In(e.bounds()) {
		return fmt.Errorf("paint: patch %v does not fit surface %v", p.Rect, e.bounds())
	}
	src := p.after
	if revert {
		src = p.before
	}
	data := e.surface.Data()
	n := p.Rect.Dx() * 4
	for y := p.Rect.Min.Y; y < p.Rect.Max.Y; y++ {
		i := (y*p.width + p.Rect.Min.X) * 4
		j := (y - p.Rect.Min.Y) * n
		copy(data[i:i+n], src[j:j+n])
	}
	return nil
}
