package assets

import (
	"bytes"
	"image/png"
	"testing"
)

func TestIconSizes(t *testing.T) {
	for _, size := range IconSizes() {
		img, err := IconImage(size)
		if err != nil {
			t.Fatalf("IconImage(%d): %v", size, err)
		}
		if b := img.Bounds(); b.Dx() != size || b.Dy() != size {
			t.Fatalf("icon %d has bounds %v", size, b)
		}
	}
	if _, err := IconImage(17); err == nil {
		t.Fatal("odd size accepted")
	}
}

func TestIconPNGDecodes(t *testing.T) {
	data, err := IconPNG(64)
	if err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	// corners are outside the rounded tile, the centre is inside
	if _, _, _, a := img.At(0, 0).RGBA(); a != 0 {
		t.Errorf("corner alpha %d", a)
	}
	if _, _, _, a := img.At(32, 10).RGBA(); a == 0 {
		t.Error("tile not drawn")
	}
}
