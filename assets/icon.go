// Package assets draws the application icon.
package assets

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"sync"

	"github.com/gogpu/gg"
)

var iconSizes = []int{16, 32, 48, 64, 128, 256}

var (
	mu      sync.Mutex
	images  = map[int]*image.NRGBA{}
	encoded = map[int][]byte{}
)

// IconSizes lists the sizes IconImage and IconPNG produce.
func IconSizes() []int {
	return append([]int(nil), iconSizes...)
}

func validSize(size int) bool {
	for _, s := range iconSizes {
		if s == size {
			return true
		}
	}
	return false
}

// IconImage returns the icon rendered at size pixels square.
func IconImage(size int) (image.Image, error) {
	if !validSize(size) {
		return nil, fmt.Errorf("icon %dpx not available", size)
	}
	mu.Lock()
	defer mu.Unlock()
	if img, ok := images[size]; ok {
		return img, nil
	}
	img, err := draw(size)
	if err != nil {
		return nil, err
	}
	images[size] = img
	return img, nil
}

// IconPNG returns a copy of the PNG encoding of the icon.
func IconPNG(size int) ([]byte, error) {
	img, err := IconImage(size)
	if err != nil {
		return nil, err
	}
	mu.Lock()
	defer mu.Unlock()
	data, ok := encoded[size]
	if !ok {
		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			return nil, err
		}
		data = buf.Bytes()
		encoded[size] = data
	}
	return append([]byte(nil), data...), nil
}

// draw paints a rounded tile with a brush stroke and three swatches.
func draw(size int) (*image.NRGBA, error) {
	s := float64(size)
	pm := gg.NewPixmap(size, size)
	dc := gg.NewContext(size, size, gg.WithPixmap(pm))
	defer dc.Close()

	dc.SetRGBA(0x33/255.0, 0x90/255.0, 0xEC/255.0, 1)
	dc.DrawRoundedRectangle(0, 0, s, s, s*0.22)
	if err := dc.Fill(); err != nil {
		return nil, err
	}

	dc.SetRGBA(1, 1, 1, 1)
	dc.SetLineWidth(s * 0.11)
	dc.SetLineCap(gg.LineCapRound)
	dc.SetLineJoin(gg.LineJoinRound)
	dc.MoveTo(s*0.24, s*0.70)
	dc.LineTo(s*0.46, s*0.44)
	dc.LineTo(s*0.76, s*0.28)
	if err := dc.Stroke(); err != nil {
		return nil, err
	}

	for i, hex := range []string{"#FE4438", "#FFD60A", "#33C759"} {
		c := gg.Hex(hex)
		dc.SetRGBA(c.R, c.G, c.B, 1)
		dc.DrawCircle(s*(0.34+0.16*float64(i)), s*0.80, s*0.06)
		if err := dc.Fill(); err != nil {
			return nil, err
		}
	}

	return &image.NRGBA{Pix: pm.Data(), Stride: size * 4, Rect: image.Rect(0, 0, size, size)}, nil
}
