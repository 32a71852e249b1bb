package filter

import (
	"image"
	"image/color"
	"math"
)

// Texture is an uploaded straight-alpha RGBA texture sampled with
// clamp-to-edge wrapping and linear filtering.
type Texture struct {
	w, h int
	pix  []float32
}

// Upload copies img into a texture.
func Upload(img image.Image) *Texture {
	b := img.Bounds()
	t := &Texture{w: b.Dx(), h: b.Dy(), pix: make([]float32, b.Dx()*b.Dy()*4)}
	i := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			t.pix[i+0] = float32(c.R) / 255
			t.pix[i+1] = float32(c.G) / 255
			t.pix[i+2] = float32(c.B) / 255
			t.pix[i+3] = float32(c.A) / 255
			i += 4
		}
	}
	return t
}

// Size returns the texture dimensions.
func (t *Texture) Size() (int, int) { return t.w, t.h }

func (t *Texture) texel(x, y int) [4]float32 {
	if x < 0 {
		x = 0
	} else if x >= t.w {
		x = t.w - 1
	}
	if y < 0 {
		y = 0
	} else if y >= t.h {
		y = t.h - 1
	}
	i := (y*t.w + x) * 4
	return [4]float32{t.pix[i], t.pix[i+1], t.pix[i+2], t.pix[i+3]}
}

// Sample reads the texture at uv. v runs bottom to top, matching an upload
// with the rows flipped.
func (t *Texture) Sample(u, v float64) [4]float32 {
	fx := u*float64(t.w) - 0.5
	fy := (1-v)*float64(t.h) - 0.5
	x0 := math.Floor(fx)
	y0 := math.Floor(fy)
	ax := float32(fx - x0)
	ay := float32(fy - y0)
	// Snap sub-epsilon weights so texel centres read back exactly.
	if ax < 1e-4 {
		ax = 0
	} else if ax > 1-1e-4 {
		ax, x0 = 0, x0+1
	}
	if ay < 1e-4 {
		ay = 0
	} else if ay > 1-1e-4 {
		ay, y0 = 0, y0+1
	}
	ix, iy := int(x0), int(y0)
	c00 := t.texel(ix, iy)
	if ax == 0 && ay == 0 {
		return c00
	}
	c10 := t.texel(ix+1, iy)
	c01 := t.texel(ix, iy+1)
	c11 := t.texel(ix+1, iy+1)
	var out [4]float32
	for k := 0; k < 4; k++ {
		top := c00[k] + (c10[k]-c00[k])*ax
		bot := c01[k] + (c11[k]-c01[k])*ax
		out[k] = top + (bot-top)*ay
	}
	return out
}
