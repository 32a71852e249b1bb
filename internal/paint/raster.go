package paint

import (
	"image"
	"image/draw"
	"math"

	"github.com/disintegration/gift"
	"github.com/gogpu/gg"
)

const (
	softAlpha   = 0.1
	neonWiden   = 10
	neonSigma   = 10
	revealSigma = 5
)

var white = gg.RGBA{R: 1, G: 1, B: 1, A: 1}

// coverage strokes or fills a shape in opaque white on the scratch pixmap and
// returns the rectangle that may have been touched.
func (e *Engine) coverage(from, to Point, width float64, lineCap gg.LineCap, join gg.LineJoin) image.Rectangle {
	c := e.scratchCtx
	c.SetRGBA(1, 1, 1, 1)
	half := width / 2
	if from == to {
		switch lineCap {
		case gg.LineCapRound:
			c.DrawCircle(to.X, to.Y, half)
		default:
			c.DrawRectangle(to.X-half, to.Y-half, width, width)
		}
		_ = c.Fill()
	} else {
		c.SetLineWidth(width)
		c.SetLineCap(lineCap)
		c.SetLineJoin(join)
		c.MoveTo(from.X, from.Y)
		c.LineTo(to.X, to.Y)
		_ = c.Stroke()
	}
	pad := int(math.Ceil(half)) + 2
	r := image.Rect(
		int(math.Floor(math.Min(from.X, to.X)))-pad,
		int(math.Floor(math.Min(from.Y, to.Y)))-pad,
		int(math.Ceil(math.Max(from.X, to.X)))+pad,
		int(math.Ceil(math.Max(from.Y, to.Y)))+pad,
	)
	return r.Intersect(e.bounds())
}

// takeCoverage copies the scratch alpha inside r and clears that region.
func (e *Engine) takeCoverage(r image.Rectangle) *image.Alpha {
	mask := image.NewAlpha(r)
	pix := e.scratch.Data()
	w := e.scratch.Width()
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			i := (y*w + x) * 4
			mask.Pix[mask.PixOffset(x, y)] = pix[i+3]
			pix[i], pix[i+1], pix[i+2], pix[i+3] = 0, 0, 0, 0
		}
	}
	return mask
}

// blend composites a straight-alpha colour over one surface pixel.
func blend(pix []uint8, i int, c gg.RGBA, a float64) {
	if a <= 0 {
		return
	}
	if a > 1 {
		a = 1
	}
	da := float64(pix[i+3]) / 255
	oa := a + da*(1-a)
	if oa <= 0 {
		pix[i], pix[i+1], pix[i+2], pix[i+3] = 0, 0, 0, 0
		return
	}
	mix := func(s float64, d uint8) uint8 {
		v := (s*a + float64(d)/255*da*(1-a)) / oa
		return uint8(math.Round(v * 255))
	}
	pix[i] = mix(c.R, pix[i])
	pix[i+1] = mix(c.G, pix[i+1])
	pix[i+2] = mix(c.B, pix[i+2])
	pix[i+3] = uint8(math.Round(oa * 255))
}

// fillMask paints colour c through mask at the given opacity.
func (e *Engine) fillMask(mask *image.Alpha, c gg.RGBA, opacity float64) {
	pix := e.surface.Data()
	w := e.surface.Width()
	r := mask.Rect
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			cov := mask.Pix[mask.PixOffset(x, y)]
			if cov == 0 {
				continue
			}
			blend(pix, (y*w+x)*4, c, float64(cov)/255*c.A*opacity)
		}
	}
}

func (e *Engine) solid(from, to Point, b Brush) {
	r := e.coverage(from, to, b.width(), gg.LineCapRound, gg.LineJoinRound)
	e.fillMask(e.takeCoverage(r), b.RGBA(), 1)
}

func (e *Engine) soft(from, to Point, b Brush) {
	r := e.coverage(from, to, b.width(), gg.LineCapSquare, gg.LineJoinBevel)
	e.fillMask(e.takeCoverage(r), b.RGBA(), softAlpha)
}

// neon lays a blurred glow in the brush colour under a white core that is
// neonWiden pixels wider than the brush.
func (e *Engine) neon(from, to Point, b Brush) {
	width := b.width() + neonWiden
	core := e.coverage(from, to, width, gg.LineCapRound, gg.LineJoinRound)
	mask := e.takeCoverage(core)

	spread := int(math.Ceil(3 * neonSigma))
	region := core.Inset(-spread).Intersect(e.bounds())
	src := image.NewAlpha(region)
	draw.Draw(src, core, mask, core.Min, draw.Src)

	g := gift.New(gift.GaussianBlur(neonSigma))
	glow := image.NewNRGBA(g.Bounds(src.Bounds()))
	g.Draw(glow, src)

	pix := e.surface.Data()
	w := e.surface.Width()
	col := b.RGBA()
	for y := region.Min.Y; y < region.Max.Y; y++ {
		for x := region.Min.X; x < region.Max.X; x++ {
			gx, gy := x-region.Min.X+glow.Rect.Min.X, y-region.Min.Y+glow.Rect.Min.Y
			a := glow.Pix[glow.PixOffset(gx, gy)+3]
			if a == 0 {
				continue
			}
			blend(pix, (y*w+x)*4, col, float64(a)/255*col.A)
		}
	}
	e.fillMask(mask, white, 1)
}

// reveal uncovers a blurred copy of the background inside a circle of radius
// size swept from from to to.
func (e *Engine) reveal(from, to Point, b Brush) {
	if e.background == nil {
		return
	}
	blurred := e.blurredBackground()
	r := e.coverage(from, to, 2*b.width(), gg.LineCapRound, gg.LineJoinRound)
	mask := e.takeCoverage(r)
	pix := e.surface.Data()
	w := e.surface.Width()
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			cov := mask.Pix[mask.PixOffset(x, y)]
			if cov == 0 {
				continue
			}
			o := blurred.PixOffset(x, y)
			c := gg.RGBA{
				R: float64(blurred.Pix[o]) / 255,
				G: float64(blurred.Pix[o+1]) / 255,
				B: float64(blurred.Pix[o+2]) / 255,
				A: float64(blurred.Pix[o+3]) / 255,
			}
			blend(pix, (y*w+x)*4, c, float64(cov)/255*c.A)
		}
	}
}

func (e *Engine) blurredBackground() *image.NRGBA {
	if e.blurred != nil {
		return e.blurred
	}
	g := gift.New(gift.GaussianBlur(revealSigma))
	src := e.background
	out := image.NewNRGBA(g.Bounds(src.Bounds()))
	g.Draw(out, src)
	// surfaces are always rooted at the origin
	out.Rect = out.Rect.Sub(out.Rect.Min)
	e.blurred = out
	return out
}

// erase clears a square of side size centred on every pixel step from from
// to to.
func (e *Engine) erase(from, to Point, b Brush) {
	side := b.width()
	if side <= 0 {
		return
	}
	steps := int(math.Ceil(from.Distance(to)))
	if steps < 1 {
		steps = 1
	}
	bounds := e.bounds()
	pix := e.surface.Data()
	w := e.surface.Width()
	for s := 0; s <= steps; s++ {
		t := float64(s) / float64(steps)
		p := from.Add(to.Sub(from).Mul(t))
		x0 := int(math.Round(p.X - side/2))
		y0 := int(math.Round(p.Y - side/2))
		sq := image.Rect(x0, y0, x0+int(side), y0+int(side)).Intersect(bounds)
		for y := sq.Min.Y; y < sq.Max.Y; y++ {
			row := (y*w + sq.Min.X) * 4
			clear(pix[row : row+sq.Dx()*4])
		}
	}
}

// ArrowHead returns the end points of the two head lines drawn from end.
// The head is 2*size long at 30 degrees either side of the stroke direction.
func ArrowHead(start, end Point, size int) (left, right Point) {
	length := 2 * float64(size)
	angle := math.Atan2(end.Y-start.Y, end.X-start.X)
	left = Point{
		X: end.X - length*math.Cos(angle-math.Pi/6),
		Y: end.Y - length*math.Sin(angle-math.Pi/6),
	}
	right = Point{
		X: end.X - length*math.Cos(angle+math.Pi/6),
		Y: end.Y - length*math.Sin(angle+math.Pi/6),
	}
	return left, right
}
