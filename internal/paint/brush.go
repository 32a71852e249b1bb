// Package paint rasterises freehand strokes onto the drawing surface.
package paint

import (
	"fmt"
	"strings"

	"github.com/gogpu/gg"
)

// BrushType selects the stroke algorithm.
type BrushType int

const (
	Pen BrushType = iota
	Arrow
	Soft
	Neon
	Blur
	Eraser
)

var brushNames = [...]string{
	Pen:    "pen",
	Arrow:  "arrow",
	Soft:   "brush",
	Neon:   "neon",
	Blur:   "blur",
	Eraser: "eraser",
}

// BrushTypes lists every brush in tool order.
func BrushTypes() []BrushType {
	return []BrushType{Pen, Arrow, Soft, Neon, Blur, Eraser}
}

func (t BrushType) String() string {
	if t < 0 || int(t) >= len(brushNames) {
		return fmt.Sprintf("brush(%d)", int(t))
	}
	return brushNames[t]
}

// ParseBrushType accepts the names printed by String, case-insensitively.
func ParseBrushType(s string) (BrushType, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range brushNames {
		if name == s {
			return BrushType(i), nil
		}
	}
	return Pen, fmt.Errorf("unknown brush %q", s)
}

const (
	MaxSize     = 30
	DefaultSize = 10
)

// Brush is the current stroke configuration.
type Brush struct {
	Color string
	Type  BrushType
	Size  int
}

// DefaultBrush is the brush a fresh editor starts with.
func DefaultBrush() Brush {
	return Brush{Color: "#FFFFFF", Type: Pen, Size: DefaultSize}
}

// RGBA resolves the brush colour. Unparseable colours resolve to black.
func (b Brush) RGBA() gg.RGBA {
	return gg.Hex(b.Color)
}

// width returns the stroke width in pixels.
func (b Brush) width() float64 {
	if b.Size < 0 {
		return 0
	}
	if b.Size > MaxSize {
		return MaxSize
	}
	return float64(b.Size)
}
