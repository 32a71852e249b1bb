// Package overlay models the positioned text fields and stickers that sit
// above the raster surfaces.
package overlay

import (
	"fmt"
	"strings"
)

// Align is the horizontal text alignment.
type Align int

const (
	AlignLeft Align = iota
	AlignCentre
	AlignRight
)

var alignNames = [...]string{"left", "centre", "right"}

func (a Align) String() string {
	if a < 0 || int(a) >= len(alignNames) {
		return fmt.Sprintf("align(%d)", int(a))
	}
	return alignNames[a]
}

// ParseAlign accepts left, centre (or center) and right.
func ParseAlign(s string) (Align, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "left":
		return AlignLeft, nil
	case "centre", "center":
		return AlignCentre, nil
	case "right":
		return AlignRight, nil
	}
	return AlignLeft, fmt.Errorf("unknown alignment %q", s)
}

// Frame decorates text with a backing box.
type Frame int

const (
	FrameNone Frame = iota
	FrameBlack
	FrameWhite
)

var frameNames = [...]string{"none", "black", "white"}

func (f Frame) String() string {
	if f < 0 || int(f) >= len(frameNames) {
		return fmt.Sprintf("frame(%d)", int(f))
	}
	return frameNames[f]
}

// ParseFrame accepts none, black and white, optionally prefixed frame_.
func ParseFrame(s string) (Frame, error) {
	s = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), "frame_")
	for i, n := range frameNames {
		if n == s {
			return Frame(i), nil
		}
	}
	return FrameNone, fmt.Errorf("unknown frame %q", s)
}

// Fonts are the selectable text families in menu order.
var Fonts = []string{
	"Roboto",
	"Typewriter",
	"Avenir Next",
	"Courier New",
	"Noteworthy",
	"Georgia",
	"Papyrus",
	"Snell Roundhand",
}

// LookupFont returns the canonical family name for s.
func LookupFont(s string) (string, bool) {
	for _, f := range Fonts {
		if strings.EqualFold(f, strings.TrimSpace(s)) {
			return f, true
		}
	}
	return "", false
}

const (
	MaxTextSize     = 48
	DefaultTextSize = 24
	DefaultText     = "Enter your text here"
)

// Style is the formatting owned by each text field.
type Style struct {
	Align Align
	Font  string
	Frame Frame
	Size  int
	Color string
}

// DefaultStyle is the text tool's initial style.
func DefaultStyle() Style {
	return Style{Align: AlignLeft, Font: Fonts[0], Frame: FrameNone, Size: DefaultTextSize, Color: "#FFFFFF"}
}

// Validate reports the first invalid field.
func (s Style) Validate() error {
	if _, ok := LookupFont(s.Font); !ok {
		return fmt.Errorf("unknown font %q", s.Font)
	}
	if s.Size < 0 || s.Size > MaxTextSize {
		return fmt.Errorf("text size %d out of range 0..%d", s.Size, MaxTextSize)
	}
	if s.Align < AlignLeft || s.Align > AlignRight {
		return fmt.Errorf("invalid alignment %d", int(s.Align))
	}
	if s.Frame < FrameNone || s.Frame > FrameWhite {
		return fmt.Errorf("invalid frame %d", int(s.Frame))
	}
	return nil
}
