// Package colorpick implements the palette, hue ramp and 2D colour picker
// shared by the paint and text tools.
package colorpick

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"
)

// Swatches are the fixed palette entries in display order.
var Swatches = []string{"#FFFFFF", "#FE4438", "#FF8901", "#FFD60A", "#33C759", "#62E5E0", "#0A84FF", "#BD5CF3"}

// RampStops are the hue ramp colours from left to right.
var RampStops = []string{"#FF0000", "#FF8A00", "#FFE600", "#14FF00", "#00A3FF", "#0500FF", "#AD00FF", "#FF00C7", "#FF0000"}

// ParseColor accepts #RGB, #RRGGBB, #RRGGBBAA and CSS colour names.
func ParseColor(s string) (color.NRGBA, error) {
	s = strings.TrimSpace(s)
	if c, ok := colornames.Map[strings.ToLower(s)]; ok {
		return color.NRGBA{c.R, c.G, c.B, c.A}, nil
	}
	hex := strings.TrimPrefix(s, "#")
	switch len(hex) {
	case 3:
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	case 6, 8:
	default:
		return color.NRGBA{}, fmt.Errorf("invalid colour %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid colour %q", s)
	}
	if len(hex) == 6 {
		v = v<<8 | 0xff
	}
	return color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

// Normalize parses s and returns its uppercase #RRGGBB form, or #RRGGBBAA
// when it is not opaque.
func Normalize(s string) (string, error) {
	c, err := ParseColor(s)
	if err != nil {
		return "", err
	}
	return FormatHex(c), nil
}

// FormatHex formats c as uppercase hex.
func FormatHex(c color.NRGBA) string {
	if c.A != 255 {
		return fmt.Sprintf("#%02X%02X%02X%02X", c.R, c.G, c.B, c.A)
	}
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// RGBString formats the channels of a hex colour as "r, g, b".
func RGBString(hex string) string {
	c, err := ParseColor(hex)
	if err != nil {
		return "0, 0, 0"
	}
	return fmt.Sprintf("%d, %d, %d", c.R, c.G, c.B)
}

func mustColorful(hex string) colorful.Color {
	c, err := colorful.Hex(hex)
	if err != nil {
		panic(err)
	}
	return c
}

// HueRamp maps a slider value in 0..100 to a colour on the ramp as
// lowercase #rrggbb. Values outside the range are clamped.
func HueRamp(value float64) string {
	if value < 0 {
		value = 0
	}
	if value > 100 {
		value = 100
	}
	segments := float64(len(RampStops) - 1)
	n := value / 100
	seg := len(RampStops) - 2
	if n != 1 {
		seg = int(math.Floor(n * segments))
	}
	pct := (n - float64(seg)/segments) * segments
	start := mustColorful(RampStops[seg])
	end := mustColorful(RampStops[seg+1])
	sr, sg, sb := start.RGB255()
	er, eg, eb := end.RGB255()
	lerp := func(a, b uint8) float64 {
		return math.Round(float64(a)+pct*(float64(b)-float64(a))) / 255
	}
	return colorful.Color{R: lerp(sr, er), G: lerp(sg, eg), B: lerp(sb, eb)}.Hex()
}
