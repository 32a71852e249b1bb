package filter

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Channel describes one adjustment exposed by the filter program.
type Channel struct {
	Name string
	Min  float64
	Max  float64
}

// channels is ordered the way the program applies them.
var channels = []Channel{
	{Name: "brightness", Min: -100, Max: 100},
	{Name: "contrast", Min: -100, Max: 100},
	{Name: "enhance", Min: 0, Max: 100},
	{Name: "saturation", Min: -100, Max: 100},
	{Name: "warmth", Min: -100, Max: 100},
	{Name: "fade", Min: 0, Max: 100},
	{Name: "highlights", Min: -100, Max: 100},
	{Name: "shadows", Min: -100, Max: 100},
	{Name: "vignette", Min: 0, Max: 100},
	{Name: "grain", Min: 0, Max: 100},
	{Name: "sharpen", Min: 0, Max: 100},
}

// Channels returns the adjustment channels in application order.
func Channels() []Channel {
	out := make([]Channel, len(channels))
	copy(out, channels)
	return out
}

// LookupChannel returns the channel with the given name.
func LookupChannel(name string) (Channel, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, c := range channels {
		if c.Name == name {
			return c, true
		}
	}
	return Channel{}, false
}

// Settings is the full record of filter adjustments. The zero value is the
// identity filter.
type Settings struct {
	Enhance    float64
	Brightness float64
	Contrast   float64
	Saturation float64
	Warmth     float64
	Fade       float64
	Highlights float64
	Shadows    float64
	Vignette   float64
	Grain      float64
	Sharpen    float64
}

func (s *Settings) field(name string) *float64 {
	switch name {
	case "enhance":
		return &s.Enhance
	case "brightness":
		return &s.Brightness
	case "contrast":
		return &s.Contrast
	case "saturation":
		return &s.Saturation
	case "warmth":
		return &s.Warmth
	case "fade":
		return &s.Fade
	case "highlights":
		return &s.Highlights
	case "shadows":
		return &s.Shadows
	case "vignette":
		return &s.Vignette
	case "grain":
		return &s.Grain
	case "sharpen":
		return &s.Sharpen
	}
	return nil
}

// Get returns the value of the named channel.
func (s Settings) Get(name string) (float64, bool) {
	p := s.field(strings.ToLower(strings.TrimSpace(name)))
	if p == nil {
		return 0, false
	}
	return *p, true
}

// With returns a copy of s with one channel replaced. The value is clamped to
// the channel range. Unknown channels and NaN or infinite values return s
// unchanged and false.
func (s Settings) With(name string, value float64) (Settings, bool) {
	c, ok := LookupChannel(name)
	if !ok || !finite(value) {
		return s, false
	}
	out := s
	*out.field(c.Name) = clampRange(value, c.Min, c.Max)
	return out, true
}

// IsIdentity reports whether every channel is zero.
func (s Settings) IsIdentity() bool {
	return s == Settings{}
}

// Validate returns an error naming the first channel outside its range.
func (s Settings) Validate() error {
	for _, c := range channels {
		v := *s.field(c.Name)
		if !finite(v) || v < c.Min || v > c.Max {
			return fmt.Errorf("%s %v outside [%v, %v]", c.Name, v, c.Min, c.Max)
		}
	}
	return nil
}

// Values returns the channel values in application order.
func (s Settings) Values() []float64 {
	out := make([]float64, len(channels))
	for i, c := range channels {
		out[i] = *s.field(c.Name)
	}
	return out
}

// String formats the non-zero channels as name=value pairs.
func (s Settings) String() string {
	var parts []string
	for _, c := range channels {
		if v := *s.field(c.Name); v != 0 {
			parts = append(parts, c.Name+"="+strconv.FormatFloat(v, 'g', -1, 64))
		}
	}
	return strings.Join(parts, ",")
}

// ParseAssignments parses "brightness=20,warmth=-10" into a Settings record.
// Values outside a channel range are an error rather than clamped.
func ParseAssignments(spec string) (Settings, error) {
	var s Settings
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return s, nil
	}
	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, raw, ok := strings.Cut(part, "=")
		if !ok {
			return Settings{}, fmt.Errorf("filter %q: expected name=value", part)
		}
		c, ok := LookupChannel(name)
		if !ok {
			return Settings{}, fmt.Errorf("unknown filter channel %q", strings.TrimSpace(name))
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return Settings{}, fmt.Errorf("filter %s: %w", c.Name, err)
		}
		if !finite(v) || v < c.Min || v > c.Max {
			return Settings{}, fmt.Errorf("filter %s: %v outside [%v, %v]", c.Name, v, c.Min, c.Max)
		}
		*s.field(c.Name) = v
	}
	return s, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func clampRange(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
