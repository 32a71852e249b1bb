package colorpick

import (
	"image/color"
	"testing"
)

func TestHueRamp(t *testing.T) {
	tests := []struct {
		value float64
		want  string
	}{
		{0, "#ff0000"},
		{12.5, "#ff8a00"},
		{25, "#ffe600"},
		{50, "#00a3ff"},
		{100, "#ff0000"},
		{6.25, "#ff4500"},
		{-3, "#ff0000"},
	}
	for _, tt := range tests {
		if got := HueRamp(tt.value); got != tt.want {
			t.Errorf("HueRamp(%v) = %s, want %s", tt.value, got, tt.want)
		}
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want color.NRGBA
	}{
		{"#FFF", color.NRGBA{255, 255, 255, 255}},
		{"#fe4438", color.NRGBA{0xfe, 0x44, 0x38, 255}},
		{"#11223380", color.NRGBA{0x11, 0x22, 0x33, 0x80}},
		{"Orange", color.NRGBA{255, 165, 0, 255}},
	}
	for _, tt := range tests {
		got, err := ParseColor(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("ParseColor(%q) = %v, %v", tt.in, got, err)
		}
	}
	for _, bad := range []string{"", "#12", "#GGGGGG", "not-a-colour"} {
		if _, err := ParseColor(bad); err == nil {
			t.Errorf("ParseColor(%q) accepted", bad)
		}
	}
	if got, _ := Normalize("#abc"); got != "#AABBCC" {
		t.Errorf("Normalize = %s", got)
	}
	if got := RGBString("#0A84FF"); got != "10, 132, 255" {
		t.Errorf("RGBString = %s", got)
	}
}

func TestPickerField(t *testing.T) {
	p := NewPicker("#FF0000")
	if p.Thumb.X != 100 || p.Thumb.Y != 60 {
		t.Fatalf("default thumb %v", p.Thumb)
	}
	// top-left is near white, right half of the top rows is the base,
	// bottom row is near black
	if c := p.ColorAt(0, 0); c.R != 255 || c.G < 250 || c.B < 250 {
		t.Errorf("top-left = %v", c)
	}
	if c := p.ColorAt(299, 0); c != (color.NRGBA{255, 0, 0, 255}) {
		t.Errorf("top-right = %v", c)
	}
	if c := p.ColorAt(299, 149); c.R > 5 {
		t.Errorf("bottom-right = %v", c)
	}
	if a, b := p.ColorAt(200, 10), p.ColorAt(200, 70); a != b {
		t.Errorf("upper half darkened: %v vs %v", a, b)
	}
	sel := p.Pick(250, 20)
	if sel.Hex != "#FF0000" || sel.RGB != "255, 0, 0" {
		t.Errorf("Pick = %+v", sel)
	}
	p.Pick(-10, 1000)
	if p.Thumb.X != 0 || p.Thumb.Y != 149 {
		t.Errorf("thumb not clamped: %v", p.Thumb)
	}
	img := p.Render()
	if img.Bounds().Dx() != 300 || img.NRGBAAt(299, 0) != p.ColorAt(299, 0) {
		t.Error("render does not match ColorAt")
	}
}

func TestPalette(t *testing.T) {
	p := NewPalette()
	if p.Color() != "#FFFFFF" {
		t.Fatalf("initial = %s", p.Color())
	}
	if c, ok := p.Choose("#33C759"); !ok || c != "#33C759" {
		t.Fatalf("Choose swatch = %s %v", c, ok)
	}
	if c, ok := p.Choose(PickerSwatch); !ok || c != "#FF0000" || !p.Open {
		t.Fatalf("opening picker = %s %v", c, ok)
	}
	if c := p.Ramp(25); c != "#FFE600" {
		t.Fatalf("Ramp = %s", c)
	}
	if _, ok := p.Choose(PickerSwatch); ok || p.Open {
		t.Fatal("closing picker changed colour")
	}
}
