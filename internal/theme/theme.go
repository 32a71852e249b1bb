package theme

import (
	"image/color"
)

// Theme defines the colours of the editor chrome.
type Theme struct {
	Name string

	// Window
	Background color.NRGBA // behind the canvas
	Foreground color.NRGBA // labels

	// Tabs bar
	TabBackground color.NRGBA
	TabText       color.NRGBA
	TabTextActive color.NRGBA
	TabUnderline  color.NRGBA

	// Tool panel
	PanelBackground  color.NRGBA
	ButtonBackground color.NRGBA
	ButtonHover      color.NRGBA
	ButtonText       color.NRGBA
	SliderTrack      color.NRGBA
	SliderFill       color.NRGBA
	Accent           color.NRGBA

	// Overlay decorations
	Outline color.NRGBA
	Handle  color.NRGBA

	// Canvas
	CheckerLight color.NRGBA
	CheckerDark  color.NRGBA
}

// Default returns the built-in dark theme.
func Default() *Theme {
	return &Theme{
		Name:             "Default",
		Background:       color.NRGBA{0x18, 0x18, 0x18, 255},
		Foreground:       color.NRGBA{0xFF, 0xFF, 0xFF, 255},
		TabBackground:    color.NRGBA{0x21, 0x21, 0x21, 255},
		TabText:          color.NRGBA{0xAA, 0xAA, 0xAA, 255},
		TabTextActive:    color.NRGBA{0x8A, 0xB4, 0xF7, 255},
		TabUnderline:     color.NRGBA{0x8A, 0xB4, 0xF7, 255},
		PanelBackground:  color.NRGBA{0x21, 0x21, 0x21, 255},
		ButtonBackground: color.NRGBA{0x2B, 0x2B, 0x2B, 255},
		ButtonHover:      color.NRGBA{0x3A, 0x3A, 0x3A, 255},
		ButtonText:       color.NRGBA{0xFF, 0xFF, 0xFF, 255},
		SliderTrack:      color.NRGBA{0x42, 0x42, 0x42, 255},
		SliderFill:       color.NRGBA{0xFF, 0xFF, 0xFF, 255},
		Accent:           color.NRGBA{0x8A, 0xB4, 0xF7, 255},
		Outline:          color.NRGBA{0xFF, 0xFF, 0xFF, 0xA0},
		Handle:           color.NRGBA{0xFF, 0xFF, 0xFF, 255},
		CheckerLight:     color.NRGBA{0x30, 0x30, 0x30, 255},
		CheckerDark:      color.NRGBA{0x26, 0x26, 0x26, 255},
	}
}
