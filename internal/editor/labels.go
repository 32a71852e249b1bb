package editor

import (
	"fmt"
	"log"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Labels translates user-visible label keys.
type Labels interface {
	Translate(key string) string
}

// Label keys used by the editor chrome.
const (
	LabelEdit     = "Edit"
	LabelFilters  = "Filters"
	LabelCrop     = "Crop"
	LabelText     = "Text"
	LabelPaint    = "Paint"
	LabelStickers = "Stickers"
	LabelTool     = "Tool"
	LabelFont     = "Font"
	LabelSize     = "Size"
	LabelColor    = "Color"
	LabelSave     = "Save"
	LabelClose    = "Close"
	LabelUndo     = "Undo"
	LabelRedo     = "Redo"
)

var english = map[string]string{
	LabelEdit:     "Edit",
	LabelFilters:  "Enhance",
	LabelCrop:     "Crop",
	LabelText:     "Text",
	LabelPaint:    "Draw",
	LabelStickers: "Stickers",
	LabelTool:     "Tool",
	LabelFont:     "Font",
	LabelSize:     "Size",
	LabelColor:    "Color",
	LabelSave:     "Save",
	LabelClose:    "Close",
	LabelUndo:     "Undo",
	LabelRedo:     "Redo",

	"enhance":    "Enhance",
	"brightness": "Brightness",
	"contrast":   "Contrast",
	"saturation": "Saturation",
	"warmth":     "Warmth",
	"fade":       "Fade",
	"highlights": "Highlights",
	"shadows":    "Shadows",
	"vignette":   "Vignette",
	"grain":      "Grain",
	"sharpen":    "Sharpen",

	"pen":    "Pen",
	"arrow":  "Arrow",
	"brush":  "Brush",
	"neon":   "Neon",
	"blur":   "Blur",
	"eraser": "Eraser",
}

// Catalog is a Labels backed by an x/text message catalog. Keys with no
// entry translate to themselves.
type Catalog struct {
	printer *message.Printer
}

// NewCatalog builds labels for tag. The English strings are always present
// and extra overrides them for tag.
func NewCatalog(tag language.Tag, extra map[string]string) (*Catalog, error) {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for k, v := range english {
		if err := b.SetString(language.English, k, v); err != nil {
			return nil, fmt.Errorf("label %q: %w", k, err)
		}
	}
	for k, v := range extra {
		if err := b.SetString(tag, k, v); err != nil {
			return nil, fmt.Errorf("label %q: %w", k, err)
		}
	}
	return &Catalog{printer: message.NewPrinter(tag, message.Catalog(b))}, nil
}

// Translate implements Labels.
func (c *Catalog) Translate(key string) string {
	return c.printer.Sprintf(key)
}

// English returns the default labels.
func English() Labels {
	c, err := NewCatalog(language.English, nil)
	if err != nil {
		log.Printf("labels: %v", err)
		return identity{}
	}
	return c
}

type identity struct{}

func (identity) Translate(key string) string { return key }
