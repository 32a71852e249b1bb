// Package render rasterises overlay elements for display and export.
package render

import (
	"fmt"
	"os"
	"sync"

	"github.com/example/mediaeditor/internal/overlay"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/gomediumitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/gofont/gosmallcaps"
	"golang.org/x/image/font/opentype"
)

// builtin maps each text family to the bundled Go font that stands in for it.
var builtin = map[string][]byte{
	"Roboto":          goregular.TTF,
	"Typewriter":      gomono.TTF,
	"Avenir Next":     gomedium.TTF,
	"Courier New":     gomonobold.TTF,
	"Noteworthy":      gomediumitalic.TTF,
	"Georgia":         gobold.TTF,
	"Papyrus":         gosmallcaps.TTF,
	"Snell Roundhand": goitalic.TTF,
}

type faceKey struct {
	family string
	size   int
}

// FontSet resolves families to faces. Parsed fonts and faces are cached.
type FontSet struct {
	mu     sync.Mutex
	data   map[string][]byte
	parsed map[string]*opentype.Font
	faces  sync.Map // map[faceKey]font.Face
}

// NewFontSet returns a set backed by the bundled fonts.
func NewFontSet() *FontSet {
	data := make(map[string][]byte, len(builtin))
	for k, v := range builtin {
		data[k] = v
	}
	return &FontSet{data: data, parsed: map[string]*opentype.Font{}}
}

// LoadFile replaces the font for family with a TTF or OTF file.
func (fs *FontSet) LoadFile(family, path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read font %s: %w", path, err)
	}
	if _, err := opentype.Parse(b); err != nil {
		return fmt.Errorf("parse font %s: %w", path, err)
	}
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.data[family] = b
	delete(fs.parsed, family)
	fs.faces.Range(func(k, _ any) bool {
		if k.(faceKey).family == family {
			fs.faces.Delete(k)
		}
		return true
	})
	return nil
}

func (fs *FontSet) font(family string) (*opentype.Font, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if f, ok := fs.parsed[family]; ok {
		return f, nil
	}
	b, ok := fs.data[family]
	if !ok {
		b = fs.data[overlay.Fonts[0]]
	}
	f, err := opentype.Parse(b)
	if err != nil {
		return nil, fmt.Errorf("parse font %s: %w", family, err)
	}
	fs.parsed[family] = f
	return f, nil
}

// Face returns family at size pixels. Unknown families fall back to the
// default family.
func (fs *FontSet) Face(family string, size int) (font.Face, error) {
	if size <= 0 {
		return nil, fmt.Errorf("font size %d", size)
	}
	key := faceKey{family, size}
	if face, ok := fs.faces.Load(key); ok {
		return face.(font.Face), nil
	}
	f, err := fs.font(family)
	if err != nil {
		return nil, err
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: float64(size), DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return nil, fmt.Errorf("face %s %d: %w", family, size, err)
	}
	actual, _ := fs.faces.LoadOrStore(key, face)
	return actual.(font.Face), nil
}
