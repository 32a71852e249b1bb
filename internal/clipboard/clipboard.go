// Package clipboard copies edited images to, and pastes source images from,
// the system clipboard.
package clipboard

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"sync"

	// formats a pasted source image may arrive in
	_ "image/gif"
	_ "image/jpeg"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

var (
	errNoDisplay = errors.New("clipboard initialization requires DISPLAY or WAYLAND_DISPLAY")
	// ErrEmpty reports a clipboard without data of the requested kind.
	ErrEmpty = errors.New("clipboard: no data of the requested kind")
)

// backend is one system clipboard implementation.
type backend interface {
	writeImage(pngData []byte) error
	readImage() ([]byte, error)
	writeText(text string) error
	readText() (string, error)
}

var (
	initOnce sync.Once
	initErr  error
	active   backend
	// newBackend is chosen per platform at build time.
	newBackend func() (backend, error)
)

func ensureInit() error {
	initOnce.Do(func() {
		if newBackend == nil {
			initErr = errors.New("clipboard: not supported on this platform")
			return
		}
		active, initErr = newBackend()
	})
	return initErr
}

// CopyPNG publishes already encoded PNG data.
func CopyPNG(data []byte) error {
	if err := ensureInit(); err != nil {
		return err
	}
	if len(data) == 0 {
		return fmt.Errorf("clipboard: empty image")
	}
	return active.writeImage(data)
}

// CopyImage encodes img as PNG and publishes it.
func CopyImage(img image.Image) error {
	if err := ensureInit(); err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("clipboard: encode: %w", err)
	}
	return active.writeImage(buf.Bytes())
}

// PasteImage decodes the image on the clipboard.
func PasteImage() (image.Image, error) {
	if err := ensureInit(); err != nil {
		return nil, err
	}
	data, err := active.readImage()
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, ErrEmpty
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("clipboard: decode: %w", err)
	}
	return img, nil
}

// CopyText publishes UTF-8 text, such as a picked colour.
func CopyText(text string) error {
	if err := ensureInit(); err != nil {
		return err
	}
	return active.writeText(text)
}

// PasteText returns the UTF-8 text on the clipboard.
func PasteText() (string, error) {
	if err := ensureInit(); err != nil {
		return "", err
	}
	s, err := active.readText()
	if err != nil {
		return "", err
	}
	if s == "" {
		return "", ErrEmpty
	}
	return s, nil
}
