//go:build (linux || freebsd || openbsd || netbsd || dragonfly) && cgo

package clipboard

import (
	"golang.design/x/clipboard"
)

func init() { newBackend = newCgoBackend }

// cgoBackend uses the system clipboard through golang.design/x/clipboard.
type cgoBackend struct{}

func newCgoBackend() (backend, error) {
	if !hasDisplay() {
		return nil, errNoDisplay
	}
	if err := clipboard.Init(); err != nil {
		return nil, err
	}
	return cgoBackend{}, nil
}

func (cgoBackend) writeImage(data []byte) error {
	clipboard.Write(clipboard.FmtImage, data)
	return nil
}

func (cgoBackend) readImage() ([]byte, error) {
	return clipboard.Read(clipboard.FmtImage), nil
}

func (cgoBackend) writeText(text string) error {
	clipboard.Write(clipboard.FmtText, []byte(text))
	return nil
}

func (cgoBackend) readText() (string, error) {
	return string(clipboard.Read(clipboard.FmtText)), nil
}
