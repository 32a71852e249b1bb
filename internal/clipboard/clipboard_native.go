//go:build (darwin && cgo) || windows

package clipboard

import "golang.design/x/clipboard"

func init() {
	newBackend = func() (backend, error) {
		if err := clipboard.Init(); err != nil {
			return nil, err
		}
		return nativeBackend{}, nil
	}
}

type nativeBackend struct{}

func (nativeBackend) writeImage(data []byte) error {
	clipboard.Write(clipboard.FmtImage, data)
	return nil
}

func (nativeBackend) readImage() ([]byte, error) { return clipboard.Read(clipboard.FmtImage), nil }

func (nativeBackend) writeText(text string) error {
	clipboard.Write(clipboard.FmtText, []byte(text))
	return nil
}

func (nativeBackend) readText() (string, error) { return string(clipboard.Read(clipboard.FmtText)), nil }
