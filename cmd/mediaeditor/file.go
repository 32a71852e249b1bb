package main

import (
	"flag"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/example/mediaeditor/internal/clipboard"
	"github.com/example/mediaeditor/internal/config"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// fileCmd runs an editing subcommand against one image file, reading from
// and writing back to it.
type fileCmd struct {
	path          string
	op            string
	args          []string
	fromClipboard bool
	*root
	fs *flag.FlagSet
}

func (f *fileCmd) FlagSet() *flag.FlagSet {
	return f.fs
}

func (f *fileCmd) Template() string {
	return "file.txt"
}

func parseFileCmd(args []string, r *root) (*fileCmd, error) {
	fs := flag.NewFlagSet("file", flag.ExitOnError)
	cmd := &fileCmd{root: r, fs: fs}
	fs.Usage = usageFunc(cmd)
	fs.StringVar(&cmd.path, "file", "", "path to the image file to read and write")
	fs.BoolVar(&cmd.fromClipboard, "from-clipboard", false, "load the input image from the clipboard")
	fs.BoolVar(&cmd.fromClipboard, "from-clip", false, "load the input image from the clipboard (alias)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if cmd.path == "" || fs.NArg() < 1 {
		return nil, &UsageError{of: cmd}
	}
	cmd.op = strings.ToLower(fs.Arg(0))
	cmd.args = fs.Args()[1:]
	return cmd, nil
}

func (f *fileCmd) Run() error {
	child := f.root.subcommand("file")
	var base []string
	if f.fromClipboard {
		base = append(base, "-from-clipboard")
	} else {
		base = append(base, "-file", f.path)
	}
	base = append(base, "-output", f.path)
	args := append(base, f.args...)

	var (
		cmd runnable
		err error
	)
	switch f.op {
	case "edit":
		cmd, err = parseEditCmd(args, child)
	case "render":
		cmd, err = parseRenderCmd(args, child)
	case "interactive":
		if f.fromClipboard {
			return fmt.Errorf("-from-clipboard cannot be used with file interactive")
		}
		cmd, err = parseInteractiveCmd(append([]string{"-file", f.path, "-output", f.path}, f.args...), child)
	default:
		return fmt.Errorf("unknown file operation %q", f.op)
	}
	if err != nil {
		return err
	}
	return cmd.Run()
}

// loadImage decodes path, or the clipboard image when fromClipboard is set.
func loadImage(path string, fromClipboard bool) (image.Image, error) {
	if fromClipboard {
		img, err := clipboard.PasteImage()
		if err != nil {
			return nil, fmt.Errorf("read clipboard image: %w", err)
		}
		return img, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func(f *os.File) {
		if err := f.Close(); err != nil {
			log.Printf("error closing %q: %v", f.Name(), err)
		}
	}(f)
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}

// writeFile stores data at path, creating parent directories. It returns
// the absolute path when one can be determined.
func writeFile(path string, data []byte) (string, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	if abs, err := filepath.Abs(path); err == nil {
		return abs, nil
	}
	return path, nil
}

// resolveViewport parses spec, falling back to the configured viewport and
// then to w x h.
func resolveViewport(spec string, r *root, w, h int) (config.Viewport, error) {
	if spec != "" {
		vp, err := config.ParseViewport(spec)
		if err != nil {
			return config.Viewport{}, err
		}
		return vp, nil
	}
	if r != nil && r.config != nil && r.config.Viewport.Width > 0 && r.config.Viewport.Height > 0 {
		return r.config.Viewport, nil
	}
	return config.Viewport{Width: w, Height: h}, nil
}
