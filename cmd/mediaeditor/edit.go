package main

import (
	"flag"
	"fmt"
	"path/filepath"

	"github.com/example/mediaeditor/internal/appstate"
	"github.com/example/mediaeditor/internal/editor"
	"github.com/example/mediaeditor/internal/overlay"
)

// editCmd opens an image in the editor window.
type editCmd struct {
	file          string
	output        string
	fromClipboard bool
	saveDir       string
	stickerDir    string
	viewport      string
	*root
	fs *flag.FlagSet
}

func (e *editCmd) FlagSet() *flag.FlagSet {
	return e.fs
}

func parseEditCmd(args []string, r *root) (*editCmd, error) {
	fs := flag.NewFlagSet("edit", flag.ExitOnError)
	e := &editCmd{root: r, fs: fs}
	fs.Usage = usageFunc(e)
	fs.StringVar(&e.file, "file", "", "image file to edit")
	fs.StringVar(&e.output, "output", "", "file to save the edit to")
	fs.BoolVar(&e.fromClipboard, "from-clipboard", false, "edit the image on the clipboard")
	fs.BoolVar(&e.fromClipboard, "from-clip", false, "edit the image on the clipboard (alias)")
	fs.StringVar(&e.saveDir, "save-dir", "", "directory for timestamped saves when -output is not set")
	fs.StringVar(&e.stickerDir, "sticker-dir", "", "directory of sticker collections")
	fs.StringVar(&e.viewport, "viewport", "", "canvas size as WIDTHxHEIGHT")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if e.file == "" && fs.NArg() > 0 {
		e.file = fs.Arg(0)
	}
	if e.file == "" && !e.fromClipboard {
		return nil, &UsageError{of: e}
	}
	if e.file != "" && e.fromClipboard {
		return nil, fmt.Errorf("-file and -from-clipboard are mutually exclusive")
	}
	return e, nil
}

func (e *editCmd) Run() error {
	src, err := loadImage(e.file, e.fromClipboard)
	if err != nil {
		return err
	}
	vp, err := resolveViewport(e.viewport, e.root, editor.DefaultViewportWidth, editor.DefaultViewportHeight)
	if err != nil {
		return err
	}
	title := appstate.ProgramTitle
	if e.file != "" {
		title = fmt.Sprintf("%s - %s", appstate.ProgramTitle, filepath.Base(e.file))
	}
	saveDir := e.saveDir
	if saveDir == "" && e.root != nil && e.root.config != nil {
		saveDir = e.root.config.SaveDir
	}
	opts := []appstate.Option{
		appstate.WithImage(src),
		appstate.WithOutput(e.output),
		appstate.WithTitle(title),
		appstate.WithCanvasSize(vp.Width, vp.Height),
		appstate.WithTheme(e.root.activeTheme),
		appstate.WithNotifier(e.root.notifier),
		appstate.WithEditorOptions(e.editorOptions(e.stickerDir)...),
	}
	if saveDir != "" {
		opts = append(opts, appstate.WithSaveDir(saveDir))
	}
	return appstate.New(opts...).Run()
}

// editorOptions applies the configured brush, text style and sticker
// directory. An explicit dir wins over the config.
func (r *root) editorOptions(dir string) []editor.Option {
	if r == nil {
		r = &root{}
	}
	var opts []editor.Option
	if r.config != nil {
		opts = append(opts, editor.WithBrush(r.config.Brush), editor.WithTextStyle(r.config.Text))
		if dir == "" {
			dir = r.config.StickerDir
		}
	}
	if dir != "" {
		opts = append(opts, editor.WithStickerSource(overlay.DirSource{Root: dir}))
	}
	return append(opts, r.editorOpts...)
}
