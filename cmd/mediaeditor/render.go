package main

import (
	"context"
	"flag"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/example/mediaeditor/internal/clipboard"
	"github.com/example/mediaeditor/internal/editor"
	"github.com/example/mediaeditor/internal/filter"
	"github.com/example/mediaeditor/internal/overlay"
)

// stringList collects a repeatable flag.
type stringList []string

func (s *stringList) String() string { return strings.Join(*s, " ") }

func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

// renderCmd applies a scripted edit without opening a window.
type renderCmd struct {
	file          string
	output        string
	fromClipboard bool
	toClipboard   bool
	viewport      string
	filters       string
	stickerDir    string
	font          string
	textSize      int
	textColor     string
	frame         string
	align         string
	strokes       stringList
	texts         stringList
	stickers      stringList

	settings     filter.Settings
	strokeSpecs  []strokeSpec
	textSpecs    []textSpec
	stickerSpecs []stickerSpec
	*root
	fs *flag.FlagSet
}

func (c *renderCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func parseRenderCmd(args []string, r *root) (*renderCmd, error) {
	fs := flag.NewFlagSet("render", flag.ExitOnError)
	c := &renderCmd{root: r, fs: fs}
	fs.Usage = usageFunc(c)
	fs.StringVar(&c.file, "file", "", "input image file")
	fs.StringVar(&c.output, "output", "", "output PNG path (defaults to the input file)")
	fs.BoolVar(&c.fromClipboard, "from-clipboard", false, "read the input image from the clipboard")
	fs.BoolVar(&c.fromClipboard, "from-clip", false, "read the input image from the clipboard (alias)")
	fs.BoolVar(&c.toClipboard, "to-clipboard", false, "copy the result to the clipboard")
	fs.BoolVar(&c.toClipboard, "to-clip", false, "copy the result to the clipboard (alias)")
	fs.StringVar(&c.viewport, "viewport", "", "fit the image into WIDTHxHEIGHT before editing")
	fs.StringVar(&c.filters, "filters", "", "filter assignments such as brightness=20,warmth=-10")
	fs.StringVar(&c.stickerDir, "sticker-dir", "", "directory of sticker collections")
	fs.StringVar(&c.font, "font", "", "text font family")
	fs.IntVar(&c.textSize, "text-size", 0, "text size in points")
	fs.StringVar(&c.textColor, "text-color", "", "text colour name or hex value")
	fs.StringVar(&c.frame, "frame", "", "text frame: none, black or white")
	fs.StringVar(&c.align, "align", "", "text alignment: left, centre or right")
	fs.Var(&c.strokes, "stroke", "paint stroke type:color:size:x,y;x,y (repeatable)")
	fs.Var(&c.texts, "text", "text field x,y:content (repeatable)")
	fs.Var(&c.stickers, "sticker", "sticker id@x,y[,scale[,rotation]] (repeatable)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if c.fromClipboard {
		if c.output == "" {
			if c.file == "" {
				return nil, fmt.Errorf("output file is required when reading from the clipboard")
			}
			c.output = c.file
		}
	} else {
		if c.file == "" {
			return nil, fmt.Errorf("input file is required")
		}
		if c.output == "" {
			c.output = c.file
		}
	}
	var err error
	if c.settings, err = filter.ParseAssignments(c.filters); err != nil {
		return nil, err
	}
	for _, s := range c.strokes {
		st, err := parseStroke(s)
		if err != nil {
			return nil, err
		}
		c.strokeSpecs = append(c.strokeSpecs, st)
	}
	for _, s := range c.texts {
		st, err := parseText(s)
		if err != nil {
			return nil, err
		}
		c.textSpecs = append(c.textSpecs, st)
	}
	for _, s := range c.stickers {
		st, err := parseSticker(s)
		if err != nil {
			return nil, err
		}
		c.stickerSpecs = append(c.stickerSpecs, st)
	}
	return c, nil
}

// textStyle folds the text flags over base.
func (c *renderCmd) textStyle(base overlay.Style) (overlay.Style, error) {
	s := base
	if c.font != "" {
		f, ok := overlay.LookupFont(c.font)
		if !ok {
			return s, fmt.Errorf("unknown font %q", c.font)
		}
		s.Font = f
	}
	if c.textSize > 0 {
		s.Size = c.textSize
	}
	if c.textColor != "" {
		s.Color = c.textColor
	}
	if c.frame != "" {
		f, err := overlay.ParseFrame(c.frame)
		if err != nil {
			return s, err
		}
		s.Frame = f
	}
	if c.align != "" {
		a, err := overlay.ParseAlign(c.align)
		if err != nil {
			return s, err
		}
		s.Align = a
	}
	return s, nil
}

func (c *renderCmd) Run() error {
	src, err := loadImage(c.file, c.fromClipboard)
	if err != nil {
		return err
	}
	b := src.Bounds()
	vp, err := resolveViewport(c.viewport, nil, b.Dx(), b.Dy())
	if err != nil {
		return err
	}
	opts := append([]editor.Option{editor.WithViewport(vp.Width, vp.Height)}, c.root.editorOptions(c.stickerDir)...)
	ed, err := editor.Open(src, opts...)
	if err != nil {
		return fmt.Errorf("open editor: %w", err)
	}
	defer ed.Close()

	if err := ed.SetFilters(c.settings); err != nil {
		return fmt.Errorf("apply filters: %w", err)
	}
	for _, st := range c.strokeSpecs {
		if err := drawStroke(ed, st); err != nil {
			return err
		}
	}
	if len(c.textSpecs) > 0 {
		style, err := c.textStyle(ed.TextStyle())
		if err != nil {
			return err
		}
		if err := ed.SetTextStyle(style); err != nil {
			return err
		}
		for _, st := range c.textSpecs {
			if _, err := addText(ed, st); err != nil {
				return err
			}
		}
	}
	ctx := context.Background()
	for _, st := range c.stickerSpecs {
		if _, err := addSticker(ctx, ed, st); err != nil {
			fmt.Fprintf(c.root.errOut(), "warning: %v\n", err)
		}
	}

	data, err := ed.Save()
	if err != nil {
		return err
	}
	saved, err := writeFile(c.output, data)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.root.errOut(), "saved %s\n", saved)
	c.root.notifySave(saved)
	if c.toClipboard {
		if err := clipboard.CopyPNG(data); err != nil {
			return fmt.Errorf("copy PNG to clipboard: %w", err)
		}
		detail := filepath.Base(c.output)
		fmt.Fprintf(c.root.errOut(), "copied %s to clipboard\n", detail)
		c.root.notifyCopy(detail)
	}
	return nil
}
