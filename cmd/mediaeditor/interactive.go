package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/example/mediaeditor/internal/clipboard"
	"github.com/example/mediaeditor/internal/editor"
	"github.com/example/mediaeditor/internal/filter"
)

type commandList []string

func (c *commandList) String() string { return strings.Join(*c, "; ") }

func (c *commandList) Set(v string) error {
	*c = append(*c, v)
	return nil
}

// interactiveCmd drives a headless editor from a line oriented command
// language, read from -e flags or standard input.
type interactiveCmd struct {
	file          string
	output        string
	fromClipboard bool
	stickerDir    string
	viewport      string
	execs         commandList
	*root
	fs *flag.FlagSet

	ctx context.Context
	ed  *editor.Editor
}

func (i *interactiveCmd) FlagSet() *flag.FlagSet {
	return i.fs
}

func parseInteractiveCmd(args []string, r *root) (*interactiveCmd, error) {
	fs := flag.NewFlagSet("interactive", flag.ExitOnError)
	i := &interactiveCmd{root: r, fs: fs, ctx: context.Background()}
	fs.Usage = usageFunc(i)
	fs.StringVar(&i.file, "file", "", "image file to open")
	fs.StringVar(&i.output, "output", "", "default path for save")
	fs.BoolVar(&i.fromClipboard, "from-clipboard", false, "open the image on the clipboard")
	fs.StringVar(&i.stickerDir, "sticker-dir", "", "directory of sticker collections")
	fs.StringVar(&i.viewport, "viewport", "", "fit images into WIDTHxHEIGHT")
	fs.Var(&i.execs, "e", "execute a command and exit (may be specified multiple times)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if i.root == nil {
		i.root = &root{program: "mediaeditor"}
	}
	if i.output == "" {
		i.output = i.file
	}
	return i, nil
}

func (i *interactiveCmd) Run() error {
	defer i.closeEditor()
	if i.file != "" || i.fromClipboard {
		if err := i.open(i.file, i.fromClipboard); err != nil {
			return err
		}
	}
	if len(i.execs) > 0 {
		for _, line := range i.execs {
			done, err := i.executeLine(line)
			if err != nil {
				return err
			}
			if done {
				break
			}
		}
		return nil
	}
	in := i.root.stdin
	if in == nil {
		in = strings.NewReader("")
	}
	return i.loop(in)
}

func (i *interactiveCmd) loop(in io.Reader) error {
	out := i.out()
	fmt.Fprintln(out, "Enter commands (type 'help' for a list, 'exit' to quit)")
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			break
		}
		done, err := i.executeLine(scanner.Text())
		if err != nil {
			fmt.Fprintln(i.errOut(), err)
		}
		if done {
			break
		}
	}
	return scanner.Err()
}

var errNoImage = errors.New("no image open; use 'open FILE' or 'paste'")

func (i *interactiveCmd) current() (*editor.Editor, error) {
	if i.ed == nil || i.ed.Closed() {
		return nil, errNoImage
	}
	return i.ed, nil
}

func (i *interactiveCmd) open(path string, fromClipboard bool) error {
	src, err := loadImage(path, fromClipboard)
	if err != nil {
		return err
	}
	return i.openImage(src)
}

func (i *interactiveCmd) openImage(src image.Image) error {
	b := src.Bounds()
	vp, err := resolveViewport(i.viewport, nil, b.Dx(), b.Dy())
	if err != nil {
		return err
	}
	opts := append([]editor.Option{editor.WithViewport(vp.Width, vp.Height)}, i.root.editorOptions(i.stickerDir)...)
	ed, err := editor.Open(src, opts...)
	if err != nil {
		return fmt.Errorf("open editor: %w", err)
	}
	i.closeEditor()
	i.ed = ed
	fmt.Fprintf(i.out(), "opened %dx%d\n", ed.Bounds().Dx(), ed.Bounds().Dy())
	return nil
}

func (i *interactiveCmd) closeEditor() {
	if i.ed != nil {
		if err := i.ed.Close(); err != nil {
			fmt.Fprintln(i.errOut(), err)
		}
	}
}

// executeLine runs one command. done reports that the session should end.
func (i *interactiveCmd) executeLine(line string) (done bool, err error) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return false, nil
	}
	name, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)
	args := strings.Fields(rest)
	switch strings.ToLower(name) {
	case "exit", "quit":
		return true, nil
	case "help":
		fmt.Fprint(i.out(), interactiveHelp)
		return false, nil
	case "open":
		if rest == "" {
			return false, fmt.Errorf("open requires a file")
		}
		return false, i.open(rest, false)
	case "paste":
		return false, i.open("", true)
	}

	ed, err := i.current()
	if err != nil {
		return false, err
	}
	switch strings.ToLower(name) {
	case "tab":
		return false, i.selectTab(ed, rest)
	case "filter":
		return false, i.filter(ed, args)
	case "brush":
		return false, i.brush(ed, args)
	case "style":
		return false, i.style(ed, args)
	case "stroke":
		st, err := parseStroke(rest)
		if err != nil {
			return false, err
		}
		return false, drawStroke(ed, st)
	case "down", "move", "up":
		return false, i.pointer(ed, strings.ToLower(name), args)
	case "text":
		st, err := parseText(rest)
		if err != nil {
			return false, err
		}
		id, err := addText(ed, st)
		if err == nil {
			fmt.Fprintf(i.out(), "text %d\n", id)
		}
		return false, err
	case "type":
		if !ed.SetDraft(rest) {
			return false, fmt.Errorf("no text field is being edited")
		}
		return false, nil
	case "commit":
		ed.Commit()
		return false, nil
	case "sticker":
		st, err := parseSticker(rest)
		if err != nil {
			return false, err
		}
		id, err := addSticker(i.ctx, ed, st)
		if id != 0 {
			fmt.Fprintf(i.out(), "sticker %d\n", id)
		}
		return false, err
	case "stickers":
		return false, i.listStickers(ed)
	case "delete":
		if !ed.DeleteFocused() {
			return false, fmt.Errorf("nothing is focused")
		}
		return false, nil
	case "undo":
		label, err := ed.Undo()
		if err == nil {
			fmt.Fprintf(i.out(), "undid %s\n", label)
		}
		return false, err
	case "redo":
		label, err := ed.Redo()
		if err == nil {
			fmt.Fprintf(i.out(), "redid %s\n", label)
		}
		return false, err
	case "status":
		i.status(ed)
		return false, nil
	case "export":
		if rest == "" {
			return false, fmt.Errorf("export requires a file")
		}
		data, err := ed.Export()
		if err != nil {
			return false, err
		}
		return false, i.write(rest, data)
	case "copy":
		data, err := ed.Export()
		if err != nil {
			return false, err
		}
		if err := clipboard.CopyPNG(data); err != nil {
			return false, fmt.Errorf("copy PNG to clipboard: %w", err)
		}
		fmt.Fprintln(i.out(), "copied image to clipboard")
		i.notifyCopy("image")
		return false, nil
	case "save":
		return false, i.save(ed, rest)
	case "close":
		i.closeEditor()
		fmt.Fprintln(i.out(), "closed")
		return false, nil
	}
	return false, fmt.Errorf("unknown command %q (try 'help')", name)
}

func (i *interactiveCmd) selectTab(ed *editor.Editor, name string) error {
	name = strings.ToLower(strings.TrimSpace(name))
	for n, t := range editor.Tabs() {
		if t.String() == name || strconv.Itoa(n+1) == name {
			return ed.SelectTab(t)
		}
	}
	return fmt.Errorf("unknown tab %q", name)
}

// filter accepts "reset", "NAME VALUE" or a list of assignments.
func (i *interactiveCmd) filter(ed *editor.Editor, args []string) error {
	switch {
	case len(args) == 1 && args[0] == "reset":
		return ed.SetFilters(filter.Settings{})
	case len(args) == 2 && !strings.Contains(args[0], "="):
		v, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("filter %s: %w", args[0], err)
		}
		return ed.SetFilter(args[0], v)
	case len(args) > 0:
		s := ed.Settings()
		parsed, err := filter.ParseAssignments(strings.Join(args, ","))
		if err != nil {
			return err
		}
		for _, kv := range strings.Split(strings.Join(args, ","), ",") {
			name, _, _ := strings.Cut(kv, "=")
			v, _ := parsed.Get(name)
			s, _ = s.With(name, v)
		}
		return ed.SetFilters(s)
	}
	return fmt.Errorf("filter requires NAME VALUE, assignments or reset")
}

// keyValues splits "k=v" arguments.
func keyValues(args []string) (map[string]string, error) {
	kv := make(map[string]string, len(args))
	for _, a := range args {
		k, v, ok := strings.Cut(a, "=")
		if !ok {
			return nil, fmt.Errorf("%q: want key=value", a)
		}
		kv[strings.ToLower(k)] = v
	}
	return kv, nil
}

func (i *interactiveCmd) brush(ed *editor.Editor, args []string) error {
	kv, err := keyValues(args)
	if err != nil {
		return err
	}
	st := strokeSpec{brushType: kv["type"], color: kv["color"], size: kv["size"]}
	return applyBrush(ed, st)
}

func (i *interactiveCmd) style(ed *editor.Editor, args []string) error {
	kv, err := keyValues(args)
	if err != nil {
		return err
	}
	c := &renderCmd{font: kv["font"], textColor: kv["color"], frame: kv["frame"], align: kv["align"]}
	if s, ok := kv["size"]; ok {
		if c.textSize, err = strconv.Atoi(s); err != nil {
			return fmt.Errorf("text size %q: %w", s, err)
		}
	}
	style, err := c.textStyle(ed.TextStyle())
	if err != nil {
		return err
	}
	return ed.SetTextStyle(style)
}

func (i *interactiveCmd) pointer(ed *editor.Editor, kind string, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("%s requires x y", kind)
	}
	x, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return fmt.Errorf("invalid x %q", args[0])
	}
	y, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return fmt.Errorf("invalid y %q", args[1])
	}
	var mods editor.Modifiers
	for _, m := range args[2:] {
		switch strings.ToLower(m) {
		case "shift":
			mods |= editor.ModShift
		case "alt":
			mods |= editor.ModAlt
		case "ctrl", "control":
			mods |= editor.ModControl
		default:
			return fmt.Errorf("unknown modifier %q", m)
		}
	}
	var ok bool
	switch kind {
	case "down":
		ok = ed.PointerDown(x, y, mods)
	case "move":
		ok = ed.PointerMove(x, y, mods)
	default:
		ok = ed.PointerUp(x, y, mods)
	}
	if !ok {
		fmt.Fprintf(i.out(), "%s ignored\n", kind)
	}
	return nil
}

func (i *interactiveCmd) listStickers(ed *editor.Editor) error {
	cols, err := ed.Stickers(i.ctx)
	if err != nil {
		return err
	}
	sort.Slice(cols, func(a, b int) bool { return cols[a].Name < cols[b].Name })
	for _, c := range cols {
		fmt.Fprintf(i.out(), "%s: %s\n", c.Name, strings.Join(c.IDs, " "))
	}
	return nil
}

func (i *interactiveCmd) status(ed *editor.Editor) {
	out := i.out()
	b := ed.Bounds()
	fmt.Fprintf(out, "size %dx%d tab %s\n", b.Dx(), b.Dy(), ed.Tab())
	fmt.Fprintf(out, "filters %s\n", ed.Settings())
	br := ed.Brush()
	fmt.Fprintf(out, "brush %s %s %d\n", br.Type, br.Color, br.Size)
	s := ed.TextStyle()
	fmt.Fprintf(out, "text %s %d %s frame %s align %s\n", s.Font, s.Size, s.Color, s.Frame, s.Align)
	fmt.Fprintf(out, "elements %d focused %d\n", ed.Overlay().Len(), ed.Overlay().Focused())
	h := ed.History()
	fmt.Fprintf(out, "undo %t redo %t degraded %t\n", h.CanUndo(), h.CanRedo(), ed.Degraded())
}

// save stores the edit at path, or at -output. After the first save the
// edit is re-exported.
func (i *interactiveCmd) save(ed *editor.Editor, path string) error {
	if path == "" {
		path = i.output
	}
	if path == "" {
		return fmt.Errorf("save requires a file when no -output is set")
	}
	data, err := ed.Save()
	if errors.Is(err, editor.ErrSaved) {
		data, err = ed.Export()
	}
	if err != nil {
		return err
	}
	return i.write(path, data)
}

func (i *interactiveCmd) write(path string, data []byte) error {
	saved, err := writeFile(path, data)
	if err != nil {
		return err
	}
	fmt.Fprintf(i.out(), "saved %s\n", saved)
	i.notifySave(saved)
	return nil
}

const interactiveHelp = `Commands:
  open FILE | paste                  open an image file or the clipboard image
  tab NAME|N                         select filters, crop, text, paint or stickers
  filter NAME VALUE | a=1,b=2 | reset
  brush type=T color=C size=N        change the paint brush
  style font=F size=N color=C frame=F align=A
  stroke type:color:size:x,y;x,y     paint a stroke
  down|move|up X Y [shift|alt|ctrl]  raw pointer input
  text X,Y:content                   add a committed text field
  type TEXT | commit                 edit the focused text field
  sticker id@x,y[,scale[,rotation]]  place a sticker
  stickers                           list sticker collections
  delete                             remove the focused element
  undo | redo
  status
  export FILE | save [FILE] | copy
  close | exit
`
