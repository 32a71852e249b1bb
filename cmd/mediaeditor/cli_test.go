package main

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/example/mediaeditor/internal/config"
	"github.com/example/mediaeditor/internal/editor"
	"github.com/example/mediaeditor/internal/filter"
	"github.com/example/mediaeditor/internal/theme"
)

func stubCompiler(string) ([]byte, error) {
	return []byte{0x03, 0x02, 0x23, 0x07, 0, 0, 1, 0}, nil
}

// testRoot is a root whose editors use a stub shader compiler and whose
// output is captured.
func testRoot() (*root, *bytes.Buffer, *bytes.Buffer) {
	var out, errs bytes.Buffer
	r := &root{
		program: "mediaeditor",
		config:  config.New(),
		stdout:  &out,
		stderr:  &errs,
		editorOpts: []editor.Option{
			editor.WithFilterEngine(filter.NewEngine(filter.WithCompiler(stubCompiler))),
			editor.WithClock(func() time.Time { return time.Unix(1700000000, 0) }),
		},
	}
	return r, &out, &errs
}

func writeSolidPNG(t *testing.T, path string, w, h int, c color.NRGBA) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
}

func readPNG(t *testing.T, path string) image.Image {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	return img
}

func TestParseRenderClipboardRequiresOutput(t *testing.T) {
	_, err := parseRenderCmd([]string{"-from-clipboard", "-filters", "brightness=10"}, nil)
	if err == nil {
		t.Fatalf("expected error")
	}
	if want := "output file is required when reading from the clipboard"; !strings.Contains(err.Error(), want) {
		t.Fatalf("expected error to mention %q, got %v", want, err)
	}
}

func TestParseRenderRejectsBadScripts(t *testing.T) {
	cases := map[string][]string{
		"filter range": {"-file", "in.png", "-filters", "brightness=300"},
		"filter name":  {"-file", "in.png", "-filters", "glow=1"},
		"stroke":       {"-file", "in.png", "-stroke", "pen:red:4"},
		"text":         {"-file", "in.png", "-text", "10,10:"},
		"sticker":      {"-file", "in.png", "-sticker", "@1,2"},
		"no input":     {"-stroke", "pen:red:4:1,1"},
	}
	for name, args := range cases {
		if _, err := parseRenderCmd(args, nil); err == nil {
			t.Errorf("%s: expected error for %v", name, args)
		}
	}
}

func TestParseSpecs(t *testing.T) {
	st, err := parseStroke("neon::12:1,2;3.5,4")
	if err != nil {
		t.Fatal(err)
	}
	if st.brushType != "neon" || st.color != "" || st.size != "12" || len(st.points) != 2 || st.points[1].X != 3.5 {
		t.Fatalf("stroke = %+v", st)
	}
	tx, err := parseText("5,6:hello: world")
	if err != nil || tx.at.X != 5 || tx.at.Y != 6 || tx.text != "hello: world" {
		t.Fatalf("text = %+v, %v", tx, err)
	}
	sk, err := parseSticker("party/hat@10,20,2,90")
	if err != nil {
		t.Fatal(err)
	}
	if sk.id != "party/hat" || !sk.placed || sk.at.Y != 20 || sk.scale != 2 || sk.rotation != 90 {
		t.Fatalf("sticker = %+v", sk)
	}
	sk, err = parseSticker("star")
	if err != nil || sk.placed || sk.scale != 1 {
		t.Fatalf("bare sticker = %+v, %v", sk, err)
	}
}

func TestRenderWritesPNG(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.png")
	out := filepath.Join(dir, "out", "edit.png")
	writeSolidPNG(t, in, 64, 32, color.NRGBA{0, 0, 255, 255})

	r, _, errs := testRoot()
	cmd, err := parseRenderCmd([]string{
		"-file", in, "-output", out,
		"-stroke", "pen:#FF0000:6:4,16;60,16",
	}, r)
	if err != nil {
		t.Fatal(err)
	}
	if err := cmd.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	img := readPNG(t, out)
	if b := img.Bounds(); b.Dx() != 64 || b.Dy() != 32 {
		t.Fatalf("bounds = %v", b)
	}
	if c := color.NRGBAModel.Convert(img.At(32, 16)).(color.NRGBA); c.R < 200 || c.B > 50 {
		t.Fatalf("stroke pixel = %v", c)
	}
	if !strings.Contains(errs.String(), "saved ") {
		t.Fatalf("stderr = %q", errs.String())
	}
}

func TestRenderReportsMissingSticker(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.png")
	writeSolidPNG(t, in, 64, 32, color.NRGBA{0, 0, 255, 255})

	r, _, errs := testRoot()
	cmd, err := parseRenderCmd([]string{
		"-file", in,
		"-text", "2,2:hi", "-font", "georgia", "-frame", "frame_black",
		"-sticker", "missing@10,10",
	}, r)
	if err != nil {
		t.Fatal(err)
	}
	if err := cmd.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(errs.String(), "warning:") || !strings.Contains(errs.String(), "missing") {
		t.Fatalf("missing sticker not reported: %q", errs.String())
	}
	if b := readPNG(t, in).Bounds(); b.Dx() != 64 {
		t.Fatalf("bounds = %v", b)
	}
}

func TestInteractiveScript(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.png")
	out := filepath.Join(dir, "saved.png")
	writeSolidPNG(t, in, 40, 30, color.NRGBA{0, 0, 255, 255})

	r, stdout, _ := testRoot()
	cmd, err := parseInteractiveCmd([]string{
		"-file", in,
		"-e", "filter brightness 20",
		"-e", "stroke pen:#00FF00:4:5,5;30,5",
		"-e", "undo",
		"-e", "brush type=neon size=7",
		"-e", "status",
		"-e", "save " + out,
		"-e", "exit",
		"-e", "bogus",
	}, r)
	if err != nil {
		t.Fatal(err)
	}
	if err := cmd.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	got := stdout.String()
	for _, want := range []string{"opened 40x30", "undid pen stroke", "brush neon", "brightness=20", "saved "} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
	if _, err := os.Stat(out); err != nil {
		t.Fatalf("save: %v", err)
	}
}

func TestInteractiveLoopReportsErrors(t *testing.T) {
	r, stdout, stderr := testRoot()
	r.stdin = strings.NewReader("undo\nhelp\nquit\nundo\n")
	cmd, err := parseInteractiveCmd(nil, r)
	if err != nil {
		t.Fatal(err)
	}
	if err := cmd.Run(); err != nil {
		t.Fatal(err)
	}
	if strings.Count(stderr.String(), errNoImage.Error()) != 1 {
		t.Fatalf("stderr = %q", stderr.String())
	}
	if !strings.Contains(stdout.String(), "Commands:") {
		t.Fatalf("help not printed: %q", stdout.String())
	}
}

func TestExecuteLineUnknownCommand(t *testing.T) {
	r, _, _ := testRoot()
	cmd, err := parseInteractiveCmd(nil, r)
	if err != nil {
		t.Fatal(err)
	}
	dir := t.TempDir()
	in := filepath.Join(dir, "in.png")
	writeSolidPNG(t, in, 8, 8, color.NRGBA{255, 255, 255, 255})
	if _, err := cmd.executeLine("open " + in); err != nil {
		t.Fatal(err)
	}
	defer cmd.closeEditor()
	if _, err := cmd.executeLine("frobnicate"); err == nil || !strings.Contains(err.Error(), "unknown command") {
		t.Fatalf("err = %v", err)
	}
	if _, err := cmd.executeLine("tab 9"); err == nil {
		t.Fatal("tab 9 accepted")
	}
	if _, err := cmd.executeLine("tab text"); err != nil || cmd.ed.Tab() != editor.TabText {
		t.Fatalf("tab text: %v", err)
	}
}

func TestFileUnknownOperation(t *testing.T) {
	r, _, _ := testRoot()
	cmd, err := parseFileCmd([]string{"-file", "out.png", "capture"}, r)
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if err := cmd.Run(); err == nil || !strings.Contains(err.Error(), "unknown file operation") {
		t.Fatalf("err = %v", err)
	}
}

func TestFileRenderRewritesInPlace(t *testing.T) {
	path := filepath.Join(t.TempDir(), "img.png")
	writeSolidPNG(t, path, 16, 16, color.NRGBA{10, 20, 30, 255})
	r, _, _ := testRoot()
	cmd, err := parseFileCmd([]string{"-file", path, "render", "-stroke", "pen:#FFFFFF:8:0,8;16,8"}, r)
	if err != nil {
		t.Fatal(err)
	}
	if err := cmd.Run(); err != nil {
		t.Fatal(err)
	}
	c := color.NRGBAModel.Convert(readPNG(t, path).At(8, 8)).(color.NRGBA)
	if c.R < 200 {
		t.Fatalf("pixel = %v", c)
	}
}

func TestStrokeClampsToImageEdge(t *testing.T) {
	in := filepath.Join(t.TempDir(), "in.png")
	writeSolidPNG(t, in, 16, 16, color.NRGBA{0, 0, 0, 255})
	r, _, _ := testRoot()
	cmd, err := parseInteractiveCmd(nil, r)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := cmd.executeLine("open " + in); err != nil {
		t.Fatal(err)
	}
	defer cmd.closeEditor()
	st, err := parseStroke("pen:#FFFFFF:2:2,4;40,4")
	if err != nil {
		t.Fatal(err)
	}
	if err := drawStroke(cmd.ed, st); err != nil {
		t.Fatal(err)
	}
	img, err := cmd.ed.Frame()
	if err != nil {
		t.Fatal(err)
	}
	for _, x := range []int{8, 15} {
		if c := img.RGBAAt(x, 4); c.R < 200 {
			t.Errorf("pixel %d,4 = %v", x, c)
		}
	}
	st, _ = parseStroke("pen:#FFFFFF:2:-1,4;8,4")
	if err := drawStroke(cmd.ed, st); err == nil {
		t.Error("stroke starting outside the image accepted")
	}
}

func TestUsageTemplatesRender(t *testing.T) {
	r, _, _ := testRoot()
	r.fs = newRoot().fs
	render, _ := parseRenderCmd([]string{"-file", "x.png"}, r)
	edit, _ := parseEditCmd([]string{"x.png"}, r)
	inter, _ := parseInteractiveCmd(nil, r)
	fonts, _ := parseFontsCmd(nil, r)
	pick, _ := parsePickCmd(nil, r)
	cfg, _ := parseConfigCmd(nil, r)
	for _, h := range []HelpData{r, render, edit, inter, fonts, pick, cfg} {
		msg := (&UsageError{of: h}).Error()
		if !strings.HasPrefix(msg, "Usage: mediaeditor") {
			t.Errorf("%s: %q", h.Template(), msg)
		}
	}
	if msg := (&UsageError{of: render}).Error(); !strings.Contains(msg, "-stroke") {
		t.Errorf("render help lacks flags: %q", msg)
	}
}

func TestRootRequiresCommand(t *testing.T) {
	r := newRoot()
	r.stderr = &bytes.Buffer{}
	var uerr *UsageError
	if err := r.Run(nil); !errors.As(err, &uerr) {
		t.Fatalf("err = %v", err)
	}
}

func TestListCommands(t *testing.T) {
	r, out, _ := testRoot()
	for _, parse := range []func([]string, *root) (*listCmd, error){parseFiltersCmd, parseBrushesCmd, parseFontsCmd, parseColorsCmd} {
		cmd, err := parse(nil, r)
		if err != nil {
			t.Fatal(err)
		}
		if err := cmd.Run(); err != nil {
			t.Fatal(err)
		}
	}
	for _, want := range []string{"brightness", "eraser", "Snell Roundhand", "#FE4438"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("listing missing %q", want)
		}
	}
	if _, err := parseFontsCmd([]string{"extra"}, r); err == nil {
		t.Fatal("extra argument accepted")
	}
}

func TestPickPrintsBase(t *testing.T) {
	r, out, _ := testRoot()
	cmd, err := parsePickCmd([]string{"-base", "red"}, r)
	if err != nil {
		t.Fatal(err)
	}
	if err := cmd.Run(); err != nil {
		t.Fatal(err)
	}
	if got := out.String(); got != "#FF0000\trgb(255, 0, 0)\n" {
		t.Fatalf("pick = %q", got)
	}
	if _, err := parsePickCmd([]string{"1"}, r); err == nil {
		t.Fatal("single coordinate accepted")
	}
}

func TestResolveThemeFallsBack(t *testing.T) {
	r, _, errs := testRoot()
	r.themeName = "no-such-theme"
	if got := r.resolveTheme(); got == nil || *got != *theme.Default() {
		t.Fatalf("theme = %+v", got)
	}
	if !strings.Contains(errs.String(), "no-such-theme") {
		t.Fatalf("stderr = %q", errs.String())
	}
	custom := theme.Default()
	custom.Accent = color.NRGBA{1, 2, 3, 255}
	r.config.Themes["mine"] = custom
	r.themeName = "mine"
	if r.resolveTheme() != custom {
		t.Fatal("config theme ignored")
	}
}

func TestConfigPrint(t *testing.T) {
	r, out, _ := testRoot()
	r.config.Theme = "dark"
	cmd, err := parseConfigCmd([]string{"print"}, r)
	if err != nil {
		t.Fatal(err)
	}
	if err := cmd.Run(); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "theme = dark") {
		t.Fatalf("config print = %q", out.String())
	}
}
