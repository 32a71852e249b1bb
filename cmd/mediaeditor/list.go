package main

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/example/mediaeditor/internal/colorpick"
	"github.com/example/mediaeditor/internal/filter"
	"github.com/example/mediaeditor/internal/overlay"
	"github.com/example/mediaeditor/internal/paint"
)

// listCmd prints one of the fixed tool catalogues.
type listCmd struct {
	name string
	emit func(w io.Writer)
	*root
	fs *flag.FlagSet
}

func (c *listCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func parseListCmd(name string, emit func(io.Writer), args []string, r *root) (*listCmd, error) {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	cmd := &listCmd{name: name, emit: emit, root: r, fs: fs}
	fs.Usage = usageFunc(cmd)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 0 {
		return nil, &UsageError{of: cmd}
	}
	return cmd, nil
}

func (c *listCmd) Run() error {
	c.emit(c.out())
	return nil
}

func parseFiltersCmd(args []string, r *root) (*listCmd, error) {
	return parseListCmd("filters", printFilters, args, r)
}

func parseBrushesCmd(args []string, r *root) (*listCmd, error) {
	return parseListCmd("brushes", printBrushes, args, r)
}

func parseFontsCmd(args []string, r *root) (*listCmd, error) {
	return parseListCmd("fonts", printFonts, args, r)
}

func parseColorsCmd(args []string, r *root) (*listCmd, error) {
	return parseListCmd("colors", printColors, args, r)
}

func printFilters(w io.Writer) {
	fmt.Fprintln(w, "filter channels (name=value, applied in this order):")
	for _, c := range filter.Channels() {
		fmt.Fprintf(w, "  %-11s %4g..%g\n", c.Name, c.Min, c.Max)
	}
}

func printBrushes(w io.Writer) {
	fmt.Fprintln(w, "brushes:")
	for _, b := range paint.BrushTypes() {
		fmt.Fprintf(w, "  %s\n", b)
	}
	fmt.Fprintf(w, "sizes: 0..%d (default %d)\n", paint.MaxSize, paint.DefaultSize)
}

func printFonts(w io.Writer) {
	fmt.Fprintln(w, "fonts:")
	for _, f := range overlay.Fonts {
		fmt.Fprintf(w, "  %s\n", f)
	}
	fmt.Fprintf(w, "sizes: 0..%d (default %d)\n", overlay.MaxTextSize, overlay.DefaultTextSize)
}

func printColors(w io.Writer) {
	fmt.Fprintln(w, "swatches:")
	for _, hex := range colorpick.Swatches {
		fmt.Fprintf(w, "  %s  rgb(%s)\n", hex, colorpick.RGBString(hex))
	}
	fmt.Fprintf(w, "ramp stops: %s\n", strings.Join(colorpick.RampStops, " "))
	fmt.Fprintln(w, "any CSS colour name or #RGB, #RRGGBB, #RRGGBBAA value is also accepted")
}
