package main

import (
	"bytes"
	"flag"
	"fmt"
	"image/png"
	"strconv"

	"github.com/example/mediaeditor/internal/colorpick"
)

// pickCmd samples the colour picker field, or the hue ramp.
type pickCmd struct {
	base   string
	ramp   float64
	render string
	x, y   int
	useXY  bool
	*root
	fs *flag.FlagSet
}

func (p *pickCmd) FlagSet() *flag.FlagSet {
	return p.fs
}

func parsePickCmd(args []string, r *root) (*pickCmd, error) {
	fs := flag.NewFlagSet("pick", flag.ExitOnError)
	p := &pickCmd{root: r, fs: fs}
	fs.Usage = usageFunc(p)
	fs.StringVar(&p.base, "base", colorpick.Swatches[1], "base colour of the picker field")
	fs.Float64Var(&p.ramp, "ramp", -1, "hue ramp position 0..100; sets the base colour")
	fs.StringVar(&p.render, "render", "", "write the picker field to this PNG file")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	switch fs.NArg() {
	case 0:
	case 2:
		var err error
		if p.x, err = strconv.Atoi(fs.Arg(0)); err != nil {
			return nil, fmt.Errorf("invalid x %q", fs.Arg(0))
		}
		if p.y, err = strconv.Atoi(fs.Arg(1)); err != nil {
			return nil, fmt.Errorf("invalid y %q", fs.Arg(1))
		}
		p.useXY = true
	default:
		return nil, &UsageError{of: p}
	}
	if _, err := colorpick.ParseColor(p.base); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *pickCmd) Run() error {
	out := p.out()
	base := p.base
	if p.ramp >= 0 {
		base = colorpick.HueRamp(p.ramp)
	}
	picker := colorpick.NewPicker(base)
	sel := colorpick.Selection{Hex: picker.Base, RGB: colorpick.RGBString(picker.Base)}
	if p.useXY {
		sel = picker.Pick(p.x, p.y)
	}
	fmt.Fprintf(out, "%s\trgb(%s)\n", sel.Hex, sel.RGB)
	if p.render == "" {
		return nil
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, picker.Render()); err != nil {
		return fmt.Errorf("encode picker: %w", err)
	}
	saved, err := writeFile(p.render, buf.Bytes())
	if err != nil {
		return err
	}
	fmt.Fprintf(p.errOut(), "saved %s\n", saved)
	return nil
}
