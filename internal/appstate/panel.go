package appstate

import (
	"context"
	"image"
	"image/color"
	"log"
	"path"
	"strings"

	"github.com/example/mediaeditor/internal/colorpick"
	"github.com/example/mediaeditor/internal/editor"
	"github.com/example/mediaeditor/internal/filter"
	"github.com/example/mediaeditor/internal/overlay"
	"github.com/example/mediaeditor/internal/paint"
)

// maxStickerButtons is how many stickers fit on the two tool rows.
const maxStickerButtons = 16

var swatchColors = func() []color.NRGBA {
	out := make([]color.NRGBA, 0, len(colorpick.Swatches))
	for _, s := range colorpick.Swatches {
		c, err := colorpick.ParseColor(s)
		if err != nil {
			continue
		}
		out = append(out, c)
	}
	return out
}()

// buildPanel lays out the widgets of the selected tab. The last row always
// carries undo, redo, close and save.
func (s *session) buildPanel() []Widget {
	ed := s.ed
	var ws []Widget
	switch ed.Tab() {
	case editor.TabFilters:
		ws = s.filterWidgets()
	case editor.TabText:
		ws = s.textWidgets()
	case editor.TabPaint:
		ws = s.paintWidgets()
	case editor.TabStickers:
		ws = s.stickerWidgets()
	}

	cols := splitRow(s.layout.Row(panelRows-1), 6, pad)
	if ed.History().CanUndo() {
		ws = append(ws, &Button{Label: ed.Label(editor.LabelUndo), rect: cols[0], onPress: s.undo})
	}
	if ed.History().CanRedo() {
		ws = append(ws, &Button{Label: ed.Label(editor.LabelRedo), rect: cols[1], onPress: s.redo})
	}
	return append(ws,
		&Button{Label: ed.Label(editor.LabelClose), rect: cols[4], onPress: s.close},
		&Button{Label: ed.Label(editor.LabelSave), rect: cols[5], onPress: s.save},
	)
}

func (s *session) filterWidgets() []Widget {
	ed := s.ed
	chans := filter.Channels()
	if s.channel >= len(chans) {
		s.channel = 0
	}
	var ws []Widget
	for i, r := range splitRow(s.layout.Row(0), len(chans), pad) {
		ws = append(ws, &Button{
			Label:    ed.Label(chans[i].Name),
			Selected: i == s.channel,
			rect:     r,
			onPress:  func() { s.channel = i },
		})
	}
	ch := chans[s.channel]
	value, _ := ed.Settings().Get(ch.Name)
	left, right := splitAt(s.layout.Row(1), 0.8)
	ws = append(ws,
		&Slider{
			Label: ed.Label(ch.Name), Min: ch.Min, Max: ch.Max, Value: value, rect: left,
			onChange: func(v float64) {
				if err := ed.SetFilter(ch.Name, v); err != nil {
					log.Printf("filter: %v", err)
				}
			},
		},
		&Button{Label: "Reset", rect: right, onPress: func() {
			if err := ed.SetFilters(filter.Settings{}); err != nil {
				log.Printf("filter: %v", err)
			}
		}},
	)
	return ws
}

func (s *session) textWidgets() []Widget {
	ed := s.ed
	style := ed.TextStyle()
	set := func(fn func(*overlay.Style)) func() {
		return func() {
			st := ed.TextStyle()
			fn(&st)
			if err := ed.SetTextStyle(st); err != nil {
				log.Printf("text style: %v", err)
			}
		}
	}
	var ws []Widget
	cols := splitRow(s.layout.Row(0), len(overlay.Fonts)+2, pad)
	for i, f := range overlay.Fonts {
		ws = append(ws, &Button{Label: f, Selected: f == style.Font, rect: cols[i], onPress: set(func(st *overlay.Style) { st.Font = f })})
	}
	ws = append(ws,
		&Button{Label: style.Align.String(), rect: cols[len(cols)-2], onPress: set(func(st *overlay.Style) {
			st.Align = (st.Align + 1) % (overlay.AlignRight + 1)
		})},
		&Button{Label: "frame " + style.Frame.String(), rect: cols[len(cols)-1], onPress: set(func(st *overlay.Style) {
			st.Frame = (st.Frame + 1) % (overlay.FrameWhite + 1)
		})},
	)
	left, right := splitAt(s.layout.Row(1), 0.5)
	ws = append(ws, s.swatches(left, style.Color, func(hex string) func() {
		return set(func(st *overlay.Style) { st.Color = hex })
	})...)
	ws = append(ws, &Slider{
		Label: ed.Label(editor.LabelSize), Min: 0, Max: overlay.MaxTextSize, Value: float64(style.Size), rect: right,
		onChange: func(v float64) { set(func(st *overlay.Style) { st.Size = int(v) })() },
	})
	return ws
}

func (s *session) paintWidgets() []Widget {
	ed := s.ed
	brush := ed.Brush()
	set := func(fn func(*paint.Brush)) func() {
		return func() {
			b := ed.Brush()
			fn(&b)
			if err := ed.SetBrush(b); err != nil {
				log.Printf("brush: %v", err)
			}
		}
	}
	var ws []Widget
	types := paint.BrushTypes()
	for i, r := range splitRow(s.layout.Row(0), len(types), pad) {
		t := types[i]
		ws = append(ws, &Button{Label: ed.Label(t.String()), Selected: t == brush.Type, rect: r, onPress: set(func(b *paint.Brush) { b.Type = t })})
	}
	left, right := splitAt(s.layout.Row(1), 0.5)
	ws = append(ws, s.swatches(left, brush.Color, func(hex string) func() {
		return set(func(b *paint.Brush) { b.Color = hex })
	})...)
	ws = append(ws, &Slider{
		Label: ed.Label(editor.LabelSize), Min: 0, Max: paint.MaxSize, Value: float64(brush.Size), rect: right,
		onChange: func(v float64) { set(func(b *paint.Brush) { b.Size = int(v) })() },
	})
	return ws
}

func (s *session) stickerWidgets() []Widget {
	ids := s.stickers
	if len(ids) > maxStickerButtons {
		ids = ids[:maxStickerButtons]
	}
	per := maxStickerButtons / 2
	var ws []Widget
	for row := 0; row < 2; row++ {
		cols := splitRow(s.layout.Row(row), per, pad)
		for c := 0; c < per; c++ {
			i := row*per + c
			if i >= len(ids) {
				return ws
			}
			id := ids[i]
			ws = append(ws, &Button{Label: stickerLabel(id), rect: cols[c], onPress: func() { s.addSticker(id) }})
		}
	}
	return ws
}

// swatches lays out one button per swatch colour in r.
func (s *session) swatches(r image.Rectangle, current string, choose func(hex string) func()) []Widget {
	var ws []Widget
	cur, _ := colorpick.Normalize(current)
	for i, cell := range splitRow(r, len(swatchColors), pad) {
		c := swatchColors[i]
		hex := colorpick.FormatHex(c)
		ws = append(ws, &Button{Swatch: &c, Selected: hex == cur, rect: cell, onPress: choose(hex)})
	}
	return ws
}

// loadStickers lists every sticker id and warms the cache in the
// background. The sticker loader is safe for concurrent use.
func (s *session) loadStickers(ctx context.Context) {
	cols, err := s.ed.Stickers(ctx)
	if err != nil {
		log.Printf("stickers: %v", err)
		return
	}
	s.stickers = s.stickers[:0]
	for _, c := range cols {
		s.stickers = append(s.stickers, c.IDs...)
	}
	ids := s.stickers
	if len(ids) > maxStickerButtons {
		ids = ids[:maxStickerButtons]
	}
	go s.ed.PrefetchStickers(ctx, append([]string(nil), ids...))
}

func stickerLabel(id string) string {
	base := path.Base(id)
	return strings.TrimSuffix(base, path.Ext(base))
}
