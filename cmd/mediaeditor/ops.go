package main

import (
	"context"
	"fmt"
	"image"
	"log"
	"math"
	"strconv"
	"strings"

	"github.com/example/mediaeditor/internal/editor"
	"github.com/example/mediaeditor/internal/overlay"
	"github.com/example/mediaeditor/internal/paint"
)

// strokeSpec is a scripted paint stroke: "type:color:size:x,y;x,y;...".
// Empty type, colour or size fields keep the current brush.
type strokeSpec struct {
	brushType string
	color     string
	size      string
	points    []overlay.Point
}

// textSpec is "x,y:text".
type textSpec struct {
	at   overlay.Point
	text string
}

// stickerSpec is "id@x,y[,scale[,rotation]]". Rotation is in degrees.
type stickerSpec struct {
	id       string
	at       overlay.Point
	scale    float64
	rotation float64
	placed   bool
}

func parsePoint(s string) (overlay.Point, error) {
	xs, ys, ok := strings.Cut(strings.TrimSpace(s), ",")
	if !ok {
		return overlay.Point{}, fmt.Errorf("point %q: want x,y", s)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(xs), 64)
	if err != nil {
		return overlay.Point{}, fmt.Errorf("point %q: %w", s, err)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(ys), 64)
	if err != nil {
		return overlay.Point{}, fmt.Errorf("point %q: %w", s, err)
	}
	return overlay.Point{X: x, Y: y}, nil
}

func parseStroke(s string) (strokeSpec, error) {
	parts := strings.SplitN(s, ":", 4)
	if len(parts) != 4 {
		return strokeSpec{}, fmt.Errorf("stroke %q: want type:color:size:x,y;x,y", s)
	}
	st := strokeSpec{brushType: parts[0], color: parts[1], size: parts[2]}
	for _, raw := range strings.Split(parts[3], ";") {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		p, err := parsePoint(raw)
		if err != nil {
			return strokeSpec{}, fmt.Errorf("stroke: %w", err)
		}
		st.points = append(st.points, p)
	}
	if len(st.points) == 0 {
		return strokeSpec{}, fmt.Errorf("stroke %q has no points", s)
	}
	return st, nil
}

func parseText(s string) (textSpec, error) {
	at, text, ok := strings.Cut(s, ":")
	if !ok {
		return textSpec{}, fmt.Errorf("text %q: want x,y:text", s)
	}
	p, err := parsePoint(at)
	if err != nil {
		return textSpec{}, fmt.Errorf("text: %w", err)
	}
	if strings.TrimSpace(text) == "" {
		return textSpec{}, fmt.Errorf("text content cannot be empty")
	}
	return textSpec{at: p, text: text}, nil
}

func parseSticker(s string) (stickerSpec, error) {
	id, at, ok := strings.Cut(s, "@")
	id = strings.TrimSpace(id)
	if id == "" {
		return stickerSpec{}, fmt.Errorf("sticker %q: missing id", s)
	}
	st := stickerSpec{id: id, scale: 1}
	if !ok {
		return st, nil
	}
	fields := strings.Split(at, ",")
	if len(fields) < 2 || len(fields) > 4 {
		return stickerSpec{}, fmt.Errorf("sticker %q: want id@x,y[,scale[,rotation]]", s)
	}
	p, err := parsePoint(fields[0] + "," + fields[1])
	if err != nil {
		return stickerSpec{}, fmt.Errorf("sticker: %w", err)
	}
	st.at, st.placed = p, true
	if len(fields) > 2 {
		if st.scale, err = strconv.ParseFloat(strings.TrimSpace(fields[2]), 64); err != nil || st.scale <= 0 {
			return stickerSpec{}, fmt.Errorf("sticker %q: invalid scale", s)
		}
	}
	if len(fields) > 3 {
		if st.rotation, err = strconv.ParseFloat(strings.TrimSpace(fields[3]), 64); err != nil {
			return stickerSpec{}, fmt.Errorf("sticker %q: invalid rotation", s)
		}
	}
	return st, nil
}

// applyBrush merges the non-empty fields of st into the current brush.
func applyBrush(ed *editor.Editor, st strokeSpec) error {
	b := ed.Brush()
	if st.brushType != "" {
		t, err := paint.ParseBrushType(st.brushType)
		if err != nil {
			return err
		}
		b.Type = t
	}
	if st.color != "" {
		b.Color = st.color
	}
	if st.size != "" {
		n, err := strconv.Atoi(strings.TrimSpace(st.size))
		if err != nil {
			return fmt.Errorf("brush size %q: %w", st.size, err)
		}
		b.Size = n
	}
	return ed.SetBrush(b)
}

// drawStroke paints st on the paint tab and returns to the previous tab.
func drawStroke(ed *editor.Editor, st strokeSpec) error {
	if err := applyBrush(ed, st); err != nil {
		return err
	}
	prev := ed.Tab()
	if err := ed.SelectTab(editor.TabPaint); err != nil {
		return err
	}
	defer func() {
		if err := ed.SelectTab(prev); err != nil {
			log.Printf("restore tab %s: %v", prev, err)
		}
	}()
	first := st.points[0]
	if !ed.PointerDown(first.X, first.Y, 0) {
		return fmt.Errorf("stroke starts outside the image at %v,%v", first.X, first.Y)
	}
	b := ed.Bounds()
	last := first
	for _, p := range st.points[1:] {
		last = clampPoint(p, b)
		ed.PointerMove(last.X, last.Y, 0)
	}
	ed.PointerUp(last.X, last.Y, 0)
	return nil
}

// clampPoint keeps p on the last pixel row and column of b so a script
// that runs off the edge still paints up to it.
func clampPoint(p overlay.Point, b image.Rectangle) overlay.Point {
	p.X = math.Max(float64(b.Min.X), math.Min(p.X, float64(b.Max.X-1)))
	p.Y = math.Max(float64(b.Min.Y), math.Min(p.Y, float64(b.Max.Y-1)))
	return p
}

// addText places a committed text field.
func addText(ed *editor.Editor, st textSpec) (int64, error) {
	id, err := ed.AddText(st.at.X, st.at.Y)
	if err != nil {
		return 0, err
	}
	if !ed.SetDraft(st.text) {
		ed.Overlay().SetText(id, st.text)
	}
	ed.Commit()
	return id, nil
}

// addSticker loads a sticker and positions it. A placeholder is still
// placed when loading fails; the error is returned alongside its id.
func addSticker(ctx context.Context, ed *editor.Editor, st stickerSpec) (int64, error) {
	id, err := ed.AddSticker(ctx, st.id)
	if id != 0 && st.placed {
		ed.Overlay().Place(id, st.at.X, st.at.Y, st.scale, st.rotation*math.Pi/180)
	}
	return id, err
}
