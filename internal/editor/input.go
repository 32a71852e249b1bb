package editor

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/example/mediaeditor/internal/colorpick"
	"github.com/example/mediaeditor/internal/overlay"
	"github.com/example/mediaeditor/internal/paint"
)

// Modifiers are the keyboard modifiers held during a pointer event.
type Modifiers uint8

const (
	ModShift Modifiers = 1 << iota
	ModAlt
	ModControl
)

// ModRotate turns a handle drag into a rotation.
const ModRotate = ModShift

// PointerDown routes a press. It reports whether any component consumed it.
func (e *Editor) PointerDown(x, y float64, mods Modifiers) bool {
	if e.closed {
		return false
	}
	p := overlay.Point{X: x, Y: y}
	if e.tab == TabPaint {
		if e.paint.State() == paint.Idle {
			e.before = e.paint.Snapshot()
		}
		if e.paint.PointerDown(p) {
			return true
		}
		e.before = nil
		return false
	}
	if id, h, ok := e.model.HandleAt(p); ok {
		if mods&ModRotate != 0 {
			return e.model.BeginRotate(id, h, p)
		}
		return e.model.BeginResize(id, h, p)
	}
	if hit := e.model.HitTest(p); hit != 0 {
		if e.tab == TabText {
			e.model.Click(p, true, e.style)
		} else {
			e.model.Focus(hit)
		}
		return e.model.BeginDrag(hit, p)
	}
	_, res := e.model.Click(p, e.tab == TabText, e.style)
	return res != overlay.ClickNone
}

// PointerMove routes a move.
func (e *Editor) PointerMove(x, y float64, mods Modifiers) bool {
	if e.closed {
		return false
	}
	p := overlay.Point{X: x, Y: y}
	if e.tab == TabPaint {
		return e.paint.PointerMove(p)
	}
	_, ok := e.model.DragTo(p)
	return ok
}

// PointerUp routes a release.
func (e *Editor) PointerUp(x, y float64, mods Modifiers) bool {
	if e.closed {
		return false
	}
	p := overlay.Point{X: x, Y: y}
	if e.tab == TabPaint {
		return e.paint.PointerUp(p)
	}
	if !e.model.Dragging() {
		return false
	}
	e.model.EndDrag(p)
	return true
}

// TypeRune appends r to the draft of the focused text field.
func (e *Editor) TypeRune(r rune) bool {
	el, ok := e.editingText()
	if !ok {
		return false
	}
	return e.model.SetDraft(el.ID, el.Text.Draft+string(r))
}

// Backspace removes the last rune of the focused draft.
func (e *Editor) Backspace() bool {
	el, ok := e.editingText()
	if !ok || el.Text.Draft == "" {
		return false
	}
	_, n := utf8.DecodeLastRuneInString(el.Text.Draft)
	return e.model.SetDraft(el.ID, el.Text.Draft[:len(el.Text.Draft)-n])
}

// SetDraft replaces the whole draft of the focused text field.
func (e *Editor) SetDraft(text string) bool {
	el, ok := e.editingText()
	if !ok {
		return false
	}
	return e.model.SetDraft(el.ID, text)
}

// Commit blurs the focused element, committing its draft.
func (e *Editor) Commit() bool {
	if e.closed {
		return false
	}
	return e.model.Blur()
}

// DeleteFocused removes the focused element.
func (e *Editor) DeleteFocused() bool {
	if e.closed || e.model.Focused() == 0 {
		return false
	}
	return e.model.Remove(e.model.Focused())
}

func (e *Editor) editingText() (overlay.Element, bool) {
	if e.closed || e.model.Focused() == 0 {
		return overlay.Element{}, false
	}
	el, err := e.model.Get(e.model.Focused())
	if err != nil || el.Kind != overlay.KindText || !el.Editing {
		return overlay.Element{}, false
	}
	return el, true
}

// Brush returns the paint brush.
func (e *Editor) Brush() paint.Brush { return e.paint.Brush() }

// SetBrush validates and installs b. The colour is normalised to #RRGGBB.
func (e *Editor) SetBrush(b paint.Brush) error {
	if e.closed {
		return ErrClosed
	}
	hex, err := colorpick.Normalize(b.Color)
	if err != nil {
		return fmt.Errorf("editor: brush colour: %w", err)
	}
	if b.Size < 0 || b.Size > paint.MaxSize {
		return fmt.Errorf("editor: brush size %d out of range 0..%d", b.Size, paint.MaxSize)
	}
	if _, err := paint.ParseBrushType(b.Type.String()); err != nil {
		return fmt.Errorf("editor: %w", err)
	}
	b.Color = hex
	e.paint.SetBrush(b)
	return nil
}

// TextStyle returns the style used for new and focused text fields.
func (e *Editor) TextStyle() overlay.Style { return e.style }

// SetTextStyle changes the text tool style and restyles the focused field.
func (e *Editor) SetTextStyle(s overlay.Style) error {
	if e.closed {
		return ErrClosed
	}
	hex, err := colorpick.Normalize(s.Color)
	if err != nil {
		return fmt.Errorf("editor: text colour: %w", err)
	}
	s.Color = hex
	if err := s.Validate(); err != nil {
		return fmt.Errorf("editor: %w", err)
	}
	e.style = s
	e.model.ApplyStyleToFocused(s)
	return nil
}

// AddText inserts a text field at (x, y) with the current style and focuses it.
func (e *Editor) AddText(x, y float64) (int64, error) {
	if e.closed {
		return 0, ErrClosed
	}
	return e.model.AddText(x, y, e.style), nil
}

// Stickers lists the sticker collections.
func (e *Editor) Stickers(ctx context.Context) ([]overlay.Collection, error) {
	return e.loader.Source().Collections(ctx)
}

// AddSticker loads a sticker and places it at the origin. A sticker that
// fails to load is placed as a placeholder and the load error is returned
// with its id.
func (e *Editor) AddSticker(ctx context.Context, stickerID string) (int64, error) {
	if e.closed {
		return 0, ErrClosed
	}
	img, placeholder, err := e.loader.Load(ctx, stickerID)
	id := e.model.AddSticker(stickerID, img, placeholder)
	if err != nil {
		return id, fmt.Errorf("editor: sticker %q: %w", stickerID, err)
	}
	return id, nil
}

// PrefetchStickers warms the sticker cache for ids.
func (e *Editor) PrefetchStickers(ctx context.Context, ids []string) {
	e.loader.Prefetch(ctx, ids)
}
