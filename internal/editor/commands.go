package editor

import (
	"log"
	"time"

	"github.com/example/mediaeditor/internal/filter"
	"github.com/example/mediaeditor/internal/history"
	"github.com/example/mediaeditor/internal/overlay"
	"github.com/example/mediaeditor/internal/paint"
)

// sliderWindow merges consecutive changes of one filter channel into a
// single undo step.
const sliderWindow = 500 * time.Millisecond

type filterChange struct {
	e        *Editor
	name     string
	from, to filter.Settings
	at       time.Time
}

func (c *filterChange) Label() string { return "filter " + c.name }

func (c *filterChange) Apply() error {
	c.e.applySettings(c.to)
	return nil
}

func (c *filterChange) Revert() error {
	c.e.applySettings(c.from)
	return nil
}

func (e *Editor) recordFilter(name string, from, to filter.Settings) {
	now := e.opts.clock()
	if last, ok := e.history.Last().(*filterChange); ok && !e.history.CanRedo() &&
		last.name == name && last.to == from && now.Sub(last.at) < sliderWindow {
		last.to = to
		last.at = now
		return
	}
	e.history.Record(&filterChange{e: e, name: name, from: from, to: to, at: now})
}

func (e *Editor) strokeDone(s paint.Stroke) {
	before := e.before
	e.before = nil
	if before == nil {
		return
	}
	patch, err := e.paint.Diff(before)
	if err != nil {
		log.Printf("editor: stroke not undoable: %v", err)
		return
	}
	if patch.Empty() {
		return
	}
	e.history.Record(history.Func{
		Name:     s.Brush.Type.String() + " stroke",
		ApplyFn:  func() error { return e.paint.Apply(patch, false) },
		RevertFn: func() error { return e.paint.Apply(patch, true) },
	})
}

// recordOverlay turns committed overlay changes into undo steps.
func (e *Editor) recordOverlay(ev overlay.Event) {
	if e.history.Replaying() {
		return
	}
	m := e.model
	el, prev := ev.Element, ev.Prev
	var cmd history.Func
	switch ev.Kind {
	case overlay.Added:
		cmd = history.Func{
			Name:     "add " + el.Kind.String(),
			ApplyFn:  func() error { m.Insert(el); return nil },
			RevertFn: func() error { m.Remove(el.ID); return nil },
		}
	case overlay.Removed:
		el.Editing = false
		cmd = history.Func{
			Name:     "remove " + el.Kind.String(),
			ApplyFn:  func() error { m.Remove(el.ID); return nil },
			RevertFn: func() error { m.Insert(el); return nil },
		}
	case overlay.Moved, overlay.Resized, overlay.Rotated:
		cmd = history.Func{
			Name:     ev.Kind.String() + " " + el.Kind.String(),
			ApplyFn:  func() error { m.Place(el.ID, el.X, el.Y, el.Scale, el.Rotation); return nil },
			RevertFn: func() error { m.Place(prev.ID, prev.X, prev.Y, prev.Scale, prev.Rotation); return nil },
		}
	case overlay.TextChanged:
		cmd = history.Func{
			Name:     "edit text",
			ApplyFn:  func() error { m.SetText(el.ID, el.Text.Text); return nil },
			RevertFn: func() error { m.SetText(prev.ID, prev.Text.Text); return nil },
		}
	case overlay.Restyled:
		cmd = history.Func{
			Name:     "restyle text",
			ApplyFn:  func() error { m.Restyle(el.ID, el.Text.Style); return nil },
			RevertFn: func() error { m.Restyle(prev.ID, prev.Text.Style); return nil },
		}
	default:
		return
	}
	e.history.Record(cmd)
}

// Undo reverts the most recent edit and returns its label.
func (e *Editor) Undo() (string, error) {
	if e.closed {
		return "", ErrClosed
	}
	e.model.CancelDrag()
	return e.history.Undo()
}

// Redo re-applies the most recently undone edit.
func (e *Editor) Redo() (string, error) {
	if e.closed {
		return "", ErrClosed
	}
	e.model.CancelDrag()
	return e.history.Redo()
}
