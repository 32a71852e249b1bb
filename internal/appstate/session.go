package appstate

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/example/mediaeditor/internal/clipboard"
	"github.com/example/mediaeditor/internal/editor"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/mouse"
)

const messageDuration = 2 * time.Second

// session is the event loop state of one window. It owns the editor and
// translates window events into editor calls.
type session struct {
	app *AppState
	ed  *editor.Editor
	ctx context.Context

	layout  Layout
	widgets []Widget

	hover, pressed, hoverTab int
	canvasDown               bool

	channel  int
	stickers []string
	actions  *actions

	message      string
	messageUntil time.Time
	savedPath    string
	done         bool
}

func newSession(ctx context.Context, app *AppState, src image.Image, width, height int) (*session, error) {
	s := &session{
		app:      app,
		ctx:      ctx,
		layout:   NewLayout(width, height),
		hover:    -1,
		pressed:  -1,
		hoverTab: -1,
	}
	if err := s.open(src); err != nil {
		return nil, err
	}
	s.actions = newActions()
	s.actions.register("save", saveKeys, s.save)
	s.actions.register("copy", copyKeys, s.copyImage)
	s.actions.register("paste", pasteKeys, s.paste)
	s.actions.register("undo", undoKeys, s.undo)
	s.actions.register("redo", redoKeys, s.redo)
	s.actions.register("quit", quitKeys, s.close)
	return s, nil
}

// open starts a fresh editor on src, closing the current one.
func (s *session) open(src image.Image) error {
	opts := append([]editor.Option{
		editor.WithViewport(s.layout.Canvas.Dx(), s.layout.Canvas.Dy()),
		editor.OnSave(s.write),
		editor.OnClose(func() { log.Print("edit discarded") }),
	}, s.app.editorOpts...)
	ed, err := editor.Open(src, opts...)
	if err != nil {
		return fmt.Errorf("open editor: %w", err)
	}
	if s.ed != nil {
		if err := s.ed.Close(); err != nil {
			log.Printf("close editor: %v", err)
		}
	}
	s.ed = ed
	s.canvasDown = false
	s.loadStickers(s.ctx)
	s.rebuild()
	return nil
}

func (s *session) rebuild() {
	s.widgets = s.buildPanel()
	if s.hover >= len(s.widgets) {
		s.hover = -1
	}
	if s.pressed >= len(s.widgets) {
		s.pressed = -1
	}
}

func (s *session) flash(msg string) {
	log.Print(msg)
	s.message = msg
	s.messageUntil = time.Now().Add(messageDuration)
}

// surface is where the editing surface sits in the window.
func (s *session) surface() image.Rectangle {
	return s.layout.Surface(s.ed.Bounds().Size())
}

func (s *session) resize(width, height int) {
	s.layout = NewLayout(width, height)
	if err := s.ed.Resize(s.layout.Canvas.Dx(), s.layout.Canvas.Dy()); err != nil {
		log.Printf("resize: %v", err)
	}
	s.rebuild()
}

// tick services one display frame and reports whether a repaint is due.
func (s *session) tick(now time.Time) bool {
	repaint := s.ed.Tick()
	if s.message != "" && !now.Before(s.messageUntil) {
		s.message = ""
		repaint = true
	}
	return repaint
}

func (s *session) state() PaintState {
	st := PaintState{
		Width:        s.layout.Window.Dx(),
		Height:       s.layout.Window.Dy(),
		Theme:        s.app.theme,
		Current:      int(s.ed.Tab()),
		HoverTab:     s.hoverTab,
		Widgets:      s.widgets,
		Hover:        s.hover,
		Pressed:      s.pressed,
		Message:      s.message,
		MessageUntil: s.messageUntil,
	}
	for _, t := range editor.Tabs() {
		st.Tabs = append(st.Tabs, s.ed.Label(t.Label()))
	}
	frame, err := s.ed.Frame()
	if err != nil {
		log.Printf("frame: %v", err)
	}
	st.Frame = frame
	if s.ed.Degraded() {
		st.Status = "filters unavailable"
	}
	return st
}

// mouse handles a pointer event and reports whether a repaint is due.
func (s *session) mouse(e mouse.Event) bool {
	p := image.Pt(int(e.X), int(e.Y))
	mods := modifiers(e.Modifiers)
	sx, sy := ToSurface(s.surface(), e.X, e.Y)

	if e.Button == mouse.ButtonLeft && e.Direction == mouse.DirRelease {
		s.pressed = -1
		if s.canvasDown {
			s.canvasDown = false
			s.ed.PointerUp(sx, sy, mods)
		}
		s.rebuild()
		return true
	}

	if e.Direction == mouse.DirNone {
		switch {
		case s.canvasDown:
			return s.ed.PointerMove(sx, sy, mods)
		case s.pressed >= 0:
			s.widgets[s.pressed].Press(p)
			s.rebuild()
			return true
		}
		return s.updateHover(p)
	}

	if e.Button != mouse.ButtonLeft || e.Direction != mouse.DirPress {
		return false
	}
	switch {
	case p.In(s.layout.Tabs):
		if i, ok := s.layout.TabAt(p, len(editor.Tabs())); ok {
			if err := s.ed.SelectTab(editor.Tabs()[i]); err != nil {
				log.Printf("select tab: %v", err)
			}
		}
	case p.In(s.layout.Panel):
		if i := widgetAt(s.widgets, p); i >= 0 {
			s.pressed = i
			s.widgets[i].Press(p)
		}
	case p.In(s.layout.Canvas):
		s.canvasDown = true
		s.ed.PointerDown(sx, sy, mods)
	}
	s.rebuild()
	return true
}

func (s *session) updateHover(p image.Point) bool {
	hover, hoverTab := -1, -1
	if p.In(s.layout.Panel) {
		hover = widgetAt(s.widgets, p)
	} else if i, ok := s.layout.TabAt(p, len(editor.Tabs())); ok {
		hoverTab = i
	}
	if hover == s.hover && hoverTab == s.hoverTab {
		return false
	}
	s.hover, s.hoverTab = hover, hoverTab
	return true
}

// key handles a key event and reports whether a repaint is due.
func (s *session) key(e key.Event) bool {
	if e.Direction != key.DirPress && e.Direction != key.DirNone {
		return false
	}
	if name, ok := s.actions.lookup(e); ok {
		s.actions.run(name)
		s.rebuild()
		return true
	}
	changed := s.editKey(e)
	if changed {
		s.rebuild()
	}
	return changed
}

func (s *session) editKey(e key.Event) bool {
	ed := s.ed
	switch e.Code {
	case key.CodeReturnEnter, key.CodeEscape:
		if ed.Commit() {
			return true
		}
		if e.Code == key.CodeEscape {
			s.close()
			return true
		}
		return false
	case key.CodeDeleteBackspace:
		if ed.Backspace() {
			return true
		}
		return ed.DeleteFocused()
	case key.CodeDeleteForward:
		return ed.DeleteFocused()
	}
	if e.Rune <= 0 || e.Modifiers&(key.ModControl|key.ModMeta) != 0 {
		return false
	}
	if ed.TypeRune(e.Rune) {
		return true
	}
	if t, ok := tabForDigit(e.Rune); ok {
		return ed.SelectTab(t) == nil
	}
	return false
}

func (s *session) undo() {
	label, err := s.ed.Undo()
	if err != nil {
		log.Printf("undo: %v", err)
		return
	}
	if label != "" {
		s.flash("undo " + label)
	}
}

func (s *session) redo() {
	label, err := s.ed.Redo()
	if err != nil {
		log.Printf("redo: %v", err)
		return
	}
	if label != "" {
		s.flash("redo " + label)
	}
}

// save flattens the edit. The OnSave callback writes it; the session ends
// once the write succeeds.
func (s *session) save() {
	_, err := s.ed.Save()
	if errors.Is(err, editor.ErrSaved) && s.savedPath == "" {
		// an earlier write failed; retry from a fresh export
		var data []byte
		if data, err = s.ed.Export(); err == nil {
			s.write(data)
		}
	}
	if err != nil {
		s.flash(fmt.Sprintf("save failed: %v", err))
		return
	}
	if s.savedPath != "" {
		s.done = true
	}
}

func (s *session) write(data []byte) {
	path := s.app.outputPath(time.Now())
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			s.flash(fmt.Sprintf("save failed: %v", err))
			return
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		s.flash(fmt.Sprintf("save failed: %v", err))
		return
	}
	s.savedPath = path
	s.flash("saved " + path)
	if s.app.notifier != nil {
		s.app.notifier.Save(path)
	}
}

func (s *session) copyImage() {
	data, err := s.ed.Export()
	if err != nil {
		s.flash(fmt.Sprintf("copy failed: %v", err))
		return
	}
	if err := clipboard.CopyPNG(data); err != nil {
		s.flash(fmt.Sprintf("copy failed: %v", err))
		return
	}
	s.flash("image copied to clipboard")
	if s.app.notifier != nil {
		s.app.notifier.Copy("image")
	}
}

// paste replaces the source with the clipboard image.
func (s *session) paste() {
	img, err := clipboard.PasteImage()
	if err != nil {
		s.flash(fmt.Sprintf("paste failed: %v", err))
		return
	}
	if err := s.open(img); err != nil {
		s.flash(fmt.Sprintf("paste failed: %v", err))
		return
	}
	s.flash("pasted new image")
}

func (s *session) addSticker(id string) {
	if err := s.ed.SelectTab(editor.TabStickers); err != nil {
		return
	}
	if _, err := s.ed.AddSticker(s.ctx, id); err != nil {
		s.flash(err.Error())
	}
}

func (s *session) close() {
	if err := s.ed.Close(); err != nil {
		log.Printf("close: %v", err)
	}
	s.done = true
}
