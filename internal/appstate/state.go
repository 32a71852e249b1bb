// Package appstate is the desktop window around an editing session. It
// draws the canvas, the tool panel and the tabs bar with shiny and feeds
// window events to the editor.
package appstate

import (
	"context"
	"fmt"
	"image"
	"log"
	"path/filepath"
	"sync"
	"time"

	"github.com/example/mediaeditor/internal/editor"
	"github.com/example/mediaeditor/internal/notify"
	"github.com/example/mediaeditor/internal/theme"
	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"
)

// ProgramTitle is the window title prefix.
const ProgramTitle = "Media Editor"

// FrameInterval is how often the window ticks the editor.
const FrameInterval = time.Second / 60

// AppState holds application configuration for the UI.
type AppState struct {
	Image   image.Image
	Output  string
	SaveDir string
	Title   string

	width, height int
	theme         *theme.Theme
	notifier      *notify.Notifier
	editorOpts    []editor.Option

	onClose   func()
	closeOnce sync.Once
	err       error
}

// Option modifies an AppState during creation.
type Option func(*AppState)

// WithImage sets the image to edit.
func WithImage(img image.Image) Option { return func(a *AppState) { a.Image = img } }

// WithOutput sets the file the edit is saved to.
func WithOutput(out string) Option { return func(a *AppState) { a.Output = out } }

// WithSaveDir sets the directory used when no output file is given.
func WithSaveDir(dir string) Option { return func(a *AppState) { a.SaveDir = dir } }

// WithTitle sets the window title.
func WithTitle(title string) Option { return func(a *AppState) { a.Title = title } }

// WithCanvasSize sets the initial canvas size. The window adds room for the
// tool panel and the tabs bar.
func WithCanvasSize(w, h int) Option {
	return func(a *AppState) { a.width, a.height = w, h }
}

// WithTheme sets the chrome colours.
func WithTheme(t *theme.Theme) Option { return func(a *AppState) { a.theme = t } }

// WithNotifier sends desktop notifications on save and copy.
func WithNotifier(n *notify.Notifier) Option { return func(a *AppState) { a.notifier = n } }

// WithEditorOptions passes options through to every editor the window opens.
func WithEditorOptions(opts ...editor.Option) Option {
	return func(a *AppState) { a.editorOpts = append(a.editorOpts, opts...) }
}

// WithOnClose registers a callback invoked when the window closes.
func WithOnClose(fn func()) Option { return func(a *AppState) { a.onClose = fn } }

// New creates an AppState with the provided options.
func New(opts ...Option) *AppState {
	a := &AppState{
		SaveDir: ".",
		Title:   ProgramTitle,
		width:   editor.DefaultViewportWidth,
		height:  editor.DefaultViewportHeight,
	}
	for _, o := range opts {
		o(a)
	}
	if a.theme == nil {
		a.theme = theme.Default()
	}
	return a
}

// Err returns the error that stopped the window, if any.
func (a *AppState) Err() error { return a.err }

// outputPath returns Output, or a timestamped name in SaveDir.
func (a *AppState) outputPath(now time.Time) string {
	if a.Output != "" {
		return a.Output
	}
	return filepath.Join(a.SaveDir, fmt.Sprintf("edit-%s.png", now.Format("20060102-150405")))
}

func (a *AppState) notifyClose() {
	a.closeOnce.Do(func() {
		if a.onClose != nil {
			a.onClose()
		}
	})
}

// tickEvent asks the event loop to service one display frame.
type tickEvent struct{}

// Run executes the UI loop using shiny's driver.
func (a *AppState) Run() error {
	driver.Main(a.Main)
	return a.err
}

// Main runs the window on s until it closes.
func (a *AppState) Main(s screen.Screen) {
	defer a.notifyClose()
	if a.Image == nil {
		a.err = fmt.Errorf("appstate: no image")
		return
	}
	win := WindowSize(a.width, a.height)
	w, err := s.NewWindow(&screen.NewWindowOptions{Width: win.X, Height: win.Y, Title: a.Title})
	if err != nil {
		a.err = fmt.Errorf("new window: %w", err)
		return
	}
	defer w.Release()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sess, err := newSession(ctx, a, a.Image, win.X, win.Y)
	if err != nil {
		a.err = err
		return
	}
	defer func() {
		if err := sess.ed.Close(); err != nil {
			log.Printf("close editor: %v", err)
		}
	}()

	go func() {
		t := time.NewTicker(FrameInterval)
		defer t.Stop()
		for {
			select {
			case <-t.C:
				w.Send(tickEvent{})
			case <-ctx.Done():
				return
			}
		}
	}()

	var paintMu sync.Mutex
	var paintCancel context.CancelFunc
	var dropCount int
	paintCh := make(chan PaintState, 1)
	defer close(paintCh)
	go func() {
		for st := range paintCh {
			pctx, pcancel := context.WithCancel(ctx)
			paintMu.Lock()
			paintCancel = pcancel
			paintMu.Unlock()
			drawFrame(pctx, s, w, st)
			paintMu.Lock()
			paintCancel = nil
			if pctx.Err() == nil {
				dropCount = 0
			}
			paintMu.Unlock()
			pcancel()
		}
	}()

	for !sess.done {
		var repaint bool
		switch e := w.NextEvent().(type) {
		case lifecycle.Event:
			if e.To == lifecycle.StageDead {
				sess.close()
				continue
			}
		case size.Event:
			sess.resize(e.WidthPx, e.HeightPx)
			repaint = true
		case tickEvent:
			repaint = sess.tick(time.Now())
		case paint.Event:
			repaint = true
		case mouse.Event:
			repaint = sess.mouse(e)
		case key.Event:
			repaint = sess.key(e)
		case error:
			log.Printf("window: %v", e)
		}
		if !repaint || sess.done {
			continue
		}
		paintMu.Lock()
		if paintCancel != nil && dropCount < frameDropThreshold {
			paintCancel()
			dropCount++
		}
		paintMu.Unlock()
		st := sess.state()
		select {
		case paintCh <- st:
		default:
			select {
			case <-paintCh:
			default:
			}
			paintCh <- st
		}
	}
}
