// Package editor is the media editor core. It owns the layer stack, the
// filter engine, the paint engine and the overlay model of one open image
// and routes host input to whichever of them the selected tab drives.
//
// An Editor is not safe for concurrent use. Hosts call it from their event
// loop and call Tick once per displayed frame.
package editor

import (
	"errors"
	"fmt"
	"image"
	"log"
	"math"
	"time"

	"github.com/example/mediaeditor/internal/compositor"
	"github.com/example/mediaeditor/internal/filter"
	"github.com/example/mediaeditor/internal/history"
	"github.com/example/mediaeditor/internal/overlay"
	"github.com/example/mediaeditor/internal/paint"
	"github.com/example/mediaeditor/internal/render"
)

var (
	// ErrClosed is returned by operations on a closed editor.
	ErrClosed = errors.New("editor: closed")
	// ErrSaved is returned by a second Save.
	ErrSaved = errors.New("editor: already saved")
)

// Tab selects which component receives pointer input.
type Tab int

const (
	TabFilters  Tab = 0
	TabCrop     Tab = 1
	TabText     Tab = 2
	TabPaint    Tab = 3
	TabStickers Tab = 4
)

func (t Tab) String() string {
	switch t {
	case TabFilters:
		return "filters"
	case TabCrop:
		return "crop"
	case TabText:
		return "text"
	case TabPaint:
		return "paint"
	case TabStickers:
		return "stickers"
	}
	return fmt.Sprintf("tab(%d)", int(t))
}

// Label returns the label key of the tab.
func (t Tab) Label() string {
	switch t {
	case TabFilters:
		return LabelFilters
	case TabCrop:
		return LabelCrop
	case TabText:
		return LabelText
	case TabPaint:
		return LabelPaint
	case TabStickers:
		return LabelStickers
	}
	return ""
}

// Tabs lists the tabs in bar order.
func Tabs() []Tab { return []Tab{TabFilters, TabCrop, TabText, TabPaint, TabStickers} }

// Editor is one open editing session.
type Editor struct {
	opts options

	comp      *compositor.Compositor
	engine    *filter.Engine
	coalescer *filter.Coalescer
	settings  filter.Settings
	filtered  bool

	paint  *paint.Engine
	before []byte

	model    *overlay.Model
	renderer *render.Renderer
	loader   *overlay.Loader
	style    overlay.Style

	history *history.Log
	tab     Tab

	listeners    map[int]func()
	nextListener int
	cancelModel  func()

	saved  bool
	closed bool
}

// Open starts an editor on src.
func Open(src image.Image, opts ...Option) (*Editor, error) {
	if src == nil || src.Bounds().Empty() {
		return nil, fmt.Errorf("editor: empty source image")
	}
	o := options{
		viewW: DefaultViewportWidth,
		viewH: DefaultViewportHeight,
		clock: time.Now,
		brush: paint.DefaultBrush(),
		style: overlay.DefaultStyle(),
	}
	for _, fn := range opts {
		fn(&o)
	}
	if o.labels == nil {
		o.labels = English()
	}
	if o.engine == nil {
		o.engine = filter.NewEngine()
	}
	if o.stickers == nil {
		o.stickers = overlay.NewMemorySource()
	}

	b := src.Bounds()
	w, h := compositor.Fit(b.Dx(), b.Dy(), o.viewW, o.viewH)
	comp, err := compositor.New(src, w, h)
	if err != nil {
		return nil, fmt.Errorf("editor: %w", err)
	}

	e := &Editor{
		opts:      o,
		comp:      comp,
		engine:    o.engine,
		style:     o.style,
		history:   history.New(o.historyLimit),
		listeners: map[int]func(){},
		loader:    overlay.NewLoader(o.stickers),
		renderer:  render.NewRenderer(o.fonts),
	}
	e.coalescer = filter.NewCoalescer(e.engine)
	e.bindFilter()

	e.paint = paint.NewEngine(comp.Drawing(), comp.Background(),
		paint.WithBrush(o.brush),
		paint.WithObserver(e.strokeDone),
	)
	e.model = overlay.NewModel(overlay.WithClock(o.clock), overlay.WithMeasurer(e.renderer))
	e.cancelModel = e.model.Subscribe(e.recordOverlay)
	e.SelectTab(TabFilters)
	return e, nil
}

// bindFilter initialises the filter engine over the current background and
// points the compositor at its target.
func (e *Editor) bindFilter() {
	target, err := e.engine.Initialize(e.comp.Background())
	switch {
	case err == nil:
	case errors.Is(err, filter.ErrNoDevice):
		log.Printf("editor: filters unavailable, showing the unfiltered image: %v", err)
	default:
		log.Printf("editor: filters disabled: %v", err)
	}
	e.filtered = target != nil
	if target == nil {
		return
	}
	if err := e.comp.SetFilter(target.Image()); err != nil {
		log.Printf("editor: %v", err)
		e.filtered = false
		return
	}
	e.coalescer.Request(e.settings)
	e.coalescer.Flush()
}

// Labels returns the label translator.
func (e *Editor) Labels() Labels { return e.opts.labels }

// Label translates key.
func (e *Editor) Label(key string) string { return e.opts.labels.Translate(key) }

// Bounds returns the editing surface bounds.
func (e *Editor) Bounds() image.Rectangle { return e.comp.Bounds() }

// Compositor returns the layer stack.
func (e *Editor) Compositor() *compositor.Compositor { return e.comp }

// Overlay returns the overlay model.
func (e *Editor) Overlay() *overlay.Model { return e.model }

// Paint returns the paint engine.
func (e *Editor) Paint() *paint.Engine { return e.paint }

// History returns the undo log.
func (e *Editor) History() *history.Log { return e.history }

// Degraded reports whether filters are running in passthrough mode.
func (e *Editor) Degraded() bool { return !e.filtered || e.engine.Degraded() }

// Closed reports whether Close has run.
func (e *Editor) Closed() bool { return e.closed }

// Tab returns the selected tab.
func (e *Editor) Tab() Tab { return e.tab }

// SelectTab switches tabs. Painting only accepts input on the paint tab.
func (e *Editor) SelectTab(t Tab) error {
	if e.closed {
		return ErrClosed
	}
	if t < TabFilters || t > TabStickers {
		return fmt.Errorf("editor: unknown tab %d", int(t))
	}
	if e.model.Dragging() {
		e.model.CancelDrag()
	}
	e.tab = t
	e.paint.SetActive(t == TabPaint)
	return nil
}

// Settings returns the current filter settings.
func (e *Editor) Settings() filter.Settings { return e.settings }

// SetFilter merges one channel into the settings and schedules a render
// for the next frame.
func (e *Editor) SetFilter(name string, value float64) error {
	if e.closed {
		return ErrClosed
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return fmt.Errorf("editor: filter %s value %v is not a number", name, value)
	}
	next, ok := e.settings.With(name, value)
	if !ok {
		return fmt.Errorf("editor: unknown filter %q", name)
	}
	if next == e.settings {
		return nil
	}
	e.recordFilter(name, e.settings, next)
	e.applySettings(next)
	return nil
}

// SetFilters replaces every channel at once.
func (e *Editor) SetFilters(s filter.Settings) error {
	if e.closed {
		return ErrClosed
	}
	if err := s.Validate(); err != nil {
		return fmt.Errorf("editor: %w", err)
	}
	if s == e.settings {
		return nil
	}
	prev := e.settings
	e.history.Record(history.Func{
		Name:     "filters",
		ApplyFn:  func() error { e.applySettings(s); return nil },
		RevertFn: func() error { e.applySettings(prev); return nil },
	})
	e.applySettings(s)
	return nil
}

func (e *Editor) applySettings(s filter.Settings) {
	e.settings = s
	if e.filtered {
		e.coalescer.Request(s)
	}
}

// Tick services one display frame and reports whether the filter surface
// was redrawn.
func (e *Editor) Tick() bool {
	if e.closed {
		return false
	}
	return e.coalescer.Tick()
}

// Resize refits the surfaces to a new viewport. Strokes are scaled; the
// undo log is cleared because recorded strokes no longer fit.
func (e *Editor) Resize(viewW, viewH int) error {
	if e.closed {
		return ErrClosed
	}
	b := e.comp.Source().Bounds()
	w, h := compositor.Fit(b.Dx(), b.Dy(), viewW, viewH)
	if e.comp.Bounds().Dx() == w && e.comp.Bounds().Dy() == h {
		return nil
	}
	e.paint.SetActive(false)
	if err := e.comp.Resize(w, h); err != nil {
		return fmt.Errorf("editor: %w", err)
	}
	e.opts.viewW, e.opts.viewH = viewW, viewH
	e.paint.Bind(e.comp.Drawing(), e.comp.Background())
	e.paint.SetActive(e.tab == TabPaint)
	e.before = nil
	e.bindFilter()
	e.history.Clear()
	return nil
}

// Frame composites the layer stack for display, including the focus
// decorations of the overlay.
func (e *Editor) Frame() (*image.RGBA, error) {
	img, err := e.comp.FlattenImage(e.renderer.Overlay(e.model))
	if err != nil {
		return nil, err
	}
	e.renderer.DrawDecorations(img, e.model)
	return img, nil
}

// Export flattens the edit to PNG without ending the session. Drafts of the
// focused field are committed first.
func (e *Editor) Export() ([]byte, error) {
	if e.closed {
		return nil, ErrClosed
	}
	e.coalescer.Flush()
	e.model.Blur()
	return e.comp.FlattenPNG(e.renderer.Overlay(e.model))
}

// Save flattens the edit and passes the PNG to the OnSave callback. It can
// only succeed once.
func (e *Editor) Save() ([]byte, error) {
	if e.closed {
		return nil, ErrClosed
	}
	if e.saved {
		return nil, ErrSaved
	}
	data, err := e.Export()
	if err != nil {
		return nil, fmt.Errorf("editor: save: %w", err)
	}
	e.saved = true
	if e.opts.onSave != nil {
		e.opts.onSave(data)
	}
	return data, nil
}

// Saved reports whether Save has succeeded.
func (e *Editor) Saved() bool { return e.saved }

// Close ends the session. OnClose runs if the edit was never saved. All
// listeners and filter resources are released. Closing twice is a no-op.
func (e *Editor) Close() error {
	if e.closed {
		return nil
	}
	e.closed = true
	e.paint.SetActive(false)
	if !e.saved && e.opts.onClose != nil {
		e.opts.onClose()
	}
	e.releaseListeners()
	if e.cancelModel != nil {
		e.cancelModel()
	}
	if err := e.engine.Close(); err != nil {
		return fmt.Errorf("editor: close: %w", err)
	}
	return nil
}
