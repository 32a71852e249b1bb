package editor

import (
	"time"

	"github.com/example/mediaeditor/internal/filter"
	"github.com/example/mediaeditor/internal/overlay"
	"github.com/example/mediaeditor/internal/paint"
	"github.com/example/mediaeditor/internal/render"
)

// Default viewport used when the host gives none.
const (
	DefaultViewportWidth  = 1280
	DefaultViewportHeight = 720
)

type options struct {
	viewW, viewH int
	onSave       func([]byte)
	onClose      func()
	stickers     overlay.Source
	engine       *filter.Engine
	clock        func() time.Time
	labels       Labels
	fonts        *render.FontSet
	brush        paint.Brush
	style        overlay.Style
	historyLimit int
}

// Option configures Open.
type Option func(*options)

// WithViewport sets the area the image is fitted into.
func WithViewport(w, h int) Option {
	return func(o *options) { o.viewW, o.viewH = w, h }
}

// OnSave is called with the flattened PNG when the user saves.
func OnSave(fn func([]byte)) Option {
	return func(o *options) { o.onSave = fn }
}

// OnClose is called when the editor closes without saving.
func OnClose(fn func()) Option {
	return func(o *options) { o.onClose = fn }
}

// WithStickerSource sets where stickers are loaded from.
func WithStickerSource(src overlay.Source) Option {
	return func(o *options) { o.stickers = src }
}

// WithFilterEngine replaces the default filter engine.
func WithFilterEngine(e *filter.Engine) Option {
	return func(o *options) { o.engine = e }
}

// WithClock sets the clock used for overlay element ids.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.clock = now }
}

// WithLabels replaces the English labels.
func WithLabels(l Labels) Option {
	return func(o *options) { o.labels = l }
}

// WithFonts sets the font set used for text overlays.
func WithFonts(fs *render.FontSet) Option {
	return func(o *options) { o.fonts = fs }
}

// WithBrush sets the initial paint brush.
func WithBrush(b paint.Brush) Option {
	return func(o *options) { o.brush = b }
}

// WithTextStyle sets the style new text fields start with.
func WithTextStyle(s overlay.Style) Option {
	return func(o *options) { o.style = s }
}

// WithHistoryLimit bounds the undo log.
func WithHistoryLimit(n int) Option {
	return func(o *options) { o.historyLimit = n }
}
