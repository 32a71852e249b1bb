package filter

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	"log"
	"sync"
)

// Target is the render target the filter surface is drawn into.
type Target struct {
	img *image.NRGBA
}

// Image returns the target pixels. The image is rewritten by every Render.
func (t *Target) Image() *image.NRGBA { return t.img }

// Dims returns the target size in pixels.
func (t *Target) Dims() (int, int) { return t.img.Rect.Dx(), t.img.Rect.Dy() }

// Engine runs the adjustment program over one source image.
type Engine struct {
	mu       sync.Mutex
	compile  Compiler
	acquire  Acquirer
	source   string
	device   Device
	program  *Program
	texture  *Texture
	src      image.Image
	target   *Target
	degraded bool
	draws    int
}

// Option configures an Engine.
type Option func(*Engine)

// WithCompiler replaces the WGSL compiler.
func WithCompiler(c Compiler) Option { return func(e *Engine) { e.compile = c } }

// WithDevice replaces device acquisition.
func WithDevice(a Acquirer) Option { return func(e *Engine) { e.acquire = a } }

// WithSource replaces the embedded program source.
func WithSource(src string) Option { return func(e *Engine) { e.source = src } }

// NewEngine creates an engine. It does no work until Initialize.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{compile: NagaCompiler, acquire: AcquireSoftware, source: shaderSource}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Initialize uploads src and prepares a target of the same size.
//
// When no device is available the engine enters passthrough mode: the
// returned target is usable and receives the unmodified source, and the
// error wraps ErrNoDevice. A compile failure returns no target and an
// error wrapping ErrCompile.
func (e *Engine) Initialize(src image.Image) (*Target, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.releaseLocked()

	b := src.Bounds()
	if b.Empty() {
		return nil, fmt.Errorf("filter: empty source image")
	}
	e.src = src
	target := &Target{img: image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))}

	dev, err := e.acquire()
	if err == nil && dev == nil {
		err = errors.New("acquirer returned no device")
	}
	if err != nil {
		log.Printf("filter: %v; filters disabled", err)
		e.degraded = true
		e.target = target
		draw.Draw(target.img, target.img.Rect, src, b.Min, draw.Src)
		return target, fmt.Errorf("%w: %v", ErrNoDevice, err)
	}

	prog, err := Compile(e.source, e.compile)
	if err != nil {
		log.Printf("filter: %v", err)
		dev.Release()
		return nil, err
	}
	e.device = dev
	e.program = prog
	e.texture = Upload(src)
	e.target = target
	e.degraded = false
	return target, nil
}

// Render draws the program with s over the whole target.
func (e *Engine) Render(s Settings) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.target == nil {
		return nil
	}
	e.draws++
	if e.degraded {
		draw.Draw(e.target.img, e.target.img.Rect, e.src, e.src.Bounds().Min, draw.Src)
		return nil
	}
	if e.program == nil {
		return nil
	}
	w, h := e.target.Dims()
	u := Uniforms{Settings: s, Width: float32(w), Height: float32(h)}
	if err := e.device.Draw(e.program, e.texture, u, e.target.img); err != nil {
		return fmt.Errorf("filter render: %w", err)
	}
	return nil
}

// Degraded reports whether the engine runs in passthrough mode.
func (e *Engine) Degraded() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.degraded
}

// Draws returns how many renders were issued since Initialize.
func (e *Engine) Draws() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.draws
}

// Target returns the current target or nil.
func (e *Engine) Target() *Target {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.target
}

// Close releases the program, texture and device. It is safe to call twice.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.releaseLocked()
	return nil
}

func (e *Engine) releaseLocked() {
	if e.device != nil {
		e.device.Release()
	}
	e.device = nil
	e.program = nil
	e.texture = nil
	e.target = nil
	e.src = nil
	e.degraded = false
	e.draws = 0
}
