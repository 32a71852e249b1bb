package filter

import (
	"context"
	"log"
	"sync"
	"time"
)

// FrameInterval is the display refresh interval used by Run when the host
// does not supply its own ticker.
const FrameInterval = time.Second / 60

// Renderer is anything that can draw a full Settings record.
type Renderer interface {
	Render(Settings) error
}

// Coalescer rate limits renders to one per frame. Requests made between two
// frames collapse into a single render of the most recent settings.
type Coalescer struct {
	r Renderer

	mu      sync.Mutex
	pending *Settings
	last    Settings
	onDraw  func(Settings)
}

// NewCoalescer wraps r.
func NewCoalescer(r Renderer) *Coalescer { return &Coalescer{r: r} }

// OnRender registers fn to be called after each completed render.
func (c *Coalescer) OnRender(fn func(Settings)) {
	c.mu.Lock()
	c.onDraw = fn
	c.mu.Unlock()
}

// Request schedules s for the next frame, replacing any pending request.
func (c *Coalescer) Request(s Settings) {
	c.mu.Lock()
	c.pending = &s
	c.mu.Unlock()
}

// Pending reports whether a render is waiting for the next frame.
func (c *Coalescer) Pending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending != nil
}

// Last returns the settings of the most recent render.
func (c *Coalescer) Last() Settings {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.last
}

// Tick services one frame. It reports whether a render ran.
func (c *Coalescer) Tick() bool {
	c.mu.Lock()
	p := c.pending
	c.pending = nil
	fn := c.onDraw
	c.mu.Unlock()
	if p == nil {
		return false
	}
	if err := c.r.Render(*p); err != nil {
		log.Printf("filter: %v", err)
	}
	c.mu.Lock()
	c.last = *p
	c.mu.Unlock()
	if fn != nil {
		fn(*p)
	}
	return true
}

// Flush renders any pending request immediately.
func (c *Coalescer) Flush() bool { return c.Tick() }

// Run ticks on every value from frames until ctx is done. A nil frames
// channel uses a FrameInterval ticker.
func (c *Coalescer) Run(ctx context.Context, frames <-chan time.Time) {
	if frames == nil {
		t := time.NewTicker(FrameInterval)
		defer t.Stop()
		frames = t.C
	}
	for {
		select {
		case <-ctx.Done():
			return
		case <-frames:
			c.Tick()
		}
	}
}
