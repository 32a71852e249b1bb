package editor

import "sync"

// EventSource is a host input source. Attach starts forwarding events to
// the editor and returns a function that stops it.
type EventSource interface {
	Attach(e *Editor) (detach func())
}

// EventSourceFunc adapts a function to EventSource.
type EventSourceFunc func(e *Editor) func()

// Attach implements EventSource.
func (f EventSourceFunc) Attach(e *Editor) func() { return f(e) }

// Listen attaches src and returns its release function. Release is safe to
// call more than once; every listener still attached is released by Close.
func (e *Editor) Listen(src EventSource) (release func()) {
	if e.closed || src == nil {
		return func() {}
	}
	detach := src.Attach(e)
	id := e.nextListener
	e.nextListener++
	var once sync.Once
	release = func() {
		once.Do(func() {
			delete(e.listeners, id)
			if detach != nil {
				detach()
			}
		})
	}
	e.listeners[id] = release
	return release
}

// Listeners returns the number of attached listeners.
func (e *Editor) Listeners() int { return len(e.listeners) }

func (e *Editor) releaseListeners() {
	for _, release := range e.listeners {
		release()
	}
}
