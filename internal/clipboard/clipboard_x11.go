//go:build (linux || freebsd || openbsd || netbsd || dragonfly) && !cgo

package clipboard

import (
	"fmt"
	"sync"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
)

func init() { newBackend = newX11Backend }

// x11Backend owns the CLIPBOARD selection through a hidden window and
// answers conversion requests from its own event loop.
type x11Backend struct {
	conn   *xgb.Conn
	window xproto.Window
	atoms  atoms

	mu   sync.RWMutex
	text []byte
	png  []byte
}

type atoms struct {
	clipboard, targets, utf8, textPlain, png, property xproto.Atom
}

func newX11Backend() (backend, error) {
	if !hasDisplay() {
		return nil, errNoDisplay
	}
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, fmt.Errorf("x11: %w", err)
	}
	screen := xproto.Setup(conn).DefaultScreen(conn)
	window, err := xproto.NewWindowId(conn)
	if err != nil {
		conn.Close()
		return nil, err
	}
	mask := []uint32{xproto.EventMaskPropertyChange | xproto.EventMaskStructureNotify}
	if err := xproto.CreateWindowChecked(conn, screen.RootDepth, window, screen.Root,
		0, 0, 1, 1, 0, xproto.WindowClassInputOutput, screen.RootVisual, xproto.CwEventMask, mask).Check(); err != nil {
		conn.Close()
		return nil, err
	}
	a, err := intern(conn)
	if err != nil {
		xproto.DestroyWindow(conn, window)
		conn.Close()
		return nil, err
	}
	b := &x11Backend{conn: conn, window: window, atoms: a}
	go b.serve()
	return b, nil
}

func intern(conn *xgb.Conn) (atoms, error) {
	names := []string{"CLIPBOARD", "TARGETS", "UTF8_STRING", "text/plain;charset=utf-8", "image/png", "MEDIAEDITOR_CLIPBOARD"}
	out := make([]xproto.Atom, len(names))
	for i, name := range names {
		reply, err := xproto.InternAtom(conn, false, uint16(len(name)), name).Reply()
		if err != nil {
			return atoms{}, fmt.Errorf("intern %s: %w", name, err)
		}
		out[i] = reply.Atom
	}
	return atoms{clipboard: out[0], targets: out[1], utf8: out[2], textPlain: out[3], png: out[4], property: out[5]}, nil
}

func (b *x11Backend) own(text, png []byte) error {
	b.mu.Lock()
	b.text, b.png = text, png
	b.mu.Unlock()
	return xproto.SetSelectionOwnerChecked(b.conn, b.window, b.atoms.clipboard, xproto.TimeCurrentTime).Check()
}

func (b *x11Backend) writeImage(data []byte) error {
	return b.own(nil, append([]byte(nil), data...))
}

func (b *x11Backend) writeText(text string) error {
	return b.own([]byte(text), nil)
}

func (b *x11Backend) readImage() ([]byte, error) {
	return b.convert(b.atoms.png)
}

func (b *x11Backend) readText() (string, error) {
	data, err := b.convert(b.atoms.utf8)
	if err != nil {
		if data, err = b.convert(xproto.AtomString); err != nil {
			return "", err
		}
	}
	// some owners include a trailing NUL in STRING replies
	if n := len(data); n > 0 && data[n-1] == 0 {
		data = data[:n-1]
	}
	return string(data), nil
}

func (b *x11Backend) serve() {
	for {
		ev, err := b.conn.WaitForEvent()
		if err != nil {
			return
		}
		switch e := ev.(type) {
		case xproto.SelectionRequestEvent:
			b.answer(e)
		case xproto.SelectionClearEvent:
			b.mu.Lock()
			b.text, b.png = nil, nil
			b.mu.Unlock()
		}
	}
}

// answer replies to one conversion request with the data we own.
func (b *x11Backend) answer(e xproto.SelectionRequestEvent) {
	prop := e.Property
	if prop == xproto.AtomNone {
		prop = e.Target
	}
	b.mu.RLock()
	text, png := b.text, b.png
	b.mu.RUnlock()

	var (
		typ     xproto.Atom
		format  byte = 8
		payload []byte
	)
	switch e.Target {
	case b.atoms.targets:
		list := []xproto.Atom{b.atoms.targets}
		if len(text) > 0 {
			list = append(list, b.atoms.utf8, xproto.AtomString, b.atoms.textPlain)
		}
		if len(png) > 0 {
			list = append(list, b.atoms.png)
		}
		payload = make([]byte, len(list)*4)
		for i, a := range list {
			xgb.Put32(payload[i*4:], uint32(a))
		}
		typ, format = xproto.AtomAtom, 32
	case b.atoms.utf8, xproto.AtomString, b.atoms.textPlain:
		payload, typ = text, b.atoms.utf8
	case b.atoms.png:
		payload, typ = png, b.atoms.png
	}
	if len(payload) == 0 {
		prop = xproto.AtomNone
	} else {
		n := uint32(len(payload))
		if format == 32 {
			n /= 4
		}
		xproto.ChangeProperty(b.conn, xproto.PropModeReplace, e.Requestor, prop, typ, format, n, payload)
	}

	notify := xproto.SelectionNotifyEvent{
		Time:      e.Time,
		Requestor: e.Requestor,
		Selection: e.Selection,
		Target:    e.Target,
		Property:  prop,
	}
	xproto.SendEvent(b.conn, false, e.Requestor, 0, string(notify.Bytes()))
}

// convert asks the current owner for target on a private connection and
// waits for the reply.
func (b *x11Backend) convert(target xproto.Atom) ([]byte, error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	screen := xproto.Setup(conn).DefaultScreen(conn)
	window, err := xproto.NewWindowId(conn)
	if err != nil {
		return nil, err
	}
	if err := xproto.CreateWindowChecked(conn, 0, window, screen.Root, 0, 0, 1, 1, 0,
		xproto.WindowClassInputOnly, 0, xproto.CwEventMask, []uint32{xproto.EventMaskPropertyChange}).Check(); err != nil {
		return nil, err
	}
	defer xproto.DestroyWindow(conn, window)

	if err := xproto.ConvertSelectionChecked(conn, window, b.atoms.clipboard, target, b.atoms.property, xproto.TimeCurrentTime).Check(); err != nil {
		return nil, err
	}
	for {
		ev, err := conn.WaitForEvent()
		if err != nil {
			return nil, err
		}
		e, ok := ev.(xproto.SelectionNotifyEvent)
		if !ok {
			continue
		}
		if e.Property == xproto.AtomNone {
			return nil, ErrEmpty
		}
		reply, perr := xproto.GetProperty(conn, true, window, b.atoms.property, xproto.GetPropertyTypeAny, 0, (1<<31)-1).Reply()
		if perr != nil {
			return nil, perr
		}
		return append([]byte(nil), reply.Value...), nil
	}
}
