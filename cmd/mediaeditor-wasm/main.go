//go:build js && wasm

// Browser host for the editor.
// Compiled with: GOOS=js GOARCH=wasm go build -o mediaeditor.wasm ./cmd/mediaeditor-wasm/
package main

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"strconv"
	"syscall/js"

	"github.com/example/mediaeditor/internal/editor"
	"github.com/example/mediaeditor/internal/filter"
	"github.com/example/mediaeditor/internal/overlay"
	"github.com/example/mediaeditor/internal/paint"
	_ "golang.org/x/image/webp"
)

// host owns the single editor a page works with. JS callbacks run on the
// event loop one at a time, so no locking is needed.
type host struct {
	ed       *editor.Editor
	stickers *overlay.MemorySource
	onSave   js.Value
	onClose  js.Value
	onFrame  js.Value
	raf      js.Func
	ticking  bool
}

func main() {
	fmt.Println("mediaeditor WASM loaded")
	h := &host{stickers: overlay.NewMemorySource()}

	api := map[string]func(args []js.Value) any{
		"open":       h.open,
		"close":      h.close,
		"selectTab":  h.selectTab,
		"setFilter":  h.setFilter,
		"setFilters": h.setFilters,
		"pointer":    h.pointer,
		"typeText":   h.typeText,
		"backspace":  h.backspace,
		"commit":     h.commit,
		"delete":     h.deleteFocused,
		"setBrush":   h.setBrush,
		"setText":    h.setTextStyle,
		"addText":    h.addText,
		"addSticker": h.addSticker,
		"sticker":    h.registerSticker,
		"undo":       h.undo,
		"redo":       h.redo,
		"frame":      h.frame,
		"export":     h.export,
		"save":       h.save,
	}
	obj := js.Global().Get("Object").New()
	for name, fn := range api {
		obj.Set(name, js.FuncOf(func(this js.Value, args []js.Value) any { return fn(args) }))
	}
	js.Global().Set("mediaEditor", obj)
	js.Global().Set("mediaEditorReady", js.ValueOf(true))

	// Block forever (WASM must not exit).
	select {}
}

func errorValue(format string, args ...any) any {
	return js.ValueOf("error: " + fmt.Sprintf(format, args...))
}

func (h *host) current() (*editor.Editor, bool) {
	return h.ed, h.ed != nil && !h.ed.Closed()
}

func bytesArg(v js.Value) []byte {
	buf := make([]byte, v.Get("length").Int())
	js.CopyBytesToGo(buf, v)
	return buf
}

func bytesValue(b []byte) js.Value {
	arr := js.Global().Get("Uint8Array").New(len(b))
	js.CopyBytesToJS(arr, b)
	return arr
}

// open(bytes, width, height, {onSave, onClose, onFrame}) decodes an image
// and starts a session sized to the viewport.
func (h *host) open(args []js.Value) any {
	if len(args) < 3 {
		return errorValue("need image bytes, width, height")
	}
	src, _, err := image.Decode(bytes.NewReader(bytesArg(args[0])))
	if err != nil {
		return errorValue("decode image: %v", err)
	}
	h.close(nil)
	h.onSave, h.onClose, h.onFrame = js.Undefined(), js.Undefined(), js.Undefined()
	if len(args) > 3 && args[3].Type() == js.TypeObject {
		h.onSave, h.onClose, h.onFrame = args[3].Get("onSave"), args[3].Get("onClose"), args[3].Get("onFrame")
	}
	ed, err := editor.Open(src,
		editor.WithViewport(args[1].Int(), args[2].Int()),
		editor.WithStickerSource(h.stickers),
		editor.OnSave(func(data []byte) {
			if h.onSave.Type() == js.TypeFunction {
				h.onSave.Invoke(bytesValue(data))
			}
		}),
		editor.OnClose(func() {
			if h.onClose.Type() == js.TypeFunction {
				h.onClose.Invoke()
			}
		}),
	)
	if err != nil {
		return errorValue("%v", err)
	}
	h.ed = ed
	h.startFrames()
	b := ed.Bounds()
	return map[string]any{"width": b.Dx(), "height": b.Dy(), "degraded": ed.Degraded()}
}

// startFrames ticks the editor once per animation frame and calls onFrame
// when the filter surface was redrawn. The loop stops when the editor closes.
func (h *host) startFrames() {
	if !h.raf.Truthy() {
		h.raf = js.FuncOf(func(this js.Value, args []js.Value) any {
			ed, ok := h.current()
			if !ok {
				h.ticking = false
				return nil
			}
			if ed.Tick() && h.onFrame.Type() == js.TypeFunction {
				h.onFrame.Invoke()
			}
			js.Global().Call("requestAnimationFrame", h.raf)
			return nil
		})
	}
	if !h.ticking {
		h.ticking = true
		js.Global().Call("requestAnimationFrame", h.raf)
	}
}

func (h *host) close(args []js.Value) any {
	if h.ed != nil {
		if err := h.ed.Close(); err != nil {
			return errorValue("%v", err)
		}
	}
	return js.ValueOf("ok")
}

func (h *host) selectTab(args []js.Value) any {
	ed, ok := h.current()
	if !ok || len(args) < 1 {
		return errorValue("no editor or tab")
	}
	name := args[0].String()
	for _, t := range editor.Tabs() {
		if t.String() == name || strconv.Itoa(int(t)) == name {
			if err := ed.SelectTab(t); err != nil {
				return errorValue("%v", err)
			}
			return js.ValueOf("ok")
		}
	}
	return errorValue("unknown tab %q", name)
}

func (h *host) setFilter(args []js.Value) any {
	ed, ok := h.current()
	if !ok || len(args) < 2 {
		return errorValue("need name, value")
	}
	if err := ed.SetFilter(args[0].String(), args[1].Float()); err != nil {
		return errorValue("%v", err)
	}
	return js.ValueOf("ok")
}

// setFilters("brightness=20,warmth=-10") replaces every channel.
func (h *host) setFilters(args []js.Value) any {
	ed, ok := h.current()
	if !ok || len(args) < 1 {
		return errorValue("need assignments")
	}
	s, err := filter.ParseAssignments(args[0].String())
	if err != nil {
		return errorValue("%v", err)
	}
	if err := ed.SetFilters(s); err != nil {
		return errorValue("%v", err)
	}
	return js.ValueOf("ok")
}

// pointer(kind, x, y, {shiftKey, altKey, ctrlKey}) routes a pointer event
// in surface coordinates and reports whether it was consumed.
func (h *host) pointer(args []js.Value) any {
	ed, ok := h.current()
	if !ok || len(args) < 3 {
		return false
	}
	var mods editor.Modifiers
	if len(args) > 3 && args[3].Type() == js.TypeObject {
		if args[3].Get("shiftKey").Truthy() {
			mods |= editor.ModShift
		}
		if args[3].Get("altKey").Truthy() {
			mods |= editor.ModAlt
		}
		if args[3].Get("ctrlKey").Truthy() {
			mods |= editor.ModControl
		}
	}
	x, y := args[1].Float(), args[2].Float()
	switch args[0].String() {
	case "down":
		return ed.PointerDown(x, y, mods)
	case "move":
		return ed.PointerMove(x, y, mods)
	case "up":
		return ed.PointerUp(x, y, mods)
	}
	return false
}

func (h *host) typeText(args []js.Value) any {
	ed, ok := h.current()
	if !ok || len(args) < 1 {
		return false
	}
	changed := false
	for _, r := range args[0].String() {
		changed = ed.TypeRune(r) || changed
	}
	return changed
}

func (h *host) backspace(args []js.Value) any {
	ed, ok := h.current()
	return ok && ed.Backspace()
}

func (h *host) commit(args []js.Value) any {
	ed, ok := h.current()
	return ok && ed.Commit()
}

func (h *host) deleteFocused(args []js.Value) any {
	ed, ok := h.current()
	return ok && ed.DeleteFocused()
}

// setBrush(type, color, size)
func (h *host) setBrush(args []js.Value) any {
	ed, ok := h.current()
	if !ok || len(args) < 3 {
		return errorValue("need type, color, size")
	}
	t, err := paint.ParseBrushType(args[0].String())
	if err != nil {
		return errorValue("%v", err)
	}
	if err := ed.SetBrush(paint.Brush{Type: t, Color: args[1].String(), Size: args[2].Int()}); err != nil {
		return errorValue("%v", err)
	}
	return js.ValueOf("ok")
}

// setText({font, size, color, frame, align}) changes the text style. Missing
// keys keep their value.
func (h *host) setTextStyle(args []js.Value) any {
	ed, ok := h.current()
	if !ok || len(args) < 1 || args[0].Type() != js.TypeObject {
		return errorValue("need a style object")
	}
	s := ed.TextStyle()
	o := args[0]
	if v := o.Get("font"); v.Type() == js.TypeString {
		f, ok := overlay.LookupFont(v.String())
		if !ok {
			return errorValue("unknown font %q", v.String())
		}
		s.Font = f
	}
	if v := o.Get("size"); v.Type() == js.TypeNumber {
		s.Size = v.Int()
	}
	if v := o.Get("color"); v.Type() == js.TypeString {
		s.Color = v.String()
	}
	if v := o.Get("frame"); v.Type() == js.TypeString {
		f, err := overlay.ParseFrame(v.String())
		if err != nil {
			return errorValue("%v", err)
		}
		s.Frame = f
	}
	if v := o.Get("align"); v.Type() == js.TypeString {
		a, err := overlay.ParseAlign(v.String())
		if err != nil {
			return errorValue("%v", err)
		}
		s.Align = a
	}
	if err := ed.SetTextStyle(s); err != nil {
		return errorValue("%v", err)
	}
	return js.ValueOf("ok")
}

func (h *host) addText(args []js.Value) any {
	ed, ok := h.current()
	if !ok || len(args) < 2 {
		return errorValue("need x, y")
	}
	id, err := ed.AddText(args[0].Float(), args[1].Float())
	if err != nil {
		return errorValue("%v", err)
	}
	return js.ValueOf(float64(id))
}

// addSticker(id) places a registered sticker. A sticker that fails to load
// is still placed as a placeholder.
func (h *host) addSticker(args []js.Value) any {
	ed, ok := h.current()
	if !ok || len(args) < 1 {
		return errorValue("need sticker id")
	}
	id, err := ed.AddSticker(context.Background(), args[0].String())
	if err != nil {
		js.Global().Get("console").Call("warn", err.Error())
	}
	return js.ValueOf(float64(id))
}

// sticker(collection, id, bytes) registers a sticker image.
func (h *host) registerSticker(args []js.Value) any {
	if len(args) < 3 {
		return errorValue("need collection, id, image bytes")
	}
	img, _, err := image.Decode(bytes.NewReader(bytesArg(args[2])))
	if err != nil {
		return errorValue("decode sticker: %v", err)
	}
	h.stickers.Add(args[0].String(), args[1].String(), img)
	return js.ValueOf("ok")
}

func (h *host) undo(args []js.Value) any {
	ed, ok := h.current()
	if !ok {
		return errorValue("no editor")
	}
	label, err := ed.Undo()
	if err != nil {
		return errorValue("%v", err)
	}
	return js.ValueOf(label)
}

func (h *host) redo(args []js.Value) any {
	ed, ok := h.current()
	if !ok {
		return errorValue("no editor")
	}
	label, err := ed.Redo()
	if err != nil {
		return errorValue("%v", err)
	}
	return js.ValueOf(label)
}

// frame() returns {width, height, pixels} for an ImageData.
func (h *host) frame(args []js.Value) any {
	ed, ok := h.current()
	if !ok {
		return errorValue("no editor")
	}
	img, err := ed.Frame()
	if err != nil {
		return errorValue("%v", err)
	}
	b := img.Bounds()
	pixels := js.Global().Get("Uint8ClampedArray").New(len(img.Pix))
	js.CopyBytesToJS(pixels, img.Pix)
	return map[string]any{"width": b.Dx(), "height": b.Dy(), "pixels": pixels}
}

func (h *host) export(args []js.Value) any {
	ed, ok := h.current()
	if !ok {
		return errorValue("no editor")
	}
	data, err := ed.Export()
	if err != nil {
		return errorValue("%v", err)
	}
	return bytesValue(data)
}

// save flattens once and hands the PNG to onSave.
func (h *host) save(args []js.Value) any {
	ed, ok := h.current()
	if !ok {
		return errorValue("no editor")
	}
	data, err := ed.Save()
	if err != nil {
		return errorValue("%v", err)
	}
	return bytesValue(data)
}
