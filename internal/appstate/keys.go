package appstate

import (
	"unicode"

	"github.com/example/mediaeditor/internal/editor"
	"golang.org/x/mobile/event/key"
)

// KeyShortcut describes a keyboard combination that triggers an action.
type KeyShortcut struct {
	Rune      rune
	Code      key.Code
	Modifiers key.Modifiers
}

// KeyboardShortcuts returns the shortcuts associated with an action.
type KeyboardShortcuts interface {
	KeyboardShortcuts() []KeyShortcut
}

// shortcutList is a helper to easily satisfy the KeyboardShortcuts interface.
type shortcutList []KeyShortcut

func (s shortcutList) KeyboardShortcuts() []KeyShortcut { return []KeyShortcut(s) }

// shortcutOf normalises a key event for lookup. Letters are matched
// case-insensitively; Shift stays part of the modifiers.
func shortcutOf(e key.Event) KeyShortcut {
	return KeyShortcut{Rune: unicode.ToLower(e.Rune), Code: e.Code, Modifiers: e.Modifiers}
}

// actions maps shortcut names to handlers and key combinations to names.
type actions struct {
	byName map[string]func()
	byKey  map[KeyShortcut]string
}

func newActions() *actions {
	return &actions{byName: map[string]func(){}, byKey: map[KeyShortcut]string{}}
}

func (a *actions) register(name string, keys KeyboardShortcuts, fn func()) {
	a.byName[name] = fn
	if keys == nil {
		return
	}
	for _, sc := range keys.KeyboardShortcuts() {
		a.byKey[sc] = name
	}
}

// lookup returns the action bound to e.
func (a *actions) lookup(e key.Event) (string, bool) {
	name, ok := a.byKey[shortcutOf(e)]
	return name, ok
}

// run invokes the named action and reports whether it exists.
func (a *actions) run(name string) bool {
	fn, ok := a.byName[name]
	if ok {
		fn()
	}
	return ok
}

// Default shortcuts.
var (
	saveKeys  = shortcutList{{Rune: 's', Modifiers: key.ModControl}}
	copyKeys  = shortcutList{{Rune: 'c', Modifiers: key.ModControl}}
	pasteKeys = shortcutList{{Rune: 'v', Modifiers: key.ModControl}}
	undoKeys  = shortcutList{{Rune: 'z', Modifiers: key.ModControl}}
	redoKeys  = shortcutList{
		{Rune: 'z', Modifiers: key.ModControl | key.ModShift},
		{Rune: 'y', Modifiers: key.ModControl},
	}
	quitKeys = shortcutList{
		{Rune: 'q', Modifiers: key.ModControl},
		{Rune: 'w', Modifiers: key.ModControl},
	}
)

// modifiers converts window modifiers to editor modifiers.
func modifiers(m key.Modifiers) editor.Modifiers {
	var out editor.Modifiers
	if m&key.ModShift != 0 {
		out |= editor.ModShift
	}
	if m&key.ModAlt != 0 {
		out |= editor.ModAlt
	}
	if m&key.ModControl != 0 {
		out |= editor.ModControl
	}
	return out
}

// tabForDigit maps '1'..'5' to the tab in bar order.
func tabForDigit(r rune) (editor.Tab, bool) {
	tabs := editor.Tabs()
	i := int(r - '1')
	if i < 0 || i >= len(tabs) {
		return 0, false
	}
	return tabs[i], true
}
