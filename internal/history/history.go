// Package history keeps an undo/redo log of editor commands.
package history

import (
	"errors"
	"fmt"
)

// ErrEmpty is returned when there is nothing to undo or redo.
var ErrEmpty = errors.New("history: nothing to do")

// Command is one reversible edit. Apply re-does the edit after an undo.
type Command interface {
	Label() string
	Apply() error
	Revert() error
}

// Func builds a Command from closures.
type Func struct {
	Name     string
	ApplyFn  func() error
	RevertFn func() error
}

func (f Func) Label() string { return f.Name }

func (f Func) Apply() error {
	if f.ApplyFn == nil {
		return nil
	}
	return f.ApplyFn()
}

func (f Func) Revert() error {
	if f.RevertFn == nil {
		return nil
	}
	return f.RevertFn()
}

// DefaultLimit bounds the number of undoable commands kept.
const DefaultLimit = 100

// Log is a bounded undo stack with a redo stack. Recording a new command
// clears the redo stack.
type Log struct {
	limit  int
	done   []Command
	undone []Command
	// replaying suppresses Record calls made by commands while they run
	replaying bool
}

// New returns a log that keeps at most limit commands; limit <= 0 uses
// DefaultLimit.
func New(limit int) *Log {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Log{limit: limit}
}

// Record appends an already applied command.
func (l *Log) Record(c Command) {
	if l.replaying || c == nil {
		return
	}
	l.done = append(l.done, c)
	if len(l.done) > l.limit {
		l.done = append(l.done[:0:0], l.done[len(l.done)-l.limit:]...)
	}
	l.undone = nil
}

// Replaying reports whether an undo or redo is running.
func (l *Log) Replaying() bool { return l.replaying }

// Undo reverts the most recent command.
func (l *Log) Undo() (string, error) {
	if len(l.done) == 0 {
		return "", ErrEmpty
	}
	c := l.done[len(l.done)-1]
	l.replaying = true
	err := c.Revert()
	l.replaying = false
	if err != nil {
		return c.Label(), fmt.Errorf("undo %s: %w", c.Label(), err)
	}
	l.done = l.done[:len(l.done)-1]
	l.undone = append(l.undone, c)
	return c.Label(), nil
}

// Redo re-applies the most recently undone command.
func (l *Log) Redo() (string, error) {
	if len(l.undone) == 0 {
		return "", ErrEmpty
	}
	c := l.undone[len(l.undone)-1]
	l.replaying = true
	err := c.Apply()
	l.replaying = false
	if err != nil {
		return c.Label(), fmt.Errorf("redo %s: %w", c.Label(), err)
	}
	l.undone = l.undone[:len(l.undone)-1]
	l.done = append(l.done, c)
	return c.Label(), nil
}

// Last returns the most recent undoable command or nil.
func (l *Log) Last() Command {
	if len(l.done) == 0 {
		return nil
	}
	return l.done[len(l.done)-1]
}

// CanUndo reports whether Undo has work.
func (l *Log) CanUndo() bool { return len(l.done) > 0 }

// CanRedo reports whether Redo has work.
func (l *Log) CanRedo() bool { return len(l.undone) > 0 }

// Labels lists the undoable commands, oldest first.
func (l *Log) Labels() []string {
	out := make([]string, len(l.done))
	for i, c := range l.done {
		out[i] = c.Label()
	}
	return out
}

// Clear drops all history.
func (l *Log) Clear() {
	l.done = nil
	l.undone = nil
}
