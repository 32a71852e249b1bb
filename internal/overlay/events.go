package overlay

// EventKind names a model change.
type EventKind int

const (
	Added EventKind = iota
	Removed
	Focused
	Blurred
	Moved
	Resized
	Rotated
	TextChanged
	Restyled
)

var eventNames = [...]string{"added", "removed", "focused", "blurred", "moved", "resized", "rotated", "text", "restyled"}

func (k EventKind) String() string {
	if k < 0 || int(k) >= len(eventNames) {
		return "unknown"
	}
	return eventNames[k]
}

// Event reports one change. Element is the state after the change and Prev
// the state before it, for kinds that modify an existing element.
type Event struct {
	Kind    EventKind
	ID      int64
	Element Element
	Prev    Element
}

type subscription struct {
	id int
	fn func(Event)
}

// Subscribe registers fn for every subsequent event. Calling the returned
// function removes the subscription; it is safe to call more than once.
func (m *Model) Subscribe(fn func(Event)) (cancel func()) {
	m.nextID++
	id := m.nextID
	m.subs = append(m.subs, subscription{id: id, fn: fn})
	return func() {
		for i, s := range m.subs {
			if s.id == id {
				m.subs = append(m.subs[:i:i], m.subs[i+1:]...)
				return
			}
		}
	}
}

func (m *Model) notify(ev Event) {
	for _, s := range append([]subscription(nil), m.subs...) {
		s.fn(ev)
	}
}
