package gesture

import "slices"

// ListenerID identifies a registered listener. The zero ID is never issued.
type ListenerID uint64

type listener struct {
	id ListenerID
	fn func(Event)
}

// Bus is a synchronous publish/subscribe broadcaster keyed by event kind.
//
// Listeners for a kind run in registration order with the same event value.
// Emit works on a snapshot of the listener list, so listeners added or
// removed by a running listener take effect from the next Emit.
//
// Bus is not safe for concurrent use.
type Bus struct {
	nextID    ListenerID
	listeners map[Kind][]listener
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{listeners: make(map[Kind][]listener)}
}

// On registers fn for events of kind.
func (b *Bus) On(kind Kind, fn func(Event)) ListenerID {
	if fn == nil {
		return 0
	}
	b.nextID++
	b.listeners[kind] = append(b.listeners[kind], listener{id: b.nextID, fn: fn})
	return b.nextID
}

// OnAll registers fn for every kind and returns the IDs in Kinds() order.
func (b *Bus) OnAll(fn func(Event)) []ListenerID {
	kinds := Kinds()
	ids := make([]ListenerID, 0, len(kinds))
	for _, k := range kinds {
		ids = append(ids, b.On(k, fn))
	}
	return ids
}

// Off removes the listener with id. It reports whether it was registered.
func (b *Bus) Off(id ListenerID) bool {
	for kind, ls := range b.listeners {
		for i := range ls {
			if ls[i].id != id {
				continue
			}
			copy(ls[i:], ls[i+1:])
			ls[len(ls)-1] = listener{}
			ls = ls[:len(ls)-1]
			if len(ls) == 0 {
				delete(b.listeners, kind)
			} else {
				b.listeners[kind] = ls
			}
			return true
		}
	}
	return false
}

// Len returns the number of listeners registered for kind.
func (b *Bus) Len(kind Kind) int { return len(b.listeners[kind]) }

// Emit delivers ev to the listeners of its kind.
func (b *Bus) Emit(ev Event) {
	ls := b.listeners[ev.Kind()]
	if len(ls) == 0 {
		return
	}
	for _, l := range slices.Clone(ls) {
		l.fn(ev)
	}
}
