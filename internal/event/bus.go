package event

import (
	"log/slog"
	"sync"
)

// Listener receives events synchronously. A listener must not assume it is
// the only subscriber for a type.
type Listener func(Event)

// ListenerID identifies a registered listener so it can be removed later.
type ListenerID int64

type subscription struct {
	id ListenerID
	fn Listener
}

// Bus is a typed publish/subscribe dispatcher. Emit delivers synchronously
// to the listeners of the event's type in registration order. A panicking
// listener is isolated and logged; delivery to the remaining listeners
// continues.
type Bus struct {
	mutex     sync.RWMutex
	nextID    ListenerID
	listeners map[Type][]subscription
	logger    *slog.Logger
}

func NewBus(logger *slog.Logger) *Bus {
	return &Bus{
		listeners: make(map[Type][]subscription),
		logger:    logger,
	}
}

// Subscribe registers a listener for the given event type and returns an ID
// usable with Unsubscribe.
func (b *Bus) Subscribe(t Type, fn Listener) ListenerID {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	b.nextID++
	b.listeners[t] = append(b.listeners[t], subscription{id: b.nextID, fn: fn})
	return b.nextID
}

// Unsubscribe removes the listener with the given ID from the given type.
// Returns false if no such listener is registered.
func (b *Bus) Unsubscribe(t Type, id ListenerID) bool {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	subs := b.listeners[t]
	for i, sub := range subs {
		if sub.id == id {
			b.listeners[t] = append(subs[:i:i], subs[i+1:]...)
			return true
		}
	}

	return false
}

// Emit dispatches the event to every listener registered for its type,
// in registration order.
func (b *Bus) Emit(ev Event) {
	b.mutex.RLock()
	subs := make([]subscription, len(b.listeners[ev.Type]))
	copy(subs, b.listeners[ev.Type])
	b.mutex.RUnlock()

	for _, sub := range subs {
		b.dispatch(sub, ev)
	}
}

func (b *Bus) dispatch(sub subscription, ev Event) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("event listener panicked",
				slog.String("event_type", string(ev.Type)),
				slog.Int64("listener_id", int64(sub.id)),
				slog.Any("panic", r))
		}
	}()

	sub.fn(ev)
}
