package gateway

import "sync"

type subscriber[T any] struct {
	id uint64
	fn func(T)
}

// bus fans out to subscribers in subscription order. Handlers run on the
// reader goroutine, so a slow handler delays the next frame.
type bus struct {
	mu     sync.RWMutex
	nextID uint64
	events []subscriber[Event]
	raw    []subscriber[Frame]
}

func (b *bus) subscribe(fn func(Event)) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	id := b.nextID
	b.events = append(b.events, subscriber[Event]{id: id, fn: fn})
	return func() { b.remove(id) }
}

func (b *bus) subscribeRaw(fn func(Frame)) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	id := b.nextID
	b.raw = append(b.raw, subscriber[Frame]{id: id, fn: fn})
	return func() { b.remove(id) }
}

func (b *bus) remove(id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = without(b.events, id)
	b.raw = without(b.raw, id)
}

func without[T any](subs []subscriber[T], id uint64) []subscriber[T] {
	out := make([]subscriber[T], 0, len(subs))
	for _, s := range subs {
		if s.id != id {
			out = append(out, s)
		}
	}
	return out
}

func (b *bus) publish(ev Event) {
	b.mu.RLock()
	subs := b.events
	b.mu.RUnlock()
	for _, s := range subs {
		s.fn(ev)
	}
}

func (b *bus) publishRaw(frame Frame) {
	b.mu.RLock()
	subs := b.raw
	b.mu.RUnlock()
	for _, s := range subs {
		s.fn(frame)
	}
}

// Subscribe registers fn for every typed event. The returned func removes it.
func (s *Session) Subscribe(fn func(Event)) (unsubscribe func()) {
	return s.bus.subscribe(fn)
}

// OnRaw registers fn for every frame after hello, typed or not.
func (s *Session) OnRaw(fn func(Frame)) (unsubscribe func()) {
	return s.bus.subscribeRaw(fn)
}

// On registers fn for events of type E only.
func On[E Event](s *Session, fn func(E)) (unsubscribe func()) {
	return s.Subscribe(func(ev Event) {
		if typed, ok := ev.(E); ok {
			fn(typed)
		}
	})
}
