package auth

import "sync"

// Identity describes the authenticated user attached to the current session.
type Identity struct {
	UserID      string
	DisplayName string
	Roles       []string
}

// Subscription is a handle returned by Broker.Subscribe.
type Subscription struct {
	broker *Broker
	id     int
}

// Unsubscribe removes the handler. Calling it twice is a no-op.
func (s *Subscription) Unsubscribe() {
	if s == nil || s.broker == nil {
		return
	}
	s.broker.mu.Lock()
	delete(s.broker.handlers, s.id)
	s.broker.mu.Unlock()
}

// Broker fans session state changes out to registered handlers. Handlers
// receive the current identity immediately on subscribe, then exactly once
// per Set or Clear. A nil identity means no user is signed in.
type Broker struct {
	mu       sync.Mutex
	current  *Identity
	nextID   int
	handlers map[int]func(*Identity)
}

func NewBroker() *Broker {
	return &Broker{handlers: make(map[int]func(*Identity))}
}

// Subscribe registers a handler and fires it once with the current state.
func (b *Broker) Subscribe(fn func(*Identity)) *Subscription {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.handlers[id] = fn
	current := b.current
	b.mu.Unlock()

	fn(current)
	return &Subscription{broker: b, id: id}
}

// Set replaces the current identity and notifies all handlers.
func (b *Broker) Set(id Identity) {
	b.mu.Lock()
	b.current = &id
	handlers := b.snapshot()
	b.mu.Unlock()

	for _, fn := range handlers {
		fn(&id)
	}
}

// Clear drops the current identity and notifies all handlers with nil.
func (b *Broker) Clear() {
	b.mu.Lock()
	b.current = nil
	handlers := b.snapshot()
	b.mu.Unlock()

	for _, fn := range handlers {
		fn(nil)
	}
}

// Current returns the identity of the signed-in user, or nil.
func (b *Broker) Current() *Identity {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.current
}

// snapshot copies the handler set so notification runs outside the lock.
// Callers must hold b.mu.
func (b *Broker) snapshot() []func(*Identity) {
	out := make([]func(*Identity), 0, len(b.handlers))
	for _, fn := range b.handlers {
		out = append(out, fn)
	}
	return out
}
