// Package pointer routes process-wide pointer move and release notifications
// to explicit subscriptions.
package pointer

import (
	"sync"
)

// MoveFunc receives the pointer's horizontal position.
type MoveFunc func(x float64)

// Hub is the process-wide pointer listener registry. The UI feeds it every
// motion and release; drag sessions subscribe for their lifetime.
type Hub struct {
	mu     sync.Mutex
	nextID uint64
	subs   map[uint64]*Subscription
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[uint64]*Subscription)}
}

// Subscription is the handle for one move/release listener pair.
type Subscription struct {
	hub       *Hub
	id        uint64
	onMove    MoveFunc
	onRelease func()
	once      sync.Once
}

// Subscribe registers a listener pair and returns its handle.
func (h *Hub) Subscribe(onMove MoveFunc, onRelease func()) *Subscription {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.nextID++
	sub := &Subscription{hub: h, id: h.nextID, onMove: onMove, onRelease: onRelease}
	h.subs[sub.id] = sub
	return sub
}

// Cancel unregisters the subscription. Only the first call has an effect.
func (s *Subscription) Cancel() {
	s.once.Do(func() {
		s.hub.mu.Lock()
		delete(s.hub.subs, s.id)
		s.hub.mu.Unlock()
	})
}

// Len returns the number of live subscriptions.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// Move notifies every live subscription of a pointer move.
func (h *Hub) Move(x float64) {
	for _, sub := range h.snapshot() {
		if sub.onMove != nil {
			sub.onMove(x)
		}
	}
}

// Release notifies every live subscription of a pointer release.
func (h *Hub) Release() {
	for _, sub := range h.snapshot() {
		if sub.onRelease != nil {
			sub.onRelease()
		}
	}
}

// snapshot copies the listeners so handlers may cancel themselves.
func (h *Hub) snapshot() []*Subscription {
	h.mu.Lock()
	defer h.mu.Unlock()

	subs := make([]*Subscription, 0, len(h.subs))
	for _, sub := range h.subs {
		subs = append(subs, sub)
	}
	return subs
}
