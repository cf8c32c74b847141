package events

import (
	"sync"

	"github.com/jscyril/playdeck/api"
)

// EventBus handles media event distribution using channels
type EventBus struct {
	subscribers map[api.EventType][]chan api.MediaEvent
	mu          sync.RWMutex
	closed      bool
}

// NewEventBus creates a new event bus
func NewEventBus() *EventBus {
	return &EventBus{
		subscribers: make(map[api.EventType][]chan api.MediaEvent),
	}
}

// Subscribe returns a channel for receiving events of the specified type
func (b *EventBus) Subscribe(eventType api.EventType) <-chan api.MediaEvent {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan api.MediaEvent, 10)
	b.subscribers[eventType] = append(b.subscribers[eventType], ch)
	return ch
}

// SubscribeAll returns a channel for receiving all event types
func (b *EventBus) SubscribeAll() <-chan api.MediaEvent {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan api.MediaEvent, 32)
	for _, eventType := range []api.EventType{
		api.EventTimeUpdate,
		api.EventMetadataLoaded,
		api.EventEnded,
		api.EventError,
	} {
		b.subscribers[eventType] = append(b.subscribers[eventType], ch)
	}
	return ch
}

// Publish broadcasts an event to all subscribers of that event type.
// Ended and metadata events are never dropped; time updates are dropped
// when a subscriber is behind.
func (b *EventBus) Publish(event api.MediaEvent) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return
	}
	for _, ch := range b.subscribers[event.Type] {
		if event.Type == api.EventTimeUpdate {
			select {
			case ch <- event:
			default:
			}
			continue
		}
		ch <- event
	}
}

// Unsubscribe removes a subscriber channel
func (b *EventBus) Unsubscribe(ch <-chan api.MediaEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for eventType, subs := range b.subscribers {
		for i, sub := range subs {
			if sub == ch {
				b.subscribers[eventType] = append(subs[:i], subs[i+1:]...)
				break
			}
		}
	}
}

// Close closes all subscriber channels
func (b *EventBus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true

	// A SubscribeAll channel is registered under every type.
	closed := make(map[chan api.MediaEvent]bool)
	for _, subs := range b.subscribers {
		for _, ch := range subs {
			if !closed[ch] {
				close(ch)
				closed[ch] = true
			}
		}
	}
	b.subscribers = make(map[api.EventType][]chan api.MediaEvent)
}
