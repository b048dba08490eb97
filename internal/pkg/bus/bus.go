package bus

import (
	"sync"
)

// Event is a message delivered to topic subscribers
type Event struct {
	Topic string
	Data  interface{}
}

// Bus is an in-process publish/subscribe channel between UI regions that do
// not share state. Delivery is best-effort: events published on a topic with
// no active subscriber are dropped, and there is no queuing or replay for
// late subscribers.
type Bus struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan Event]struct{}
}

// New creates a new Bus instance
func New() *Bus {
	return &Bus{
		subscribers: make(map[string]map[chan Event]struct{}),
	}
}

// Subscribe registers a subscriber for a topic and returns the event channel
// and a cleanup function that must be invoked on consumer teardown.
func (b *Bus) Subscribe(topic string) (chan Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan Event, 10)

	if b.subscribers[topic] == nil {
		b.subscribers[topic] = make(map[chan Event]struct{})
	}
	b.subscribers[topic][ch] = struct{}{}

	cleanup := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if _, ok := b.subscribers[topic][ch]; !ok {
			return
		}
		delete(b.subscribers[topic], ch)
		close(ch)
		if len(b.subscribers[topic]) == 0 {
			delete(b.subscribers, topic)
		}
	}

	return ch, cleanup
}

// Publish sends an event to all subscribers of a topic
func (b *Bus) Publish(topic string, data interface{}) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if subs, ok := b.subscribers[topic]; ok {
		for ch := range subs {
			select {
			case ch <- Event{Topic: topic, Data: data}:
			default:
				// Skip if channel is full (non-blocking to prevent deadlock)
			}
		}
	}
}

// SubscriberCount returns the number of active subscribers for a topic
func (b *Bus) SubscriberCount(topic string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if subs, ok := b.subscribers[topic]; ok {
		return len(subs)
	}
	return 0
}
