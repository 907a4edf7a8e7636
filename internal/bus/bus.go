// Package bus is the application-wide publish/subscribe channel for
// untargeted notifications such as "something changed visibility".
package bus

import (
	"sync"

	"tabdeck/internal/logs"
)

// TopicVisibility is published with no payload whenever any element on the
// page is shown or hidden.
const TopicVisibility = "change:visibility"

// Subscriber receives the published arguments.
type Subscriber func(args ...any)

// Publisher is the publishing half of a Bus.
type Publisher interface {
	Publish(topic string, args ...any)
}

// Bus fans published messages out to topic subscribers.
// The zero value is ready to use.
type Bus struct {
	mu     sync.Mutex
	nextID int
	subs   map[string][]entry
}

type entry struct {
	id int
	fn Subscriber
}

// New returns an empty bus.
func New() *Bus { return &Bus{} }

// Subscribe registers fn for topic and returns a func that removes it.
func (b *Bus) Subscribe(topic string, fn Subscriber) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.subs == nil {
		b.subs = make(map[string][]entry)
	}
	b.nextID++
	id := b.nextID
	b.subs[topic] = append(b.subs[topic], entry{id: id, fn: fn})
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		list := b.subs[topic]
		for i, e := range list {
			if e.id == id {
				b.subs[topic] = append(list[:i:i], list[i+1:]...)
				return
			}
		}
	}
}

// Publish calls every subscriber of topic synchronously, in subscription
// order. A panicking subscriber is logged and skipped.
func (b *Bus) Publish(topic string, args ...any) {
	b.mu.Lock()
	list := make([]entry, len(b.subs[topic]))
	copy(list, b.subs[topic])
	b.mu.Unlock()

	for _, e := range list {
		safeCall(topic, func() { e.fn(args...) })
	}
}

// safeCall runs fn with panic recovery. One subscriber failing shouldn't block others.
func safeCall(topic string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			logs.Error("bus subscriber panicked", "topic", topic, "panic", r)
		}
	}()
	fn()
}
