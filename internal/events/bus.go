// Package events provides the in-process publish/subscribe bus that replaces
// the original client-side global event fan-out. Delivery is best-effort: a
// subscriber whose buffer is full misses the event rather than blocking the
// publishing request.
package events

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

type Topic string

const (
	TopicPointsAwarded     Topic = "points.awarded"
	TopicPointsDeducted    Topic = "points.deducted"
	TopicEnrollmentDecided Topic = "enrollment.decided"
	TopicPromotionCreated  Topic = "promotion.created"
)

type Event struct {
	Topic      Topic
	CustomerID uuid.UUID
	BusinessID uuid.UUID
	ProgramID  uuid.UUID
	Points     int
	Approved   bool
	OccurredAt time.Time
}

type Bus struct {
	mu     sync.RWMutex
	subs   map[Topic][]chan Event
	closed bool
}

func NewBus() *Bus {
	return &Bus{
		subs: make(map[Topic][]chan Event),
	}
}

// Subscribe returns a buffered channel receiving events for the given topics.
// The channel is closed when the bus shuts down.
func (b *Bus) Subscribe(topics ...Topic) <-chan Event {
	ch := make(chan Event, 64)

	b.mu.Lock()
	defer b.mu.Unlock()
	for _, topic := range topics {
		b.subs[topic] = append(b.subs[topic], ch)
	}
	return ch
}

// Publish delivers the event to every subscriber of its topic without
// blocking. Events for saturated subscribers are dropped.
func (b *Bus) Publish(ev Event) {
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = time.Now()
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return
	}

	for _, ch := range b.subs[ev.Topic] {
		select {
		case ch <- ev:
		default:
		}
	}
}

// Close shuts the bus down and closes all subscriber channels.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true

	seen := make(map[chan Event]bool)
	for _, chans := range b.subs {
		for _, ch := range chans {
			if !seen[ch] {
				seen[ch] = true
				close(ch)
			}
		}
	}
	b.subs = make(map[Topic][]chan Event)
}
