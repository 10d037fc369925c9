package events

import (
	"context"
	"sync"

	"github.com/yukikurage/habit-tracker-api/internal/constants"
	"github.com/yukikurage/habit-tracker-api/internal/metrics"
)

// Bus is an in-process publish/subscribe hub keyed by user id. Publishing never
// blocks: a subscriber whose buffer is full misses the event.
type Bus struct {
	mu     sync.RWMutex
	subs   map[string]map[*Subscription]struct{}
	buffer int
}

// Subscription receives the events of one user until Close is called.
type Subscription struct {
	C <-chan Event

	ch     chan Event
	bus    *Bus
	userID string
	once   sync.Once
}

func NewBus() *Bus {
	return &Bus{
		subs:   make(map[string]map[*Subscription]struct{}),
		buffer: constants.EventBufferSize,
	}
}

func (b *Bus) Subscribe(userID string) *Subscription {
	ch := make(chan Event, b.buffer)
	sub := &Subscription{C: ch, ch: ch, bus: b, userID: userID}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.subs[userID] == nil {
		b.subs[userID] = make(map[*Subscription]struct{})
	}
	b.subs[userID][sub] = struct{}{}
	return sub
}

// Close unregisters the subscription and closes its channel. It is safe to
// call more than once.
func (s *Subscription) Close() {
	s.once.Do(func() {
		b := s.bus
		b.mu.Lock()
		defer b.mu.Unlock()
		if set, ok := b.subs[s.userID]; ok {
			delete(set, s)
			if len(set) == 0 {
				delete(b.subs, s.userID)
			}
		}
		close(s.ch)
	})
}

func (b *Bus) Publish(_ context.Context, event Event) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for sub := range b.subs[event.UserID] {
		select {
		case sub.ch <- event:
		default:
			metrics.EventsDroppedTotal.Inc()
		}
	}
	metrics.EventsPublishedTotal.WithLabelValues(string(event.Kind)).Inc()
	return nil
}

// SubscriberCount reports the number of open subscriptions for userID.
func (b *Bus) SubscriberCount(userID string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[userID])
}
