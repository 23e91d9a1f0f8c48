// Package stream implements fan-out event streams with independently
// cancellable subscriptions.
//
// Every subscriber gets the complete, ordered sequence of values published
// after it subscribed: publishing never blocks and never drops, values are
// queued per subscriber and handed out by a dedicated goroutine.
package stream

import (
	"sync"

	"github.com/samber/mo"
)

// Hub publishes values to all current subscribers.
type Hub[T any] struct {
	mu     sync.Mutex
	subs   map[*Subscription[T]]struct{}
	last   mo.Option[T]
	replay bool
	closed bool
}

// NewHub returns a hub that delivers only values published after subscription.
func NewHub[T any]() *Hub[T] {
	return &Hub[T]{subs: make(map[*Subscription[T]]struct{})}
}

// NewReplayHub returns a hub that also hands the latest value to new subscribers.
func NewReplayHub[T any](initial T) *Hub[T] {
	return &Hub[T]{
		subs:   make(map[*Subscription[T]]struct{}),
		last:   mo.Some(initial),
		replay: true,
	}
}

// Publish queues v for every subscriber.
func (h *Hub[T]) Publish(v T) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}

	if h.replay {
		h.last = mo.Some(v)
	}

	for s := range h.subs {
		s.push(v)
	}
}

// Latest is the most recently published value of a replay hub.
func (h *Hub[T]) Latest() mo.Option[T] {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.last
}

// Subscribe attaches a new subscriber.
func (h *Hub[T]) Subscribe() *Subscription[T] {
	return h.SubscribeWith()
}

// SubscribeWith attaches a new subscriber that first receives backlog, ahead
// of anything published later. Other subscribers do not see the backlog.
func (h *Hub[T]) SubscribeWith(backlog ...T) *Subscription[T] {
	s := newSubscription[T](h.remove)

	h.mu.Lock()
	defer h.mu.Unlock()

	if v, ok := h.last.Get(); ok && h.replay {
		s.push(v)
	}
	for _, v := range backlog {
		s.push(v)
	}

	if h.closed {
		s.end()
		return s
	}

	h.subs[s] = struct{}{}
	return s
}

// Len is the number of attached subscribers.
func (h *Hub[T]) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// Close ends every subscription once its queued values are delivered.
// Later Publish calls are ignored.
func (h *Hub[T]) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.closed = true

	for s := range h.subs {
		s.end()
	}
	h.subs = nil
}

func (h *Hub[T]) remove(s *Subscription[T]) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.subs, s)
}
