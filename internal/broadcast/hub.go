// Package broadcast provides a typed, ordered multi-consumer hub. It carries
// the native event channel as well as the host facing notification streams.
//
// Publish never drops: it waits until every live subscriber has buffered the
// value, so all subscribers observe the identical sequence. A subscriber that
// stops reading must Close, otherwise it eventually stalls Publish once its
// buffer is full. TryPublish never waits and drops the value for subscribers
// whose buffer is full instead.
package broadcast

import (
	"context"
	"sync"
)

// DefaultBufferSize is the per-subscriber buffer used when none is configured.
const DefaultBufferSize = 64

// Hub fans values of type T out to every subscriber. Safe for concurrent use.
type Hub[T any] struct {
	mu         sync.RWMutex
	pubMu      sync.Mutex // serializes Publish to keep one global order
	subs       map[*Subscriber[T]]struct{}
	bufferSize int
	closed     bool
}

// NewHub creates a hub whose subscribers buffer up to bufferSize values.
func NewHub[T any](bufferSize int) *Hub[T] {
	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}
	return &Hub[T]{
		subs:       make(map[*Subscriber[T]]struct{}),
		bufferSize: bufferSize,
	}
}

// Subscriber receives the values published after it subscribed.
type Subscriber[T any] struct {
	ch   chan T
	done chan struct{}
	once sync.Once
	hub  *Hub[T]
}

// C delivers values in publish order. It is never closed; use Done to learn
// that the subscription ended.
func (s *Subscriber[T]) C() <-chan T { return s.ch }

// Done is closed once the subscription has been closed.
func (s *Subscriber[T]) Done() <-chan struct{} { return s.done }

// Close detaches the subscriber from its hub. It is idempotent.
func (s *Subscriber[T]) Close() error {
	s.once.Do(func() {
		close(s.done)
		if s.hub != nil {
			s.hub.remove(s)
		}
	})
	return nil
}

// Subscribe registers a new subscriber. The subscription is closed
// automatically when ctx is cancelled. Subscribing to a closed hub returns an
// already closed subscriber.
func (h *Hub[T]) Subscribe(ctx context.Context) *Subscriber[T] {
	sub := &Subscriber[T]{
		ch:   make(chan T, h.bufferSize),
		done: make(chan struct{}),
		hub:  h,
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		_ = sub.Close()
		return sub
	}
	h.subs[sub] = struct{}{}
	h.mu.Unlock()

	if ctx.Done() != nil {
		go func() {
			select {
			case <-ctx.Done():
				_ = sub.Close()
			case <-sub.done:
			}
		}()
	}
	return sub
}

// Publish delivers v to every current subscriber, waiting for buffer space
// where needed. It returns ctx.Err() if ctx ends before delivery completed.
// Publishing on a closed hub is a no-op.
func (h *Hub[T]) Publish(ctx context.Context, v T) error {
	h.pubMu.Lock()
	defer h.pubMu.Unlock()

	h.mu.RLock()
	if h.closed {
		h.mu.RUnlock()
		return nil
	}
	subs := make([]*Subscriber[T], 0, len(h.subs))
	for s := range h.subs {
		subs = append(subs, s)
	}
	h.mu.RUnlock()

	for _, s := range subs {
		select {
		case s.ch <- v:
		case <-s.done:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// TryPublish delivers v to every subscriber with buffer space and returns the
// number of subscribers it was dropped for.
func (h *Hub[T]) TryPublish(v T) int {
	h.pubMu.Lock()
	defer h.pubMu.Unlock()

	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.closed {
		return 0
	}

	dropped := 0
	for s := range h.subs {
		select {
		case s.ch <- v:
		default:
			dropped++
		}
	}
	return dropped
}

// Len reports the number of live subscribers.
func (h *Hub[T]) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Close closes every subscriber. Further Publish calls are no-ops.
func (h *Hub[T]) Close() error {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil
	}
	h.closed = true
	subs := make([]*Subscriber[T], 0, len(h.subs))
	for s := range h.subs {
		subs = append(subs, s)
	}
	clear(h.subs)
	h.mu.Unlock()

	for _, s := range subs {
		_ = s.Close()
	}
	return nil
}

func (h *Hub[T]) remove(s *Subscriber[T]) {
	h.mu.Lock()
	delete(h.subs, s)
	h.mu.Unlock()
}
