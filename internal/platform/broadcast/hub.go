// Package broadcast fans change messages out to live subscribers such as
// dashboards and SSE streams.
package broadcast

import (
	"context"
	"errors"
	"log/slog"
	"sync"
)

// DefaultBuffer is the per-subscriber channel capacity.
const DefaultBuffer = 16

var ErrClosed = errors.New("broadcast hub closed")

// Hub delivers every message to every subscriber without blocking. A
// subscriber whose buffer is full misses the message.
type Hub struct {
	mu     sync.RWMutex
	subs   map[chan string]struct{}
	buffer int
	closed bool
	logger *slog.Logger
}

type Option func(*Hub)

func WithBuffer(n int) Option {
	return func(h *Hub) {
		if n > 0 {
			h.buffer = n
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(h *Hub) {
		h.logger = logger
	}
}

func NewHub(opts ...Option) *Hub {
	h := &Hub{subs: map[chan string]struct{}{}, buffer: DefaultBuffer}
	for _, opt := range opts {
		if opt != nil {
			opt(h)
		}
	}
	return h
}

// Broadcast publishes message to the current subscribers.
func (h *Hub) Broadcast(ctx context.Context, message string) error {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.closed {
		return ErrClosed
	}
	dropped := 0
	for ch := range h.subs {
		select {
		case ch <- message:
		default:
			dropped++
		}
	}
	if dropped > 0 && h.logger != nil {
		h.logger.LogAttrs(ctx, slog.LevelWarn, "broadcast dropped for slow subscribers",
			slog.String("message", message), slog.Int("dropped", dropped))
	}
	return nil
}

// Subscribe registers a listener until ctx is cancelled, after which the
// returned channel is closed.
func (h *Hub) Subscribe(ctx context.Context) <-chan string {
	ch := make(chan string, h.buffer)
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		close(ch)
		return ch
	}
	h.subs[ch] = struct{}{}
	h.mu.Unlock()

	go func() {
		<-ctx.Done()
		h.remove(ch)
	}()
	return ch
}

// Subscribers reports the number of live subscriptions.
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Close ends every subscription. Later broadcasts fail with ErrClosed.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for ch := range h.subs {
		delete(h.subs, ch)
		close(ch)
	}
}

func (h *Hub) remove(ch chan string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.subs[ch]; ok {
		delete(h.subs, ch)
		close(ch)
	}
}
