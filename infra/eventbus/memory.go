// Package eventbus provides the in-memory event bus implementation.
package eventbus

import (
	"context"
	"log/slog"
	"sync"

	"github.com/dkarpov/playerledger/pkg/eventbus"
)

// MemoryEventBus is a simple in-memory implementation of eventbus.Bus.
// Handlers run synchronously on the publisher's goroutine.
type MemoryEventBus struct {
	mu        sync.RWMutex
	handlers  map[string][]eventbus.HandlerFunc
	published []eventbus.Event
	logger    *slog.Logger
}

// NewMemory creates a new in-memory event bus.
func NewMemory(logger *slog.Logger) *MemoryEventBus {
	return &MemoryEventBus{
		handlers: make(map[string][]eventbus.HandlerFunc),
		logger:   logger.With("bus", "memory"),
	}
}

var _ eventbus.Bus = (*MemoryEventBus)(nil)

// Subscribe registers a handler for a specific event type.
func (b *MemoryEventBus) Subscribe(eventType string, handler eventbus.HandlerFunc) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[eventType] = append(b.handlers[eventType], handler)
}

// Publish dispatches the event to all handlers registered for its type.
func (b *MemoryEventBus) Publish(ctx context.Context, event eventbus.Event) error {
	b.mu.RLock()
	handlers := b.handlers[event.Type()]
	b.mu.RUnlock()

	b.mu.Lock()
	b.published = append(b.published, event)
	b.mu.Unlock()

	for _, handler := range handlers {
		handler(ctx, event)
	}
	return nil
}

// Published returns all events seen by the bus. Useful for testing.
func (b *MemoryEventBus) Published() []eventbus.Event {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]eventbus.Event, len(b.published))
	copy(out, b.published)
	return out
}
