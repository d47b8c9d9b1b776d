// Package eventbus defines the contract for publishing and subscribing to
// domain events.
package eventbus

import "context"

// Event is the marker interface for all domain events.
type Event interface {
	Type() string
}

// HandlerFunc handles one event occurrence.
type HandlerFunc func(ctx context.Context, event Event)

// Bus publishes events to subscribed handlers.
type Bus interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType string, handler HandlerFunc)
}
