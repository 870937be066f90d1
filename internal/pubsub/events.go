// Package pubsub provides a generic publish/subscribe event system used for
// log fan-out and render/store notifications.
package pubsub

import (
	"context"
	"time"
)

// EventType represents the type of event being published.
type EventType string

const (
	// LogLineEvent carries one formatted log line.
	LogLineEvent EventType = "log-line"
	// RenderedEvent is published after a batch render completes.
	RenderedEvent EventType = "rendered"
	// StoreChangedEvent is published when a document blob is rewritten.
	StoreChangedEvent EventType = "store-changed"
)

// Event represents a published event with a typed payload.
type Event[T any] struct {
	Type      EventType
	Payload   T
	Timestamp time.Time
}

// Subscriber provides a subscription channel for events.
type Subscriber[T any] interface {
	Subscribe(ctx context.Context) <-chan Event[T]
}

// Publisher allows publishing events with a typed payload.
type Publisher[T any] interface {
	Publish(eventType EventType, payload T)
}
