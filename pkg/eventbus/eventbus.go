package eventbus

import (
	"context"

	"github.com/amirasaad/minibank/pkg/domain/events"
)

// HandlerFunc processes one event. Returned errors are logged by the bus and,
// on external buses, route the message to a dead-letter stream.
type HandlerFunc func(ctx context.Context, e events.Event) error

// Bus defines the contract for publishing and subscribing to domain events.
type Bus interface {
	Emit(ctx context.Context, event events.Event) error
	Register(eventType events.EventType, handler HandlerFunc)
}
