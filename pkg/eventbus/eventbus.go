package eventbus

import (
	"context"

	"github.com/saveblue/saveblue/pkg/domain/events"
)

// HandlerFunc reacts to a published event.
type HandlerFunc func(ctx context.Context, event events.Event) error

// Bus publishes domain events after the unit of work that produced them commits.
type Bus interface {
	Emit(ctx context.Context, event events.Event) error
}

// Registrar is implemented by buses that dispatch to in-process handlers.
type Registrar interface {
	Register(eventType events.EventType, handler HandlerFunc)
}
