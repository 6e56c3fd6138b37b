package shared

import "context"

// EventHandler reacts to ledger events after the change that raised them
// has been committed. A handler error is logged by the bus and never rolls
// the change back.
type EventHandler interface {
	Handle(ctx context.Context, event DomainEvent) error
	// EventTypes lists the event types the handler consumes. Nil or empty
	// subscribes it to every type.
	EventTypes() []string
}

// EventPublisher is what the ledger services depend on. Services call
// Publish once per committed operation with the aggregate's pending events.
type EventPublisher interface {
	Publish(ctx context.Context, events ...DomainEvent) error
}

// EventSubscriber registers handlers. Explicit eventTypes override the
// handler's own EventTypes.
type EventSubscriber interface {
	Subscribe(handler EventHandler, eventTypes ...string)
	Unsubscribe(handler EventHandler)
}

// EventBus is owned by the server process: it is started before the
// services accept requests and stopped on shutdown. Publish on a stopped
// bus returns an error.
type EventBus interface {
	EventPublisher
	EventSubscriber
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}
