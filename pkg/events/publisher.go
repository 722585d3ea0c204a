package events

import "context"

// Publisher hands events to the message bus. Implementations must not block
// the caller on broker I/O.
type Publisher interface {
	Publish(ctx context.Context, evt Event) error
}

// Noop drops every event; used when no broker is configured.
type Noop struct{}

func (Noop) Publish(context.Context, Event) error { return nil }
