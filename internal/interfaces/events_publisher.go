package interfaces

import "context"

// EventPublisher delivers domain events to the message broker.
type EventPublisher interface {
	Publish(ctx context.Context, topic string, event any) error
}
