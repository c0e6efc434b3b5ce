package application

import (
	"context"

	"github.com/intesigroup/user-registry/internal/domain/entity"
)

// EventPublisher is the fire-and-forget notifier boundary. Publish may fail;
// the service absorbs the failure and never lets it affect the operation
// outcome.
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, body any) error
}

// UserCreatedEvent is the payload published once per successful creation.
type UserCreatedEvent struct {
	ID    string        `json:"id"`
	Email string        `json:"email"`
	Roles []entity.Role `json:"roles"`
}

// RoutingKeyUserCreated is the routing key for creation events on the user
// events topic exchange.
const RoutingKeyUserCreated = "user.created"
