package providers

import (
	"context"

	"github.com/zatekoja/saunabooking/internal/domain/entities"
)

// EventBus defines the interface for publishing and subscribing to events
type EventBus interface {
	// Publish publishes an event to all subscribers
	Publish(ctx context.Context, channel string, event *entities.DomainEvent) error

	// Subscribe subscribes to events on a channel until ctx is done
	Subscribe(ctx context.Context, channel string) (<-chan *entities.DomainEvent, error)

	// Close closes the event bus and all subscriptions
	Close() error
}

const (
	// EventChannelBookings carries booking lifecycle events
	EventChannelBookings = "bookings:updates"

	// EventChannelSaunas carries catalog changes
	EventChannelSaunas = "saunas:updates"
)
