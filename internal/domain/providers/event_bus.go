package providers

import (
	"context"

	"github.com/loyaltyscan/backend/internal/domain/entities"
)

// EventBus defines the interface for publishing and subscribing to shop
// events
type EventBus interface {
	// Publish publishes an event to all subscribers
	Publish(ctx context.Context, channel string, event *entities.ShopEvent) error

	// Subscribe subscribes to events on a channel
	Subscribe(ctx context.Context, channel string) (<-chan *entities.ShopEvent, error)

	// Close closes the event bus and all subscriptions
	Close() error
}

// EventChannelShopUpdates carries every shop event: registrations,
// verification changes and recorded visits.
const EventChannelShopUpdates = "shop:updates"
