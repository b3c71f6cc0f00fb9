package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/loyaltyscan/backend/internal/domain/entities"
	"github.com/loyaltyscan/backend/internal/domain/providers"
	redisclient "github.com/loyaltyscan/backend/internal/infrastructure/clients/redis"
)

const subscriberBuffer = 100

// subscription tracks one Redis pub/sub channel and its local fan-out set
type subscription struct {
	pubsub    *redis.PubSub
	listeners map[chan *entities.ShopEvent]struct{}
}

// RedisEventBus carries shop events over Redis Pub/Sub so cache invalidation
// works across instances, not just in the process that recorded the visit.
type RedisEventBus struct {
	client *redisclient.Client

	mu   sync.Mutex
	subs map[string]*subscription

	ctx    context.Context
	cancel context.CancelFunc
}

// NewRedisEventBus creates a new Redis-backed event bus
func NewRedisEventBus(client *redisclient.Client) providers.EventBus {
	ctx, cancel := context.WithCancel(context.Background())
	return &RedisEventBus{
		client: client,
		subs:   make(map[string]*subscription),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Publish sends an event to everyone subscribed on the channel
func (b *RedisEventBus) Publish(ctx context.Context, channel string, event *entities.ShopEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal shop event: %w", err)
	}

	if err := b.client.Client().Publish(ctx, channel, data).Err(); err != nil {
		return fmt.Errorf("failed to publish shop event: %w", err)
	}

	log.Debug().Str("channel", channel).Str("event_id", event.ID).Msg("published shop event")
	return nil
}

// Subscribe returns a channel of events. The subscription ends when ctx is
// cancelled; the returned channel is closed at that point.
func (b *RedisEventBus) Subscribe(ctx context.Context, channel string) (<-chan *entities.ShopEvent, error) {
	events := make(chan *entities.ShopEvent, subscriberBuffer)

	b.mu.Lock()
	sub, ok := b.subs[channel]
	if !ok {
		sub = &subscription{
			pubsub:    b.client.Client().Subscribe(b.ctx, channel),
			listeners: make(map[chan *entities.ShopEvent]struct{}),
		}
		b.subs[channel] = sub
		go b.fanOut(channel, sub.pubsub)
	}
	sub.listeners[events] = struct{}{}
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.drop(channel, events)
	}()

	return events, nil
}

// fanOut decodes messages from Redis and delivers them to local listeners.
// A listener that cannot keep up loses events rather than blocking the rest.
func (b *RedisEventBus) fanOut(channel string, pubsub *redis.PubSub) {
	defer b.teardown(channel)

	messages := pubsub.Channel()
	for {
		select {
		case <-b.ctx.Done():
			return
		case msg, ok := <-messages:
			if !ok {
				return
			}

			var event entities.ShopEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				log.Warn().Err(err).Str("channel", channel).Msg("failed to unmarshal shop event")
				continue
			}

			b.mu.Lock()
			if sub, ok := b.subs[channel]; ok {
				for listener := range sub.listeners {
					select {
					case listener <- &event:
					default:
						log.Warn().Str("channel", channel).Str("event_id", event.ID).
							Msg("event listener full, dropping event")
					}
				}
			}
			b.mu.Unlock()
		}
	}
}

// drop removes a single listener, closing the Redis subscription when the
// last one leaves
func (b *RedisEventBus) drop(channel string, events chan *entities.ShopEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()

	sub, ok := b.subs[channel]
	if !ok {
		return
	}
	if _, ok := sub.listeners[events]; !ok {
		return
	}

	delete(sub.listeners, events)
	close(events)

	if len(sub.listeners) == 0 {
		_ = sub.pubsub.Close()
		delete(b.subs, channel)
	}
}

// teardown closes every listener on a channel and the Redis subscription
func (b *RedisEventBus) teardown(channel string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	sub, ok := b.subs[channel]
	if !ok {
		return
	}

	for listener := range sub.listeners {
		close(listener)
	}
	if err := sub.pubsub.Close(); err != nil {
		log.Warn().Err(err).Str("channel", channel).Msg("failed to close subscription")
	}
	delete(b.subs, channel)
}

// Close shuts down the bus and all subscriptions
func (b *RedisEventBus) Close() error {
	b.cancel()

	b.mu.Lock()
	channels := make([]string, 0, len(b.subs))
	for channel := range b.subs {
		channels = append(channels, channel)
	}
	b.mu.Unlock()

	for _, channel := range channels {
		b.teardown(channel)
	}
	return nil
}
