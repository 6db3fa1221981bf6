package broker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/zizouhuweidi/trivia/internal/domain"
	"go.uber.org/zap"
)

// EventsChannel is the Redis channel question events are published on
const EventsChannel = "trivia:events"

// Broker fans question events out through Redis pub/sub so that every API
// instance can forward them to its own websocket clients
type Broker struct {
	redis  *redis.Client
	logger *zap.Logger
}

// New creates a new broker
func New(client *redis.Client, logger *zap.Logger) *Broker {
	return &Broker{redis: client, logger: logger}
}

// Publish publishes an event to all subscribed instances
func (b *Broker) Publish(ctx context.Context, event domain.Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := b.redis.Publish(ctx, EventsChannel, data).Err(); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}
	return nil
}

// Relay forwards every event published on the channel to sink until ctx is
// cancelled
func (b *Broker) Relay(ctx context.Context, sink domain.EventPublisher) error {
	sub := b.redis.Subscribe(ctx, EventsChannel)
	defer sub.Close()

	// Wait for the subscription to be confirmed
	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", EventsChannel, err)
	}

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}

			var event domain.Event
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				b.logger.Warn("dropping malformed event", zap.Error(err))
				continue
			}
			if err := sink.Publish(ctx, event); err != nil {
				b.logger.Warn("failed to forward event",
					zap.String("type", string(event.Type)),
					zap.Error(err),
				)
			}
		}
	}
}
