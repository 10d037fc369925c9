package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
	"github.com/yukikurage/habit-tracker-api/internal/constants"
	"go.uber.org/zap"
)

// RedisBroker fans events out through Redis pub/sub so that every server
// instance can deliver them to its own SSE clients. Run relays incoming
// messages into the local bus.
type RedisBroker struct {
	client *redis.Client
	local  *Bus
	log    *zap.Logger
}

// NewRedisClient connects to redisURL and checks the connection.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}

func NewRedisBroker(client *redis.Client, local *Bus, log *zap.Logger) *RedisBroker {
	return &RedisBroker{client: client, local: local, log: log}
}

func channelFor(userID string) string {
	return constants.RedisEventPrefix + userID
}

func (r *RedisBroker) Publish(ctx context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}
	if err := r.client.Publish(ctx, channelFor(event.UserID), payload).Err(); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}
	return nil
}

// Run relays events until ctx is cancelled.
func (r *RedisBroker) Run(ctx context.Context) error {
	pubsub := r.client.PSubscribe(ctx, constants.RedisEventPrefix+"*")
	defer pubsub.Close()

	if _, err := pubsub.Receive(ctx); err != nil {
		return fmt.Errorf("failed to subscribe to events: %w", err)
	}

	messages := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			var event Event
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				r.log.Warn("dropping malformed event", zap.String("channel", msg.Channel), zap.Error(err))
				continue
			}
			if event.UserID == "" {
				event.UserID = strings.TrimPrefix(msg.Channel, constants.RedisEventPrefix)
			}
			_ = r.local.Publish(ctx, event)
		}
	}
}
