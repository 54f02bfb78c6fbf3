package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// DefaultRelayTopic is the Redis pub/sub channel all instances share.
const DefaultRelayTopic = "audit_portal:realtime"

type relayEnvelope struct {
	Origin  string  `json:"origin"`
	Channel string  `json:"channel"`
	Message Message `json:"message"`
}

// RedisRelay spreads broadcasts across instances: every message is published to Redis and
// each instance's Run loop forwards what it receives into its local Hub.
type RedisRelay struct {
	client *redis.Client
	hub    *Hub
	topic  string
	origin string
	logger *slog.Logger
}

var _ Broadcaster = (*RedisRelay)(nil)

// NewRedisRelay connects the hub to client. Call Run to start forwarding.
func NewRedisRelay(client *redis.Client, hub *Hub, logger *slog.Logger) *RedisRelay {
	return &RedisRelay{
		client: client,
		hub:    hub,
		topic:  DefaultRelayTopic,
		origin: uuid.NewString(),
		logger: logger,
	}
}

// NewRedisClient parses a redis:// URL and pings the server.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// Broadcast publishes to Redis. When the publish fails the message is still delivered to
// local subscribers and the error is returned for logging.
func (r *RedisRelay) Broadcast(ctx context.Context, channel string, msg Message) error {
	msg.Channel = channel
	data, err := json.Marshal(relayEnvelope{Origin: r.origin, Channel: channel, Message: msg})
	if err != nil {
		return fmt.Errorf("encode relay envelope: %w", err)
	}
	if err := r.client.Publish(ctx, r.topic, data).Err(); err != nil {
		r.hub.Deliver(channel, msg)
		return fmt.Errorf("publish to redis: %w", err)
	}
	return nil
}

// Run forwards relayed messages into the local hub until ctx ends.
func (r *RedisRelay) Run(ctx context.Context) error {
	pubsub := r.client.Subscribe(ctx, r.topic)
	defer pubsub.Close()

	if _, err := pubsub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe to %s: %w", r.topic, err)
	}
	r.logger.Info("Realtime relay subscribed", slog.String("topic", r.topic), slog.String("origin", r.origin))

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case raw, ok := <-ch:
			if !ok {
				return nil
			}
			r.forward(raw.Payload)
		}
	}
}

func (r *RedisRelay) forward(payload string) {
	var env relayEnvelope
	if err := json.Unmarshal([]byte(payload), &env); err != nil {
		r.logger.Warn("Dropping malformed relay message", slog.String("error", err.Error()))
		return
	}
	r.hub.Deliver(env.Channel, env.Message)
}
