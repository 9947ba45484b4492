package events

import (
	"context"
	"encoding/json"
	"time"

	"log/slog"

	redis "github.com/redis/go-redis/v9"
)

type envelope struct {
	Event   string `json:"event"`
	Payload any    `json:"payload"`
}

// RedisPublisher publishes events on a redis pub/sub channel.
type RedisPublisher struct {
	client  *redis.Client
	channel string
	logger  *slog.Logger
	timeout time.Duration
}

// NewRedisPublisher connects to redis and returns a publisher.
func NewRedisPublisher(addr, password string, db int, channel string, logger *slog.Logger) (*RedisPublisher, error) {
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}
	return &RedisPublisher{
		client:  client,
		channel: channel,
		logger:  logger,
		timeout: 250 * time.Millisecond,
	}, nil
}

// Publish marshals the event and sends it without waiting on consumers.
func (p *RedisPublisher) Publish(ctx context.Context, name string, payload any) {
	body, err := json.Marshal(envelope{Event: name, Payload: payload})
	if err != nil {
		p.logger.Warn("event marshal failed", "event", name, "error", err)
		return
	}
	// The request context may already be cancelled by the time we publish;
	// events ride on their own short deadline instead.
	opCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.timeout)
	defer cancel()
	if err := p.client.Publish(opCtx, p.channel, body).Err(); err != nil {
		p.logger.Warn("event publish failed", "event", name, "error", err)
	}
}

// Close releases the redis connection.
func (p *RedisPublisher) Close() {
	if err := p.client.Close(); err != nil {
		p.logger.Warn("redis close failed", "error", err)
	}
}
