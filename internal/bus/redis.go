package bus

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisBus carries channel messages over Redis Pub/Sub. Subscribers receive
// only messages published while they are connected, which gives the protocol
// its at-most-once, no-redelivery semantics.
type RedisBus struct {
	client *redis.Client
	logger *zap.SugaredLogger

	mu   sync.Mutex
	subs []*redis.PubSub
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

func NewRedisBus(cfg RedisConfig, logger *zap.SugaredLogger) (*RedisBus, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return &RedisBus{
		client: client,
		logger: logger,
	}, nil
}

func (b *RedisBus) Publish(ctx context.Context, channel string, message []byte) error {
	if err := b.client.Publish(ctx, channel, message).Err(); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", channel, err)
	}
	return nil
}

func (b *RedisBus) Subscribe(ctx context.Context, channel string, handler MessageHandler) error {
	sub := b.client.Subscribe(ctx, channel)

	// Wait for the subscription to be confirmed so publishes after this call
	// are not lost to a half-open subscriber.
	if _, err := sub.Receive(ctx); err != nil {
		sub.Close()
		return fmt.Errorf("failed to subscribe to %s: %w", channel, err)
	}

	b.mu.Lock()
	b.subs = append(b.subs, sub)
	b.mu.Unlock()

	go func() {
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				handler(ctx, []byte(msg.Payload))
			}
		}
	}()

	b.logger.Infow("subscribed to channel", "channel", channel)

	return nil
}

func (b *RedisBus) Close() error {
	b.mu.Lock()
	for _, sub := range b.subs {
		sub.Close()
	}
	b.subs = nil
	b.mu.Unlock()

	return b.client.Close()
}
