package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCache stores entries in Redis through two connections: writes and
// deletes always go to the primary, reads go to a replica when one is
// configured and to the primary otherwise. Scaling reads through the replica
// never risks write consistency because the primary owns every mutation.
type RedisCache struct {
	write *redis.Client
	read  *redis.Client
}

type RedisConfig struct {
	PrimaryAddr string
	ReplicaAddr string
	Password    string
	DB          int
}

func NewRedisCache(cfg RedisConfig) (*RedisCache, error) {
	write := redis.NewClient(&redis.Options{
		Addr:     cfg.PrimaryAddr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Default the read connection to the primary if no replica is specified.
	readAddr := cfg.ReplicaAddr
	if readAddr == "" {
		readAddr = cfg.PrimaryAddr
	}
	read := redis.NewClient(&redis.Options{
		Addr:     readAddr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := write.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis primary: %w", err)
	}

	return &RedisCache{
		write: write,
		read:  read,
	}, nil
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := c.read.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("failed to get %s: %w", key, err)
	}
	return data, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.write.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	return nil
}

func (c *RedisCache) Delete(ctx context.Context, key string) error {
	if err := c.write.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.write.Ping(ctx).Err()
}

func (c *RedisCache) Close() error {
	if err := c.read.Close(); err != nil {
		c.write.Close()
		return err
	}
	return c.write.Close()
}
