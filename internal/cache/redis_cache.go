package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Dayavats/samvaad/internal/config"
	"github.com/Dayavats/samvaad/internal/domain"
)

// RedisHistoryCache implements HistoryCache on Redis.
type RedisHistoryCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisHistoryCache connects to Redis and returns the cache.
func NewRedisHistoryCache(cfg config.RedisConfig) (*RedisHistoryCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisHistoryCache{
		client: client,
		prefix: cfg.Prefix,
		ttl:    cfg.TTL,
	}, nil
}

func (c *RedisHistoryCache) key(conversationID string) string {
	return fmt.Sprintf("%s:%s", c.prefix, conversationID)
}

func (c *RedisHistoryCache) Get(ctx context.Context, conversationID string) ([]domain.MessageResponse, error) {
	data, err := c.client.Get(ctx, c.key(conversationID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("failed to get from redis: %w", err)
	}

	var messages []domain.MessageResponse
	if err := json.Unmarshal(data, &messages); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached history: %w", err)
	}
	return messages, nil
}

func (c *RedisHistoryCache) Set(ctx context.Context, conversationID string, messages []domain.MessageResponse) error {
	data, err := json.Marshal(messages)
	if err != nil {
		return fmt.Errorf("failed to marshal history: %w", err)
	}

	if err := c.client.Set(ctx, c.key(conversationID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set in redis: %w", err)
	}
	return nil
}

func (c *RedisHistoryCache) Invalidate(ctx context.Context, conversationID string) error {
	if err := c.client.Del(ctx, c.key(conversationID)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate history: %w", err)
	}
	return nil
}

func (c *RedisHistoryCache) Close() error {
	return c.client.Close()
}
