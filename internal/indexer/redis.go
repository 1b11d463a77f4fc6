package indexer

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// keyPrefix namespaces indexed content within the Redis keyspace
const keyPrefix = "idx:content:"

// RedisIndexer implements the Indexer interface using Redis as a
// keyed content store
type RedisIndexer struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisIndexer creates a new Redis indexer. A zero ttl means
// indexed content never expires.
func NewRedisIndexer(addr string, ttl time.Duration) (*RedisIndexer, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   0,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisIndexer{
		client: client,
		ttl:    ttl,
	}, nil
}

// Name identifies this indexer
func (ri *RedisIndexer) Name() string {
	return "redis"
}

// Update stores the resource content under its keyed entry
func (ri *RedisIndexer) Update(ctx context.Context, resourceID, content string) error {
	if err := ri.client.Set(ctx, keyPrefix+resourceID, content, ri.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store content in Redis: %w", err)
	}
	return nil
}

// Remove deletes the resource's keyed entry. Removing a resource that
// was never indexed is not an error.
func (ri *RedisIndexer) Remove(ctx context.Context, resourceID string) error {
	if err := ri.client.Del(ctx, keyPrefix+resourceID).Err(); err != nil {
		return fmt.Errorf("failed to remove content from Redis: %w", err)
	}
	return nil
}

// HealthCheck verifies Redis connectivity
func (ri *RedisIndexer) HealthCheck(ctx context.Context) error {
	return ri.client.Ping(ctx).Err()
}

// Close closes the Redis connection
func (ri *RedisIndexer) Close() error {
	return ri.client.Close()
}
