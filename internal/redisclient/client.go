package redisclient

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

type Client struct {
	rdb *redis.Client
}

// NewClient creates a new Redis client
func NewClient(addr, password string, db int) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &Client{rdb: rdb}, nil
}

// GetClient returns the underlying Redis client
func (c *Client) GetClient() *redis.Client {
	return c.rdb
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

// MarkEventProcessed records a webhook event id with a TTL. Returns true if
// this is the first time the event was seen. Best effort: callers must stay
// correct when dedupe is unavailable, since the reconciler's writes are
// idempotent anyway.
func (c *Client) MarkEventProcessed(ctx context.Context, eventID string, ttl time.Duration) (bool, error) {
	return c.rdb.SetNX(ctx, fmt.Sprintf("webhook:processed:%s", eventID), "1", ttl).Result()
}

// GetCached retrieves a cached JSON payload
func (c *Client) GetCached(ctx context.Context, key string) (string, error) {
	val, err := c.rdb.Get(ctx, fmt.Sprintf("cache:%s", key)).Result()
	if err == redis.Nil {
		return "", nil
	}
	return val, err
}

// SetCached stores a JSON payload with a TTL
func (c *Client) SetCached(ctx context.Context, key, value string, ttl time.Duration) error {
	return c.rdb.Set(ctx, fmt.Sprintf("cache:%s", key), value, ttl).Err()
}

// InvalidateCached drops a cached payload (after admin writes)
func (c *Client) InvalidateCached(ctx context.Context, key string) error {
	return c.rdb.Del(ctx, fmt.Sprintf("cache:%s", key)).Err()
}
