// Package rediscache caches album aggregate documents in Redis so hot
// album pages skip the primary store. Entries expire on a TTL; writes
// refresh them through the worker pool rather than invalidating.
package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ewilliams-labs/ratify/internal/core/domain"
	"github.com/ewilliams-labs/ratify/internal/core/ports"
)

const keyPrefix = "ratings:"

// Cache implements ports.AggregateCache on a Redis client.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

var _ ports.AggregateCache = (*Cache)(nil)

// New connects to Redis at addr and verifies the connection.
func New(ctx context.Context, addr string, ttl time.Duration) (*Cache, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis cache: ping %s: %w", addr, err)
	}
	return &Cache{client: client, ttl: ttl}, nil
}

// Close releases the underlying client.
func (c *Cache) Close() error {
	return c.client.Close()
}

func (c *Cache) GetAggregate(ctx context.Context, albumID string) (domain.AlbumRatings, error) {
	raw, err := c.client.Get(ctx, keyPrefix+albumID).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.AlbumRatings{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.AlbumRatings{}, fmt.Errorf("redis cache: get %q: %w", albumID, err)
	}
	var ratings domain.AlbumRatings
	if err := json.Unmarshal(raw, &ratings); err != nil {
		// A corrupt entry behaves like a miss; the next Set replaces it.
		return domain.AlbumRatings{}, domain.ErrNotFound
	}
	return ratings, nil
}

func (c *Cache) SetAggregate(ctx context.Context, ratings domain.AlbumRatings) error {
	raw, err := json.Marshal(ratings)
	if err != nil {
		return fmt.Errorf("redis cache: encode %q: %w", ratings.AlbumID, err)
	}
	if err := c.client.Set(ctx, keyPrefix+ratings.AlbumID, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis cache: set %q: %w", ratings.AlbumID, err)
	}
	return nil
}
