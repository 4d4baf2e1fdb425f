// Package cache keeps the marketplace listing set in Redis for a short TTL.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"artha-lending/internal/domain/marketplace"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const DefaultListingKey = "marketplace:listings"

// ListingCache serves the unfiltered listing set from Redis. Concurrent misses
// share one load. Redis failures degrade to a direct load.
type ListingCache struct {
	rdb      redis.Cmdable
	key      string
	ttl      time.Duration
	log      *zap.Logger
	inflight singleflight.Group
}

func NewListingCache(rdb redis.Cmdable, ttl time.Duration, log *zap.Logger) *ListingCache {
	return &ListingCache{rdb: rdb, key: DefaultListingKey, ttl: ttl, log: log}
}

func (c *ListingCache) Listings(ctx context.Context, load func(context.Context) ([]marketplace.Listing, error)) ([]marketplace.Listing, error) {
	if xs, ok := c.get(ctx); ok {
		return xs, nil
	}
	v, err, _ := c.inflight.Do(c.key, func() (any, error) {
		if xs, ok := c.get(ctx); ok {
			return xs, nil
		}
		xs, err := load(ctx)
		if err != nil {
			return nil, err
		}
		c.set(ctx, xs)
		return xs, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]marketplace.Listing), nil
}

// Invalidate drops the cached set so the next read reloads it.
func (c *ListingCache) Invalidate(ctx context.Context) error {
	return c.rdb.Del(ctx, c.key).Err()
}

func (c *ListingCache) get(ctx context.Context) ([]marketplace.Listing, bool) {
	raw, err := c.rdb.Get(ctx, c.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		c.log.Warn("listing cache get failed", zap.Error(err))
		return nil, false
	}
	var xs []marketplace.Listing
	if err := json.Unmarshal(raw, &xs); err != nil {
		c.log.Warn("listing cache entry unreadable", zap.Error(err))
		return nil, false
	}
	return xs, true
}

func (c *ListingCache) set(ctx context.Context, xs []marketplace.Listing) {
	if xs == nil {
		xs = []marketplace.Listing{}
	}
	raw, err := json.Marshal(xs)
	if err != nil {
		c.log.Warn("listing cache marshal failed", zap.Error(err))
		return
	}
	if err := c.rdb.Set(ctx, c.key, raw, c.ttl).Err(); err != nil {
		c.log.Warn("listing cache set failed", zap.Error(err))
	}
}
