package utils

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
)

// Cache is a thin redis wrapper for response caching and webhook event
// dedup. Any in-process alternative would not be shared between instances,
// so a nil client simply disables caching: every Get misses and Once always
// reports first-time.
type Cache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewCache(rdb *redis.Client, defaultTTL time.Duration) *Cache {
	return &Cache{rdb: rdb, ttl: defaultTTL}
}

func (c *Cache) enabled() bool {
	return c != nil && c.rdb != nil
}

// GetJSON loads key into v, reporting whether it was a hit.
func (c *Cache) GetJSON(ctx context.Context, key string, v interface{}) bool {
	if !c.enabled() {
		return false
	}
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			Logger.Warn().Err(err).Str("key", key).Msg("cache get failed")
		}
		return false
	}
	return json.Unmarshal(raw, v) == nil
}

func (c *Cache) SetJSON(ctx context.Context, key string, v interface{}, ttl time.Duration) {
	if !c.enabled() {
		return
	}
	if ttl <= 0 {
		ttl = c.ttl
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, key, raw, ttl).Err(); err != nil {
		Logger.Warn().Err(err).Str("key", key).Msg("cache set failed")
	}
}

func (c *Cache) Delete(ctx context.Context, keys ...string) {
	if !c.enabled() || len(keys) == 0 {
		return
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		Logger.Warn().Err(err).Msg("cache delete failed")
	}
}

// Once records key and reports whether this was its first occurrence within
// ttl. Used to drop replayed webhook events. With caching disabled it always
// returns true; handlers must stay idempotent regardless.
func (c *Cache) Once(ctx context.Context, key string, ttl time.Duration) bool {
	if !c.enabled() {
		return true
	}
	ok, err := c.rdb.SetNX(ctx, key, 1, ttl).Result()
	if err != nil {
		Logger.Warn().Err(err).Str("key", key).Msg("cache setnx failed")
		return true
	}
	return ok
}
