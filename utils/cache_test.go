package utils

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCache(t *testing.T) *Cache {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	return NewCache(rdb, time.Minute)
}

func TestCacheDisabledWithNilClient(t *testing.T) {
	ctx := context.Background()
	c := NewCache(nil, time.Minute)

	var out map[string]string
	assert.False(t, c.GetJSON(ctx, "key", &out))

	// No-ops, must not panic.
	c.SetJSON(ctx, "key", map[string]string{"a": "b"}, 0)
	c.Delete(ctx, "key")

	// Dedup degrades to first-time for every call.
	assert.True(t, c.Once(ctx, "event", time.Hour))
	assert.True(t, c.Once(ctx, "event", time.Hour))
}

func TestCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	c := testCache(t)

	var out map[string]string
	assert.False(t, c.GetJSON(ctx, "key", &out))

	c.SetJSON(ctx, "key", map[string]string{"a": "b"}, 0)
	assert.True(t, c.GetJSON(ctx, "key", &out))
	assert.Equal(t, "b", out["a"])

	c.Delete(ctx, "key")
	assert.False(t, c.GetJSON(ctx, "key", &out))
}

func TestOnceDedupsUntilDeleted(t *testing.T) {
	ctx := context.Background()
	c := testCache(t)

	const key = "stripe:event:evt_1"

	assert.True(t, c.Once(ctx, key, time.Hour))
	assert.False(t, c.Once(ctx, key, time.Hour))

	// A failed handler releases its claim; the provider's retry of the same
	// event id must be processed again rather than dropped for the TTL.
	c.Delete(ctx, key)
	assert.True(t, c.Once(ctx, key, time.Hour))

	// Unrelated event ids are unaffected.
	assert.True(t, c.Once(ctx, "stripe:event:evt_2", time.Hour))
}

func TestCacheNilReceiver(t *testing.T) {
	ctx := context.Background()
	var c *Cache

	var out int
	assert.False(t, c.GetJSON(ctx, "key", &out))
	c.SetJSON(ctx, "key", 1, 0)
	c.Delete(ctx, "key")
	assert.True(t, c.Once(ctx, "key", time.Minute))
}
