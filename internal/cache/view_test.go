package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rc := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rc.Close() })
	return mr, rc
}

func TestViewCacheLocalOnly(t *testing.T) {
	ctx := context.Background()
	c := NewViewCache(8, time.Minute, nil)
	key := Key("v1", "view", "all|All")
	_, ok := c.Get(ctx, key)
	assert.False(t, ok)

	c.Set(ctx, key, []byte(`{"total":3}`))
	b, ok := c.Get(ctx, key)
	require.True(t, ok)
	assert.JSONEq(t, `{"total":3}`, string(b))
}

func TestViewCacheRedisFallback(t *testing.T) {
	ctx := context.Background()
	mr, rc := newRedis(t)
	key := Key("v1", "geojson", "patiala|All")

	writer := NewViewCache(8, time.Minute, rc)
	writer.Set(ctx, key, []byte("payload"))
	assert.True(t, mr.Exists(key))
	assert.Equal(t, time.Minute, mr.TTL(key))

	// 新实例本地为空，从 Redis 读取
	reader := NewViewCache(8, time.Minute, rc)
	b, ok := reader.Get(ctx, key)
	require.True(t, ok)
	assert.Equal(t, "payload", string(b))
	assert.Equal(t, 1, reader.local.Len())
}

func TestViewCacheRedisDown(t *testing.T) {
	ctx := context.Background()
	mr, rc := newRedis(t)
	c := NewViewCache(8, time.Minute, rc)
	mr.Close()

	c.Set(ctx, "k", []byte("x"))
	b, ok := c.Get(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, "x", string(b))

	_, ok = c.Get(ctx, "missing")
	assert.False(t, ok)
}

func TestViewCacheNil(t *testing.T) {
	var c *ViewCache
	c.Set(context.Background(), "k", []byte("x"))
	_, ok := c.Get(context.Background(), "k")
	assert.False(t, ok)
}

func TestKeyIncludesVersion(t *testing.T) {
	assert.NotEqual(t, Key("a", "view", "x"), Key("b", "view", "x"))
	assert.Equal(t, "sportsmap:view:a:view:x", Key("a", "view", "x"))
}
