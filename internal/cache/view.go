package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/shashanktamaskar/Punjab-Sports-GIS/internal/logger"
	"github.com/shashanktamaskar/Punjab-Sports-GIS/internal/metrics"
)

const keyPrefix = "sportsmap:view:"

// 文档注释：视图响应缓存（序列化后的字节）
// 背景：同一数据版本下视图结果只取决于筛选条件，先查进程内 LRU，再查 Redis。
// 约束：键必须包含数据版本；rc 为 nil 时只用本地缓存；Redis 错误只记日志，不影响请求。
type ViewCache struct {
	local *LRU[[]byte]
	rc    *redis.Client
	ttl   time.Duration
}

func NewViewCache(size int, ttl time.Duration, rc *redis.Client) *ViewCache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &ViewCache{local: NewLRU[[]byte](size, ttl), rc: rc, ttl: ttl}
}

// Key：由数据版本、响应种类与筛选条件组成
func Key(version, kind, selection string) string {
	return keyPrefix + version + ":" + kind + ":" + selection
}

func (c *ViewCache) Get(ctx context.Context, key string) ([]byte, bool) {
	if c == nil {
		return nil, false
	}
	if b, ok := c.local.Get(key); ok {
		metrics.CacheHitsTotal.WithLabelValues("local").Inc()
		return b, true
	}
	if c.rc != nil {
		b, err := c.rc.Get(ctx, key).Bytes()
		switch {
		case err == nil:
			c.local.Set(key, b)
			metrics.CacheHitsTotal.WithLabelValues("redis").Inc()
			return b, true
		case err != redis.Nil:
			logger.Component("cache").Warn("view_cache_redis_get_err", "key", key, "err", err)
		}
	}
	metrics.CacheMissesTotal.Inc()
	return nil, false
}

func (c *ViewCache) Set(ctx context.Context, key string, b []byte) {
	if c == nil {
		return
	}
	c.local.Set(key, b)
	if c.rc == nil {
		return
	}
	if err := c.rc.Set(ctx, key, b, c.ttl).Err(); err != nil {
		logger.Component("cache").Warn("view_cache_redis_set_err", "key", key, "err", err)
	}
}
