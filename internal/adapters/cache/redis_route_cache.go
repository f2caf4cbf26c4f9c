package cache

import (
	"context"
	"dispatch-planning-service/internal/domain"
	"dispatch-planning-service/internal/platform/obs"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "dispatch:route:"

// RedisRouteCache stores optimized routes as JSON strings with a TTL.
type RedisRouteCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisRouteCache(rdb *redis.Client, ttl time.Duration) *RedisRouteCache {
	return &RedisRouteCache{rdb: rdb, ttl: ttl}
}

// NewRedisRouteCacheFromURL connects using a redis:// URL and verifies the
// connection.
func NewRedisRouteCacheFromURL(ctx context.Context, url string, ttl time.Duration) (*RedisRouteCache, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("redis route cache: parse url: %w", err)
	}

	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis route cache: ping: %w", err)
	}

	return NewRedisRouteCache(rdb, ttl), nil
}

func (c *RedisRouteCache) Get(ctx context.Context, key string) (_ domain.OptimizedRoute, _ bool, err error) {
	defer obs.Time(ctx, "route.cache.redis.Get")(&err)

	payload, err := c.rdb.Get(ctx, redisKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.OptimizedRoute{}, false, nil
	}
	if err != nil {
		return domain.OptimizedRoute{}, false, fmt.Errorf("redis route cache: get: %w", err)
	}

	var route domain.OptimizedRoute
	if err := json.Unmarshal(payload, &route); err != nil {
		return domain.OptimizedRoute{}, false, fmt.Errorf("redis route cache: decode: %w", err)
	}
	return route, true, nil
}

func (c *RedisRouteCache) Put(ctx context.Context, key string, route domain.OptimizedRoute) (err error) {
	defer obs.Time(ctx, "route.cache.redis.Put")(&err)

	payload, err := json.Marshal(route)
	if err != nil {
		return fmt.Errorf("redis route cache: encode: %w", err)
	}

	if err := c.rdb.Set(ctx, redisKeyPrefix+key, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis route cache: set: %w", err)
	}
	return nil
}

func (c *RedisRouteCache) Close() error { return c.rdb.Close() }
