package cache

import (
	"context"
	"testing"
	"time"

	"dispatch-planning-service/internal/domain"
	"dispatch-planning-service/internal/ports"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_ ports.RouteCache = (*RedisRouteCache)(nil)
	_ ports.RouteCache = (*MemoryRouteCache)(nil)
	_ ports.RouteCache = (*SQLRouteCache)(nil)

	_ ports.GeocodeCache = (*SQLGeocodeCache)(nil)
)

func TestUniqueNonEmpty(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, uniqueNonEmpty([]string{" a", "", "b", "a ", "  "}))
}

func sampleRoute() domain.OptimizedRoute {
	depot := domain.Location{ID: "depot", Lat: 52.52, Lng: 13.405}
	stop := domain.Location{ID: "a", Lat: 52.53, Lng: 13.41, Priority: 3, Address: "Invalidenstr. 1"}
	return domain.OptimizedRoute{
		Sequence: []domain.Location{depot, stop, depot},
		Segments: []domain.RouteSegment{
			{From: depot, To: stop, DistanceKm: 1.17, DurationMin: 1.8},
			{From: stop, To: depot, DistanceKm: 1.17, DurationMin: 1.8},
		},
		TotalDistanceKm:  2.35,
		TotalDurationMin: 4,
	}
}

func newRedisCache(t *testing.T, ttl time.Duration) (*RedisRouteCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewRedisRouteCache(rdb, ttl), mr
}

func TestRedisRouteCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	c, mr := newRedisCache(t, time.Minute)

	_, ok, err := c.Get(ctx, "k1")
	require.NoError(t, err)
	assert.False(t, ok)

	want := sampleRoute()
	require.NoError(t, c.Put(ctx, "k1", want))
	assert.True(t, mr.Exists(redisKeyPrefix+"k1"))

	got, ok, err := c.Get(ctx, "k1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, want, got)
}

func TestRedisRouteCacheExpires(t *testing.T) {
	ctx := context.Background()
	c, mr := newRedisCache(t, time.Minute)

	require.NoError(t, c.Put(ctx, "k1", sampleRoute()))
	mr.FastForward(2 * time.Minute)

	_, ok, err := c.Get(ctx, "k1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisRouteCacheCorruptPayload(t *testing.T) {
	c, mr := newRedisCache(t, time.Minute)
	require.NoError(t, mr.Set(redisKeyPrefix+"bad", "{not json"))

	_, ok, err := c.Get(context.Background(), "bad")
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestRedisRouteCacheFromURL(t *testing.T) {
	mr := miniredis.RunT(t)

	c, err := NewRedisRouteCacheFromURL(context.Background(), "redis://"+mr.Addr()+"/0", time.Minute)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	_, err = NewRedisRouteCacheFromURL(context.Background(), "not a url", time.Minute)
	assert.Error(t, err)
}

func TestMemoryRouteCache(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

	c := NewMemoryRouteCache(time.Minute, 0)
	c.now = func() time.Time { return now }

	_, ok, err := c.Get(ctx, "k1")
	require.NoError(t, err)
	assert.False(t, ok)

	want := sampleRoute()
	require.NoError(t, c.Put(ctx, "k1", want))

	got, ok, err := c.Get(ctx, "k1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, want, got)

	now = now.Add(time.Minute)
	_, ok, err = c.Get(ctx, "k1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryRouteCacheSweepsExpiredOnPut(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

	c := NewMemoryRouteCache(time.Minute, 0)
	c.now = func() time.Time { return now }

	for _, k := range []string{"k1", "k2", "k3"} {
		require.NoError(t, c.Put(ctx, k, sampleRoute()))
	}
	assert.Equal(t, 3, c.Len())

	// Never read again; the next write after the TTL clears them.
	now = now.Add(2 * time.Minute)
	require.NoError(t, c.Put(ctx, "k4", sampleRoute()))
	assert.Equal(t, 1, c.Len())

	_, ok, err := c.Get(ctx, "k4")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMemoryRouteCacheEvictsWhenFull(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

	c := NewMemoryRouteCache(0, 2)
	c.now = func() time.Time { return now }

	require.NoError(t, c.Put(ctx, "k1", sampleRoute()))
	now = now.Add(time.Second)
	require.NoError(t, c.Put(ctx, "k2", sampleRoute()))
	now = now.Add(time.Second)
	require.NoError(t, c.Put(ctx, "k3", sampleRoute()))
	assert.Equal(t, 2, c.Len())

	_, ok, err := c.Get(ctx, "k1")
	require.NoError(t, err)
	assert.False(t, ok)

	// Overwriting a present key never evicts.
	require.NoError(t, c.Put(ctx, "k3", sampleRoute()))
	for _, k := range []string{"k2", "k3"} {
		_, ok, err := c.Get(ctx, k)
		require.NoError(t, err)
		assert.True(t, ok, k)
	}
}
