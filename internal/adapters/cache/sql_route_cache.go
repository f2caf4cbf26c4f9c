package cache

import (
	"context"
	"database/sql"
	"dispatch-planning-service/internal/domain"
	"dispatch-planning-service/internal/platform/obs"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// SQLRouteCache is a Postgres-backed cache of optimized routes keyed by
// request hash. Rows past expires_at count as misses and are overwritten
// on the next Put.
type SQLRouteCache struct {
	DB  *sql.DB
	TTL time.Duration
}

func NewSQLRouteCache(db *sql.DB, ttl time.Duration) *SQLRouteCache {
	return &SQLRouteCache{DB: db, TTL: ttl}
}

func (s *SQLRouteCache) Get(ctx context.Context, key string) (_ domain.OptimizedRoute, _ bool, err error) {
	defer obs.Time(ctx, "route.cache.sql.Get")(&err)

	if s.DB == nil {
		return domain.OptimizedRoute{}, false, errors.New("route cache: db is nil")
	}

	if strings.TrimSpace(key) == "" {
		return domain.OptimizedRoute{}, false, errors.New("get route cache: key must not be empty")
	}

	q := `
	SELECT payload
	FROM route_cache
	WHERE cache_key = $1
		AND expires_at > now();
	`

	var payload []byte
	err = s.DB.QueryRowContext(ctx, q, key).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.OptimizedRoute{}, false, nil
	}
	if err != nil {
		return domain.OptimizedRoute{}, false, fmt.Errorf("get route cache: query route_cache table: %w", err)
	}

	var route domain.OptimizedRoute
	if err := json.Unmarshal(payload, &route); err != nil {
		return domain.OptimizedRoute{}, false, fmt.Errorf("get route cache: decode payload: %w", err)
	}

	return route, true, nil
}

func (s *SQLRouteCache) Put(ctx context.Context, key string, route domain.OptimizedRoute) (err error) {
	defer obs.Time(ctx, "route.cache.sql.Put")(&err)

	if s.DB == nil {
		return errors.New("route cache: db is nil")
	}

	if strings.TrimSpace(key) == "" {
		return errors.New("insert route cache: key must not be empty")
	}

	payload, err := json.Marshal(route)
	if err != nil {
		return fmt.Errorf("insert route cache: encode payload: %w", err)
	}

	_, err = s.DB.ExecContext(ctx, `
	INSERT INTO route_cache (cache_key, payload, expires_at)
	VALUES ($1, $2, $3)
	ON CONFLICT (cache_key) DO UPDATE
	SET payload = EXCLUDED.payload,
		expires_at = EXCLUDED.expires_at;
	`, key, payload, time.Now().Add(s.TTL).UTC())
	if err != nil {
		return fmt.Errorf("insert route cache key=%q: %w", key, err)
	}

	return nil
}
