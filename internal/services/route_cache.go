package services

import (
	"context"
	"crypto/sha256"
	"dispatch-planning-service/internal/domain"
	"dispatch-planning-service/internal/platform/metrics"
	"dispatch-planning-service/internal/platform/obs"
	"dispatch-planning-service/internal/ports"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
)

type routeKeyInput struct {
	Depot            domain.Location
	Destinations     []domain.Location
	AverageSpeedKmh  float64
	PriorityDiscount float64
}

// RouteCacheKey identifies a route request. Destination order is part of
// the key because it decides ties. Locations that cannot be encoded, such
// as NaN coordinates, have no key.
func (e *Engine) RouteCacheKey(depot domain.Location, destinations []domain.Location) (string, error) {
	raw, err := json.Marshal(routeKeyInput{
		Depot:            depot,
		Destinations:     destinations,
		AverageSpeedKmh:  e.opts.AverageSpeedKmh,
		PriorityDiscount: *e.opts.PriorityDiscount,
	})
	if err != nil {
		return "", fmt.Errorf("route cache key: %w", err)
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:]), nil
}

// OptimizeRouteCached serves OptimizeRoute through cache, bounded by the
// engine's RouteTimeout. Cache failures are logged and never fail the call;
// fallback routes are not stored. A nil cache disables caching.
func (e *Engine) OptimizeRouteCached(ctx context.Context, cache ports.RouteCache, depot domain.Location, destinations []domain.Location) (domain.OptimizedRoute, error) {
	if cache == nil {
		return e.optimizeBounded(ctx, depot, destinations)
	}

	key, err := e.RouteCacheKey(depot, destinations)
	if err != nil {
		// Unencodable input is never valid; let validation report it.
		log.Printf("req_id=%s op=route_cache.key err=%v", obs.RequestID(ctx), err)
		return e.optimizeBounded(ctx, depot, destinations)
	}

	route, ok, err := cache.Get(ctx, key)
	switch {
	case err != nil:
		metrics.RouteCacheLookups.WithLabelValues("error").Inc()
		log.Printf("req_id=%s op=route_cache.get err=%v", obs.RequestID(ctx), err)
	case ok:
		metrics.RouteCacheLookups.WithLabelValues("hit").Inc()
		return route, nil
	default:
		metrics.RouteCacheLookups.WithLabelValues("miss").Inc()
	}

	route, err = e.optimizeBounded(ctx, depot, destinations)
	if err != nil {
		return domain.OptimizedRoute{}, err
	}

	if !route.FallbackApplied {
		if err := cache.Put(ctx, key, route); err != nil {
			log.Printf("req_id=%s op=route_cache.put err=%v", obs.RequestID(ctx), err)
		}
	}
	return route, nil
}

func (e *Engine) optimizeBounded(ctx context.Context, depot domain.Location, destinations []domain.Location) (domain.OptimizedRoute, error) {
	rctx, cancel := context.WithTimeout(ctx, e.opts.RouteTimeout)
	defer cancel()
	return e.OptimizeRouteContext(rctx, depot, destinations)
}
