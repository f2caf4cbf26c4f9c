package services

import (
	"context"
	"dispatch-planning-service/internal/domain"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// BatchRoutes splits destinations into contiguous chunks of at most maxStops
// in input order and optimizes each chunk as its own depot round trip.
// Chunk boundaries ignore geography.
//
// Chunks are optimized concurrently; each one is bounded by the engine's
// RouteTimeout and falls back to input order on expiry. The returned routes
// follow chunk order.
func (e *Engine) BatchRoutes(ctx context.Context, depot domain.Location, destinations []domain.Location, maxStops int) ([]domain.OptimizedRoute, error) {
	if maxStops <= 0 {
		maxStops = e.opts.MaxStopsPerRoute
	}
	if err := depot.Validate(); err != nil {
		return nil, fmt.Errorf("batch routes: depot: %w", err)
	}
	if err := domain.ValidateLocations(destinations); err != nil {
		return nil, fmt.Errorf("batch routes: %w", err)
	}

	chunks := chunk(destinations, maxStops)
	routes := make([]domain.OptimizedRoute, len(chunks))
	if len(chunks) == 0 {
		return routes, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.opts.Workers)

	for i, c := range chunks {
		g.Go(func() error {
			rctx, cancel := context.WithTimeout(gctx, e.opts.RouteTimeout)
			defer cancel()

			r, err := e.OptimizeRouteContext(rctx, depot, c)
			if err != nil {
				return fmt.Errorf("batch routes: chunk %d: %w", i+1, err)
			}
			routes[i] = r
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return routes, nil
}

// chunk cuts s into consecutive pieces of at most size elements.
func chunk[T any](s []T, size int) [][]T {
	out := make([][]T, 0, (len(s)+size-1)/size)
	for start := 0; start < len(s); start += size {
		end := min(start+size, len(s))
		out = append(out, s[start:end:end])
	}
	return out
}
