package services

import (
	"context"
	"dispatch-planning-service/internal/domain"
	"dispatch-planning-service/internal/platform/metrics"
	"dispatch-planning-service/internal/platform/obs"
	"fmt"
	"log"
	"math"
)

// OptimizeRoute orders destinations with a greedy nearest-neighbor tour that
// starts and ends at the depot.
//
// Each step moves to the closest unvisited destination. Candidate distances
// are discounted by priority for comparison only; segments and totals use
// the true distance. On equal scores the destination listed first wins, so
// the same input always yields the same route.
func (e *Engine) OptimizeRoute(depot domain.Location, destinations []domain.Location) (domain.OptimizedRoute, error) {
	return e.OptimizeRouteContext(context.Background(), depot, destinations)
}

// OptimizeRouteContext is OptimizeRoute bounded by ctx. If ctx is done
// before the tour is complete the destinations are kept in input order and
// the route is marked FallbackApplied.
func (e *Engine) OptimizeRouteContext(ctx context.Context, depot domain.Location, destinations []domain.Location) (domain.OptimizedRoute, error) {
	if err := depot.Validate(); err != nil {
		return domain.OptimizedRoute{}, fmt.Errorf("optimize route: depot: %w", err)
	}
	if len(destinations) > e.opts.MaxRouteStops {
		return domain.OptimizedRoute{}, fmt.Errorf("optimize route: %w: %d destinations, limit %d",
			domain.ErrTooManyStops, len(destinations), e.opts.MaxRouteStops)
	}
	if err := domain.ValidateLocations(destinations); err != nil {
		return domain.OptimizedRoute{}, fmt.Errorf("optimize route: %w", err)
	}

	if len(destinations) == 0 {
		return domain.OptimizedRoute{
			Sequence: []domain.Location{depot},
			Segments: []domain.RouteSegment{},
		}, nil
	}

	visited := make([]bool, len(destinations))
	order := make([]domain.Location, 0, len(destinations))
	current := depot

	for len(order) < len(destinations) {
		if err := ctx.Err(); err != nil {
			log.Printf("req_id=%s op=optimize_route fallback=input_order stops=%d placed=%d err=%v",
				obs.RequestID(ctx), len(destinations), len(order), err)
			metrics.RouteFallbacks.Inc()
			route := e.buildRoute(depot, destinations)
			route.FallbackApplied = true
			return route, nil
		}

		best := -1
		bestScore := math.Inf(1)

		// Greedy step: strict comparison keeps the earliest candidate on ties.
		for i, d := range destinations {
			if visited[i] {
				continue
			}
			score := distanceKm(current, d) * e.priorityFactor(d)
			if score < bestScore {
				bestScore = score
				best = i
			}
		}

		if best < 0 {
			return domain.OptimizedRoute{}, fmt.Errorf("optimize route: failed to select next destination")
		}

		visited[best] = true
		current = destinations[best]
		order = append(order, current)
	}

	return e.buildRoute(depot, order), nil
}

// priorityFactor scales a candidate distance: 1 for priority 1, lower for
// more urgent stops.
func (e *Engine) priorityFactor(l domain.Location) float64 {
	return 1 - float64(l.EffectivePriority()-domain.MinPriority)*(*e.opts.PriorityDiscount)
}

// buildRoute lays out depot, stops, depot and measures every leg.
// Segment distances are rounded to 2 decimals and durations to 1; totals
// are summed unrounded and then rounded to 2 decimals and whole minutes.
func (e *Engine) buildRoute(depot domain.Location, stops []domain.Location) domain.OptimizedRoute {
	seq := make([]domain.Location, 0, len(stops)+2)
	seq = append(seq, depot)
	seq = append(seq, stops...)
	seq = append(seq, depot)

	segments := make([]domain.RouteSegment, 0, len(seq)-1)
	totalKm := 0.0
	for i := 1; i < len(seq); i++ {
		km := distanceKm(seq[i-1], seq[i])
		totalKm += km
		segments = append(segments, domain.RouteSegment{
			From:        seq[i-1],
			To:          seq[i],
			DistanceKm:  round(km, 2),
			DurationMin: round(travelMinutes(km, e.opts.AverageSpeedKmh), 1),
		})
	}

	return domain.OptimizedRoute{
		Sequence:         seq,
		Segments:         segments,
		TotalDistanceKm:  round(totalKm, 2),
		TotalDurationMin: round(travelMinutes(totalKm, e.opts.AverageSpeedKmh), 0),
	}
}
