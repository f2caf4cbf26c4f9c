package services

import (
	"context"
	"dispatch-planning-service/internal/domain"
	"fmt"
)

// Engine runs the packing and routing heuristics with a fixed set of
// options. It holds no state between calls and is safe for concurrent use.
type Engine struct {
	opts EngineOptions
}

// NewEngine validates opts and fills unset fields with defaults.
func NewEngine(opts EngineOptions) (*Engine, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("new engine: %w", err)
	}
	return &Engine{opts: opts.withDefaults()}, nil
}

// Options returns a copy of the resolved options.
func (e *Engine) Options() EngineOptions {
	o := e.opts
	d := *o.PriorityDiscount
	o.PriorityDiscount = &d
	return o
}

var defaultEngine = &Engine{opts: DefaultEngineOptions()}

// Pack runs Engine.Pack with default options.
func Pack(items []domain.ItemDimensions, vehicle domain.VehicleProfile) (domain.PackingResult, error) {
	return defaultEngine.Pack(items, vehicle)
}

// SuggestVehicle runs Engine.SuggestVehicle with default options.
func SuggestVehicle(items []domain.ItemDimensions, catalog []domain.VehicleProfile) (domain.VehicleSuggestion, error) {
	return defaultEngine.SuggestVehicle(items, catalog)
}

// OptimizeRoute runs Engine.OptimizeRoute with default options.
func OptimizeRoute(depot domain.Location, destinations []domain.Location) (domain.OptimizedRoute, error) {
	return defaultEngine.OptimizeRoute(depot, destinations)
}

// BatchRoutes runs Engine.BatchRoutes with default options. A maxStops of
// zero or less selects the default chunk size.
func BatchRoutes(ctx context.Context, depot domain.Location, destinations []domain.Location, maxStops int) ([]domain.OptimizedRoute, error) {
	return defaultEngine.BatchRoutes(ctx, depot, destinations, maxStops)
}

// SuggestConsolidation runs Engine.SuggestConsolidation with default options.
func SuggestConsolidation(destinations []domain.Location, maxDistanceKm float64) ([]domain.Cluster, error) {
	return defaultEngine.SuggestConsolidation(destinations, maxDistanceKm)
}

// CalculateSavings runs Engine.CalculateSavings with default options.
func CalculateSavings(original, optimized []domain.Location) (domain.Savings, error) {
	return defaultEngine.CalculateSavings(original, optimized)
}

// PlanShipmentRuns runs Engine.PlanShipmentRuns with default options.
func PlanShipmentRuns(items []domain.ItemDimensions, catalog []domain.VehicleProfile) ([]domain.VehicleRun, error) {
	return defaultEngine.PlanShipmentRuns(items, catalog)
}
