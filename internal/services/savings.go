package services

import (
	"dispatch-planning-service/internal/domain"
	"fmt"
)

// CalculateSavings compares the path length of two stop orders. Only the
// legs present in each sequence are summed; no return leg is added.
// Positive values mean optimized is shorter.
func (e *Engine) CalculateSavings(original, optimized []domain.Location) (domain.Savings, error) {
	if err := domain.ValidateLocations(original); err != nil {
		return domain.Savings{}, fmt.Errorf("calculate savings: original: %w", err)
	}
	if err := domain.ValidateLocations(optimized); err != nil {
		return domain.Savings{}, fmt.Errorf("calculate savings: optimized: %w", err)
	}

	before := pathKm(original)
	after := pathKm(optimized)
	saved := before - after

	percent := 0.0
	if before > 0 {
		percent = saved / before * 100
	}

	return domain.Savings{
		OriginalDistanceKm:  round(before, 2),
		OptimizedDistanceKm: round(after, 2),
		DistanceSaved:       round(saved, 2),
		TimeSaved:           round(travelMinutes(saved, e.opts.AverageSpeedKmh), 0),
		PercentSaved:        round(percent, 1),
	}, nil
}
