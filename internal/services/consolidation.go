package services

import (
	"dispatch-planning-service/internal/domain"
	"fmt"
	"math"
)

// SuggestConsolidation groups destinations that lie within maxDistanceKm of
// a seed destination.
//
// Seeds are taken in input order from the destinations not yet assigned.
// Membership is measured against the seed only, so two members of one
// cluster may be further apart than maxDistanceKm. Single-member groups
// are dropped. A maxDistanceKm of zero selects the default radius.
func (e *Engine) SuggestConsolidation(destinations []domain.Location, maxDistanceKm float64) ([]domain.Cluster, error) {
	if math.IsNaN(maxDistanceKm) || math.IsInf(maxDistanceKm, 0) || maxDistanceKm < 0 {
		return nil, fmt.Errorf("suggest consolidation: %w", &domain.ValidationError{
			Field:  "max_distance_km",
			Reason: fmt.Sprintf("must be a finite value >= 0, got %v", maxDistanceKm),
			Err:    domain.ErrInvalidInput,
		})
	}
	if maxDistanceKm == 0 {
		maxDistanceKm = DefaultConsolidationRadiusKm
	}
	if err := domain.ValidateLocations(destinations); err != nil {
		return nil, fmt.Errorf("suggest consolidation: %w", err)
	}

	clusters := []domain.Cluster{}
	assigned := make([]bool, len(destinations))

	for i, seed := range destinations {
		if assigned[i] {
			continue
		}
		assigned[i] = true
		members := []domain.Location{seed}

		for j := i + 1; j < len(destinations); j++ {
			if assigned[j] {
				continue
			}
			if distanceKm(seed, destinations[j]) <= maxDistanceKm+eps {
				assigned[j] = true
				members = append(members, destinations[j])
			}
		}

		if len(members) < 2 {
			continue
		}
		clusters = append(clusters, domain.Cluster{Members: members, Centroid: centroid(members)})
	}

	return clusters, nil
}

func centroid(locs []domain.Location) domain.Coordinates {
	var lat, lng float64
	for _, l := range locs {
		lat += l.Lat
		lng += l.Lng
	}
	n := float64(len(locs))
	return domain.Coordinates{Lat: lat / n, Lng: lng / n}
}
