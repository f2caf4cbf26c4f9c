package catalog

import (
	"context"
	"dispatch-planning-service/internal/domain"
	"slices"
)

// StaticCatalog serves a fixed set of vehicle profiles held in memory.
type StaticCatalog struct {
	vehicles []domain.VehicleProfile
}

// NewStaticCatalog returns a catalog of the given profiles, or of the
// built-in default table when none are given.
func NewStaticCatalog(vehicles ...domain.VehicleProfile) *StaticCatalog {
	if len(vehicles) == 0 {
		vehicles = domain.DefaultCatalog()
	}
	return &StaticCatalog{vehicles: slices.Clone(vehicles)}
}

func (c *StaticCatalog) ListVehicleProfiles(ctx context.Context) ([]domain.VehicleProfile, error) {
	return slices.Clone(c.vehicles), nil
}
