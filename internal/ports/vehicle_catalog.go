package ports

import (
	"context"
	"dispatch-planning-service/internal/domain"
)

// Port: a source of vehicle profiles available for packing.
type VehicleCatalog interface {
	// Return every vehicle profile. Order is not significant.
	ListVehicleProfiles(ctx context.Context) ([]domain.VehicleProfile, error)
}
