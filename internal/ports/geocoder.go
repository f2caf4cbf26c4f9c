package ports

import (
	"context"
	"dispatch-planning-service/internal/domain"
)

// Port: resolves free-form addresses to coordinates.
type Geocoder interface {
	// Return coordinates keyed by the normalized address.
	GeocodeMany(ctx context.Context, addresses []string) (map[string]domain.Coordinates, error)
}

// Port: persistent address -> coordinates cache used by geocoders.
type GeocodeCache interface {
	GetMany(ctx context.Context, addresses []string) (map[string]domain.Coordinates, error)
	PutMany(ctx context.Context, results map[string]domain.Coordinates) error
}
