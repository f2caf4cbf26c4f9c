package services

import (
	"context"
	"dispatch-planning-service/internal/domain"
	"dispatch-planning-service/internal/platform/obs"
	"dispatch-planning-service/internal/ports"
	"fmt"
	"strings"
)

// needsGeocoding reports whether l carries an address but no coordinates.
// (0, 0) is treated as unset.
func needsGeocoding(l domain.Location) bool {
	return strings.TrimSpace(l.Address) != "" && l.Lat == 0 && l.Lng == 0
}

// ResolveShipmentLocations fills in coordinates for depots and stops that
// only carry an address. Locations with coordinates are left untouched.
// Shipments are updated in place.
func ResolveShipmentLocations(
	ctx context.Context,
	geocoder ports.Geocoder,
	shipments []domain.Shipment,
) (err error) {
	defer obs.Time(ctx, "services.ResolveShipmentLocations")(&err)

	var pending []*domain.Location
	for i := range shipments {
		sh := &shipments[i]
		if needsGeocoding(sh.Depot) {
			pending = append(pending, &sh.Depot)
		}
		for j := range sh.Stops {
			if needsGeocoding(sh.Stops[j]) {
				pending = append(pending, &sh.Stops[j])
			}
		}
	}
	if len(pending) == 0 {
		return nil
	}

	addresses := make([]string, len(pending))
	for i, l := range pending {
		addresses[i] = normalizeAddress(l.Address)
	}

	coords, err := geocoder.GeocodeMany(ctx, addresses)
	if err != nil {
		return fmt.Errorf("resolve shipment locations: %w", err)
	}

	for i, l := range pending {
		c, ok := coords[addresses[i]]
		if !ok {
			return fmt.Errorf("resolve shipment locations: no coordinates for %q", l.Address)
		}
		l.Lat, l.Lng = c.Lat, c.Lng
	}
	return nil
}

func normalizeAddress(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
