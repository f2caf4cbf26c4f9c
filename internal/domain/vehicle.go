package domain

import (
	"fmt"
	"math"
	"slices"
	"strings"
)

// VehicleProfile is immutable reference data describing one vehicle type.
// Dimensions are the inner load space in metres.
type VehicleProfile struct {
	Type      string  `yaml:"type" json:"type"`
	Length    float64 `yaml:"length" json:"length"`
	Width     float64 `yaml:"width" json:"width"`
	Height    float64 `yaml:"height" json:"height"`
	MaxWeight float64 `yaml:"max_weight" json:"max_weight"`
	MaxVolume float64 `yaml:"max_volume" json:"max_volume"`
}

// BoxVolume is the volume of the load-space bounding box.
func (v VehicleProfile) BoxVolume() float64 { return v.Length * v.Width * v.Height }

// Validate rejects profiles the packer cannot reason about.
func (v VehicleProfile) Validate() error {
	if strings.TrimSpace(v.Type) == "" {
		return invalid(ErrInvalidVehicle, "type", "must not be empty")
	}

	measures := []struct {
		name string
		v    float64
	}{
		{"length", v.Length},
		{"width", v.Width},
		{"height", v.Height},
		{"max_weight", v.MaxWeight},
		{"max_volume", v.MaxVolume},
	}
	for _, m := range measures {
		if math.IsNaN(m.v) || math.IsInf(m.v, 0) || m.v <= 0 {
			return invalid(ErrInvalidVehicle, v.Type+"."+m.name, fmt.Sprintf("must be a finite value > 0, got %v", m.v))
		}
	}

	return nil
}

// compareCapacity orders profiles by volume capacity, then weight capacity.
func compareCapacity(a, b VehicleProfile) int {
	if c := cmpFloat(a.MaxVolume, b.MaxVolume); c != 0 {
		return c
	}
	return cmpFloat(a.MaxWeight, b.MaxWeight)
}

func cmpFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// NormalizeCatalog validates a catalog and returns a copy ordered by
// ascending capacity. Profiles of equal capacity keep their input order.
func NormalizeCatalog(catalog []VehicleProfile) ([]VehicleProfile, error) {
	if len(catalog) == 0 {
		return nil, ErrEmptyCatalog
	}

	seen := make(map[string]struct{}, len(catalog))
	for i, v := range catalog {
		if err := v.Validate(); err != nil {
			return nil, fmt.Errorf("vehicle #%d: %w", i+1, err)
		}
		if _, ok := seen[v.Type]; ok {
			return nil, fmt.Errorf("vehicle #%d: %w", i+1, invalid(ErrInvalidVehicle, v.Type, "duplicate vehicle type"))
		}
		seen[v.Type] = struct{}{}
	}

	out := slices.Clone(catalog)
	slices.SortStableFunc(out, compareCapacity)
	return out, nil
}

// DefaultCatalog is the built-in vehicle table, ascending by capacity.
// Max volume sits slightly below the box volume to leave room for
// strapping and irregular loads.
func DefaultCatalog() []VehicleProfile {
	return []VehicleProfile{
		{Type: "van_small", Length: 2.5, Width: 1.5, Height: 1.4, MaxWeight: 800, MaxVolume: 5},
		{Type: "van_large", Length: 4.0, Width: 1.8, Height: 1.9, MaxWeight: 1500, MaxVolume: 12.5},
		{Type: "truck_box", Length: 6.0, Width: 2.4, Height: 2.4, MaxWeight: 3500, MaxVolume: 32},
		{Type: "trailer_semi", Length: 13.6, Width: 2.45, Height: 2.7, MaxWeight: 24000, MaxVolume: 85},
	}
}
