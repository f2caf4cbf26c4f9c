package domain

import (
	"fmt"
	"math"
)

// ItemDimensions describes one shipment line. Per-unit dimensions are in
// metres, weight in kilograms and volume in cubic metres.
//
// An item without a complete footprint (length, width and height all > 0)
// is packed in volume-only mode: it consumes weight and volume capacity but
// receives no position.
type ItemDimensions struct {
	ID            string
	ProductID     string
	Quantity      int
	WeightPerUnit float64
	VolumePerUnit float64
	LengthPerUnit float64
	WidthPerUnit  float64
	HeightPerUnit float64
	Priority      int
}

// HasFootprint reports whether the item can be placed geometrically.
func (it ItemDimensions) HasFootprint() bool {
	return it.LengthPerUnit > 0 && it.WidthPerUnit > 0 && it.HeightPerUnit > 0
}

// UnitVolume returns the declared per-unit volume, falling back to the
// footprint box when no volume was declared.
func (it ItemDimensions) UnitVolume() float64 {
	if it.VolumePerUnit > 0 {
		return it.VolumePerUnit
	}
	if it.HasFootprint() {
		return it.LengthPerUnit * it.WidthPerUnit * it.HeightPerUnit
	}
	return 0
}

func (it ItemDimensions) TotalWeight() float64 { return float64(it.Quantity) * it.WeightPerUnit }

func (it ItemDimensions) TotalVolume() float64 { return float64(it.Quantity) * it.UnitVolume() }

// Validate rejects non-positive quantities and negative or non-finite measures.
func (it ItemDimensions) Validate() error {
	if it.ID == "" {
		return invalid(ErrInvalidItem, "id", "must not be empty")
	}
	if it.Quantity <= 0 {
		return invalid(ErrInvalidItem, it.ID+".quantity", fmt.Sprintf("must be > 0, got %d", it.Quantity))
	}

	measures := []struct {
		name string
		v    float64
	}{
		{"weight_per_unit", it.WeightPerUnit},
		{"volume_per_unit", it.VolumePerUnit},
		{"length_per_unit", it.LengthPerUnit},
		{"width_per_unit", it.WidthPerUnit},
		{"height_per_unit", it.HeightPerUnit},
	}
	for _, m := range measures {
		if math.IsNaN(m.v) || math.IsInf(m.v, 0) || m.v < 0 {
			return invalid(ErrInvalidItem, it.ID+"."+m.name, fmt.Sprintf("must be a finite value >= 0, got %v", m.v))
		}
	}

	return nil
}

// ValidateItems validates each item and rejects duplicate ids, which would
// break per-id accounting of packed and unpacked quantities.
func ValidateItems(items []ItemDimensions) error {
	seen := make(map[string]struct{}, len(items))
	for i, it := range items {
		if err := it.Validate(); err != nil {
			return fmt.Errorf("item #%d: %w", i+1, err)
		}
		if _, ok := seen[it.ID]; ok {
			return fmt.Errorf("item #%d: %w", i+1, invalid(ErrInvalidItem, it.ID, "duplicate item id"))
		}
		seen[it.ID] = struct{}{}
	}
	return nil
}
