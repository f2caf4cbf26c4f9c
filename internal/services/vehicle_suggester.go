package services

import (
	"dispatch-planning-service/internal/domain"
	"fmt"
	"strings"
)

// SuggestVehicle packs the items into each catalog vehicle from smallest to
// largest and recommends the first that takes everything.
//
// When no vehicle succeeds the largest one is recommended with
// RequiresSplit set; its result lists the units left for another run.
func (e *Engine) SuggestVehicle(items []domain.ItemDimensions, catalog []domain.VehicleProfile) (domain.VehicleSuggestion, error) {
	vehicles, err := domain.NormalizeCatalog(catalog)
	if err != nil {
		return domain.VehicleSuggestion{}, fmt.Errorf("suggest vehicle: %w", err)
	}

	s := domain.VehicleSuggestion{
		Tried:   make([]string, 0, len(vehicles)),
		Details: make(map[string]domain.PackingResult, len(vehicles)),
	}

	for _, v := range vehicles {
		res, err := e.Pack(items, v)
		if err != nil {
			return domain.VehicleSuggestion{}, fmt.Errorf("suggest vehicle: %s: %w", v.Type, err)
		}

		s.Tried = append(s.Tried, v.Type)
		s.Details[v.Type] = res
		if res.Success {
			s.Recommended = v.Type
			return s, nil
		}
	}

	s.Recommended = vehicles[len(vehicles)-1].Type
	s.RequiresSplit = true
	return s, nil
}

// PlanShipmentRuns splits a load across as many vehicle runs as needed.
// Each run takes the vehicle SuggestVehicle recommends for what is still
// unpacked. It fails with ErrUnplaceableItem when a run cannot place a
// single unit, which means some item fits no vehicle in the catalog.
func (e *Engine) PlanShipmentRuns(items []domain.ItemDimensions, catalog []domain.VehicleProfile) ([]domain.VehicleRun, error) {
	runs := []domain.VehicleRun{}
	if len(items) == 0 {
		return runs, nil
	}

	remaining := items
	for run := 1; ; run++ {
		s, err := e.SuggestVehicle(remaining, catalog)
		if err != nil {
			return nil, fmt.Errorf("plan shipment runs: run %d: %w", run, err)
		}

		res := s.Result()
		if len(res.Packed) == 0 {
			ids := make([]string, 0, len(remaining))
			for _, it := range remaining {
				ids = append(ids, it.ID)
			}
			return nil, fmt.Errorf("plan shipment runs: run %d: %w: %s", run, domain.ErrUnplaceableItem, strings.Join(ids, ", "))
		}

		runs = append(runs, domain.VehicleRun{Run: run, VehicleType: s.Recommended, Result: res})
		if !s.RequiresSplit {
			return runs, nil
		}

		remaining = leftover(remaining, res)
	}
}

// leftover returns the items of a load reduced to their unpacked quantities.
func leftover(items []domain.ItemDimensions, res domain.PackingResult) []domain.ItemDimensions {
	unpacked := res.UnpackedQuantities()
	out := make([]domain.ItemDimensions, 0, len(unpacked))
	for _, it := range items {
		if n := unpacked[it.ID]; n > 0 {
			it.Quantity = n
			out = append(out, it)
		}
	}
	return out
}
