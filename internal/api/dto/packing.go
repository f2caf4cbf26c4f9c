package dto

import "dispatch-planning-service/internal/domain"

type ItemRequest struct {
	ID            string  `json:"id"`
	ProductID     string  `json:"product_id"`
	Quantity      int     `json:"quantity"`
	WeightPerUnit float64 `json:"weight_per_unit"`
	VolumePerUnit float64 `json:"volume_per_unit"`
	LengthPerUnit float64 `json:"length_per_unit"`
	WidthPerUnit  float64 `json:"width_per_unit"`
	HeightPerUnit float64 `json:"height_per_unit"`
	Priority      int     `json:"priority"`
}

type Vehicle struct {
	Type      string  `json:"type"`
	Length    float64 `json:"length"`
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
	MaxWeight float64 `json:"max_weight"`
	MaxVolume float64 `json:"max_volume"`
}

type ListVehiclesResponse struct {
	Vehicles []Vehicle `json:"vehicles"`
}

// PackRequest names a catalog vehicle by type, or supplies one inline.
type PackRequest struct {
	Items       []ItemRequest `json:"items"`
	VehicleType string        `json:"vehicle_type"`
	Vehicle     *Vehicle      `json:"vehicle"`
}

// SuggestRequest uses the service catalog unless Vehicles is given.
type SuggestRequest struct {
	Items    []ItemRequest `json:"items"`
	Vehicles []Vehicle     `json:"vehicles"`
}

type PositionResponse struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

type PackedItemResponse struct {
	ItemID    string            `json:"item_id"`
	ProductID string            `json:"product_id,omitempty"`
	Sequence  int               `json:"sequence"`
	Quantity  int               `json:"quantity"`
	Position  *PositionResponse `json:"position"`
	Length    float64           `json:"length"`
	Width     float64           `json:"width"`
	Height    float64           `json:"height"`
	Rotated   bool              `json:"rotated"`
	Weight    float64           `json:"weight"`
	Volume    float64           `json:"volume"`
}

type UnpackedItemResponse struct {
	ItemID   string `json:"item_id"`
	Quantity int    `json:"quantity"`
	Reason   string `json:"reason"`
}

type UtilizationResponse struct {
	WeightPct float64 `json:"weight_pct"`
	VolumePct float64 `json:"volume_pct"`
	LinearPct float64 `json:"linear_pct"`
}

type PackingResultResponse struct {
	VehicleType string                 `json:"vehicle_type"`
	Success     bool                   `json:"success"`
	Packed      []PackedItemResponse   `json:"packed"`
	Unpacked    []UnpackedItemResponse `json:"unpacked"`
	TotalWeight float64                `json:"total_weight"`
	TotalVolume float64                `json:"total_volume"`
	Utilization UtilizationResponse    `json:"utilization"`
	Warnings    []string               `json:"warnings"`
}

type VehicleRunResponse struct {
	Run         int                   `json:"run"`
	VehicleType string                `json:"vehicle_type"`
	Result      PackingResultResponse `json:"result"`
}

type SuggestResponse struct {
	Recommended   string                           `json:"recommended"`
	RequiresSplit bool                             `json:"requires_split"`
	Tried         []string                         `json:"tried"`
	Details       map[string]PackingResultResponse `json:"details"`
	Runs          []VehicleRunResponse             `json:"runs,omitempty"`
}

func (i ItemRequest) Domain() domain.ItemDimensions {
	return domain.ItemDimensions{
		ID:            i.ID,
		ProductID:     i.ProductID,
		Quantity:      i.Quantity,
		WeightPerUnit: i.WeightPerUnit,
		VolumePerUnit: i.VolumePerUnit,
		LengthPerUnit: i.LengthPerUnit,
		WidthPerUnit:  i.WidthPerUnit,
		HeightPerUnit: i.HeightPerUnit,
		Priority:      i.Priority,
	}
}

func Items(in []ItemRequest) []domain.ItemDimensions {
	out := make([]domain.ItemDimensions, 0, len(in))
	for _, i := range in {
		out = append(out, i.Domain())
	}
	return out
}

func (v Vehicle) Domain() domain.VehicleProfile {
	return domain.VehicleProfile{
		Type:      v.Type,
		Length:    v.Length,
		Width:     v.Width,
		Height:    v.Height,
		MaxWeight: v.MaxWeight,
		MaxVolume: v.MaxVolume,
	}
}

func Vehicles(in []Vehicle) []domain.VehicleProfile {
	out := make([]domain.VehicleProfile, 0, len(in))
	for _, v := range in {
		out = append(out, v.Domain())
	}
	return out
}

func FromVehicle(v domain.VehicleProfile) Vehicle {
	return Vehicle{
		Type:      v.Type,
		Length:    v.Length,
		Width:     v.Width,
		Height:    v.Height,
		MaxWeight: v.MaxWeight,
		MaxVolume: v.MaxVolume,
	}
}

func FromPackingResult(r domain.PackingResult) PackingResultResponse {
	res := PackingResultResponse{
		VehicleType: r.VehicleType,
		Success:     r.Success,
		Packed:      make([]PackedItemResponse, 0, len(r.Packed)),
		Unpacked:    make([]UnpackedItemResponse, 0, len(r.Unpacked)),
		TotalWeight: r.TotalWeight,
		TotalVolume: r.TotalVolume,
		Utilization: UtilizationResponse{
			WeightPct: r.Utilization.WeightPct,
			VolumePct: r.Utilization.VolumePct,
			LinearPct: r.Utilization.LinearPct,
		},
		Warnings: append([]string{}, r.Warnings...),
	}

	for _, p := range r.Packed {
		item := PackedItemResponse{
			ItemID:    p.ItemID,
			ProductID: p.ProductID,
			Sequence:  p.Sequence,
			Quantity:  p.Quantity,
			Length:    p.Length,
			Width:     p.Width,
			Height:    p.Height,
			Rotated:   p.Rotated,
			Weight:    p.Weight,
			Volume:    p.Volume,
		}
		if p.Position != nil {
			item.Position = &PositionResponse{X: p.Position.X, Y: p.Position.Y, Z: p.Position.Z}
		}
		res.Packed = append(res.Packed, item)
	}
	for _, u := range r.Unpacked {
		res.Unpacked = append(res.Unpacked, UnpackedItemResponse{
			ItemID:   u.ItemID,
			Quantity: u.Quantity,
			Reason:   string(u.Reason),
		})
	}

	return res
}

func FromSuggestion(s domain.VehicleSuggestion) SuggestResponse {
	res := SuggestResponse{
		Recommended:   s.Recommended,
		RequiresSplit: s.RequiresSplit,
		Tried:         append([]string{}, s.Tried...),
		Details:       make(map[string]PackingResultResponse, len(s.Details)),
	}
	for k, v := range s.Details {
		res.Details[k] = FromPackingResult(v)
	}
	return res
}

func FromRuns(runs []domain.VehicleRun) []VehicleRunResponse {
	out := make([]VehicleRunResponse, 0, len(runs))
	for _, r := range runs {
		out = append(out, VehicleRunResponse{
			Run:         r.Run,
			VehicleType: r.VehicleType,
			Result:      FromPackingResult(r.Result),
		})
	}
	return out
}
