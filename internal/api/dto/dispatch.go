package dto

import (
	"dispatch-planning-service/internal/domain"
	"time"
)

type PlanDispatchRequest struct {
	MaxStopsPerRoute      int     `json:"max_stops_per_route"`
	ConsolidationRadiusKm float64 `json:"consolidation_radius_km"`
}

type ShipmentPlanResponse struct {
	ShipmentID    string               `json:"shipment_id"`
	RequiresSplit bool                 `json:"requires_split"`
	Runs          []VehicleRunResponse `json:"runs"`
	Routes        []RouteResponse      `json:"routes"`
	Consolidation []ClusterResponse    `json:"consolidation"`
	Savings       SavingsResponse      `json:"savings"`
}

type ShipmentFailureResponse struct {
	ShipmentID string `json:"shipment_id"`
	Error      string `json:"error"`
}

type DispatchPlanResponse struct {
	ID        string                    `json:"id"`
	CreatedAt time.Time                 `json:"created_at"`
	Shipments []ShipmentPlanResponse    `json:"shipments"`
	Failed    []ShipmentFailureResponse `json:"failed"`
}

func FromDispatchPlan(p domain.DispatchPlan) DispatchPlanResponse {
	res := DispatchPlanResponse{
		ID:        p.ID,
		CreatedAt: p.CreatedAt,
		Shipments: make([]ShipmentPlanResponse, 0, len(p.Shipments)),
		Failed:    make([]ShipmentFailureResponse, 0, len(p.Failed)),
	}
	for _, f := range p.Failed {
		res.Failed = append(res.Failed, ShipmentFailureResponse{ShipmentID: f.ShipmentID, Error: f.Err.Error()})
	}
	for _, s := range p.Shipments {
		res.Shipments = append(res.Shipments, ShipmentPlanResponse{
			ShipmentID:    s.ShipmentID,
			RequiresSplit: s.RequiresSplit(),
			Runs:          FromRuns(s.Runs),
			Routes:        FromRoutes(s.Routes),
			Consolidation: FromClusters(s.Consolidation),
			Savings:       FromSavings(s.Savings),
		})
	}
	return res
}
