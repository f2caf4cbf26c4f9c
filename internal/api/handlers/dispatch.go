package handlers

import (
	"dispatch-planning-service/internal/api/dto"
	"dispatch-planning-service/internal/ports"
	"dispatch-planning-service/internal/services"
	"net/http"
)

// DispatchHandler plans every pending shipment. It needs the shipment and
// plan repositories; without them it answers 503.
type DispatchHandler struct {
	Engine    *services.Engine
	Shipments ports.ShipmentRepository
	Catalog   ports.VehicleCatalog
	Plans     ports.PlanRepository
	Defaults  services.PlanDispatchRequest
}

func (h *DispatchHandler) Plan(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}
	if h.Shipments == nil || h.Plans == nil {
		writeError(w, r, http.StatusServiceUnavailable, "dispatch planning requires a database")
		return
	}

	var req dto.PlanDispatchRequest
	if r.ContentLength != 0 {
		if !decodeJSON(w, r, &req) {
			return
		}
	}

	if req.MaxStopsPerRoute < 0 {
		writeError(w, r, http.StatusBadRequest, "max_stops_per_route must be >= 0")
		return
	}

	svcReq := h.Defaults
	if req.MaxStopsPerRoute > 0 {
		svcReq.MaxStopsPerRoute = req.MaxStopsPerRoute
	}
	if req.ConsolidationRadiusKm != 0 {
		svcReq.ConsolidationRadiusKm = req.ConsolidationRadiusKm
	}

	plan, err := h.Engine.PlanDispatch(r.Context(), svcReq, h.Shipments, h.Catalog, h.Plans)
	if err != nil {
		writeServiceError(w, r, "plan dispatch", err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.FromDispatchPlan(plan))
}
