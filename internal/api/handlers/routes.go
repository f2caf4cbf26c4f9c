package handlers

import (
	"dispatch-planning-service/internal/api/dto"
	"dispatch-planning-service/internal/ports"
	"dispatch-planning-service/internal/services"
	"net/http"
)

type RouteHandler struct {
	Engine *services.Engine
	// Cache is optional; without it every request is computed.
	Cache ports.RouteCache
}

func (h *RouteHandler) Optimize(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var req dto.OptimizeRouteRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	route, err := h.Engine.OptimizeRouteCached(r.Context(), h.Cache, req.Depot.Domain(), dto.Locations(req.Destinations))
	if err != nil {
		writeServiceError(w, r, "optimize route", err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.FromRoute(route))
}

func (h *RouteHandler) Batch(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var req dto.BatchRoutesRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	routes, err := h.Engine.BatchRoutes(r.Context(), req.Depot.Domain(), dto.Locations(req.Destinations), req.MaxStops)
	if err != nil {
		writeServiceError(w, r, "batch routes", err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.BatchRoutesResponse{Routes: dto.FromRoutes(routes)})
}

func (h *RouteHandler) Consolidate(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var req dto.ConsolidateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	clusters, err := h.Engine.SuggestConsolidation(dto.Locations(req.Destinations), req.MaxDistanceKm)
	if err != nil {
		writeServiceError(w, r, "suggest consolidation", err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.ConsolidateResponse{Clusters: dto.FromClusters(clusters)})
}

func (h *RouteHandler) Savings(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}

	var req dto.SavingsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	savings, err := h.Engine.CalculateSavings(dto.Locations(req.Original), dto.Locations(req.Optimized))
	if err != nil {
		writeServiceError(w, r, "calculate savings", err)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.FromSavings(savings))
}
