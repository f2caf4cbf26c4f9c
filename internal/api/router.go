package api

import (
	"dispatch-planning-service/internal/api/handlers"
	"dispatch-planning-service/internal/platform/metrics"
	"dispatch-planning-service/internal/ports"
	"dispatch-planning-service/internal/services"
	"net/http"

	"golang.org/x/time/rate"
)

// Deps are the collaborators the HTTP layer needs. Shipments and Plans may
// be nil when no database is configured; Cache and Limiter are optional.
type Deps struct {
	Engine          *services.Engine
	Catalog         ports.VehicleCatalog
	Cache           ports.RouteCache
	Shipments       ports.ShipmentRepository
	Plans           ports.PlanRepository
	DispatchDefault services.PlanDispatchRequest
	Limiter         *rate.Limiter
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(d Deps) http.Handler {
	mux := http.NewServeMux()

	vehicleHandler := &handlers.VehicleHandler{Catalog: d.Catalog}
	packingHandler := &handlers.PackingHandler{Engine: d.Engine, Catalog: d.Catalog}
	routeHandler := &handlers.RouteHandler{Engine: d.Engine, Cache: d.Cache}
	dispatchHandler := &handlers.DispatchHandler{
		Engine:    d.Engine,
		Shipments: d.Shipments,
		Catalog:   d.Catalog,
		Plans:     d.Plans,
		Defaults:  d.DispatchDefault,
	}

	mux.HandleFunc("/health", handlers.Health)
	mux.Handle("/metrics", metrics.Handler())
	mux.HandleFunc("/vehicles", vehicleHandler.List)
	mux.HandleFunc("/packing/pack", packingHandler.Pack)
	mux.HandleFunc("/packing/suggest", packingHandler.Suggest)
	mux.HandleFunc("/routes/optimize", routeHandler.Optimize)
	mux.HandleFunc("/routes/batch", routeHandler.Batch)
	mux.HandleFunc("/routes/consolidate", routeHandler.Consolidate)
	mux.HandleFunc("/routes/savings", routeHandler.Savings)
	mux.HandleFunc("/dispatch/plan", dispatchHandler.Plan)

	return requestIDMiddleware(loggingMiddleware(metricsMiddleware(rateLimitMiddleware(d.Limiter, mux))))
}
