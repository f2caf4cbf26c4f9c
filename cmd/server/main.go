package main

import (
	"context"
	"database/sql"
	"dispatch-planning-service/internal/adapters/cache"
	"dispatch-planning-service/internal/adapters/catalog"
	"dispatch-planning-service/internal/adapters/repositories"
	"dispatch-planning-service/internal/api"
	"dispatch-planning-service/internal/config"
	"dispatch-planning-service/internal/platform/db"
	"dispatch-planning-service/internal/platform/metrics"
	"dispatch-planning-service/internal/ports"
	"dispatch-planning-service/internal/services"
	"errors"
	"log"
	"net/http"
	"os"
	"time"

	"golang.org/x/time/rate"
)

// main is the application composition root.
// It picks adapters from configuration, wires them behind ports and starts the HTTP server.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	metrics.RegisterDefault()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	engine, err := services.NewEngine(services.EngineOptions{
		AverageSpeedKmh:  cfg.AverageSpeedKmh,
		PriorityDiscount: services.Discount(cfg.PriorityDiscount),
		MaxStopsPerRoute: cfg.MaxStopsPerRoute,
		MaxPackUnits:     cfg.MaxPackUnits,
		MaxRouteStops:    cfg.MaxRouteStops,
		RouteTimeout:     cfg.RouteTimeout,
		Workers:          cfg.Workers,
	})
	if err != nil {
		log.Fatal(err)
	}

	deps := api.Deps{
		Engine: engine,
		DispatchDefault: services.PlanDispatchRequest{
			MaxStopsPerRoute:      cfg.MaxStopsPerRoute,
			ConsolidationRadiusKm: cfg.ConsolidationRadiusKm,
		},
	}
	if cfg.RateLimitRPS > 0 {
		deps.Limiter = rate.NewLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst)
	}

	var conn *sql.DB
	if cfg.DatabaseURL != "" {
		conn, err = db.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatal(err)
		}
		defer conn.Close()

		deps.Shipments = repositories.NewPostgresShipmentRepository(conn)
		deps.Plans = repositories.NewPostgresPlanRepository(conn)
	}

	deps.Catalog = selectCatalog(cfg, conn)

	routeCache, closeCache, err := selectRouteCache(ctx, cfg, conn)
	if err != nil {
		log.Fatal(err)
	}
	defer closeCache()
	deps.Cache = routeCache

	router := api.NewRouter(deps)

	log.Printf("Server listening addr=:%s", cfg.Port)
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}

// selectCatalog prefers the database, then the YAML file, then the
// built-in vehicle table.
func selectCatalog(cfg config.Config, conn *sql.DB) ports.VehicleCatalog {
	if conn != nil {
		log.Println("vehicle catalog source=postgres")
		return repositories.NewPostgresVehicleRepository(conn)
	}
	if _, err := os.Stat(cfg.CatalogPath); err == nil {
		log.Printf("vehicle catalog source=yaml path=%s", cfg.CatalogPath)
		return catalog.NewYAMLCatalog(cfg.CatalogPath)
	}
	log.Println("vehicle catalog source=builtin")
	return catalog.NewStaticCatalog()
}

// selectRouteCache prefers Redis, then the database, then process memory.
func selectRouteCache(ctx context.Context, cfg config.Config, conn *sql.DB) (ports.RouteCache, func(), error) {
	switch {
	case cfg.RedisURL != "":
		rc, err := cache.NewRedisRouteCacheFromURL(ctx, cfg.RedisURL, cfg.RouteCacheTTL)
		if err != nil {
			return nil, nil, err
		}
		log.Println("route cache backend=redis")
		return rc, func() { _ = rc.Close() }, nil
	case conn != nil:
		log.Println("route cache backend=postgres")
		return cache.NewSQLRouteCache(conn, cfg.RouteCacheTTL), func() {}, nil
	default:
		log.Println("route cache backend=memory")
		return cache.NewMemoryRouteCache(cfg.RouteCacheTTL, cfg.RouteCacheMaxEntries), func() {}, nil
	}
}
