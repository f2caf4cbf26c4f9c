package main

import (
	"context"
	"database/sql"
	"dispatch-planning-service/internal/adapters/cache"
	"dispatch-planning-service/internal/adapters/catalog"
	"dispatch-planning-service/internal/adapters/geocode"
	"dispatch-planning-service/internal/adapters/repositories"
	"dispatch-planning-service/internal/config"
	"dispatch-planning-service/internal/platform/db"
	"dispatch-planning-service/internal/services"
	"fmt"
	"log"
	"time"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	conn, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	if err := initAndSeed(ctx, conn, cfg); err != nil {
		log.Fatal(err)
	}
}

func initAndSeed(ctx context.Context, conn *sql.DB, cfg config.Config) error {
	log.Println("Initializing database schema...")
	if err := repositories.InitSchema(ctx, conn); err != nil {
		return fmt.Errorf("schema initialization failed: %w", err)
	}
	log.Println("Schema ready.")

	log.Printf("Seeding vehicle profiles from %s...", cfg.CatalogPath)
	vehicles, err := catalog.NewYAMLCatalog(cfg.CatalogPath).ListVehicleProfiles(ctx)
	if err != nil {
		return fmt.Errorf("vehicle seeding failed: %w", err)
	}
	if err := repositories.SeedVehicles(ctx, conn, vehicles); err != nil {
		return fmt.Errorf("vehicle seeding failed: %w", err)
	}

	log.Printf("Seeding shipments from %s...", cfg.SeedPath)
	shipments, err := repositories.LoadShipmentSeeds(cfg.SeedPath)
	if err != nil {
		return fmt.Errorf("shipment seeding failed: %w", err)
	}

	if cfg.ORSAPIKey != "" {
		geocoder, err := geocode.NewORSGeocoder(cfg.ORSAPIKey,
			geocode.WithBaseURL(cfg.ORSBaseURL),
			geocode.WithCountry(cfg.ORSCountry),
			geocode.WithCache(cache.NewSQLGeocodeCache(conn)),
		)
		if err != nil {
			return fmt.Errorf("shipment seeding failed: %w", err)
		}
		if err := services.ResolveShipmentLocations(ctx, geocoder, shipments); err != nil {
			return fmt.Errorf("shipment seeding failed: %w", err)
		}
	} else {
		log.Println("ORS_API_KEY not set, skipping address geocoding")
	}

	if err := repositories.InsertShipments(ctx, conn, shipments); err != nil {
		return fmt.Errorf("shipment seeding failed: %w", err)
	}
	log.Printf("Seeding complete. vehicles=%d shipments=%d", len(vehicles), len(shipments))

	return nil
}
