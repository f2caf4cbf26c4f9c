package repositories

import (
	"context"
	"database/sql"
	"dispatch-planning-service/internal/domain"
	"errors"
	"fmt"
)

// Initialize the Postgres database schema.
func InitSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createVehicleProfilesQuery := `
	CREATE TABLE IF NOT EXISTS vehicle_profiles (
		vehicle_type TEXT PRIMARY KEY,
		length DOUBLE PRECISION NOT NULL CHECK (length > 0),
		width DOUBLE PRECISION NOT NULL CHECK (width > 0),
		height DOUBLE PRECISION NOT NULL CHECK (height > 0),
		max_weight DOUBLE PRECISION NOT NULL CHECK (max_weight > 0),
		max_volume DOUBLE PRECISION NOT NULL CHECK (max_volume > 0)
	);
	`

	createShipmentsQuery := `
	CREATE TABLE IF NOT EXISTS shipments (
		shipment_id TEXT PRIMARY KEY,
		depot_id TEXT NOT NULL,
		depot_lat DOUBLE PRECISION NOT NULL,
		depot_lng DOUBLE PRECISION NOT NULL,
		depot_address TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT 'pending',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	`

	createShipmentItemsQuery := `
	CREATE TABLE IF NOT EXISTS shipment_items (
		shipment_id TEXT NOT NULL REFERENCES shipments(shipment_id) ON DELETE CASCADE,
		line_no INTEGER NOT NULL,
		item_id TEXT NOT NULL,
		product_id TEXT NOT NULL DEFAULT '',
		quantity INTEGER NOT NULL,
		weight_per_unit DOUBLE PRECISION NOT NULL DEFAULT 0,
		volume_per_unit DOUBLE PRECISION NOT NULL DEFAULT 0,
		length_per_unit DOUBLE PRECISION NOT NULL DEFAULT 0,
		width_per_unit DOUBLE PRECISION NOT NULL DEFAULT 0,
		height_per_unit DOUBLE PRECISION NOT NULL DEFAULT 0,
		priority INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (shipment_id, item_id)
	);
	`

	createShipmentStopsQuery := `
	CREATE TABLE IF NOT EXISTS shipment_stops (
		shipment_id TEXT NOT NULL REFERENCES shipments(shipment_id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		stop_id TEXT NOT NULL,
		lat DOUBLE PRECISION NOT NULL,
		lng DOUBLE PRECISION NOT NULL,
		address TEXT NOT NULL DEFAULT '',
		priority INTEGER NOT NULL DEFAULT 0,
		window_start TIMESTAMPTZ,
		window_end TIMESTAMPTZ,
		PRIMARY KEY (shipment_id, position)
	);
	`

	createDispatchPlansQuery := `
	CREATE TABLE IF NOT EXISTS dispatch_plans (
		plan_id UUID PRIMARY KEY,
		created_at TIMESTAMPTZ NOT NULL
	);
	`

	createVehicleRunsQuery := `
	CREATE TABLE IF NOT EXISTS vehicle_runs (
		plan_id UUID NOT NULL REFERENCES dispatch_plans(plan_id) ON DELETE CASCADE,
		shipment_id TEXT NOT NULL,
		run INTEGER NOT NULL,
		vehicle_type TEXT NOT NULL,
		success BOOLEAN NOT NULL,
		total_weight DOUBLE PRECISION NOT NULL,
		total_volume DOUBLE PRECISION NOT NULL,
		weight_pct DOUBLE PRECISION NOT NULL,
		volume_pct DOUBLE PRECISION NOT NULL,
		linear_pct DOUBLE PRECISION NOT NULL,
		PRIMARY KEY (plan_id, shipment_id, run)
	);
	`

	createLoadPositionsQuery := `
	CREATE TABLE IF NOT EXISTS load_positions (
		plan_id UUID NOT NULL,
		shipment_id TEXT NOT NULL,
		run INTEGER NOT NULL,
		sequence INTEGER NOT NULL,
		item_id TEXT NOT NULL,
		quantity INTEGER NOT NULL,
		pos_x DOUBLE PRECISION,
		pos_y DOUBLE PRECISION,
		pos_z DOUBLE PRECISION,
		rotated BOOLEAN NOT NULL DEFAULT false,
		PRIMARY KEY (plan_id, shipment_id, run, sequence),
		FOREIGN KEY (plan_id, shipment_id, run) REFERENCES vehicle_runs(plan_id, shipment_id, run) ON DELETE CASCADE
	);
	`

	createRouteStopsQuery := `
	CREATE TABLE IF NOT EXISTS route_stops (
		plan_id UUID NOT NULL REFERENCES dispatch_plans(plan_id) ON DELETE CASCADE,
		shipment_id TEXT NOT NULL,
		route_no INTEGER NOT NULL,
		position INTEGER NOT NULL,
		stop_id TEXT NOT NULL,
		lat DOUBLE PRECISION NOT NULL,
		lng DOUBLE PRECISION NOT NULL,
		leg_distance_km DOUBLE PRECISION NOT NULL,
		leg_duration_min DOUBLE PRECISION NOT NULL,
		fallback_applied BOOLEAN NOT NULL DEFAULT false,
		PRIMARY KEY (plan_id, shipment_id, route_no, position)
	);
	`

	createShipmentFailuresQuery := `
	CREATE TABLE IF NOT EXISTS shipment_failures (
		plan_id UUID NOT NULL REFERENCES dispatch_plans(plan_id) ON DELETE CASCADE,
		shipment_id TEXT NOT NULL,
		reason TEXT NOT NULL,
		PRIMARY KEY (plan_id, shipment_id)
	);
	`

	createRouteCacheQuery := `
	CREATE TABLE IF NOT EXISTS route_cache (
		cache_key TEXT PRIMARY KEY,
		payload JSONB NOT NULL,
		expires_at TIMESTAMPTZ NOT NULL
	);
	`

	createGeocodeCacheQuery := `
	CREATE TABLE IF NOT EXISTS geocode_cache (
		address TEXT PRIMARY KEY,
		lat DOUBLE PRECISION NOT NULL,
		lng DOUBLE PRECISION NOT NULL
	);
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_shipments_status_created
	ON shipments(status, created_at);
	`

	statements := []string{
		createVehicleProfilesQuery,
		createShipmentsQuery,
		createShipmentItemsQuery,
		createShipmentStopsQuery,
		createDispatchPlansQuery,
		createVehicleRunsQuery,
		createLoadPositionsQuery,
		createRouteStopsQuery,
		createShipmentFailuresQuery,
		createRouteCacheQuery,
		createGeocodeCacheQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

// Upsert vehicle profiles into the catalog table.
func SeedVehicles(ctx context.Context, db *sql.DB, vehicles []domain.VehicleProfile) error {
	vehicles, err := domain.NormalizeCatalog(vehicles)
	if err != nil {
		return fmt.Errorf("seed vehicles: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed vehicles: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO vehicle_profiles (vehicle_type, length, width, height, max_weight, max_volume)
	VALUES ($1, $2, $3, $4, $5, $6)
	ON CONFLICT (vehicle_type) DO UPDATE
	SET length = EXCLUDED.length,
		width = EXCLUDED.width,
		height = EXCLUDED.height,
		max_weight = EXCLUDED.max_weight,
		max_volume = EXCLUDED.max_volume;
	`)
	if err != nil {
		return fmt.Errorf("seed vehicles: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, v := range vehicles {
		if _, err := stmt.ExecContext(ctx, v.Type, v.Length, v.Width, v.Height, v.MaxWeight, v.MaxVolume); err != nil {
			return fmt.Errorf("seed vehicles: insert vehicle_type=%s: %w", v.Type, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed vehicles: commit tx: %w", err)
	}

	return nil
}
