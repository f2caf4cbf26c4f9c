package repositories

import (
	"context"
	"database/sql"
	"dispatch-planning-service/internal/domain"
	"dispatch-planning-service/internal/platform/obs"
	"errors"
	"fmt"
)

// Postgres-backed implementation of the VehicleCatalog port.
type PostgresVehicleRepository struct{ DB *sql.DB }

func NewPostgresVehicleRepository(db *sql.DB) *PostgresVehicleRepository {
	return &PostgresVehicleRepository{DB: db}
}

// Return all vehicle profiles ordered by capacity.
func (r *PostgresVehicleRepository) ListVehicleProfiles(ctx context.Context) (_ []domain.VehicleProfile, err error) {
	defer obs.Time(ctx, "vehicles.ListVehicleProfiles")(&err)

	if r.DB == nil {
		return nil, errors.New("postgres vehicle repository: DB is nil")
	}

	query := `
	SELECT
		vehicle_type,
		length,
		width,
		height,
		max_weight,
		max_volume
	FROM vehicle_profiles
	ORDER BY max_volume, max_weight, vehicle_type;
	`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list vehicle profiles: query vehicle_profiles table: %w", err)
	}
	defer rows.Close()

	vehicles := make([]domain.VehicleProfile, 0, 8)
	for rows.Next() {
		var v domain.VehicleProfile
		if err := rows.Scan(&v.Type, &v.Length, &v.Width, &v.Height, &v.MaxWeight, &v.MaxVolume); err != nil {
			return nil, fmt.Errorf("list vehicle profiles: scan row: %w", err)
		}
		vehicles = append(vehicles, v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list vehicle profiles: row iteration: %w", err)
	}

	return vehicles, nil
}
