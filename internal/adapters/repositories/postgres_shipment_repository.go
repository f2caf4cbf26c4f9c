package repositories

import (
	"context"
	"database/sql"
	"dispatch-planning-service/internal/domain"
	"dispatch-planning-service/internal/platform/obs"
	"errors"
	"fmt"
)

// Postgres-backed implementation of the ShipmentRepository port.
type PostgresShipmentRepository struct{ DB *sql.DB }

func NewPostgresShipmentRepository(db *sql.DB) *PostgresShipmentRepository {
	return &PostgresShipmentRepository{DB: db}
}

// Return pending shipments, oldest first, with items and stops in their
// recorded order.
func (r *PostgresShipmentRepository) ListPendingShipments(ctx context.Context) (_ []domain.Shipment, err error) {
	defer obs.Time(ctx, "shipments.ListPendingShipments")(&err)

	if r.DB == nil {
		return nil, errors.New("postgres shipment repository: DB is nil")
	}

	shipments, err := r.listHeaders(ctx)
	if err != nil {
		return nil, err
	}
	if len(shipments) == 0 {
		return []domain.Shipment{}, nil
	}

	ids := make([]string, 0, len(shipments))
	byID := make(map[string]*domain.Shipment, len(shipments))
	for i := range shipments {
		ids = append(ids, shipments[i].ID)
		byID[shipments[i].ID] = &shipments[i]
	}

	if err := r.loadItems(ctx, ids, byID); err != nil {
		return nil, err
	}
	if err := r.loadStops(ctx, ids, byID); err != nil {
		return nil, err
	}

	return shipments, nil
}

func (r *PostgresShipmentRepository) listHeaders(ctx context.Context) ([]domain.Shipment, error) {
	query := `
	SELECT
		shipment_id,
		depot_id,
		depot_lat,
		depot_lng,
		depot_address
	FROM shipments
	WHERE status = 'pending'
	ORDER BY created_at, shipment_id;
	`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list pending shipments: query shipments table: %w", err)
	}
	defer rows.Close()

	shipments := make([]domain.Shipment, 0, 16)
	for rows.Next() {
		var s domain.Shipment
		if err := rows.Scan(&s.ID, &s.Depot.ID, &s.Depot.Lat, &s.Depot.Lng, &s.Depot.Address); err != nil {
			return nil, fmt.Errorf("list pending shipments: scan row: %w", err)
		}
		shipments = append(shipments, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list pending shipments: row iteration: %w", err)
	}

	return shipments, nil
}

func (r *PostgresShipmentRepository) loadItems(ctx context.Context, ids []string, byID map[string]*domain.Shipment) error {
	query := `
	SELECT
		shipment_id,
		item_id,
		product_id,
		quantity,
		weight_per_unit,
		volume_per_unit,
		length_per_unit,
		width_per_unit,
		height_per_unit,
		priority
	FROM shipment_items
	WHERE shipment_id = ANY($1::text[])
	ORDER BY shipment_id, line_no;
	`
	rows, err := r.DB.QueryContext(ctx, query, ids)
	if err != nil {
		return fmt.Errorf("list pending shipments: query shipment_items table: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var shipmentID string
		var it domain.ItemDimensions
		err := rows.Scan(&shipmentID, &it.ID, &it.ProductID, &it.Quantity,
			&it.WeightPerUnit, &it.VolumePerUnit, &it.LengthPerUnit, &it.WidthPerUnit, &it.HeightPerUnit, &it.Priority)
		if err != nil {
			return fmt.Errorf("list pending shipments: scan item row: %w", err)
		}
		if s, ok := byID[shipmentID]; ok {
			s.Items = append(s.Items, it)
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("list pending shipments: item row iteration: %w", err)
	}
	return nil
}

func (r *PostgresShipmentRepository) loadStops(ctx context.Context, ids []string, byID map[string]*domain.Shipment) error {
	query := `
	SELECT
		shipment_id,
		stop_id,
		lat,
		lng,
		address,
		priority,
		window_start,
		window_end
	FROM shipment_stops
	WHERE shipment_id = ANY($1::text[])
	ORDER BY shipment_id, position;
	`
	rows, err := r.DB.QueryContext(ctx, query, ids)
	if err != nil {
		return fmt.Errorf("list pending shipments: query shipment_stops table: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var shipmentID string
		var loc domain.Location
		var start, end sql.NullTime
		if err := rows.Scan(&shipmentID, &loc.ID, &loc.Lat, &loc.Lng, &loc.Address, &loc.Priority, &start, &end); err != nil {
			return fmt.Errorf("list pending shipments: scan stop row: %w", err)
		}
		if start.Valid || end.Valid {
			loc.TimeWindow = &domain.TimeWindow{Start: start.Time, End: end.Time}
		}
		if s, ok := byID[shipmentID]; ok {
			s.Stops = append(s.Stops, loc)
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("list pending shipments: stop row iteration: %w", err)
	}
	return nil
}
