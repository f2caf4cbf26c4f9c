package repositories

import (
	"context"
	"database/sql"
	"dispatch-planning-service/internal/domain"
	"dispatch-planning-service/internal/platform/obs"
	"errors"
	"fmt"
)

// Postgres-backed implementation of the PlanRepository port.
type PostgresPlanRepository struct{ DB *sql.DB }

func NewPostgresPlanRepository(db *sql.DB) *PostgresPlanRepository {
	return &PostgresPlanRepository{DB: db}
}

// Store a dispatch plan in one transaction. Planned shipments are marked
// 'planned'; rejected ones are recorded and marked 'failed' so they leave
// the pending queue until corrected.
func (r *PostgresPlanRepository) SaveDispatchPlan(ctx context.Context, plan domain.DispatchPlan) (err error) {
	defer obs.Time(ctx, "plans.SaveDispatchPlan")(&err)

	if r.DB == nil {
		return errors.New("postgres plan repository: DB is nil")
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save dispatch plan: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO dispatch_plans (plan_id, created_at) VALUES ($1, $2);`,
		plan.ID, plan.CreatedAt,
	); err != nil {
		return fmt.Errorf("save dispatch plan: insert plan_id=%s: %w", plan.ID, err)
	}

	runStmt, err := tx.PrepareContext(ctx, `
	INSERT INTO vehicle_runs (
		plan_id, shipment_id, run, vehicle_type, success,
		total_weight, total_volume, weight_pct, volume_pct, linear_pct
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`)
	if err != nil {
		return fmt.Errorf("save dispatch plan: prepare vehicle_runs insert: %w", err)
	}
	defer runStmt.Close()

	posStmt, err := tx.PrepareContext(ctx, `
	INSERT INTO load_positions (plan_id, shipment_id, run, sequence, item_id, quantity, pos_x, pos_y, pos_z, rotated)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`)
	if err != nil {
		return fmt.Errorf("save dispatch plan: prepare load_positions insert: %w", err)
	}
	defer posStmt.Close()

	stopStmt, err := tx.PrepareContext(ctx, `
	INSERT INTO route_stops (
		plan_id, shipment_id, route_no, position, stop_id, lat, lng,
		leg_distance_km, leg_duration_min, fallback_applied
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`)
	if err != nil {
		return fmt.Errorf("save dispatch plan: prepare route_stops insert: %w", err)
	}
	defer stopStmt.Close()

	for _, sp := range plan.Shipments {
		for _, run := range sp.Runs {
			res := run.Result
			u := res.Utilization
			if _, err := runStmt.ExecContext(ctx, plan.ID, sp.ShipmentID, run.Run, run.VehicleType, res.Success,
				res.TotalWeight, res.TotalVolume, u.WeightPct, u.VolumePct, u.LinearPct); err != nil {
				return fmt.Errorf("save dispatch plan: insert run shipment_id=%s run=%d: %w", sp.ShipmentID, run.Run, err)
			}

			for _, p := range res.Packed {
				var x, y, z sql.NullFloat64
				if p.Position != nil {
					x = sql.NullFloat64{Float64: p.Position.X, Valid: true}
					y = sql.NullFloat64{Float64: p.Position.Y, Valid: true}
					z = sql.NullFloat64{Float64: p.Position.Z, Valid: true}
				}
				if _, err := posStmt.ExecContext(ctx, plan.ID, sp.ShipmentID, run.Run, p.Sequence, p.ItemID, p.Quantity,
					x, y, z, p.Rotated); err != nil {
					return fmt.Errorf("save dispatch plan: insert position shipment_id=%s run=%d seq=%d: %w",
						sp.ShipmentID, run.Run, p.Sequence, err)
				}
			}
		}

		for routeNo, route := range sp.Routes {
			// Position 0 is the depot departure; leg columns describe the
			// leg arriving at the row's stop.
			for pos, loc := range route.Sequence {
				var km, mins float64
				if pos > 0 {
					km = route.Segments[pos-1].DistanceKm
					mins = route.Segments[pos-1].DurationMin
				}
				if _, err := stopStmt.ExecContext(ctx, plan.ID, sp.ShipmentID, routeNo+1, pos, loc.ID, loc.Lat, loc.Lng,
					km, mins, route.FallbackApplied); err != nil {
					return fmt.Errorf("save dispatch plan: insert stop shipment_id=%s route=%d pos=%d: %w",
						sp.ShipmentID, routeNo+1, pos, err)
				}
			}
		}

		if _, err := tx.ExecContext(ctx,
			`UPDATE shipments SET status = 'planned' WHERE shipment_id = $1;`, sp.ShipmentID,
		); err != nil {
			return fmt.Errorf("save dispatch plan: mark shipment_id=%s planned: %w", sp.ShipmentID, err)
		}
	}

	for _, f := range plan.Failed {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO shipment_failures (plan_id, shipment_id, reason) VALUES ($1, $2, $3);`,
			plan.ID, f.ShipmentID, f.Err.Error(),
		); err != nil {
			return fmt.Errorf("save dispatch plan: insert failure shipment_id=%s: %w", f.ShipmentID, err)
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE shipments SET status = 'failed' WHERE shipment_id = $1;`, f.ShipmentID,
		); err != nil {
			return fmt.Errorf("save dispatch plan: mark shipment_id=%s failed: %w", f.ShipmentID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save dispatch plan: commit tx: %w", err)
	}

	return nil
}
