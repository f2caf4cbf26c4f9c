package services

import (
	"context"
	"dispatch-planning-service/internal/domain"
	"dispatch-planning-service/internal/platform/obs"
	"dispatch-planning-service/internal/ports"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

type PlanDispatchRequest struct {
	// MaxStopsPerRoute caps each route; zero selects the engine default.
	MaxStopsPerRoute int
	// ConsolidationRadiusKm is the clustering radius; zero selects the default.
	ConsolidationRadiusKm float64
}

// PlanDispatch plans every pending shipment and saves the result.
func (e *Engine) PlanDispatch(
	ctx context.Context,
	req PlanDispatchRequest,
	shipments ports.ShipmentRepository,
	catalog ports.VehicleCatalog,
	plans ports.PlanRepository,
) (_ domain.DispatchPlan, err error) {
	defer obs.Time(ctx, "services.PlanDispatch")(&err)

	pending, err := shipments.ListPendingShipments(ctx)
	if err != nil {
		return domain.DispatchPlan{}, fmt.Errorf("plan dispatch: list pending shipments: %w", err)
	}

	vehicles, err := catalog.ListVehicleProfiles(ctx)
	if err != nil {
		return domain.DispatchPlan{}, fmt.Errorf("plan dispatch: list vehicle profiles: %w", err)
	}

	plan, err := e.PlanShipments(ctx, req, pending, vehicles)
	if err != nil {
		return domain.DispatchPlan{}, fmt.Errorf("plan dispatch: %w", err)
	}

	if err := plans.SaveDispatchPlan(ctx, plan); err != nil {
		return domain.DispatchPlan{}, fmt.Errorf("plan dispatch: save plan %s: %w", plan.ID, err)
	}

	return plan, nil
}

// PlanShipments plans each shipment independently on a bounded worker pool.
// A shipment rejected for its own data (an ErrInvalidInput failure) is
// listed in Failed and the rest are still planned. Any other failure
// cancels the remaining work. Plans and failures keep the input order.
func (e *Engine) PlanShipments(
	ctx context.Context,
	req PlanDispatchRequest,
	shipments []domain.Shipment,
	catalog []domain.VehicleProfile,
) (domain.DispatchPlan, error) {
	vehicles, err := domain.NormalizeCatalog(catalog)
	if err != nil {
		return domain.DispatchPlan{}, err
	}

	seen := make(map[string]struct{}, len(shipments))
	for i, s := range shipments {
		id := strings.TrimSpace(s.ID)
		if id == "" {
			return domain.DispatchPlan{}, fmt.Errorf("shipment #%d: %w", i+1, &domain.ValidationError{
				Field: "id", Reason: "must not be empty", Err: domain.ErrInvalidInput,
			})
		}
		if _, ok := seen[id]; ok {
			return domain.DispatchPlan{}, fmt.Errorf("shipment #%d: %w", i+1, &domain.ValidationError{
				Field: id, Reason: "duplicate shipment id", Err: domain.ErrInvalidInput,
			})
		}
		seen[id] = struct{}{}
	}

	out := make([]domain.ShipmentPlan, len(shipments))
	failed := make([]error, len(shipments))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.opts.Workers)

	for i, s := range shipments {
		g.Go(func() error {
			p, err := e.planShipment(gctx, req, s, vehicles)
			switch {
			case errors.Is(err, domain.ErrInvalidInput):
				log.Printf("req_id=%s op=plan_shipment shipment_id=%s rejected err=%v", obs.RequestID(ctx), s.ID, err)
				failed[i] = err
			case err != nil:
				return fmt.Errorf("shipment %s: %w", s.ID, err)
			default:
				out[i] = p
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return domain.DispatchPlan{}, err
	}

	plan := domain.DispatchPlan{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Shipments: make([]domain.ShipmentPlan, 0, len(shipments)),
	}
	for i, s := range shipments {
		if failed[i] != nil {
			plan.Failed = append(plan.Failed, domain.ShipmentFailure{ShipmentID: s.ID, Err: failed[i]})
			continue
		}
		plan.Shipments = append(plan.Shipments, out[i])
	}
	return plan, nil
}

// planShipment picks vehicles for the load, orders the stops, and reports
// consolidation candidates and savings against the input stop order.
func (e *Engine) planShipment(ctx context.Context, req PlanDispatchRequest, s domain.Shipment, catalog []domain.VehicleProfile) (domain.ShipmentPlan, error) {
	if err := ctx.Err(); err != nil {
		return domain.ShipmentPlan{}, err
	}
	if err := s.Depot.Validate(); err != nil {
		return domain.ShipmentPlan{}, fmt.Errorf("depot: %w", err)
	}

	runs, err := e.PlanShipmentRuns(s.Items, catalog)
	if err != nil {
		return domain.ShipmentPlan{}, err
	}

	maxStops := req.MaxStopsPerRoute
	if maxStops <= 0 {
		maxStops = e.opts.MaxStopsPerRoute
	}
	routes, err := e.BatchRoutes(ctx, s.Depot, s.Stops, maxStops)
	if err != nil {
		return domain.ShipmentPlan{}, err
	}
	if err := ctx.Err(); err != nil {
		return domain.ShipmentPlan{}, err
	}

	clusters, err := e.SuggestConsolidation(s.Stops, req.ConsolidationRadiusKm)
	if err != nil {
		return domain.ShipmentPlan{}, err
	}

	var original, optimized []domain.Location
	for i, c := range chunk(s.Stops, maxStops) {
		original = append(original, s.Depot)
		original = append(original, c...)
		original = append(original, s.Depot)
		optimized = append(optimized, routes[i].Sequence...)
	}
	savings, err := e.CalculateSavings(original, optimized)
	if err != nil {
		return domain.ShipmentPlan{}, err
	}

	return domain.ShipmentPlan{
		ShipmentID:    s.ID,
		Runs:          runs,
		Routes:        routes,
		Consolidation: clusters,
		Savings:       savings,
	}, nil
}
