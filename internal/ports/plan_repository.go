package ports

import (
	"context"
	"dispatch-planning-service/internal/domain"
)

// Port: persists the outcome of a dispatch planning job, including the
// vehicle, load positions and stop order of every run.
type PlanRepository interface {
	SaveDispatchPlan(ctx context.Context, plan domain.DispatchPlan) error
}
