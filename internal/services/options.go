package services

import (
	"fmt"
	"math"
	"time"

	"dispatch-planning-service/internal/domain"
)

const (
	DefaultAverageSpeedKmh       = 40.0
	DefaultPriorityDiscount      = 0.1
	DefaultMaxStopsPerRoute      = 15
	DefaultConsolidationRadiusKm = 5.0
	DefaultMaxPackUnits          = 5000
	DefaultMaxRouteStops         = 2000
	DefaultRouteTimeout          = 2 * time.Second
	DefaultWorkers               = 4

	// MaxPriorityDiscount is exclusive: at 0.25 a priority 5 stop would
	// look free.
	MaxPriorityDiscount = 0.25
)

// EngineOptions holds the tunables of the planning heuristics. The zero
// value of any field selects its default; PriorityDiscount uses nil for
// that so an explicit 0 can switch the discount off.
type EngineOptions struct {
	// AverageSpeedKmh is the fixed speed used to estimate durations.
	AverageSpeedKmh float64
	// PriorityDiscount is the perceived-distance reduction per priority
	// level above 1 when choosing the next stop, in [0, 0.25).
	PriorityDiscount *float64
	MaxStopsPerRoute int
	// MaxPackUnits caps the expanded unit count accepted by Pack.
	MaxPackUnits int
	// MaxRouteStops caps the destinations accepted by OptimizeRoute.
	MaxRouteStops int
	// RouteTimeout bounds a single route construction in BatchRoutes,
	// PlanDispatch and OptimizeRouteCached; on expiry the input order is kept.
	RouteTimeout time.Duration
	Workers      int
}

func (o EngineOptions) withDefaults() EngineOptions {
	if o.AverageSpeedKmh <= 0 {
		o.AverageSpeedKmh = DefaultAverageSpeedKmh
	}
	d := DefaultPriorityDiscount
	if o.PriorityDiscount != nil {
		d = *o.PriorityDiscount
	}
	o.PriorityDiscount = &d
	if o.MaxStopsPerRoute <= 0 {
		o.MaxStopsPerRoute = DefaultMaxStopsPerRoute
	}
	if o.MaxPackUnits <= 0 {
		o.MaxPackUnits = DefaultMaxPackUnits
	}
	if o.MaxRouteStops <= 0 {
		o.MaxRouteStops = DefaultMaxRouteStops
	}
	if o.RouteTimeout <= 0 {
		o.RouteTimeout = DefaultRouteTimeout
	}
	if o.Workers <= 0 {
		o.Workers = DefaultWorkers
	}
	return o
}

// Validate rejects options the heuristics cannot use. Unset fields are
// always valid.
func (o EngineOptions) Validate() error {
	if d := o.PriorityDiscount; d != nil && (math.IsNaN(*d) || *d < 0 || *d >= MaxPriorityDiscount) {
		return &domain.ValidationError{
			Field:  "priority_discount",
			Reason: fmt.Sprintf("must be in [0, %v), got %v", MaxPriorityDiscount, *d),
			Err:    domain.ErrInvalidInput,
		}
	}
	if math.IsNaN(o.AverageSpeedKmh) || math.IsInf(o.AverageSpeedKmh, 0) {
		return &domain.ValidationError{
			Field:  "average_speed_kmh",
			Reason: fmt.Sprintf("must be finite, got %v", o.AverageSpeedKmh),
			Err:    domain.ErrInvalidInput,
		}
	}
	return nil
}

// Discount returns a pointer for EngineOptions.PriorityDiscount.
func Discount(v float64) *float64 { return &v }

// DefaultEngineOptions returns the options used by the package-level functions.
func DefaultEngineOptions() EngineOptions { return EngineOptions{}.withDefaults() }
