package domain

import "time"

// Shipment is one unit of dispatch work: the goods to load and the stops
// they are delivered to from a single depot.
type Shipment struct {
	ID    string
	Depot Location
	Items []ItemDimensions
	Stops []Location
}

// ShipmentPlan is the engine output for one shipment. The caller persists
// the vehicle runs (vehicle type, positions, sequence) and the route stop
// order onto its own records.
type ShipmentPlan struct {
	ShipmentID    string
	Runs          []VehicleRun
	Routes        []OptimizedRoute
	Consolidation []Cluster
	Savings       Savings
}

// RequiresSplit reports whether the shipment needs more than one vehicle run.
func (p ShipmentPlan) RequiresSplit() bool { return len(p.Runs) > 1 }

// ShipmentFailure records a shipment whose own data could not be planned,
// such as an item no vehicle can carry. Err wraps ErrInvalidInput.
type ShipmentFailure struct {
	ShipmentID string
	Err        error
}

// DispatchPlan holds the shipments that were planned and the ones that
// were rejected. A rejected shipment does not block the others.
type DispatchPlan struct {
	ID        string
	CreatedAt time.Time
	Shipments []ShipmentPlan
	Failed    []ShipmentFailure
}
