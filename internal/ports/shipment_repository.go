package ports

import (
	"context"
	"dispatch-planning-service/internal/domain"
)

// Port: a boundary for retrieving shipments that still need a dispatch plan.
type ShipmentRepository interface {
	ListPendingShipments(ctx context.Context) ([]domain.Shipment, error)
}
