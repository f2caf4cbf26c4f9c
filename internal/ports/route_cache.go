package ports

import (
	"context"
	"dispatch-planning-service/internal/domain"
)

// Port: stores optimized routes under a key derived from the request.
// Route construction is deterministic, so a hit is always valid.
type RouteCache interface {
	// Get reports false on a miss.
	Get(ctx context.Context, key string) (domain.OptimizedRoute, bool, error)
	Put(ctx context.Context, key string, route domain.OptimizedRoute) error
}
