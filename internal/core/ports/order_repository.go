package ports

import (
	"context"

	"github.com/hexcorp/hive-ai/internal/core/domain"
)

// OrderRepository defines persistence for active protocol orders.
type OrderRepository interface {
	Insert(ctx context.Context, order *domain.ActiveOrder) error
	// FindByDroneID returns the drone's active order, or
	// domain.ErrOrderNotFound when it has none.
	FindByDroneID(ctx context.Context, droneID string) (*domain.ActiveOrder, error)
	// FindAll returns every active order, in store order.
	FindAll(ctx context.Context) ([]*domain.ActiveOrder, error)
	Delete(ctx context.Context, id string) error
}
