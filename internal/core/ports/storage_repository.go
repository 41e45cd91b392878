package ports

import (
	"context"

	"github.com/hexcorp/hive-ai/internal/core/domain"
)

// StorageRepository defines persistence for stored drones.
type StorageRepository interface {
	Insert(ctx context.Context, stored *domain.StoredDrone) error
	// FindByTargetID returns the record storing the given drone, or
	// domain.ErrStoredDroneNotFound when it is not stored.
	FindByTargetID(ctx context.Context, targetID string) (*domain.StoredDrone, error)
	// FindAll returns every storage record, in store order.
	FindAll(ctx context.Context) ([]*domain.StoredDrone, error)
	Delete(ctx context.Context, id string) error
}
