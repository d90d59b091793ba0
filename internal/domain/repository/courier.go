package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/ordesk/ordesk/internal/domain/model"
)

// CourierRepository describes tenant-scoped persistence for couriers.
type CourierRepository interface {
	Create(ctx context.Context, courier *model.Courier) (*model.Courier, error)
	Get(ctx context.Context, tenantID, courierID uuid.UUID) (*model.Courier, error)
	GetByLogin(ctx context.Context, tenantID uuid.UUID, login string) (*model.Courier, error)
	List(ctx context.Context, tenantID uuid.UUID) ([]model.Courier, error)
	ListAvailable(ctx context.Context, tenantID uuid.UUID) ([]model.Courier, error)
	SetStatus(ctx context.Context, tenantID, courierID uuid.UUID, status model.CourierStatus) error
	Patch(ctx context.Context, tenantID, courierID uuid.UUID, patch model.CourierPatch) (*model.Courier, error)
}
