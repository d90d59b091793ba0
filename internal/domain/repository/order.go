package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ordesk/ordesk/internal/domain/model"
)

// OrderUpdate carries the mutable slice of an order written by a transition.
// Pointer fields are applied only when non-nil; ClearCourier drops the
// courier reference regardless.
type OrderUpdate struct {
	Status       model.OrderStatus
	AssignedAt   *time.Time
	PickedUpAt   *time.Time
	CompletedAt  *time.Time
	ClearCourier bool
}

// OrderRepository describes tenant-scoped persistence for orders. Every
// method takes the tenant key; no cross-tenant read path exists.
type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) (*model.Order, error)
	Get(ctx context.Context, tenantID, orderID uuid.UUID) (*model.Order, error)
	List(ctx context.Context, tenantID uuid.UUID, statuses []model.OrderStatus) ([]model.Order, error)
	ListUnassigned(ctx context.Context, tenantID uuid.UUID) ([]model.Order, error)
	Update(ctx context.Context, tenantID, orderID uuid.UUID, update OrderUpdate) (*model.Order, error)

	// Claim atomically assigns the order to the courier. Inside one
	// transaction it verifies the order is still ready and unassigned,
	// sets the courier reference and assigned status, flips the courier
	// to busy, and, when offerID is non-nil, marks that offer accepted
	// and every sibling pending offer expired. Losers of the race get
	// domain.ErrAlreadyAssigned.
	Claim(ctx context.Context, tenantID, orderID, courierID uuid.UUID, offerID *uuid.UUID) (*model.Order, error)
}
