package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ordesk/ordesk/internal/domain/model"
)

// OfferRepository describes tenant-scoped persistence for dispatch offers.
// Expired offers are filtered at read time by the now argument, never swept.
type OfferRepository interface {
	// CreateBatch writes the offers and returns the ones actually created,
	// skipping couriers that already hold a live pending offer for the
	// order. An expired pending offer is replaced, not skipped.
	CreateBatch(ctx context.Context, offers []model.DriverOffer) ([]model.DriverOffer, error)
	Get(ctx context.Context, tenantID, offerID uuid.UUID) (*model.DriverOffer, error)
	ListLiveForCourier(ctx context.Context, tenantID, courierID uuid.UUID, now time.Time) ([]model.DriverOffer, error)
	ListLiveForOrder(ctx context.Context, tenantID, orderID uuid.UUID, now time.Time) ([]model.DriverOffer, error)
}
