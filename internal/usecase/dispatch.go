package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	domainErrors "github.com/ordesk/ordesk/internal/domain/errors"
	"github.com/ordesk/ordesk/internal/domain/model"
	"github.com/ordesk/ordesk/internal/domain/repository"
	"github.com/ordesk/ordesk/internal/geo"
	"github.com/ordesk/ordesk/internal/stream"
)

// DispatchUseCase matches offerable orders with eligible couriers and
// arbitrates concurrent claims. The at-most-once guarantee lives in
// OrderRepository.Claim; this layer decides eligibility and expiry.
type DispatchUseCase struct {
	orders    repository.OrderRepository
	offers    repository.OfferRepository
	couriers  repository.CourierRepository
	publisher stream.Publisher
	offerTTL  time.Duration
}

// NewDispatchUseCase constructs DispatchUseCase.
func NewDispatchUseCase(
	orders repository.OrderRepository,
	offers repository.OfferRepository,
	couriers repository.CourierRepository,
	publisher stream.Publisher,
	offerTTL time.Duration,
) *DispatchUseCase {
	if offerTTL <= 0 {
		offerTTL = 90 * time.Second
	}
	return &DispatchUseCase{orders: orders, offers: offers, couriers: couriers, publisher: publisher, offerTTL: offerTTL}
}

// Eligible reports whether the courier may receive offers from the tenant:
// available, push-capable, and within the tenant's dispatch radius of its
// origin location.
func Eligible(tenant *model.Tenant, courier *model.Courier) bool {
	if courier.Status != model.CourierStatusAvailable || !courier.PushCapable {
		return false
	}
	radius := tenant.DispatchRadiusKm
	if radius <= 0 {
		radius = 5
	}
	return geo.WithinRadiusKm(tenant.OriginLat, tenant.OriginLng, courier.Lat, courier.Lng, radius)
}

// OfferOrder fans an offerable order out to the candidate couriers,
// filtering out ineligible ones. Couriers that already hold a live offer
// for the order are skipped by the storage layer; only the offers actually
// created come back, so callers notify each courier once per offer.
func (u *DispatchUseCase) OfferOrder(ctx context.Context, tenant *model.Tenant, orderID uuid.UUID, candidateIDs []uuid.UUID) ([]model.DriverOffer, error) {
	order, err := u.orders.Get(ctx, tenant.ID, orderID)
	if err != nil {
		return nil, err
	}
	if !order.Offerable() {
		return nil, domainErrors.ErrAlreadyAssigned
	}

	expiresAt := time.Now().Add(u.offerTTL)
	var batch []model.DriverOffer
	for _, courierID := range candidateIDs {
		courier, err := u.couriers.Get(ctx, tenant.ID, courierID)
		if err != nil {
			if err == domainErrors.ErrNotFound {
				continue
			}
			return nil, err
		}
		if !Eligible(tenant, courier) {
			continue
		}
		batch = append(batch, model.DriverOffer{
			ID:        uuid.New(),
			TenantID:  tenant.ID,
			OrderID:   order.ID,
			CourierID: courier.ID,
			Status:    model.OfferStatusPending,
			ExpiresAt: expiresAt,
		})
	}
	if len(batch) == 0 {
		return nil, nil
	}
	created, err := u.offers.CreateBatch(ctx, batch)
	if err != nil {
		return nil, err
	}
	return created, nil
}

// OffersForCourier returns the courier's live offer queue. Offers past
// their expiry are absent by construction.
func (u *DispatchUseCase) OffersForCourier(ctx context.Context, tenantID, courierID uuid.UUID) ([]model.DriverOffer, error) {
	return u.offers.ListLiveForCourier(ctx, tenantID, courierID, time.Now())
}

// UnassignedPool returns all ready, unassigned orders of the tenant, the
// open marketplace any courier may claim from directly.
func (u *DispatchUseCase) UnassignedPool(ctx context.Context, tenantID uuid.UUID) ([]model.Order, error) {
	return u.orders.ListUnassigned(ctx, tenantID)
}

// AcceptOffer claims the offered order for the courier. Exactly one of any
// set of concurrent acceptances succeeds; the rest observe
// ErrAlreadyAssigned or ErrOfferExpired and must surface it, not retry.
func (u *DispatchUseCase) AcceptOffer(ctx context.Context, tenantID, offerID, courierID uuid.UUID) (*model.Order, error) {
	offer, err := u.offers.Get(ctx, tenantID, offerID)
	if err != nil {
		if err == domainErrors.ErrNotFound {
			return nil, domainErrors.ErrOfferExpired
		}
		return nil, err
	}
	if offer.CourierID != courierID {
		return nil, domainErrors.ErrUnauthorized
	}
	if !offer.Live(time.Now()) {
		return nil, domainErrors.ErrOfferExpired
	}

	order, err := u.orders.Claim(ctx, tenantID, offer.OrderID, courierID, &offer.ID)
	if err != nil {
		return nil, err
	}
	u.publisher.Publish(tenantID, *order)
	return order, nil
}

// ClaimUnassigned claims an order straight from the unassigned pool.
func (u *DispatchUseCase) ClaimUnassigned(ctx context.Context, tenantID, orderID, courierID uuid.UUID) (*model.Order, error) {
	order, err := u.orders.Claim(ctx, tenantID, orderID, courierID, nil)
	if err != nil {
		return nil, err
	}
	u.publisher.Publish(tenantID, *order)
	return order, nil
}
