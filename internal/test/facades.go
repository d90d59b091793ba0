package test

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ordesk/ordesk/internal/adapter/pushgate"
	"github.com/ordesk/ordesk/internal/domain/model"
)

// DispatchFacadeStub fakes the application surface the dispatch worker
// polls. Embedded mutex guards every field.
type DispatchFacadeStub struct {
	sync.Mutex

	Tenants  []model.Tenant
	Orders   map[uuid.UUID][]model.Order
	Couriers map[uuid.UUID][]model.Courier

	OfferFn func(ctx context.Context, tenant *model.Tenant, orderID uuid.UUID, candidateIDs []uuid.UUID) ([]model.DriverOffer, error)
	Offered []uuid.UUID

	TenantsErr error
	OrdersErr  error
}

func (s *DispatchFacadeStub) ActiveTenants(ctx context.Context) ([]model.Tenant, error) {
	s.Lock()
	defer s.Unlock()
	if s.TenantsErr != nil {
		return nil, s.TenantsErr
	}
	return append([]model.Tenant(nil), s.Tenants...), nil
}

func (s *DispatchFacadeStub) UnassignedOrders(ctx context.Context, tenantID uuid.UUID) ([]model.Order, error) {
	s.Lock()
	defer s.Unlock()
	if s.OrdersErr != nil {
		return nil, s.OrdersErr
	}
	return append([]model.Order(nil), s.Orders[tenantID]...), nil
}

func (s *DispatchFacadeStub) AvailableCouriers(ctx context.Context, tenantID uuid.UUID) ([]model.Courier, error) {
	s.Lock()
	defer s.Unlock()
	return append([]model.Courier(nil), s.Couriers[tenantID]...), nil
}

// OfferOrder records the order and fans one pending offer out per candidate
// unless an override is supplied.
func (s *DispatchFacadeStub) OfferOrder(ctx context.Context, tenant *model.Tenant, orderID uuid.UUID, candidateIDs []uuid.UUID) ([]model.DriverOffer, error) {
	if s.OfferFn != nil {
		offers, err := s.OfferFn(ctx, tenant, orderID, candidateIDs)
		if err == nil {
			s.Lock()
			s.Offered = append(s.Offered, orderID)
			s.Unlock()
		}
		return offers, err
	}
	s.Lock()
	defer s.Unlock()
	s.Offered = append(s.Offered, orderID)
	offers := make([]model.DriverOffer, 0, len(candidateIDs))
	for _, courierID := range candidateIDs {
		offers = append(offers, model.DriverOffer{
			ID:        uuid.New(),
			TenantID:  tenant.ID,
			OrderID:   orderID,
			CourierID: courierID,
			Status:    model.OfferStatusPending,
			ExpiresAt: time.Now().Add(time.Minute),
		})
	}
	return offers, nil
}

// PushClientStub satisfies the full push gateway client surface.
type PushClientStub struct {
	NotifierStub
	PushCheckerStub
}

// NotifierStub records push notifications issued by the worker.
type NotifierStub struct {
	sync.Mutex

	NotifyFn func(ctx context.Context, handle string, n pushgate.Notification) error
	Handles  []string
}

func (s *NotifierStub) Notify(ctx context.Context, handle string, n pushgate.Notification) error {
	if s.NotifyFn != nil {
		return s.NotifyFn(ctx, handle, n)
	}
	s.Lock()
	defer s.Unlock()
	s.Handles = append(s.Handles, handle)
	return nil
}
