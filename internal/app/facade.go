package app

import (
	"context"

	"github.com/google/uuid"

	"github.com/ordesk/ordesk/internal/domain/model"
	"github.com/ordesk/ordesk/internal/stream"
	"github.com/ordesk/ordesk/internal/usecase"
)

// OrderDeskFacade is the single application surface used by the HTTP
// handlers and the dispatch worker.
type OrderDeskFacade struct {
	tenants  *usecase.TenantUseCase
	auth     *usecase.AuthUseCase
	orders   *usecase.OrderUseCase
	dispatch *usecase.DispatchUseCase
	couriers *usecase.CourierUseCase
	clients  *usecase.ClientUseCase
	broker   *stream.Broker
}

// NewOrderDeskFacade constructs the facade over the use case layer.
func NewOrderDeskFacade(
	tenants *usecase.TenantUseCase,
	auth *usecase.AuthUseCase,
	orders *usecase.OrderUseCase,
	dispatch *usecase.DispatchUseCase,
	couriers *usecase.CourierUseCase,
	clients *usecase.ClientUseCase,
	broker *stream.Broker,
) *OrderDeskFacade {
	return &OrderDeskFacade{
		tenants:  tenants,
		auth:     auth,
		orders:   orders,
		dispatch: dispatch,
		couriers: couriers,
		clients:  clients,
		broker:   broker,
	}
}

// Tenant directory.

func (f *OrderDeskFacade) CreateTenant(ctx context.Context, draft usecase.TenantDraft) (*model.Tenant, error) {
	return f.tenants.Create(ctx, draft)
}

func (f *OrderDeskFacade) ResolveSlug(ctx context.Context, slug string) (*model.Tenant, error) {
	return f.tenants.ResolveSlug(ctx, slug)
}

func (f *OrderDeskFacade) ResolveActor(ctx context.Context, actor model.Actor) (*model.Tenant, error) {
	return f.tenants.ResolveActor(ctx, actor)
}

func (f *OrderDeskFacade) ActiveTenants(ctx context.Context) ([]model.Tenant, error) {
	return f.tenants.ListActive(ctx)
}

func (f *OrderDeskFacade) PatchTenant(ctx context.Context, tenantID uuid.UUID, patch model.TenantPatch) (*model.Tenant, error) {
	return f.tenants.Patch(ctx, tenantID, patch)
}

// Authentication.

func (f *OrderDeskFacade) StaffLogin(ctx context.Context, slug, login, password string) (string, error) {
	return f.auth.StaffLogin(ctx, slug, login, password)
}

func (f *OrderDeskFacade) CourierLogin(ctx context.Context, slug, login, password string) (string, error) {
	return f.auth.CourierLogin(ctx, slug, login, password)
}

func (f *OrderDeskFacade) CreateStaff(ctx context.Context, actor model.Actor, login, password string, role model.ActorRole) (*model.StaffAccount, error) {
	return f.auth.CreateStaff(ctx, actor, login, password, role)
}

func (f *OrderDeskFacade) ParseToken(token string) (model.Actor, error) {
	return f.auth.ParseToken(token)
}

// Orders.

func (f *OrderDeskFacade) CreateOrder(ctx context.Context, tenantID uuid.UUID, draft model.OrderDraft) (*model.Order, error) {
	return f.orders.Create(ctx, tenantID, draft)
}

func (f *OrderDeskFacade) GetOrder(ctx context.Context, tenantID, orderID uuid.UUID) (*model.Order, error) {
	return f.orders.Get(ctx, tenantID, orderID)
}

func (f *OrderDeskFacade) ListOrders(ctx context.Context, tenantID uuid.UUID, statuses []model.OrderStatus) ([]model.Order, error) {
	return f.orders.List(ctx, tenantID, statuses)
}

func (f *OrderDeskFacade) TransitionOrder(ctx context.Context, tenantID, orderID uuid.UUID, target model.OrderStatus, actor model.Actor, code string, force bool) (*model.Order, error) {
	return f.orders.Transition(ctx, tenantID, orderID, target, actor, code, force)
}

func (f *OrderDeskFacade) OrderAuditTrail(ctx context.Context, tenantID, orderID uuid.UUID) ([]model.OrderAudit, error) {
	return f.orders.AuditTrail(ctx, tenantID, orderID)
}

// Dispatch.

func (f *OrderDeskFacade) UnassignedOrders(ctx context.Context, tenantID uuid.UUID) ([]model.Order, error) {
	return f.dispatch.UnassignedPool(ctx, tenantID)
}

func (f *OrderDeskFacade) OfferOrder(ctx context.Context, tenant *model.Tenant, orderID uuid.UUID, candidateIDs []uuid.UUID) ([]model.DriverOffer, error) {
	return f.dispatch.OfferOrder(ctx, tenant, orderID, candidateIDs)
}

func (f *OrderDeskFacade) OffersForCourier(ctx context.Context, tenantID, courierID uuid.UUID) ([]model.DriverOffer, error) {
	return f.dispatch.OffersForCourier(ctx, tenantID, courierID)
}

func (f *OrderDeskFacade) AcceptOffer(ctx context.Context, tenantID, offerID, courierID uuid.UUID) (*model.Order, error) {
	return f.dispatch.AcceptOffer(ctx, tenantID, offerID, courierID)
}

func (f *OrderDeskFacade) ClaimUnassigned(ctx context.Context, tenantID, orderID, courierID uuid.UUID) (*model.Order, error) {
	return f.dispatch.ClaimUnassigned(ctx, tenantID, orderID, courierID)
}

// Couriers.

func (f *OrderDeskFacade) RegisterCourier(ctx context.Context, tenantID uuid.UUID, draft usecase.CourierDraft) (*model.Courier, error) {
	return f.couriers.Register(ctx, tenantID, draft)
}

func (f *OrderDeskFacade) GetCourier(ctx context.Context, tenantID, courierID uuid.UUID) (*model.Courier, error) {
	return f.couriers.Get(ctx, tenantID, courierID)
}

func (f *OrderDeskFacade) ListCouriers(ctx context.Context, tenantID uuid.UUID) ([]model.Courier, error) {
	return f.couriers.List(ctx, tenantID)
}

func (f *OrderDeskFacade) AvailableCouriers(ctx context.Context, tenantID uuid.UUID) ([]model.Courier, error) {
	return f.couriers.ListAvailable(ctx, tenantID)
}

func (f *OrderDeskFacade) ToggleAvailability(ctx context.Context, tenantID uuid.UUID, actor model.Actor, target model.CourierStatus) (*model.Courier, error) {
	return f.couriers.ToggleAvailability(ctx, tenantID, actor, target)
}

func (f *OrderDeskFacade) UpdateCourierLocation(ctx context.Context, tenantID uuid.UUID, actor model.Actor, lat, lng float64) (*model.Courier, error) {
	return f.couriers.UpdateLocation(ctx, tenantID, actor, lat, lng)
}

func (f *OrderDeskFacade) PatchCourier(ctx context.Context, tenantID, courierID uuid.UUID, patch model.CourierPatch) (*model.Courier, error) {
	return f.couriers.Patch(ctx, tenantID, courierID, patch)
}

// Clients.

func (f *OrderDeskFacade) LookupClient(ctx context.Context, tenantID uuid.UUID, phone string) (*model.Client, error) {
	return f.clients.Lookup(ctx, tenantID, phone)
}

func (f *OrderDeskFacade) TopClients(ctx context.Context, tenantID uuid.UUID, limit int) ([]model.Client, error) {
	return f.clients.Top(ctx, tenantID, limit)
}

// SubscribeOrders opens a live order snapshot stream for the tenant.
func (f *OrderDeskFacade) SubscribeOrders(tenantID uuid.UUID) *stream.Subscription {
	return f.broker.Subscribe(tenantID)
}
