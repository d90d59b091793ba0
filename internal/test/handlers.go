package test

import (
	"context"

	"github.com/google/uuid"

	"github.com/ordesk/ordesk/internal/domain/model"
	"github.com/ordesk/ordesk/internal/stream"
	"github.com/ordesk/ordesk/internal/usecase"
)

// ActorResolverStub fakes token parsing and tenant resolution for the auth
// middleware.
type ActorResolverStub struct {
	Actor      model.Actor
	Tenant     *model.Tenant
	ParseErr   error
	ResolveErr error
}

func (s ActorResolverStub) ParseToken(string) (model.Actor, error) {
	if s.ParseErr != nil {
		return model.Actor{}, s.ParseErr
	}
	return s.Actor, nil
}

func (s ActorResolverStub) ResolveActor(_ context.Context, actor model.Actor) (*model.Tenant, error) {
	if s.ResolveErr != nil {
		return nil, s.ResolveErr
	}
	if s.Tenant != nil {
		return s.Tenant, nil
	}
	return &model.Tenant{ID: actor.TenantID, Status: model.TenantStatusActive}, nil
}

// AuthFacadeStub fakes the authentication surface behind HTTP handlers.
type AuthFacadeStub struct {
	StaffLoginFn   func(ctx context.Context, slug, login, password string) (string, error)
	CourierLoginFn func(ctx context.Context, slug, login, password string) (string, error)
	CreateStaffFn  func(ctx context.Context, actor model.Actor, login, password string, role model.ActorRole) (*model.StaffAccount, error)
	ParseTokenFn   func(token string) (model.Actor, error)
}

func (s AuthFacadeStub) StaffLogin(ctx context.Context, slug, login, password string) (string, error) {
	if s.StaffLoginFn != nil {
		return s.StaffLoginFn(ctx, slug, login, password)
	}
	return "token", nil
}

func (s AuthFacadeStub) CourierLogin(ctx context.Context, slug, login, password string) (string, error) {
	if s.CourierLoginFn != nil {
		return s.CourierLoginFn(ctx, slug, login, password)
	}
	return "token", nil
}

func (s AuthFacadeStub) CreateStaff(ctx context.Context, actor model.Actor, login, password string, role model.ActorRole) (*model.StaffAccount, error) {
	if s.CreateStaffFn != nil {
		return s.CreateStaffFn(ctx, actor, login, password, role)
	}
	return &model.StaffAccount{ID: uuid.New(), TenantID: actor.TenantID, Login: login, Role: role}, nil
}

func (s AuthFacadeStub) ParseToken(token string) (model.Actor, error) {
	if s.ParseTokenFn != nil {
		return s.ParseTokenFn(token)
	}
	return model.Actor{}, nil
}

// TenantFacadeStub fakes the tenant directory surface behind HTTP handlers.
type TenantFacadeStub struct {
	CreateTenantFn func(ctx context.Context, draft usecase.TenantDraft) (*model.Tenant, error)
	ResolveSlugFn  func(ctx context.Context, slug string) (*model.Tenant, error)
	ResolveActorFn func(ctx context.Context, actor model.Actor) (*model.Tenant, error)
	PatchTenantFn  func(ctx context.Context, tenantID uuid.UUID, patch model.TenantPatch) (*model.Tenant, error)
}

func (s TenantFacadeStub) CreateTenant(ctx context.Context, draft usecase.TenantDraft) (*model.Tenant, error) {
	if s.CreateTenantFn != nil {
		return s.CreateTenantFn(ctx, draft)
	}
	return &model.Tenant{ID: uuid.New(), Slug: draft.Slug, Name: draft.Name, Status: model.TenantStatusActive}, nil
}

func (s TenantFacadeStub) ResolveSlug(ctx context.Context, slug string) (*model.Tenant, error) {
	if s.ResolveSlugFn != nil {
		return s.ResolveSlugFn(ctx, slug)
	}
	return &model.Tenant{ID: uuid.New(), Slug: slug, Status: model.TenantStatusActive}, nil
}

func (s TenantFacadeStub) ResolveActor(ctx context.Context, actor model.Actor) (*model.Tenant, error) {
	if s.ResolveActorFn != nil {
		return s.ResolveActorFn(ctx, actor)
	}
	return &model.Tenant{ID: actor.TenantID, Status: model.TenantStatusActive}, nil
}

func (s TenantFacadeStub) PatchTenant(ctx context.Context, tenantID uuid.UUID, patch model.TenantPatch) (*model.Tenant, error) {
	if s.PatchTenantFn != nil {
		return s.PatchTenantFn(ctx, tenantID, patch)
	}
	return &model.Tenant{ID: tenantID, Status: model.TenantStatusActive}, nil
}

// OrderFacadeStub fakes the order lifecycle surface behind HTTP handlers.
type OrderFacadeStub struct {
	CreateOrderFn     func(ctx context.Context, tenantID uuid.UUID, draft model.OrderDraft) (*model.Order, error)
	GetOrderFn        func(ctx context.Context, tenantID, orderID uuid.UUID) (*model.Order, error)
	ListOrdersFn      func(ctx context.Context, tenantID uuid.UUID, statuses []model.OrderStatus) ([]model.Order, error)
	TransitionFn      func(ctx context.Context, tenantID, orderID uuid.UUID, target model.OrderStatus, actor model.Actor, code string, force bool) (*model.Order, error)
	AuditTrailFn      func(ctx context.Context, tenantID, orderID uuid.UUID) ([]model.OrderAudit, error)
	SubscribeOrdersFn func(tenantID uuid.UUID) *stream.Subscription

	Broker *stream.Broker
}

func (s OrderFacadeStub) CreateOrder(ctx context.Context, tenantID uuid.UUID, draft model.OrderDraft) (*model.Order, error) {
	if s.CreateOrderFn != nil {
		return s.CreateOrderFn(ctx, tenantID, draft)
	}
	return &model.Order{
		ID:            uuid.New(),
		TenantID:      tenantID,
		CustomerName:  draft.CustomerName,
		CustomerPhone: draft.CustomerPhone,
		Address:       draft.Address,
		Status:        model.OrderStatusPending,
		PickupCode:    "1111",
		DeliveryCode:  "2222",
		Origin:        draft.Origin,
	}, nil
}

func (s OrderFacadeStub) GetOrder(ctx context.Context, tenantID, orderID uuid.UUID) (*model.Order, error) {
	if s.GetOrderFn != nil {
		return s.GetOrderFn(ctx, tenantID, orderID)
	}
	return &model.Order{ID: orderID, TenantID: tenantID, Status: model.OrderStatusPending}, nil
}

func (s OrderFacadeStub) ListOrders(ctx context.Context, tenantID uuid.UUID, statuses []model.OrderStatus) ([]model.Order, error) {
	if s.ListOrdersFn != nil {
		return s.ListOrdersFn(ctx, tenantID, statuses)
	}
	return nil, nil
}

func (s OrderFacadeStub) TransitionOrder(ctx context.Context, tenantID, orderID uuid.UUID, target model.OrderStatus, actor model.Actor, code string, force bool) (*model.Order, error) {
	if s.TransitionFn != nil {
		return s.TransitionFn(ctx, tenantID, orderID, target, actor, code, force)
	}
	return &model.Order{ID: orderID, TenantID: tenantID, Status: target}, nil
}

func (s OrderFacadeStub) OrderAuditTrail(ctx context.Context, tenantID, orderID uuid.UUID) ([]model.OrderAudit, error) {
	if s.AuditTrailFn != nil {
		return s.AuditTrailFn(ctx, tenantID, orderID)
	}
	return nil, nil
}

func (s OrderFacadeStub) SubscribeOrders(tenantID uuid.UUID) *stream.Subscription {
	if s.SubscribeOrdersFn != nil {
		return s.SubscribeOrdersFn(tenantID)
	}
	broker := s.Broker
	if broker == nil {
		broker = stream.NewBroker()
	}
	return broker.Subscribe(tenantID)
}

// DispatchHTTPFacadeStub fakes the courier dispatch surface behind HTTP
// handlers.
type DispatchHTTPFacadeStub struct {
	OffersFn func(ctx context.Context, tenantID, courierID uuid.UUID) ([]model.DriverOffer, error)
	PoolFn   func(ctx context.Context, tenantID uuid.UUID) ([]model.Order, error)
	AcceptFn func(ctx context.Context, tenantID, offerID, courierID uuid.UUID) (*model.Order, error)
	ClaimFn  func(ctx context.Context, tenantID, orderID, courierID uuid.UUID) (*model.Order, error)
}

func (s DispatchHTTPFacadeStub) OffersForCourier(ctx context.Context, tenantID, courierID uuid.UUID) ([]model.DriverOffer, error) {
	if s.OffersFn != nil {
		return s.OffersFn(ctx, tenantID, courierID)
	}
	return nil, nil
}

func (s DispatchHTTPFacadeStub) UnassignedOrders(ctx context.Context, tenantID uuid.UUID) ([]model.Order, error) {
	if s.PoolFn != nil {
		return s.PoolFn(ctx, tenantID)
	}
	return nil, nil
}

func (s DispatchHTTPFacadeStub) AcceptOffer(ctx context.Context, tenantID, offerID, courierID uuid.UUID) (*model.Order, error) {
	if s.AcceptFn != nil {
		return s.AcceptFn(ctx, tenantID, offerID, courierID)
	}
	return &model.Order{ID: uuid.New(), TenantID: tenantID, Status: model.OrderStatusAssigned, CourierID: &courierID}, nil
}

func (s DispatchHTTPFacadeStub) ClaimUnassigned(ctx context.Context, tenantID, orderID, courierID uuid.UUID) (*model.Order, error) {
	if s.ClaimFn != nil {
		return s.ClaimFn(ctx, tenantID, orderID, courierID)
	}
	return &model.Order{ID: orderID, TenantID: tenantID, Status: model.OrderStatusAssigned, CourierID: &courierID}, nil
}

// CourierFacadeStub fakes the courier management surface behind HTTP
// handlers.
type CourierFacadeStub struct {
	RegisterFn func(ctx context.Context, tenantID uuid.UUID, draft usecase.CourierDraft) (*model.Courier, error)
	GetFn      func(ctx context.Context, tenantID, courierID uuid.UUID) (*model.Courier, error)
	ListFn     func(ctx context.Context, tenantID uuid.UUID) ([]model.Courier, error)
	ToggleFn   func(ctx context.Context, tenantID uuid.UUID, actor model.Actor, target model.CourierStatus) (*model.Courier, error)
	LocationFn func(ctx context.Context, tenantID uuid.UUID, actor model.Actor, lat, lng float64) (*model.Courier, error)
	PatchFn    func(ctx context.Context, tenantID, courierID uuid.UUID, patch model.CourierPatch) (*model.Courier, error)
}

func (s CourierFacadeStub) RegisterCourier(ctx context.Context, tenantID uuid.UUID, draft usecase.CourierDraft) (*model.Courier, error) {
	if s.RegisterFn != nil {
		return s.RegisterFn(ctx, tenantID, draft)
	}
	return &model.Courier{ID: uuid.New(), TenantID: tenantID, Login: draft.Login, Name: draft.Name, Status: model.CourierStatusOffline}, nil
}

func (s CourierFacadeStub) GetCourier(ctx context.Context, tenantID, courierID uuid.UUID) (*model.Courier, error) {
	if s.GetFn != nil {
		return s.GetFn(ctx, tenantID, courierID)
	}
	return &model.Courier{ID: courierID, TenantID: tenantID, Status: model.CourierStatusOffline}, nil
}

func (s CourierFacadeStub) ListCouriers(ctx context.Context, tenantID uuid.UUID) ([]model.Courier, error) {
	if s.ListFn != nil {
		return s.ListFn(ctx, tenantID)
	}
	return nil, nil
}

func (s CourierFacadeStub) ToggleAvailability(ctx context.Context, tenantID uuid.UUID, actor model.Actor, target model.CourierStatus) (*model.Courier, error) {
	if s.ToggleFn != nil {
		return s.ToggleFn(ctx, tenantID, actor, target)
	}
	return &model.Courier{ID: actor.ID, TenantID: tenantID, Status: target}, nil
}

func (s CourierFacadeStub) UpdateCourierLocation(ctx context.Context, tenantID uuid.UUID, actor model.Actor, lat, lng float64) (*model.Courier, error) {
	if s.LocationFn != nil {
		return s.LocationFn(ctx, tenantID, actor, lat, lng)
	}
	return &model.Courier{ID: actor.ID, TenantID: tenantID, Lat: lat, Lng: lng}, nil
}

func (s CourierFacadeStub) PatchCourier(ctx context.Context, tenantID, courierID uuid.UUID, patch model.CourierPatch) (*model.Courier, error) {
	if s.PatchFn != nil {
		return s.PatchFn(ctx, tenantID, courierID, patch)
	}
	return &model.Courier{ID: courierID, TenantID: tenantID}, nil
}

// ClientFacadeStub fakes the loyalty surface behind HTTP handlers.
type ClientFacadeStub struct {
	LookupFn func(ctx context.Context, tenantID uuid.UUID, phone string) (*model.Client, error)
	TopFn    func(ctx context.Context, tenantID uuid.UUID, limit int) ([]model.Client, error)
}

func (s ClientFacadeStub) LookupClient(ctx context.Context, tenantID uuid.UUID, phone string) (*model.Client, error) {
	if s.LookupFn != nil {
		return s.LookupFn(ctx, tenantID, phone)
	}
	return &model.Client{TenantID: tenantID, Phone: phone}, nil
}

func (s ClientFacadeStub) TopClients(ctx context.Context, tenantID uuid.UUID, limit int) ([]model.Client, error) {
	if s.TopFn != nil {
		return s.TopFn(ctx, tenantID, limit)
	}
	return nil, nil
}

// OrderDeskFacadeStub aggregates the per-concern stubs into the full surface
// consumed by the router.
type OrderDeskFacadeStub struct {
	AuthFacadeStub
	TenantFacadeStub
	OrderFacadeStub
	DispatchHTTPFacadeStub
	CourierFacadeStub
	ClientFacadeStub
}
