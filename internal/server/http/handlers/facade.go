package handlers

import (
	"context"

	"github.com/google/uuid"

	"github.com/ordesk/ordesk/internal/domain/model"
	"github.com/ordesk/ordesk/internal/stream"
	"github.com/ordesk/ordesk/internal/usecase"
)

// AuthFacade describes authentication capabilities required by handlers.
type AuthFacade interface {
	StaffLogin(ctx context.Context, slug, login, password string) (string, error)
	CourierLogin(ctx context.Context, slug, login, password string) (string, error)
	CreateStaff(ctx context.Context, actor model.Actor, login, password string, role model.ActorRole) (*model.StaffAccount, error)
	ParseToken(token string) (model.Actor, error)
}

// TenantFacade encapsulates tenant directory operations exposed via HTTP.
type TenantFacade interface {
	CreateTenant(ctx context.Context, draft usecase.TenantDraft) (*model.Tenant, error)
	ResolveSlug(ctx context.Context, slug string) (*model.Tenant, error)
	ResolveActor(ctx context.Context, actor model.Actor) (*model.Tenant, error)
	PatchTenant(ctx context.Context, tenantID uuid.UUID, patch model.TenantPatch) (*model.Tenant, error)
}

// OrderFacade encapsulates order lifecycle operations exposed via HTTP.
type OrderFacade interface {
	CreateOrder(ctx context.Context, tenantID uuid.UUID, draft model.OrderDraft) (*model.Order, error)
	GetOrder(ctx context.Context, tenantID, orderID uuid.UUID) (*model.Order, error)
	ListOrders(ctx context.Context, tenantID uuid.UUID, statuses []model.OrderStatus) ([]model.Order, error)
	TransitionOrder(ctx context.Context, tenantID, orderID uuid.UUID, target model.OrderStatus, actor model.Actor, code string, force bool) (*model.Order, error)
	OrderAuditTrail(ctx context.Context, tenantID, orderID uuid.UUID) ([]model.OrderAudit, error)
	SubscribeOrders(tenantID uuid.UUID) *stream.Subscription
}

// DispatchFacade encapsulates offer and claim operations exposed via HTTP.
type DispatchFacade interface {
	OffersForCourier(ctx context.Context, tenantID, courierID uuid.UUID) ([]model.DriverOffer, error)
	UnassignedOrders(ctx context.Context, tenantID uuid.UUID) ([]model.Order, error)
	AcceptOffer(ctx context.Context, tenantID, offerID, courierID uuid.UUID) (*model.Order, error)
	ClaimUnassigned(ctx context.Context, tenantID, orderID, courierID uuid.UUID) (*model.Order, error)
}

// CourierFacade encapsulates courier management operations exposed via HTTP.
type CourierFacade interface {
	RegisterCourier(ctx context.Context, tenantID uuid.UUID, draft usecase.CourierDraft) (*model.Courier, error)
	GetCourier(ctx context.Context, tenantID, courierID uuid.UUID) (*model.Courier, error)
	ListCouriers(ctx context.Context, tenantID uuid.UUID) ([]model.Courier, error)
	ToggleAvailability(ctx context.Context, tenantID uuid.UUID, actor model.Actor, target model.CourierStatus) (*model.Courier, error)
	UpdateCourierLocation(ctx context.Context, tenantID uuid.UUID, actor model.Actor, lat, lng float64) (*model.Courier, error)
	PatchCourier(ctx context.Context, tenantID, courierID uuid.UUID, patch model.CourierPatch) (*model.Courier, error)
}

// ClientFacade provides the loyalty view over customer records.
type ClientFacade interface {
	LookupClient(ctx context.Context, tenantID uuid.UUID, phone string) (*model.Client, error)
	TopClients(ctx context.Context, tenantID uuid.UUID, limit int) ([]model.Client, error)
}

// OrderDeskFacade aggregates the full set of operations used across handlers.
type OrderDeskFacade interface {
	AuthFacade
	TenantFacade
	OrderFacade
	DispatchFacade
	CourierFacade
	ClientFacade
}
