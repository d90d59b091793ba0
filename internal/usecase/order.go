package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	domainErrors "github.com/ordesk/ordesk/internal/domain/errors"
	"github.com/ordesk/ordesk/internal/domain/model"
	"github.com/ordesk/ordesk/internal/domain/repository"
	"github.com/ordesk/ordesk/internal/pkg/codes"
	"github.com/ordesk/ordesk/internal/stream"
)

// OrderUseCase encapsulates the order lifecycle: creation with handoff
// codes, the status state machine, and its side effects.
type OrderUseCase struct {
	orders    repository.OrderRepository
	couriers  repository.CourierRepository
	clients   repository.ClientRepository
	audits    repository.AuditRepository
	publisher stream.Publisher
}

// NewOrderUseCase constructs OrderUseCase.
func NewOrderUseCase(
	orders repository.OrderRepository,
	couriers repository.CourierRepository,
	clients repository.ClientRepository,
	audits repository.AuditRepository,
	publisher stream.Publisher,
) *OrderUseCase {
	return &OrderUseCase{orders: orders, couriers: couriers, clients: clients, audits: audits, publisher: publisher}
}

// Create registers a new order in status pending with freshly generated
// pickup and delivery codes. The codes are set once here and never change.
func (u *OrderUseCase) Create(ctx context.Context, tenantID uuid.UUID, draft model.OrderDraft) (*model.Order, error) {
	pickupCode, err := codes.Generate()
	if err != nil {
		return nil, err
	}
	deliveryCode, err := codes.Generate()
	if err != nil {
		return nil, err
	}

	origin := draft.Origin
	if origin == "" {
		origin = model.OrderOriginStorefront
	}

	order, err := u.orders.Create(ctx, &model.Order{
		ID:            uuid.New(),
		TenantID:      tenantID,
		CustomerName:  draft.CustomerName,
		CustomerPhone: draft.CustomerPhone,
		Address:       draft.Address,
		Items:         draft.Items,
		Amount:        draft.Amount,
		PaymentMethod: draft.PaymentMethod,
		Status:        model.OrderStatusPending,
		PickupCode:    pickupCode,
		DeliveryCode:  deliveryCode,
		Origin:        origin,
	})
	if err != nil {
		return nil, err
	}

	if key := NormalizePhone(order.CustomerPhone); key != "" {
		client := &model.Client{
			TenantID: tenantID,
			PhoneKey: key,
			Name:     order.CustomerName,
			Phone:    order.CustomerPhone,
			Address:  order.Address,
		}
		if err := u.clients.RecordOrder(ctx, client); err != nil {
			// Loyalty bookkeeping must not fail order intake.
			return order, nil
		}
	}

	u.publisher.Publish(tenantID, *order)
	return order, nil
}

// Get returns one order of the tenant.
func (u *OrderUseCase) Get(ctx context.Context, tenantID, orderID uuid.UUID) (*model.Order, error) {
	return u.orders.Get(ctx, tenantID, orderID)
}

// List returns tenant orders, optionally filtered by status.
func (u *OrderUseCase) List(ctx context.Context, tenantID uuid.UUID, statuses []model.OrderStatus) ([]model.Order, error) {
	return u.orders.List(ctx, tenantID, statuses)
}

var staffTargets = map[model.OrderStatus]bool{
	model.OrderStatusPreparing: true,
	model.OrderStatusReady:     true,
	model.OrderStatusCancelled: true,
}

var courierTargets = map[model.OrderStatus]bool{
	model.OrderStatusDelivering: true,
	model.OrderStatusCompleted:  true,
}

// Transition moves an order to the target status on behalf of the actor.
// Courier-triggered handoffs are gated on the matching one-time code; a
// failed gate leaves the order untouched. Repeating the current status is
// a no-op success. The force flag is the audited owner-only override that
// skips the code gate.
func (u *OrderUseCase) Transition(ctx context.Context, tenantID, orderID uuid.UUID, target model.OrderStatus, actor model.Actor, code string, force bool) (*model.Order, error) {
	target = target.Normalize()
	if !target.Valid() {
		return nil, domainErrors.ErrInvalidTransition
	}

	order, err := u.orders.Get(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}

	if force {
		return u.forceTransition(ctx, order, target, actor)
	}

	switch actor.Role {
	case model.RoleOwner, model.RoleStaff:
		if !staffTargets[target] {
			return nil, domainErrors.ErrUnauthorized
		}
	case model.RoleCourier:
		if !courierTargets[target] {
			return nil, domainErrors.ErrUnauthorized
		}
		if order.CourierID == nil || *order.CourierID != actor.ID {
			return nil, domainErrors.ErrUnauthorized
		}
	default:
		return nil, domainErrors.ErrUnauthorized
	}

	// The idempotent repeat sits behind the actor gate: only someone who
	// could have driven the transition may replay it.
	if order.Status == target {
		// A manual completed edit that never got its timestamp is stamped
		// now; otherwise nothing is written.
		if target == model.OrderStatusCompleted && order.CompletedAt == nil {
			now := time.Now()
			return u.applyAndPublish(ctx, tenantID, orderID, repository.OrderUpdate{Status: target, CompletedAt: &now})
		}
		return order, nil
	}

	if !model.CanTransition(order.Status, target) {
		return nil, domainErrors.ErrInvalidTransition
	}

	switch target {
	case model.OrderStatusDelivering:
		if err := codes.Verify(order.PickupCode, code); err != nil {
			return nil, err
		}
	case model.OrderStatusCompleted:
		if err := codes.Verify(order.DeliveryCode, code); err != nil {
			return nil, err
		}
	}

	update, freeCourier := buildUpdate(order, target)
	updated, err := u.applyAndPublish(ctx, tenantID, orderID, update)
	if err != nil {
		return nil, err
	}
	if freeCourier {
		if err := u.couriers.SetStatus(ctx, tenantID, *order.CourierID, model.CourierStatusAvailable); err != nil {
			return nil, err
		}
	}
	return updated, nil
}

// forceTransition is the privileged staff-console override. It bypasses the
// code gate and role targets but still refuses to leave terminal states,
// and every use lands in the audit log.
func (u *OrderUseCase) forceTransition(ctx context.Context, order *model.Order, target model.OrderStatus, actor model.Actor) (*model.Order, error) {
	if actor.Role != model.RoleOwner {
		return nil, domainErrors.ErrUnauthorized
	}
	if order.Status.Terminal() {
		return nil, domainErrors.ErrInvalidTransition
	}

	update, freeCourier := buildUpdate(order, target)
	updated, err := u.applyAndPublish(ctx, order.TenantID, order.ID, update)
	if err != nil {
		return nil, err
	}
	if freeCourier {
		if err := u.couriers.SetStatus(ctx, order.TenantID, *order.CourierID, model.CourierStatusAvailable); err != nil {
			return nil, err
		}
	}

	entry := &model.OrderAudit{
		ID:         uuid.New(),
		TenantID:   order.TenantID,
		OrderID:    order.ID,
		ActorID:    actor.ID,
		ActorRole:  actor.Role,
		FromStatus: order.Status,
		ToStatus:   target,
		Forced:     true,
	}
	if err := u.audits.Record(ctx, entry); err != nil {
		return nil, err
	}
	return updated, nil
}

func buildUpdate(order *model.Order, target model.OrderStatus) (repository.OrderUpdate, bool) {
	update := repository.OrderUpdate{Status: target}
	freeCourier := false
	now := time.Now()

	switch target {
	case model.OrderStatusDelivering:
		if order.PickedUpAt == nil {
			update.PickedUpAt = &now
		}
	case model.OrderStatusCompleted:
		if order.CompletedAt == nil {
			update.CompletedAt = &now
		}
		freeCourier = order.CourierID != nil
	case model.OrderStatusCancelled:
		update.ClearCourier = true
		freeCourier = order.CourierID != nil
	}
	return update, freeCourier
}

func (u *OrderUseCase) applyAndPublish(ctx context.Context, tenantID, orderID uuid.UUID, update repository.OrderUpdate) (*model.Order, error) {
	updated, err := u.orders.Update(ctx, tenantID, orderID, update)
	if err != nil {
		return nil, err
	}
	u.publisher.Publish(tenantID, *updated)
	return updated, nil
}

// AuditTrail lists privileged overrides recorded for an order.
func (u *OrderUseCase) AuditTrail(ctx context.Context, tenantID, orderID uuid.UUID) ([]model.OrderAudit, error) {
	return u.audits.ListForOrder(ctx, tenantID, orderID)
}
