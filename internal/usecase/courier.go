package usecase

import (
	"context"

	"github.com/google/uuid"

	domainErrors "github.com/ordesk/ordesk/internal/domain/errors"
	"github.com/ordesk/ordesk/internal/domain/model"
	"github.com/ordesk/ordesk/internal/domain/repository"
	"github.com/ordesk/ordesk/internal/pkg/auth"
)

// PushChecker verifies that a courier's device is registered with the
// external push service before the courier may go online.
type PushChecker interface {
	DeviceRegistered(ctx context.Context, handle string) (bool, error)
}

// CourierUseCase manages courier onboarding, availability, and location.
type CourierUseCase struct {
	couriers repository.CourierRepository
	hasher   auth.PasswordHasher
	push     PushChecker
}

// NewCourierUseCase constructs CourierUseCase.
func NewCourierUseCase(couriers repository.CourierRepository, hasher auth.PasswordHasher, push PushChecker) *CourierUseCase {
	return &CourierUseCase{couriers: couriers, hasher: hasher, push: push}
}

// CourierDraft holds staff-supplied fields for onboarding a courier.
type CourierDraft struct {
	Login        string
	Password     string
	Name         string
	Phone        string
	Vehicle      string
	PaymentModel string
	PushHandle   string
}

// Register onboards a courier with credentials. New couriers start offline.
func (u *CourierUseCase) Register(ctx context.Context, tenantID uuid.UUID, draft CourierDraft) (*model.Courier, error) {
	if draft.Login == "" || draft.Password == "" || draft.Name == "" {
		return nil, domainErrors.ErrInvalidCredentials
	}
	hash, err := u.hasher.Hash(draft.Password)
	if err != nil {
		return nil, err
	}
	return u.couriers.Create(ctx, &model.Courier{
		ID:           uuid.New(),
		TenantID:     tenantID,
		Login:        draft.Login,
		PasswordHash: hash,
		Name:         draft.Name,
		Phone:        draft.Phone,
		Vehicle:      draft.Vehicle,
		PaymentModel: draft.PaymentModel,
		Status:       model.CourierStatusOffline,
		PushHandle:   draft.PushHandle,
	})
}

// Get returns one courier of the tenant.
func (u *CourierUseCase) Get(ctx context.Context, tenantID, courierID uuid.UUID) (*model.Courier, error) {
	return u.couriers.Get(ctx, tenantID, courierID)
}

// List returns all couriers of the tenant.
func (u *CourierUseCase) List(ctx context.Context, tenantID uuid.UUID) ([]model.Courier, error) {
	return u.couriers.List(ctx, tenantID)
}

// ListAvailable returns couriers currently open for offers.
func (u *CourierUseCase) ListAvailable(ctx context.Context, tenantID uuid.UUID) ([]model.Courier, error) {
	return u.couriers.ListAvailable(ctx, tenantID)
}

// ToggleAvailability switches the courier between offline and available.
// Only the courier's own identity may toggle; busy is never a valid target
// because it is owned by the claim/completion flow. Going online requires
// the push prerequisite so offers can actually reach the device.
func (u *CourierUseCase) ToggleAvailability(ctx context.Context, tenantID uuid.UUID, actor model.Actor, target model.CourierStatus) (*model.Courier, error) {
	if actor.Role != model.RoleCourier {
		return nil, domainErrors.ErrUnauthorized
	}
	if target != model.CourierStatusOffline && target != model.CourierStatusAvailable {
		return nil, domainErrors.ErrUnauthorized
	}

	courier, err := u.couriers.Get(ctx, tenantID, actor.ID)
	if err != nil {
		return nil, err
	}
	if courier.Status == target {
		return courier, nil
	}
	if courier.Status == model.CourierStatusBusy {
		return nil, domainErrors.ErrCourierBusy
	}

	if target == model.CourierStatusAvailable {
		registered, err := u.push.DeviceRegistered(ctx, courier.PushHandle)
		if err != nil {
			return nil, err
		}
		if !registered {
			return nil, domainErrors.ErrPushUnavailable
		}
		if !courier.PushCapable {
			capable := true
			if _, err := u.couriers.Patch(ctx, tenantID, courier.ID, model.CourierPatch{PushCapable: &capable}); err != nil {
				return nil, err
			}
		}
	}

	if err := u.couriers.SetStatus(ctx, tenantID, courier.ID, target); err != nil {
		return nil, err
	}
	courier.Status = target
	return courier, nil
}

// UpdateLocation records the courier's last known position. Uncontended
// last-writer-wins merge; no transaction needed.
func (u *CourierUseCase) UpdateLocation(ctx context.Context, tenantID uuid.UUID, actor model.Actor, lat, lng float64) (*model.Courier, error) {
	if actor.Role != model.RoleCourier {
		return nil, domainErrors.ErrUnauthorized
	}
	return u.couriers.Patch(ctx, tenantID, actor.ID, model.CourierPatch{Lat: &lat, Lng: &lng})
}

// Patch applies a staff-side merge update to a courier profile.
func (u *CourierUseCase) Patch(ctx context.Context, tenantID, courierID uuid.UUID, patch model.CourierPatch) (*model.Courier, error) {
	return u.couriers.Patch(ctx, tenantID, courierID, patch)
}
