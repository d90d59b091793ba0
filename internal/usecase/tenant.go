package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	domainErrors "github.com/ordesk/ordesk/internal/domain/errors"
	"github.com/ordesk/ordesk/internal/domain/model"
	"github.com/ordesk/ordesk/internal/domain/repository"
	"github.com/ordesk/ordesk/internal/pkg/auth"
)

// TenantUseCase resolves and manages the tenant directory. Every resolution
// path gates on subscription validity before any tenant-scoped data access.
type TenantUseCase struct {
	tenants repository.TenantRepository
	staff   repository.StaffRepository
	hasher  auth.PasswordHasher
}

// NewTenantUseCase constructs TenantUseCase.
func NewTenantUseCase(tenants repository.TenantRepository, staff repository.StaffRepository, hasher auth.PasswordHasher) *TenantUseCase {
	return &TenantUseCase{tenants: tenants, staff: staff, hasher: hasher}
}

// TenantDraft holds operator-supplied fields for a new tenant and its owner
// account.
type TenantDraft struct {
	Slug             string
	Name             string
	PaidThrough      time.Time
	Phone            string
	Address          string
	OriginLat        float64
	OriginLng        float64
	DispatchRadiusKm float64
	OwnerLogin       string
	OwnerPassword    string
}

// Create provisions a tenant together with its owner staff account.
func (u *TenantUseCase) Create(ctx context.Context, draft TenantDraft) (*model.Tenant, error) {
	if !ValidateSlug(draft.Slug) || draft.Name == "" || draft.OwnerLogin == "" || draft.OwnerPassword == "" {
		return nil, domainErrors.ErrInvalidCredentials
	}

	hash, err := u.hasher.Hash(draft.OwnerPassword)
	if err != nil {
		return nil, err
	}

	tenant, err := u.tenants.Create(ctx, &model.Tenant{
		ID:               uuid.New(),
		Slug:             draft.Slug,
		Name:             draft.Name,
		Status:           model.TenantStatusActive,
		PaidThrough:      draft.PaidThrough,
		Phone:            draft.Phone,
		Address:          draft.Address,
		OriginLat:        draft.OriginLat,
		OriginLng:        draft.OriginLng,
		DispatchRadiusKm: draft.DispatchRadiusKm,
	})
	if err != nil {
		return nil, err
	}

	_, err = u.staff.Create(ctx, &model.StaffAccount{
		ID:           uuid.New(),
		TenantID:     tenant.ID,
		Login:        draft.OwnerLogin,
		PasswordHash: hash,
		Role:         model.RoleOwner,
	})
	if err != nil {
		return nil, err
	}
	return tenant, nil
}

// ResolveSlug maps a public storefront slug to a servable tenant.
func (u *TenantUseCase) ResolveSlug(ctx context.Context, slug string) (*model.Tenant, error) {
	tenant, err := u.tenants.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !tenant.Servable(time.Now()) {
		return nil, domainErrors.ErrSubscriptionInactive
	}
	return tenant, nil
}

// ResolveActor maps an authenticated actor to its servable tenant. An actor
// whose tenant is missing or behind on its subscription is rejected here,
// before any tenant-scoped repository call.
func (u *TenantUseCase) ResolveActor(ctx context.Context, actor model.Actor) (*model.Tenant, error) {
	tenant, err := u.tenants.GetByID(ctx, actor.TenantID)
	if err != nil {
		return nil, err
	}
	if !tenant.Servable(time.Now()) {
		return nil, domainErrors.ErrSubscriptionInactive
	}
	return tenant, nil
}

// ListActive returns tenants whose subscription currently permits service.
func (u *TenantUseCase) ListActive(ctx context.Context) ([]model.Tenant, error) {
	return u.tenants.ListActive(ctx)
}

// Patch applies a field-by-field merge update to the tenant record.
func (u *TenantUseCase) Patch(ctx context.Context, tenantID uuid.UUID, patch model.TenantPatch) (*model.Tenant, error) {
	return u.tenants.Patch(ctx, tenantID, patch)
}
