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

// AuthUseCase authenticates staff and couriers and issues tenant-bound
// actor tokens.
type AuthUseCase struct {
	tenants  repository.TenantRepository
	staff    repository.StaffRepository
	couriers repository.CourierRepository
	hasher   auth.PasswordHasher
	strategy auth.Strategy
}

// NewAuthUseCase constructs AuthUseCase.
func NewAuthUseCase(
	tenants repository.TenantRepository,
	staff repository.StaffRepository,
	couriers repository.CourierRepository,
	hasher auth.PasswordHasher,
	strategy auth.Strategy,
) *AuthUseCase {
	return &AuthUseCase{tenants: tenants, staff: staff, couriers: couriers, hasher: hasher, strategy: strategy}
}

func (u *AuthUseCase) servableTenant(ctx context.Context, slug string) (*model.Tenant, error) {
	tenant, err := u.tenants.GetBySlug(ctx, slug)
	if err != nil {
		if err == domainErrors.ErrNotFound {
			return nil, domainErrors.ErrInvalidCredentials
		}
		return nil, err
	}
	if !tenant.Servable(time.Now()) {
		return nil, domainErrors.ErrSubscriptionInactive
	}
	return tenant, nil
}

// StaffLogin authenticates a store employee by tenant slug and credentials.
func (u *AuthUseCase) StaffLogin(ctx context.Context, slug, login, password string) (string, error) {
	tenant, err := u.servableTenant(ctx, slug)
	if err != nil {
		return "", err
	}

	account, err := u.staff.GetByLogin(ctx, tenant.ID, login)
	if err != nil {
		if err == domainErrors.ErrNotFound {
			return "", domainErrors.ErrInvalidCredentials
		}
		return "", err
	}
	if err := u.hasher.Compare(account.PasswordHash, password); err != nil {
		return "", domainErrors.ErrInvalidCredentials
	}

	return u.strategy.IssueToken(model.Actor{ID: account.ID, TenantID: tenant.ID, Role: account.Role})
}

// CourierLogin authenticates a courier by tenant slug and credentials.
// Couriers authenticate independently of staff; a courier token never
// carries staff privileges.
func (u *AuthUseCase) CourierLogin(ctx context.Context, slug, login, password string) (string, error) {
	tenant, err := u.servableTenant(ctx, slug)
	if err != nil {
		return "", err
	}

	courier, err := u.couriers.GetByLogin(ctx, tenant.ID, login)
	if err != nil {
		if err == domainErrors.ErrNotFound {
			return "", domainErrors.ErrInvalidCredentials
		}
		return "", err
	}
	if err := u.hasher.Compare(courier.PasswordHash, password); err != nil {
		return "", domainErrors.ErrInvalidCredentials
	}

	return u.strategy.IssueToken(model.Actor{ID: courier.ID, TenantID: tenant.ID, Role: model.RoleCourier})
}

// CreateStaff lets an owner add a staff account to their tenant.
func (u *AuthUseCase) CreateStaff(ctx context.Context, actor model.Actor, login, password string, role model.ActorRole) (*model.StaffAccount, error) {
	if actor.Role != model.RoleOwner {
		return nil, domainErrors.ErrUnauthorized
	}
	if role != model.RoleOwner && role != model.RoleStaff {
		return nil, domainErrors.ErrUnauthorized
	}
	if login == "" || password == "" {
		return nil, domainErrors.ErrInvalidCredentials
	}

	hash, err := u.hasher.Hash(password)
	if err != nil {
		return nil, err
	}
	return u.staff.Create(ctx, &model.StaffAccount{
		ID:           uuid.New(),
		TenantID:     actor.TenantID,
		Login:        login,
		PasswordHash: hash,
		Role:         role,
	})
}

// ParseToken validates a token and returns its actor claims.
func (u *AuthUseCase) ParseToken(token string) (model.Actor, error) {
	return u.strategy.ParseToken(token)
}
