package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/ordesk/ordesk/internal/domain/model"
)

// TenantRepository describes persistence operations for the tenant directory.
type TenantRepository interface {
	Create(ctx context.Context, tenant *model.Tenant) (*model.Tenant, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Tenant, error)
	GetBySlug(ctx context.Context, slug string) (*model.Tenant, error)
	ListActive(ctx context.Context) ([]model.Tenant, error)
	Patch(ctx context.Context, id uuid.UUID, patch model.TenantPatch) (*model.Tenant, error)
}
