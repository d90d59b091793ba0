package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/ordesk/ordesk/internal/domain/model"
)

// StaffRepository describes persistence for store employee accounts.
type StaffRepository interface {
	Create(ctx context.Context, account *model.StaffAccount) (*model.StaffAccount, error)
	GetByLogin(ctx context.Context, tenantID uuid.UUID, login string) (*model.StaffAccount, error)
	GetByID(ctx context.Context, tenantID, accountID uuid.UUID) (*model.StaffAccount, error)
}
