package usecase

import (
	"context"

	"github.com/google/uuid"

	"github.com/ordesk/ordesk/internal/domain/model"
	"github.com/ordesk/ordesk/internal/domain/repository"
)

// ClientUseCase exposes the loyalty view over denormalized customer records.
type ClientUseCase struct {
	clients repository.ClientRepository
}

// NewClientUseCase constructs ClientUseCase.
func NewClientUseCase(clients repository.ClientRepository) *ClientUseCase {
	return &ClientUseCase{clients: clients}
}

// Lookup finds a client by phone number, normalized to the canonical key.
func (u *ClientUseCase) Lookup(ctx context.Context, tenantID uuid.UUID, phone string) (*model.Client, error) {
	return u.clients.GetByPhoneKey(ctx, tenantID, NormalizePhone(phone))
}

// Top returns the tenant's most frequent customers.
func (u *ClientUseCase) Top(ctx context.Context, tenantID uuid.UUID, limit int) ([]model.Client, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return u.clients.ListTop(ctx, tenantID, limit)
}
