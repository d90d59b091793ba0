package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/ordesk/ordesk/internal/domain/model"
)

// ClientRepository describes tenant-scoped persistence for loyalty clients.
type ClientRepository interface {
	// RecordOrder upserts the client keyed by phone and bumps its order
	// counter. Last writer wins on the descriptive fields.
	RecordOrder(ctx context.Context, client *model.Client) error
	GetByPhoneKey(ctx context.Context, tenantID uuid.UUID, phoneKey string) (*model.Client, error)
	ListTop(ctx context.Context, tenantID uuid.UUID, limit int) ([]model.Client, error)
}
