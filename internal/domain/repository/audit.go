package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/ordesk/ordesk/internal/domain/model"
)

// AuditRepository records privileged status overrides.
type AuditRepository interface {
	Record(ctx context.Context, entry *model.OrderAudit) error
	ListForOrder(ctx context.Context, tenantID, orderID uuid.UUID) ([]model.OrderAudit, error)
}
