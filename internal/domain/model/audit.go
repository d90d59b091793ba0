package model

import (
	"time"

	"github.com/google/uuid"
)

// OrderAudit records a privileged status override performed by staff,
// bypassing the handoff code gate.
type OrderAudit struct {
	ID         uuid.UUID
	TenantID   uuid.UUID
	OrderID    uuid.UUID
	ActorID    uuid.UUID
	ActorRole  ActorRole
	FromStatus OrderStatus
	ToStatus   OrderStatus
	Forced     bool
	At         time.Time
}
