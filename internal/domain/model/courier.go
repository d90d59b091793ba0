package model

import (
	"time"

	"github.com/google/uuid"
)

// CourierStatus describes availability of a courier for dispatch.
type CourierStatus string

const (
	CourierStatusOffline   CourierStatus = "offline"
	CourierStatusAvailable CourierStatus = "available"
	CourierStatusBusy      CourierStatus = "busy"
)

// Courier is a delivery driver attached to one tenant.
type Courier struct {
	ID           uuid.UUID
	TenantID     uuid.UUID
	Login        string
	PasswordHash string
	Name         string
	Phone        string
	Vehicle      string
	PaymentModel string
	Status       CourierStatus
	PushCapable  bool
	PushHandle   string
	Lat          float64
	Lng          float64
	CreatedAt    time.Time
}

// CourierPatch carries optional fields for a merge update.
// A nil field leaves the stored value untouched.
type CourierPatch struct {
	Name         *string
	Phone        *string
	Vehicle      *string
	PaymentModel *string
	PushCapable  *bool
	PushHandle   *string
	Lat          *float64
	Lng          *float64
}
