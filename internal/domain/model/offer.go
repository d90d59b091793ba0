package model

import (
	"time"

	"github.com/google/uuid"
)

// OfferStatus describes the lifecycle of a dispatch offer.
type OfferStatus string

const (
	OfferStatusPending  OfferStatus = "pending"
	OfferStatusAccepted OfferStatus = "accepted"
	OfferStatusExpired  OfferStatus = "expired"
)

// DriverOffer is a time-bounded invitation for one courier to claim one order.
// Several offers may exist per order; at most one ever becomes accepted.
type DriverOffer struct {
	ID        uuid.UUID
	TenantID  uuid.UUID
	OrderID   uuid.UUID
	CourierID uuid.UUID
	Status    OfferStatus
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Live reports whether the offer is still claimable at the given instant.
// Expiry is decided at read time; expired rows are never swept.
func (o *DriverOffer) Live(now time.Time) bool {
	return o.Status == OfferStatusPending && now.Before(o.ExpiresAt)
}
