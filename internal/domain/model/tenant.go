package model

import (
	"time"

	"github.com/google/uuid"
)

// TenantStatus describes subscription standing of a store.
type TenantStatus string

const (
	TenantStatusActive    TenantStatus = "active"
	TenantStatusSuspended TenantStatus = "suspended"
)

// Tenant is one isolated store instance on the platform.
type Tenant struct {
	ID               uuid.UUID
	Slug             string
	Name             string
	Status           TenantStatus
	PaidThrough      time.Time
	Phone            string
	Address          string
	OriginLat        float64
	OriginLng        float64
	DispatchRadiusKm float64
	Settings         []byte
	CreatedAt        time.Time
}

// Servable reports whether the tenant may be served at the given instant.
func (t *Tenant) Servable(now time.Time) bool {
	return t.Status == TenantStatusActive && !t.PaidThrough.Before(now)
}

// TenantPatch carries optional fields for a merge update.
// A nil field leaves the stored value untouched.
type TenantPatch struct {
	Name             *string
	Phone            *string
	Address          *string
	OriginLat        *float64
	OriginLng        *float64
	DispatchRadiusKm *float64
	Settings         []byte
}
