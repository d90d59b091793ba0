package model

import (
	"time"

	"github.com/google/uuid"
)

// ActorRole identifies who is performing an operation.
type ActorRole string

const (
	RoleOwner   ActorRole = "owner"
	RoleStaff   ActorRole = "staff"
	RoleCourier ActorRole = "courier"
)

// Actor is an authenticated principal scoped to a tenant.
type Actor struct {
	ID       uuid.UUID
	TenantID uuid.UUID
	Role     ActorRole
}

// StaffAccount is a store employee login within one tenant.
type StaffAccount struct {
	ID           uuid.UUID
	TenantID     uuid.UUID
	Login        string
	PasswordHash string
	Role         ActorRole
	CreatedAt    time.Time
}
