package model

import (
	"time"

	"github.com/google/uuid"
)

// Client is a denormalized customer record used for loyalty ranking.
// Identity is the canonical digits-only phone key within a tenant.
type Client struct {
	TenantID    uuid.UUID
	PhoneKey    string
	Name        string
	Phone       string
	Address     string
	Notes       string
	OrderCount  int
	LastOrderAt time.Time
}
