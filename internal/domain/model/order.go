package model

import (
	"time"

	"github.com/google/uuid"
)

// OrderStatus describes the delivery lifecycle of an order.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusPreparing  OrderStatus = "preparing"
	OrderStatusReady      OrderStatus = "ready"
	OrderStatusAssigned   OrderStatus = "assigned"
	OrderStatusDelivering OrderStatus = "delivering"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusCancelled  OrderStatus = "cancelled"

	// OrderStatusAccepted is a historical alias still sent by courier
	// clients; it normalizes to delivering.
	OrderStatusAccepted OrderStatus = "accepted"
)

// OrderOrigin tags where an order entered the system.
type OrderOrigin string

const (
	OrderOriginStorefront OrderOrigin = "storefront"
	OrderOriginManual     OrderOrigin = "manual"
)

// Order is a single purchase moving through the lifecycle within one tenant.
type Order struct {
	ID            uuid.UUID
	TenantID      uuid.UUID
	CustomerName  string
	CustomerPhone string
	Address       string
	Items         string
	Amount        float64
	PaymentMethod string
	Status        OrderStatus
	CourierID     *uuid.UUID
	PickupCode    string
	DeliveryCode  string
	Origin        OrderOrigin
	CreatedAt     time.Time
	AssignedAt    *time.Time
	PickedUpAt    *time.Time
	CompletedAt   *time.Time
}

// Terminal reports whether no further transitions are permitted.
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusCancelled
}

// Normalize maps client-facing aliases onto canonical statuses.
func (s OrderStatus) Normalize() OrderStatus {
	if s == OrderStatusAccepted {
		return OrderStatusDelivering
	}
	return s
}

// Valid reports whether the status is a known canonical value.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusPreparing, OrderStatusReady,
		OrderStatusAssigned, OrderStatusDelivering,
		OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:    {OrderStatusPreparing, OrderStatusCancelled},
	OrderStatusPreparing:  {OrderStatusReady, OrderStatusCancelled},
	OrderStatusReady:      {OrderStatusAssigned, OrderStatusCancelled},
	OrderStatusAssigned:   {OrderStatusDelivering, OrderStatusCancelled},
	OrderStatusDelivering: {OrderStatusCompleted, OrderStatusCancelled},
}

// CanTransition reports whether moving from one status to another is legal.
func CanTransition(from, to OrderStatus) bool {
	for _, next := range orderTransitions[from.Normalize()] {
		if next == to.Normalize() {
			return true
		}
	}
	return false
}

// Offerable reports whether the order may be shown to couriers for claiming.
func (o *Order) Offerable() bool {
	return o.Status == OrderStatusReady && o.CourierID == nil
}

// OrderDraft holds caller-supplied fields for a new order.
type OrderDraft struct {
	CustomerName  string
	CustomerPhone string
	Address       string
	Items         string
	Amount        float64
	PaymentMethod string
	Origin        OrderOrigin
}
