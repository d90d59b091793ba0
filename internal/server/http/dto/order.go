package dto

import "time"

// OrderCreateRequest describes a storefront or staff-entered order.
type OrderCreateRequest struct {
	CustomerName  string  `json:"customer_name" binding:"required"`
	CustomerPhone string  `json:"customer_phone" binding:"required"`
	Address       string  `json:"address" binding:"required"`
	Items         string  `json:"items"`
	Amount        float64 `json:"amount"`
	PaymentMethod string  `json:"payment_method"`
}

// OrderTransitionRequest moves an order to a target status. Code carries the
// pickup or delivery handoff code when the transition requires one; Force is
// the owner-only audited override.
type OrderTransitionRequest struct {
	Status string `json:"status" binding:"required"`
	Code   string `json:"code"`
	Force  bool   `json:"force"`
}

// OrderResponse describes an order for authenticated consumers. Handoff
// codes are exposed to staff so they can be printed on the receipt.
type OrderResponse struct {
	ID            string     `json:"id"`
	CustomerName  string     `json:"customer_name"`
	CustomerPhone string     `json:"customer_phone,omitempty"`
	Address       string     `json:"address"`
	Items         string     `json:"items,omitempty"`
	Amount        float64    `json:"amount"`
	PaymentMethod string     `json:"payment_method,omitempty"`
	Status        string     `json:"status"`
	CourierID     string     `json:"courier_id,omitempty"`
	PickupCode    string     `json:"pickup_code,omitempty"`
	DeliveryCode  string     `json:"delivery_code,omitempty"`
	Origin        string     `json:"origin"`
	CreatedAt     time.Time  `json:"created_at"`
	AssignedAt    *time.Time `json:"assigned_at,omitempty"`
	PickedUpAt    *time.Time `json:"picked_up_at,omitempty"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
}

// OrderCreatedResponse is the public storefront acknowledgement. The
// delivery code goes to the customer; the pickup code stays with the store.
type OrderCreatedResponse struct {
	ID           string `json:"id"`
	Status       string `json:"status"`
	DeliveryCode string `json:"delivery_code"`
}

// OrderAuditResponse describes one privileged override record.
type OrderAuditResponse struct {
	ActorID    string    `json:"actor_id"`
	ActorRole  string    `json:"actor_role"`
	FromStatus string    `json:"from_status"`
	ToStatus   string    `json:"to_status"`
	Forced     bool      `json:"forced"`
	At         time.Time `json:"at"`
}
