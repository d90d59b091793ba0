package dto

import "time"

// OfferResponse describes one live dispatch offer in a courier's queue.
type OfferResponse struct {
	ID        string    `json:"id"`
	OrderID   string    `json:"order_id"`
	ExpiresAt time.Time `json:"expires_at"`
}
