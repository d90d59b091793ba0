package dto

import "time"

// ClientResponse describes one loyalty client record.
type ClientResponse struct {
	Name        string    `json:"name"`
	Phone       string    `json:"phone"`
	Address     string    `json:"address,omitempty"`
	OrderCount  int       `json:"order_count"`
	LastOrderAt time.Time `json:"last_order_at"`
}
