package dto

// CourierCreateRequest describes staff-side courier onboarding.
type CourierCreateRequest struct {
	Login        string `json:"login" binding:"required"`
	Password     string `json:"password" binding:"required"`
	Name         string `json:"name" binding:"required"`
	Phone        string `json:"phone"`
	Vehicle      string `json:"vehicle"`
	PaymentModel string `json:"payment_model"`
	PushHandle   string `json:"push_handle"`
}

// CourierPatchRequest carries optional courier profile updates.
type CourierPatchRequest struct {
	Name         *string `json:"name"`
	Phone        *string `json:"phone"`
	Vehicle      *string `json:"vehicle"`
	PaymentModel *string `json:"payment_model"`
	PushHandle   *string `json:"push_handle"`
}

// AvailabilityRequest toggles the courier between offline and available.
type AvailabilityRequest struct {
	Status string `json:"status" binding:"required"`
}

// LocationRequest reports the courier's current position.
type LocationRequest struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// CourierResponse describes a courier for staff and the courier itself.
type CourierResponse struct {
	ID           string  `json:"id"`
	Login        string  `json:"login"`
	Name         string  `json:"name"`
	Phone        string  `json:"phone,omitempty"`
	Vehicle      string  `json:"vehicle,omitempty"`
	PaymentModel string  `json:"payment_model,omitempty"`
	Status       string  `json:"status"`
	PushCapable  bool    `json:"push_capable"`
	Lat          float64 `json:"lat"`
	Lng          float64 `json:"lng"`
}
