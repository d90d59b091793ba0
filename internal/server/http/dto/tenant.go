package dto

import "time"

// TenantCreateRequest describes the operator bootstrap payload.
type TenantCreateRequest struct {
	Slug             string    `json:"slug" binding:"required"`
	Name             string    `json:"name" binding:"required"`
	PaidThrough      time.Time `json:"paid_through" binding:"required"`
	Phone            string    `json:"phone"`
	Address          string    `json:"address"`
	OriginLat        float64   `json:"origin_lat"`
	OriginLng        float64   `json:"origin_lng"`
	DispatchRadiusKm float64   `json:"dispatch_radius_km"`
	OwnerLogin       string    `json:"owner_login" binding:"required"`
	OwnerPassword    string    `json:"owner_password" binding:"required"`
}

// TenantPatchRequest carries optional tenant profile updates.
// Absent fields leave the stored values untouched.
type TenantPatchRequest struct {
	Name             *string  `json:"name"`
	Phone            *string  `json:"phone"`
	Address          *string  `json:"address"`
	OriginLat        *float64 `json:"origin_lat"`
	OriginLng        *float64 `json:"origin_lng"`
	DispatchRadiusKm *float64 `json:"dispatch_radius_km"`
}

// TenantResponse describes a tenant for staff consumers.
type TenantResponse struct {
	ID               string    `json:"id"`
	Slug             string    `json:"slug"`
	Name             string    `json:"name"`
	Status           string    `json:"status"`
	PaidThrough      time.Time `json:"paid_through"`
	Phone            string    `json:"phone,omitempty"`
	Address          string    `json:"address,omitempty"`
	OriginLat        float64   `json:"origin_lat"`
	OriginLng        float64   `json:"origin_lng"`
	DispatchRadiusKm float64   `json:"dispatch_radius_km"`
}

// TenantCardResponse is the public storefront display card.
type TenantCardResponse struct {
	Slug    string `json:"slug"`
	Name    string `json:"name"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
}
