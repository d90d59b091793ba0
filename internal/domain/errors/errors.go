package errors

import "errors"

var (
	ErrNotFound             = errors.New("not found")
	ErrAlreadyExists        = errors.New("already exists")
	ErrUnauthorized         = errors.New("unauthorized")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrSubscriptionInactive = errors.New("subscription inactive")
	ErrInvalidTransition    = errors.New("invalid status transition")
	ErrAlreadyAssigned      = errors.New("order already assigned")
	ErrOfferExpired         = errors.New("offer expired")
	ErrWrongCode            = errors.New("wrong handoff code")
	ErrMissingCode          = errors.New("handoff code not configured")
	ErrCourierBusy          = errors.New("courier holds an active order")
	ErrPushUnavailable      = errors.New("push capability not confirmed")
)
