package auth

import (
	"time"

	"github.com/ordesk/ordesk/internal/domain/model"
)

// Strategy issues and verifies actor tokens carrying tenant and role claims.
type Strategy interface {
	IssueToken(actor model.Actor) (string, error)
	ParseToken(token string) (model.Actor, error)
	Name() string
}

type Options struct {
	TTL time.Duration
}
