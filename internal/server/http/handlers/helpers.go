package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/ordesk/ordesk/internal/domain/errors"
	"github.com/ordesk/ordesk/internal/domain/model"
	"github.com/ordesk/ordesk/internal/server/http/middleware"
)

// CurrentActor extracts the authenticated actor from context.
func CurrentActor(c *gin.Context) model.Actor {
	val, ok := c.Get(middleware.ActorContextKey)
	if !ok {
		return model.Actor{}
	}
	actor, _ := val.(model.Actor)
	return actor
}

// CurrentTenant extracts the actor's resolved tenant from context.
func CurrentTenant(c *gin.Context) *model.Tenant {
	val, ok := c.Get(middleware.TenantContextKey)
	if !ok {
		return nil
	}
	tenant, _ := val.(*model.Tenant)
	return tenant
}

// statusFromError maps domain sentinels to HTTP statuses.
func statusFromError(err error) int {
	switch {
	case errors.Is(err, domainErrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domainErrors.ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, domainErrors.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, domainErrors.ErrSubscriptionInactive):
		return http.StatusPaymentRequired
	case errors.Is(err, domainErrors.ErrInvalidTransition),
		errors.Is(err, domainErrors.ErrAlreadyAssigned),
		errors.Is(err, domainErrors.ErrAlreadyExists),
		errors.Is(err, domainErrors.ErrCourierBusy):
		return http.StatusConflict
	case errors.Is(err, domainErrors.ErrOfferExpired):
		return http.StatusGone
	case errors.Is(err, domainErrors.ErrWrongCode),
		errors.Is(err, domainErrors.ErrMissingCode):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domainErrors.ErrPushUnavailable):
		return http.StatusPreconditionFailed
	default:
		return http.StatusInternalServerError
	}
}

func abortWithError(c *gin.Context, err error) {
	status := statusFromError(err)
	if status == http.StatusInternalServerError {
		c.AbortWithStatus(status)
		return
	}
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}
