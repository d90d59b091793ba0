package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/ordesk/ordesk/internal/domain/errors"
	"github.com/ordesk/ordesk/internal/domain/model"
	pkgAuth "github.com/ordesk/ordesk/internal/pkg/auth"
)

const (
	// ActorContextKey is a gin context key for the authenticated actor.
	ActorContextKey = "actor"
	// TenantContextKey is a gin context key for the actor's resolved tenant.
	TenantContextKey = "tenant"

	authCookieName = "ordesk_token"
)

// ActorResolver validates tokens and resolves the actor's tenant, enforcing
// the subscription gate before any tenant-scoped handler runs.
type ActorResolver interface {
	ParseToken(token string) (model.Actor, error)
	ResolveActor(ctx context.Context, actor model.Actor) (*model.Tenant, error)
}

// AuthRequired ensures the request carries a valid actor token bound to a
// servable tenant.
func AuthRequired(resolver ActorResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		actor, err := resolver.ParseToken(token)
		if err != nil {
			if errors.Is(err, pkgAuth.ErrInvalidToken) {
				c.AbortWithStatus(http.StatusUnauthorized)
				return
			}
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}

		tenant, err := resolver.ResolveActor(c.Request.Context(), actor)
		if err != nil {
			switch {
			case errors.Is(err, domainErrors.ErrNotFound):
				c.AbortWithStatus(http.StatusUnauthorized)
			case errors.Is(err, domainErrors.ErrSubscriptionInactive):
				c.AbortWithStatus(http.StatusPaymentRequired)
			default:
				c.AbortWithStatus(http.StatusInternalServerError)
			}
			return
		}

		c.Set(ActorContextKey, actor)
		c.Set(TenantContextKey, tenant)
		c.Next()
	}
}

// RequireRoles rejects actors whose role is not in the allowed set.
func RequireRoles(roles ...model.ActorRole) gin.HandlerFunc {
	allowed := make(map[model.ActorRole]bool, len(roles))
	for _, role := range roles {
		allowed[role] = true
	}
	return func(c *gin.Context) {
		val, ok := c.Get(ActorContextKey)
		if !ok {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		actor, _ := val.(model.Actor)
		if !allowed[actor.Role] {
			c.AbortWithStatus(http.StatusForbidden)
			return
		}
		c.Next()
	}
}

func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(strings.ToLower(authHeader), "bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}

	if cookie, err := c.Cookie(authCookieName); err == nil {
		return cookie
	}
	return ""
}

// SetAuthCookie writes the auth token cookie to the response.
func SetAuthCookie(c *gin.Context, token string) {
	c.SetCookie(authCookieName, token, 0, "/", "", false, true)
	c.Header("Authorization", "Bearer "+token)
}
