package middleware

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/osca-api/internal/models"
	"github.com/noah-isme/osca-api/internal/session"
	"github.com/noah-isme/osca-api/pkg/response"
)

// ContextIdentityKey is the gin context key storing the resolved identity.
const ContextIdentityKey = "currentIdentity"

type identityResolver interface {
	ResolveIdentity(ctx context.Context, store session.Store) (*models.Identity, error)
}

// RequireSession protects routes by requiring a valid session cookie. An
// invalid or expired cookie is cleared before the request is rejected.
func RequireSession(resolver identityResolver, opts session.CookieOptions) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, err := resolver.ResolveIdentity(c.Request.Context(), session.NewCookieStore(c, opts))
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		c.Set(ContextIdentityKey, identity)
		c.Next()
	}
}

// IdentityFromContext returns the identity set by RequireSession, if any.
func IdentityFromContext(c *gin.Context) *models.Identity {
	value, exists := c.Get(ContextIdentityKey)
	if !exists {
		return nil
	}
	identity, ok := value.(*models.Identity)
	if !ok {
		return nil
	}
	return identity
}
