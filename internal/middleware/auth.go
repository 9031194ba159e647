package middleware

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/LeeCh0129/greenie-backend/internal/domain"
)

const principalKey = "principal"

// Authenticator resolves a bearer header into the calling principal, or nil
type Authenticator interface {
	Authenticate(ctx context.Context, bearerHeader string) *domain.Principal
}

// OptionalAuth attaches the principal when the request carries a valid access token.
// Requests with a missing or invalid token continue anonymously.
func OptionalAuth(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if header := c.GetHeader("Authorization"); header != "" {
			if principal := auth.Authenticate(c.Request.Context(), header); principal != nil {
				c.Set(principalKey, principal)
			}
		}
		c.Next()
	}
}

// RequireAuth rejects requests without a valid access token
func RequireAuth(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal := auth.Authenticate(c.Request.Context(), c.GetHeader("Authorization"))
		if principal == nil {
			_ = c.Error(&domain.UnauthorizedError{Message: "authentication required"})
			c.Abort()
			return
		}
		c.Set(principalKey, principal)
		c.Next()
	}
}

// PrincipalFrom returns the principal attached by OptionalAuth or RequireAuth
func PrincipalFrom(c *gin.Context) *domain.Principal {
	v, ok := c.Get(principalKey)
	if !ok {
		return nil
	}
	principal, _ := v.(*domain.Principal)
	return principal
}
