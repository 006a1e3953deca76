package middleware

import (
	"context"
	"strings"

	"membergate/models"
	"membergate/response"
	"membergate/services"

	"github.com/gin-gonic/gin"
)

const principalKey = "principal"

// Authorizer resolves a bearer token into a Principal holding the given role.
type Authorizer interface {
	Authorize(ctx context.Context, bearer string, required models.Role) (services.Principal, error)
}

// AuthMiddleware reads the bearer token from the Authorization header and
// stores the resulting principal in the gin context.
func AuthMiddleware(auth Authorizer, role models.Role) gin.HandlerFunc {
	return authorize(auth, role, func(c *gin.Context) string {
		return bearerToken(c.GetHeader("Authorization"))
	})
}

// QueryAuthMiddleware is AuthMiddleware for clients that cannot set headers,
// such as browser websockets. The header still wins when present.
func QueryAuthMiddleware(auth Authorizer, role models.Role, param string) gin.HandlerFunc {
	return authorize(auth, role, func(c *gin.Context) string {
		if token := bearerToken(c.GetHeader("Authorization")); token != "" {
			return token
		}
		return c.Query(param)
	})
}

func authorize(auth Authorizer, role models.Role, extract func(*gin.Context) string) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, err := auth.Authorize(c.Request.Context(), extract(c), role)
		if err != nil {
			response.FromError(c, err)
			c.Abort()
			return
		}
		c.Set(principalKey, principal)
		c.Next()
	}
}

// CurrentPrincipal returns the principal stored by AuthMiddleware.
func CurrentPrincipal(c *gin.Context) (services.Principal, bool) {
	value, exists := c.Get(principalKey)
	if !exists {
		return services.Principal{}, false
	}
	principal, ok := value.(services.Principal)
	return principal, ok
}

func bearerToken(header string) string {
	header = strings.TrimSpace(header)
	if len(header) < len("Bearer ") || !strings.EqualFold(header[:len("Bearer ")], "Bearer ") {
		return ""
	}
	return strings.TrimSpace(header[len("Bearer "):])
}

// ErrorHandler renders errors attached with c.Error when the handler wrote
// nothing itself.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 && !c.Writer.Written() {
			response.FromError(c, c.Errors.Last().Err)
		}
	}
}
