package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/sgmi-dev/sgmi-api/internal/models"
	appErrors "github.com/sgmi-dev/sgmi-api/pkg/errors"
	"github.com/sgmi-dev/sgmi-api/pkg/response"
)

// RequirePermission gates a route on the caller's permission matrix. The
// matrix travels inside the access token, so no store lookup happens here;
// missing modules or actions deny by default.
func RequirePermission(module models.Module, action models.Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		claimsValue, exists := c.Get(ContextUserKey)
		if !exists {
			response.Error(c, appErrors.ErrUnauthenticated)
			c.Abort()
			return
		}
		claims, ok := claimsValue.(*models.JWTClaims)
		if !ok {
			response.Error(c, appErrors.ErrUnauthenticated)
			c.Abort()
			return
		}

		if !claims.Permissions.Allows(module, action) {
			response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "missing permission for this operation"))
			c.Abort()
			return
		}

		c.Next()
	}
}
