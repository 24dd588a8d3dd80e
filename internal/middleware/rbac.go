package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/internship-api/internal/models"
	"github.com/noah-isme/internship-api/internal/service"
	"github.com/noah-isme/internship-api/pkg/response"
)

// RequireRoles rejects callers whose role is outside roles using the same
// guard as the services.
func RequireRoles(roles ...models.UserRole) gin.HandlerFunc {
	capability := service.Capability(roles)
	return func(c *gin.Context) {
		if err := service.Authorize(CallerFromContext(c), capability); err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}
		c.Next()
	}
}
