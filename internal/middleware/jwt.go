package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/internship-api/internal/models"
	appErrors "github.com/noah-isme/internship-api/pkg/errors"
	"github.com/noah-isme/internship-api/pkg/logger"
	"github.com/noah-isme/internship-api/pkg/response"
)

// ContextCallerKey is the gin context key storing the resolved *models.Caller.
const ContextCallerKey = "caller"

// TokenValidator verifies bearer tokens.
type TokenValidator interface {
	ValidateToken(token string) (*models.JWTClaims, error)
}

// CallerResolver maps verified claims onto a local user.
type CallerResolver interface {
	ResolveCaller(ctx context.Context, claims *models.JWTClaims) (*models.Caller, error)
}

// JWT protects routes by requiring a valid access token. The caller is
// resolved once per request and stored under ContextCallerKey.
func JWT(tokens TokenValidator, identities CallerResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthenticated, "missing or malformed bearer token"))
			c.Abort()
			return
		}

		claims, err := tokens.ValidateToken(token)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		caller, err := identities.ResolveCaller(c.Request.Context(), claims)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		c.Set(ContextCallerKey, caller)
		c.Set(logger.UserIDKey, caller.UserID)
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", false
	}
	return strings.TrimSpace(parts[1]), true
}

// CallerFromContext returns the caller stored by JWT, or nil.
func CallerFromContext(c *gin.Context) *models.Caller {
	value, exists := c.Get(ContextCallerKey)
	if !exists {
		return nil
	}
	caller, ok := value.(*models.Caller)
	if !ok {
		return nil
	}
	return caller
}
