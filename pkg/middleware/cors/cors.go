package cors

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"

	"github.com/noah-isme/internship-api/pkg/config"
)

// Options translates cfg into rs/cors options. With no configured origins any
// origin is allowed but credentials are not.
func Options(cfg config.CORSConfig) cors.Options {
	origins := make([]string, 0, len(cfg.AllowedOrigins))
	for _, origin := range cfg.AllowedOrigins {
		if origin = strings.TrimRight(strings.TrimSpace(origin), "/"); origin != "" {
			origins = append(origins, origin)
		}
	}
	allowAll := len(origins) == 0
	if allowAll {
		origins = []string{"*"}
	}
	return cors.Options{
		AllowedOrigins:   origins,
		AllowCredentials: !allowAll,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Requested-With", "X-Request-ID"},
		// Downloads (exports, signed files) are read by browser clients.
		ExposedHeaders: []string{"Content-Disposition", "X-Request-ID"},
		MaxAge:         int(cfg.MaxAge.Seconds()),
	}
}

// New returns gin middleware for cfg. Preflights from unknown origins are
// rejected with 403 instead of an empty 204.
func New(cfg config.CORSConfig) gin.HandlerFunc {
	handler := cors.New(Options(cfg))

	return func(c *gin.Context) {
		preflight := c.Request.Method == http.MethodOptions && c.GetHeader("Access-Control-Request-Method") != ""
		if preflight && c.GetHeader("Origin") != "" && !handler.OriginAllowed(c.Request) {
			c.AbortWithStatus(http.StatusForbidden)
			return
		}

		handler.HandlerFunc(c.Writer, c.Request)
		if preflight {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
