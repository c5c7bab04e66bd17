package cors

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	allowedHeaders  = "Authorization, Content-Type, X-Requested-With, X-Request-ID"
	allowedMethods  = "GET, POST, PUT, PATCH, DELETE, OPTIONS"
	preflightMaxAge = "600"
)

// allowlist holds normalized origins. Empty means every origin is accepted.
type allowlist map[string]struct{}

func newAllowlist(origins []string) allowlist {
	set := make(allowlist, len(origins))
	for _, o := range origins {
		set[normalize(o)] = struct{}{}
	}
	return set
}

func (a allowlist) permits(origin string) bool {
	if len(a) == 0 {
		return true
	}
	_, ok := a[normalize(origin)]
	return ok
}

func normalize(origin string) string {
	return strings.ToLower(strings.TrimRight(origin, "/"))
}

// New builds the CORS middleware from the configured origin list. With an
// empty list the API answers any origin, which is what local development
// against the frontend dev server needs.
func New(allowedOrigins []string) gin.HandlerFunc {
	allowed := newAllowlist(allowedOrigins)

	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("Vary", "Origin")

		origin := c.GetHeader("Origin")
		switch {
		case origin != "" && allowed.permits(origin):
			h.Set("Access-Control-Allow-Origin", origin)
		case origin == "" && len(allowed) == 0:
			h.Set("Access-Control-Allow-Origin", "*")
		}

		h.Set("Access-Control-Allow-Credentials", "true")
		h.Set("Access-Control-Allow-Headers", allowedHeaders)
		h.Set("Access-Control-Allow-Methods", allowedMethods)
		h.Set("Access-Control-Max-Age", preflightMaxAge)

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
