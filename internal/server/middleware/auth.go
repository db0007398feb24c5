package middleware

import (
	"crypto/subtle"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/nulzo/intent-router/pkg/api"
)

// Auth requires "Authorization: Bearer <key>" with one of keys. With no
// keys configured every request passes.
func Auth(keys []string) gin.HandlerFunc {
	allowed := make([][]byte, 0, len(keys))
	for _, k := range keys {
		if k != "" {
			allowed = append(allowed, []byte(k))
		}
	}

	return func(c *gin.Context) {
		if len(allowed) == 0 {
			c.Next()
			return
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortWithProblem(c, api.UnauthorizedError("Missing Authorization header"))
			return
		}

		token, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok || token == "" {
			abortWithProblem(c, api.UnauthorizedError("Invalid Authorization header format"))
			return
		}

		for _, k := range allowed {
			if subtle.ConstantTimeCompare([]byte(token), k) == 1 {
				c.Next()
				return
			}
		}

		abortWithProblem(c, api.UnauthorizedError("Invalid API key"))
	}
}

func abortWithProblem(c *gin.Context, p *api.Problem) {
	c.AbortWithStatusJSON(p.Status, p)
}
