package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/agenda-api/internal/auth"
	"github.com/BruksfildServices01/agenda-api/internal/caller"
	"github.com/BruksfildServices01/agenda-api/internal/httperr"
)

const ContextCaller = "caller"

// AuthMiddleware resolves the bearer token into a caller.Caller once per
// request. Requests without a valid token never reach the handler.
func AuthMiddleware(tokens *auth.Tokens) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			httperr.Unauthorized(c, "missing_authorization_header", "Authorization header is required")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			httperr.Unauthorized(c, "invalid_authorization_header", "Use a Bearer token")
			c.Abort()
			return
		}

		who, err := tokens.Parse(strings.TrimSpace(parts[1]))
		if err != nil {
			httperr.Unauthorized(c, "invalid_token", "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set(ContextCaller, who)
		c.Next()
	}
}

// CallerFrom returns the caller set by AuthMiddleware, or Anonymous.
func CallerFrom(c *gin.Context) caller.Caller {
	if v, ok := c.Get(ContextCaller); ok {
		if who, ok := v.(caller.Caller); ok {
			return who
		}
	}
	return caller.NewAnonymous()
}
