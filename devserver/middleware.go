package devserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/greenpulse/pulse-client/users"
)

// ContextKeyUserID is set by RequireAuth.
const ContextKeyUserID = "user_id"

// LoggingMiddleware logs every request with its status and latency.
func (s *Server) LoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Str("request_id", c.GetHeader("X-Request-ID")).
			Int("status", c.Writer.Status()).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	}
}

func (s *Server) CorsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		// No Origin header = same-origin request, no CORS headers needed
		if origin == "" {
			c.Next()
			return
		}

		allowedOrigins := s.config.GetAllowedOrigins()
		isAllowed := allowedOrigins.IsAllowedOrigin(origin)
		isWildcard := allowedOrigins.IsAllowedOrigin("*")

		h := c.Writer.Header()
		if isAllowed {
			h.Set("Access-Control-Allow-Origin", origin)
			h.Set("Access-Control-Allow-Credentials", "true")
		} else if isWildcard {
			// Don't set Allow-Credentials with wildcard
			h.Set("Access-Control-Allow-Origin", "*")
		}

		if c.Request.Method == http.MethodOptions {
			if isAllowed || isWildcard {
				h.Set("Access-Control-Allow-Methods", s.config.GetAllowedMethods())
				h.Set("Access-Control-Allow-Headers", s.config.GetAllowedHeaders())
				h.Set("Access-Control-Max-Age", "86400")
			}
			// Not allowed: 204 without CORS headers, the browser blocks the
			// actual request
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// RequireAuth validates the bearer access token and stores the user id in the
// gin context.
func (s *Server) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		rawToken, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			abort(c, http.StatusUnauthorized, "Missing or invalid Authorization header")
			return
		}

		claims, err := s.tokens.Verify(rawToken)
		if err != nil {
			abort(c, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		c.Set(ContextKeyUserID, users.ID(claims.Subject))
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

func userIDFromContext(c *gin.Context) users.ID {
	id, _ := c.Get(ContextKeyUserID)
	userID, _ := id.(users.ID)
	return userID
}
