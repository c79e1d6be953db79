// README: Firebase ID-token auth middleware and caller identity helpers.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"loadrec/internal/infra"
)

const (
	callerUIDKey = "caller_uid"

	// clientIDHeader identifies unauthenticated callers for the AI quota.
	clientIDHeader = "X-Client-ID"
)

type errorResponse struct {
	Error string `json:"error"`
}

// Auth rejects requests without a valid "Bearer <firebase id token>" header.
func Auth(verifier infra.TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		raw, ok := strings.CutPrefix(header, "Bearer ")
		raw = strings.TrimSpace(raw)
		if !ok || raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse{Error: "missing bearer token"})
			return
		}

		token, err := verifier.VerifyIDToken(c.Request.Context(), raw)
		if err != nil || token == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorResponse{Error: "invalid token"})
			return
		}

		c.Set(callerUIDKey, token.UID)
		c.Next()
	}
}

func CallerUID(c *gin.Context) string {
	return c.GetString(callerUIDKey)
}

// Caller names whoever is spending AI tokens: the verified uid, else the
// X-Client-ID header, else the client IP.
func Caller(c *gin.Context) string {
	if uid := CallerUID(c); uid != "" {
		return uid
	}
	if id := strings.TrimSpace(c.GetHeader(clientIDHeader)); id != "" {
		return id
	}
	return c.ClientIP()
}
