package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ertis-service/backend/internal/auth"
	"github.com/ertis-service/backend/internal/models"
)

const ClaimsKey = "claims"

// Authenticate parses the bearer token and stores its claims on the context.
// Missing or invalid tokens are 401; role checks happen in RequireRole.
func Authenticate(issuer auth.TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			abortAuth(c, http.StatusUnauthorized, "UNAUTHORIZED", "Missing bearer token")
			return
		}
		claims, err := issuer.Parse(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			abortAuth(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid or expired token")
			return
		}
		c.Set(ClaimsKey, claims)
		c.Next()
	}
}

// RequireRole rejects authenticated callers whose role is outside the allowed
// set with 403, distinguishing them from unauthenticated callers.
func RequireRole(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := GetClaims(c)
		if !ok {
			abortAuth(c, http.StatusUnauthorized, "UNAUTHORIZED", "Missing bearer token")
			return
		}
		if !auth.Allowed(claims.Role, roles...) {
			abortAuth(c, http.StatusForbidden, "FORBIDDEN", "Insufficient permissions")
			return
		}
		c.Next()
	}
}

func GetClaims(c *gin.Context) (auth.Claims, bool) {
	v, ok := c.Get(ClaimsKey)
	if !ok {
		return auth.Claims{}, false
	}
	claims, ok := v.(auth.Claims)
	return claims, ok
}

func abortAuth(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}
