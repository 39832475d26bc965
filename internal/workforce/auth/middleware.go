package auth

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gartstein/workforce/internal/workforce/models"
	"github.com/gin-gonic/gin"
)

const principalContextKey = "principal"

// Authenticate extracts the Bearer token, verifies it, and attaches the
// decoded Principal to the request context. No handler runs on failure.
func Authenticate(tokens *TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := extractBearerToken(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}

		principal, err := tokens.Verify(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(principalContextKey, principal)
		c.Next()
	}
}

// RequireType rejects authenticated principals of the wrong kind. This is a
// role-authorization check, distinct from authentication: the token is
// valid, the caller just isn't allowed here.
func RequireType(t models.PrincipalType) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		if principal.Type != t {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": fmt.Sprintf("%s access required", t)})
			return
		}
		c.Next()
	}
}

// PrincipalFromContext returns the Principal attached by Authenticate.
func PrincipalFromContext(c *gin.Context) (models.Principal, bool) {
	value, exists := c.Get(principalContextKey)
	if !exists {
		return models.Principal{}, false
	}
	principal, ok := value.(models.Principal)
	return principal, ok
}

func extractBearerToken(c *gin.Context) (string, error) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return "", fmt.Errorf("authorization header required")
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", fmt.Errorf("invalid authorization format")
	}

	return parts[1], nil
}
