package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// driverIDKey is the context key under which AuthMiddleware stores the
// authenticated driver's ID.
const driverIDKey = "authDriverID"

// TokenParser validates a bearer token and returns the driver ID it carries.
type TokenParser interface {
	ParseToken(tokenString string) (string, error)
}

// AuthMiddleware returns middleware that requires a valid driver JWT.
func AuthMiddleware(parser TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		driverID, err := parser.ParseToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(driverIDKey, driverID)
		c.Next()
	}
}

// RequireSelf returns middleware that rejects requests where the
// authenticated driver does not match the :id path parameter. Drivers can
// only read their own history.
func RequireSelf() gin.HandlerFunc {
	return func(c *gin.Context) {
		if AuthDriverID(c) != c.Param("id") {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		c.Next()
	}
}

// AuthDriverID returns the driver ID set by AuthMiddleware.
func AuthDriverID(c *gin.Context) string {
	id, _ := c.Get(driverIDKey)
	s, _ := id.(string)
	return s
}
