package middleware

import (
	"net/http"
	"strings"

	"dashfleet/pkg/jwt"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware guards mutating routes with a bearer token check. The
// token utility is injected so tests can run with their own secret.
func AuthMiddleware(jwtUtil *jwt.JWTUtil) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			c.Abort()
			return
		}

		// Accept both "Bearer token" and a bare token.
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		claims, err := jwtUtil.ValidateToken(tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		c.Set("email", claims.Email)
		c.Set("role", claims.Role)
		c.Next()
	}
}
