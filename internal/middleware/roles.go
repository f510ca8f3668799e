package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RequireUserType restringe a rota a agricultores ou consumidores.
func RequireUserType(userType string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString("user_type") != userType {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Acesso restrito a " + userType + "es"})
			return
		}
		c.Next()
	}
}
