package middleware

import (
	"context"
	"log"
	"net/http"
	"strings"

	"feira_back_end/internal/utils"

	"github.com/gin-gonic/gin"
)

// TokenBlacklist diz se um jti foi revogado (logout).
type TokenBlacklist interface {
	IsTokenBlacklisted(ctx context.Context, tokenID string) bool
}

// AuthRequired valida o Bearer token e põe as claims da sessão no contexto:
// user_id, email, user_type, sid, jti e session (utils.SessionClaims).
// O WebSocket do carrinho pode mandar o token em ?token=.
func AuthRequired(secret string, blacklist TokenBlacklist) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := ""
		authHeader := c.GetHeader("Authorization")
		switch {
		case authHeader != "":
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Formato do Authorization inválido"})
				return
			}
			tokenString = parts[1]
		case c.Query("token") != "":
			tokenString = c.Query("token")
		default:
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token ausente"})
			return
		}

		claims, err := utils.ParseJWT(secret, tokenString)
		if err != nil {
			log.Printf("❌ JWT recusado: %v", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token inválido"})
			return
		}

		if blacklist != nil && claims.TokenID != "" && blacklist.IsTokenBlacklisted(c.Request.Context(), claims.TokenID) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Sessão encerrada"})
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("email", claims.Email)
		c.Set("user_type", claims.UserType)
		c.Set("sid", claims.SessionID)
		c.Set("jti", claims.TokenID)
		c.Set("session", claims)
		c.Next()
	}
}

// SessionFrom devolve as claims gravadas por AuthRequired.
func SessionFrom(c *gin.Context) (utils.SessionClaims, bool) {
	v, ok := c.Get("session")
	if !ok {
		return utils.SessionClaims{}, false
	}
	sc, ok := v.(utils.SessionClaims)
	return sc, ok
}
