package middleware

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"feira_back_end/internal/cache"

	"github.com/gin-gonic/gin"
)

const (
	LoginMaxAttempts = 5
	LoginWindow      = 15 * time.Minute

	CartMaxAdds = 20
	CartWindow  = time.Minute

	maxLoginBody = 64 << 10
)

// LoginRateLimit bloqueia o email após LoginMaxAttempts falhas na janela.
// Login bem-sucedido zera o contador.
func LoginRateLimit(store *cache.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Ler o body sem consumi-lo
		bodyBytes, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxLoginBody))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Requisição muito grande"})
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))

		var input struct {
			Email string `json:"email"`
		}
		if err := json.Unmarshal(bodyBytes, &input); err != nil || input.Email == "" {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		key := "login_attempts:" + strings.ToLower(strings.TrimSpace(input.Email))

		attempts, err := store.GetRateLimit(ctx, key)
		if err != nil {
			log.Printf("⚠️ Rate limit de login indisponível: %v", err)
		}
		if attempts >= LoginMaxAttempts {
			ttl := store.RateLimitTTL(ctx, key)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       fmt.Sprintf("Muitas tentativas. Tente novamente em %d minutos", int(ttl.Minutes())+1),
				"retry_after": int(ttl.Seconds()),
			})
			return
		}

		c.Next()

		switch c.Writer.Status() {
		case http.StatusUnauthorized:
			if _, err := store.IncrementRateLimit(ctx, key, LoginWindow); err != nil {
				log.Printf("⚠️ Erro ao contar tentativa de login: %v", err)
			}
		case http.StatusOK:
			_ = store.ResetRateLimit(ctx, key)
		}
	}
}

// CartRateLimit limita as inclusões no carrinho por usuário (anti-spam).
func CartRateLimit(store *cache.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")
		if userID == "" {
			c.Next()
			return
		}

		n, err := store.IncrementRateLimit(c.Request.Context(), "cart_add:"+userID, CartWindow)
		if err != nil {
			log.Printf("⚠️ Rate limit do carrinho indisponível: %v", err)
			c.Next()
			return
		}
		if n > CartMaxAdds {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "Muitas inclusões no carrinho. Vá com calma",
				"retry_after": int(CartWindow.Seconds()),
			})
			return
		}

		c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", CartMaxAdds))
		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", CartMaxAdds-n))
		c.Next()
	}
}
