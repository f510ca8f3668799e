package user

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"feira_back_end/internal/middleware"
	"feira_back_end/internal/models"
	"feira_back_end/internal/repository"
	"feira_back_end/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const minPasswordLength = 6

// ================== CADASTRO / LOGIN ==================

func (h *Handler) Register(c *gin.Context) {
	var input struct {
		FullName        string `json:"full_name"`
		Email           string `json:"email"`
		Password        string `json:"password"`
		ConfirmPassword string `json:"confirm_password"`
		UserType        string `json:"user_type"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Dados inválidos"})
		return
	}

	input.FullName = strings.TrimSpace(input.FullName)
	input.Email = normalizeEmail(input.Email)

	switch {
	case input.FullName == "" || input.Email == "" || input.Password == "" || input.ConfirmPassword == "" || input.UserType == "":
		c.JSON(http.StatusBadRequest, gin.H{"error": "Preencha todos os campos"})
		return
	case input.Password != input.ConfirmPassword:
		c.JSON(http.StatusBadRequest, gin.H{"error": "As senhas não coincidem"})
		return
	case len(input.Password) < minPasswordLength:
		c.JSON(http.StatusBadRequest, gin.H{"error": "A senha deve ter pelo menos 6 caracteres"})
		return
	case !models.IsValidUserType(input.UserType):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Tipo de usuário inválido"})
		return
	}

	hash, err := utils.HashPassword(input.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao criar conta"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	u := models.User{ID: uuid.NewString(), Email: input.Email, Password: hash, UserType: input.UserType}
	err = h.Profiles.CreateUser(ctx, u, models.Profile{FullName: input.FullName})
	if errors.Is(err, repository.ErrEmailTaken) {
		c.JSON(http.StatusConflict, gin.H{"error": "Já existe uma conta com este email"})
		return
	}
	if err != nil {
		log.Printf("❌ Erro ao criar conta: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao criar conta"})
		return
	}

	log.Printf("✅ Conta criada: %s (%s)", u.Email, u.UserType)
	h.respondWithToken(c, http.StatusCreated, u)
}

func (h *Handler) Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&input); err != nil || input.Email == "" || input.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email e senha são obrigatórios"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	u, err := h.Profiles.FindCredentials(ctx, normalizeEmail(input.Email))
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Email ou senha inválidos"})
		return
	}
	if err != nil {
		log.Printf("❌ Erro ao buscar credenciais: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao entrar"})
		return
	}

	ok, err := utils.VerifyPassword(input.Password, u.Password)
	if err != nil || !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Email ou senha inválidos"})
		return
	}

	h.respondWithToken(c, http.StatusOK, u)
}

func (h *Handler) respondWithToken(c *gin.Context, status int, u models.User) {
	token, _, err := utils.GenerateJWT(h.JWTSecret, u, h.SessionTTL)
	if err != nil {
		log.Printf("❌ Erro ao gerar token: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao gerar token"})
		return
	}
	c.JSON(status, gin.H{
		"token":     token,
		"user_id":   u.ID,
		"user_type": u.UserType,
	})
}

// Logout revoga o token e descarta o carrinho da sessão.
func (h *Handler) Logout(c *gin.Context) {
	sc, ok := middleware.SessionFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Não autenticado"})
		return
	}

	if h.Tokens != nil && sc.TokenID != "" {
		if err := h.Tokens.BlacklistToken(c.Request.Context(), sc.TokenID, time.Until(sc.ExpiresAt)); err != nil {
			log.Printf("⚠️ Token %s não revogado: %v", sc.TokenID, err)
		}
	}
	h.Carts.Drop(c.Request.Context(), sc.SessionID)

	c.JSON(http.StatusOK, gin.H{"message": "Sessão encerrada"})
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
