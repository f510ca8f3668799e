package user

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"feira_back_end/internal/models"
	"feira_back_end/internal/repository"
	"feira_back_end/internal/services"

	"github.com/gin-gonic/gin"
)

func (h *Handler) GetProfile(c *gin.Context) {
	p, err := h.Profiles.GetProfile(c.Request.Context(), c.GetString("user_id"))
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Perfil não encontrado"})
		return
	}
	if err != nil {
		log.Printf("❌ Erro ao carregar perfil: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao carregar perfil"})
		return
	}
	c.JSON(http.StatusOK, p)
}

// UpdateProfile altera nome, telefone e endereço. Campos ausentes mantêm
// o valor atual.
func (h *Handler) UpdateProfile(c *gin.Context) {
	var input struct {
		FullName *string                 `json:"full_name"`
		Phone    *string                 `json:"phone"`
		Address  *models.DeliveryAddress `json:"address"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Dados inválidos"})
		return
	}

	ctx := c.Request.Context()
	userID := c.GetString("user_id")

	p, err := h.Profiles.GetProfile(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		p = models.Profile{ID: userID, Email: c.GetString("email"), UserType: c.GetString("user_type")}
	} else if err != nil {
		log.Printf("❌ Erro ao carregar perfil: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao carregar perfil"})
		return
	}

	if input.FullName != nil {
		name := strings.TrimSpace(*input.FullName)
		if name == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Nome não pode ficar vazio"})
			return
		}
		p.FullName = name
	}
	if input.Phone != nil {
		p.Phone = strings.TrimSpace(*input.Phone)
	}
	if input.Address != nil {
		p.Address = *input.Address
	}

	if err := h.Profiles.UpsertProfile(ctx, p); err != nil {
		log.Printf("❌ Erro ao salvar perfil: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao salvar perfil"})
		return
	}
	c.JSON(http.StatusOK, p)
}

// UploadAvatar grava a foto em avatars/<userID> (sobrescreve a anterior).
func (h *Handler) UploadAvatar(c *gin.Context) {
	if h.Images == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Upload de imagens indisponível"})
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Arquivo 'file' obrigatório"})
		return
	}

	userID := c.GetString("user_id")
	url, err := h.Images.Upload(c.Request.Context(), "avatars/"+userID, file)
	if errors.Is(err, services.ErrInvalidImage) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Envie uma imagem JPG, PNG ou WEBP de até 5 MB"})
		return
	}
	if err != nil {
		log.Printf("❌ Erro no upload do avatar: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao enviar imagem"})
		return
	}

	if err := h.Profiles.UpdateAvatar(c.Request.Context(), userID, url); err != nil {
		log.Printf("❌ Erro ao salvar avatar: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao salvar avatar"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"avatar_url": url})
}
