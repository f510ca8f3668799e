package product

import (
	"errors"
	"log"
	"net/http"

	"feira_back_end/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// UploadProductImage grava a foto em product_images/<farmerID>/<uuid> e
// devolve a URL para o app usar no cadastro do produto.
func (h *Handler) UploadProductImage(c *gin.Context) {
	if h.Images == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Upload de imagens indisponível"})
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Arquivo 'file' obrigatório"})
		return
	}

	objectName := "product_images/" + c.GetString("user_id") + "/" + uuid.NewString()
	url, err := h.Images.Upload(c.Request.Context(), objectName, file)
	if errors.Is(err, services.ErrInvalidImage) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Envie uma imagem JPG, PNG ou WEBP de até 5 MB"})
		return
	}
	if err != nil {
		log.Printf("❌ Erro no upload da imagem: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao enviar imagem"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"image_url": url})
}
