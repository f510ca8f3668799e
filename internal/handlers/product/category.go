package product

import (
	"net/http"

	"feira_back_end/internal/models"

	"github.com/gin-gonic/gin"
)

// GetCategories lista as categorias aceitas no cadastro.
func (h *Handler) GetCategories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"categories": models.Categories, "units": []string{models.UnitPiece, models.UnitKilogram}})
}
