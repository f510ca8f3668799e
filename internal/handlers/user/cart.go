package user

import (
	"errors"
	"log"
	"net/http"

	"feira_back_end/internal/cart"
	"feira_back_end/internal/models"
	"feira_back_end/internal/repository"

	"github.com/gin-gonic/gin"
)

func cartResponse(items []models.CartItem) gin.H {
	return gin.H{
		"items": items,
		"total": cart.Total(items),
		"count": len(items),
	}
}

func (h *Handler) sessionCart(c *gin.Context) *cart.Store {
	return h.Carts.Get(c.Request.Context(), c.GetString("sid"))
}

func (h *Handler) GetCart(c *gin.Context) {
	c.JSON(http.StatusOK, cartResponse(h.sessionCart(c).Items()))
}

// AddToCart busca o produto no catálogo e soma uma unidade.
func (h *Handler) AddToCart(c *gin.Context) {
	var input struct {
		ProductID string `json:"product_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "product_id obrigatório"})
		return
	}

	p, err := h.Catalog.Product(c.Request.Context(), input.ProductID)
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Produto não encontrado"})
		return
	}
	if err != nil {
		log.Printf("❌ Erro ao carregar produto %s: %v", input.ProductID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao adicionar ao carrinho"})
		return
	}

	store := h.sessionCart(c)
	store.Add(p)
	c.JSON(http.StatusOK, cartResponse(store.Items()))
}

func (h *Handler) DecreaseQuantity(c *gin.Context) {
	store := h.sessionCart(c)
	store.Decrease(c.Param("productId"))
	c.JSON(http.StatusOK, cartResponse(store.Items()))
}

func (h *Handler) RemoveFromCart(c *gin.Context) {
	store := h.sessionCart(c)
	store.Remove(c.Param("productId"))
	c.JSON(http.StatusOK, cartResponse(store.Items()))
}

func (h *Handler) ClearCart(c *gin.Context) {
	store := h.sessionCart(c)
	store.Clear()
	c.JSON(http.StatusOK, cartResponse(store.Items()))
}
