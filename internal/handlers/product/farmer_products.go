package product

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"feira_back_end/internal/models"
	"feira_back_end/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func (h *Handler) GetMyProducts(c *gin.Context) {
	products, err := h.Products.ListByFarmer(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		log.Printf("❌ Erro ao listar produtos do agricultor: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao carregar seus produtos"})
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *Handler) CreateProduct(c *gin.Context) {
	var input productInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Dados inválidos"})
		return
	}

	now := time.Now().UTC()
	p := models.Product{
		ID:        uuid.NewString(),
		FarmerID:  c.GetString("user_id"),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := input.apply(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.Products.Create(c.Request.Context(), p); err != nil {
		log.Printf("❌ Erro ao criar produto: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao cadastrar produto"})
		return
	}

	log.Printf("✅ Produto criado: %s (%s)", p.Name, p.ID)
	h.index(p)
	c.JSON(http.StatusCreated, p)
}

func (h *Handler) UpdateProduct(c *gin.Context) {
	p, ok := h.ownProduct(c)
	if !ok {
		return
	}

	var input productInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Dados inválidos"})
		return
	}
	if err := input.apply(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p.UpdatedAt = time.Now().UTC()

	if err := h.Products.Update(c.Request.Context(), p); err != nil {
		log.Printf("❌ Erro ao atualizar produto %s: %v", p.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao atualizar produto"})
		return
	}

	h.Catalog.Invalidate(c.Request.Context(), p.ID)
	h.index(p)
	c.JSON(http.StatusOK, p)
}

func (h *Handler) DeleteProduct(c *gin.Context) {
	p, ok := h.ownProduct(c)
	if !ok {
		return
	}

	if err := h.Products.Delete(c.Request.Context(), p); err != nil {
		log.Printf("❌ Erro ao remover produto %s: %v", p.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao remover produto"})
		return
	}

	h.Catalog.Invalidate(c.Request.Context(), p.ID)
	if h.Search != nil {
		go func(id string) {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := h.Search.DeleteProduct(ctx, id); err != nil {
				log.Printf("⚠️ Produto %s não removido do índice: %v", id, err)
			}
		}(p.ID)
	}

	log.Printf("🗑️ Produto removido: %s", p.ID)
	c.JSON(http.StatusOK, gin.H{"message": "Produto removido"})
}

// ownProduct carrega o produto da rota. Produto de outro agricultor
// responde 404, como se não existisse.
func (h *Handler) ownProduct(c *gin.Context) (models.Product, bool) {
	p, err := h.Catalog.Product(c.Request.Context(), c.Param("id"))
	if errors.Is(err, repository.ErrNotFound) || (err == nil && p.FarmerID != c.GetString("user_id")) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Produto não encontrado"})
		return models.Product{}, false
	}
	if err != nil {
		log.Printf("❌ Erro ao carregar produto %s: %v", c.Param("id"), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao carregar produto"})
		return models.Product{}, false
	}
	return p, true
}

// index manda o produto para o Elasticsearch em segundo plano.
func (h *Handler) index(p models.Product) {
	if h.Search == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := h.Search.IndexProduct(ctx, p); err != nil {
			log.Printf("⚠️ Produto %s não indexado: %v", p.ID, err)
		}
	}()
}
