package product

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"feira_back_end/internal/models"
	"feira_back_end/internal/repository"

	"github.com/gin-gonic/gin"
)

// GetAllProducts lista o catálogo, mais novos primeiro, com o primeiro
// nome do agricultor.
func (h *Handler) GetAllProducts(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	products, err := h.Products.List(ctx)
	if err != nil {
		log.Printf("❌ Erro ao listar produtos: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao carregar produtos"})
		return
	}

	h.withFarmerNames(ctx, products)
	c.JSON(http.StatusOK, products)
}

func (h *Handler) GetProductByID(c *gin.Context) {
	p, err := h.Catalog.Product(c.Request.Context(), c.Param("id"))
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Produto não encontrado"})
		return
	}
	if err != nil {
		log.Printf("❌ Erro ao carregar produto %s: %v", c.Param("id"), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao carregar produto"})
		return
	}

	one := []models.Product{p}
	h.withFarmerNames(c.Request.Context(), one)
	c.JSON(http.StatusOK, one[0])
}

// SearchProducts usa o Elasticsearch e, se ele falhar, filtra a listagem
// do ScyllaDB em memória.
func (h *Handler) SearchProducts(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Parâmetro 'q' obrigatório"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	if h.Search != nil {
		results, err := h.Search.SearchProducts(ctx, query)
		if err == nil {
			c.JSON(http.StatusOK, results)
			return
		}
		log.Printf("⚠️ Busca no Elasticsearch falhou, usando ScyllaDB: %v", err)
	}

	all, err := h.Products.List(ctx)
	if err != nil {
		log.Printf("❌ Erro ao listar produtos: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro na busca"})
		return
	}
	h.withFarmerNames(ctx, all)
	c.JSON(http.StatusOK, filterProducts(all, query))
}

func filterProducts(products []models.Product, query string) []models.Product {
	q := strings.ToLower(query)
	out := []models.Product{}
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Name), q) ||
			strings.Contains(strings.ToLower(p.Description), q) ||
			strings.Contains(strings.ToLower(p.Category), q) ||
			strings.Contains(strings.ToLower(p.FarmerName), q) {
			out = append(out, p)
		}
	}
	return out
}

func (h *Handler) withFarmerNames(ctx context.Context, products []models.Product) {
	if h.Names == nil || len(products) == 0 {
		return
	}
	ids := make([]string, 0, len(products))
	for _, p := range products {
		ids = append(ids, p.FarmerID)
	}

	names, err := h.Names.FullNames(ctx, ids)
	if err != nil {
		log.Printf("⚠️ Nomes dos agricultores indisponíveis: %v", err)
		return
	}
	for i := range products {
		products[i].FarmerName = firstName(names[products[i].FarmerID])
	}
}

func firstName(full string) string {
	if fields := strings.Fields(full); len(fields) > 0 {
		return fields[0]
	}
	return ""
}
