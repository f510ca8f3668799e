package services

import (
	"context"

	"feira_back_end/internal/cache"
	"feira_back_end/internal/models"
)

type productGetter interface {
	Get(ctx context.Context, id string) (models.Product, error)
}

// Catalog resolve produtos por id passando pelo cache Redis.
type Catalog struct {
	repo  productGetter
	cache *cache.ProductCache
}

// NewCatalog aceita cache nil (leitura direta do ScyllaDB).
func NewCatalog(repo productGetter, c *cache.ProductCache) *Catalog {
	return &Catalog{repo: repo, cache: c}
}

func (c *Catalog) Product(ctx context.Context, id string) (models.Product, error) {
	if c.cache == nil {
		return c.repo.Get(ctx, id)
	}
	return c.cache.Get(ctx, id, c.repo.Get)
}

func (c *Catalog) Invalidate(ctx context.Context, id string) {
	if c.cache != nil {
		c.cache.Invalidate(ctx, id)
	}
}
