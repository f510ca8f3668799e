package cache

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"feira_back_end/internal/models"

	"github.com/redis/go-redis/v9"
)

const ProductCacheTTL = 10 * time.Minute

// ProductLoader busca o produto na fonte (ScyllaDB) em caso de miss.
type ProductLoader func(ctx context.Context, id string) (models.Product, error)

type ProductCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewProductCache(rdb *redis.Client) *ProductCache {
	return &ProductCache{rdb: rdb, ttl: ProductCacheTTL}
}

func productKey(id string) string {
	return "product:" + id
}

// Get tenta o Redis e cai no loader. Erros de Redis nunca derrubam a leitura.
func (c *ProductCache) Get(ctx context.Context, id string, load ProductLoader) (models.Product, error) {
	// 1. Tentar o cache Redis
	data, err := c.rdb.Get(ctx, productKey(id)).Bytes()
	if err == nil {
		var p models.Product
		if json.Unmarshal(data, &p) == nil {
			return p, nil
		}
	}

	// 2. Buscar na fonte
	p, err := load(ctx, id)
	if err != nil {
		return models.Product{}, err
	}

	// 3. Guardar no cache
	if data, err := json.Marshal(p); err == nil {
		if err := c.rdb.Set(ctx, productKey(id), data, c.ttl).Err(); err != nil {
			log.Printf("⚠️ Cache do produto %s não gravado: %v", id, err)
		}
	}
	return p, nil
}

// Invalidate remove o produto do cache (após edição ou remoção).
func (c *ProductCache) Invalidate(ctx context.Context, id string) {
	if err := c.rdb.Del(ctx, productKey(id)).Err(); err != nil {
		log.Printf("⚠️ Erro ao invalidar cache do produto %s: %v", id, err)
	}
}
