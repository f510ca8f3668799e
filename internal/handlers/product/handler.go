package product

import (
	"context"
	"mime/multipart"

	"feira_back_end/internal/models"
)

type ProductStore interface {
	List(ctx context.Context) ([]models.Product, error)
	ListByFarmer(ctx context.Context, farmerID string) ([]models.Product, error)
	Create(ctx context.Context, p models.Product) error
	Update(ctx context.Context, p models.Product) error
	Delete(ctx context.Context, p models.Product) error
}

// Catalog lê produtos por id (com cache).
type Catalog interface {
	Product(ctx context.Context, id string) (models.Product, error)
	Invalidate(ctx context.Context, id string)
}

type Indexer interface {
	IndexProduct(ctx context.Context, p models.Product) error
	DeleteProduct(ctx context.Context, id string) error
	SearchProducts(ctx context.Context, query string) ([]models.Product, error)
}

type NameResolver interface {
	FullNames(ctx context.Context, userIDs []string) (map[string]string, error)
}

type ImageUploader interface {
	Upload(ctx context.Context, objectName string, file *multipart.FileHeader) (string, error)
}

// Handler atende o catálogo público e a gestão de produtos do agricultor.
// Search e Images podem ser nil quando Elasticsearch/MinIO não estão configurados.
type Handler struct {
	Products ProductStore
	Catalog  Catalog
	Names    NameResolver
	Search   Indexer
	Images   ImageUploader
}
