package repository

import (
	"context"
	"fmt"
	"sort"
	"time"

	"feira_back_end/internal/models"

	"github.com/gocql/gocql"
)

const productColumns = `product_id, farmer_id, name, description, price, unit, category,
	image_url, is_fragile, harvest_date, expiration_date, created_at, updated_at`

type ProductRepository struct {
	session *gocql.Session
}

func NewProductRepository(session *gocql.Session) *ProductRepository {
	return &ProductRepository{session: session}
}

func scanProduct(scan func(dest ...interface{}) error) (models.Product, error) {
	var p models.Product
	err := scan(&p.ID, &p.FarmerID, &p.Name, &p.Description, &p.Price, &p.Unit, &p.Category,
		&p.ImageURL, &p.IsFragile, &p.HarvestDate, &p.ExpirationDate, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (r *ProductRepository) Get(ctx context.Context, id string) (models.Product, error) {
	if err := checkID(id); err != nil {
		return models.Product{}, err
	}
	q := r.session.Query(`SELECT `+productColumns+` FROM products WHERE product_id = ?`, id).WithContext(ctx)
	p, err := scanProduct(q.Scan)
	if err != nil {
		return models.Product{}, notFound(err)
	}
	return p, nil
}

// List devolve o catálogo inteiro, do mais novo para o mais antigo.
func (r *ProductRepository) List(ctx context.Context) ([]models.Product, error) {
	iter := r.session.Query(`SELECT ` + productColumns + ` FROM products`).WithContext(ctx).Iter()
	scanner := iter.Scanner()

	products := []models.Product{}
	for scanner.Next() {
		p, err := scanProduct(scanner.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan produto: %w", err)
		}
		products = append(products, p)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("listar produtos: %w", err)
	}

	sort.SliceStable(products, func(i, j int) bool {
		return products[i].CreatedAt.After(products[j].CreatedAt)
	})
	return products, nil
}

func (r *ProductRepository) ListByFarmer(ctx context.Context, farmerID string) ([]models.Product, error) {
	iter := r.session.Query(
		`SELECT product_id FROM products_by_farmer WHERE farmer_id = ?`, farmerID,
	).WithContext(ctx).Iter()

	var ids []string
	var id string
	for iter.Scan(&id) {
		ids = append(ids, id)
	}
	if err := iter.Close(); err != nil {
		return nil, fmt.Errorf("listar produtos do agricultor %s: %w", farmerID, err)
	}

	products := make([]models.Product, 0, len(ids))
	for _, id := range ids {
		p, err := r.Get(ctx, id)
		if err == ErrNotFound {
			continue
		}
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, nil
}

func (r *ProductRepository) Create(ctx context.Context, p models.Product) error {
	b := r.session.NewBatch(gocql.LoggedBatch).WithContext(ctx)
	b.Query(`INSERT INTO products (`+productColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.FarmerID, p.Name, p.Description, p.Price, p.Unit, p.Category,
		p.ImageURL, p.IsFragile, p.HarvestDate, p.ExpirationDate, p.CreatedAt, p.UpdatedAt)
	b.Query(`INSERT INTO products_by_farmer (farmer_id, created_at, product_id) VALUES (?, ?, ?)`,
		p.FarmerID, p.CreatedAt, p.ID)

	if err := r.session.ExecuteBatch(b); err != nil {
		return fmt.Errorf("criar produto: %w", err)
	}
	return nil
}

// Update regrava os campos editáveis. Dono e data de criação não mudam.
func (r *ProductRepository) Update(ctx context.Context, p models.Product) error {
	p.UpdatedAt = time.Now().UTC()
	err := r.session.Query(
		`UPDATE products SET name = ?, description = ?, price = ?, unit = ?, category = ?,
		 image_url = ?, is_fragile = ?, harvest_date = ?, expiration_date = ?, updated_at = ?
		 WHERE product_id = ?`,
		p.Name, p.Description, p.Price, p.Unit, p.Category,
		p.ImageURL, p.IsFragile, p.HarvestDate, p.ExpirationDate, p.UpdatedAt, p.ID,
	).WithContext(ctx).Exec()
	if err != nil {
		return fmt.Errorf("atualizar produto %s: %w", p.ID, err)
	}
	return nil
}

func (r *ProductRepository) Delete(ctx context.Context, p models.Product) error {
	b := r.session.NewBatch(gocql.LoggedBatch).WithContext(ctx)
	b.Query(`DELETE FROM products WHERE product_id = ?`, p.ID)
	b.Query(`DELETE FROM products_by_farmer WHERE farmer_id = ? AND created_at = ? AND product_id = ?`,
		p.FarmerID, p.CreatedAt, p.ID)

	if err := r.session.ExecuteBatch(b); err != nil {
		return fmt.Errorf("remover produto %s: %w", p.ID, err)
	}
	return nil
}
