package repository

import (
	"context"
	"errors"
	"fmt"

	"feira_back_end/internal/models"

	"github.com/gocql/gocql"
)

const orderColumns = `order_id, consumer_id, farmer_id, total_price, delivery_address,
	payment_method, status, created_at`

type OrderRepository struct {
	session *gocql.Session
}

func NewOrderRepository(session *gocql.Session) *OrderRepository {
	return &OrderRepository{session: session}
}

// Create grava o pedido, os índices por consumidor/agricultor e os itens
// num único batch logado.
func (r *OrderRepository) Create(ctx context.Context, o models.Order) error {
	b := r.session.NewBatch(gocql.LoggedBatch).WithContext(ctx)
	b.Query(`INSERT INTO orders (`+orderColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		o.ID, o.ConsumerID, o.FarmerID, o.TotalPrice, addressToMap(o.DeliveryAddress),
		string(o.PaymentMethod), string(o.Status), o.CreatedAt)
	b.Query(`INSERT INTO orders_by_consumer (consumer_id, created_at, order_id) VALUES (?, ?, ?)`,
		o.ConsumerID, o.CreatedAt, o.ID)
	b.Query(`INSERT INTO orders_by_farmer (farmer_id, status, created_at, order_id) VALUES (?, ?, ?, ?)`,
		o.FarmerID, string(o.Status), o.CreatedAt, o.ID)
	for _, it := range o.Items {
		b.Query(`INSERT INTO order_items (order_id, product_id, product_name, quantity, price_at_purchase)
			VALUES (?, ?, ?, ?, ?)`, o.ID, it.ProductID, it.ProductName, it.Quantity, it.PriceAtPurchase)
	}

	if err := r.session.ExecuteBatch(b); err != nil {
		return fmt.Errorf("criar pedido %s: %w", o.ID, err)
	}
	return nil
}

// Get devolve o pedido com os itens.
func (r *OrderRepository) Get(ctx context.Context, id string) (models.Order, error) {
	if err := checkID(id); err != nil {
		return models.Order{}, err
	}
	var (
		o       models.Order
		address map[string]string
		method  string
		status  string
	)
	err := r.session.Query(`SELECT `+orderColumns+` FROM orders WHERE order_id = ?`, id).
		WithContext(ctx).
		Scan(&o.ID, &o.ConsumerID, &o.FarmerID, &o.TotalPrice, &address, &method, &status, &o.CreatedAt)
	if err != nil {
		return models.Order{}, notFound(err)
	}
	o.DeliveryAddress = addressFromMap(address)
	o.PaymentMethod = models.PaymentMethod(method)
	o.Status = models.OrderStatus(status)

	items, err := r.items(ctx, id)
	if err != nil {
		return models.Order{}, err
	}
	o.Items = items
	return o, nil
}

func (r *OrderRepository) items(ctx context.Context, orderID string) ([]models.OrderItem, error) {
	iter := r.session.Query(
		`SELECT product_id, product_name, quantity, price_at_purchase FROM order_items WHERE order_id = ?`, orderID,
	).WithContext(ctx).Iter()

	items := []models.OrderItem{}
	it := models.OrderItem{OrderID: orderID}
	for iter.Scan(&it.ProductID, &it.ProductName, &it.Quantity, &it.PriceAtPurchase) {
		items = append(items, it)
	}
	if err := iter.Close(); err != nil {
		return nil, fmt.Errorf("itens do pedido %s: %w", orderID, err)
	}
	return items, nil
}

// ListByConsumer devolve os pedidos do consumidor, mais recentes primeiro.
func (r *OrderRepository) ListByConsumer(ctx context.Context, consumerID string) ([]models.Order, error) {
	iter := r.session.Query(
		`SELECT order_id FROM orders_by_consumer WHERE consumer_id = ?`, consumerID,
	).WithContext(ctx).Iter()
	return r.collect(ctx, iter)
}

// ListByFarmer devolve os pedidos recebidos pelo agricultor num status.
func (r *OrderRepository) ListByFarmer(ctx context.Context, farmerID string, status models.OrderStatus) ([]models.Order, error) {
	iter := r.session.Query(
		`SELECT order_id FROM orders_by_farmer WHERE farmer_id = ? AND status = ?`, farmerID, string(status),
	).WithContext(ctx).Iter()
	return r.collect(ctx, iter)
}

func (r *OrderRepository) collect(ctx context.Context, iter *gocql.Iter) ([]models.Order, error) {
	var ids []string
	var id string
	for iter.Scan(&id) {
		ids = append(ids, id)
	}
	if err := iter.Close(); err != nil {
		return nil, fmt.Errorf("listar pedidos: %w", err)
	}

	orders := make([]models.Order, 0, len(ids))
	for _, id := range ids {
		o, err := r.Get(ctx, id)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, nil
}

// UpdateStatus troca o status só se ele ainda for o esperado (LWT) e
// move a linha do índice por agricultor para a nova partição.
func (r *OrderRepository) UpdateStatus(ctx context.Context, o models.Order, from, to models.OrderStatus) error {
	applied, err := r.session.Query(
		`UPDATE orders SET status = ? WHERE order_id = ? IF status = ?`, string(to), o.ID, string(from),
	).WithContext(ctx).MapScanCAS(map[string]interface{}{})
	if err != nil {
		return fmt.Errorf("atualizar status do pedido %s: %w", o.ID, err)
	}
	if !applied {
		return ErrStatusChanged
	}

	b := r.session.NewBatch(gocql.LoggedBatch).WithContext(ctx)
	b.Query(`DELETE FROM orders_by_farmer WHERE farmer_id = ? AND status = ? AND created_at = ? AND order_id = ?`,
		o.FarmerID, string(from), o.CreatedAt, o.ID)
	b.Query(`INSERT INTO orders_by_farmer (farmer_id, status, created_at, order_id) VALUES (?, ?, ?, ?)`,
		o.FarmerID, string(to), o.CreatedAt, o.ID)
	if err := r.session.ExecuteBatch(b); err != nil {
		return fmt.Errorf("reindexar pedido %s: %w", o.ID, err)
	}
	return nil
}
