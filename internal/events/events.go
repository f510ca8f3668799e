package events

import (
	"context"
	"time"

	"feira_back_end/internal/models"
)

const (
	OrderCreatedQueue       = "order.created"
	OrderStatusChangedQueue = "order.status_changed"
)

type OrderItem struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

type OrderCreated struct {
	EventType     string      `json:"event_type"`
	OrderID       string      `json:"order_id"`
	ConsumerID    string      `json:"consumer_id"`
	FarmerID      string      `json:"farmer_id"`
	TotalPrice    float64     `json:"total_price"`
	PaymentMethod string      `json:"payment_method"`
	Items         []OrderItem `json:"items"`
	Timestamp     time.Time   `json:"timestamp"`
}

type OrderStatusChanged struct {
	EventType  string    `json:"event_type"`
	OrderID    string    `json:"order_id"`
	ConsumerID string    `json:"consumer_id"`
	FarmerID   string    `json:"farmer_id"`
	Status     string    `json:"status"`
	Timestamp  time.Time `json:"timestamp"`
}

// OrderPublisher é o que os handlers usam para avisar outros serviços.
type OrderPublisher interface {
	PublishOrderCreated(ctx context.Context, o models.Order) error
	PublishOrderStatusChanged(ctx context.Context, o models.Order) error
}

// Nop descarta os eventos (RABBITMQ_URL vazio).
type Nop struct{}

func (Nop) PublishOrderCreated(context.Context, models.Order) error       { return nil }
func (Nop) PublishOrderStatusChanged(context.Context, models.Order) error { return nil }
