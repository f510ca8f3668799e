package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"feira_back_end/internal/models"

	amqp "github.com/rabbitmq/amqp091-go"
)

type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

type Publisher struct {
	mu   sync.Mutex
	conn *amqp.Connection
	ch   channel
	now  func() time.Time
}

// Dial abre a conexão e declara as filas de pedido.
func Dial(url string) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	// Declara as filas para o publish nunca falhar por infra ausente
	for _, q := range []string{OrderCreatedQueue, OrderStatusChangedQueue} {
		if _, err := ch.QueueDeclare(q, true, false, false, false, nil); err != nil {
			conn.Close()
			return nil, fmt.Errorf("declare %s: %w", q, err)
		}
	}

	return &Publisher{conn: conn, ch: ch, now: time.Now}, nil
}

func (p *Publisher) Close() error {
	if err := p.ch.Close(); err != nil {
		return err
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

func (p *Publisher) PublishOrderCreated(ctx context.Context, o models.Order) error {
	ev := OrderCreated{
		EventType:     "OrderCreated",
		OrderID:       o.ID,
		ConsumerID:    o.ConsumerID,
		FarmerID:      o.FarmerID,
		TotalPrice:    o.TotalPrice,
		PaymentMethod: string(o.PaymentMethod),
		Timestamp:     p.now().UTC(),
	}
	for _, it := range o.Items {
		ev.Items = append(ev.Items, OrderItem{
			ProductID: it.ProductID,
			Name:      it.ProductName,
			Quantity:  it.Quantity,
			Price:     it.PriceAtPurchase,
		})
	}

	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal OrderCreated: %w", err)
	}
	return p.publishJSON(ctx, OrderCreatedQueue, body)
}

func (p *Publisher) PublishOrderStatusChanged(ctx context.Context, o models.Order) error {
	ev := OrderStatusChanged{
		EventType:  "OrderStatusChanged",
		OrderID:    o.ID,
		ConsumerID: o.ConsumerID,
		FarmerID:   o.FarmerID,
		Status:     string(o.Status),
		Timestamp:  p.now().UTC(),
	}

	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal OrderStatusChanged: %w", err)
	}
	return p.publishJSON(ctx, OrderStatusChangedQueue, body)
}

func (p *Publisher) publishJSON(ctx context.Context, queue string, body []byte) error {
	pubCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	// um amqp.Channel não aceita publish concorrente
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.ch.PublishWithContext(
		pubCtx,
		"",    // exchange padrão
		queue, // nome da fila como routing key
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		},
	)
}
