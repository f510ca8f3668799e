package farmer

import (
	"context"

	"feira_back_end/internal/events"
	"feira_back_end/internal/models"
)

type Orders interface {
	Get(ctx context.Context, id string) (models.Order, error)
	ListByFarmer(ctx context.Context, farmerID string, status models.OrderStatus) ([]models.Order, error)
	UpdateStatus(ctx context.Context, o models.Order, from, to models.OrderStatus) error
}

type Profiles interface {
	GetProfile(ctx context.Context, userID string) (models.Profile, error)
	FullNames(ctx context.Context, userIDs []string) (map[string]string, error)
}

type StatusNotifier interface {
	NotifyStatusChanged(ctx context.Context, to string, o models.Order) error
}

// Handler atende os pedidos recebidos pelo agricultor. Mailer pode ser nil.
type Handler struct {
	Orders   Orders
	Profiles Profiles
	Events   events.OrderPublisher
	Mailer   StatusNotifier
}
