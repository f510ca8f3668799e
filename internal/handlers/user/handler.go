package user

import (
	"context"
	"mime/multipart"
	"time"

	"feira_back_end/internal/cart"
	"feira_back_end/internal/events"
	"feira_back_end/internal/models"

	"github.com/redis/go-redis/v9"
)

type Profiles interface {
	CreateUser(ctx context.Context, u models.User, p models.Profile) error
	FindCredentials(ctx context.Context, email string) (models.User, error)
	GetProfile(ctx context.Context, userID string) (models.Profile, error)
	UpsertProfile(ctx context.Context, p models.Profile) error
	UpdateAvatar(ctx context.Context, userID, avatarURL string) error
}

type ProductLookup interface {
	Product(ctx context.Context, id string) (models.Product, error)
}

type Orders interface {
	Create(ctx context.Context, o models.Order) error
	Get(ctx context.Context, id string) (models.Order, error)
	ListByConsumer(ctx context.Context, consumerID string) ([]models.Order, error)
}

// CartFeed é o lado Redis do carrinho que o WebSocket escuta.
type CartFeed interface {
	Subscribe(ctx context.Context, sessionID string) *redis.PubSub
	Load(ctx context.Context, sessionID string) ([]models.CartItem, error)
}

type TokenRevoker interface {
	BlacklistToken(ctx context.Context, tokenID string, ttl time.Duration) error
}

type OrderNotifier interface {
	NotifyNewOrder(ctx context.Context, to string, o models.Order) error
}

type ImageUploader interface {
	Upload(ctx context.Context, objectName string, file *multipart.FileHeader) (string, error)
}

type PixConfig struct {
	Key      string
	Merchant string
	City     string
}

// ReceiptRenderer gera o PDF do comprovante (utils.ReceiptPDF em produção).
type ReceiptRenderer func(ctx context.Context, o models.Order, pixPNG []byte) ([]byte, error)

// Handler atende as rotas do consumidor: conta, perfil, carrinho, checkout
// e pedidos. Feed, Tokens, Images e Mailer podem ficar nil.
type Handler struct {
	JWTSecret  string
	SessionTTL time.Duration

	Profiles Profiles
	Catalog  ProductLookup
	Orders   Orders
	Carts    *cart.Registry
	Feed     CartFeed
	Tokens   TokenRevoker
	Events   events.OrderPublisher
	Mailer   OrderNotifier
	Images   ImageUploader
	Receipts ReceiptRenderer
	Pix      PixConfig
}
