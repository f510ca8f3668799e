package services

import (
	"time"

	"feira_back_end/internal/cart"
	"feira_back_end/internal/models"

	"github.com/google/uuid"
)

// BuildOrders separa o carrinho em um pedido pendente por agricultor, na
// ordem em que cada agricultor aparece no carrinho. Linhas sem agricultor
// não geram pedido e são devolvidas em skipped.
func BuildOrders(consumerID string, items []models.CartItem, method models.PaymentMethod,
	address models.DeliveryAddress, now time.Time) (orders []models.Order, skipped []models.CartItem) {

	groups := make(map[string][]models.CartItem)
	var farmers []string
	for _, it := range items {
		if it.FarmerID == "" {
			skipped = append(skipped, it)
			continue
		}
		if _, seen := groups[it.FarmerID]; !seen {
			farmers = append(farmers, it.FarmerID)
		}
		groups[it.FarmerID] = append(groups[it.FarmerID], it)
	}

	for _, farmerID := range farmers {
		lines := groups[farmerID]
		o := models.Order{
			ID:              uuid.NewString(),
			ConsumerID:      consumerID,
			FarmerID:        farmerID,
			TotalPrice:      cart.Total(lines),
			DeliveryAddress: address,
			PaymentMethod:   method,
			Status:          models.OrderStatusPending,
			CreatedAt:       now,
			Items:           make([]models.OrderItem, 0, len(lines)),
		}
		for _, l := range lines {
			o.Items = append(o.Items, models.OrderItem{
				OrderID:         o.ID,
				ProductID:       l.ProductID,
				ProductName:     l.Name,
				Quantity:        l.Quantity,
				PriceAtPurchase: l.Price,
			})
		}
		orders = append(orders, o)
	}
	return orders, skipped
}

// OrdersTotal soma os totais dos pedidos gerados.
func OrdersTotal(orders []models.Order) float64 {
	var total float64
	for _, o := range orders {
		total += o.TotalPrice
	}
	return total
}
