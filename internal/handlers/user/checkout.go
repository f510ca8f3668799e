package user

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"feira_back_end/internal/models"
	"feira_back_end/internal/repository"
	"feira_back_end/internal/services"

	"github.com/gin-gonic/gin"
)

// Checkout transforma o carrinho da sessão em um pedido pendente por
// agricultor. Só depois que todos os pedidos foram gravados as quantidades
// compradas saem do carrinho; o que entrou no meio tempo continua lá.
func (h *Handler) Checkout(c *gin.Context) {
	var input struct {
		PaymentMethod models.PaymentMethod `json:"payment_method"`
	}
	if err := c.ShouldBindJSON(&input); err != nil || !input.PaymentMethod.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Forma de pagamento inválida"})
		return
	}

	store := h.sessionCart(c)
	items := store.Items()
	if len(items) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Seu carrinho está vazio"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
	defer cancel()

	userID := c.GetString("user_id")
	profile, err := h.Profiles.GetProfile(ctx, userID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		log.Printf("❌ Erro ao carregar perfil no checkout: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao finalizar pedido"})
		return
	}
	if profile.Address.IsEmpty() {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Cadastre um endereço de entrega no seu perfil"})
		return
	}

	orders, skipped := services.BuildOrders(userID, items, input.PaymentMethod, profile.Address, time.Now().UTC())
	for _, it := range skipped {
		log.Printf("⚠️ Item %s sem agricultor ignorado no checkout", it.ProductID)
	}
	if len(orders) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Nenhum item válido no carrinho"})
		return
	}

	for _, o := range orders {
		if err := h.Orders.Create(ctx, o); err != nil {
			log.Printf("❌ Erro ao gravar pedido %s: %v", o.ID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao finalizar pedido"})
			return
		}
	}

	store.Subtract(items)
	log.Printf("✅ Checkout de %s: %d pedido(s)", userID, len(orders))

	for i := range orders {
		orders[i].ConsumerName = profile.FullName
		if h.Events != nil {
			if err := h.Events.PublishOrderCreated(ctx, orders[i]); err != nil {
				log.Printf("⚠️ Evento order.created não publicado (%s): %v", orders[i].ID, err)
			}
		}
	}
	go h.notifyFarmers(orders)

	c.JSON(http.StatusCreated, gin.H{
		"orders": orders,
		"total":  services.OrdersTotal(orders),
	})
}

func (h *Handler) notifyFarmers(orders []models.Order) {
	if h.Mailer == nil {
		return
	}
	for _, o := range orders {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		farmer, err := h.Profiles.GetProfile(ctx, o.FarmerID)
		if err == nil && farmer.Email != "" {
			err = h.Mailer.NotifyNewOrder(ctx, farmer.Email, o)
		}
		cancel()
		if err != nil {
			log.Printf("⚠️ Agricultor %s não avisado do pedido %s: %v", o.FarmerID, o.ID, err)
		}
	}
}
