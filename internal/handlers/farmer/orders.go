package farmer

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"feira_back_end/internal/models"
	"feira_back_end/internal/repository"

	"github.com/gin-gonic/gin"
)

// GetFarmerOrders lista os pedidos do agricultor num status (pending por
// padrão) com o nome do consumidor.
func (h *Handler) GetFarmerOrders(c *gin.Context) {
	status := models.OrderStatus(c.DefaultQuery("status", string(models.OrderStatusPending)))
	if !status.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Status inválido"})
		return
	}

	ctx := c.Request.Context()
	orders, err := h.Orders.ListByFarmer(ctx, c.GetString("user_id"), status)
	if err != nil {
		log.Printf("❌ Erro ao listar pedidos do agricultor: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao carregar pedidos"})
		return
	}

	ids := make([]string, 0, len(orders))
	for _, o := range orders {
		ids = append(ids, o.ConsumerID)
	}
	names, err := h.Profiles.FullNames(ctx, ids)
	if err != nil {
		// a lista sai sem nomes
		log.Printf("⚠️ Nomes dos consumidores indisponíveis: %v", err)
	}
	for i := range orders {
		orders[i].ConsumerName = names[orders[i].ConsumerID]
	}

	c.JSON(http.StatusOK, orders)
}

// UpdateOrderStatus aceita ou recusa um pedido pendente.
func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	var input struct {
		Status models.OrderStatus `json:"status"`
	}
	if err := c.ShouldBindJSON(&input); err != nil ||
		(input.Status != models.OrderStatusAccepted && input.Status != models.OrderStatusRejected) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Status deve ser accepted ou rejected"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	o, err := h.Orders.Get(ctx, c.Param("id"))
	if errors.Is(err, repository.ErrNotFound) || (err == nil && o.FarmerID != c.GetString("user_id")) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Pedido não encontrado"})
		return
	}
	if err != nil {
		log.Printf("❌ Erro ao carregar pedido %s: %v", c.Param("id"), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao atualizar pedido"})
		return
	}
	if o.Status != models.OrderStatusPending {
		c.JSON(http.StatusConflict, gin.H{"error": "Só pedidos pendentes podem ser respondidos"})
		return
	}

	err = h.Orders.UpdateStatus(ctx, o, models.OrderStatusPending, input.Status)
	if errors.Is(err, repository.ErrStatusChanged) {
		c.JSON(http.StatusConflict, gin.H{"error": "Só pedidos pendentes podem ser respondidos"})
		return
	}
	if err != nil {
		log.Printf("❌ Erro ao atualizar pedido %s: %v", o.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao atualizar pedido"})
		return
	}

	o.Status = input.Status
	log.Printf("✅ Pedido %s → %s", o.ID, o.Status)

	if h.Events != nil {
		if err := h.Events.PublishOrderStatusChanged(ctx, o); err != nil {
			log.Printf("⚠️ Evento order.status_changed não publicado (%s): %v", o.ID, err)
		}
	}
	go h.notifyConsumer(o)

	c.JSON(http.StatusOK, o)
}

func (h *Handler) notifyConsumer(o models.Order) {
	if h.Mailer == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	consumer, err := h.Profiles.GetProfile(ctx, o.ConsumerID)
	if err == nil && consumer.Email != "" {
		err = h.Mailer.NotifyStatusChanged(ctx, consumer.Email, o)
	}
	if err != nil {
		log.Printf("⚠️ Consumidor %s não avisado do pedido %s: %v", o.ConsumerID, o.ID, err)
	}
}
