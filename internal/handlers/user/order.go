package user

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"feira_back_end/internal/models"
	"feira_back_end/internal/repository"
	"feira_back_end/internal/utils"

	"github.com/gin-gonic/gin"
)

func (h *Handler) GetMyOrders(c *gin.Context) {
	orders, err := h.Orders.ListByConsumer(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		log.Printf("❌ Erro ao listar pedidos: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao carregar pedidos"})
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *Handler) GetOrder(c *gin.Context) {
	if o, ok := h.ownOrder(c); ok {
		c.JSON(http.StatusOK, o)
	}
}

// GetOrderPix devolve o QR Code PIX (PNG) do pedido. O "copia e cola" vai
// no header X-Pix-Payload.
func (h *Handler) GetOrderPix(c *gin.Context) {
	o, ok := h.ownOrder(c)
	if !ok {
		return
	}
	if o.PaymentMethod != models.PaymentPix {
		c.JSON(http.StatusConflict, gin.H{"error": "Pedido não é pago com PIX"})
		return
	}
	if h.Pix.Key == "" {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "PIX não configurado"})
		return
	}

	payload := h.pixPayload(o)
	png, err := payload.QRCode(256)
	if err != nil {
		log.Printf("❌ Erro ao gerar QR PIX: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao gerar QR Code"})
		return
	}

	c.Header("X-Pix-Payload", payload.String())
	c.Data(http.StatusOK, "image/png", png)
}

// GetOrderReceipt devolve o comprovante do pedido em PDF.
func (h *Handler) GetOrderReceipt(c *gin.Context) {
	o, ok := h.ownOrder(c)
	if !ok {
		return
	}
	if h.Receipts == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Comprovante indisponível"})
		return
	}

	var qr []byte
	if o.PaymentMethod == models.PaymentPix && h.Pix.Key != "" {
		qr, _ = h.pixPayload(o).QRCode(256)
	}

	pdf, err := h.Receipts(c.Request.Context(), o, qr)
	if err != nil {
		log.Printf("❌ Erro ao gerar comprovante %s: %v", o.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao gerar comprovante"})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="pedido-%s.pdf"`, o.ID))
	c.Data(http.StatusOK, "application/pdf", pdf)
}

func (h *Handler) pixPayload(o models.Order) utils.PixPayload {
	return utils.PixPayload{
		Key:          h.Pix.Key,
		MerchantName: h.Pix.Merchant,
		MerchantCity: h.Pix.City,
		Amount:       o.TotalPrice,
		TxID:         o.ID,
	}
}

// ownOrder carrega o pedido da rota; pedidos de outro consumidor dão 404.
func (h *Handler) ownOrder(c *gin.Context) (models.Order, bool) {
	o, err := h.Orders.Get(c.Request.Context(), c.Param("id"))
	if errors.Is(err, repository.ErrNotFound) || (err == nil && o.ConsumerID != c.GetString("user_id")) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Pedido não encontrado"})
		return models.Order{}, false
	}
	if err != nil {
		log.Printf("❌ Erro ao carregar pedido %s: %v", c.Param("id"), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao carregar pedido"})
		return models.Order{}, false
	}
	return o, true
}
