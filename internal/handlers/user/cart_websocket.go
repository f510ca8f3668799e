package user

import (
	"context"
	"log"
	"net/http"
	"time"

	"feira_back_end/internal/cart"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const wsPingInterval = 30 * time.Second

var upgrader = websocket.Upgrader{
	// o app mobile não manda Origin confiável
	CheckOrigin: func(r *http.Request) bool { return true },
}

// CartWebSocket mantém o app sincronizado com o carrinho da sessão: a cada
// mensagem do canal cart:<sid> envia o snapshot atual.
func (h *Handler) CartWebSocket(c *gin.Context) {
	sid := c.GetString("sid")
	if sid == "" || h.Feed == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Não autenticado"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("❌ Erro no upgrade do WebSocket: %v", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pubsub := h.Feed.Subscribe(ctx, sid)
	defer pubsub.Close()
	if _, err := pubsub.Receive(ctx); err != nil {
		log.Printf("❌ Assinatura do carrinho falhou: %v", err)
		return
	}
	ch := pubsub.Channel()

	// leitura só para detectar o fechamento pelo cliente
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	if err := conn.WriteJSON(gin.H{"type": "connected", "message": "Sincronização do carrinho ativada"}); err != nil {
		return
	}

	ticker := time.NewTicker(wsPingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			if msg.Payload != cart.EventUpdated && msg.Payload != cart.EventCleared {
				continue
			}
			items, err := h.Feed.Load(ctx, sid)
			if err != nil {
				log.Printf("⚠️ Snapshot do carrinho indisponível: %v", err)
				continue
			}
			resp := cartResponse(items)
			resp["type"] = "cart_updated"
			if err := conn.WriteJSON(resp); err != nil {
				log.Printf("❌ Erro ao enviar pelo WebSocket: %v", err)
				return
			}
		case <-ticker.C:
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
