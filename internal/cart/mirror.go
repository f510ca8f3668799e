package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"feira_back_end/internal/models"

	"github.com/redis/go-redis/v9"
)

// Mensagens publicadas no canal do carrinho
const (
	EventUpdated = "updated"
	EventCleared = "cleared"
)

// Mirror espelha o carrinho de cada sessão no Redis e avisa os clientes
// conectados via Pub/Sub. O TTL acompanha a duração da sessão.
type Mirror struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewMirror(rdb *redis.Client, ttl time.Duration) *Mirror {
	return &Mirror{rdb: rdb, ttl: ttl}
}

func Key(sessionID string) string {
	return "cart:" + sessionID
}

// Save grava o snapshot (ou apaga a chave se vazio) e publica a mudança.
func (m *Mirror) Save(ctx context.Context, sessionID string, items []models.CartItem) error {
	key := Key(sessionID)
	pipe := m.rdb.Pipeline()
	if len(items) == 0 {
		pipe.Del(ctx, key)
		pipe.Publish(ctx, key, EventCleared)
	} else {
		data, err := json.Marshal(items)
		if err != nil {
			return fmt.Errorf("encode carrinho: %w", err)
		}
		pipe.Set(ctx, key, data, m.ttl)
		pipe.Publish(ctx, key, EventUpdated)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("salvar carrinho %s: %w", sessionID, err)
	}
	return nil
}

// Load devolve o snapshot salvo; carrinho vazio se a chave não existe.
func (m *Mirror) Load(ctx context.Context, sessionID string) ([]models.CartItem, error) {
	data, err := m.rdb.Get(ctx, Key(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return []models.CartItem{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("ler carrinho %s: %w", sessionID, err)
	}

	var items []models.CartItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("decode carrinho %s: %w", sessionID, err)
	}
	return items, nil
}

// Delete remove o snapshot e avisa os clientes (logout).
func (m *Mirror) Delete(ctx context.Context, sessionID string) error {
	key := Key(sessionID)
	pipe := m.rdb.Pipeline()
	pipe.Del(ctx, key)
	pipe.Publish(ctx, key, EventCleared)
	_, err := pipe.Exec(ctx)
	return err
}

// Subscribe abre a assinatura do canal do carrinho da sessão.
func (m *Mirror) Subscribe(ctx context.Context, sessionID string) *redis.PubSub {
	return m.rdb.Subscribe(ctx, Key(sessionID))
}

// Observer devolve o observer que o Registry pendura em cada Store.
// Falhas do Redis são só logadas: o carrinho em memória continua valendo.
func (m *Mirror) Observer(sessionID string) Observer {
	return func(items []models.CartItem) {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := m.Save(ctx, sessionID, items); err != nil {
			log.Printf("⚠️ Espelho do carrinho falhou: %v", err)
		}
	}
}
