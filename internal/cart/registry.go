package cart

import (
	"context"
	"log"
	"sync"
	"time"

	"feira_back_end/internal/models"
)

// Snapshotter é o que o Registry precisa do espelho (Redis em produção).
type Snapshotter interface {
	Load(ctx context.Context, sessionID string) ([]models.CartItem, error)
	Delete(ctx context.Context, sessionID string) error
	Observer(sessionID string) Observer
}

// Registry mantém um Store por sessão do app.
type Registry struct {
	mu     sync.Mutex
	stores map[string]*entry
	mirror Snapshotter
	now    func() time.Time
}

type entry struct {
	store    *Store
	detach   func()
	lastSeen time.Time
}

// NewRegistry aceita mirror nil (carrinho só em memória).
func NewRegistry(mirror Snapshotter) *Registry {
	return &Registry{
		stores: make(map[string]*entry),
		mirror: mirror,
		now:    time.Now,
	}
}

// Get devolve o carrinho da sessão, criando-o vazio (ou a partir do
// espelho, se outra instância já atendeu a sessão) no primeiro acesso.
// A leitura do espelho acontece fora do lock do Registry.
func (r *Registry) Get(ctx context.Context, sessionID string) *Store {
	if s, ok := r.lookup(sessionID); ok {
		return s
	}

	var items []models.CartItem
	if r.mirror != nil {
		loadCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		loaded, err := r.mirror.Load(loadCtx, sessionID)
		cancel()
		if err != nil {
			log.Printf("⚠️ Não foi possível restaurar o carrinho da sessão %s: %v", sessionID, err)
		} else {
			items = loaded
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// outra requisição da mesma sessão pode ter criado o Store enquanto
	// o espelho era lido
	if e, ok := r.stores[sessionID]; ok {
		e.lastSeen = r.now()
		return e.store
	}

	s := NewStore()
	if len(items) > 0 {
		s = NewStoreWithItems(items)
	}
	e := &entry{store: s, lastSeen: r.now()}
	if r.mirror != nil {
		e.detach = s.Subscribe(r.mirror.Observer(sessionID))
	}
	r.stores[sessionID] = e
	return s
}

func (r *Registry) lookup(sessionID string) (*Store, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.stores[sessionID]
	if !ok {
		return nil, false
	}
	e.lastSeen = r.now()
	return e.store, true
}

// Drop descarta o carrinho da sessão (logout). O espelho é desligado
// antes do DEL, então nenhuma entrega atrasada recria a chave.
func (r *Registry) Drop(ctx context.Context, sessionID string) {
	r.mu.Lock()
	e, ok := r.stores[sessionID]
	delete(r.stores, sessionID)
	r.mu.Unlock()

	if ok && e.detach != nil {
		e.detach()
	}
	if r.mirror != nil {
		if err := r.mirror.Delete(ctx, sessionID); err != nil {
			log.Printf("⚠️ Erro ao apagar carrinho da sessão %s: %v", sessionID, err)
		}
	}
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.stores)
}

// Sweep libera da memória os carrinhos sem acesso há mais de maxIdle.
// O snapshot no Redis continua lá até o TTL da sessão.
func (r *Registry) Sweep(maxIdle time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	limit := r.now().Add(-maxIdle)
	removed := 0
	for sid, e := range r.stores {
		if e.lastSeen.Before(limit) {
			delete(r.stores, sid)
			removed++
		}
	}
	return removed
}

// RunJanitor chama Sweep periodicamente até ctx ser cancelado.
func (r *Registry) RunJanitor(ctx context.Context, interval, maxIdle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.Sweep(maxIdle); n > 0 {
				log.Printf("🧹 %d carrinho(s) inativo(s) liberado(s) da memória", n)
			}
		}
	}
}
