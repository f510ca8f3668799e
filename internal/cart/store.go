package cart

import (
	"sync"

	"feira_back_end/internal/models"
)

// Observer recebe uma cópia das linhas após cada mutação, na ordem das
// mutações. Não deve alterar o Store de dentro da chamada.
type Observer func(items []models.CartItem)

// Store guarda o carrinho de uma sessão: linhas ordenadas por inserção,
// no máximo uma por produto, quantidade sempre >= 1.
type Store struct {
	mu        sync.Mutex
	items     []models.CartItem
	observers []subscription
	nextObs   int

	// notify serializa as entregas aos observers; é travado antes de
	// soltar mu, então os snapshots saem na ordem das mutações.
	notify sync.Mutex
}

type subscription struct {
	id int
	fn Observer
}

func NewStore() *Store {
	return &Store{}
}

// NewStoreWithItems recria um carrinho a partir de um snapshot.
// Linhas com quantidade < 1 ou produto repetido são descartadas.
func NewStoreWithItems(items []models.CartItem) *Store {
	s := NewStore()
	seen := make(map[string]bool, len(items))
	for _, it := range items {
		if it.Quantity < 1 || seen[it.ProductID] {
			continue
		}
		seen[it.ProductID] = true
		s.items = append(s.items, it)
	}
	return s
}

// Add incrementa a linha existente ou adiciona uma nova com quantidade 1.
func (s *Store) Add(p models.Product) {
	s.mu.Lock()
	if i := s.indexOf(p.ID); i >= 0 {
		s.items[i].Quantity++
	} else {
		s.items = append(s.items, models.CartItem{
			ProductID: p.ID,
			FarmerID:  p.FarmerID,
			Name:      p.Name,
			Price:     p.Price,
			Unit:      p.Unit,
			ImageURL:  p.ImageURL,
			Quantity:  1,
		})
	}
	s.commit()
}

// Decrease tira uma unidade; com quantidade 1 a linha sai do carrinho.
func (s *Store) Decrease(productID string) {
	s.mu.Lock()
	i := s.indexOf(productID)
	if i < 0 {
		s.mu.Unlock()
		return
	}
	if s.items[i].Quantity == 1 {
		s.items = append(s.items[:i:i], s.items[i+1:]...)
	} else {
		s.items[i].Quantity--
	}
	s.commit()
}

// Remove apaga a linha qualquer que seja a quantidade.
func (s *Store) Remove(productID string) {
	s.mu.Lock()
	i := s.indexOf(productID)
	if i < 0 {
		s.mu.Unlock()
		return
	}
	s.items = append(s.items[:i:i], s.items[i+1:]...)
	s.commit()
}

// Subtract desconta as quantidades de lines (o que foi para o checkout).
// Linhas que chegam a zero saem; o que entrou depois do snapshot fica.
func (s *Store) Subtract(lines []models.CartItem) {
	s.mu.Lock()
	changed := false
	for _, l := range lines {
		i := s.indexOf(l.ProductID)
		if i < 0 || l.Quantity < 1 {
			continue
		}
		changed = true
		if s.items[i].Quantity <= l.Quantity {
			s.items = append(s.items[:i:i], s.items[i+1:]...)
		} else {
			s.items[i].Quantity -= l.Quantity
		}
	}
	if !changed {
		s.mu.Unlock()
		return
	}
	s.commit()
}

// Clear esvazia o carrinho.
func (s *Store) Clear() {
	s.mu.Lock()
	s.items = nil
	s.commit()
}

func (s *Store) Items() []models.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// TotalPrice é recalculado a cada leitura.
func (s *Store) TotalPrice() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Total(s.items)
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Subscribe registra um observer; a função devolvida cancela a inscrição
// e só retorna depois que uma entrega em andamento terminar.
func (s *Store) Subscribe(fn Observer) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextObs
	s.nextObs++
	s.observers = append(s.observers, subscription{id: id, fn: fn})
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			for i, sub := range s.observers {
				if sub.id == id {
					s.observers = append(s.observers[:i:i], s.observers[i+1:]...)
					break
				}
			}
			s.mu.Unlock()

			s.notify.Lock()
			s.notify.Unlock()
		})
	}
}

// Total soma preço x quantidade das linhas.
func Total(items []models.CartItem) float64 {
	total := 0.0
	for _, it := range items {
		total += it.Subtotal()
	}
	return total
}

func (s *Store) indexOf(productID string) int {
	for i := range s.items {
		if s.items[i].ProductID == productID {
			return i
		}
	}
	return -1
}

func (s *Store) snapshot() []models.CartItem {
	out := make([]models.CartItem, len(s.items))
	copy(out, s.items)
	return out
}

// commit libera o lock e notifica os observers fora dele.
// Deve ser chamado com s.mu travado.
func (s *Store) commit() {
	items := s.snapshot()
	obs := make([]Observer, 0, len(s.observers))
	for _, sub := range s.observers {
		obs = append(obs, sub.fn)
	}
	s.notify.Lock()
	s.mu.Unlock()
	defer s.notify.Unlock()

	for _, fn := range obs {
		fn(items)
	}
}
