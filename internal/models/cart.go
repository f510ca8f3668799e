package models

// CartItem é uma linha do carrinho: os dados do produto no momento da inserção
// mais a quantidade (sempre >= 1).
type CartItem struct {
	ProductID string  `json:"product_id"`
	FarmerID  string  `json:"farmer_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Unit      string  `json:"unit"`
	ImageURL  string  `json:"image_url,omitempty"`
	Quantity  int     `json:"quantity"`
}

// Subtotal = preço unitário x quantidade
func (i CartItem) Subtotal() float64 {
	return i.Price * float64(i.Quantity)
}
