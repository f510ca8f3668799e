package product

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"feira_back_end/internal/models"
)

// price aceita número ou texto ("3,50" vem direto do campo do app).
type price struct {
	value float64
	set   bool
}

func (p *price) UnmarshalJSON(data []byte) error {
	p.set = true
	if bytes.Equal(data, []byte("null")) {
		p.set = false
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		v, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(s), ",", "."), 64)
		if err != nil {
			return errors.New("preço inválido")
		}
		p.value = v
		return nil
	}
	return json.Unmarshal(data, &p.value)
}

type productInput struct {
	Name           string `json:"name"`
	Description    string `json:"description"`
	Price          price  `json:"price"`
	Unit           string `json:"unit"`
	Category       string `json:"category"`
	ImageURL       string `json:"image_url"`
	IsFragile      bool   `json:"is_fragile"`
	HarvestDate    string `json:"harvest_date"`
	ExpirationDate string `json:"expiration_date"`
}

func parseDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t, nil
		}
	}
	return nil, errors.New("data inválida: " + s)
}

// apply valida a entrada e copia os campos editáveis para p.
// O erro devolvido já é a mensagem para o cliente.
func (in productInput) apply(p *models.Product) error {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return errors.New("Nome do produto é obrigatório")
	}
	if !in.Price.set || in.Price.value < 0 {
		return errors.New("Preço inválido")
	}
	if in.Unit == "" {
		in.Unit = models.UnitPiece
	}
	if !models.IsValidUnit(in.Unit) {
		return errors.New("Unidade deve ser 'unidade' ou 'kg'")
	}
	if !models.IsValidCategory(in.Category) {
		return errors.New("Categoria inválida")
	}
	harvest, err := parseDate(in.HarvestDate)
	if err != nil {
		return errors.New("Data de colheita inválida")
	}
	expiration, err := parseDate(in.ExpirationDate)
	if err != nil {
		return errors.New("Data de validade inválida")
	}

	p.Name = name
	p.Description = strings.TrimSpace(in.Description)
	p.Price = in.Price.value
	p.Unit = in.Unit
	p.Category = in.Category
	p.IsFragile = in.IsFragile
	p.HarvestDate = harvest
	p.ExpirationDate = expiration
	if in.ImageURL != "" {
		p.ImageURL = in.ImageURL
	}
	return nil
}
