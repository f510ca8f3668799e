package repository

import (
	"errors"

	"feira_back_end/internal/models"

	"github.com/gocql/gocql"
	"github.com/google/uuid"
)

var (
	ErrNotFound      = errors.New("registro não encontrado")
	ErrEmailTaken    = errors.New("email já cadastrado")
	ErrStatusChanged = errors.New("status do pedido já foi alterado")
)

func notFound(err error) error {
	if errors.Is(err, gocql.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

// checkID recusa ids que não são uuid antes da query: o gocql falharia
// ao converter e o cliente receberia 500 em vez de 404.
func checkID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrNotFound
	}
	return nil
}

func addressToMap(a models.DeliveryAddress) map[string]string {
	return map[string]string{
		"street":       a.Street,
		"number":       a.Number,
		"neighborhood": a.Neighborhood,
		"city":         a.City,
		"state":        a.State,
		"zip_code":     a.ZipCode,
	}
}

func addressFromMap(m map[string]string) models.DeliveryAddress {
	return models.DeliveryAddress{
		Street:       m["street"],
		Number:       m["number"],
		Neighborhood: m["neighborhood"],
		City:         m["city"],
		State:        m["state"],
		ZipCode:      m["zip_code"],
	}
}
