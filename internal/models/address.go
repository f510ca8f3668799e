package models

import "fmt"

// DeliveryAddress é copiado do perfil no momento do checkout.
type DeliveryAddress struct {
	Street       string `json:"street"`
	Number       string `json:"number"`
	Neighborhood string `json:"neighborhood"`
	City         string `json:"city"`
	State        string `json:"state"`
	ZipCode      string `json:"zip_code"`
}

func (a DeliveryAddress) IsEmpty() bool {
	return a.Street == "" || a.City == ""
}

func (a DeliveryAddress) String() string {
	if a.IsEmpty() {
		return "Endereço não cadastrado"
	}
	return fmt.Sprintf("%s, %s - %s, %s - %s", a.Street, a.Number, a.Neighborhood, a.City, a.State)
}
