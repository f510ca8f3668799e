package models

import "time"

// Unidades de venda aceitas pelo app
const (
	UnitPiece    = "unidade"
	UnitKilogram = "kg"
)

type Product struct {
	ID             string     `json:"id" db:"product_id"`
	FarmerID       string     `json:"farmer_id" db:"farmer_id"`
	FarmerName     string     `json:"farmer_name,omitempty" db:"-"`
	Name           string     `json:"name" db:"name"`
	Description    string     `json:"description" db:"description"`
	Price          float64    `json:"price" db:"price"`
	Unit           string     `json:"unit" db:"unit"`
	Category       string     `json:"category" db:"category"`
	ImageURL       string     `json:"image_url,omitempty" db:"image_url"`
	IsFragile      bool       `json:"is_fragile" db:"is_fragile"`
	HarvestDate    *time.Time `json:"harvest_date,omitempty" db:"harvest_date"`
	ExpirationDate *time.Time `json:"expiration_date,omitempty" db:"expiration_date"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at" db:"updated_at"`
}

func IsValidUnit(unit string) bool {
	return unit == UnitPiece || unit == UnitKilogram
}
