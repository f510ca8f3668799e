package models

import "time"

// Tipos de usuário do marketplace
const (
	UserTypeFarmer   = "agricultor"
	UserTypeConsumer = "consumidor"
)

func IsValidUserType(t string) bool {
	return t == UserTypeFarmer || t == UserTypeConsumer
}

type User struct {
	ID       string `json:"user_id"`
	Email    string `json:"email"`
	Password string `json:"-"`
	UserType string `json:"user_type"`
}

type Profile struct {
	ID        string          `json:"id" db:"user_id"`
	Email     string          `json:"email" db:"email"`
	FullName  string          `json:"full_name" db:"full_name"`
	UserType  string          `json:"user_type" db:"user_type"`
	Phone     string          `json:"phone,omitempty" db:"phone"`
	AvatarURL string          `json:"avatar_url,omitempty" db:"avatar_url"`
	Address   DeliveryAddress `json:"address" db:"address"`
	UpdatedAt time.Time       `json:"updated_at" db:"updated_at"`
}
