package models

import "time"

type OrderStatus string

const (
	OrderStatusPending  OrderStatus = "pending"
	OrderStatusAccepted OrderStatus = "accepted"
	OrderStatusRejected OrderStatus = "rejected"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusAccepted, OrderStatusRejected:
		return true
	}
	return false
}

type PaymentMethod string

const (
	PaymentCreditCard    PaymentMethod = "credit_card"
	PaymentPix           PaymentMethod = "pix"
	PaymentMealVoucher   PaymentMethod = "meal_voucher"
	PaymentMarketVoucher PaymentMethod = "market_voucher"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCreditCard, PaymentPix, PaymentMealVoucher, PaymentMarketVoucher:
		return true
	}
	return false
}

type Order struct {
	ID              string          `json:"id" db:"order_id"`
	ConsumerID      string          `json:"consumer_id" db:"consumer_id"`
	ConsumerName    string          `json:"consumer_name,omitempty" db:"-"`
	FarmerID        string          `json:"farmer_id" db:"farmer_id"`
	TotalPrice      float64         `json:"total_price" db:"total_price"`
	DeliveryAddress DeliveryAddress `json:"delivery_address" db:"delivery_address"`
	PaymentMethod   PaymentMethod   `json:"payment_method" db:"payment_method"`
	Status          OrderStatus     `json:"status" db:"status"`
	Items           []OrderItem     `json:"items" db:"-"`
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`
}

type OrderItem struct {
	OrderID         string  `json:"order_id" db:"order_id"`
	ProductID       string  `json:"product_id" db:"product_id"`
	ProductName     string  `json:"product_name" db:"product_name"`
	Quantity        int     `json:"quantity" db:"quantity"`
	PriceAtPurchase float64 `json:"price_at_purchase" db:"price_at_purchase"`
}
